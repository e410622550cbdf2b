package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/application/support"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func messageRouter(svc *mockMessageService, mw ...gin.HandlerFunc) *gin.Engine {
	h := NewMessageHandler(NewBaseHandler(false), svc)
	r := newEngine(mw...)
	r.POST("/messages", h.Submit)
	r.GET("/messages/my", h.ListMine)
	r.GET("/messages/my/:id", h.GetMine)
	r.GET("/messages", h.List)
	r.GET("/messages/:id", h.Get)
	r.PATCH("/messages/:id/status", h.UpdateStatus)
	r.POST("/messages/:id/responses", h.AddResponse)
	r.DELETE("/messages/:id", h.Delete)
	return r
}

func messageBody() map[string]any {
	return map[string]any{
		"type":    "hire",
		"name":    "Linus",
		"email":   "linus@example.com",
		"subject": "Kernel work",
		"message": "Need a scheduler",
	}
}

func TestMessageHandler_Submit(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		svc := new(mockMessageService)
		svc.On("Submit", mock.Anything, mock.MatchedBy(func(req support.SubmitMessageRequest) bool {
			return req.Type == "hire" && req.Subject == "Kernel work"
		}), mock.MatchedBy(func(o support.Origin) bool {
			return o.UserID == nil && o.UserAgent == "curl/8.5.0" && o.IPAddress != ""
		})).Return(&support.MessageResponse{ID: uuid.New(), Type: "hire"}, nil)

		w := perform(messageRouter(svc), http.MethodPost, "/messages", messageBody(), "User-Agent", "curl/8.5.0")
		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("linked to the caller", func(t *testing.T) {
		userID := uuid.New()
		svc := new(mockMessageService)
		svc.On("Submit", mock.Anything, mock.Anything, mock.MatchedBy(func(o support.Origin) bool {
			return o.UserID != nil && *o.UserID == userID
		})).Return(&support.MessageResponse{ID: uuid.New()}, nil)

		w := perform(messageRouter(svc, asUser(userID, customer)), http.MethodPost, "/messages", messageBody())
		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("bad email", func(t *testing.T) {
		svc := new(mockMessageService)
		body := messageBody()
		body["email"] = "linus"

		w := perform(messageRouter(svc), http.MethodPost, "/messages", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "email", decode(t, w).Errors[0].Field)
	})
}

func TestMessageHandler_Mine(t *testing.T) {
	userID := uuid.New()
	msgID := uuid.New()

	t.Run("list", func(t *testing.T) {
		svc := new(mockMessageService)
		svc.On("ListMine", mock.Anything, userID, 1, 10).
			Return(shared.NewPaginated([]support.MessageResponse{{ID: msgID}}, 1, 1, 10), nil)

		w := perform(messageRouter(svc, asUser(userID, customer)), http.MethodGet, "/messages/my?page=1&page_size=10", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("someone else's", func(t *testing.T) {
		svc := new(mockMessageService)
		svc.On("GetMine", mock.Anything, msgID, userID).Return(nil, shared.ErrNotFound)

		w := perform(messageRouter(svc, asUser(userID, customer)), http.MethodGet, "/messages/my/"+msgID.String(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestMessageHandler_Admin(t *testing.T) {
	adminID := uuid.New()
	msgID := uuid.New()

	t.Run("filter", func(t *testing.T) {
		svc := new(mockMessageService)
		svc.On("List", mock.Anything, mock.MatchedBy(func(f support.MessageListFilter) bool {
			return f.Status == "new" && f.Type == "support"
		})).Return(shared.NewPaginated[support.MessageResponse](nil, 0, 1, 20), nil)

		w := perform(messageRouter(svc, asUser(adminID, admin)), http.MethodGet, "/messages?status=new&type=support", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []any{}, decode(t, w).Data)
	})

	t.Run("reply", func(t *testing.T) {
		svc := new(mockMessageService)
		svc.On("AddResponse", mock.Anything, msgID, adminID, mock.MatchedBy(func(req support.AddResponseRequest) bool {
			return req.Content == "On it" && !req.IsInternal
		})).Return(&support.MessageResponse{ID: msgID, Status: "responded"}, nil)

		w := perform(messageRouter(svc, asUser(adminID, admin)), http.MethodPost, "/messages/"+msgID.String()+"/responses",
			map[string]any{"content": "On it"})
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "responded", dataMap(t, decode(t, w))["status"])
	})

	t.Run("status", func(t *testing.T) {
		svc := new(mockMessageService)
		svc.On("UpdateStatus", mock.Anything, msgID, mock.Anything).Return(&support.MessageResponse{ID: msgID, Status: "archived"}, nil)

		w := perform(messageRouter(svc, asUser(adminID, admin)), http.MethodPatch, "/messages/"+msgID.String()+"/status",
			map[string]any{"status": "archived"})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		svc := new(mockMessageService)
		svc.On("Delete", mock.Anything, msgID).Return(nil)

		w := perform(messageRouter(svc, asUser(adminID, admin)), http.MethodDelete, "/messages/"+msgID.String(), nil)
		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})
}
