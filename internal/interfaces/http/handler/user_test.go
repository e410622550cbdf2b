package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/application/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func userRouter(svc *mockUserService, adminID uuid.UUID) *gin.Engine {
	h := NewUserHandler(NewBaseHandler(false), svc)
	r := newEngine(asUser(adminID, admin))
	r.GET("/users", h.List)
	r.GET("/users/:id", h.Get)
	r.PUT("/users/:id", h.Update)
	r.PATCH("/users/:id/verification", h.SetVerification)
	r.DELETE("/users/:id", h.Delete)
	return r
}

func TestUserHandler_List(t *testing.T) {
	svc := new(mockUserService)
	verified := true
	svc.On("List", mock.Anything, identity.UserListFilter{Search: "ada", Verified: &verified}).
		Return(shared.NewPaginated([]identity.UserResponse{{Name: "Ada"}}, 1, 1, 20), nil)

	w := perform(userRouter(svc, uuid.New()), http.MethodGet, "/users?search=ada&verified=true", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestUserHandler_Update(t *testing.T) {
	adminID := uuid.New()
	userID := uuid.New()

	t.Run("promote", func(t *testing.T) {
		svc := new(mockUserService)
		svc.On("Update", mock.Anything, adminID, userID, mock.MatchedBy(func(req identity.AdminUpdateUserRequest) bool {
			return req.Role != nil && *req.Role == "admin"
		})).Return(&identity.UserResponse{ID: userID, Role: "admin"}, nil)

		w := perform(userRouter(svc, adminID), http.MethodPut, "/users/"+userID.String(), map[string]any{"role": "admin"})
		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("unknown role", func(t *testing.T) {
		svc := new(mockUserService)
		w := perform(userRouter(svc, adminID), http.MethodPut, "/users/"+userID.String(), map[string]any{"role": "root"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("own role", func(t *testing.T) {
		svc := new(mockUserService)
		svc.On("Update", mock.Anything, adminID, adminID, mock.Anything).Return(nil, shared.ErrForbidden)

		w := perform(userRouter(svc, adminID), http.MethodPut, "/users/"+adminID.String(), map[string]any{"role": "user"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestUserHandler_SetVerification(t *testing.T) {
	adminID := uuid.New()
	userID := uuid.New()

	t.Run("set", func(t *testing.T) {
		svc := new(mockUserService)
		svc.On("SetVerification", mock.Anything, userID, false).Return(&identity.UserResponse{ID: userID}, nil)

		w := perform(userRouter(svc, adminID), http.MethodPatch, "/users/"+userID.String()+"/verification",
			map[string]any{"is_verified": false})
		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("missing flag", func(t *testing.T) {
		svc := new(mockUserService)
		w := perform(userRouter(svc, adminID), http.MethodPatch, "/users/"+userID.String()+"/verification", map[string]any{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNumberOfCalls(t, "SetVerification", 0)
	})
}

func TestUserHandler_Delete(t *testing.T) {
	adminID := uuid.New()
	userID := uuid.New()

	t.Run("deleted", func(t *testing.T) {
		svc := new(mockUserService)
		svc.On("Delete", mock.Anything, adminID, userID).Return(nil)

		w := perform(userRouter(svc, adminID), http.MethodDelete, "/users/"+userID.String(), nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("has orders", func(t *testing.T) {
		svc := new(mockUserService)
		svc.On("Delete", mock.Anything, adminID, userID).
			Return(shared.NewDomainError("USER_HAS_ORDERS", "Cannot delete a user with existing orders"))

		w := perform(userRouter(svc, adminID), http.MethodDelete, "/users/"+userID.String(), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "USER_HAS_ORDERS", decode(t, w).Code)
	})
}
