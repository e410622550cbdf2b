package support

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/support"
)

// SubmitMessageRequest is the public contact form
type SubmitMessageRequest struct {
	Type     string `json:"type" binding:"omitempty,oneof=contact hire support"`
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email,max=254"`
	Phone    string `json:"phone" binding:"max=50"`
	Company  string `json:"company" binding:"max=200"`
	Subject  string `json:"subject" binding:"required,max=200"`
	Message  string `json:"message" binding:"required,max=5000"`
	Budget   string `json:"budget" binding:"max=100"`
	Timeline string `json:"timeline" binding:"max=100"`
}

// Origin identifies who submitted a message
type Origin struct {
	UserID    *uuid.UUID
	IPAddress string
	UserAgent string
}

// MessageListFilter is the admin inbox query
type MessageListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search" binding:"max=100"`
	Type     string `form:"type" binding:"omitempty,oneof=contact hire support"`
	Status   string `form:"status" binding:"omitempty,oneof=new read in_progress responded closed archived"`
	Priority string `form:"priority" binding:"omitempty,oneof=low normal high urgent"`
}

// UpdateMessageStatusRequest changes status and optionally priority
type UpdateMessageStatusRequest struct {
	Status   string `json:"status" binding:"required,oneof=new read in_progress responded closed archived"`
	Priority string `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
}

// AddResponseRequest adds a reply or an internal note
type AddResponseRequest struct {
	Content    string `json:"content" binding:"required,max=5000"`
	IsInternal bool   `json:"is_internal"`
}

// ResponseView is one reply
type ResponseView struct {
	ID         uuid.UUID  `json:"id"`
	Content    string     `json:"content"`
	AuthorID   *uuid.UUID `json:"author_id"` // null once the author is deleted
	IsInternal bool       `json:"is_internal"`
	CreatedAt  time.Time  `json:"created_at"`
}

// MessageResponse is the API view of a message
type MessageResponse struct {
	ID          uuid.UUID      `json:"id"`
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Phone       string         `json:"phone,omitempty"`
	Company     string         `json:"company,omitempty"`
	Subject     string         `json:"subject"`
	Message     string         `json:"message"`
	Budget      string         `json:"budget,omitempty"`
	Timeline    string         `json:"timeline,omitempty"`
	UserID      *uuid.UUID     `json:"user_id,omitempty"`
	Status      string         `json:"status"`
	Priority    string         `json:"priority"`
	Responses   []ResponseView `json:"responses"`
	RespondedAt *time.Time     `json:"responded_at,omitempty"`
	IPAddress   string         `json:"ip_address,omitempty"`
	UserAgent   string         `json:"user_agent,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ToMessageResponse converts a message. The requester's view drops
// internal notes and the request metadata.
func ToMessageResponse(m *support.Message, admin bool) MessageResponse {
	responses := m.Responses
	if !admin {
		responses = m.PublicResponses()
	}
	views := make([]ResponseView, len(responses))
	for i, r := range responses {
		views[i] = ResponseView{
			ID:         r.ID,
			Content:    r.Content,
			IsInternal: r.IsInternal,
			CreatedAt:  r.At,
		}
		if r.AuthorID != uuid.Nil {
			author := r.AuthorID
			views[i].AuthorID = &author
		}
	}

	resp := MessageResponse{
		ID:          m.ID,
		Type:        string(m.Type),
		Name:        m.Name,
		Email:       m.Email,
		Phone:       m.Phone,
		Company:     m.Company,
		Subject:     m.Subject,
		Message:     m.Body,
		Budget:      m.Budget,
		Timeline:    m.Timeline,
		UserID:      m.UserID,
		Status:      string(m.Status),
		Priority:    string(m.Priority),
		Responses:   views,
		RespondedAt: m.RespondedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if admin {
		resp.IPAddress = m.IPAddress
		resp.UserAgent = m.UserAgent
	}
	return resp
}
