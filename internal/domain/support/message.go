package support

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// MessageType is the kind of inbound message
type MessageType string

const (
	MessageTypeContact MessageType = "contact"
	MessageTypeHire    MessageType = "hire"
	MessageTypeSupport MessageType = "support"
)

// IsValid checks if the type is known
func (t MessageType) IsValid() bool {
	switch t {
	case MessageTypeContact, MessageTypeHire, MessageTypeSupport:
		return true
	}
	return false
}

// MessageStatus is the handling state of a message
type MessageStatus string

const (
	MessageStatusNew        MessageStatus = "new"
	MessageStatusRead       MessageStatus = "read"
	MessageStatusInProgress MessageStatus = "in_progress"
	MessageStatusResponded  MessageStatus = "responded"
	MessageStatusClosed     MessageStatus = "closed"
	MessageStatusArchived   MessageStatus = "archived"
)

// MessageStatuses lists every message status
var MessageStatuses = []MessageStatus{
	MessageStatusNew,
	MessageStatusRead,
	MessageStatusInProgress,
	MessageStatusResponded,
	MessageStatusClosed,
	MessageStatusArchived,
}

// IsValid checks if the status is known
func (s MessageStatus) IsValid() bool {
	for _, known := range MessageStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Priority ranks messages for triage
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// IsValid checks if the priority is known
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Response is one entry of a message thread. AuthorID is uuid.Nil once the
// author's account has been deleted.
type Response struct {
	ID         uuid.UUID
	MessageID  uuid.UUID
	Content    string
	AuthorID   uuid.UUID
	IsInternal bool
	At         time.Time
}

// Message is a contact, hire or support request
type Message struct {
	shared.BaseAggregateRoot
	Type        MessageType
	Name        string
	Email       string
	Phone       string
	Company     string
	Subject     string
	Body        string
	Budget      string
	Timeline    string
	UserID      *uuid.UUID
	Status      MessageStatus
	Priority    Priority
	Responses   []Response
	RespondedAt *time.Time
	IPAddress   string
	UserAgent   string
}

// Submission carries the requester-supplied fields of a new message
type Submission struct {
	Type     MessageType
	Name     string
	Email    string
	Phone    string
	Company  string
	Subject  string
	Body     string
	Budget   string
	Timeline string
	Priority Priority
}

// NewMessage validates a submission and creates a message in status new
func NewMessage(s Submission, userID *uuid.UUID, ipAddress, userAgent string) (*Message, error) {
	if s.Type == "" {
		s.Type = MessageTypeContact
	}
	if !s.Type.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Message type must be one of: contact, hire, support")
	}

	name := strings.TrimSpace(s.Name)
	if name == "" || len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Name is required and cannot exceed 100 characters")
	}
	email := strings.ToLower(strings.TrimSpace(s.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email address is invalid")
	}
	subject := strings.TrimSpace(s.Subject)
	if subject == "" || len(subject) > 200 {
		return nil, shared.NewDomainError("INVALID_SUBJECT", "Subject is required and cannot exceed 200 characters")
	}
	body := strings.TrimSpace(s.Body)
	if body == "" || len(body) > 5000 {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Message is required and cannot exceed 5000 characters")
	}

	priority := s.Priority
	if priority == "" {
		priority = PriorityNormal
		if s.Type == MessageTypeHire {
			priority = PriorityHigh
		}
	}
	if !priority.IsValid() {
		return nil, shared.NewDomainError("INVALID_PRIORITY", "Priority must be one of: low, normal, high, urgent")
	}

	m := &Message{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Type:              s.Type,
		Name:              name,
		Email:             email,
		Phone:             strings.TrimSpace(s.Phone),
		Company:           strings.TrimSpace(s.Company),
		Subject:           subject,
		Body:              body,
		Budget:            strings.TrimSpace(s.Budget),
		Timeline:          strings.TrimSpace(s.Timeline),
		UserID:            userID,
		Status:            MessageStatusNew,
		Priority:          priority,
		Responses:         make([]Response, 0),
		IPAddress:         ipAddress,
		UserAgent:         truncate(userAgent, 500),
	}

	m.AddDomainEvent(NewMessageReceivedEvent(m))

	return m, nil
}

// MarkRead moves a new message to read. It reports whether it changed.
func (m *Message) MarkRead() bool {
	if m.Status != MessageStatusNew {
		return false
	}
	m.Status = MessageStatusRead
	m.Touch()
	return true
}

// ChangeStatus sets the status directly (admin action)
func (m *Message) ChangeStatus(status MessageStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown message status")
	}
	if m.Status == status {
		return nil
	}
	m.Status = status
	if status == MessageStatusResponded && m.RespondedAt == nil {
		now := time.Now()
		m.RespondedAt = &now
	}
	m.Touch()
	return nil
}

// SetPriority changes the triage priority
func (m *Message) SetPriority(p Priority) error {
	if !p.IsValid() {
		return shared.NewDomainError("INVALID_PRIORITY", "Priority must be one of: low, normal, high, urgent")
	}
	m.Priority = p
	m.Touch()
	return nil
}

// AddResponse appends a response. The first non-internal response moves
// the message to responded; internal notes never change the status.
func (m *Message) AddResponse(authorID uuid.UUID, content string, internal bool) (*Response, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, shared.NewDomainError("INVALID_RESPONSE", "Response content cannot be empty")
	}
	if len(content) > 5000 {
		return nil, shared.NewDomainError("INVALID_RESPONSE", "Response cannot exceed 5000 characters")
	}

	r := Response{
		ID:         uuid.New(),
		MessageID:  m.ID,
		Content:    content,
		AuthorID:   authorID,
		IsInternal: internal,
		At:         time.Now(),
	}
	m.Responses = append(m.Responses, r)

	if !internal && m.RespondedAt == nil {
		m.Status = MessageStatusResponded
		m.RespondedAt = &r.At
		m.AddDomainEvent(NewMessageRespondedEvent(m, &r))
	}
	m.Touch()

	return &r, nil
}

// PublicResponses returns the responses visible to the requester
func (m *Message) PublicResponses() []Response {
	out := make([]Response, 0, len(m.Responses))
	for _, r := range m.Responses {
		if !r.IsInternal {
			out = append(out, r)
		}
	}
	return out
}

// IsOwnedBy reports whether the message was submitted by userID
func (m *Message) IsOwnedBy(userID uuid.UUID) bool {
	return m.UserID != nil && *m.UserID == userID
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
