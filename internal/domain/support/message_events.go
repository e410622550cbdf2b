package support

import (
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// AggregateTypeMessage is the aggregate type name for messages
const AggregateTypeMessage = "Message"

// Event type constants
const (
	EventTypeMessageReceived  = "MessageReceived"
	EventTypeMessageResponded = "MessageResponded"
)

// MessageReceivedEvent is raised when a message is submitted
type MessageReceivedEvent struct {
	shared.BaseDomainEvent
	MessageID uuid.UUID   `json:"message_id"`
	Type      MessageType `json:"type"`
	Priority  Priority    `json:"priority"`
	Email     string      `json:"email"`
	Subject   string      `json:"subject"`
}

// NewMessageReceivedEvent creates a new MessageReceivedEvent
func NewMessageReceivedEvent(m *Message) *MessageReceivedEvent {
	return &MessageReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMessageReceived, AggregateTypeMessage, m.ID),
		MessageID:       m.ID,
		Type:            m.Type,
		Priority:        m.Priority,
		Email:           m.Email,
		Subject:         m.Subject,
	}
}

// MessageRespondedEvent is raised on the first customer-visible response
type MessageRespondedEvent struct {
	shared.BaseDomainEvent
	MessageID  uuid.UUID `json:"message_id"`
	ResponseID uuid.UUID `json:"response_id"`
	AuthorID   uuid.UUID `json:"author_id"`
	Email      string    `json:"email"`
}

// NewMessageRespondedEvent creates a new MessageRespondedEvent
func NewMessageRespondedEvent(m *Message, r *Response) *MessageRespondedEvent {
	return &MessageRespondedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMessageResponded, AggregateTypeMessage, m.ID),
		MessageID:       m.ID,
		ResponseID:      r.ID,
		AuthorID:        r.AuthorID,
		Email:           m.Email,
	}
}
