package support

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// MessageFilter contains filter options for listing messages
type MessageFilter struct {
	shared.Filter
	Type     *MessageType
	Status   *MessageStatus
	Priority *Priority
	UserID   *uuid.UUID
}

// StatusCount is the number of messages in a status
type StatusCount struct {
	Status MessageStatus
	Count  int64
}

// MessageRepository defines the interface for message persistence
type MessageRepository interface {
	Create(ctx context.Context, message *Message) error

	// Save updates the message row with an optimistic version check.
	// Responses are written with AddResponse.
	Save(ctx context.Context, message *Message) error

	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID loads a message with its responses in order
	FindByID(ctx context.Context, id uuid.UUID) (*Message, error)

	FindAll(ctx context.Context, filter MessageFilter) ([]*Message, int64, error)

	CountByStatus(ctx context.Context) ([]StatusCount, error)

	Count(ctx context.Context) (int64, error)

	// AddResponse inserts the response and saves the message in one transaction
	AddResponse(ctx context.Context, message *Message, response *Response) error
}
