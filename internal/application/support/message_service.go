// Package support implements the contact inbox.
package support

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/support"
	"go.uber.org/zap"
)

// MessageService handles contact, hire and support messages
type MessageService struct {
	repo   support.MessageRepository
	events shared.EventPublisher
	logger *zap.Logger
}

// NewMessageService creates a new MessageService
func NewMessageService(repo support.MessageRepository, events shared.EventPublisher, logger *zap.Logger) *MessageService {
	return &MessageService{repo: repo, events: events, logger: logger}
}

// Submit records a message from the public form
func (s *MessageService) Submit(ctx context.Context, req SubmitMessageRequest, origin Origin) (*MessageResponse, error) {
	msg, err := support.NewMessage(support.Submission{
		Type:     support.MessageType(req.Type),
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Company:  req.Company,
		Subject:  req.Subject,
		Body:     req.Message,
		Budget:   req.Budget,
		Timeline: req.Timeline,
	}, origin.UserID, origin.IPAddress, origin.UserAgent)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}
	s.publish(ctx, msg)

	s.logger.Info("Message received",
		zap.String("message_id", msg.ID.String()),
		zap.String("type", string(msg.Type)),
		zap.String("priority", string(msg.Priority)))

	resp := ToMessageResponse(msg, false)
	return &resp, nil
}

// List returns the admin inbox
func (s *MessageService) List(ctx context.Context, f MessageListFilter) (shared.Paginated[MessageResponse], error) {
	filter := support.MessageFilter{
		Filter: shared.Filter{Page: f.Page, PageSize: f.PageSize, Search: f.Search}.Normalize(),
	}
	if f.Type != "" {
		t := support.MessageType(f.Type)
		filter.Type = &t
	}
	if f.Status != "" {
		st := support.MessageStatus(f.Status)
		filter.Status = &st
	}
	if f.Priority != "" {
		p := support.Priority(f.Priority)
		filter.Priority = &p
	}
	return s.find(ctx, filter, true)
}

// ListMine returns the messages submitted by userID
func (s *MessageService) ListMine(ctx context.Context, userID uuid.UUID, page, pageSize int) (shared.Paginated[MessageResponse], error) {
	filter := support.MessageFilter{
		Filter: shared.Filter{Page: page, PageSize: pageSize}.Normalize(),
		UserID: &userID,
	}
	return s.find(ctx, filter, false)
}

func (s *MessageService) find(ctx context.Context, filter support.MessageFilter, admin bool) (shared.Paginated[MessageResponse], error) {
	msgs, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[MessageResponse]{}, err
	}
	items := make([]MessageResponse, len(msgs))
	for i, m := range msgs {
		items[i] = ToMessageResponse(m, admin)
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Get returns a message to an admin. Opening a new message marks it read.
func (s *MessageService) Get(ctx context.Context, id uuid.UUID) (*MessageResponse, error) {
	msg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg.MarkRead() {
		if err := s.repo.Save(ctx, msg); err != nil {
			return nil, err
		}
	}
	resp := ToMessageResponse(msg, true)
	return &resp, nil
}

// GetMine returns a message to the user who submitted it. Other users get
// NOT_FOUND so message ids cannot be probed.
func (s *MessageService) GetMine(ctx context.Context, id, userID uuid.UUID) (*MessageResponse, error) {
	msg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !msg.IsOwnedBy(userID) {
		return nil, shared.ErrNotFound
	}
	resp := ToMessageResponse(msg, false)
	return &resp, nil
}

// UpdateStatus sets the status and, if given, the priority
func (s *MessageService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateMessageStatusRequest) (*MessageResponse, error) {
	msg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := msg.ChangeStatus(support.MessageStatus(req.Status)); err != nil {
		return nil, err
	}
	if req.Priority != "" {
		if err := msg.SetPriority(support.Priority(req.Priority)); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Save(ctx, msg); err != nil {
		return nil, err
	}

	resp := ToMessageResponse(msg, true)
	return &resp, nil
}

// AddResponse replies to a message or adds an internal note
func (s *MessageService) AddResponse(ctx context.Context, id, adminID uuid.UUID, req AddResponseRequest) (*MessageResponse, error) {
	msg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r, err := msg.AddResponse(adminID, req.Content, req.IsInternal)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AddResponse(ctx, msg, r); err != nil {
		return nil, err
	}
	s.publish(ctx, msg)

	s.logger.Info("Message response added",
		zap.String("message_id", id.String()),
		zap.Bool("internal", req.IsInternal))

	resp := ToMessageResponse(msg, true)
	return &resp, nil
}

// Delete removes a message and its responses
func (s *MessageService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Message deleted", zap.String("message_id", id.String()))
	return nil
}

func (s *MessageService) publish(ctx context.Context, msg *support.Message) {
	if err := shared.PublishAndClear(ctx, s.events, msg); err != nil {
		s.logger.Warn("Failed to publish message events", zap.Error(err))
	}
}
