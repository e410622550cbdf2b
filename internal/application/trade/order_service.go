package trade

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// OrderServiceConfig holds checkout settings
type OrderServiceConfig struct {
	Policy         trade.PricingPolicy
	IdempotencyTTL time.Duration
}

// DefaultOrderServiceConfig returns the default pricing and a 24h replay window
func DefaultOrderServiceConfig() OrderServiceConfig {
	return OrderServiceConfig{
		Policy:         trade.DefaultPricingPolicy(),
		IdempotencyTTL: 24 * time.Hour,
	}
}

// OrderService handles order placement and the order lifecycle
type OrderService struct {
	orderRepo   trade.OrderRepository
	txScope     TransactionScope
	idempotency shared.IdempotencyStore
	events      shared.EventPublisher
	config      OrderServiceConfig
	logger      *zap.Logger
}

// NewOrderService creates a new OrderService. idempotency may be nil, in
// which case Idempotency-Key headers are ignored.
func NewOrderService(
	orderRepo trade.OrderRepository,
	txScope TransactionScope,
	idempotency shared.IdempotencyStore,
	events shared.EventPublisher,
	config OrderServiceConfig,
	logger *zap.Logger,
) *OrderService {
	if config.IdempotencyTTL <= 0 {
		config.IdempotencyTTL = 24 * time.Hour
	}
	return &OrderService{
		orderRepo:   orderRepo,
		txScope:     txScope,
		idempotency: idempotency,
		events:      events,
		config:      config,
		logger:      logger,
	}
}

// ErrRequestInProgress is returned when a request with the same
// idempotency key is still being processed.
var ErrRequestInProgress = shared.NewDomainError("REQUEST_IN_PROGRESS", "A request with this idempotency key is already being processed")

// PlaceOrder creates an order for userID. Stock is reserved with a
// compare-and-swap per line inside one transaction, so a failing line
// leaves no decrement and no order behind.
//
// With a non-empty idempotencyKey the first successful result is replayed
// for the configured TTL; replayed reports whether that happened.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest, idempotencyKey string) (resp *OrderResponse, replayed bool, err error) {
	lines := make([]trade.PlacementLine, len(req.Items))
	for i, item := range req.Items {
		lines[i] = trade.PlacementLine{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	lines, err = trade.NormalizeLines(lines)
	if err != nil {
		return nil, false, err
	}

	idempotencyKey = strings.TrimSpace(idempotencyKey)
	if idempotencyKey != "" && s.idempotency != nil {
		key := fmt.Sprintf("order:%s:%s", userID, idempotencyKey)
		var prior *OrderResponse
		if prior, err = s.claim(ctx, key); err != nil {
			return nil, false, err
		}
		if prior != nil {
			return prior, true, nil
		}
		defer func() {
			if err != nil {
				if relErr := s.idempotency.Release(ctx, key); relErr != nil {
					s.logger.Warn("Failed to release idempotency key", zap.String("key", key), zap.Error(relErr))
				}
				return
			}
			if cErr := s.idempotency.Complete(ctx, key, resp.ID.String(), s.config.IdempotencyTTL); cErr != nil {
				s.logger.Warn("Failed to record idempotency result", zap.String("key", key), zap.Error(cErr))
			}
		}()
	}

	order, err := s.place(ctx, userID, lines, req)
	if err != nil {
		return nil, false, err
	}

	s.publish(ctx, order)
	s.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("user_id", userID.String()),
		zap.String("total", order.Total.StringFixed(2)))

	out := ToOrderResponse(order, false)
	return &out, false, nil
}

// claim reserves key, or returns the order recorded under it
func (s *OrderService) claim(ctx context.Context, key string) (*OrderResponse, error) {
	result, found, err := s.idempotency.Result(ctx, key)
	if err != nil {
		return nil, err
	}
	if !found {
		ok, err := s.idempotency.Reserve(ctx, key, s.config.IdempotencyTTL)
		if err != nil {
			return nil, err
		}
		if ok {
			return nil, nil
		}
		// lost the race; look again
		if result, _, err = s.idempotency.Result(ctx, key); err != nil {
			return nil, err
		}
	}
	if result == "" {
		return nil, ErrRequestInProgress
	}

	orderID, err := uuid.Parse(result)
	if err != nil {
		return nil, fmt.Errorf("corrupt idempotency record %s: %w", key, err)
	}
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	out := ToOrderResponse(order, false)
	return &out, nil
}

func (s *OrderService) place(ctx context.Context, userID uuid.UUID, lines []trade.PlacementLine, req PlaceOrderRequest) (*trade.Order, error) {
	var order *trade.Order
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		items := make([]trade.OrderItem, 0, len(lines))
		for _, line := range lines {
			product, err := repos.StockRepo().Reserve(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return err
			}
			items = append(items, trade.OrderItem{
				ProductID: product.ID,
				Title:     product.Title,
				Quantity:  line.Quantity,
				Price:     product.Price,
			})
		}

		o, err := trade.NewOrder(userID, items, trade.PaymentMethod(req.PaymentMethod),
			req.BillingAddress.toValueObject(), req.discount(), s.config.Policy)
		if err != nil {
			return err
		}
		o.CustomerNotes = strings.TrimSpace(req.CustomerNotes)

		if err := repos.OrderRepo().Create(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Get returns an order to its owner or an admin
func (s *OrderService) Get(ctx context.Context, id, userID uuid.UUID, isAdmin bool) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !order.IsOwnedBy(userID) {
		return nil, shared.ErrForbidden
	}
	resp := ToOrderResponse(order, isAdmin)
	return &resp, nil
}

// ListMine returns the caller's orders, newest first
func (s *OrderService) ListMine(ctx context.Context, userID uuid.UUID, page, pageSize int) (shared.Paginated[OrderResponse], error) {
	filter := shared.Filter{Page: page, PageSize: pageSize}.Normalize()
	orders, total, err := s.orderRepo.FindByUser(ctx, userID, filter)
	if err != nil {
		return shared.Paginated[OrderResponse]{}, err
	}
	return toPage(orders, total, filter, false), nil
}

// ListAll returns orders matching an admin filter
func (s *OrderService) ListAll(ctx context.Context, f OrderListFilter) (shared.Paginated[OrderResponse], error) {
	filter := trade.OrderFilter{
		Filter: shared.Filter{Page: f.Page, PageSize: f.PageSize}.Normalize(),
	}
	if f.Status != "" {
		st := trade.OrderStatus(f.Status)
		filter.Status = &st
	}
	if f.PaymentStatus != "" {
		ps := trade.PaymentStatus(f.PaymentStatus)
		filter.PaymentStatus = &ps
	}
	if f.UserID != "" {
		uid, err := uuid.Parse(f.UserID)
		if err != nil {
			return shared.Paginated[OrderResponse]{}, shared.NewDomainError("INVALID_INPUT", "user_id must be a UUID")
		}
		filter.UserID = &uid
	}
	var err error
	if filter.From, err = parseDate(f.From, false); err != nil {
		return shared.Paginated[OrderResponse]{}, err
	}
	if filter.To, err = parseDate(f.To, true); err != nil {
		return shared.Paginated[OrderResponse]{}, err
	}

	orders, total, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[OrderResponse]{}, err
	}
	return toPage(orders, total, filter.Filter, true), nil
}

// parseDate accepts RFC 3339 or YYYY-MM-DD. A bare end date covers the whole day.
func parseDate(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Dates must be RFC 3339 or YYYY-MM-DD")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func toPage(orders []*trade.Order, total int64, filter shared.Filter, includeInternal bool) shared.Paginated[OrderResponse] {
	items := make([]OrderResponse, len(orders))
	for i, o := range orders {
		items[i] = ToOrderResponse(o, includeInternal)
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize)
}

// UpdateStatus moves an order to a new status. Cancelling goes through
// Cancel so stock is restored.
func (s *OrderService) UpdateStatus(ctx context.Context, id, adminID uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	status := trade.OrderStatus(req.Status)
	if status == trade.OrderStatusCancelled {
		return s.Cancel(ctx, id, adminID, true, req.Note)
	}

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.ChangeStatus(status, req.Note, &adminID); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publish(ctx, order)

	s.logger.Info("Order status changed",
		zap.String("order_id", id.String()),
		zap.String("status", req.Status),
		zap.String("admin_id", adminID.String()))

	resp := ToOrderResponse(order, true)
	return &resp, nil
}

// Cancel cancels an order and puts its stock back in the same
// transaction. Owners may cancel while pending or confirmed; admins may
// cancel any order that has not been fulfilled or closed.
func (s *OrderService) Cancel(ctx context.Context, id, actorID uuid.UUID, isAdmin bool, reason string) (*OrderResponse, error) {
	var order *trade.Order
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !isAdmin {
			if !o.IsOwnedBy(actorID) {
				return shared.ErrForbidden
			}
			if !o.CanBeCancelledByCustomer() {
				return shared.NewDomainError("CANNOT_CANCEL", "Only pending or confirmed orders can be cancelled")
			}
		}

		if err := o.Cancel(reason, &actorID); err != nil {
			return err
		}
		for _, item := range o.Items {
			if err := repos.StockRepo().Release(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		if err := repos.OrderRepo().Save(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, order)

	s.logger.Info("Order cancelled",
		zap.String("order_id", id.String()),
		zap.String("actor_id", actorID.String()),
		zap.Bool("by_admin", isAdmin))

	resp := ToOrderResponse(order, isAdmin)
	return &resp, nil
}

// UpdatePayment sets the payment status
func (s *OrderService) UpdatePayment(ctx context.Context, id uuid.UUID, req UpdatePaymentRequest) (*OrderResponse, error) {
	return s.mutate(ctx, id, func(o *trade.Order) error {
		return o.UpdatePaymentStatus(trade.PaymentStatus(req.PaymentStatus), req.TransactionID)
	})
}

// AddNote appends an admin note. Internal notes are hidden from the customer.
func (s *OrderService) AddNote(ctx context.Context, id, adminID uuid.UUID, req AddNoteRequest) (*OrderResponse, error) {
	return s.mutate(ctx, id, func(o *trade.Order) error {
		_, err := o.AddNote(req.Content, adminID, req.IsInternal)
		return err
	})
}

// AddDeliveryFiles attaches deliverables
func (s *OrderService) AddDeliveryFiles(ctx context.Context, id uuid.UUID, req AddDeliveryFilesRequest) (*OrderResponse, error) {
	return s.mutate(ctx, id, func(o *trade.Order) error {
		now := time.Now()
		for _, f := range req.Files {
			err := o.AddDeliveryFile(trade.DeliveryFile{
				Name:        f.Name,
				URL:         f.URL,
				Key:         f.Key,
				Size:        f.Size,
				ContentType: f.ContentType,
				UploadedAt:  now,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// mutate loads an order, applies fn and saves it
func (s *OrderService) mutate(ctx context.Context, id uuid.UUID, fn func(*trade.Order) error) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(order); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			s.logger.Info("Order changed concurrently", zap.String("order_id", id.String()))
		}
		return nil, err
	}
	s.publish(ctx, order)

	resp := ToOrderResponse(order, true)
	return &resp, nil
}

func (s *OrderService) publish(ctx context.Context, order *trade.Order) {
	if err := shared.PublishAndClear(ctx, s.events, order); err != nil {
		s.logger.Warn("Failed to publish order events",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
	}
}
