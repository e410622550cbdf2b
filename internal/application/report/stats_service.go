// Package report builds the admin dashboard.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/support"
	"github.com/marketplace/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// UserCounter counts accounts
type UserCounter interface {
	Count(ctx context.Context) (int64, error)
}

// ProductStats is the catalog side of the dashboard
type ProductStats interface {
	CountActive(ctx context.Context) (int64, error)
	TopSelling(ctx context.Context, limit int) ([]*catalog.Product, error)
}

// OrderStats is the order side of the dashboard
type OrderStats interface {
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) ([]trade.StatusCount, error)
	CountByPaymentStatus(ctx context.Context) ([]trade.StatusCount, error)
	SumPaidRevenue(ctx context.Context) (decimal.Decimal, error)
	PaidSince(ctx context.Context, since time.Time) ([]trade.RevenueSample, error)
	Recent(ctx context.Context, limit int) ([]*trade.Order, error)
}

// MessageStats is the inbox side of the dashboard
type MessageStats interface {
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) ([]support.StatusCount, error)
}

const (
	topProducts   = 5
	recentOrders  = 5
	revenueMonths = 12
)

// Totals are the headline counters
type Totals struct {
	Users          int64           `json:"users"`
	ActiveProducts int64           `json:"active_products"`
	Orders         int64           `json:"orders"`
	Messages       int64           `json:"messages"`
	Revenue        decimal.Decimal `json:"revenue"`
}

// TopProduct is a best seller
type TopProduct struct {
	ID    uuid.UUID       `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
	Sales int64           `json:"sales"`
}

// RecentOrder is a short order summary
type RecentOrder struct {
	ID            uuid.UUID       `json:"id"`
	OrderNumber   string          `json:"order_number"`
	UserID        uuid.UUID       `json:"user_id"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// MonthlyRevenue is paid revenue for one calendar month
type MonthlyRevenue struct {
	Month   string          `json:"month"` // YYYY-MM
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
}

// Dashboard is the admin statistics payload
type Dashboard struct {
	Totals           Totals           `json:"totals"`
	OrdersByStatus   map[string]int64 `json:"orders_by_status"`
	PaymentStatus    map[string]int64 `json:"payment_status"`
	MessagesByStatus map[string]int64 `json:"messages_by_status"`
	TopProducts      []TopProduct     `json:"top_products"`
	RecentOrders     []RecentOrder    `json:"recent_orders"`
	MonthlyRevenue   []MonthlyRevenue `json:"monthly_revenue"`
	GeneratedAt      time.Time        `json:"generated_at"`
}

// StatsService aggregates dashboard figures
type StatsService struct {
	users    UserCounter
	products ProductStats
	orders   OrderStats
	messages MessageStats
	now      func() time.Time
	logger   *zap.Logger
}

// NewStatsService creates a new StatsService
func NewStatsService(users UserCounter, products ProductStats, orders OrderStats, messages MessageStats, logger *zap.Logger) *StatsService {
	return &StatsService{
		users:    users,
		products: products,
		orders:   orders,
		messages: messages,
		now:      time.Now,
		logger:   logger,
	}
}

// Dashboard collects every dashboard figure
func (s *StatsService) Dashboard(ctx context.Context) (*Dashboard, error) {
	now := s.now().UTC()
	d := &Dashboard{GeneratedAt: now}

	var err error
	if d.Totals.Users, err = s.users.Count(ctx); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if d.Totals.ActiveProducts, err = s.products.CountActive(ctx); err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	if d.Totals.Orders, err = s.orders.Count(ctx); err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	if d.Totals.Messages, err = s.messages.Count(ctx); err != nil {
		return nil, fmt.Errorf("count messages: %w", err)
	}
	if d.Totals.Revenue, err = s.orders.SumPaidRevenue(ctx); err != nil {
		return nil, fmt.Errorf("sum revenue: %w", err)
	}

	byStatus, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("orders by status: %w", err)
	}
	d.OrdersByStatus = zeroFilled(trade.OrderStatuses, byStatus)

	byPayment, err := s.orders.CountByPaymentStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("orders by payment status: %w", err)
	}
	d.PaymentStatus = zeroFilled(trade.PaymentStatuses, byPayment)

	msgStatus, err := s.messages.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("messages by status: %w", err)
	}
	d.MessagesByStatus = make(map[string]int64, len(support.MessageStatuses))
	for _, st := range support.MessageStatuses {
		d.MessagesByStatus[string(st)] = 0
	}
	for _, c := range msgStatus {
		d.MessagesByStatus[string(c.Status)] = c.Count
	}

	top, err := s.products.TopSelling(ctx, topProducts)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	d.TopProducts = make([]TopProduct, len(top))
	for i, p := range top {
		d.TopProducts[i] = TopProduct{ID: p.ID, Title: p.Title, Price: p.Price, Sales: p.Sales}
	}

	recent, err := s.orders.Recent(ctx, recentOrders)
	if err != nil {
		return nil, fmt.Errorf("recent orders: %w", err)
	}
	d.RecentOrders = make([]RecentOrder, len(recent))
	for i, o := range recent {
		d.RecentOrders[i] = RecentOrder{
			ID:            o.ID,
			OrderNumber:   o.OrderNumber,
			UserID:        o.UserID,
			Total:         o.Total,
			Status:        string(o.Status),
			PaymentStatus: string(o.PaymentStatus),
			CreatedAt:     o.CreatedAt,
		}
	}

	start := monthStart(now).AddDate(0, -(revenueMonths - 1), 0)
	samples, err := s.orders.PaidSince(ctx, start)
	if err != nil {
		return nil, fmt.Errorf("monthly revenue: %w", err)
	}
	d.MonthlyRevenue = bucketByMonth(start, revenueMonths, samples)

	s.logger.Debug("Dashboard generated", zap.Duration("elapsed", s.now().Sub(now)))
	return d, nil
}

// zeroFilled reports every known status, including those with no rows
func zeroFilled[S ~string](known []S, counts []trade.StatusCount) map[string]int64 {
	out := make(map[string]int64, len(known))
	for _, k := range known {
		out[string(k)] = 0
	}
	for _, c := range counts {
		out[c.Status] = c.Count
	}
	return out
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// bucketByMonth sums samples into n consecutive months starting at start
func bucketByMonth(start time.Time, n int, samples []trade.RevenueSample) []MonthlyRevenue {
	out := make([]MonthlyRevenue, n)
	index := make(map[string]int, n)
	for i := 0; i < n; i++ {
		key := start.AddDate(0, i, 0).Format("2006-01")
		out[i] = MonthlyRevenue{Month: key, Revenue: decimal.Zero}
		index[key] = i
	}
	for _, s := range samples {
		i, ok := index[s.CreatedAt.UTC().Format("2006-01")]
		if !ok {
			continue
		}
		out[i].Revenue = out[i].Revenue.Add(s.Total)
		out[i].Orders++
	}
	return out
}
