package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/application/cart"
	"github.com/marketplace/backend/internal/application/catalog"
	"github.com/marketplace/backend/internal/application/identity"
	"github.com/marketplace/backend/internal/application/media"
	"github.com/marketplace/backend/internal/application/report"
	"github.com/marketplace/backend/internal/application/support"
	"github.com/marketplace/backend/internal/application/trade"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// ptr returns the typed first result of a mocked call, or nil
func ptr[T any](args mock.Arguments) *T {
	if v := args.Get(0); v != nil {
		return v.(*T)
	}
	return nil
}

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Register(ctx context.Context, req identity.RegisterRequest) (*identity.AuthResult, error) {
	args := m.Called(ctx, req)
	return ptr[identity.AuthResult](args), args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, req identity.LoginRequest) (*identity.AuthResult, error) {
	args := m.Called(ctx, req)
	return ptr[identity.AuthResult](args), args.Error(1)
}

func (m *mockAuthService) RefreshToken(ctx context.Context, req identity.RefreshTokenRequest) (*identity.TokenResponse, error) {
	args := m.Called(ctx, req)
	return ptr[identity.TokenResponse](args), args.Error(1)
}

func (m *mockAuthService) Logout(ctx context.Context, input identity.LogoutInput) error {
	return m.Called(ctx, input).Error(0)
}

func (m *mockAuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*identity.UserResponse, error) {
	args := m.Called(ctx, userID)
	return ptr[identity.UserResponse](args), args.Error(1)
}

func (m *mockAuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req identity.UpdateProfileRequest) (*identity.UserResponse, error) {
	args := m.Called(ctx, userID, req)
	return ptr[identity.UserResponse](args), args.Error(1)
}

func (m *mockAuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req identity.ChangePasswordRequest) error {
	return m.Called(ctx, userID, req).Error(0)
}

type mockProductService struct{ mock.Mock }

func (m *mockProductService) List(ctx context.Context, f catalog.ProductListFilter, isAdmin bool) (shared.Paginated[catalog.ProductResponse], error) {
	args := m.Called(ctx, f, isAdmin)
	return args.Get(0).(shared.Paginated[catalog.ProductResponse]), args.Error(1)
}

func (m *mockProductService) Get(ctx context.Context, id uuid.UUID, isAdmin bool) (*catalog.ProductResponse, error) {
	args := m.Called(ctx, id, isAdmin)
	return ptr[catalog.ProductResponse](args), args.Error(1)
}

func (m *mockProductService) Create(ctx context.Context, adminID uuid.UUID, req catalog.CreateProductRequest) (*catalog.ProductResponse, error) {
	args := m.Called(ctx, adminID, req)
	return ptr[catalog.ProductResponse](args), args.Error(1)
}

func (m *mockProductService) Update(ctx context.Context, id uuid.UUID, req catalog.UpdateProductRequest) (*catalog.ProductResponse, error) {
	args := m.Called(ctx, id, req)
	return ptr[catalog.ProductResponse](args), args.Error(1)
}

func (m *mockProductService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProductService) Categories(ctx context.Context) ([]catalog.CategoryResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.CategoryResponse), args.Error(1)
}

func (m *mockProductService) AddReview(ctx context.Context, productID, userID uuid.UUID, req catalog.CreateReviewRequest) (*catalog.ReviewResponse, error) {
	args := m.Called(ctx, productID, userID, req)
	return ptr[catalog.ReviewResponse](args), args.Error(1)
}

func (m *mockProductService) ListReviews(ctx context.Context, productID uuid.UUID, page, pageSize int) (shared.Paginated[catalog.ReviewResponse], error) {
	args := m.Called(ctx, productID, page, pageSize)
	return args.Get(0).(shared.Paginated[catalog.ReviewResponse]), args.Error(1)
}

type mockOrderService struct{ mock.Mock }

func (m *mockOrderService) PlaceOrder(ctx context.Context, userID uuid.UUID, req trade.PlaceOrderRequest, key string) (*trade.OrderResponse, bool, error) {
	args := m.Called(ctx, userID, req, key)
	return ptr[trade.OrderResponse](args), args.Bool(1), args.Error(2)
}

func (m *mockOrderService) Get(ctx context.Context, id, userID uuid.UUID, isAdmin bool) (*trade.OrderResponse, error) {
	args := m.Called(ctx, id, userID, isAdmin)
	return ptr[trade.OrderResponse](args), args.Error(1)
}

func (m *mockOrderService) ListMine(ctx context.Context, userID uuid.UUID, page, pageSize int) (shared.Paginated[trade.OrderResponse], error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).(shared.Paginated[trade.OrderResponse]), args.Error(1)
}

func (m *mockOrderService) ListAll(ctx context.Context, f trade.OrderListFilter) (shared.Paginated[trade.OrderResponse], error) {
	args := m.Called(ctx, f)
	return args.Get(0).(shared.Paginated[trade.OrderResponse]), args.Error(1)
}

func (m *mockOrderService) UpdateStatus(ctx context.Context, id, adminID uuid.UUID, req trade.UpdateStatusRequest) (*trade.OrderResponse, error) {
	args := m.Called(ctx, id, adminID, req)
	return ptr[trade.OrderResponse](args), args.Error(1)
}

func (m *mockOrderService) Cancel(ctx context.Context, id, actorID uuid.UUID, isAdmin bool, reason string) (*trade.OrderResponse, error) {
	args := m.Called(ctx, id, actorID, isAdmin, reason)
	return ptr[trade.OrderResponse](args), args.Error(1)
}

func (m *mockOrderService) UpdatePayment(ctx context.Context, id uuid.UUID, req trade.UpdatePaymentRequest) (*trade.OrderResponse, error) {
	args := m.Called(ctx, id, req)
	return ptr[trade.OrderResponse](args), args.Error(1)
}

func (m *mockOrderService) AddNote(ctx context.Context, id, adminID uuid.UUID, req trade.AddNoteRequest) (*trade.OrderResponse, error) {
	args := m.Called(ctx, id, adminID, req)
	return ptr[trade.OrderResponse](args), args.Error(1)
}

func (m *mockOrderService) AddDeliveryFiles(ctx context.Context, id uuid.UUID, req trade.AddDeliveryFilesRequest) (*trade.OrderResponse, error) {
	args := m.Called(ctx, id, req)
	return ptr[trade.OrderResponse](args), args.Error(1)
}

type mockUserService struct{ mock.Mock }

func (m *mockUserService) List(ctx context.Context, f identity.UserListFilter) (shared.Paginated[identity.UserResponse], error) {
	args := m.Called(ctx, f)
	return args.Get(0).(shared.Paginated[identity.UserResponse]), args.Error(1)
}

func (m *mockUserService) Get(ctx context.Context, id uuid.UUID) (*identity.UserResponse, error) {
	args := m.Called(ctx, id)
	return ptr[identity.UserResponse](args), args.Error(1)
}

func (m *mockUserService) Update(ctx context.Context, actorID, id uuid.UUID, req identity.AdminUpdateUserRequest) (*identity.UserResponse, error) {
	args := m.Called(ctx, actorID, id, req)
	return ptr[identity.UserResponse](args), args.Error(1)
}

func (m *mockUserService) SetVerification(ctx context.Context, id uuid.UUID, verified bool) (*identity.UserResponse, error) {
	args := m.Called(ctx, id, verified)
	return ptr[identity.UserResponse](args), args.Error(1)
}

func (m *mockUserService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	return m.Called(ctx, actorID, id).Error(0)
}

type mockMessageService struct{ mock.Mock }

func (m *mockMessageService) Submit(ctx context.Context, req support.SubmitMessageRequest, origin support.Origin) (*support.MessageResponse, error) {
	args := m.Called(ctx, req, origin)
	return ptr[support.MessageResponse](args), args.Error(1)
}

func (m *mockMessageService) List(ctx context.Context, f support.MessageListFilter) (shared.Paginated[support.MessageResponse], error) {
	args := m.Called(ctx, f)
	return args.Get(0).(shared.Paginated[support.MessageResponse]), args.Error(1)
}

func (m *mockMessageService) ListMine(ctx context.Context, userID uuid.UUID, page, pageSize int) (shared.Paginated[support.MessageResponse], error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).(shared.Paginated[support.MessageResponse]), args.Error(1)
}

func (m *mockMessageService) Get(ctx context.Context, id uuid.UUID) (*support.MessageResponse, error) {
	args := m.Called(ctx, id)
	return ptr[support.MessageResponse](args), args.Error(1)
}

func (m *mockMessageService) GetMine(ctx context.Context, id, userID uuid.UUID) (*support.MessageResponse, error) {
	args := m.Called(ctx, id, userID)
	return ptr[support.MessageResponse](args), args.Error(1)
}

func (m *mockMessageService) UpdateStatus(ctx context.Context, id uuid.UUID, req support.UpdateMessageStatusRequest) (*support.MessageResponse, error) {
	args := m.Called(ctx, id, req)
	return ptr[support.MessageResponse](args), args.Error(1)
}

func (m *mockMessageService) AddResponse(ctx context.Context, id, adminID uuid.UUID, req support.AddResponseRequest) (*support.MessageResponse, error) {
	args := m.Called(ctx, id, adminID, req)
	return ptr[support.MessageResponse](args), args.Error(1)
}

func (m *mockMessageService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockCartService struct{ mock.Mock }

func (m *mockCartService) Get(ctx context.Context, userID uuid.UUID) (*cart.Response, error) {
	args := m.Called(ctx, userID)
	return ptr[cart.Response](args), args.Error(1)
}

func (m *mockCartService) AddItem(ctx context.Context, userID uuid.UUID, req cart.AddItemRequest) (*cart.Response, error) {
	args := m.Called(ctx, userID, req)
	return ptr[cart.Response](args), args.Error(1)
}

func (m *mockCartService) UpdateItem(ctx context.Context, userID, productID uuid.UUID, req cart.UpdateItemRequest) (*cart.Response, error) {
	args := m.Called(ctx, userID, productID, req)
	return ptr[cart.Response](args), args.Error(1)
}

func (m *mockCartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*cart.Response, error) {
	args := m.Called(ctx, userID, productID)
	return ptr[cart.Response](args), args.Error(1)
}

func (m *mockCartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockCartService) Checkout(ctx context.Context, userID uuid.UUID, req cart.CheckoutRequest, key string) (*trade.OrderResponse, bool, error) {
	args := m.Called(ctx, userID, req, key)
	return ptr[trade.OrderResponse](args), args.Bool(1), args.Error(2)
}

type mockMediaService struct{ mock.Mock }

func (m *mockMediaService) Upload(ctx context.Context, uploadType media.UploadType, isAdmin bool, files []media.File) ([]media.UploadedFile, error) {
	args := m.Called(ctx, uploadType, isAdmin, files)
	if v := args.Get(0); v != nil {
		return v.([]media.UploadedFile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMediaService) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type mockStatsService struct{ mock.Mock }

func (m *mockStatsService) Dashboard(ctx context.Context) (*report.Dashboard, error) {
	args := m.Called(ctx)
	return ptr[report.Dashboard](args), args.Error(1)
}

type countingMetrics struct {
	conflicts int
	uploads   map[string]int
}

func (m *countingMetrics) RecordStockConflict() { m.conflicts++ }

func (m *countingMetrics) RecordUploads(uploadType string, n int) {
	if m.uploads == nil {
		m.uploads = map[string]int{}
	}
	m.uploads[uploadType] += n
}
