package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/application/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
)

// ProductService is the catalog API the handler drives
type ProductService interface {
	List(ctx context.Context, f catalog.ProductListFilter, isAdmin bool) (shared.Paginated[catalog.ProductResponse], error)
	Get(ctx context.Context, id uuid.UUID, isAdmin bool) (*catalog.ProductResponse, error)
	Create(ctx context.Context, adminID uuid.UUID, req catalog.CreateProductRequest) (*catalog.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req catalog.UpdateProductRequest) (*catalog.ProductResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Categories(ctx context.Context) ([]catalog.CategoryResponse, error)
	AddReview(ctx context.Context, productID, userID uuid.UUID, req catalog.CreateReviewRequest) (*catalog.ReviewResponse, error)
	ListReviews(ctx context.Context, productID uuid.UUID, page, pageSize int) (shared.Paginated[catalog.ReviewResponse], error)
}

// ProductHandler handles product-related API endpoints
type ProductHandler struct {
	BaseHandler
	products ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(base BaseHandler, products ProductService) *ProductHandler {
	return &ProductHandler{BaseHandler: base, products: products}
}

// List godoc
// @Summary      List products
// @Description  Active products only, unless an admin asks for include_inactive.
// @Tags         products
// @Produce      json
// @Param        page             query int    false "Page number" default(1)
// @Param        page_size        query int    false "Page size" default(12)
// @Param        search           query string false "Full-text search"
// @Param        category         query string false "Category"
// @Param        min_price        query number false "Minimum price"
// @Param        max_price        query number false "Maximum price"
// @Param        featured         query bool   false "Featured only"
// @Param        sort             query string false "newest, price_asc, price_desc, rating, popular"
// @Param        include_inactive query bool   false "Admin only"
// @Success      200 {object} APIResponse[[]catalog.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var f catalog.ProductListFilter
	if !h.BindQuery(c, &f) {
		return
	}
	result, err := h.products.List(c.Request.Context(), f, middleware.IsAdmin(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}

// Categories godoc
// @Summary      List categories with active product counts
// @Tags         products
// @Produce      json
// @Success      200 {object} APIResponse[[]catalog.CategoryResponse]
// @Router       /products/categories [get]
func (h *ProductHandler) Categories(c *gin.Context) {
	categories, err := h.products.Categories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// Get godoc
// @Summary      Get a product
// @Description  Counts a view. Inactive products are only visible to admins.
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalog.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	product, err := h.products.Get(c.Request.Context(), id, middleware.IsAdmin(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Create godoc
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body catalog.CreateProductRequest true "Product"
// @Success      201 {object} APIResponse[catalog.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalog.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}
	product, err := h.products.Create(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Product created", product)
}

// Update godoc
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id      path string true "Product ID" format(uuid)
// @Param        request body catalog.UpdateProductRequest true "Fields to change"
// @Success      200 {object} APIResponse[catalog.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req catalog.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}
	product, err := h.products.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Product updated", product)
}

// Delete godoc
// @Summary      Deactivate a product
// @Description  Products are soft deleted so past orders keep their lines.
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	if err := h.products.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Product deactivated", nil)
}

// ListReviews godoc
// @Summary      List a product's reviews
// @Tags         products
// @Produce      json
// @Param        id        path  string true  "Product ID" format(uuid)
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Success      200 {object} APIResponse[[]catalog.ReviewResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /products/{id}/reviews [get]
func (h *ProductHandler) ListReviews(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var q PageQuery
	if !h.BindQuery(c, &q) {
		return
	}
	reviews, err := h.products.ListReviews(c.Request.Context(), id, q.Page, q.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, reviews)
}

// AddReview godoc
// @Summary      Review a product
// @Description  One review per user. Marked as a verified purchase when the user received the product.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id      path string true "Product ID" format(uuid)
// @Param        request body catalog.CreateReviewRequest true "Review"
// @Success      201 {object} APIResponse[catalog.ReviewResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id}/reviews [post]
func (h *ProductHandler) AddReview(c *gin.Context) {
	id, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req catalog.CreateReviewRequest
	if !h.BindJSON(c, &req) {
		return
	}
	review, err := h.products.AddReview(c.Request.Context(), id, middleware.CurrentUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "Review added", review)
}
