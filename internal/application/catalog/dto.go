package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Title        string          `json:"title" binding:"required,min=1,max=200"`
	Description  string          `json:"description" binding:"max=10000"`
	Price        decimal.Decimal `json:"price"`
	Category     string          `json:"category" binding:"required,oneof=web-application mobile-application desktop-application website-template ui-kit plugin api-service other"`
	Features     []string        `json:"features" binding:"max=50"`
	Technologies []string        `json:"technologies" binding:"max=50"`
	Images       []string        `json:"images" binding:"max=20"`
	DemoURL      string          `json:"demo_url" binding:"omitempty,url,max=500"`
	Stock        *int            `json:"stock"` // null for unlimited
	IsFeatured   bool            `json:"is_featured"`
}

// UpdateProductRequest represents a partial product update. Stock is
// only touched when Stock is set or UnlimitedStock is true.
type UpdateProductRequest struct {
	Title          *string          `json:"title" binding:"omitempty,min=1,max=200"`
	Description    *string          `json:"description" binding:"omitempty,max=10000"`
	Price          *decimal.Decimal `json:"price"`
	Category       *string          `json:"category" binding:"omitempty,oneof=web-application mobile-application desktop-application website-template ui-kit plugin api-service other"`
	Features       []string         `json:"features" binding:"omitempty,max=50"`
	Technologies   []string         `json:"technologies" binding:"omitempty,max=50"`
	Images         []string         `json:"images" binding:"omitempty,max=20"`
	DemoURL        *string          `json:"demo_url" binding:"omitempty,max=500"`
	Stock          *int             `json:"stock"`
	UnlimitedStock bool             `json:"unlimited_stock"`
	IsFeatured     *bool            `json:"is_featured"`
	IsActive       *bool            `json:"is_active"`
}

// ProductListFilter is the product list query
type ProductListFilter struct {
	Page            int    `form:"page" binding:"omitempty,min=1"`
	PageSize        int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search          string `form:"search" binding:"max=100"`
	Category        string `form:"category" binding:"omitempty,oneof=web-application mobile-application desktop-application website-template ui-kit plugin api-service other"`
	MinPrice        string `form:"min_price" binding:"omitempty,numeric"`
	MaxPrice        string `form:"max_price" binding:"omitempty,numeric"`
	Featured        *bool  `form:"featured"`
	Sort            string `form:"sort" binding:"omitempty,oneof=newest price_asc price_desc rating popular"`
	IncludeInactive bool   `form:"include_inactive"`
}

// RatingResponse is the review aggregate of a product
type RatingResponse struct {
	Average decimal.Decimal `json:"average"`
	Count   int             `json:"count"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID               uuid.UUID        `json:"id"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	Price            decimal.Decimal  `json:"price"`
	Category         string           `json:"category"`
	Features         []string         `json:"features"`
	Technologies     []string         `json:"technologies"`
	Images           []string         `json:"images"`
	DemoURL          string           `json:"demo_url,omitempty"`
	Stock            *int             `json:"stock"`
	IsUnlimitedStock bool             `json:"is_unlimited_stock"`
	InStock          bool             `json:"in_stock"`
	Rating           RatingResponse   `json:"rating"`
	Reviews          []ReviewResponse `json:"reviews,omitempty"`
	IsActive         bool             `json:"is_active"`
	IsFeatured       bool             `json:"is_featured"`
	Views            int64            `json:"views"`
	Sales            int64            `json:"sales"`
	CreatedBy        *uuid.UUID       `json:"created_by,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	Version          int              `json:"version"`
}

// ToProductResponse converts a product. Reviews are included only when
// withReviews is set.
func ToProductResponse(p *catalog.Product, withReviews bool) ProductResponse {
	resp := ProductResponse{
		ID:               p.ID,
		Title:            p.Title,
		Description:      p.Description,
		Price:            p.Price,
		Category:         string(p.Category),
		Features:         nonNil(p.Features),
		Technologies:     nonNil(p.Technologies),
		Images:           nonNil(p.Images),
		DemoURL:          p.DemoURL,
		Stock:            p.Stock,
		IsUnlimitedStock: p.HasUnlimitedStock(),
		InStock:          p.InStock(),
		Rating:           RatingResponse{Average: p.Rating.Average, Count: p.Rating.Count},
		IsActive:         p.IsActive,
		IsFeatured:       p.IsFeatured,
		Views:            p.Views,
		Sales:            p.Sales,
		CreatedBy:        p.CreatedBy,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
		Version:          p.Version,
	}
	if withReviews {
		resp.Reviews = make([]ReviewResponse, len(p.Reviews))
		for i := range p.Reviews {
			resp.Reviews[i] = ToReviewResponse(&p.Reviews[i])
		}
	}
	return resp
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// CreateReviewRequest adds a review
type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

// ReviewResponse represents a review
type ReviewResponse struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	UserName         string    `json:"user_name"`
	Rating           int       `json:"rating"`
	Comment          string    `json:"comment"`
	VerifiedPurchase bool      `json:"verified_purchase"`
	CreatedAt        time.Time `json:"created_at"`
}

// ToReviewResponse converts a review
func ToReviewResponse(r *catalog.Review) ReviewResponse {
	return ReviewResponse{
		ID:               r.ID,
		UserID:           r.UserID,
		UserName:         r.UserName,
		Rating:           r.Rating,
		Comment:          r.Comment,
		VerifiedPurchase: r.VerifiedPurchase,
		CreatedAt:        r.CreatedAt,
	}
}

// CategoryResponse is a category with its active listing count
type CategoryResponse struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Count int64  `json:"count"`
}
