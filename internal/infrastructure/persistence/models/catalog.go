package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product domain entity.
// Stock is NULL for unlimited listings.
type ProductModel struct {
	AggregateModel
	Title         string           `gorm:"type:varchar(200);not null"`
	Description   string           `gorm:"type:text"`
	Price         decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	Category      catalog.Category `gorm:"type:varchar(50);not null;index"`
	Features      []string         `gorm:"serializer:json;type:jsonb"`
	Technologies  []string         `gorm:"serializer:json;type:jsonb"`
	Images        []string         `gorm:"serializer:json;type:jsonb"`
	DemoURL       string           `gorm:"type:varchar(500)"`
	Stock         *int
	RatingAverage decimal.Decimal `gorm:"type:decimal(3,1);not null;default:0"`
	RatingCount   int             `gorm:"not null;default:0"`
	IsActive      bool            `gorm:"not null;default:true;index"`
	IsFeatured    bool            `gorm:"not null;default:false;index"`
	Views         int64           `gorm:"not null;default:0"`
	Sales         int64           `gorm:"not null;default:0"`
	CreatedBy     *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
// Reviews are loaded separately by the repository.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Title:             m.Title,
		Description:       m.Description,
		Price:             m.Price,
		Category:          m.Category,
		Features:          nonNil(m.Features),
		Technologies:      nonNil(m.Technologies),
		Images:            nonNil(m.Images),
		DemoURL:           m.DemoURL,
		Stock:             m.Stock,
		Rating:            catalog.Rating{Average: m.RatingAverage, Count: m.RatingCount},
		Reviews:           make([]catalog.Review, 0),
		IsActive:          m.IsActive,
		IsFeatured:        m.IsFeatured,
		Views:             m.Views,
		Sales:             m.Sales,
		CreatedBy:         m.CreatedBy,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Title = p.Title
	m.Description = p.Description
	m.Price = p.Price
	m.Category = p.Category
	m.Features = nonNil(p.Features)
	m.Technologies = nonNil(p.Technologies)
	m.Images = nonNil(p.Images)
	m.DemoURL = p.DemoURL
	m.Stock = p.Stock
	m.RatingAverage = p.Rating.Average
	m.RatingCount = p.Rating.Count
	m.IsActive = p.IsActive
	m.IsFeatured = p.IsFeatured
	m.Views = p.Views
	m.Sales = p.Sales
	m.CreatedBy = p.CreatedBy
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// ReviewModel is the persistence model for a product review.
// A user reviews a product at most once.
type ReviewModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key"`
	ProductID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_product_user,priority:1"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_product_user,priority:2"`
	UserName         string    `gorm:"type:varchar(100)"`
	Rating           int       `gorm:"not null"`
	Comment          string    `gorm:"type:text"`
	VerifiedPurchase bool      `gorm:"not null;default:false"`
	CreatedAt        time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ReviewModel) TableName() string {
	return "product_reviews"
}

// ToDomain converts the persistence model to a domain Review
func (m *ReviewModel) ToDomain() catalog.Review {
	return catalog.Review{
		ID:               m.ID,
		ProductID:        m.ProductID,
		UserID:           m.UserID,
		UserName:         m.UserName,
		Rating:           m.Rating,
		Comment:          m.Comment,
		VerifiedPurchase: m.VerifiedPurchase,
		CreatedAt:        m.CreatedAt,
	}
}

// ReviewModelFromDomain creates a persistence model from a domain Review
func ReviewModelFromDomain(r *catalog.Review) *ReviewModel {
	return &ReviewModel{
		ID:               r.ID,
		ProductID:        r.ProductID,
		UserID:           r.UserID,
		UserName:         r.UserName,
		Rating:           r.Rating,
		Comment:          r.Comment,
		VerifiedPurchase: r.VerifiedPurchase,
		CreatedAt:        r.CreatedAt,
	}
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return make([]T, 0)
	}
	return in
}
