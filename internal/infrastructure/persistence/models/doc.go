// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
//   - base.go: shared columns (BaseModel, AggregateModel)
//   - identity.go: users
//   - catalog.go: products and their reviews
//   - trade.go: orders and order items
//   - support.go: messages and their responses
package models
