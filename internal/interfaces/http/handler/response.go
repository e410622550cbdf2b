package handler

import "github.com/marketplace/backend/internal/interfaces/http/dto"

// APIResponse documents the envelope with a typed data field
// @Description Standard API response wrapper with typed data field
type APIResponse[T any] struct {
	Success bool      `json:"success" example:"true"`
	Message string    `json:"message,omitempty"`
	Data    T         `json:"data,omitempty"`
	Meta    *dto.Meta `json:"meta,omitempty"`
}

// ErrorResponse documents a failure envelope
// @Description Standard error response
type ErrorResponse struct {
	Success bool             `json:"success" example:"false"`
	Code    string           `json:"code" example:"VALIDATION_ERROR"`
	Message string           `json:"message" example:"Validation failed"`
	Errors  []dto.FieldError `json:"errors,omitempty"`
}

// MessageResponse documents a success envelope without data
// @Description Success response carrying only a message
type MessageResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Deleted"`
}
