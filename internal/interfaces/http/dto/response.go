// Package dto holds the JSON envelope shared by every API response.
package dto

import "github.com/marketplace/backend/internal/domain/shared"

// Response is the envelope every endpoint writes
type Response struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Code    string       `json:"code,omitempty"`
	Data    any          `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
	Meta    *Meta        `json:"meta,omitempty"`
}

// FieldError describes one rejected request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Meta carries pagination for list responses
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

func Success(data any) Response {
	return Response{Success: true, Data: data}
}

func SuccessMessage(message string, data any) Response {
	return Response{Success: true, Message: message, Data: data}
}

// Page wraps a paginated result, moving the counters into meta
func Page[T any](p shared.Paginated[T]) Response {
	return Response{
		Success: true,
		Data:    p.Items,
		Meta: &Meta{
			Total:      p.Total,
			Page:       p.Page,
			PageSize:   p.PageSize,
			TotalPages: p.TotalPages,
		},
	}
}

func Failure(code, message string) Response {
	return Response{Success: false, Code: code, Message: message}
}

// Invalid is a 400 envelope listing each failing field
func Invalid(message string, errs []FieldError) Response {
	return Response{Success: false, Code: CodeValidation, Message: message, Errors: errs}
}
