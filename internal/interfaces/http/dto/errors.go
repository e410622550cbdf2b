package dto

import "net/http"

// Codes produced by the HTTP layer itself. Domain errors keep the code
// they were created with.
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeInvalidJSON   = "INVALID_JSON"
	CodeInternal      = "INTERNAL_ERROR"
	CodeRateLimited   = "RATE_LIMITED"
	CodeRouteNotFound = "ROUTE_NOT_FOUND"
	CodeBodyTooLarge  = "BODY_TOO_LARGE"
)

// statusByCode lists the codes that do not map to 400
var statusByCode = map[string]int{
	"UNAUTHORIZED":        http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"TOKEN_REVOKED":       http.StatusUnauthorized,
	"TOKEN_MAX_REFRESH":   http.StatusUnauthorized,

	"FORBIDDEN":      http.StatusForbidden,
	"ACCOUNT_LOCKED": http.StatusForbidden,

	"NOT_FOUND":         http.StatusNotFound,
	"PRODUCT_NOT_FOUND": http.StatusNotFound,
	"NOT_IN_CART":       http.StatusNotFound,
	CodeRouteNotFound:   http.StatusNotFound,

	"REQUEST_IN_PROGRESS":  http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	CodeBodyTooLarge: http.StatusRequestEntityTooLarge,
	CodeRateLimited:  http.StatusTooManyRequests,
	CodeInternal:     http.StatusInternalServerError,

	"PASSWORD_HASH_ERROR": http.StatusInternalServerError,
}

// StatusFor returns the HTTP status for a domain or HTTP-layer code.
// Anything not listed is a client error.
func StatusFor(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusBadRequest
}
