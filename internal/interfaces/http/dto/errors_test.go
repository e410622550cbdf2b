package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"INVALID_CREDENTIALS", http.StatusUnauthorized},
		{"TOKEN_REVOKED", http.StatusUnauthorized},
		{"ACCOUNT_LOCKED", http.StatusForbidden},
		{"FORBIDDEN", http.StatusForbidden},
		{"NOT_FOUND", http.StatusNotFound},
		{"PRODUCT_NOT_FOUND", http.StatusNotFound},
		{"PRODUCT_UNAVAILABLE", http.StatusBadRequest},
		{"REQUEST_IN_PROGRESS", http.StatusConflict},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeInternal, http.StatusInternalServerError},
		{"INSUFFICIENT_STOCK", http.StatusBadRequest},
		{"USER_HAS_ORDERS", http.StatusBadRequest},
		{"EMAIL_TAKEN", http.StatusBadRequest},
		{"SOMETHING_NEW", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.code))
		})
	}
}

func TestEnvelopeShape(t *testing.T) {
	t.Run("success omits error fields", func(t *testing.T) {
		raw, err := json.Marshal(Success(map[string]int{"n": 1}))
		require.NoError(t, err)
		assert.JSONEq(t, `{"success":true,"data":{"n":1}}`, string(raw))
	})

	t.Run("validation lists fields", func(t *testing.T) {
		raw, err := json.Marshal(Invalid("Validation failed", []FieldError{{Field: "email", Message: "is required"}}))
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"success": false,
			"code": "VALIDATION_ERROR",
			"message": "Validation failed",
			"errors": [{"field": "email", "message": "is required"}]
		}`, string(raw))
	})

	t.Run("page moves counters to meta", func(t *testing.T) {
		p := shared.NewPaginated([]string{"a", "b"}, 5, 1, 2)
		resp := Page(p)
		assert.Equal(t, []string{"a", "b"}, resp.Data)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(5), resp.Meta.Total)
		assert.Equal(t, 3, resp.Meta.TotalPages)
	})
}
