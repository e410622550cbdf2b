package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"ASC uppercase returns ASC", "ASC", "ASC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"desc lowercase returns DESC", "desc", "DESC"},
		{"invalid value returns DESC", "INVALID", "DESC"},
		{"sql injection attempt returns DESC", "ASC; DROP TABLE users;--", "DESC"},
		{"whitespace around ASC returns ASC", "  asc  ", "ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns default", "", "created_at"},
		{"valid field returns field", "price", "price"},
		{"invalid field returns default", "stock", "created_at"},
		{"case sensitive", "PRICE", "created_at"},
		{"whitespace around valid field returns field", "  title  ", "title"},
		{"injection returns default", "price; DROP TABLE products;--", "created_at"},
		{"subquery returns default", "price, (SELECT password_hash FROM users)", "created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, ProductSortFields, "created_at"))
		})
	}
}

func TestSortFieldsWhitelists(t *testing.T) {
	whitelists := map[string]map[string]bool{
		"UserSortFields":    UserSortFields,
		"ProductSortFields": ProductSortFields,
		"OrderSortFields":   OrderSortFields,
		"MessageSortFields": MessageSortFields,
	}

	for name, whitelist := range whitelists {
		t.Run(name, func(t *testing.T) {
			assert.True(t, whitelist["created_at"], "%s should contain created_at", name)
			assert.False(t, whitelist["password_hash"])
		})
	}
}

func TestOrderClause(t *testing.T) {
	assert.Equal(t, "total ASC", orderClause("total", OrderSortFields, "created_at", "asc"))
	assert.Equal(t, "created_at DESC", orderClause("secret", OrderSortFields, "created_at", "sideways"))
}
