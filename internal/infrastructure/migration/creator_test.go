package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/marketplace/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"add users table":    "add_users_table",
		"Add-Users-Table":    "add_users_table",
		"add__users__table":  "add_users_table",
		"   spaces   ":       "spaces",
		"special!@#$chars":   "specialchars",
		"_leading_trailing_": "leading_trailing",
		"Index orders 2026":  "index_orders_2026",
		"":                   "",
	}
	for in, want := range tests {
		assert.Equal(t, want, slugify(in), "input %q", in)
	}
}

func TestCreate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	now := time.Date(2026, 10, 3, 14, 5, 9, 0, time.UTC)

	f, err := Create(dir, "Add coupon codes", "coupons per order", now)
	require.NoError(t, err)

	assert.Equal(t, uint64(20261003140509), f.Version)
	assert.Equal(t, filepath.Join(dir, "20261003140509_add_coupon_codes.up.sql"), f.UpPath)
	assert.Equal(t, filepath.Join(dir, "20261003140509_add_coupon_codes.down.sql"), f.DownPath)

	up, err := os.ReadFile(f.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: add_coupon_codes")
	assert.Contains(t, string(up), "-- Description: coupons per order")

	down, err := os.ReadFile(f.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(Rollback)")

	_, err = Create(dir, "Add coupon codes", "", now)
	assert.Error(t, err, "existing files are not overwritten")

	_, err = Create(dir, "!!!", "", now)
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	source := fstest.MapFS{
		"002_orders.up.sql":   {},
		"002_orders.down.sql": {},
		"001_users.up.sql":    {},
		"README.md":           {},
		"abc_bad.up.sql":      {},
		"003.up.sql":          {},
		"sub/004_x.up.sql":    {},
	}

	got, err := List(source)
	require.NoError(t, err)

	assert.Equal(t, []Migration{
		{Version: 1, Name: "users"},
		{Version: 2, Name: "orders", HasDown: true},
	}, got)
}

func TestList_EmbeddedSchema(t *testing.T) {
	got, err := List(migrations.FS)
	require.NoError(t, err)

	require.Len(t, got, 4)
	names := make([]string, len(got))
	for i, m := range got {
		names[i] = m.Name
		assert.True(t, m.HasDown, m.Name)
	}
	assert.Equal(t, []string{"create_users", "create_products", "create_orders", "create_messages"}, names)
}
