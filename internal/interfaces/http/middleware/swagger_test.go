package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
)

func TestSwaggerGuard(t *testing.T) {
	tests := []struct {
		name   string
		cfg    config.SwaggerConfig
		remote string
		want   int
	}{
		{"disabled", config.SwaggerConfig{}, "10.0.0.1:1", http.StatusNotFound},
		{"open", config.SwaggerConfig{Enabled: true}, "203.0.113.9:1", http.StatusOK},
		{"exact ip", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.1"}}, "10.0.0.1:1", http.StatusOK},
		{"cidr", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.0/8"}}, "10.9.8.7:1", http.StatusOK},
		{"outside list", config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.0/8"}}, "203.0.113.9:1", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/swagger/*any", SwaggerGuard(tt.cfg), func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
			req.RemoteAddr = tt.remote
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestResourceOf(t *testing.T) {
	assert.Equal(t, "orders", resourceOf("/api/orders/:id/cancel"))
	assert.Equal(t, "admin", resourceOf("/api/admin/stats"))
	assert.Equal(t, "", resourceOf("/"))
}
