package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
)

// BodyLimitConfig caps request bodies. Overrides are keyed by path prefix
// and win over Default, so uploads can carry more than a JSON call.
type BodyLimitConfig struct {
	Default   int64
	Overrides map[string]int64
}

func (cfg BodyLimitConfig) limitFor(path string) int64 {
	limit := cfg.Default
	longest := 0
	for prefix, n := range cfg.Overrides {
		if strings.HasPrefix(path, prefix) && len(prefix) > longest {
			limit, longest = n, len(prefix)
		}
	}
	return limit
}

// BodyLimit rejects declared oversize bodies up front and caps streamed
// ones with http.MaxBytesReader
func BodyLimit(cfg BodyLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := cfg.limitFor(c.Request.URL.Path)
		if limit <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > limit {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.Failure(dto.CodeBodyTooLarge, "Request body exceeds maximum allowed size"))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
