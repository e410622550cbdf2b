package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// HTTPObserver records request metrics. telemetry.Metrics satisfies it.
type HTTPObserver interface {
	ObserveHTTP(method, route string, status int, elapsed time.Duration)
	InFlight(delta float64)
}

// unmatchedRoute labels requests no route matched, so scanners probing
// random paths cannot blow up the label set
const unmatchedRoute = "unmatched"

// Metrics observes latency and status per route template
func Metrics(obs HTTPObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		obs.InFlight(1)
		defer obs.InFlight(-1)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		obs.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
