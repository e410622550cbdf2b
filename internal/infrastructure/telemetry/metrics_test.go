package telemetry

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_HTTP(t *testing.T) {
	m := NewMetrics("test")

	m.ObserveHTTP(http.MethodGet, "/api/products", 200, 15*time.Millisecond)
	m.ObserveHTTP(http.MethodGet, "/api/products", 200, 5*time.Millisecond)
	m.ObserveHTTP(http.MethodPost, "", 404, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/products", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "unmatched", "404")))

	m.InFlight(1)
	m.InFlight(1)
	m.InFlight(-1)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpInFlight))
}

func TestMetrics_Business(t *testing.T) {
	m := NewMetrics("test")

	m.RecordOrderPlaced(54)
	m.RecordOrderPlaced(110.5)
	m.RecordOrderCancelled()
	m.RecordOrderStatusChange("delivered")
	m.RecordStockConflict()
	m.RecordMessageReceived("hire")
	m.RecordUploads("products", 3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ordersPlaced))
	assert.Equal(t, 164.5, testutil.ToFloat64(m.orderRevenue))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ordersCancelled))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.orderTransitions.WithLabelValues("delivered")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stockConflicts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.messagesReceived.WithLabelValues("hire")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.uploads.WithLabelValues("products")))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics("mkt")
	m.RecordOrderPlaced(10)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "mkt_orders_placed_total 1")
	assert.Contains(t, string(body), "go_goroutines")
}
