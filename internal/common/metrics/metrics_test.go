package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersByLabel(t *testing.T) {
	m := New()
	m.OrderPlaced("Cash")
	m.OrderPlaced("Cash")
	m.OrderPlaced("Online")
	m.StatusChanged("Ready")

	if got := testutil.ToFloat64(m.ordersPlaced.WithLabelValues("Cash")); got != 2 {
		t.Fatalf("cash orders = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.ordersPlaced.WithLabelValues("Online")); got != 1 {
		t.Fatalf("online orders = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.statusChanges.WithLabelValues("Ready")); got != 1 {
		t.Fatalf("ready changes = %v, want 1", got)
	}
}

func TestHandlerExposesRequestHistogram(t *testing.T) {
	m := New()
	m.ObserveRequest("GET", "/api/v1/menu", 200, 15*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `canteen_http_request_duration_seconds_count{code="200",method="GET",route="/api/v1/menu"} 1`) {
		t.Fatalf("histogram missing from output:\n%s", rec.Body.String())
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.OrderPlaced("Cash")
	m.StatusChanged("Ready")
	m.ObserveRequest("GET", "/", 200, time.Second)
}
