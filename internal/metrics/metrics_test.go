package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}

func TestMiddlewareRecordsRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Delete("/api/trades/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	before := counterValue(t, HTTPRequestsTotal.WithLabelValues(http.MethodDelete, "/api/trades/{id}", "204"))

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/trades/"+id, nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}

	after := counterValue(t, HTTPRequestsTotal.WithLabelValues(http.MethodDelete, "/api/trades/{id}", "204"))
	assert.Equal(t, 2.0, after-before)
}

func TestMiddlewareDefaultStatus(t *testing.T) {
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	before := counterValue(t, HTTPRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "200"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/anything", nil))
	after := counterValue(t, HTTPRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "200"))

	assert.Equal(t, 1.0, after-before)
}

func TestHandlerExposesCollectors(t *testing.T) {
	TradesSaved.WithLabelValues("Strategy A", "Win").Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "tradechecker_trades_saved_total"))
}
