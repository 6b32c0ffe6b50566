package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"trade-checker-go/internal/api"
	"trade-checker-go/internal/config"
	"trade-checker-go/internal/journal"
	"trade-checker-go/internal/models"
	"trade-checker-go/internal/service"
	"trade-checker-go/internal/storage/memory"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// setupTestServer creates a new test server and a RestClient configured to use it.
func setupTestServer(handler http.Handler) (*RestClient, *httptest.Server) {
	server := httptest.NewServer(handler)

	rc := &RestClient{
		client:     resty.New().SetBaseURL(server.URL),
		logger:     zap.NewNop(),
		limiter:    rate.NewLimiter(rate.Inf, 1), // Allow all requests in tests
		maxRetries: 3,
		backoff:    time.Millisecond,
	}
	return rc, server
}

func apiHandler() http.Handler {
	store := journal.New(memory.New(), zap.NewNop(), journal.WithLocation(time.UTC))
	return api.NewHandler(service.New(store, zap.NewNop()), zap.NewNop()).Routes()
}

func vector(values ...bool) models.Parameters {
	var p models.Parameters
	for i := range p {
		p[i] = models.Yes
	}
	for i, v := range values {
		p[i] = models.FromBool(v)
	}
	return p
}

func TestNewRestClient(t *testing.T) {
	rc := NewRestClient(config.Client{
		BaseURL:        "http://localhost:9999",
		RateLimit:      20,
		RateLimitBurst: 5,
		MaxRetries:     0,
		Timeout:        time.Second,
	}, zap.NewNop())

	assert.Equal(t, "http://localhost:9999", rc.client.BaseURL)
	assert.Equal(t, 1, rc.maxRetries)
	assert.Equal(t, rate.Limit(20), rc.limiter.Limit())
	assert.Equal(t, 5, rc.limiter.Burst())
}

func TestRoundTripAgainstServer(t *testing.T) {
	ctx := context.Background()
	rc, server := setupTestServer(apiHandler())
	defer server.Close()

	v := vector(true, false, true)
	for _, req := range []service.SaveRequest{
		{Strategy: "Strategy A", Parameters: v, Result: "Win"},
		{Strategy: "Strategy A", Parameters: v, Result: "Loss", Comments: "good entry"},
		{Strategy: "Strategy A", Parameters: v, Result: "Win"},
		{Strategy: "Strategy B", Parameters: v, Result: "Win"},
	} {
		rec, err := rc.Save(ctx, req)
		require.NoError(t, err)
		assert.NotEmpty(t, rec.ID)
		assert.Equal(t, req.Parameters, rec.Parameters)
	}

	report, err := rc.Check(ctx, service.CheckRequest{Strategy: "Strategy A", Parameters: v})
	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalOccurrences)
	require.Len(t, report.Matches, 2)
	assert.Equal(t, "good entry", report.Matches[1].Comments[0].Comment)

	trades, err := rc.Trades(ctx, "Strategy B")
	require.NoError(t, err)
	require.Len(t, trades, 1)

	history, err := rc.History(ctx, "")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 4, history[0].TotalOccurrences)

	stats, err := rc.Statistics(ctx, "Strategy A")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalTrades)
	assert.Equal(t, []string{"Strategy A", "Strategy B"}, stats.Strategies)

	info, err := rc.Schema(ctx)
	require.NoError(t, err)
	assert.Len(t, info.Groups, 5)

	require.NoError(t, rc.Delete(ctx, trades[0].ID))
	all, err := rc.Trades(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	exported, err := rc.Export(ctx)
	require.NoError(t, err)
	assert.Len(t, exported, 3)

	require.NoError(t, rc.Clear(ctx))
	all, err = rc.Trades(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	rc, server := setupTestServer(apiHandler())
	defer server.Close()

	n, err := rc.Import(ctx, []byte(`[{"id":"a","strategy":"Strategy A","parameters":{},"result":"Win","comments":"","timestamp":"2024-01-15T09:00:00Z","date":"1/15/2024"}]`))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = rc.Import(ctx, []byte(`{"not":"an array"}`))
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusBadRequest))
	assert.Contains(t, err.Error(), "invalid trades data format")
}

func TestValidationErrorIsNotRetried(t *testing.T) {
	var calls int32
	inner := apiHandler()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		inner.ServeHTTP(w, r)
	})

	rc, server := setupTestServer(handler)
	defer server.Close()

	_, err := rc.Save(context.Background(), service.SaveRequest{Strategy: "Strategy A", Result: "Win"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "please fill in all 15 parameters")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestServerErrorsAreRetried(t *testing.T) {
	t.Run("recovers", func(t *testing.T) {
		var calls int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if atomic.AddInt32(&calls, 1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"success":false,"error":"busy"}`))
				return
			}
			_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
		})

		rc, server := setupTestServer(handler)
		defer server.Close()

		trades, err := rc.Trades(context.Background(), "")
		require.NoError(t, err)
		assert.Empty(t, trades)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("gives up", func(t *testing.T) {
		var calls int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"success":false,"error":"storage failure: disk full"}`))
		})

		rc, server := setupTestServer(handler)
		defer server.Close()

		err := rc.Clear(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "request failed after 3 attempts")
		assert.True(t, IsStatus(err, http.StatusInternalServerError))
		assert.Contains(t, err.Error(), "disk full")
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})
}

func TestTooManyRequestsHonoursRetryAfter(t *testing.T) {
	var calls int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"success":true}`))
	})

	rc, server := setupTestServer(handler)
	defer server.Close()

	require.NoError(t, rc.Delete(context.Background(), "some id"))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestContextCancelStopsRetries(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	rc, server := setupTestServer(handler)
	defer server.Close()
	rc.backoff = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := rc.Trades(ctx, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
