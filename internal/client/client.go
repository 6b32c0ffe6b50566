// Package client talks to a remote trade checker server over its JSON API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"trade-checker-go/internal/analysis"
	"trade-checker-go/internal/config"
	"trade-checker-go/internal/models"
	"trade-checker-go/internal/service"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// APIError is a reply the server rejected, carrying its status and message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// envelope mirrors the server's {success, error, data} reply.
type envelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

// RestClient is a client for the trade checker API.
// It implements service.TradeChecker.
type RestClient struct {
	client     *resty.Client
	logger     *zap.Logger
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
}

// ensure RestClient implements the interface
var _ service.TradeChecker = (*RestClient)(nil)

// NewRestClient creates a client for the server at cfg.BaseURL.
func NewRestClient(cfg config.Client, logger *zap.Logger) *RestClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	// rate.Limit is requests per second.
	limit := rate.Limit(cfg.RateLimit)
	if cfg.RateLimit <= 0 {
		limit = rate.Inf
	}
	burst := cfg.RateLimitBurst
	if burst < 1 {
		burst = 1
	}

	return &RestClient{
		client:     client,
		logger:     logger.Named("client"),
		limiter:    rate.NewLimiter(limit, burst),
		maxRetries: maxRetries,
		backoff:    time.Second,
	}
}

// Schema fetches the parameter schema and option lists from the server.
func (c *RestClient) Schema(ctx context.Context) (service.SchemaInfo, error) {
	var info service.SchemaInfo
	if err := c.call(ctx, http.MethodGet, "/api/schema", c.client.R(), &info); err != nil {
		return service.SchemaInfo{}, fmt.Errorf("failed to get schema: %w", err)
	}
	return info, nil
}

// Save records a trade on the server.
func (c *RestClient) Save(ctx context.Context, req service.SaveRequest) (models.TradeRecord, error) {
	var rec models.TradeRecord
	r := c.client.R().SetHeader("Content-Type", "application/json").SetBody(req)
	if err := c.call(ctx, http.MethodPost, "/api/trades", r, &rec); err != nil {
		return models.TradeRecord{}, fmt.Errorf("failed to save trade: %w", err)
	}
	return rec, nil
}

// Trades lists the trades on the server, filtered by strategy when non-empty.
func (c *RestClient) Trades(ctx context.Context, strategy string) ([]models.TradeRecord, error) {
	trades := []models.TradeRecord{}
	if err := c.call(ctx, http.MethodGet, "/api/trades", c.withStrategy(strategy), &trades); err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	return trades, nil
}

// Delete removes a trade by id.
func (c *RestClient) Delete(ctx context.Context, id string) error {
	if err := c.call(ctx, http.MethodDelete, "/api/trades/"+url.PathEscape(id), c.client.R(), nil); err != nil {
		return fmt.Errorf("failed to delete trade: %w", err)
	}
	return nil
}

// Clear drops the whole server-side history.
func (c *RestClient) Clear(ctx context.Context) error {
	if err := c.call(ctx, http.MethodDelete, "/api/trades", c.client.R(), nil); err != nil {
		return fmt.Errorf("failed to clear trades: %w", err)
	}
	return nil
}

// Check runs a historical match on the server.
func (c *RestClient) Check(ctx context.Context, req service.CheckRequest) (analysis.MatchReport, error) {
	var report analysis.MatchReport
	r := c.client.R().SetHeader("Content-Type", "application/json").SetBody(req)
	if err := c.call(ctx, http.MethodPost, "/api/check", r, &report); err != nil {
		return analysis.MatchReport{}, fmt.Errorf("failed to check history: %w", err)
	}
	return report, nil
}

// History fetches the pattern groups.
func (c *RestClient) History(ctx context.Context, strategy string) ([]analysis.PatternGroup, error) {
	groups := []analysis.PatternGroup{}
	if err := c.call(ctx, http.MethodGet, "/api/history", c.withStrategy(strategy), &groups); err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	return groups, nil
}

// Statistics fetches summary statistics.
func (c *RestClient) Statistics(ctx context.Context, strategy string) (analysis.Statistics, error) {
	var stats analysis.Statistics
	if err := c.call(ctx, http.MethodGet, "/api/statistics", c.withStrategy(strategy), &stats); err != nil {
		return analysis.Statistics{}, fmt.Errorf("failed to get statistics: %w", err)
	}
	return stats, nil
}

// Export downloads the full history. The export endpoint answers with the
// bare record array rather than the envelope.
func (c *RestClient) Export(ctx context.Context) ([]models.TradeRecord, error) {
	req := c.client.R().SetResult(&[]models.TradeRecord{})
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/export", req)
	if err != nil {
		return nil, fmt.Errorf("failed to export trades: %w", err)
	}
	return *resp.Result().(*[]models.TradeRecord), nil
}

// Import uploads an export file and returns the number of records stored.
func (c *RestClient) Import(ctx context.Context, data []byte) (int, error) {
	var result struct {
		Imported int `json:"imported"`
	}
	r := c.client.R().SetHeader("Content-Type", "application/json").SetBody(data)
	if err := c.call(ctx, http.MethodPost, "/api/import", r, &result); err != nil {
		return 0, fmt.Errorf("failed to import trades: %w", err)
	}
	return result.Imported, nil
}

func (c *RestClient) withStrategy(strategy string) *resty.Request {
	req := c.client.R()
	if strategy != "" {
		req.SetQueryParam("strategy", strategy)
	}
	return req
}

// call executes req and decodes the envelope's data into out, if non-nil.
func (c *RestClient) call(ctx context.Context, method, path string, req *resty.Request, out interface{}) error {
	req.SetResult(&envelope{}).SetError(&envelope{})
	resp, err := c.doRequest(ctx, method, path, req)
	if err != nil {
		return err
	}
	env := resp.Result().(*envelope)
	if !env.Success {
		return &APIError{StatusCode: resp.StatusCode(), Message: env.Error}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("couldn't decode response: %w", err)
	}
	return nil
}

// doRequest handles the actual request execution with rate limiting and retry logic.
func (c *RestClient) doRequest(ctx context.Context, method, path string, req *resty.Request) (*resty.Response, error) {
	var resp *resty.Response
	var err error
	req.SetContext(ctx)

	for i := 0; i < c.maxRetries; i++ {
		// Wait for the rate limiter
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		c.logger.Debug("Executing request", zap.String("method", method), zap.String("url", c.client.BaseURL+path))
		resp, err = req.Execute(method, path)

		if err == nil && !resp.IsError() {
			return resp, nil
		}

		// Analyze error and decide whether to retry
		shouldRetry := false
		var retryAfter time.Duration

		if err == nil {
			statusCode := resp.StatusCode()
			if statusCode == http.StatusTooManyRequests {
				shouldRetry = true
				if seconds, convErr := strconv.Atoi(resp.Header().Get("Retry-After")); convErr == nil {
					retryAfter = time.Duration(seconds) * time.Second
				}
			} else if statusCode >= 500 {
				shouldRetry = true
			}
			err = apiError(resp)
		} else if ctx.Err() != nil {
			return nil, ctx.Err()
		} else {
			// network or other client-side errors
			shouldRetry = true
		}

		if !shouldRetry {
			return nil, err
		}
		if i == c.maxRetries-1 {
			break
		}

		if retryAfter == 0 {
			// exponential backoff: 1x, 2x, 4x the base delay
			retryAfter = time.Duration(math.Pow(2, float64(i))) * c.backoff
		}

		c.logger.Warn("Request failed, retrying...",
			zap.Int("attempt", i+1),
			zap.Duration("retry_after", retryAfter),
			zap.Error(err),
		)

		select {
		case <-time.After(retryAfter):
			continue
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", c.maxRetries, err)
}

// apiError builds an APIError from an error reply, preferring the envelope message.
func apiError(resp *resty.Response) error {
	msg := resp.Status()
	if env, ok := resp.Error().(*envelope); ok && env.Error != "" {
		msg = env.Error
	} else if body := resp.String(); body != "" {
		msg = body
	}
	return &APIError{StatusCode: resp.StatusCode(), Message: msg}
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}
