// Package service is the query surface the UI and CLI talk to: save a
// labeled trade, check a parameter vector against history, browse grouped
// patterns and statistics, and move the whole history in and out.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"trade-checker-go/internal/analysis"
	"trade-checker-go/internal/journal"
	"trade-checker-go/internal/metrics"
	"trade-checker-go/internal/models"
	"trade-checker-go/internal/schema"

	"go.uber.org/zap"
)

// ErrMissingStrategy is returned when a save or check names no strategy.
var ErrMissingStrategy = fmt.Errorf("%w: please select a strategy", journal.ErrValidation)

var (
	DefaultStrategies = []string{"Strategy A", "Strategy B", "Strategy C", "Strategy D", "Strategy E"}
	DefaultResults    = []string{"Win", "Loss", "Break Even", "Partial Win", "Partial Loss"}
)

// TradeChecker is implemented by the local Service and by the REST client.
// An empty strategy argument means every strategy.
type TradeChecker interface {
	Schema(ctx context.Context) (SchemaInfo, error)
	Save(ctx context.Context, req SaveRequest) (models.TradeRecord, error)
	Trades(ctx context.Context, strategy string) ([]models.TradeRecord, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	Check(ctx context.Context, req CheckRequest) (analysis.MatchReport, error)
	History(ctx context.Context, strategy string) ([]analysis.PatternGroup, error)
	Statistics(ctx context.Context, strategy string) (analysis.Statistics, error)
	Export(ctx context.Context) ([]models.TradeRecord, error)
	Import(ctx context.Context, data []byte) (int, error)
}

// SchemaInfo is everything a form needs to render.
type SchemaInfo struct {
	Groups     []schema.Group `json:"groups"`
	Strategies []string       `json:"strategies"`
	Results    []string       `json:"results"`
}

// SaveRequest is a new labeled observation.
type SaveRequest struct {
	Strategy   string            `json:"strategy"`
	Parameters models.Parameters `json:"parameters"`
	Result     string            `json:"result"`
	Comments   string            `json:"comments"`
}

// CheckRequest is a historical lookup query.
type CheckRequest struct {
	Strategy   string            `json:"strategy"`
	Parameters models.Parameters `json:"parameters"`
}

// Service implements TradeChecker over a local record store.
type Service struct {
	store      *journal.Store
	strategies []string
	results    []string
	logger     *zap.Logger
}

var _ TradeChecker = (*Service)(nil)

// Option configures a Service.
type Option func(*Service)

// WithStrategies sets the strategies offered by Schema.
func WithStrategies(strategies []string) Option {
	return func(s *Service) {
		if len(strategies) > 0 {
			s.strategies = strategies
		}
	}
}

// WithResults sets the result options offered by Schema.
func WithResults(results []string) Option {
	return func(s *Service) {
		if len(results) > 0 {
			s.results = results
		}
	}
}

// New creates a Service.
func New(store *journal.Store, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store:      store,
		strategies: DefaultStrategies,
		results:    DefaultResults,
		logger:     logger.Named("service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schema describes the parameter groups and the configured strategy and
// result options.
func (s *Service) Schema(ctx context.Context) (SchemaInfo, error) {
	return SchemaInfo{
		Groups:     schema.Groups,
		Strategies: s.strategies,
		Results:    s.results,
	}, nil
}

// Save validates and appends one trade. An empty strategy is rejected with
// ErrMissingStrategy; other validation errors wrap journal.ErrValidation.
func (s *Service) Save(ctx context.Context, req SaveRequest) (models.TradeRecord, error) {
	if strings.TrimSpace(req.Strategy) == "" {
		metrics.ValidationFailures.Inc()
		return models.TradeRecord{}, ErrMissingStrategy
	}
	rec, err := s.store.Save(ctx, req.Strategy, req.Parameters, req.Result, req.Comments)
	if err != nil {
		s.countFailure(err)
		return models.TradeRecord{}, err
	}
	metrics.TradesSaved.WithLabelValues(rec.Strategy, rec.Result).Inc()
	return rec, nil
}

// Trades lists recorded trades in insertion order; an empty strategy lists all.
func (s *Service) Trades(ctx context.Context, strategy string) ([]models.TradeRecord, error) {
	return s.store.GetByStrategy(ctx, strategy), nil
}

// Delete removes the trade with the given id. Unknown ids are not an error.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		s.countFailure(err)
		return err
	}
	metrics.TradesDeleted.WithLabelValues("single").Inc()
	return nil
}

// Clear drops every recorded trade.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		s.countFailure(err)
		return err
	}
	metrics.TradesDeleted.WithLabelValues("all").Inc()
	return nil
}

// Check reports historical trades with exactly the same strategy and parameters.
func (s *Service) Check(ctx context.Context, req CheckRequest) (analysis.MatchReport, error) {
	if strings.TrimSpace(req.Strategy) == "" {
		return analysis.MatchReport{}, ErrMissingStrategy
	}
	report := analysis.FindHistoricalMatches(ctx, s.store, req.Strategy, req.Parameters)

	matched := "false"
	if report.TotalOccurrences > 0 {
		matched = "true"
	}
	metrics.Checks.WithLabelValues(matched).Inc()
	s.logger.Debug("Historical check",
		zap.String("strategy", req.Strategy),
		zap.String("parameters", schema.Format(req.Parameters)),
		zap.Int("occurrences", report.TotalOccurrences),
	)
	return report, nil
}

// History groups trades by strategy and parameter pattern, most frequent first.
func (s *Service) History(ctx context.Context, strategy string) ([]analysis.PatternGroup, error) {
	return analysis.HistoricalDataGrouped(ctx, s.store, strategy), nil
}

// Statistics summarizes the history, optionally for a single strategy.
func (s *Service) Statistics(ctx context.Context, strategy string) (analysis.Statistics, error) {
	return analysis.GetStatistics(ctx, s.store, strategy), nil
}

// Export returns the full history for writing to an export file.
func (s *Service) Export(ctx context.Context) ([]models.TradeRecord, error) {
	return s.store.Export(ctx), nil
}

// Import replaces the whole history with data and returns the number of
// records now stored.
func (s *Service) Import(ctx context.Context, data []byte) (int, error) {
	if err := s.store.Import(ctx, data); err != nil {
		metrics.Imports.WithLabelValues("failed").Inc()
		s.countFailure(err)
		s.logger.Warn("Import rejected", zap.Error(err))
		return 0, err
	}
	metrics.Imports.WithLabelValues("ok").Inc()
	return len(s.store.GetAll(ctx)), nil
}

func (s *Service) countFailure(err error) {
	switch {
	case errors.Is(err, journal.ErrValidation):
		metrics.ValidationFailures.Inc()
	case errors.Is(err, journal.ErrStorage):
		metrics.StorageErrors.Inc()
	}
}
