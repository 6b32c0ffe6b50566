// Package journal is the record store: an append-only list of trade records
// persisted as one JSON array in a named storage slot.
package journal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"trade-checker-go/internal/models"
	"trade-checker-go/internal/schema"
	"trade-checker-go/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultSlot             = "trades"
	DefaultDateLayout       = "1/2/2006"
	DefaultMaxCommentLength = 1000
)

var (
	// ErrValidation wraps every rejection of user input.
	ErrValidation = errors.New("validation failed")

	ErrIncompleteParameters = fmt.Errorf("%w: please fill in all %d parameters", ErrValidation, models.ParameterCount)
	ErrMissingResult        = fmt.Errorf("%w: please select a trade result", ErrValidation)
	ErrCommentTooLong       = fmt.Errorf("%w: comments are too long", ErrValidation)

	// ErrMalformedImport is returned when imported data is not a JSON array of trades.
	ErrMalformedImport = errors.New("invalid trades data format")

	// ErrStorage wraps failures of the underlying slot backend.
	ErrStorage = errors.New("storage failure")
)

// Store is the trade record store. Writes are serialized within the process;
// separate processes sharing a backend race and the last writer wins.
type Store struct {
	slots      storage.SlotStore
	slot       string
	logger     *zap.Logger
	now        func() time.Time
	newID      func() string
	dateLayout string
	location   *time.Location
	maxComment int

	mu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithSlot sets the slot name holding the record list.
func WithSlot(name string) Option {
	return func(s *Store) { s.slot = name }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the random UUID generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithDateLayout sets the layout of the display date stored with each record.
func WithDateLayout(layout string) Option {
	return func(s *Store) { s.dateLayout = layout }
}

// WithLocation sets the time zone used for display dates.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) { s.location = loc }
}

// WithMaxCommentLength limits comments to n characters; zero disables the limit.
func WithMaxCommentLength(n int) Option {
	return func(s *Store) { s.maxComment = n }
}

// New creates a record store on top of slots.
func New(slots storage.SlotStore, logger *zap.Logger, opts ...Option) *Store {
	s := &Store{
		slots:      slots,
		slot:       DefaultSlot,
		logger:     logger.Named("journal"),
		now:        time.Now,
		newID:      uuid.NewString,
		dateLayout: DefaultDateLayout,
		location:   time.Local,
		maxComment: DefaultMaxCommentLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DisplayDate renders t the way record dates are shown.
func (s *Store) DisplayDate(t time.Time) string {
	return t.In(s.location).Format(s.dateLayout)
}

// Save validates and appends a new record, then persists the full list.
func (s *Store) Save(ctx context.Context, strategy string, params models.Parameters, result, comments string) (models.TradeRecord, error) {
	if !schema.Validate(params) {
		return models.TradeRecord{}, ErrIncompleteParameters
	}
	if strings.TrimSpace(result) == "" {
		return models.TradeRecord{}, ErrMissingResult
	}
	if s.maxComment > 0 && utf8.RuneCountInString(comments) > s.maxComment {
		return models.TradeRecord{}, fmt.Errorf("%w (max %d characters)", ErrCommentTooLong, s.maxComment)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return models.TradeRecord{}, err
	}

	id, err := s.uniqueID(records)
	if err != nil {
		return models.TradeRecord{}, err
	}
	ts := s.now().UTC().Truncate(time.Millisecond)
	rec := models.TradeRecord{
		ID:         id,
		Strategy:   strategy,
		Parameters: params,
		Result:     result,
		Comments:   comments,
		Timestamp:  ts,
		Date:       s.DisplayDate(ts),
	}

	if err := s.persist(ctx, append(records, rec)); err != nil {
		s.logger.Error("Failed to save trade record", zap.String("strategy", strategy), zap.Error(err))
		return models.TradeRecord{}, err
	}
	s.logger.Info("Trade record saved",
		zap.String("id", rec.ID),
		zap.String("strategy", rec.Strategy),
		zap.String("result", rec.Result),
	)
	return rec, nil
}

// GetAll returns every record in insertion order. An empty, unreadable or
// corrupt slot yields an empty list.
func (s *Store) GetAll(ctx context.Context) []models.TradeRecord {
	records, err := s.load(ctx)
	if err != nil {
		s.logger.Warn("Error retrieving trades, treating store as empty", zap.Error(err))
		return []models.TradeRecord{}
	}
	return records
}

// GetByStrategy returns the records whose strategy equals strategy exactly.
func (s *Store) GetByStrategy(ctx context.Context, strategy string) []models.TradeRecord {
	return FilterByStrategy(s.GetAll(ctx), strategy)
}

// Delete removes the first record with the given id. Unknown ids are not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(records, func(r models.TradeRecord) bool { return r.ID == id })
	if i < 0 {
		s.logger.Debug("Trade record not found for delete", zap.String("id", id))
		return nil
	}
	if err := s.persist(ctx, slices.Delete(records, i, i+1)); err != nil {
		return err
	}
	s.logger.Info("Trade record deleted", zap.String("id", id))
	return nil
}

// Clear replaces the store with an empty list.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(ctx, []models.TradeRecord{}); err != nil {
		return err
	}
	s.logger.Info("All trade records cleared")
	return nil
}

// Export returns the full record list.
func (s *Store) Export(ctx context.Context) []models.TradeRecord {
	return s.GetAll(ctx)
}

// WriteExport writes the full record list to w as an indented JSON array.
func (s *Store) WriteExport(ctx context.Context, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.Export(ctx)); err != nil {
		return fmt.Errorf("couldn't encode export: %w", err)
	}
	return nil
}

// Import replaces the whole store with the JSON array in data. Anything that
// is not an array of trade objects is rejected before the store is touched.
func (s *Store) Import(ctx context.Context, data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return ErrMalformedImport
	}
	var records []models.TradeRecord
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}
	return s.Replace(ctx, records)
}

// Replace swaps the whole record list for records. No per-record validation
// is applied.
func (s *Store) Replace(ctx context.Context, records []models.TradeRecord) error {
	if records == nil {
		records = []models.TradeRecord{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(ctx, records); err != nil {
		return err
	}
	s.logger.Info("Trade records imported", zap.Int("count", len(records)))
	return nil
}

// ExportFilename names an export file after the day it was taken.
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("trade-history-%s.json", t.Format(time.DateOnly))
}

// FilterByStrategy keeps the records whose strategy equals strategy. An empty
// strategy keeps everything.
func FilterByStrategy(records []models.TradeRecord, strategy string) []models.TradeRecord {
	if strategy == "" {
		return records
	}
	out := make([]models.TradeRecord, 0, len(records))
	for _, r := range records {
		if r.Strategy == strategy {
			out = append(out, r)
		}
	}
	return out
}

// load reads the slot. Backend errors are returned; undecodable content is
// logged and treated as an empty list.
func (s *Store) load(ctx context.Context) ([]models.TradeRecord, error) {
	data, err := s.slots.Load(ctx, s.slot)
	if err != nil {
		return nil, fmt.Errorf("%w: couldn't read trades: %w", ErrStorage, err)
	}
	records := []models.TradeRecord{}
	if len(bytes.TrimSpace(data)) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("Stored trades are unreadable, treating store as empty",
			zap.String("slot", s.slot), zap.Error(err))
		return []models.TradeRecord{}, nil
	}
	if records == nil {
		records = []models.TradeRecord{}
	}
	return records, nil
}

func (s *Store) persist(ctx context.Context, records []models.TradeRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: couldn't encode trades: %w", ErrStorage, err)
	}
	if err := s.slots.Save(ctx, s.slot, data); err != nil {
		return fmt.Errorf("%w: couldn't write trades: %w", ErrStorage, err)
	}
	return nil
}

func (s *Store) uniqueID(records []models.TradeRecord) (string, error) {
	const maxAttempts = 5
	for i := 0; i < maxAttempts; i++ {
		id := s.newID()
		if !slices.ContainsFunc(records, func(r models.TradeRecord) bool { return r.ID == id }) {
			return id, nil
		}
		s.logger.Warn("Generated trade id already exists, retrying", zap.String("id", id))
	}
	return "", fmt.Errorf("couldn't generate a unique trade id after %d attempts", maxAttempts)
}
