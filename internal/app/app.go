// Package app wires configuration into a ready-to-use record store and service.
package app

import (
	"fmt"
	"strings"

	"trade-checker-go/internal/config"
	"trade-checker-go/internal/journal"
	"trade-checker-go/internal/service"
	"trade-checker-go/internal/storage"
	"trade-checker-go/internal/storage/bolt"
	"trade-checker-go/internal/storage/memory"
	"trade-checker-go/internal/storage/sqlite"

	"go.uber.org/zap"
)

const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
	DriverMemory = "memory"
)

// App holds the local components built from a Config.
type App struct {
	Slots   storage.SlotStore
	Store   *journal.Store
	Service *service.Service
}

// OpenStorage opens the slot backend named by cfg.Driver.
func OpenStorage(cfg config.Storage) (storage.SlotStore, error) {
	switch strings.ToLower(cfg.Driver) {
	case DriverSQLite, "":
		s, err := sqlite.New(cfg.DSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverBolt:
		s, err := bolt.New(cfg.DSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// New opens storage and builds the journal and service on top of it.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	loc, err := cfg.Journal.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid timezone: %w", err)
	}

	slots, err := OpenStorage(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Driver, err)
	}

	opts := []journal.Option{
		journal.WithLocation(loc),
		journal.WithMaxCommentLength(cfg.Journal.MaxCommentLength),
	}
	if cfg.Storage.Slot != "" {
		opts = append(opts, journal.WithSlot(cfg.Storage.Slot))
	}
	if cfg.Journal.DateFormat != "" {
		opts = append(opts, journal.WithDateLayout(cfg.Journal.DateFormat))
	}
	store := journal.New(slots, logger, opts...)

	svc := service.New(store, logger,
		service.WithStrategies(cfg.Journal.Strategies),
		service.WithResults(cfg.Journal.Results),
	)

	logger.Info("Storage opened",
		zap.String("driver", cfg.Storage.Driver),
		zap.String("dsn", cfg.Storage.DSN),
		zap.String("slot", cfg.Storage.Slot),
	)
	return &App{Slots: slots, Store: store, Service: svc}, nil
}

// Close releases the storage backend.
func (a *App) Close() error {
	return a.Slots.Close()
}
