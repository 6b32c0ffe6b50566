package sqlite

import (
	"context"
	"errors"
	"fmt"

	"trade-checker-go/internal/database"
	"trade-checker-go/internal/models"
	"trade-checker-go/internal/storage"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store implements storage.SlotStore on a gorm-managed sqlite table.
type Store struct {
	db *gorm.DB
}

// New opens (creating if needed) the sqlite database at dsn.
func New(dsn string) (*Store, error) {
	db, err := database.NewDatabase(dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: couldn't open %s: %w", dsn, err)
	}
	return &Store{db: db}, nil
}

// NewFromDB wraps an already migrated connection.
func NewFromDB(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Load(ctx context.Context, name string) ([]byte, error) {
	var slot models.Slot
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: couldn't load slot %s: %w", name, err)
	}
	return slot.Value, nil
}

func (s *Store) Save(ctx context.Context, name string, data []byte) error {
	if data == nil {
		data = []byte{}
	}
	slot := models.Slot{Name: name, Value: data}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&slot).Error
	if err != nil {
		return fmt.Errorf("sqlite: couldn't save slot %s: %w", name, err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var _ storage.SlotStore = (*Store)(nil)
