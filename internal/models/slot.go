package models

import "time"

// Slot is a named blob in the relational backend. The journal keeps its whole
// serialized record list in a single slot.
type Slot struct {
	Name      string `gorm:"primaryKey"`
	Value     []byte `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
