package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base gives every table a UUID primary key assigned on insert
type Base struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"uuid"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
