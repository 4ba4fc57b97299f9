package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel provides the shared identifier column for all persistent models.
//
// Identifiers are uuid4 strings assigned server-side; clients never supply them.
type BaseModel struct {
	ID string `gorm:"primaryKey;type:uuid" json:"id"`
}

// BeforeCreate ensures UUID identifiers are generated automatically.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
