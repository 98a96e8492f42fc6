package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PlatformSettingModel is a schema-less configuration row. Readers
// always merge the stored value over compiled-in defaults.
type PlatformSettingModel struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Key         string         `gorm:"size:100;uniqueIndex;not null" json:"key"`
	Value       datatypes.JSON `gorm:"not null" json:"value"`
	Description *string        `gorm:"size:255" json:"description,omitempty"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PlatformSettingModel) TableName() string {
	return "platform_settings"
}

func (m *PlatformSettingModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
