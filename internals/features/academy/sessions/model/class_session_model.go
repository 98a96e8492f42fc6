package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ClassSessionModel is a dated occurrence of a lesson.
// A lesson can have several sessions on different days.
type ClassSessionModel struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	LessonID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"lesson_id"`
	SessionDate datatypes.Date `gorm:"not null" json:"session_date"`
	StartTime   string         `gorm:"size:8;not null" json:"start_time"`
	EndTime     string         `gorm:"size:8;not null" json:"end_time"`
	IsCompleted bool           `gorm:"not null;default:false" json:"is_completed"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (ClassSessionModel) TableName() string {
	return "class_sessions"
}

func (m *ClassSessionModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
