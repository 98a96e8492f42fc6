package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubjectModel categorizes lessons inside a course.
// Examples: Quran, Hadith, Fiqh, Aqeedah, Arabic, Islamic History.
type SubjectModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"course_id"`
	Name          string     `gorm:"size:255;not null" json:"name"`
	Description   string     `gorm:"type:text;not null;default:''" json:"description"`
	InstructorID  *uuid.UUID `gorm:"type:uuid;index" json:"instructor_id,omitempty"`
	OrderInCourse int        `gorm:"not null" json:"order_in_course"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (SubjectModel) TableName() string {
	return "subjects"
}

func (m *SubjectModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
