package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LessonModel belongs to a subject and carries the course id as well so
// lookups can be scoped by the full ancestor chain.
type LessonModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"course_id"`
	SubjectID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"subject_id"`
	Title          string          `gorm:"size:255;not null" json:"title"`
	Description    *string         `gorm:"type:text" json:"description,omitempty"`
	ScheduledDate  *datatypes.Date `json:"scheduled_date,omitempty"`
	OrderInSubject int             `gorm:"not null;default:1" json:"order_in_subject"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (LessonModel) TableName() string {
	return "lessons"
}

func (m *LessonModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// LessonContentModel: video, notes or quiz item inside a lesson.
type LessonContentModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LessonID      uuid.UUID `gorm:"type:uuid;not null;index" json:"lesson_id"`
	ContentType   string    `gorm:"size:50;not null" json:"content_type"`
	Title         string    `gorm:"size:255;not null" json:"title"`
	ContentURL    *string   `gorm:"size:500" json:"content_url,omitempty"`
	ContentText   *string   `gorm:"type:text" json:"content_text,omitempty"`
	OrderInLesson int       `gorm:"not null;default:1" json:"order_in_lesson"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (LessonContentModel) TableName() string {
	return "lesson_contents"
}

func (m *LessonContentModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
