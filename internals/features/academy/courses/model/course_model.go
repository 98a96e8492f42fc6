package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CourseModel is the root of the catalog hierarchy. Foreign keys are
// plain columns checked at the service layer, not schema constraints.
type CourseModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text;not null;default:''" json:"description"`
	TeacherID   uuid.UUID `gorm:"type:uuid;not null;index" json:"teacher_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (CourseModel) TableName() string {
	return "courses"
}

func (m *CourseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ChapterModel is an ordered content block inside a course. Enrollments
// point at a chapter as the student's current class.
type ChapterModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID    uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text;not null;default:''" json:"description"`
	Order       int       `gorm:"column:chapter_order;not null" json:"order"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ChapterModel) TableName() string {
	return "chapters"
}

func (m *ChapterModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// AttachmentModel stores file metadata at course, lesson or chapter
// level. Files live elsewhere; only the URL is kept.
type AttachmentModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID    *uuid.UUID `gorm:"type:uuid;index" json:"course_id,omitempty"`
	LessonID    *uuid.UUID `gorm:"type:uuid;index" json:"lesson_id,omitempty"`
	ChapterID   *uuid.UUID `gorm:"type:uuid;index" json:"chapter_id,omitempty"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text;not null;default:''" json:"description"`
	FileURL     string     `gorm:"size:500;not null" json:"file_url"`
	FileType    string     `gorm:"size:50;not null" json:"file_type"`
	Source      string     `gorm:"size:50;not null;default:'upload'" json:"source"`
	FileSize    *int64     `json:"file_size,omitempty"`
	Duration    *int       `json:"duration,omitempty"`
	UploadedAt  time.Time  `gorm:"autoCreateTime" json:"uploaded_at"`
}

func (AttachmentModel) TableName() string {
	return "attachments"
}

func (m *AttachmentModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
