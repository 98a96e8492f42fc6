package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExamModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"course_id"`
	SubjectID       *uuid.UUID `gorm:"type:uuid;index" json:"subject_id,omitempty"`
	TeacherID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"teacher_id"`
	Title           string     `gorm:"size:255;not null" json:"title"`
	Description     string     `gorm:"type:text;not null;default:''" json:"description"`
	ScheduledDate   *time.Time `json:"scheduled_date,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	MaxScore        *int       `json:"max_score,omitempty"`
	IsPublished     bool       `gorm:"not null;default:false" json:"is_published"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (ExamModel) TableName() string { return "exams" }

func (m *ExamModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ExamResultModel: one row per (exam, student), kept unique by the
// upsert in the controller rather than a DB constraint.
type ExamResultModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ExamID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_exam_results_exam_student" json:"exam_id"`
	StudentID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_exam_results_exam_student" json:"student_id"`
	Score       int        `gorm:"not null" json:"score"`
	MaxScore    *int       `json:"max_score,omitempty"`
	Status      *string    `gorm:"size:50" json:"status,omitempty"`
	Feedback    *string    `gorm:"type:text" json:"feedback,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ExamResultModel) TableName() string { return "exam_results" }

func (m *ExamResultModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type LiveClassModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"course_id"`
	ChapterID     *uuid.UUID `gorm:"type:uuid" json:"chapter_id,omitempty"`
	Title         string     `gorm:"size:255;not null" json:"title"`
	Description   string     `gorm:"type:text;not null;default:''" json:"description"`
	ScheduledDate time.Time  `gorm:"not null" json:"scheduled_date"`
	StartTime     string     `gorm:"size:8;not null" json:"start_time"`
	EndTime       string     `gorm:"size:8;not null" json:"end_time"`
	MeetingLink   *string    `gorm:"size:500" json:"meeting_link,omitempty"`
	TeacherID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"teacher_id"`
	IsActive      bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (LiveClassModel) TableName() string { return "live_classes" }

func (m *LiveClassModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type LessonQuestionModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	LessonID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"lesson_id"`
	StudentID   *uuid.UUID `gorm:"type:uuid;index" json:"student_id,omitempty"`
	Question    string     `gorm:"type:text;not null" json:"question"`
	IsAnonymous bool       `gorm:"not null;default:false" json:"is_anonymous"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (LessonQuestionModel) TableName() string { return "lesson_questions" }

func (m *LessonQuestionModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// LessonAnswerModel: at most one answer per question, latest write wins.
type LessonAnswerModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"question_id"`
	TeacherID  uuid.UUID `gorm:"type:uuid;not null;index" json:"teacher_id"`
	Answer     string    `gorm:"type:text;not null" json:"answer"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (LessonAnswerModel) TableName() string { return "lesson_answers" }

func (m *LessonAnswerModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
