package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EnrollmentModel links a student to a course. ClassID optionally
// points at the chapter the student is currently working through.
// "At most one active enrollment per (student, course)" is an
// application-level rule; the composite index only speeds the check.
type EnrollmentModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID  uuid.UUID  `gorm:"type:uuid;not null;index:idx_enrollments_student_course" json:"student_id"`
	CourseID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_enrollments_student_course" json:"course_id"`
	ClassID    *uuid.UUID `gorm:"type:uuid" json:"class_id,omitempty"`
	IsActive   bool       `gorm:"not null;default:true" json:"is_active"`
	EnrolledAt time.Time  `gorm:"autoCreateTime" json:"enrolled_at"`
}

func (EnrollmentModel) TableName() string {
	return "enrollments"
}

func (m *EnrollmentModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ParentStudentModel associates a parent account with the students they
// can access. Unique per (parent, student) pair.
type ParentStudentModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ParentID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_parent_student" json:"parent_id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_parent_student" json:"student_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ParentStudentModel) TableName() string {
	return "parent_students"
}

func (m *ParentStudentModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
