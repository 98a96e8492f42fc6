package dto

import (
	"time"

	"github.com/google/uuid"
)

type SelfEnrollRequest struct {
	CourseID uuid.UUID  `json:"course_id" validate:"required"`
	ClassID  *uuid.UUID `json:"class_id"`
}

type AskQuestionRequest struct {
	Question    string `json:"question" validate:"required,min=3"`
	IsAnonymous bool   `json:"is_anonymous"`
}

type EnrolledCourseResponse struct {
	EnrollmentID uuid.UUID  `json:"enrollment_id"`
	CourseID     uuid.UUID  `json:"course_id"`
	CourseTitle  string     `json:"course_title"`
	TeacherName  string     `json:"teacher_name,omitempty"`
	ClassID      *uuid.UUID `json:"class_id,omitempty"`
	ClassName    *string    `json:"class_name,omitempty"`
	EnrolledAt   time.Time  `json:"enrolled_at"`
}

type StudentExamResultResponse struct {
	ExamID      uuid.UUID  `json:"exam_id"`
	ExamTitle   string     `json:"exam_title"`
	CourseID    uuid.UUID  `json:"course_id"`
	Score       int        `json:"score"`
	MaxScore    *int       `json:"max_score,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Feedback    *string    `json:"feedback,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

type StudentQuestionResponse struct {
	ID          uuid.UUID  `json:"id"`
	LessonID    uuid.UUID  `json:"lesson_id"`
	LessonTitle string     `json:"lesson_title,omitempty"`
	Question    string     `json:"question"`
	IsAnonymous bool       `json:"is_anonymous"`
	CreatedAt   time.Time  `json:"created_at"`
	Answer      *string    `json:"answer,omitempty"`
	AnsweredAt  *time.Time `json:"answered_at,omitempty"`
}
