package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateExamRequest struct {
	CourseID        uuid.UUID  `json:"course_id" validate:"required"`
	SubjectID       *uuid.UUID `json:"subject_id"`
	Title           string     `json:"title" validate:"required,min=2,max=255"`
	Description     string     `json:"description"`
	ScheduledDate   *time.Time `json:"scheduled_date"`
	DurationMinutes *int       `json:"duration_minutes" validate:"omitempty,gt=0"`
	MaxScore        *int       `json:"max_score" validate:"omitempty,gt=0"`
}

type UpdateExamRequest struct {
	Title           *string    `json:"title" validate:"omitempty,min=2,max=255"`
	Description     *string    `json:"description"`
	ScheduledDate   *time.Time `json:"scheduled_date"`
	DurationMinutes *int       `json:"duration_minutes" validate:"omitempty,gt=0"`
	MaxScore        *int       `json:"max_score" validate:"omitempty,gt=0"`
}

type ExamResultEntry struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	Score     int       `json:"score" validate:"gte=0"`
	MaxScore  *int      `json:"max_score" validate:"omitempty,gt=0"`
	Status    *string   `json:"status"`
	Feedback  *string   `json:"feedback"`
}

type SubmitExamResultsRequest struct {
	Results []ExamResultEntry `json:"results" validate:"required,min=1,dive"`
}

type CreateLiveClassRequest struct {
	CourseID      uuid.UUID  `json:"course_id" validate:"required"`
	ChapterID     *uuid.UUID `json:"chapter_id"`
	Title         string     `json:"title" validate:"required,min=2,max=255"`
	Description   string     `json:"description"`
	ScheduledDate time.Time  `json:"scheduled_date" validate:"required"`
	StartTime     string     `json:"start_time" validate:"required"`
	EndTime       string     `json:"end_time" validate:"required"`
	MeetingLink   *string    `json:"meeting_link" validate:"omitempty,url"`
}

type UpdateLiveClassRequest struct {
	Title         *string    `json:"title" validate:"omitempty,min=2,max=255"`
	Description   *string    `json:"description"`
	ScheduledDate *time.Time `json:"scheduled_date"`
	StartTime     *string    `json:"start_time"`
	EndTime       *string    `json:"end_time"`
	MeetingLink   *string    `json:"meeting_link" validate:"omitempty,url"`
	IsActive      *bool      `json:"is_active"`
}

type AnswerQuestionRequest struct {
	Answer string `json:"answer" validate:"required,min=1"`
}

type QuestionResponse struct {
	ID          uuid.UUID  `json:"id"`
	LessonID    uuid.UUID  `json:"lesson_id"`
	LessonTitle string     `json:"lesson_title,omitempty"`
	StudentName string     `json:"student_name,omitempty"`
	Question    string     `json:"question"`
	IsAnonymous bool       `json:"is_anonymous"`
	CreatedAt   time.Time  `json:"created_at"`
	Answer      *string    `json:"answer,omitempty"`
	AnsweredAt  *time.Time `json:"answered_at,omitempty"`
}

type TeacherOverviewResponse struct {
	CourseCount     int   `json:"course_count"`
	SubjectCount    int   `json:"subject_count"`
	StudentCount    int64 `json:"student_count"`
	ExamCount       int64 `json:"exam_count"`
	LiveClassCount  int64 `json:"live_class_count"`
	OpenQuestions   int64 `json:"open_questions"`
	UpcomingClasses int64 `json:"upcoming_classes"`
}

type StudentReportEntry struct {
	ExamID    uuid.UUID `json:"exam_id"`
	ExamTitle string    `json:"exam_title"`
	Score     int       `json:"score"`
	MaxScore  *int      `json:"max_score,omitempty"`
	Status    *string   `json:"status,omitempty"`
	Feedback  *string   `json:"feedback,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

type StudentReportResponse struct {
	StudentID   uuid.UUID            `json:"student_id"`
	StudentName string               `json:"student_name"`
	Results     []StudentReportEntry `json:"results"`
}
