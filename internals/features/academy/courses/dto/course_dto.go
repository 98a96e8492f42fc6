package dto

import (
	"time"

	"github.com/google/uuid"

	courseModel "osa_backend/internals/features/academy/courses/model"
)

type CreateCourseRequest struct {
	Title       string    `json:"title" validate:"required,min=2,max=255"`
	Description string    `json:"description"`
	TeacherID   uuid.UUID `json:"teacher_id" validate:"required"`
}

type UpdateCourseRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=2,max=255"`
	Description *string    `json:"description"`
	TeacherID   *uuid.UUID `json:"teacher_id"`
}

type CreateChapterRequest struct {
	Title       string `json:"title" validate:"required,min=2,max=255"`
	Description string `json:"description"`
	Order       int    `json:"order" validate:"gte=0"`
}

type UpdateChapterRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=2,max=255"`
	Description *string `json:"description"`
	Order       *int    `json:"order" validate:"omitempty,gte=0"`
}

type CreateAttachmentRequest struct {
	CourseID    *uuid.UUID `json:"course_id"`
	LessonID    *uuid.UUID `json:"lesson_id"`
	ChapterID   *uuid.UUID `json:"chapter_id"`
	Title       string     `json:"title" validate:"required,min=2,max=255"`
	Description string     `json:"description"`
	FileURL     string     `json:"file_url" validate:"required,url"`
	FileType    string     `json:"file_type" validate:"required,max=50"`
	Source      string     `json:"source" validate:"omitempty,oneof=upload link youtube drive"`
	FileSize    *int64     `json:"file_size"`
	Duration    *int       `json:"duration"`
}

type CourseResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TeacherID   uuid.UUID `json:"teacher_id"`
	TeacherName string    `json:"teacher_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type CourseDetailResponse struct {
	CourseResponse
	Chapters    []courseModel.ChapterModel    `json:"chapters"`
	Attachments []courseModel.AttachmentModel `json:"attachments"`
}

func ToCourseResponse(m courseModel.CourseModel) CourseResponse {
	return CourseResponse{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		TeacherID:   m.TeacherID,
		CreatedAt:   m.CreatedAt,
	}
}
