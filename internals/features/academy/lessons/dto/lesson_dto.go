package dto

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const dateLayout = "2006-01-02"

// ParseDate turns a YYYY-MM-DD payload string into a datatypes.Date.
func ParseDate(raw string) (datatypes.Date, error) {
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return datatypes.Date{}, fiber.NewError(fiber.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
	}
	return datatypes.Date(t), nil
}

type CreateLessonRequest struct {
	SubjectID      *uuid.UUID `json:"subject_id"`
	Title          string     `json:"title" validate:"required,min=2,max=255"`
	Description    *string    `json:"description"`
	ScheduledDate  *string    `json:"scheduled_date"`
	OrderInSubject int        `json:"order_in_subject" validate:"gte=0"`
}

type UpdateLessonRequest struct {
	Title          *string `json:"title" validate:"omitempty,min=2,max=255"`
	Description    *string `json:"description"`
	ScheduledDate  *string `json:"scheduled_date"`
	OrderInSubject *int    `json:"order_in_subject" validate:"omitempty,gte=0"`
}

type CreateLessonContentRequest struct {
	ContentType   string  `json:"content_type" validate:"required,oneof=video notes quiz"`
	Title         string  `json:"title" validate:"required,min=2,max=255"`
	ContentURL    *string `json:"content_url" validate:"omitempty,url"`
	ContentText   *string `json:"content_text"`
	OrderInLesson int     `json:"order_in_lesson" validate:"gte=0"`
}
