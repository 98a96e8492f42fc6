package dto

import (
	"github.com/google/uuid"
)

type CreateSubjectRequest struct {
	CourseID      *uuid.UUID `json:"course_id"`
	Name          string     `json:"name" validate:"required,min=2,max=255"`
	Description   string     `json:"description"`
	InstructorID  *uuid.UUID `json:"instructor_id"`
	OrderInCourse int        `json:"order_in_course" validate:"gte=0"`
}

type UpdateSubjectRequest struct {
	Name          *string    `json:"name" validate:"omitempty,min=2,max=255"`
	Description   *string    `json:"description"`
	InstructorID  *uuid.UUID `json:"instructor_id"`
	OrderInCourse *int       `json:"order_in_course" validate:"omitempty,gte=0"`
}
