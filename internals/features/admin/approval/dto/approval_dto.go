package dto

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	userModel "osa_backend/internals/features/users/user/model"
)

type CourseAssignmentPayload struct {
	CourseID uuid.UUID  `json:"course_id" validate:"required"`
	ClassID  *uuid.UUID `json:"class_id"`
}

type ApproveUserRequest struct {
	CourseAssignments []CourseAssignmentPayload `json:"course_assignments" validate:"dive"`
	ChildIDs          []uuid.UUID               `json:"child_ids"`
	Activate          *bool                     `json:"activate"`
}

// StudentApproval / ParentApproval are the role-specific halves of an
// approval payload.
type StudentApproval struct {
	CourseAssignments []CourseAssignmentPayload
}

type ParentApproval struct {
	ChildIDs []uuid.UUID
}

// ApprovalPlan is the validated, role-tagged form of an approval
// request. Exactly one of Student/Parent is set for those roles; both
// are nil for teacher/admin approvals.
type ApprovalPlan struct {
	Activate bool
	Student  *StudentApproval
	Parent   *ParentApproval
}

// PlanFor validates the request against the target user's role before
// anything is written: assignments on a non-student or child links on a
// non-parent are rejected instead of being silently ignored.
func (r *ApproveUserRequest) PlanFor(role string) (*ApprovalPlan, error) {
	plan := &ApprovalPlan{Activate: true}
	if r.Activate != nil {
		plan.Activate = *r.Activate
	}

	switch role {
	case userModel.RoleStudent:
		if len(r.ChildIDs) > 0 {
			return nil, fiber.NewError(fiber.StatusBadRequest, "child_ids is only valid for parent accounts")
		}
		plan.Student = &StudentApproval{CourseAssignments: r.CourseAssignments}
	case userModel.RoleParent:
		if len(r.CourseAssignments) > 0 {
			return nil, fiber.NewError(fiber.StatusBadRequest, "course_assignments is only valid for student accounts")
		}
		plan.Parent = &ParentApproval{ChildIDs: r.ChildIDs}
	default:
		if len(r.ChildIDs) > 0 || len(r.CourseAssignments) > 0 {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Assignments are not valid for this role")
		}
	}
	return plan, nil
}

type UpdateEnrollmentsRequest struct {
	CourseAssignments []CourseAssignmentPayload `json:"course_assignments" validate:"dive"`
}

type UpdateParentChildrenRequest struct {
	ChildIDs []uuid.UUID `json:"child_ids"`
}

type TeacherReassignmentRequest struct {
	ReplacementTeacherID uuid.UUID `json:"replacement_teacher_id" validate:"required"`
}

/* ================= Responses ================= */

type PendingUserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func ToPendingUserResponse(u userModel.UserModel) PendingUserResponse {
	return PendingUserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

type AdminUserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func ToAdminUserResponse(u userModel.UserModel) AdminUserResponse {
	return AdminUserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

type EnrollmentSummary struct {
	ID          uuid.UUID  `json:"id"`
	CourseID    uuid.UUID  `json:"course_id"`
	CourseTitle string     `json:"course_title"`
	ClassID     *uuid.UUID `json:"class_id,omitempty"`
	ClassName   *string    `json:"class_name,omitempty"`
	EnrolledAt  time.Time  `json:"enrolled_at"`
}

type StudentAdminResponse struct {
	ID          uuid.UUID           `json:"id"`
	Email       string              `json:"email"`
	FullName    string              `json:"full_name"`
	CreatedAt   time.Time           `json:"created_at"`
	Enrollments []EnrollmentSummary `json:"enrollments"`
}

type ParentChildSummary struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
}

type ParentAdminResponse struct {
	ID        uuid.UUID            `json:"id"`
	Email     string               `json:"email"`
	FullName  string               `json:"full_name"`
	CreatedAt time.Time            `json:"created_at"`
	Children  []ParentChildSummary `json:"children"`
}

type TeacherCourseSummary struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

type TeacherSubjectSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	CourseID    uuid.UUID `json:"course_id"`
	CourseTitle string    `json:"course_title"`
}

type TeacherAssignmentOverview struct {
	TeacherID         uuid.UUID               `json:"teacher_id"`
	TeacherEmail      string                  `json:"teacher_email"`
	TeacherName       string                  `json:"teacher_name"`
	CourseCount       int                     `json:"course_count"`
	SubjectCount      int                     `json:"subject_count"`
	LiveClassCount    int64                   `json:"live_class_count"`
	ExamCount         int64                   `json:"exam_count"`
	LessonAnswerCount int64                   `json:"lesson_answer_count"`
	Courses           []TeacherCourseSummary  `json:"courses"`
	Subjects          []TeacherSubjectSummary `json:"subjects"`
}

type TeacherReassignmentResult struct {
	DeletedTeacherID        uuid.UUID `json:"deleted_teacher_id"`
	ReassignedCourses       int64     `json:"reassigned_courses"`
	ReassignedSubjects      int64     `json:"reassigned_subjects"`
	ReassignedLiveClasses   int64     `json:"reassigned_live_classes"`
	ReassignedExams         int64     `json:"reassigned_exams"`
	ReassignedLessonAnswers int64     `json:"reassigned_lesson_answers"`
}
