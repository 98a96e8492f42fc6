package controller

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	courseModel "osa_backend/internals/features/academy/courses/model"
	approvalDTO "osa_backend/internals/features/admin/approval/dto"
	approvalModel "osa_backend/internals/features/admin/approval/model"
	"osa_backend/internals/features/admin/approval/service"
	userModel "osa_backend/internals/features/users/user/model"
	helper "osa_backend/internals/helpers"
)

// EnrollmentAdminController covers direct enrollment management plus
// the small dashboard endpoints (stats, health) the admin panel polls.
type EnrollmentAdminController struct {
	DB      *gorm.DB
	Service *service.ApprovalService
}

func NewEnrollmentAdminController(db *gorm.DB) *EnrollmentAdminController {
	return &EnrollmentAdminController{DB: db, Service: service.NewApprovalService(db)}
}

type enrollRequest struct {
	StudentID uuid.UUID  `json:"student_id" validate:"required"`
	CourseID  uuid.UUID  `json:"course_id" validate:"required"`
	ClassID   *uuid.UUID `json:"class_id"`
}

type updateEnrollmentClassRequest struct {
	ClassID *uuid.UUID `json:"class_id"`
}

// 🟡 POST /api/admin/enroll
func (ctrl *EnrollmentAdminController) Enroll(c *fiber.Ctx) error {
	var req enrollRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var student userModel.UserModel
	if err := ctrl.DB.First(&student, "id = ? AND role = ?", req.StudentID, userModel.RoleStudent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Student not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load student")
	}

	assignment := approvalDTO.CourseAssignmentPayload{CourseID: req.CourseID, ClassID: req.ClassID}
	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		return ctrl.Service.ApplyAssignment(tx, req.StudentID, assignment)
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var enrollment approvalModel.EnrollmentModel
	if err := ctrl.DB.First(&enrollment, "student_id = ? AND course_id = ?", req.StudentID, req.CourseID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to reload enrollment")
	}
	return helper.JsonCreated(c, "Student enrolled", enrollment)
}

// 🔴 DELETE /api/admin/enroll/:id
func (ctrl *EnrollmentAdminController) Unenroll(c *fiber.Ctx) error {
	enrollmentID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var enrollment approvalModel.EnrollmentModel
	if err := ctrl.DB.First(&enrollment, "id = ?", enrollmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Enrollment not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load enrollment")
	}

	if err := ctrl.DB.Model(&enrollment).Update("is_active", false).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to deactivate enrollment")
	}
	return helper.JsonUpdated(c, "Enrollment deactivated", fiber.Map{"id": enrollment.ID, "is_active": false})
}

// 🟢 GET /api/admin/enrollments?student_id=&course_id=&active=
func (ctrl *EnrollmentAdminController) GetEnrollments(c *fiber.Ctx) error {
	q := ctrl.DB.Model(&approvalModel.EnrollmentModel{})

	if raw := c.Query("student_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid student_id filter")
		}
		q = q.Where("student_id = ?", id)
	}
	if raw := c.Query("course_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid course_id filter")
		}
		q = q.Where("course_id = ?", id)
	}
	if raw := c.Query("active"); raw != "" {
		q = q.Where("is_active = ?", raw == "true")
	}

	var enrollments []approvalModel.EnrollmentModel
	if err := q.Order("enrolled_at ASC").Find(&enrollments).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load enrollments")
	}
	return helper.JsonOK(c, "Enrollments fetched", enrollments)
}

// 🟡 PUT /api/admin/enrollments/:id/class
func (ctrl *EnrollmentAdminController) UpdateEnrollmentClass(c *fiber.Ctx) error {
	enrollmentID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req updateEnrollmentClassRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	var enrollment approvalModel.EnrollmentModel
	if err := ctrl.DB.First(&enrollment, "id = ?", enrollmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Enrollment not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load enrollment")
	}

	if req.ClassID != nil {
		var chapter courseModel.ChapterModel
		err := ctrl.DB.First(&chapter, "id = ? AND course_id = ?", *req.ClassID, enrollment.CourseID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Class does not belong to the selected course")
		}
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check class")
		}
	}

	if err := ctrl.DB.Model(&enrollment).Update("class_id", req.ClassID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update enrollment")
	}
	enrollment.ClassID = req.ClassID
	return helper.JsonUpdated(c, "Enrollment class updated", enrollment)
}

// 🟢 GET /api/admin/stats
func (ctrl *EnrollmentAdminController) GetStats(c *fiber.Ctx) error {
	stats := fiber.Map{}

	counts := []struct {
		key   string
		model any
		where []any
	}{
		{"total_users", &userModel.UserModel{}, nil},
		{"pending_users", &userModel.UserModel{}, []any{"is_active = ?", false}},
		{"students", &userModel.UserModel{}, []any{"role = ? AND is_active = ?", userModel.RoleStudent, true}},
		{"teachers", &userModel.UserModel{}, []any{"role = ? AND is_active = ?", userModel.RoleTeacher, true}},
		{"parents", &userModel.UserModel{}, []any{"role = ? AND is_active = ?", userModel.RoleParent, true}},
		{"courses", &courseModel.CourseModel{}, nil},
		{"active_enrollments", &approvalModel.EnrollmentModel{}, []any{"is_active = ?", true}},
	}

	for _, item := range counts {
		var n int64
		q := ctrl.DB.Model(item.model)
		if item.where != nil {
			q = q.Where(item.where[0], item.where[1:]...)
		}
		if err := q.Count(&n).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to compute stats")
		}
		stats[item.key] = n
	}

	return helper.JsonOK(c, "Dashboard stats fetched", stats)
}

// 🟢 GET /api/admin/health
func (ctrl *EnrollmentAdminController) Health(c *fiber.Ctx) error {
	dbStatus := "ok"
	sqlDB, err := ctrl.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		dbStatus = "down"
	}
	return helper.JsonOK(c, "Health check", fiber.Map{
		"status":   "ok",
		"database": dbStatus,
		"time":     time.Now().UTC(),
	})
}
