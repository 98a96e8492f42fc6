package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	approvalDTO "osa_backend/internals/features/admin/approval/dto"
	"osa_backend/internals/features/admin/approval/service"
	helper "osa_backend/internals/helpers"
)

type TeacherAdminController struct {
	DB      *gorm.DB
	Service *service.ApprovalService
}

func NewTeacherAdminController(db *gorm.DB) *TeacherAdminController {
	return &TeacherAdminController{DB: db, Service: service.NewApprovalService(db)}
}

// 🟢 GET /api/admin/teachers/assignments
func (ctrl *TeacherAdminController) GetTeacherAssignments(c *fiber.Ctx) error {
	overviews, err := ctrl.Service.AllTeacherOverviews()
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Teacher assignments fetched", overviews)
}

// 🟢 GET /api/admin/teachers/:id/assignments
func (ctrl *TeacherAdminController) GetTeacherAssignment(c *fiber.Ctx) error {
	teacherID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	overview, err := ctrl.Service.TeacherOverview(teacherID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Teacher assignments fetched", overview)
}

// 🔴 POST /api/admin/teachers/:id/reassign-and-delete
func (ctrl *TeacherAdminController) ReassignAndDelete(c *fiber.Ctx) error {
	teacherID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req approvalDTO.TeacherReassignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	result, err := ctrl.Service.ReassignTeacherAndDelete(teacherID, req.ReplacementTeacherID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Teacher workload reassigned and account deleted", result)
}
