package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	approvalDTO "osa_backend/internals/features/admin/approval/dto"
	"osa_backend/internals/features/admin/approval/service"
	userModel "osa_backend/internals/features/users/user/model"
	helper "osa_backend/internals/helpers"
)

var validate = validator.New()

type ApprovalController struct {
	DB      *gorm.DB
	Service *service.ApprovalService
}

func NewApprovalController(db *gorm.DB) *ApprovalController {
	return &ApprovalController{DB: db, Service: service.NewApprovalService(db)}
}

// 🟢 GET /api/admin/pending-users?role=
func (ctrl *ApprovalController) GetPendingUsers(c *fiber.Ctx) error {
	role := c.Query("role")
	if role != "" && !userModel.ValidRole(role) {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid role filter")
	}

	users, err := ctrl.Service.ListPending(role)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load pending users")
	}

	out := make([]approvalDTO.PendingUserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, approvalDTO.ToPendingUserResponse(u))
	}
	return helper.JsonOK(c, "Pending users fetched", out)
}

// 🟡 POST /api/admin/approve-user/:id
func (ctrl *ApprovalController) ApproveUser(c *fiber.Ctx) error {
	userID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req approvalDTO.ApproveUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	user, err := ctrl.Service.ApproveUser(userID, &req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	switch user.Role {
	case userModel.RoleStudent:
		resp, err := ctrl.Service.SerializeStudent(*user)
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load student enrollments")
		}
		return helper.JsonOK(c, "User approval processed", resp)
	case userModel.RoleParent:
		resp, err := ctrl.Service.SerializeParent(*user)
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load parent children")
		}
		return helper.JsonOK(c, "User approval processed", resp)
	}
	return helper.JsonOK(c, "User approval processed", approvalDTO.ToAdminUserResponse(*user))
}

// 🟢 GET /api/admin/users?role=
func (ctrl *ApprovalController) GetUsers(c *fiber.Ctx) error {
	role := c.Query("role")
	if role != "" && !userModel.ValidRole(role) {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid role filter")
	}

	q := ctrl.DB.Model(&userModel.UserModel{})
	if role != "" {
		q = q.Where("role = ?", role)
	}

	var users []userModel.UserModel
	if err := q.Order("created_at ASC").Find(&users).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load users")
	}

	out := make([]approvalDTO.AdminUserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, approvalDTO.ToAdminUserResponse(u))
	}
	return helper.JsonOK(c, "Users fetched", out)
}

// 🟢 GET /api/admin/students
func (ctrl *ApprovalController) GetStudents(c *fiber.Ctx) error {
	var students []userModel.UserModel
	if err := ctrl.DB.Where("role = ? AND is_active = ?", userModel.RoleStudent, true).
		Order("created_at ASC").Find(&students).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load students")
	}

	out := make([]approvalDTO.StudentAdminResponse, 0, len(students))
	for _, s := range students {
		resp, err := ctrl.Service.SerializeStudent(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load student enrollments")
		}
		out = append(out, *resp)
	}
	return helper.JsonOK(c, "Students fetched", out)
}

// 🟡 PUT /api/admin/students/:id/enrollments
func (ctrl *ApprovalController) UpdateStudentEnrollments(c *fiber.Ctx) error {
	studentID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req approvalDTO.UpdateEnrollmentsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	if err := ctrl.Service.UpdateStudentEnrollments(studentID, req.CourseAssignments); err != nil {
		return helper.FromFiberError(c, err)
	}

	var student userModel.UserModel
	if err := ctrl.DB.First(&student, "id = ?", studentID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to reload student")
	}
	resp, err := ctrl.Service.SerializeStudent(student)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load student enrollments")
	}
	return helper.JsonUpdated(c, "Student enrollments updated", resp)
}

// 🟢 GET /api/admin/parents
func (ctrl *ApprovalController) GetParents(c *fiber.Ctx) error {
	var parents []userModel.UserModel
	if err := ctrl.DB.Where("role = ? AND is_active = ?", userModel.RoleParent, true).
		Order("created_at ASC").Find(&parents).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load parents")
	}

	out := make([]approvalDTO.ParentAdminResponse, 0, len(parents))
	for _, p := range parents {
		resp, err := ctrl.Service.SerializeParent(p)
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load parent links")
		}
		out = append(out, *resp)
	}
	return helper.JsonOK(c, "Parents fetched", out)
}

// 🟡 PUT /api/admin/parents/:id/children
func (ctrl *ApprovalController) UpdateParentChildren(c *fiber.Ctx) error {
	parentID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req approvalDTO.UpdateParentChildrenRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := ctrl.Service.UpdateParentChildren(parentID, req.ChildIDs); err != nil {
		return helper.FromFiberError(c, err)
	}

	var parent userModel.UserModel
	if err := ctrl.DB.First(&parent, "id = ?", parentID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to reload parent")
	}
	resp, err := ctrl.Service.SerializeParent(parent)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load parent links")
	}
	return helper.JsonUpdated(c, "Parent children updated", resp)
}
