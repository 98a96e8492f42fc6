package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	userDTO "osa_backend/internals/features/users/user/dto"
	userModel "osa_backend/internals/features/users/user/model"
	helper "osa_backend/internals/helpers"
)

var validate = validator.New()

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// 🟢 GET /api/admin/accounts
func (ctrl *UserController) GetUsers(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 50, 200)

	q := ctrl.DB.Model(&userModel.UserModel{})
	if role := c.Query("role"); role != "" {
		if !userModel.ValidRole(role) {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid role filter")
		}
		q = q.Where("role = ?", role)
	}
	if search := c.Query("q"); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(email) LIKE ? OR LOWER(full_name) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count users")
	}

	var users []userModel.UserModel
	if err := q.Order("created_at ASC").
		Offset(p.Offset).Limit(p.PerPage).
		Find(&users).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load users")
	}

	out := make([]userDTO.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, userDTO.ToUserResponse(&users[i]))
	}
	return helper.JsonList(c, "Users fetched", out, helper.BuildPagination(total, p))
}

// 🟡 POST /api/admin/accounts — admin-created accounts default to
// active, unlike self-registration.
func (ctrl *UserController) CreateUser(c *fiber.Ctx) error {
	var req userDTO.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var count int64
	if err := ctrl.DB.Model(&userModel.UserModel{}).
		Where("email = ?", email).Count(&count).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check email")
	}
	if count > 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Email already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to hash password")
	}

	user := userModel.UserModel{
		Email:    email,
		Password: string(hashed),
		FullName: req.FullName,
		Role:     req.Role,
		IsActive: true,
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if err := ctrl.DB.Create(&user).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create user")
	}
	return helper.JsonCreated(c, "User created", userDTO.ToUserResponse(&user))
}

// 🟡 PUT /api/admin/accounts/:id
func (ctrl *UserController) UpdateUser(c *fiber.Ctx) error {
	userID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req userDTO.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var user userModel.UserModel
	if err := ctrl.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "User not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load user")
	}

	updates := map[string]any{}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to hash password")
		}
		updates["password"] = string(hashed)
	}
	if len(updates) == 0 {
		return helper.JsonOK(c, "Nothing to update", userDTO.ToUserResponse(&user))
	}

	if err := ctrl.DB.Model(&user).Updates(updates).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update user")
	}
	if err := ctrl.DB.First(&user, "id = ?", userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to reload user")
	}
	return helper.JsonUpdated(c, "User updated", userDTO.ToUserResponse(&user))
}

// deletePolicy is one step of the account-removal cascade: which table
// to touch, which column points at the user, and whether the rows go
// away or just lose the reference.
type deletePolicy struct {
	table   string
	column  string
	nullify bool
}

// The cascade is declared statically so a new user-referencing table is
// a code review question, not a silent orphan.
var userDeleteCascade = []deletePolicy{
	{table: "enrollments", column: "student_id"},
	{table: "parent_students", column: "parent_id"},
	{table: "parent_students", column: "student_id"},
	{table: "exam_results", column: "student_id"},
	{table: "lesson_questions", column: "student_id", nullify: true},
}

// teacherOwnedTables blocks plain deletion of a teacher who still owns
// content; reassign-and-delete is the supported path for that.
var teacherOwnedTables = []deletePolicy{
	{table: "courses", column: "teacher_id"},
	{table: "subjects", column: "instructor_id"},
	{table: "live_classes", column: "teacher_id"},
	{table: "exams", column: "teacher_id"},
	{table: "lesson_answers", column: "teacher_id"},
}

// 🔴 DELETE /api/admin/accounts/:id
func (ctrl *UserController) DeleteUser(c *fiber.Ctx) error {
	userID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		var user userModel.UserModel
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "User not found")
			}
			return err
		}

		if user.Role == userModel.RoleTeacher {
			for _, p := range teacherOwnedTables {
				var n int64
				if err := tx.Table(p.table).Where(p.column+" = ?", userID).Count(&n).Error; err != nil {
					return err
				}
				if n > 0 {
					return fiber.NewError(fiber.StatusBadRequest,
						"Teacher still owns content; reassign it to another teacher first")
				}
			}
		}

		for _, p := range userDeleteCascade {
			stmt := "DELETE FROM " + p.table + " WHERE " + p.column + " = ?"
			if p.nullify {
				stmt = "UPDATE " + p.table + " SET " + p.column + " = NULL WHERE " + p.column + " = ?"
			}
			if err := tx.Exec(stmt, userID).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&userModel.UserModel{}, "id = ?", userID).Error
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	log.Printf("[USERS] account %s deleted with cascade", userID)
	return helper.JsonDeleted(c)
}
