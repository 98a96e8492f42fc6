package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	courseModel "osa_backend/internals/features/academy/courses/model"
	subjectDTO "osa_backend/internals/features/academy/subjects/dto"
	subjectModel "osa_backend/internals/features/academy/subjects/model"
	userModel "osa_backend/internals/features/users/user/model"
	helper "osa_backend/internals/helpers"
)

var validate = validator.New()

type SubjectController struct {
	DB *gorm.DB
}

func NewSubjectController(db *gorm.DB) *SubjectController {
	return &SubjectController{DB: db}
}

func (ctrl *SubjectController) requireCourse(courseID uuid.UUID) error {
	var n int64
	if err := ctrl.DB.Model(&courseModel.CourseModel{}).Where("id = ?", courseID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Course not found")
	}
	return nil
}

// findScoped loads a subject by id AND course, so a valid subject id
// under the wrong course reads as not found.
func (ctrl *SubjectController) findScoped(courseID, subjectID uuid.UUID) (*subjectModel.SubjectModel, error) {
	var subject subjectModel.SubjectModel
	err := ctrl.DB.First(&subject, "id = ? AND course_id = ?", subjectID, courseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "Subject not found in this course")
	}
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

func (ctrl *SubjectController) checkInstructor(id uuid.UUID) error {
	var n int64
	if err := ctrl.DB.Model(&userModel.UserModel{}).
		Where("id = ? AND role = ?", id, userModel.RoleTeacher).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Instructor not found")
	}
	return nil
}

// 🟢 GET /api/courses/:courseId/subjects
func (ctrl *SubjectController) GetSubjects(c *fiber.Ctx) error {
	courseID, err := helper.ParseUUIDParam(c, "courseId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := ctrl.requireCourse(courseID); err != nil {
		return helper.FromFiberError(c, err)
	}

	var subjects []subjectModel.SubjectModel
	if err := ctrl.DB.Where("course_id = ?", courseID).
		Order("order_in_course ASC, created_at ASC").
		Find(&subjects).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load subjects")
	}
	return helper.JsonOK(c, "Subjects fetched", subjects)
}

// 🟢 GET /api/courses/:courseId/subjects/:subjectId
func (ctrl *SubjectController) GetSubject(c *fiber.Ctx) error {
	courseID, err := helper.ParseUUIDParam(c, "courseId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	subjectID, err := helper.ParseUUIDParam(c, "subjectId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	subject, err := ctrl.findScoped(courseID, subjectID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "Subject fetched", subject)
}

// 🟡 POST /api/admin/courses/:courseId/subjects — a body course_id that
// contradicts the path is a client bug, not a soft default.
func (ctrl *SubjectController) CreateSubject(c *fiber.Ctx) error {
	courseID, err := helper.ParseUUIDParam(c, "courseId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := ctrl.requireCourse(courseID); err != nil {
		return helper.FromFiberError(c, err)
	}

	var req subjectDTO.CreateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}
	if req.CourseID != nil && *req.CourseID != courseID {
		return helper.JsonError(c, fiber.StatusBadRequest, "course_id in body does not match the URL")
	}
	if req.InstructorID != nil {
		if err := ctrl.checkInstructor(*req.InstructorID); err != nil {
			return helper.FromFiberError(c, err)
		}
	}

	subject := subjectModel.SubjectModel{
		CourseID:      courseID,
		Name:          req.Name,
		Description:   req.Description,
		InstructorID:  req.InstructorID,
		OrderInCourse: req.OrderInCourse,
	}
	if err := ctrl.DB.Create(&subject).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create subject")
	}
	return helper.JsonCreated(c, "Subject created", subject)
}

// 🟡 PUT /api/admin/courses/:courseId/subjects/:subjectId
func (ctrl *SubjectController) UpdateSubject(c *fiber.Ctx) error {
	courseID, err := helper.ParseUUIDParam(c, "courseId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	subjectID, err := helper.ParseUUIDParam(c, "subjectId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	subject, err := ctrl.findScoped(courseID, subjectID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req subjectDTO.UpdateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.InstructorID != nil {
		if err := ctrl.checkInstructor(*req.InstructorID); err != nil {
			return helper.FromFiberError(c, err)
		}
		updates["instructor_id"] = *req.InstructorID
	}
	if req.OrderInCourse != nil {
		updates["order_in_course"] = *req.OrderInCourse
	}
	if len(updates) > 0 {
		if err := ctrl.DB.Model(subject).Updates(updates).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update subject")
		}
	}
	return helper.JsonUpdated(c, "Subject updated", subject)
}

// 🔴 DELETE /api/admin/courses/:courseId/subjects/:subjectId
func (ctrl *SubjectController) DeleteSubject(c *fiber.Ctx) error {
	courseID, err := helper.ParseUUIDParam(c, "courseId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	subjectID, err := helper.ParseUUIDParam(c, "subjectId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	subject, err := ctrl.findScoped(courseID, subjectID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"DELETE FROM class_sessions WHERE lesson_id IN (SELECT id FROM lessons WHERE subject_id = ?)",
			subjectID,
		).Error; err != nil {
			return err
		}
		if err := tx.Exec(
			"DELETE FROM lesson_contents WHERE lesson_id IN (SELECT id FROM lessons WHERE subject_id = ?)",
			subjectID,
		).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM lessons WHERE subject_id = ?", subjectID).Error; err != nil {
			return err
		}
		return tx.Delete(subject).Error
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete subject")
	}
	return helper.JsonDeleted(c)
}
