package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	lessonDTO "osa_backend/internals/features/academy/lessons/dto"
	lessonModel "osa_backend/internals/features/academy/lessons/model"
	subjectModel "osa_backend/internals/features/academy/subjects/model"
	helper "osa_backend/internals/helpers"
)

var validate = validator.New()

type LessonController struct {
	DB *gorm.DB
}

func NewLessonController(db *gorm.DB) *LessonController {
	return &LessonController{DB: db}
}

// ancestry reads courseId/subjectId from the path and checks the
// subject really lives under that course.
func (ctrl *LessonController) ancestry(c *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	courseID, err := helper.ParseUUIDParam(c, "courseId")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	subjectID, err := helper.ParseUUIDParam(c, "subjectId")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	var n int64
	if err := ctrl.DB.Model(&subjectModel.SubjectModel{}).
		Where("id = ? AND course_id = ?", subjectID, courseID).
		Count(&n).Error; err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if n == 0 {
		return uuid.Nil, uuid.Nil, fiber.NewError(fiber.StatusNotFound, "Subject not found in this course")
	}
	return courseID, subjectID, nil
}

func (ctrl *LessonController) findScoped(courseID, subjectID, lessonID uuid.UUID) (*lessonModel.LessonModel, error) {
	var lesson lessonModel.LessonModel
	err := ctrl.DB.First(&lesson,
		"id = ? AND course_id = ? AND subject_id = ?", lessonID, courseID, subjectID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "Lesson not found in this subject")
	}
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

// 🟢 GET /api/courses/:courseId/subjects/:subjectId/lessons
func (ctrl *LessonController) GetLessons(c *fiber.Ctx) error {
	courseID, subjectID, err := ctrl.ancestry(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var lessons []lessonModel.LessonModel
	if err := ctrl.DB.Where("course_id = ? AND subject_id = ?", courseID, subjectID).
		Order("order_in_subject ASC, created_at ASC").
		Find(&lessons).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load lessons")
	}
	return helper.JsonOK(c, "Lessons fetched", lessons)
}

// 🟢 GET /api/courses/:courseId/subjects/:subjectId/lessons/:lessonId —
// lesson plus its ordered contents.
func (ctrl *LessonController) GetLesson(c *fiber.Ctx) error {
	courseID, subjectID, err := ctrl.ancestry(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	lessonID, err := helper.ParseUUIDParam(c, "lessonId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	lesson, err := ctrl.findScoped(courseID, subjectID, lessonID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var contents []lessonModel.LessonContentModel
	if err := ctrl.DB.Where("lesson_id = ?", lessonID).
		Order("order_in_lesson ASC").Find(&contents).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load lesson contents")
	}

	return helper.JsonOK(c, "Lesson fetched", fiber.Map{
		"lesson":   lesson,
		"contents": contents,
	})
}

// 🟡 POST /api/admin/courses/:courseId/subjects/:subjectId/lessons
func (ctrl *LessonController) CreateLesson(c *fiber.Ctx) error {
	courseID, subjectID, err := ctrl.ancestry(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req lessonDTO.CreateLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}
	if req.SubjectID != nil && *req.SubjectID != subjectID {
		return helper.JsonError(c, fiber.StatusBadRequest, "subject_id in body does not match the URL")
	}

	lesson := lessonModel.LessonModel{
		CourseID:       courseID,
		SubjectID:      subjectID,
		Title:          req.Title,
		Description:    req.Description,
		OrderInSubject: req.OrderInSubject,
	}
	if lesson.OrderInSubject == 0 {
		lesson.OrderInSubject = 1
	}
	if req.ScheduledDate != nil {
		d, err := lessonDTO.ParseDate(*req.ScheduledDate)
		if err != nil {
			return helper.FromFiberError(c, err)
		}
		lesson.ScheduledDate = &d
	}

	if err := ctrl.DB.Create(&lesson).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create lesson")
	}
	return helper.JsonCreated(c, "Lesson created", lesson)
}

// 🟡 PUT /api/admin/courses/:courseId/subjects/:subjectId/lessons/:lessonId
func (ctrl *LessonController) UpdateLesson(c *fiber.Ctx) error {
	courseID, subjectID, err := ctrl.ancestry(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	lessonID, err := helper.ParseUUIDParam(c, "lessonId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	lesson, err := ctrl.findScoped(courseID, subjectID, lessonID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req lessonDTO.UpdateLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	updates := map[string]any{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.OrderInSubject != nil {
		updates["order_in_subject"] = *req.OrderInSubject
	}
	if req.ScheduledDate != nil {
		d, err := lessonDTO.ParseDate(*req.ScheduledDate)
		if err != nil {
			return helper.FromFiberError(c, err)
		}
		updates["scheduled_date"] = d
	}
	if len(updates) > 0 {
		if err := ctrl.DB.Model(lesson).Updates(updates).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update lesson")
		}
	}
	return helper.JsonUpdated(c, "Lesson updated", lesson)
}

// 🔴 DELETE /api/admin/courses/:courseId/subjects/:subjectId/lessons/:lessonId
func (ctrl *LessonController) DeleteLesson(c *fiber.Ctx) error {
	courseID, subjectID, err := ctrl.ancestry(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	lessonID, err := helper.ParseUUIDParam(c, "lessonId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	lesson, err := ctrl.findScoped(courseID, subjectID, lessonID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		for _, stmt := range []string{
			"DELETE FROM class_sessions WHERE lesson_id = ?",
			"DELETE FROM lesson_contents WHERE lesson_id = ?",
			"DELETE FROM attachments WHERE lesson_id = ?",
		} {
			if err := tx.Exec(stmt, lessonID).Error; err != nil {
				return err
			}
		}
		return tx.Delete(lesson).Error
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete lesson")
	}
	return helper.JsonDeleted(c)
}

/* ================= Lesson contents ================= */

// 🟡 POST /api/admin/lessons/:lessonId/contents
func (ctrl *LessonController) CreateLessonContent(c *fiber.Ctx) error {
	lessonID, err := helper.ParseUUIDParam(c, "lessonId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var n int64
	if err := ctrl.DB.Model(&lessonModel.LessonModel{}).Where("id = ?", lessonID).Count(&n).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check lesson")
	}
	if n == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Lesson not found")
	}

	var req lessonDTO.CreateLessonContentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}
	if req.ContentURL == nil && req.ContentText == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Content must carry a URL or text")
	}

	content := lessonModel.LessonContentModel{
		LessonID:      lessonID,
		ContentType:   req.ContentType,
		Title:         req.Title,
		ContentURL:    req.ContentURL,
		ContentText:   req.ContentText,
		OrderInLesson: req.OrderInLesson,
	}
	if content.OrderInLesson == 0 {
		content.OrderInLesson = 1
	}
	if err := ctrl.DB.Create(&content).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create lesson content")
	}
	return helper.JsonCreated(c, "Lesson content created", content)
}

// 🔴 DELETE /api/admin/lessons/:lessonId/contents/:contentId
func (ctrl *LessonController) DeleteLessonContent(c *fiber.Ctx) error {
	lessonID, err := helper.ParseUUIDParam(c, "lessonId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	contentID, err := helper.ParseUUIDParam(c, "contentId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	res := ctrl.DB.Delete(&lessonModel.LessonContentModel{}, "id = ? AND lesson_id = ?", contentID, lessonID)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete lesson content")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Lesson content not found")
	}
	return helper.JsonDeleted(c)
}
