package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	lessonDTO "osa_backend/internals/features/academy/lessons/dto"
	lessonModel "osa_backend/internals/features/academy/lessons/model"
	sessionDTO "osa_backend/internals/features/academy/sessions/dto"
	sessionModel "osa_backend/internals/features/academy/sessions/model"
	helper "osa_backend/internals/helpers"
)

var validate = validator.New()

type ClassSessionController struct {
	DB *gorm.DB
}

func NewClassSessionController(db *gorm.DB) *ClassSessionController {
	return &ClassSessionController{DB: db}
}

func (ctrl *ClassSessionController) requireLesson(lessonID uuid.UUID) error {
	var n int64
	if err := ctrl.DB.Model(&lessonModel.LessonModel{}).Where("id = ?", lessonID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Lesson not found")
	}
	return nil
}

func (ctrl *ClassSessionController) findScoped(lessonID, sessionID uuid.UUID) (*sessionModel.ClassSessionModel, error) {
	var session sessionModel.ClassSessionModel
	err := ctrl.DB.First(&session, "id = ? AND lesson_id = ?", sessionID, lessonID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "Class session not found")
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// 🟢 GET /api/lessons/:lessonId/sessions
func (ctrl *ClassSessionController) GetSessions(c *fiber.Ctx) error {
	lessonID, err := helper.ParseUUIDParam(c, "lessonId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := ctrl.requireLesson(lessonID); err != nil {
		return helper.FromFiberError(c, err)
	}

	var sessions []sessionModel.ClassSessionModel
	if err := ctrl.DB.Where("lesson_id = ?", lessonID).
		Order("session_date ASC, start_time ASC").
		Find(&sessions).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load class sessions")
	}
	return helper.JsonOK(c, "Class sessions fetched", sessions)
}

// 🟡 POST /api/admin/lessons/:lessonId/sessions
func (ctrl *ClassSessionController) CreateSession(c *fiber.Ctx) error {
	lessonID, err := helper.ParseUUIDParam(c, "lessonId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := ctrl.requireLesson(lessonID); err != nil {
		return helper.FromFiberError(c, err)
	}

	var req sessionDTO.CreateClassSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	date, err := lessonDTO.ParseDate(req.SessionDate)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	start, err := sessionDTO.NormalizeClock(req.StartTime)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	end, err := sessionDTO.NormalizeClock(req.EndTime)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if end <= start {
		return helper.JsonError(c, fiber.StatusBadRequest, "end_time must be after start_time")
	}

	session := sessionModel.ClassSessionModel{
		LessonID:    lessonID,
		SessionDate: date,
		StartTime:   start,
		EndTime:     end,
	}
	if err := ctrl.DB.Create(&session).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create class session")
	}
	return helper.JsonCreated(c, "Class session created", session)
}

// 🟡 PUT /api/admin/lessons/:lessonId/sessions/:sessionId
func (ctrl *ClassSessionController) UpdateSession(c *fiber.Ctx) error {
	lessonID, err := helper.ParseUUIDParam(c, "lessonId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	sessionID, err := helper.ParseUUIDParam(c, "sessionId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	session, err := ctrl.findScoped(lessonID, sessionID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req sessionDTO.UpdateClassSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	updates := map[string]any{}
	start, end := session.StartTime, session.EndTime
	if req.SessionDate != nil {
		date, err := lessonDTO.ParseDate(*req.SessionDate)
		if err != nil {
			return helper.FromFiberError(c, err)
		}
		updates["session_date"] = date
	}
	if req.StartTime != nil {
		start, err = sessionDTO.NormalizeClock(*req.StartTime)
		if err != nil {
			return helper.FromFiberError(c, err)
		}
		updates["start_time"] = start
	}
	if req.EndTime != nil {
		end, err = sessionDTO.NormalizeClock(*req.EndTime)
		if err != nil {
			return helper.FromFiberError(c, err)
		}
		updates["end_time"] = end
	}
	if end <= start {
		return helper.JsonError(c, fiber.StatusBadRequest, "end_time must be after start_time")
	}
	if req.IsCompleted != nil {
		updates["is_completed"] = *req.IsCompleted
	}
	if len(updates) > 0 {
		if err := ctrl.DB.Model(session).Updates(updates).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update class session")
		}
	}
	return helper.JsonUpdated(c, "Class session updated", session)
}

// 🟡 POST /api/admin/lessons/:lessonId/sessions/:sessionId/complete
func (ctrl *ClassSessionController) CompleteSession(c *fiber.Ctx) error {
	lessonID, err := helper.ParseUUIDParam(c, "lessonId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	sessionID, err := helper.ParseUUIDParam(c, "sessionId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	session, err := ctrl.findScoped(lessonID, sessionID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	if err := ctrl.DB.Model(session).Update("is_completed", true).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to complete class session")
	}
	session.IsCompleted = true
	return helper.JsonUpdated(c, "Class session marked completed", session)
}

// 🔴 DELETE /api/admin/lessons/:lessonId/sessions/:sessionId
func (ctrl *ClassSessionController) DeleteSession(c *fiber.Ctx) error {
	lessonID, err := helper.ParseUUIDParam(c, "lessonId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	sessionID, err := helper.ParseUUIDParam(c, "sessionId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	session, err := ctrl.findScoped(lessonID, sessionID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	if err := ctrl.DB.Delete(session).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete class session")
	}
	return helper.JsonDeleted(c)
}
