package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	courseModel "osa_backend/internals/features/academy/courses/model"
	sessionDTO "osa_backend/internals/features/academy/sessions/dto"
	teacherDTO "osa_backend/internals/features/teachers/dto"
	teacherModel "osa_backend/internals/features/teachers/model"
	helper "osa_backend/internals/helpers"
	authMw "osa_backend/internals/middlewares/auth"
)

// 🟢 GET /api/teacher/live-classes
func (ctrl *TeacherController) GetLiveClasses(c *fiber.Ctx) error {
	teacherID, err := authMw.CurrentUserID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var classes []teacherModel.LiveClassModel
	if err := ctrl.DB.Where("teacher_id = ?", teacherID).
		Order("scheduled_date ASC, start_time ASC").
		Find(&classes).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load live classes")
	}
	return helper.JsonOK(c, "Live classes fetched", classes)
}

// 🟡 POST /api/teacher/live-classes
func (ctrl *TeacherController) CreateLiveClass(c *fiber.Ctx) error {
	var req teacherDTO.CreateLiveClassRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	teacherID, err := ctrl.requireTeacherCourse(c, req.CourseID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	if req.ChapterID != nil {
		var n int64
		if err := ctrl.DB.Model(&courseModel.ChapterModel{}).
			Where("id = ? AND course_id = ?", *req.ChapterID, req.CourseID).
			Count(&n).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check chapter")
		}
		if n == 0 {
			return helper.JsonError(c, fiber.StatusNotFound, "Class does not belong to the selected course")
		}
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

	liveClass := teacherModel.LiveClassModel{
		CourseID:      req.CourseID,
		ChapterID:     req.ChapterID,
		Title:         req.Title,
		Description:   req.Description,
		ScheduledDate: req.ScheduledDate,
		StartTime:     start,
		EndTime:       end,
		MeetingLink:   req.MeetingLink,
		TeacherID:     teacherID,
		IsActive:      true,
	}
	if err := ctrl.DB.Create(&liveClass).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create live class")
	}
	return helper.JsonCreated(c, "Live class created", liveClass)
}

func (ctrl *TeacherController) findOwnLiveClass(c *fiber.Ctx) (*teacherModel.LiveClassModel, error) {
	teacherID, err := authMw.CurrentUserID(c)
	if err != nil {
		return nil, err
	}
	classID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}

	var liveClass teacherModel.LiveClassModel
	dbErr := ctrl.DB.First(&liveClass, "id = ? AND teacher_id = ?", classID, teacherID).Error
	if errors.Is(dbErr, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "Live class not found")
	}
	if dbErr != nil {
		return nil, dbErr
	}
	return &liveClass, nil
}

// 🟡 PUT /api/teacher/live-classes/:id
func (ctrl *TeacherController) UpdateLiveClass(c *fiber.Ctx) error {
	liveClass, err := ctrl.findOwnLiveClass(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req teacherDTO.UpdateLiveClassRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	updates := map[string]any{}
	start, end := liveClass.StartTime, liveClass.EndTime
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ScheduledDate != nil {
		updates["scheduled_date"] = *req.ScheduledDate
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
	if req.MeetingLink != nil {
		updates["meeting_link"] = *req.MeetingLink
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) > 0 {
		if err := ctrl.DB.Model(liveClass).Updates(updates).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update live class")
		}
	}
	return helper.JsonUpdated(c, "Live class updated", liveClass)
}

// 🔴 DELETE /api/teacher/live-classes/:id
func (ctrl *TeacherController) DeleteLiveClass(c *fiber.Ctx) error {
	liveClass, err := ctrl.findOwnLiveClass(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := ctrl.DB.Delete(liveClass).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete live class")
	}
	return helper.JsonDeleted(c)
}
