package controller

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	subjectModel "osa_backend/internals/features/academy/subjects/model"
	approvalModel "osa_backend/internals/features/admin/approval/model"
	teacherDTO "osa_backend/internals/features/teachers/dto"
	teacherModel "osa_backend/internals/features/teachers/model"
	helper "osa_backend/internals/helpers"
	authMw "osa_backend/internals/middlewares/auth"
)

// 🟢 GET /api/teacher/exams
func (ctrl *TeacherController) GetExams(c *fiber.Ctx) error {
	teacherID, err := authMw.CurrentUserID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var exams []teacherModel.ExamModel
	if err := ctrl.DB.Where("teacher_id = ?", teacherID).
		Order("created_at DESC").Find(&exams).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load exams")
	}
	return helper.JsonOK(c, "Exams fetched", exams)
}

// 🟡 POST /api/teacher/exams
func (ctrl *TeacherController) CreateExam(c *fiber.Ctx) error {
	var req teacherDTO.CreateExamRequest
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

	if req.SubjectID != nil {
		var n int64
		if err := ctrl.DB.Model(&subjectModel.SubjectModel{}).
			Where("id = ? AND course_id = ?", *req.SubjectID, req.CourseID).
			Count(&n).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check subject")
		}
		if n == 0 {
			return helper.JsonError(c, fiber.StatusNotFound, "Subject not found in this course")
		}
	}

	exam := teacherModel.ExamModel{
		CourseID:        req.CourseID,
		SubjectID:       req.SubjectID,
		TeacherID:       teacherID,
		Title:           req.Title,
		Description:     req.Description,
		ScheduledDate:   req.ScheduledDate,
		DurationMinutes: req.DurationMinutes,
		MaxScore:        req.MaxScore,
	}
	if err := ctrl.DB.Create(&exam).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create exam")
	}
	return helper.JsonCreated(c, "Exam created", exam)
}

func (ctrl *TeacherController) findOwnExam(c *fiber.Ctx) (*teacherModel.ExamModel, error) {
	teacherID, err := authMw.CurrentUserID(c)
	if err != nil {
		return nil, err
	}
	examID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}

	var exam teacherModel.ExamModel
	dbErr := ctrl.DB.First(&exam, "id = ? AND teacher_id = ?", examID, teacherID).Error
	if errors.Is(dbErr, gorm.ErrRecordNotFound) {
		return nil, fiber.NewError(fiber.StatusNotFound, "Exam not found")
	}
	if dbErr != nil {
		return nil, dbErr
	}
	return &exam, nil
}

// 🟡 PUT /api/teacher/exams/:id
func (ctrl *TeacherController) UpdateExam(c *fiber.Ctx) error {
	exam, err := ctrl.findOwnExam(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req teacherDTO.UpdateExamRequest
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
	if req.ScheduledDate != nil {
		updates["scheduled_date"] = *req.ScheduledDate
	}
	if req.DurationMinutes != nil {
		updates["duration_minutes"] = *req.DurationMinutes
	}
	if req.MaxScore != nil {
		updates["max_score"] = *req.MaxScore
	}
	if len(updates) > 0 {
		if err := ctrl.DB.Model(exam).Updates(updates).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update exam")
		}
	}
	return helper.JsonUpdated(c, "Exam updated", exam)
}

// 🔴 DELETE /api/teacher/exams/:id — results go with the exam.
func (ctrl *TeacherController) DeleteExam(c *fiber.Ctx) error {
	exam, err := ctrl.findOwnExam(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&teacherModel.ExamResultModel{}, "exam_id = ?", exam.ID).Error; err != nil {
			return err
		}
		return tx.Delete(exam).Error
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete exam")
	}
	return helper.JsonDeleted(c)
}

// 🟢 GET /api/teacher/exams/:id/results
func (ctrl *TeacherController) GetExamResults(c *fiber.Ctx) error {
	exam, err := ctrl.findOwnExam(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var results []teacherModel.ExamResultModel
	if err := ctrl.DB.Where("exam_id = ?", exam.ID).
		Order("updated_at DESC").Find(&results).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load exam results")
	}
	return helper.JsonOK(c, "Exam results fetched", fiber.Map{
		"exam":    exam,
		"results": results,
	})
}

// 🟡 POST /api/teacher/exams/:id/results — bulk upsert keyed by
// (exam, student); submitting results publishes the exam.
func (ctrl *TeacherController) SubmitExamResults(c *fiber.Ctx) error {
	exam, err := ctrl.findOwnExam(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req teacherDTO.SubmitExamResultsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	now := time.Now()
	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		for _, entry := range req.Results {
			var n int64
			if err := tx.Model(&approvalModel.EnrollmentModel{}).
				Where("student_id = ? AND course_id = ? AND is_active = ?", entry.StudentID, exam.CourseID, true).
				Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return fiber.NewError(fiber.StatusNotFound, "Student not found in your courses")
			}

			var existing teacherModel.ExamResultModel
			findErr := tx.First(&existing, "exam_id = ? AND student_id = ?", exam.ID, entry.StudentID).Error
			switch {
			case errors.Is(findErr, gorm.ErrRecordNotFound):
				result := teacherModel.ExamResultModel{
					ExamID:      exam.ID,
					StudentID:   entry.StudentID,
					Score:       entry.Score,
					MaxScore:    entry.MaxScore,
					Status:      entry.Status,
					Feedback:    entry.Feedback,
					PublishedAt: &now,
				}
				if err := tx.Create(&result).Error; err != nil {
					return err
				}
			case findErr != nil:
				return findErr
			default:
				updates := map[string]any{
					"score":        entry.Score,
					"max_score":    entry.MaxScore,
					"status":       entry.Status,
					"feedback":     entry.Feedback,
					"published_at": now,
				}
				if err := tx.Model(&existing).Updates(updates).Error; err != nil {
					return err
				}
			}
		}

		return tx.Model(&teacherModel.ExamModel{}).
			Where("id = ?", exam.ID).
			Update("is_published", true).Error
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.JsonOK(c, "Exam results saved", fiber.Map{
		"exam_id":      exam.ID,
		"saved":        len(req.Results),
		"is_published": true,
	})
}
