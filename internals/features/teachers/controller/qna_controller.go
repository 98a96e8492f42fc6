package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	lessonModel "osa_backend/internals/features/academy/lessons/model"
	teacherDTO "osa_backend/internals/features/teachers/dto"
	teacherModel "osa_backend/internals/features/teachers/model"
	userModel "osa_backend/internals/features/users/user/model"
	helper "osa_backend/internals/helpers"
	authMw "osa_backend/internals/middlewares/auth"
)

// 🟢 GET /api/teacher/questions?answered= — questions from lessons in
// the teacher's courses. Anonymous askers stay anonymous.
func (ctrl *TeacherController) GetQuestions(c *fiber.Ctx) error {
	teacherID, err := authMw.CurrentUserID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	scope, err := ctrl.Scope.Resolve(teacherID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to resolve teaching scope")
	}

	courseIDs := scope.CourseIDList()
	if len(courseIDs) == 0 {
		return helper.JsonOK(c, "Questions fetched", []teacherDTO.QuestionResponse{})
	}

	q := ctrl.DB.Model(&teacherModel.LessonQuestionModel{}).
		Where("lesson_id IN (SELECT id FROM lessons WHERE course_id IN ?)", courseIDs)
	switch c.Query("answered") {
	case "true":
		q = q.Where("id IN (SELECT question_id FROM lesson_answers)")
	case "false":
		q = q.Where("id NOT IN (SELECT question_id FROM lesson_answers)")
	}

	var questions []teacherModel.LessonQuestionModel
	if err := q.Order("created_at DESC").Find(&questions).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load questions")
	}

	out := make([]teacherDTO.QuestionResponse, 0, len(questions))
	for _, question := range questions {
		out = append(out, ctrl.serializeQuestion(question))
	}
	return helper.JsonOK(c, "Questions fetched", out)
}

func (ctrl *TeacherController) serializeQuestion(question teacherModel.LessonQuestionModel) teacherDTO.QuestionResponse {
	resp := teacherDTO.QuestionResponse{
		ID:          question.ID,
		LessonID:    question.LessonID,
		Question:    question.Question,
		IsAnonymous: question.IsAnonymous,
		CreatedAt:   question.CreatedAt,
	}

	var lesson lessonModel.LessonModel
	if err := ctrl.DB.Select("id", "title").First(&lesson, "id = ?", question.LessonID).Error; err == nil {
		resp.LessonTitle = lesson.Title
	}

	if question.IsAnonymous {
		resp.StudentName = "Anonymous"
	} else if question.StudentID != nil {
		var student userModel.UserModel
		if err := ctrl.DB.Select("id", "full_name").First(&student, "id = ?", *question.StudentID).Error; err == nil {
			resp.StudentName = student.FullName
		}
	}

	var answer teacherModel.LessonAnswerModel
	if err := ctrl.DB.First(&answer, "question_id = ?", question.ID).Error; err == nil {
		resp.Answer = &answer.Answer
		resp.AnsweredAt = &answer.UpdatedAt
	}
	return resp
}

// 🟡 POST /api/teacher/questions/:id/answer — one answer per question,
// answering again replaces the previous text.
func (ctrl *TeacherController) AnswerQuestion(c *fiber.Ctx) error {
	teacherID, err := authMw.CurrentUserID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	questionID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var question teacherModel.LessonQuestionModel
	if err := ctrl.DB.First(&question, "id = ?", questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Question not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load question")
	}

	var lesson lessonModel.LessonModel
	if err := ctrl.DB.First(&lesson, "id = ?", question.LessonID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load lesson")
	}
	if err := ctrl.Scope.RequireCourse(teacherID, lesson.CourseID); err != nil {
		return helper.FromFiberError(c, err)
	}

	var req teacherDTO.AnswerQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var answer teacherModel.LessonAnswerModel
	findErr := ctrl.DB.First(&answer, "question_id = ?", questionID).Error
	switch {
	case errors.Is(findErr, gorm.ErrRecordNotFound):
		answer = teacherModel.LessonAnswerModel{
			QuestionID: questionID,
			TeacherID:  teacherID,
			Answer:     req.Answer,
		}
		if err := ctrl.DB.Create(&answer).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to save answer")
		}
	case findErr != nil:
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load answer")
	default:
		if err := ctrl.DB.Model(&answer).Updates(map[string]any{
			"teacher_id": teacherID,
			"answer":     req.Answer,
		}).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to save answer")
		}
	}

	return helper.JsonOK(c, "Answer saved", ctrl.serializeQuestion(question))
}
