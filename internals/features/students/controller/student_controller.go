package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	courseModel "osa_backend/internals/features/academy/courses/model"
	lessonModel "osa_backend/internals/features/academy/lessons/model"
	approvalModel "osa_backend/internals/features/admin/approval/model"
	studentDTO "osa_backend/internals/features/students/dto"
	teacherModel "osa_backend/internals/features/teachers/model"
	userModel "osa_backend/internals/features/users/user/model"
	helper "osa_backend/internals/helpers"
	authMw "osa_backend/internals/middlewares/auth"
)

var validate = validator.New()

type StudentController struct {
	DB *gorm.DB
}

func NewStudentController(db *gorm.DB) *StudentController {
	return &StudentController{DB: db}
}

// 🟡 POST /api/student/enroll — re-enrolling in a course the student
// left before reactivates the old row instead of duplicating it.
func (ctrl *StudentController) Enroll(c *fiber.Ctx) error {
	studentID, err := authMw.CurrentUserID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req studentDTO.SelfEnrollRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var course courseModel.CourseModel
	if err := ctrl.DB.First(&course, "id = ?", req.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Course not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load course")
	}
	if req.ClassID != nil {
		var n int64
		ctrl.DB.Model(&courseModel.ChapterModel{}).
			Where("id = ? AND course_id = ?", *req.ClassID, req.CourseID).Count(&n)
		if n == 0 {
			return helper.JsonError(c, fiber.StatusNotFound, "Class does not belong to the selected course")
		}
	}

	var existing approvalModel.EnrollmentModel
	findErr := ctrl.DB.First(&existing, "student_id = ? AND course_id = ?", studentID, req.CourseID).Error
	switch {
	case errors.Is(findErr, gorm.ErrRecordNotFound):
		enrollment := approvalModel.EnrollmentModel{
			StudentID: studentID,
			CourseID:  req.CourseID,
			ClassID:   req.ClassID,
			IsActive:  true,
		}
		if err := ctrl.DB.Create(&enrollment).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to enroll")
		}
		return helper.JsonCreated(c, "Enrolled in course", enrollment)
	case findErr != nil:
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check enrollment")
	}

	if existing.IsActive {
		return helper.JsonError(c, fiber.StatusBadRequest, "Already enrolled in this course")
	}

	updates := map[string]any{"is_active": true}
	if req.ClassID != nil {
		updates["class_id"] = req.ClassID
	}
	if err := ctrl.DB.Model(&existing).Updates(updates).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to enroll")
	}
	existing.IsActive = true
	return helper.JsonOK(c, "Enrollment reactivated", existing)
}

// 🔴 DELETE /api/student/enroll/:courseId — soft leave.
func (ctrl *StudentController) Unenroll(c *fiber.Ctx) error {
	studentID, err := authMw.CurrentUserID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	courseID, err := helper.ParseUUIDParam(c, "courseId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var enrollment approvalModel.EnrollmentModel
	findErr := ctrl.DB.First(&enrollment,
		"student_id = ? AND course_id = ? AND is_active = ?", studentID, courseID, true).Error
	if errors.Is(findErr, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, "Active enrollment not found")
	}
	if findErr != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load enrollment")
	}

	if err := ctrl.DB.Model(&enrollment).Update("is_active", false).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to leave course")
	}
	return helper.JsonUpdated(c, "Left course", fiber.Map{"course_id": courseID, "is_active": false})
}

// 🟢 GET /api/student/courses
func (ctrl *StudentController) GetMyCourses(c *fiber.Ctx) error {
	studentID, err := authMw.CurrentUserID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var enrollments []approvalModel.EnrollmentModel
	if err := ctrl.DB.Where("student_id = ? AND is_active = ?", studentID, true).
		Order("enrolled_at ASC").Find(&enrollments).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load enrollments")
	}

	out := make([]studentDTO.EnrolledCourseResponse, 0, len(enrollments))
	for _, e := range enrollments {
		item := studentDTO.EnrolledCourseResponse{
			EnrollmentID: e.ID,
			CourseID:     e.CourseID,
			ClassID:      e.ClassID,
			EnrolledAt:   e.EnrolledAt,
		}
		var course courseModel.CourseModel
		if err := ctrl.DB.First(&course, "id = ?", e.CourseID).Error; err == nil {
			item.CourseTitle = course.Title
			var teacher userModel.UserModel
			if err := ctrl.DB.Select("id", "full_name").First(&teacher, "id = ?", course.TeacherID).Error; err == nil {
				item.TeacherName = teacher.FullName
			}
		}
		if e.ClassID != nil {
			var chapter courseModel.ChapterModel
			if err := ctrl.DB.Select("id", "title").First(&chapter, "id = ?", *e.ClassID).Error; err == nil {
				item.ClassName = &chapter.Title
			}
		}
		out = append(out, item)
	}
	return helper.JsonOK(c, "Enrolled courses fetched", out)
}

func (ctrl *StudentController) isEnrolled(studentID, courseID uuid.UUID) (bool, error) {
	var n int64
	err := ctrl.DB.Model(&approvalModel.EnrollmentModel{}).
		Where("student_id = ? AND course_id = ? AND is_active = ?", studentID, courseID, true).
		Count(&n).Error
	return n > 0, err
}

// 🟡 POST /api/student/lessons/:lessonId/questions — asking requires an
// active enrollment in the lesson's course.
func (ctrl *StudentController) AskQuestion(c *fiber.Ctx) error {
	studentID, err := authMw.CurrentUserID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	lessonID, err := helper.ParseUUIDParam(c, "lessonId")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var lesson lessonModel.LessonModel
	if err := ctrl.DB.First(&lesson, "id = ?", lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Lesson not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load lesson")
	}

	enrolled, err := ctrl.isEnrolled(studentID, lesson.CourseID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check enrollment")
	}
	if !enrolled {
		return helper.JsonError(c, fiber.StatusForbidden, "You are not enrolled in this course")
	}

	var req studentDTO.AskQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	question := teacherModel.LessonQuestionModel{
		LessonID:    lessonID,
		StudentID:   &studentID,
		Question:    req.Question,
		IsAnonymous: req.IsAnonymous,
	}
	if err := ctrl.DB.Create(&question).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to save question")
	}
	return helper.JsonCreated(c, "Question submitted", question)
}

// 🟢 GET /api/student/questions — the student's own questions with any
// answers attached.
func (ctrl *StudentController) GetMyQuestions(c *fiber.Ctx) error {
	studentID, err := authMw.CurrentUserID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var questions []teacherModel.LessonQuestionModel
	if err := ctrl.DB.Where("student_id = ?", studentID).
		Order("created_at DESC").Find(&questions).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load questions")
	}

	out := make([]studentDTO.StudentQuestionResponse, 0, len(questions))
	for _, question := range questions {
		item := studentDTO.StudentQuestionResponse{
			ID:          question.ID,
			LessonID:    question.LessonID,
			Question:    question.Question,
			IsAnonymous: question.IsAnonymous,
			CreatedAt:   question.CreatedAt,
		}
		var lesson lessonModel.LessonModel
		if err := ctrl.DB.Select("id", "title").First(&lesson, "id = ?", question.LessonID).Error; err == nil {
			item.LessonTitle = lesson.Title
		}
		var answer teacherModel.LessonAnswerModel
		if err := ctrl.DB.First(&answer, "question_id = ?", question.ID).Error; err == nil {
			item.Answer = &answer.Answer
			item.AnsweredAt = &answer.UpdatedAt
		}
		out = append(out, item)
	}
	return helper.JsonOK(c, "Questions fetched", out)
}

// 🟢 GET /api/student/exams — only results whose exam is published.
func (ctrl *StudentController) GetMyExamResults(c *fiber.Ctx) error {
	studentID, err := authMw.CurrentUserID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var results []teacherModel.ExamResultModel
	if err := ctrl.DB.
		Where("student_id = ? AND exam_id IN (SELECT id FROM exams WHERE is_published = ?)", studentID, true).
		Order("updated_at DESC").
		Find(&results).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load exam results")
	}

	out := make([]studentDTO.StudentExamResultResponse, 0, len(results))
	for _, r := range results {
		item := studentDTO.StudentExamResultResponse{
			ExamID:      r.ExamID,
			Score:       r.Score,
			MaxScore:    r.MaxScore,
			Status:      r.Status,
			Feedback:    r.Feedback,
			PublishedAt: r.PublishedAt,
		}
		var exam teacherModel.ExamModel
		if err := ctrl.DB.Select("id", "title", "course_id").First(&exam, "id = ?", r.ExamID).Error; err == nil {
			item.ExamTitle = exam.Title
			item.CourseID = exam.CourseID
		}
		out = append(out, item)
	}
	return helper.JsonOK(c, "Exam results fetched", out)
}
