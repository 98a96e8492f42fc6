package controller

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	courseModel "osa_backend/internals/features/academy/courses/model"
	subjectModel "osa_backend/internals/features/academy/subjects/model"
	approvalModel "osa_backend/internals/features/admin/approval/model"
	teacherDTO "osa_backend/internals/features/teachers/dto"
	teacherModel "osa_backend/internals/features/teachers/model"
	"osa_backend/internals/features/teachers/service"
	userModel "osa_backend/internals/features/users/user/model"
	helper "osa_backend/internals/helpers"
	authMw "osa_backend/internals/middlewares/auth"
)

var validate = validator.New()

type TeacherController struct {
	DB    *gorm.DB
	Scope *service.TeacherScopeService
}

func NewTeacherController(db *gorm.DB) *TeacherController {
	return &TeacherController{DB: db, Scope: service.NewTeacherScopeService(db)}
}

// 🟢 GET /api/teacher/overview
func (ctrl *TeacherController) GetOverview(c *fiber.Ctx) error {
	teacherID, err := authMw.CurrentUserID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	scope, err := ctrl.Scope.Resolve(teacherID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to resolve teaching scope")
	}

	out := teacherDTO.TeacherOverviewResponse{
		CourseCount:  len(scope.CourseIDs),
		SubjectCount: len(scope.SubjectIDs),
	}

	courseIDs := scope.CourseIDList()
	if len(courseIDs) > 0 {
		ctrl.DB.Model(&approvalModel.EnrollmentModel{}).
			Distinct("student_id").
			Where("course_id IN ? AND is_active = ?", courseIDs, true).
			Count(&out.StudentCount)
	}
	ctrl.DB.Model(&teacherModel.ExamModel{}).Where("teacher_id = ?", teacherID).Count(&out.ExamCount)
	ctrl.DB.Model(&teacherModel.LiveClassModel{}).Where("teacher_id = ?", teacherID).Count(&out.LiveClassCount)
	ctrl.DB.Model(&teacherModel.LiveClassModel{}).
		Where("teacher_id = ? AND is_active = ? AND scheduled_date >= ?", teacherID, true, time.Now()).
		Count(&out.UpcomingClasses)

	if len(courseIDs) > 0 {
		ctrl.DB.Model(&teacherModel.LessonQuestionModel{}).
			Where("lesson_id IN (SELECT id FROM lessons WHERE course_id IN ?)", courseIDs).
			Where("id NOT IN (SELECT question_id FROM lesson_answers)").
			Count(&out.OpenQuestions)
	}

	return helper.JsonOK(c, "Teacher overview fetched", out)
}

// 🟢 GET /api/teacher/courses — courses inside the teacher's scope
// (owned plus instructed), with active enrollment counts.
func (ctrl *TeacherController) GetCourses(c *fiber.Ctx) error {
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
		return helper.JsonOK(c, "Courses fetched", []any{})
	}

	var courses []courseModel.CourseModel
	if err := ctrl.DB.Where("id IN ?", courseIDs).Order("title ASC").Find(&courses).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load courses")
	}

	out := make([]fiber.Map, 0, len(courses))
	for _, course := range courses {
		var enrolled int64
		ctrl.DB.Model(&approvalModel.EnrollmentModel{}).
			Where("course_id = ? AND is_active = ?", course.ID, true).
			Count(&enrolled)
		out = append(out, fiber.Map{
			"id":            course.ID,
			"title":         course.Title,
			"description":   course.Description,
			"teacher_id":    course.TeacherID,
			"student_count": enrolled,
			"owned":         course.TeacherID == teacherID,
		})
	}
	return helper.JsonOK(c, "Courses fetched", out)
}

// 🟢 GET /api/teacher/subjects — subjects the teacher instructs or that
// sit inside a course the teacher owns.
func (ctrl *TeacherController) GetSubjects(c *fiber.Ctx) error {
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
		return helper.JsonOK(c, "Subjects fetched", []any{})
	}

	var subjects []subjectModel.SubjectModel
	if err := ctrl.DB.
		Where("course_id IN ?", courseIDs).
		Order("course_id ASC, order_in_course ASC, id ASC").
		Find(&subjects).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load subjects")
	}
	return helper.JsonOK(c, "Subjects fetched", subjects)
}

// 🟢 GET /api/teacher/courses/:id/students — roster for one course the
// teacher can access.
func (ctrl *TeacherController) GetCourseStudents(c *fiber.Ctx) error {
	courseID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if _, err := ctrl.requireTeacherCourse(c, courseID); err != nil {
		return helper.FromFiberError(c, err)
	}

	var students []userModel.UserModel
	if err := ctrl.DB.
		Where("id IN (SELECT student_id FROM enrollments WHERE course_id = ? AND is_active = ?)", courseID, true).
		Order("full_name ASC").
		Find(&students).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load students")
	}

	out := make([]fiber.Map, 0, len(students))
	for _, s := range students {
		out = append(out, fiber.Map{
			"id":        s.ID,
			"email":     s.Email,
			"full_name": s.FullName,
		})
	}
	return helper.JsonOK(c, "Students fetched", out)
}

// 🟢 GET /api/teacher/students — students enrolled in the teacher's
// courses, deduplicated.
func (ctrl *TeacherController) GetStudents(c *fiber.Ctx) error {
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
		return helper.JsonOK(c, "Students fetched", []any{})
	}

	var students []userModel.UserModel
	if err := ctrl.DB.
		Where("id IN (SELECT DISTINCT student_id FROM enrollments WHERE course_id IN ? AND is_active = ?)",
			courseIDs, true).
		Order("full_name ASC").
		Find(&students).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load students")
	}

	out := make([]fiber.Map, 0, len(students))
	for _, s := range students {
		out = append(out, fiber.Map{
			"id":        s.ID,
			"email":     s.Email,
			"full_name": s.FullName,
		})
	}
	return helper.JsonOK(c, "Students fetched", out)
}

// 🟢 GET /api/teacher/students/:id/report — exam history for one of
// the teacher's students, limited to the teacher's own exams.
func (ctrl *TeacherController) GetStudentReport(c *fiber.Ctx) error {
	teacherID, err := authMw.CurrentUserID(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	studentID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var student userModel.UserModel
	if err := ctrl.DB.First(&student, "id = ? AND role = ?", studentID, userModel.RoleStudent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Student not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load student")
	}

	scope, err := ctrl.Scope.Resolve(teacherID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to resolve teaching scope")
	}
	courseIDs := scope.CourseIDList()

	enrolled := false
	if len(courseIDs) > 0 {
		var n int64
		ctrl.DB.Model(&approvalModel.EnrollmentModel{}).
			Where("student_id = ? AND course_id IN ? AND is_active = ?", studentID, courseIDs, true).
			Count(&n)
		enrolled = n > 0
	}
	if !enrolled {
		return helper.JsonError(c, fiber.StatusForbidden, "Student is not enrolled in your courses")
	}

	var results []teacherModel.ExamResultModel
	if err := ctrl.DB.
		Where("student_id = ? AND exam_id IN (SELECT id FROM exams WHERE teacher_id = ?)", studentID, teacherID).
		Order("updated_at DESC").
		Find(&results).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load exam results")
	}

	report := teacherDTO.StudentReportResponse{
		StudentID:   student.ID,
		StudentName: student.FullName,
		Results:     []teacherDTO.StudentReportEntry{},
	}
	for _, r := range results {
		entry := teacherDTO.StudentReportEntry{
			ExamID:    r.ExamID,
			Score:     r.Score,
			MaxScore:  r.MaxScore,
			Status:    r.Status,
			Feedback:  r.Feedback,
			UpdatedAt: r.UpdatedAt,
		}
		var exam teacherModel.ExamModel
		if err := ctrl.DB.Select("id", "title").First(&exam, "id = ?", r.ExamID).Error; err == nil {
			entry.ExamTitle = exam.Title
		}
		report.Results = append(report.Results, entry)
	}
	return helper.JsonOK(c, "Student report fetched", report)
}

func (ctrl *TeacherController) requireTeacherCourse(c *fiber.Ctx, courseID uuid.UUID) (uuid.UUID, error) {
	teacherID, err := authMw.CurrentUserID(c)
	if err != nil {
		return uuid.Nil, err
	}
	if err := ctrl.Scope.RequireCourse(teacherID, courseID); err != nil {
		return uuid.Nil, err
	}
	return teacherID, nil
}
