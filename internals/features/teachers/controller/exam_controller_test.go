package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	courseModel "osa_backend/internals/features/academy/courses/model"
	lessonModel "osa_backend/internals/features/academy/lessons/model"
	subjectModel "osa_backend/internals/features/academy/subjects/model"
	approvalModel "osa_backend/internals/features/admin/approval/model"
	teacherModel "osa_backend/internals/features/teachers/model"
	userModel "osa_backend/internals/features/users/user/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&userModel.UserModel{},
		&courseModel.CourseModel{},
		&courseModel.ChapterModel{},
		&subjectModel.SubjectModel{},
		&lessonModel.LessonModel{},
		&approvalModel.EnrollmentModel{},
		&teacherModel.ExamModel{},
		&teacherModel.ExamResultModel{},
		&teacherModel.LiveClassModel{},
		&teacherModel.LessonQuestionModel{},
		&teacherModel.LessonAnswerModel{},
	))
	return db
}

// newTeacherApp mounts the teacher surface behind a stub that injects
// the authenticated teacher, standing in for the JWT middleware.
func newTeacherApp(db *gorm.DB, teacherID uuid.UUID) *fiber.App {
	app := fiber.New()
	ctrl := NewTeacherController(db)

	teacher := app.Group("/api/teacher", func(c *fiber.Ctx) error {
		c.Locals("user_id", teacherID.String())
		c.Locals("userRole", userModel.RoleTeacher)
		return c.Next()
	})
	teacher.Post("/exams", ctrl.CreateExam)
	teacher.Post("/exams/:id/results", ctrl.SubmitExamResults)
	teacher.Get("/exams/:id/results", ctrl.GetExamResults)
	teacher.Post("/questions/:id/answer", ctrl.AnswerQuestion)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, payload any) (int, map[string]any) {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func seedTeacherWithCourse(t *testing.T, db *gorm.DB) (userModel.UserModel, courseModel.CourseModel) {
	t.Helper()
	teacher := userModel.UserModel{
		Email: "ustadh@example.com", Password: "x", FullName: "Ustadh", Role: userModel.RoleTeacher, IsActive: true,
	}
	require.NoError(t, db.Create(&teacher).Error)
	course := courseModel.CourseModel{Title: "Aqeedah 101", TeacherID: teacher.ID}
	require.NoError(t, db.Create(&course).Error)
	return teacher, course
}

func TestSubmitExamResultsUpsertsAndPublishes(t *testing.T) {
	db := newTestDB(t)
	teacher, course := seedTeacherWithCourse(t, db)
	app := newTeacherApp(db, teacher.ID)

	exam := teacherModel.ExamModel{CourseID: course.ID, TeacherID: teacher.ID, Title: "Final"}
	require.NoError(t, db.Create(&exam).Error)

	student := userModel.UserModel{
		Email: "talib@example.com", Password: "x", FullName: "Talib", Role: userModel.RoleStudent, IsActive: true,
	}
	require.NoError(t, db.Create(&student).Error)
	enrollment := approvalModel.EnrollmentModel{StudentID: student.ID, CourseID: course.ID, IsActive: true}
	require.NoError(t, db.Create(&enrollment).Error)

	path := "/api/teacher/exams/" + exam.ID.String() + "/results"

	status, body := doJSON(t, app, "POST", path, fiber.Map{
		"results": []fiber.Map{{"student_id": student.ID, "score": 80}},
	})
	require.Equal(t, fiber.StatusOK, status, "body: %v", body)

	// second submission for the same student replaces, never duplicates
	status, _ = doJSON(t, app, "POST", path, fiber.Map{
		"results": []fiber.Map{{"student_id": student.ID, "score": 95}},
	})
	require.Equal(t, fiber.StatusOK, status)

	var results []teacherModel.ExamResultModel
	require.NoError(t, db.Where("exam_id = ?", exam.ID).Find(&results).Error)
	require.Len(t, results, 1)
	assert.Equal(t, 95, results[0].Score)
	assert.NotNil(t, results[0].PublishedAt)

	var reloaded teacherModel.ExamModel
	require.NoError(t, db.First(&reloaded, "id = ?", exam.ID).Error)
	assert.True(t, reloaded.IsPublished)
}

func TestSubmitExamResultsUnknownStudentRollsBack(t *testing.T) {
	db := newTestDB(t)
	teacher, course := seedTeacherWithCourse(t, db)
	app := newTeacherApp(db, teacher.ID)

	exam := teacherModel.ExamModel{CourseID: course.ID, TeacherID: teacher.ID, Title: "Quiz"}
	require.NoError(t, db.Create(&exam).Error)

	status, _ := doJSON(t, app, "POST", "/api/teacher/exams/"+exam.ID.String()+"/results", fiber.Map{
		"results": []fiber.Map{{"student_id": uuid.New(), "score": 50}},
	})
	assert.Equal(t, fiber.StatusNotFound, status)

	var reloaded teacherModel.ExamModel
	require.NoError(t, db.First(&reloaded, "id = ?", exam.ID).Error)
	assert.False(t, reloaded.IsPublished)
}

func TestSubmitExamResultsRequiresActiveEnrollment(t *testing.T) {
	db := newTestDB(t)
	teacher, course := seedTeacherWithCourse(t, db)
	app := newTeacherApp(db, teacher.ID)

	exam := teacherModel.ExamModel{CourseID: course.ID, TeacherID: teacher.ID, Title: "Midterm"}
	require.NoError(t, db.Create(&exam).Error)

	// real student, but never enrolled in the exam's course
	outsider := userModel.UserModel{
		Email: "outsider@example.com", Password: "x", FullName: "Outsider", Role: userModel.RoleStudent, IsActive: true,
	}
	require.NoError(t, db.Create(&outsider).Error)

	// a deactivated enrollment must not open the gate either
	lapsed := userModel.UserModel{
		Email: "lapsed@example.com", Password: "x", FullName: "Lapsed", Role: userModel.RoleStudent, IsActive: true,
	}
	require.NoError(t, db.Create(&lapsed).Error)
	lapsedEnrollment := approvalModel.EnrollmentModel{StudentID: lapsed.ID, CourseID: course.ID, IsActive: true}
	require.NoError(t, db.Create(&lapsedEnrollment).Error)
	require.NoError(t, db.Model(&lapsedEnrollment).Update("is_active", false).Error)

	path := "/api/teacher/exams/" + exam.ID.String() + "/results"
	for _, studentID := range []uuid.UUID{outsider.ID, lapsed.ID} {
		status, _ := doJSON(t, app, "POST", path, fiber.Map{
			"results": []fiber.Map{{"student_id": studentID, "score": 70}},
		})
		assert.Equal(t, fiber.StatusNotFound, status)
	}

	var count int64
	require.NoError(t, db.Model(&teacherModel.ExamResultModel{}).Where("exam_id = ?", exam.ID).Count(&count).Error)
	assert.Zero(t, count)

	var reloaded teacherModel.ExamModel
	require.NoError(t, db.First(&reloaded, "id = ?", exam.ID).Error)
	assert.False(t, reloaded.IsPublished)
}

func TestCreateExamOutsideOwnCoursesForbidden(t *testing.T) {
	db := newTestDB(t)
	teacher, _ := seedTeacherWithCourse(t, db)
	app := newTeacherApp(db, teacher.ID)

	other := userModel.UserModel{
		Email: "other@example.com", Password: "x", FullName: "Other", Role: userModel.RoleTeacher, IsActive: true,
	}
	require.NoError(t, db.Create(&other).Error)
	foreign := courseModel.CourseModel{Title: "Foreign", TeacherID: other.ID}
	require.NoError(t, db.Create(&foreign).Error)

	status, _ := doJSON(t, app, "POST", "/api/teacher/exams", fiber.Map{
		"course_id": foreign.ID,
		"title":     "Sneaky Exam",
	})
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestAnswerQuestionLatestWriteWins(t *testing.T) {
	db := newTestDB(t)
	teacher, course := seedTeacherWithCourse(t, db)
	app := newTeacherApp(db, teacher.ID)

	subject := subjectModel.SubjectModel{CourseID: course.ID, Name: "Tawheed"}
	require.NoError(t, db.Create(&subject).Error)
	lesson := lessonModel.LessonModel{CourseID: course.ID, SubjectID: subject.ID, Title: "Lesson 1"}
	require.NoError(t, db.Create(&lesson).Error)

	question := teacherModel.LessonQuestionModel{LessonID: lesson.ID, Question: "What is tawheed?"}
	require.NoError(t, db.Create(&question).Error)

	path := "/api/teacher/questions/" + question.ID.String() + "/answer"

	status, _ := doJSON(t, app, "POST", path, fiber.Map{"answer": "First draft"})
	require.Equal(t, fiber.StatusOK, status)
	status, _ = doJSON(t, app, "POST", path, fiber.Map{"answer": "Final answer"})
	require.Equal(t, fiber.StatusOK, status)

	var answers []teacherModel.LessonAnswerModel
	require.NoError(t, db.Where("question_id = ?", question.ID).Find(&answers).Error)
	require.Len(t, answers, 1)
	assert.Equal(t, "Final answer", answers[0].Answer)
}
