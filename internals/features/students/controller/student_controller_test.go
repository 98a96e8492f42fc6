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

func newStudentApp(t *testing.T) (*fiber.App, *gorm.DB, userModel.UserModel) {
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
		&teacherModel.LessonQuestionModel{},
		&teacherModel.LessonAnswerModel{},
	))

	student := userModel.UserModel{
		Email: "talib@example.com", Password: "x", FullName: "Talib", Role: userModel.RoleStudent, IsActive: true,
	}
	require.NoError(t, db.Create(&student).Error)

	app := fiber.New()
	ctrl := NewStudentController(db)
	grp := app.Group("/api/student", func(c *fiber.Ctx) error {
		c.Locals("user_id", student.ID.String())
		c.Locals("userRole", userModel.RoleStudent)
		return c.Next()
	})
	grp.Post("/enroll", ctrl.Enroll)
	grp.Delete("/enroll/:courseId", ctrl.Unenroll)
	grp.Get("/courses", ctrl.GetMyCourses)
	grp.Post("/lessons/:lessonId/questions", ctrl.AskQuestion)
	grp.Get("/exams", ctrl.GetMyExamResults)
	return app, db, student
}

func request(t *testing.T, app *fiber.App, method, path string, payload any) (int, map[string]any) {
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

func seedCourse(t *testing.T, db *gorm.DB) courseModel.CourseModel {
	t.Helper()
	teacher := userModel.UserModel{
		Email: fmt.Sprintf("t-%s@example.com", uuid.NewString()[:8]),
		Password: "x", FullName: "Teacher", Role: userModel.RoleTeacher, IsActive: true,
	}
	require.NoError(t, db.Create(&teacher).Error)
	course := courseModel.CourseModel{Title: "Seerah", TeacherID: teacher.ID}
	require.NoError(t, db.Create(&course).Error)
	return course
}

func TestEnrollThenDuplicateRejected(t *testing.T) {
	app, db, _ := newStudentApp(t)
	course := seedCourse(t, db)

	status, body := request(t, app, "POST", "/api/student/enroll", fiber.Map{"course_id": course.ID})
	require.Equal(t, fiber.StatusCreated, status, "body: %v", body)

	status, _ = request(t, app, "POST", "/api/student/enroll", fiber.Map{"course_id": course.ID})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestUnenrollThenReenrollReactivatesRow(t *testing.T) {
	app, db, student := newStudentApp(t)
	course := seedCourse(t, db)

	status, _ := request(t, app, "POST", "/api/student/enroll", fiber.Map{"course_id": course.ID})
	require.Equal(t, fiber.StatusCreated, status)

	status, _ = request(t, app, "DELETE", "/api/student/enroll/"+course.ID.String(), nil)
	require.Equal(t, fiber.StatusOK, status)

	status, _ = request(t, app, "POST", "/api/student/enroll", fiber.Map{"course_id": course.ID})
	require.Equal(t, fiber.StatusOK, status)

	var count int64
	db.Model(&approvalModel.EnrollmentModel{}).
		Where("student_id = ? AND course_id = ?", student.ID, course.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestEnrollWithForeignChapterIs404(t *testing.T) {
	app, db, _ := newStudentApp(t)
	course := seedCourse(t, db)
	other := seedCourse(t, db)
	chapter := courseModel.ChapterModel{CourseID: other.ID, Title: "Elsewhere", Order: 1}
	require.NoError(t, db.Create(&chapter).Error)

	status, _ := request(t, app, "POST", "/api/student/enroll", fiber.Map{
		"course_id": course.ID,
		"class_id":  chapter.ID,
	})
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestAskQuestionRequiresEnrollment(t *testing.T) {
	app, db, _ := newStudentApp(t)
	course := seedCourse(t, db)

	subject := subjectModel.SubjectModel{CourseID: course.ID, Name: "Hadith"}
	require.NoError(t, db.Create(&subject).Error)
	lesson := lessonModel.LessonModel{CourseID: course.ID, SubjectID: subject.ID, Title: "Lesson"}
	require.NoError(t, db.Create(&lesson).Error)

	path := "/api/student/lessons/" + lesson.ID.String() + "/questions"

	status, _ := request(t, app, "POST", path, fiber.Map{"question": "May I ask?"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = request(t, app, "POST", "/api/student/enroll", fiber.Map{"course_id": course.ID})
	require.Equal(t, fiber.StatusCreated, status)

	status, _ = request(t, app, "POST", path, fiber.Map{"question": "May I ask?", "is_anonymous": true})
	assert.Equal(t, fiber.StatusCreated, status)
}

func TestMyExamsOnlyShowPublished(t *testing.T) {
	app, db, student := newStudentApp(t)
	course := seedCourse(t, db)

	published := teacherModel.ExamModel{CourseID: course.ID, TeacherID: course.TeacherID, Title: "Published", IsPublished: true}
	hidden := teacherModel.ExamModel{CourseID: course.ID, TeacherID: course.TeacherID, Title: "Draft"}
	require.NoError(t, db.Create(&published).Error)
	require.NoError(t, db.Create(&hidden).Error)
	require.NoError(t, db.Create(&teacherModel.ExamResultModel{
		ExamID: published.ID, StudentID: student.ID, Score: 88,
	}).Error)
	require.NoError(t, db.Create(&teacherModel.ExamResultModel{
		ExamID: hidden.ID, StudentID: student.ID, Score: 40,
	}).Error)

	status, body := request(t, app, "GET", "/api/student/exams", nil)
	require.Equal(t, fiber.StatusOK, status)

	data, ok := body["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 1)
	entry := data[0].(map[string]any)
	assert.Equal(t, "Published", entry["exam_title"])
}
