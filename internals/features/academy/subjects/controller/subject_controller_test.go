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
	sessionModel "osa_backend/internals/features/academy/sessions/model"
	subjectModel "osa_backend/internals/features/academy/subjects/model"
	userModel "osa_backend/internals/features/users/user/model"
)

func newCatalogApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&userModel.UserModel{},
		&courseModel.CourseModel{},
		&subjectModel.SubjectModel{},
		&lessonModel.LessonModel{},
		&lessonModel.LessonContentModel{},
		&sessionModel.ClassSessionModel{},
	))

	app := fiber.New()
	ctrl := NewSubjectController(db)
	subjects := app.Group("/api/admin/courses/:courseId/subjects")
	subjects.Post("/", ctrl.CreateSubject)
	subjects.Get("/:subjectId", ctrl.GetSubject)
	return app, db
}

func seedCatalogCourse(t *testing.T, db *gorm.DB) courseModel.CourseModel {
	t.Helper()
	teacher := userModel.UserModel{
		Email: fmt.Sprintf("t-%s@example.com", uuid.NewString()[:8]), Password: "x",
		FullName: "Teacher", Role: userModel.RoleTeacher, IsActive: true,
	}
	require.NoError(t, db.Create(&teacher).Error)
	course := courseModel.CourseModel{Title: "Arabic", TeacherID: teacher.ID}
	require.NoError(t, db.Create(&course).Error)
	return course
}

func send(t *testing.T, app *fiber.App, method, path string, payload any) int {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestCreateSubjectBodyCourseMismatchIs400(t *testing.T) {
	app, db := newCatalogApp(t)
	course := seedCatalogCourse(t, db)
	other := seedCatalogCourse(t, db)

	status := send(t, app, "POST", "/api/admin/courses/"+course.ID.String()+"/subjects", fiber.Map{
		"course_id": other.ID,
		"name":      "Grammar",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	var count int64
	db.Model(&subjectModel.SubjectModel{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestSubjectLookupScopedToCourse(t *testing.T) {
	app, db := newCatalogApp(t)
	course := seedCatalogCourse(t, db)
	other := seedCatalogCourse(t, db)

	subject := subjectModel.SubjectModel{CourseID: course.ID, Name: "Sarf"}
	require.NoError(t, db.Create(&subject).Error)

	status := send(t, app, "GET",
		"/api/admin/courses/"+course.ID.String()+"/subjects/"+subject.ID.String(), nil)
	assert.Equal(t, fiber.StatusOK, status)

	// valid subject id under the wrong course reads as missing
	status = send(t, app, "GET",
		"/api/admin/courses/"+other.ID.String()+"/subjects/"+subject.ID.String(), nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestCreateSubjectUnderMissingCourseIs404(t *testing.T) {
	app, db := newCatalogApp(t)
	_ = db

	status := send(t, app, "POST",
		"/api/admin/courses/6a0f1f6e-9f6f-4a57-a5cf-0000deadbeef/subjects", fiber.Map{"name": "Nahw"})
	assert.Equal(t, fiber.StatusNotFound, status)
}
