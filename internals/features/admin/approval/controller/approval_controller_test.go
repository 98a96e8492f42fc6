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
	approvalModel "osa_backend/internals/features/admin/approval/model"
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
		&approvalModel.EnrollmentModel{},
		&approvalModel.ParentStudentModel{},
	))
	return db
}

func newAdminApp(db *gorm.DB) *fiber.App {
	app := fiber.New()
	ctrl := NewApprovalController(db)
	admin := app.Group("/api/admin")
	admin.Post("/approve-user/:id", ctrl.ApproveUser)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) (int, map[string]any) {
	t.Helper()
	var body bytes.Buffer
	require.NoError(t, json.NewEncoder(&body).Encode(payload))
	req := httptest.NewRequest("POST", path, &body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func seedPendingUser(t *testing.T, db *gorm.DB, role string) userModel.UserModel {
	t.Helper()
	u := userModel.UserModel{
		Email:    fmt.Sprintf("%s-%s@example.com", role, uuid.NewString()[:8]),
		Password: "x",
		FullName: "Pending " + role,
		Role:     role,
		IsActive: false,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func TestApproveStudentReturnsEnrollments(t *testing.T) {
	db := newTestDB(t)
	app := newAdminApp(db)

	teacher := userModel.UserModel{
		Email: "teacher@example.com", Password: "x", FullName: "Teacher", Role: userModel.RoleTeacher, IsActive: true,
	}
	require.NoError(t, db.Create(&teacher).Error)
	course := courseModel.CourseModel{Title: "Fiqh 101", TeacherID: teacher.ID}
	require.NoError(t, db.Create(&course).Error)

	student := seedPendingUser(t, db, userModel.RoleStudent)

	status, body := postJSON(t, app, "/api/admin/approve-user/"+student.ID.String(), fiber.Map{
		"course_assignments": []fiber.Map{{"course_id": course.ID}},
	})
	require.Equal(t, fiber.StatusOK, status, "body: %v", body)

	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "body: %v", body)
	enrollments, ok := data["enrollments"].([]any)
	require.True(t, ok, "data: %v", data)
	require.Len(t, enrollments, 1)
	first := enrollments[0].(map[string]any)
	assert.Equal(t, course.ID.String(), first["course_id"])
	assert.Equal(t, "Fiqh 101", first["course_title"])
}

func TestApproveParentReturnsChildren(t *testing.T) {
	db := newTestDB(t)
	app := newAdminApp(db)

	child := userModel.UserModel{
		Email: "child@example.com", Password: "x", FullName: "Child", Role: userModel.RoleStudent, IsActive: true,
	}
	require.NoError(t, db.Create(&child).Error)

	parent := seedPendingUser(t, db, userModel.RoleParent)

	status, body := postJSON(t, app, "/api/admin/approve-user/"+parent.ID.String(), fiber.Map{
		"child_ids": []uuid.UUID{child.ID},
	})
	require.Equal(t, fiber.StatusOK, status, "body: %v", body)

	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "body: %v", body)
	children, ok := data["children"].([]any)
	require.True(t, ok, "data: %v", data)
	require.Len(t, children, 1)
	assert.Equal(t, child.ID.String(), children[0].(map[string]any)["id"])
}
