package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	userModel "osa_backend/internals/features/users/user/model"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&userModel.UserModel{}))

	app := fiber.New()
	ctrl := NewAuthController(db)
	app.Post("/api/auth/register", ctrl.Register)
	app.Post("/api/auth/login", ctrl.Login)
	return app, db
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) (int, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	body := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func seedAccount(t *testing.T, db *gorm.DB, email, password string, active bool) userModel.UserModel {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := userModel.UserModel{
		Email:    email,
		Password: string(hashed),
		FullName: "Seed User",
		Role:     userModel.RoleStudent,
		IsActive: active,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func TestRegisterCreatesInactiveAccount(t *testing.T) {
	app, db := newTestApp(t)

	status, body := postJSON(t, app, "/api/auth/register", fiber.Map{
		"email":     "ahmad@example.com",
		"password":  "secret-pass",
		"full_name": "Ahmad",
		"role":      "student",
	})
	require.Equal(t, fiber.StatusCreated, status, "body: %v", body)

	var user userModel.UserModel
	require.NoError(t, db.First(&user, "email = ?", "ahmad@example.com").Error)
	assert.False(t, user.IsActive)
	assert.NotEqual(t, "secret-pass", user.Password)
}

func TestRegisterDuplicateEmailRejected(t *testing.T) {
	app, db := newTestApp(t)
	seedAccount(t, db, "taken@example.com", "whatever1", true)

	status, _ := postJSON(t, app, "/api/auth/register", fiber.Map{
		"email":     "taken@example.com",
		"password":  "secret-pass",
		"full_name": "Someone",
		"role":      "teacher",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	app, _ := newTestApp(t)

	status, _ := postJSON(t, app, "/api/auth/register", fiber.Map{
		"email":     "boss@example.com",
		"password":  "secret-pass",
		"full_name": "Boss",
		"role":      "admin",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestLoginActiveAccount(t *testing.T) {
	app, db := newTestApp(t)
	seedAccount(t, db, "active@example.com", "correct-horse", true)

	status, body := postJSON(t, app, "/api/auth/login", fiber.Map{
		"email":    "active@example.com",
		"password": "correct-horse",
	})
	require.Equal(t, fiber.StatusOK, status, "body: %v", body)

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, data["access_token"])
	assert.Equal(t, "bearer", data["token_type"])
}

// Wrong password on a pending account must read as bad credentials, not
// as "pending approval".
func TestLoginWrongPasswordBeatsInactiveCheck(t *testing.T) {
	app, db := newTestApp(t)
	seedAccount(t, db, "pending@example.com", "correct-horse", false)

	status, _ := postJSON(t, app, "/api/auth/login", fiber.Map{
		"email":    "pending@example.com",
		"password": "wrong-horse",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestLoginCorrectPasswordInactiveIsForbidden(t *testing.T) {
	app, db := newTestApp(t)
	seedAccount(t, db, "pending2@example.com", "correct-horse", false)

	status, _ := postJSON(t, app, "/api/auth/login", fiber.Map{
		"email":    "pending2@example.com",
		"password": "correct-horse",
	})
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestLoginUnknownEmailIsUnauthorized(t *testing.T) {
	app, _ := newTestApp(t)

	status, _ := postJSON(t, app, "/api/auth/login", fiber.Map{
		"email":    "ghost@example.com",
		"password": "anything1",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}
