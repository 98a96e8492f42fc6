package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	courseRoute "osa_backend/internals/features/academy/courses/route"
	lessonRoute "osa_backend/internals/features/academy/lessons/route"
	sessionRoute "osa_backend/internals/features/academy/sessions/route"
	approvalRoute "osa_backend/internals/features/admin/approval/route"
	settingsRoute "osa_backend/internals/features/admin/settings/route"
	studentRoute "osa_backend/internals/features/students/route"
	subjectRoute "osa_backend/internals/features/academy/subjects/route"
	teacherRoute "osa_backend/internals/features/teachers/route"
	authRoute "osa_backend/internals/features/users/auth/route"
	userRoute "osa_backend/internals/features/users/user/route"
	userModel "osa_backend/internals/features/users/user/model"
	authMw "osa_backend/internals/middlewares/auth"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	BaseRoutes(app, db)

	api := app.Group("/api")

	// ===================== PUBLIC =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	authRoute.AuthRoutes(api, db)

	// ===================== AUTHENTICATED =====================
	log.Println("[INFO] Setting up authenticated catalog routes...")
	private := api.Group("", authMw.AuthMiddleware(db))
	courseRoute.CourseRoutes(private, db)
	subjectRoute.SubjectRoutes(private, db)
	lessonRoute.LessonRoutes(private, db)
	sessionRoute.ClassSessionRoutes(private, db)

	// ===================== STUDENT =====================
	log.Println("[INFO] Setting up StudentRoutes...")
	student := private.Group("/student",
		authMw.OnlyRoles("Student access only", userModel.RoleStudent))
	studentRoute.StudentRoutes(student, db)

	// ===================== TEACHER =====================
	log.Println("[INFO] Setting up TeacherRoutes...")
	teacher := private.Group("/teacher",
		authMw.OnlyRoles("Teacher access only", userModel.RoleTeacher))
	teacherRoute.TeacherRoutes(teacher, db)

	// ===================== ADMIN =====================
	log.Println("[INFO] Setting up AdminRoutes...")
	admin := private.Group("/admin",
		authMw.OnlyRoles("Admin access only", userModel.RoleAdmin))
	approvalRoute.ApprovalAdminRoutes(admin, db)
	settingsRoute.SettingsAdminRoutes(admin, db)
	userRoute.UserAdminRoutes(admin, db)
	courseRoute.CourseAdminRoutes(admin, db)
	subjectRoute.SubjectAdminRoutes(admin, db)
	lessonRoute.LessonAdminRoutes(admin, db)
	sessionRoute.ClassSessionAdminRoutes(admin, db)

	log.Println("🟢 All routes ready")
}
