package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"osa_backend/internals/features/admin/approval/controller"
)

// ApprovalAdminRoutes mounts under the already role-gated /admin group.
func ApprovalAdminRoutes(admin fiber.Router, db *gorm.DB) {
	approvalCtrl := controller.NewApprovalController(db)
	teacherCtrl := controller.NewTeacherAdminController(db)
	enrollCtrl := controller.NewEnrollmentAdminController(db)

	admin.Get("/pending-users", approvalCtrl.GetPendingUsers)
	admin.Post("/approve-user/:id", approvalCtrl.ApproveUser)

	admin.Get("/users", approvalCtrl.GetUsers)
	admin.Get("/students", approvalCtrl.GetStudents)
	admin.Put("/students/:id/enrollments", approvalCtrl.UpdateStudentEnrollments)
	admin.Get("/parents", approvalCtrl.GetParents)
	admin.Put("/parents/:id/children", approvalCtrl.UpdateParentChildren)

	admin.Get("/teachers/assignments", teacherCtrl.GetTeacherAssignments)
	admin.Get("/teachers/:id/assignments", teacherCtrl.GetTeacherAssignment)
	admin.Post("/teachers/:id/reassign-and-delete", teacherCtrl.ReassignAndDelete)

	admin.Post("/enroll", enrollCtrl.Enroll)
	admin.Delete("/enroll/:id", enrollCtrl.Unenroll)
	admin.Get("/enrollments", enrollCtrl.GetEnrollments)
	admin.Put("/enrollments/:id/class", enrollCtrl.UpdateEnrollmentClass)

	admin.Get("/stats", enrollCtrl.GetStats)
	admin.Get("/health", enrollCtrl.Health)
}
