package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"osa_backend/internals/features/students/controller"
)

// StudentRoutes mounts under the already role-gated /student group.
func StudentRoutes(student fiber.Router, db *gorm.DB) {
	ctrl := controller.NewStudentController(db)

	student.Post("/enroll", ctrl.Enroll)
	student.Delete("/enroll/:courseId", ctrl.Unenroll)
	student.Get("/courses", ctrl.GetMyCourses)
	student.Post("/lessons/:lessonId/questions", ctrl.AskQuestion)
	student.Get("/questions", ctrl.GetMyQuestions)
	student.Get("/exams", ctrl.GetMyExamResults)
}
