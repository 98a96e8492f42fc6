package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"osa_backend/internals/features/academy/subjects/controller"
)

func SubjectRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewSubjectController(db)
	subjects := api.Group("/courses/:courseId/subjects")
	subjects.Get("/", ctrl.GetSubjects)
	subjects.Get("/:subjectId", ctrl.GetSubject)
}

func SubjectAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := controller.NewSubjectController(db)
	subjects := admin.Group("/courses/:courseId/subjects")
	subjects.Post("/", ctrl.CreateSubject)
	subjects.Put("/:subjectId", ctrl.UpdateSubject)
	subjects.Delete("/:subjectId", ctrl.DeleteSubject)
}
