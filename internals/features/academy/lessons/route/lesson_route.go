package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"osa_backend/internals/features/academy/lessons/controller"
)

func LessonRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewLessonController(db)
	lessons := api.Group("/courses/:courseId/subjects/:subjectId/lessons")
	lessons.Get("/", ctrl.GetLessons)
	lessons.Get("/:lessonId", ctrl.GetLesson)
}

func LessonAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := controller.NewLessonController(db)

	lessons := admin.Group("/courses/:courseId/subjects/:subjectId/lessons")
	lessons.Post("/", ctrl.CreateLesson)
	lessons.Put("/:lessonId", ctrl.UpdateLesson)
	lessons.Delete("/:lessonId", ctrl.DeleteLesson)

	contents := admin.Group("/lessons/:lessonId/contents")
	contents.Post("/", ctrl.CreateLessonContent)
	contents.Delete("/:contentId", ctrl.DeleteLessonContent)
}
