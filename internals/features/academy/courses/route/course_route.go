package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"osa_backend/internals/features/academy/courses/controller"
)

// CourseRoutes mounts the read surface on the authenticated group.
func CourseRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewCourseController(db)
	courses := api.Group("/courses")
	courses.Get("/", ctrl.GetCourses)
	courses.Get("/:id", ctrl.GetCourse)
}

// CourseAdminRoutes mounts catalog management under the /admin group.
func CourseAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := controller.NewCourseController(db)

	courses := admin.Group("/courses")
	courses.Post("/", ctrl.CreateCourse)
	courses.Put("/:id", ctrl.UpdateCourse)
	courses.Delete("/:id", ctrl.DeleteCourse)
	courses.Post("/:id/chapters", ctrl.CreateChapter)
	courses.Put("/:id/chapters/:chapterId", ctrl.UpdateChapter)
	courses.Delete("/:id/chapters/:chapterId", ctrl.DeleteChapter)

	attachments := admin.Group("/attachments")
	attachments.Post("/", ctrl.CreateAttachment)
	attachments.Delete("/:id", ctrl.DeleteAttachment)
}
