package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"osa_backend/internals/features/academy/sessions/controller"
)

func ClassSessionRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewClassSessionController(db)
	sessions := api.Group("/lessons/:lessonId/sessions")
	sessions.Get("/", ctrl.GetSessions)
}

func ClassSessionAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := controller.NewClassSessionController(db)
	sessions := admin.Group("/lessons/:lessonId/sessions")
	sessions.Post("/", ctrl.CreateSession)
	sessions.Put("/:sessionId", ctrl.UpdateSession)
	sessions.Post("/:sessionId/complete", ctrl.CompleteSession)
	sessions.Delete("/:sessionId", ctrl.DeleteSession)
}
