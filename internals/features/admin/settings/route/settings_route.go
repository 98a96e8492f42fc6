package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"osa_backend/internals/features/admin/settings/controller"
)

// SettingsAdminRoutes mounts under the already role-gated /admin group.
func SettingsAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := controller.NewSettingsController(db)
	settings := admin.Group("/settings")
	settings.Get("/", ctrl.GetSettings)
	settings.Put("/", ctrl.UpdateSettings)
	settings.Post("/reset", ctrl.ResetSettings)
}
