package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"osa_backend/internals/features/users/user/controller"
)

// UserAdminRoutes mounts account management under the /admin group.
func UserAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctrl := controller.NewUserController(db)
	accounts := admin.Group("/accounts")
	accounts.Get("/", ctrl.GetUsers)
	accounts.Post("/", ctrl.CreateUser)
	accounts.Put("/:id", ctrl.UpdateUser)
	accounts.Delete("/:id", ctrl.DeleteUser)
}
