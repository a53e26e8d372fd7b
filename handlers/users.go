package handlers

import (
	"github.com/gofiber/fiber/v2"

	"likebike-server/middleware"
	"likebike-server/services"
	"likebike-server/utils"
)

func SetupUserRoutes(app *fiber.App, userService *services.UserService, tokens *utils.TokenIssuer) {
	// Public routes
	app.Post("/users", userService.Register)
	app.Post("/users/token/refresh", userService.RefreshToken)
	app.Get("/levels", userService.ListLevels)

	// Secured routes, identity claims come from the Bearer token
	secured := app.Group("/users", middleware.RequireAuth(tokens))
	secured.Get("/profile", userService.GetProfile)
	secured.Put("/", userService.UpdateUser)
	secured.Delete("/", userService.DeleteUser)
	secured.Get("/settings", userService.GetSettings)
	secured.Put("/settings", userService.UpdateSettings)
	secured.Get("/rewards", userService.GetRewards)

	// Admin routes
	admin := app.Group("/admin/users", middleware.RequireAdmin(tokens))
	admin.Put("/:id/level", userService.AdjustLevel)
}
