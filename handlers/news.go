package handlers

import (
	"github.com/gofiber/fiber/v2"

	"likebike-server/middleware"
	"likebike-server/services"
	"likebike-server/utils"
)

func SetupNewsRoutes(app *fiber.App, newsService *services.NewsService, tokens *utils.TokenIssuer) {
	// Public reads
	app.Get("/news", newsService.List)
	app.Get("/news/:id", newsService.Get)

	admin := app.Group("/admin/news", middleware.RequireAdmin(tokens))
	admin.Post("/", newsService.Create)
	admin.Put("/:id", newsService.Update)
	admin.Delete("/:id", newsService.Delete)
}
