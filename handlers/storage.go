package handlers

import (
	"github.com/gofiber/fiber/v2"

	"likebike-server/middleware"
	"likebike-server/services"
	"likebike-server/utils"
)

func SetupStorageRoutes(app *fiber.App, storageService *services.StorageService, tokens *utils.TokenIssuer) {
	app.Post("/upload", middleware.RequireAuth(tokens), storageService.Upload)

	admin := app.Group("/files", middleware.RequireAdmin(tokens))
	admin.Get("/", storageService.ListFiles)
	admin.Delete("/*", storageService.DeleteFile)
}
