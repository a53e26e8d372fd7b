package handlers

import (
	"github.com/gofiber/fiber/v2"

	"likebike-server/middleware"
	"likebike-server/services"
	"likebike-server/utils"
)

func SetupRecommendationRoutes(app *fiber.App, recService *services.RecommendationService, tokens *utils.TokenIssuer) {
	secured := app.Group("/users/course-recommendations", middleware.RequireAuth(tokens))
	secured.Post("/", recService.Create)
	secured.Get("/", recService.List)
	secured.Get("/week/count", recService.WeekStatus)

	admin := app.Group("/admin/course-recommendations", middleware.RequireAdmin(tokens))
	admin.Get("/", recService.AdminList)
	admin.Post("/:id/verify", recService.Verify)
}
