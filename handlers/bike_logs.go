package handlers

import (
	"github.com/gofiber/fiber/v2"

	"likebike-server/middleware"
	"likebike-server/services"
	"likebike-server/utils"
)

func SetupBikeLogRoutes(app *fiber.App, bikeLogService *services.BikeLogService, tokens *utils.TokenIssuer) {
	secured := app.Group("/users", middleware.RequireAuth(tokens))
	secured.Post("/bike-logs", bikeLogService.CreateBikeLog)
	secured.Get("/bike-logs", bikeLogService.ListBikeLogs)
	secured.Post("/bike-logs/activity", bikeLogService.SubmitActivity)
	secured.Get("/stats", bikeLogService.Stats)

	logs := app.Group("/bike-logs", middleware.RequireAuth(tokens))
	logs.Put("/:id", bikeLogService.UpdateBikeLog)
	logs.Delete("/:id", bikeLogService.DeleteBikeLog)

	admin := app.Group("/admin/bike-logs", middleware.RequireAdmin(tokens))
	admin.Get("/", bikeLogService.AdminListBikeLogs)
	admin.Post("/:id/verify", bikeLogService.VerifyBikeLog)
}
