package handlers

import (
	"github.com/gofiber/fiber/v2"

	"likebike-server/middleware"
	"likebike-server/services"
	"likebike-server/utils"
)

func SetupCommunityRoutes(app *fiber.App, communityService *services.CommunityService, tokens *utils.TokenIssuer) {
	// Public reads
	app.Get("/community/posts", communityService.ListPosts)
	app.Get("/community/posts/:id", communityService.GetPost)

	// Writes require a user
	secured := app.Group("/community/posts", middleware.RequireAuth(tokens))
	secured.Post("/", communityService.CreatePost)
	secured.Post("/:id/comments", communityService.CreateComment)
	secured.Post("/:id/like", communityService.ToggleLike)

	users := app.Group("/users", middleware.RequireAuth(tokens))
	users.Get("/safety-reports", communityService.ListSafetyReports)
	users.Post("/safety-reports", communityService.CreateSafetyReport)
	users.Get("/cycling-goals", communityService.ListCyclingGoals)
	users.Post("/cycling-goals", communityService.CreateCyclingGoal)
}
