package handlers

import (
	"github.com/gofiber/fiber/v2"

	"likebike-server/middleware"
	"likebike-server/services"
	"likebike-server/utils"
)

func SetupQuizRoutes(app *fiber.App, quizService *services.QuizService, tokens *utils.TokenIssuer) {
	secured := app.Group("/quizzes", middleware.RequireAuth(tokens))
	secured.Get("/", quizService.ListQuizzes)
	secured.Get("/today/status", quizService.TodayStatus)
	secured.Post("/:id/attempt", quizService.Attempt)

	admin := app.Group("/admin/quizzes", middleware.RequireAdmin(tokens))
	admin.Post("/", quizService.CreateQuiz)
	admin.Post("/generate", quizService.GenerateQuiz)
	admin.Put("/:id", quizService.UpdateQuiz)
	admin.Delete("/:id", quizService.DeleteQuiz)
}
