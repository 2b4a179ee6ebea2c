package routes

import (
	"github.com/anjiri1684/corporate_training/handlers"
	"github.com/anjiri1684/corporate_training/middleware"
	"github.com/anjiri1684/corporate_training/models"
	"github.com/gofiber/fiber/v2"
)

func QuizRoutes(app *fiber.App) {
	api := app.Group("/api/v1")
	authors := middleware.RolesRequired(models.RoleInstructor, models.RoleCompanyAdmin, models.RoleSystemAdmin)

	quizzes := api.Group("/quizzes", middleware.Protected())
	quizzes.Post("/attempt", handlers.SubmitAttempt)
	quizzes.Get("/attempts/:attemptId", handlers.GetAttempt)
	quizzes.Get("/module/:moduleId", handlers.GetModuleQuiz)

	quizzes.Post("", authors, handlers.CreateQuiz)
	quizzes.Put("/:quizId", authors, handlers.UpdateQuiz)
	quizzes.Delete("/:quizId", authors, handlers.DeleteQuiz)

	quizzes.Get("/:quizId/questions", handlers.GetQuizQuestions)
	quizzes.Post("/:quizId/questions", authors, handlers.AddQuestion)
	quizzes.Put("/:quizId/questions/:questionId", authors, handlers.UpdateQuestion)
	quizzes.Delete("/:quizId/questions/:questionId", authors, handlers.DeleteQuestion)

	quizzes.Get("/:quizId/attempts", handlers.ListMyAttempts)
}
