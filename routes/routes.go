package routes

import "github.com/gofiber/fiber/v2"

// Register mounts every API route group on app.
func Register(app *fiber.App) {
	AuthRoutes(app)
	UserRoutes(app)
	CompanyRoutes(app)
	CourseRoutes(app)
	QuizRoutes(app)
	MessagingRoutes(app)
	NotificationRoutes(app)
	RAGRoutes(app)
	EventRoutes(app)
	DocumentRoutes(app)
	AdminRoutes(app)
}
