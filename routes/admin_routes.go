package routes

import (
	"github.com/anjiri1684/corporate_training/handlers"
	"github.com/anjiri1684/corporate_training/middleware"
	"github.com/anjiri1684/corporate_training/models"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/leaderboard", middleware.Protected(), handlers.GetLeaderboard)

	admin := api.Group("/admin", middleware.Protected(), middleware.RolesRequired(models.RoleSystemAdmin, models.RoleCompanyAdmin))
	admin.Get("/dashboard-analytics", handlers.GetDashboardAnalytics)

	reports := admin.Group("/reports")
	reports.Get("/attempts", handlers.GenerateAttemptReport)
}
