package routes

import (
	"github.com/anjiri1684/corporate_training/handlers"
	"github.com/anjiri1684/corporate_training/middleware"
	"github.com/anjiri1684/corporate_training/models"
	"github.com/gofiber/fiber/v2"
)

func UserRoutes(app *fiber.App) {
	api := app.Group("/api/v1")
	admins := middleware.RolesRequired(models.RoleSystemAdmin, models.RoleCompanyAdmin)

	users := api.Group("/users", middleware.Protected())
	users.Get("", admins, handlers.ListUsers)

	profile := users.Group("/me/profile")
	profile.Get("", handlers.GetMyProfile)
	profile.Post("", handlers.CreateMyProfile)
	profile.Put("", handlers.UpdateMyProfile)

	users.Get("/:userId", handlers.GetUser)
	users.Put("/:userId", admins, handlers.UpdateUser)
}

func CompanyRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	companies := api.Group("/companies", middleware.Protected())
	companies.Post("", middleware.SystemAdminRequired(), handlers.CreateCompany)
	companies.Get("", middleware.RolesRequired(models.RoleSystemAdmin, models.RoleCompanyAdmin), handlers.ListCompanies)
	companies.Get("/:companyId", handlers.GetCompany)
	companies.Put("/:companyId", middleware.RolesRequired(models.RoleSystemAdmin, models.RoleCompanyAdmin), handlers.UpdateCompany)
}
