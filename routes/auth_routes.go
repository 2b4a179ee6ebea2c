package routes

import (
	"github.com/anjiri1684/corporate_training/handlers"
	"github.com/anjiri1684/corporate_training/middleware"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", handlers.RegisterUser)
	auth.Post("/login", handlers.LoginUser)
	auth.Post("/refresh", handlers.RefreshToken)
	auth.Get("/me", middleware.Protected(), handlers.GetMe)
}
