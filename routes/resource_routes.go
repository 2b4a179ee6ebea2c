package routes

import (
	"github.com/anjiri1684/corporate_training/handlers"
	"github.com/anjiri1684/corporate_training/middleware"
	"github.com/gofiber/fiber/v2"
)

func EventRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	events := api.Group("/events", middleware.Protected())
	events.Post("", handlers.CreateEvent)
	events.Get("", handlers.ListEvents)
}

func DocumentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	documents := api.Group("/documents", middleware.Protected())
	documents.Post("/upload", handlers.UploadDocument)
	documents.Get("", handlers.ListDocuments)
	documents.Get("/:documentId", handlers.GetDocument)

	uploads := api.Group("/uploads", middleware.Protected())
	uploads.Get("/signature", handlers.GenerateUploadSignature)
}
