package routes

import (
	"github.com/anjiri1684/corporate_training/handlers"
	"github.com/anjiri1684/corporate_training/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func MessagingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	chat := api.Group("/chat", middleware.Protected())
	chat.Post("", handlers.SendMessage)
	chat.Get("", handlers.GetMessages)

	api.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	api.Get("/ws", websocket.New(handlers.ServeWs))
}

func NotificationRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	notifications := api.Group("/notifications", middleware.Protected())
	notifications.Get("", handlers.ListNotifications)
	notifications.Put("/:notificationId/read", handlers.MarkNotificationRead)
}

func RAGRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	rag := api.Group("/rag", middleware.Protected())
	rag.Post("/query", handlers.QueryRAG)
	rag.Get("/history", handlers.GetRAGHistory)
}
