package main

import (
	"strings"
	"time"

	config "github.com/anjiri1684/corporate_training/configs"
	"github.com/anjiri1684/corporate_training/database"
	"github.com/anjiri1684/corporate_training/jobs"
	"github.com/anjiri1684/corporate_training/notifications"
	"github.com/anjiri1684/corporate_training/routes"
	"github.com/anjiri1684/corporate_training/utils"
	"github.com/anjiri1684/corporate_training/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/robfig/cron/v3"
)

func main() {
	utils.InitLogger()

	database.ConnectDB()
	if err := database.Migrate(); err != nil {
		utils.Log.Fatalf("🔥 Database migration failed: %v", err)
	}
	database.SeedAdmin()
	notifications.InitEmailService()

	c := cron.New()
	if _, err := c.AddFunc("*/5 * * * *", jobs.SendEventReminders); err != nil {
		utils.Log.Fatalf("🔥 Failed to schedule event reminders: %v", err)
	}
	if _, err := c.AddFunc("@hourly", jobs.CheckForStaleAttempts); err != nil {
		utils.Log.Fatalf("🔥 Failed to schedule attempt sweep: %v", err)
	}
	c.Start()
	defer c.Stop()
	utils.Log.Info("✅ Cron jobs scheduled successfully.")

	app := fiber.New(fiber.Config{
		Prefork:       false,
		AppName:       config.Config("APP_NAME"),
		CaseSensitive: true,
		StrictRouting: true,
		BodyLimit:     config.Int("MAX_UPLOAD_BYTES"),
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  60 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			utils.Log.Errorf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(config.Strings("CORS_ORIGINS"), ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		MaxAge:       86400,
	}))

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to " + config.Config("APP_NAME") + " API",
		})
	})

	routes.Register(app)

	go websocket.RunHub()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	port := config.Config("PORT")
	utils.Log.Infof("✅ Server is running on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		utils.Log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
