package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
	"github.com/smartbuddy/smartbuddy/cache"
	config "github.com/smartbuddy/smartbuddy/configs"
	"github.com/smartbuddy/smartbuddy/database"
	"github.com/smartbuddy/smartbuddy/jobs"
	"github.com/smartbuddy/smartbuddy/notifications"
	"github.com/smartbuddy/smartbuddy/routes"
	wsocket "github.com/smartbuddy/smartbuddy/websocket"
)

func main() {
	database.ConnectDB()
	database.Migrate()
	cache.ConnectCache()
	notifications.InitEmailService()

	c := cron.New()
	c.AddFunc("*/5 * * * *", jobs.ReleaseExpiredLocks)
	go c.Start()
	log.Println("✅ Cron job for account locks scheduled successfully.")

	registry := wsocket.NewRegistry()

	development := config.Config("APP_ENV") == "development"
	app := fiber.New(fiber.Config{
		AppName:       "SmartBuddy",
		CaseSensitive: true,
		StrictRouting: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())

			message := err.Error()
			if code == fiber.StatusInternalServerError && !development {
				message = "Internal server error"
			}
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": message,
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to SmartBuddy API",
		})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	routes.AuthRoutes(app)
	routes.MatchRoutes(app)
	routes.EventRoutes(app)
	routes.WellnessRoutes(app)
	routes.XPRoutes(app)
	routes.TipsRoutes(app)
	routes.ConnectionRoutes(app, registry)
	routes.ConversationRoutes(app, registry)
	routes.ProfileRoutes(app)

	port := config.Config("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("✅ Server is running on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
