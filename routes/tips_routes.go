package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/smartbuddy/smartbuddy/handlers"
	"github.com/smartbuddy/smartbuddy/middleware"
)

func TipsRoutes(app *fiber.App) {
	api := app.Group("/api")

	api.Post("/tips", middleware.Protected(), handlers.GetDailyTips)
}
