package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/smartbuddy/smartbuddy/handlers"
	"github.com/smartbuddy/smartbuddy/middleware"
)

func XPRoutes(app *fiber.App) {
	api := app.Group("/api")

	xp := api.Group("/xp", middleware.Protected())
	xp.Get("", handlers.GetXP)
	xp.Post("/add", handlers.AddXP)
}
