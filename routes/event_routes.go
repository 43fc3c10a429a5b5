package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/smartbuddy/smartbuddy/handlers"
	"github.com/smartbuddy/smartbuddy/middleware"
)

func EventRoutes(app *fiber.App) {
	api := app.Group("/api")

	events := api.Group("/events", middleware.Protected())
	events.Get("", handlers.GetRecommendedEvents)
	events.Post("", handlers.CreateEvent)
	events.Post("/join", handlers.JoinEvent)
}
