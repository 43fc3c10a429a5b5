package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/smartbuddy/smartbuddy/handlers"
	"github.com/smartbuddy/smartbuddy/middleware"
)

func WellnessRoutes(app *fiber.App) {
	api := app.Group("/api")

	wellness := api.Group("/wellness", middleware.Protected())
	wellness.Get("", handlers.GetWellnessTip)
	wellness.Post("/checkin", handlers.WellnessCheckin)
}
