package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/smartbuddy/smartbuddy/handlers"
	"github.com/smartbuddy/smartbuddy/middleware"
)

func MatchRoutes(app *fiber.App) {
	api := app.Group("/api")

	match := api.Group("/match", middleware.Protected())
	match.Get("", handlers.GetMatches)
	match.Post("/connect", handlers.ConnectBuddy)
}
