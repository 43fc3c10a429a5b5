package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/smartbuddy/smartbuddy/handlers"
	"github.com/smartbuddy/smartbuddy/middleware"
	wsocket "github.com/smartbuddy/smartbuddy/websocket"
)

func ConnectionRoutes(app *fiber.App, reg *wsocket.Registry) {
	api := app.Group("/api")

	connections := api.Group("/connections", middleware.Protected())
	connections.Post("/request", handlers.SendConnectionRequest(reg))
	connections.Get("/requests", handlers.ListConnectionRequests)
	connections.Post("/respond", handlers.RespondToRequest(reg))
}
