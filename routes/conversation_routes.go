package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/smartbuddy/smartbuddy/handlers"
	"github.com/smartbuddy/smartbuddy/middleware"
	wsocket "github.com/smartbuddy/smartbuddy/websocket"
)

func ConversationRoutes(app *fiber.App, reg *wsocket.Registry) {
	api := app.Group("/api")

	conversations := api.Group("/conversations", middleware.Protected())
	conversations.Get("", handlers.ListConversations)
	conversations.Get("/:id/messages", handlers.GetConversationMessages)
	conversations.Post("/:id/messages", handlers.SendMessage(reg))

	api.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	api.Get("/ws", websocket.New(handlers.ServeWs(reg)))
}
