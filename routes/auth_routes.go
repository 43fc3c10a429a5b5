package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/smartbuddy/smartbuddy/handlers"
	"github.com/smartbuddy/smartbuddy/middleware"
)

func AuthRoutes(app *fiber.App) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handlers.RegisterUser)
	auth.Post("/login", handlers.LoginUser)
	auth.Get("/verify", handlers.VerifyToken)
	auth.Put("/profile", middleware.Protected(), handlers.UpdateProfile)
}
