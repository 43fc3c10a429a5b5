package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/smartbuddy/smartbuddy/handlers"
	"github.com/smartbuddy/smartbuddy/middleware"
)

func ProfileRoutes(app *fiber.App) {
	api := app.Group("/api")

	profile := api.Group("/profile", middleware.Protected())
	profile.Get("/preview/:userId", handlers.PreviewProfile)
	profile.Get("/preview", handlers.PreviewProfile)
	profile.Put("/avatar", handlers.UpdateAvatar)
	profile.Post("/avatar/signature", handlers.GenerateUploadSignature)
}
