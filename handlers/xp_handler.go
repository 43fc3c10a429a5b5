package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/smartbuddy/smartbuddy/database"
	"github.com/smartbuddy/smartbuddy/middleware"
	"github.com/smartbuddy/smartbuddy/models"
	"github.com/smartbuddy/smartbuddy/services"
)

func GetXP(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var user models.User
	if err := database.DB.Select("xp").First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
	}
	return c.JSON(fiber.Map{"xp": user.XP})
}

type AddXPRequest struct {
	XPToAdd int    `json:"xpToAdd"`
	Reason  string `json:"reason"`
}

func AddXP(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var req AddXPRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Cannot parse JSON"})
	}
	if req.XPToAdd <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid XP amount",
			"error":   "INVALID_XP",
		})
	}

	reason := req.Reason
	if reason == "" {
		reason = "Activity reward"
	}

	xp, err := services.AwardXP(userID, req.XPToAdd, reason)
	if err != nil {
		if errors.Is(err, services.ErrInvalidXPAmount) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid XP amount", "error": "INVALID_XP"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error adding XP"})
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Added %d XP", req.XPToAdd),
		"xp":      xp,
	})
}
