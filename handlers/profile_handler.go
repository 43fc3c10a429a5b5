package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/smartbuddy/smartbuddy/database"
	"github.com/smartbuddy/smartbuddy/middleware"
	"github.com/smartbuddy/smartbuddy/models"
)

// PreviewProfile exposes a limited public profile, but only to a user who
// currently has a pending request from the previewed user.
func PreviewProfile(c *fiber.Ctx) error {
	currentID := middleware.UserID(c)

	raw := c.Params("userId")
	if raw == "" {
		raw = c.Query("userId")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user id"})
	}

	var pending models.ConnectionRequest
	err = database.DB.
		Where("from_id = ? AND to_id = ? AND status = ?", userID, currentID, models.RequestPending).
		First(&pending).Error
	if err != nil {
		log.Printf("[ProfilePreview] Unauthorized attempt by %s to preview %s", currentID, userID)
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Not authorized to preview this profile."})
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
	}

	return c.JSON(fiber.Map{
		"profile": fiber.Map{
			"id":        user.ID,
			"name":      user.Name,
			"about":     user.About,
			"branch":    user.Branch,
			"year":      user.Year,
			"xp":        user.XP,
			"skills":    stringList(user.Skills),
			"interests": stringList(user.Interests),
			"avatar":    user.Avatar,
		},
	})
}

type UpdateAvatarRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// UpdateAvatar records the uploaded avatar URL after the client finishes the
// signed upload.
func UpdateAvatar(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var req UpdateAvatarRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "A valid url is required"})
	}

	res := database.DB.Model(&models.User{}).Where("id = ?", userID).Update("avatar", req.URL)
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to update avatar"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
	}

	return c.JSON(fiber.Map{"message": "Avatar updated", "avatar": req.URL})
}
