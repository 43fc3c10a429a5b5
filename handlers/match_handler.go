package handlers

import (
	"fmt"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/smartbuddy/smartbuddy/database"
	"github.com/smartbuddy/smartbuddy/middleware"
	"github.com/smartbuddy/smartbuddy/models"
	"github.com/smartbuddy/smartbuddy/services"
)

const (
	defaultMatchLimit = 3
	maxMatchLimit     = 10
	buddyConnectXP    = 15
)

func GetMatches(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var currentUser models.User
	if err := database.DB.First(&currentUser, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
	}

	if len(currentUser.Skills) == 0 && len(currentUser.Interests) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "User profile incomplete. Please update your skills and interests.",
		})
	}

	var candidates []models.User
	if err := database.DB.Where("id <> ?", userID).Find(&candidates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error getting matches"})
	}
	if len(candidates) == 0 {
		return c.JSON([]fiber.Map{})
	}

	matches := services.RankMatches(currentUser, candidates)

	limit := defaultMatchLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 {
			limit = n
		}
	}
	if limit > maxMatchLimit {
		limit = maxMatchLimit
	}
	if limit > len(matches) {
		limit = len(matches)
	}

	payload := make([]fiber.Map, 0, limit)
	for _, m := range matches[:limit] {
		payload = append(payload, fiber.Map{
			"id":              m.User.ID,
			"name":            m.User.Name,
			"email":           m.User.Email,
			"branch":          m.User.Branch,
			"year":            m.User.Year,
			"availability":    stringList(m.User.Availability),
			"skills":          stringList(m.User.Skills),
			"interests":       stringList(m.User.Interests),
			"sharedSkills":    m.SharedSkills,
			"sharedInterests": m.SharedInterests,
			"score":           m.Score,
			"matchScore":      m.Score,
		})
	}
	return c.JSON(payload)
}

type ConnectBuddyRequest struct {
	BuddyID string `json:"buddyId" validate:"required,uuid"`
}

func ConnectBuddy(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var req ConnectBuddyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Buddy ID is required"})
	}
	buddyID, _ := uuid.Parse(req.BuddyID)

	var buddy models.User
	if err := database.DB.First(&buddy, "id = ?", buddyID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Buddy not found"})
	}

	var currentUser models.User
	if err := database.DB.First(&currentUser, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
	}

	var connected int64
	database.DB.Table("user_connections").
		Where("user_id = ? AND connection_id = ?", userID, buddyID).
		Count(&connected)
	if connected > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message":          "You have already connected with this buddy!",
			"alreadyConnected": true,
			"xp":               currentUser.XP,
		})
	}

	if err := database.DB.Model(&currentUser).Association("Connections").Append(&buddy); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error during connection"})
	}

	xp, _, err := services.AwardXPOnce(userID, models.XPActionBuddyConnect, buddyID.String(),
		buddyConnectXP, fmt.Sprintf("Connecting with %s", buddy.Name))
	if err != nil {
		log.Printf("[Match] Failed to award connect XP to %s: %v", userID, err)
		xp = currentUser.XP
	}

	return c.JSON(fiber.Map{
		"message": "Connection request sent successfully!",
		"xp":      xp,
	})
}
