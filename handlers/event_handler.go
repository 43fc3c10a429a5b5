package handlers

import (
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/smartbuddy/smartbuddy/database"
	"github.com/smartbuddy/smartbuddy/middleware"
	"github.com/smartbuddy/smartbuddy/models"
	"github.com/smartbuddy/smartbuddy/services"
)

const (
	recommendedEventLimit = 5
	eventJoinXP           = 20
)

// GetRecommendedEvents returns upcoming events whose tags intersect the
// caller's interests, case-insensitively.
func GetRecommendedEvents(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var currentUser models.User
	if err := database.DB.First(&currentUser, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
	}

	var allEvents []models.Event
	if err := database.DB.Order("date asc").Find(&allEvents).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error getting events"})
	}

	interests := make(map[string]bool, len(currentUser.Interests))
	for _, interest := range currentUser.Interests {
		interests[strings.ToLower(interest)] = true
	}

	recommended := make([]models.Event, 0, recommendedEventLimit)
	for _, event := range allEvents {
		for _, tag := range event.Tags {
			if interests[strings.ToLower(tag)] {
				recommended = append(recommended, event)
				break
			}
		}
		if len(recommended) == recommendedEventLimit {
			break
		}
	}
	return c.JSON(recommended)
}

type CreateEventRequest struct {
	Title       string   `json:"title" validate:"required"`
	Date        string   `json:"date" validate:"required"`
	Time        string   `json:"time" validate:"required"`
	Location    string   `json:"location" validate:"required"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
}

func CreateEvent(c *fiber.Ctx) error {
	var req CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Validation failed", "errors": err.Error()})
	}

	event := models.Event{
		Title:       strings.TrimSpace(req.Title),
		Date:        req.Date,
		Time:        req.Time,
		Location:    strings.TrimSpace(req.Location),
		Tags:        req.Tags,
		Description: req.Description,
	}
	if err := database.DB.Create(&event).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error creating event"})
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

type JoinEventRequest struct {
	EventID string `json:"eventId" validate:"required,uuid"`
}

func JoinEvent(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var req JoinEventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Event ID is required"})
	}
	eventID, _ := uuid.Parse(req.EventID)

	var event models.Event
	if err := database.DB.First(&event, "id = ?", eventID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Event not found"})
	}

	var currentUser models.User
	if err := database.DB.First(&currentUser, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
	}

	var joined int64
	database.DB.Table("user_events").
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Count(&joined)
	if joined > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message":       "You have already joined this event!",
			"alreadyJoined": true,
			"xp":            currentUser.XP,
		})
	}

	if err := database.DB.Model(&currentUser).Association("JoinedEvents").Append(&event); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error joining event"})
	}

	xp, _, err := services.AwardXPOnce(userID, models.XPActionEventJoin, eventID.String(),
		eventJoinXP, fmt.Sprintf("Joining event: %s", event.Title))
	if err != nil {
		log.Printf("[Events] Failed to award join XP to %s: %v", userID, err)
		xp = currentUser.XP
	}

	return c.JSON(fiber.Map{
		"message": "Event joined successfully!",
		"xp":      xp,
	})
}
