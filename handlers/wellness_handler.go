package handlers

import (
	"log"
	"math/rand"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/smartbuddy/smartbuddy/database"
	"github.com/smartbuddy/smartbuddy/middleware"
	"github.com/smartbuddy/smartbuddy/models"
	"github.com/smartbuddy/smartbuddy/services"
)

const checkinXP = 10

var moodTips = map[string][]string{
	"Happy": {
		"Keep it up! Try joining today's AI Workshop 🎯",
		"Your positive energy is contagious! Keep spreading the smiles.",
		"A great day! Consider helping a friend with their studies.",
	},
	"Neutral": {
		"Take a 10-minute break, you got this.",
		"Every moment is a fresh beginning. Keep going!",
		"Small progress is still progress. Stay steady.",
	},
	"Stressed": {
		"Breathe deeply — focus on one small task at a time.",
		"It's okay to take a step back. You're doing your best.",
		"Remember: this moment will pass. You've overcome challenges before.",
	},
}

func GetWellnessTip(c *fiber.Ctx) error {
	mood := c.Query("mood")
	tips, ok := moodTips[mood]
	if !ok {
		tips = moodTips["Neutral"]
	}
	return c.JSON(fiber.Map{"tip": tips[rand.Intn(len(tips))]})
}

type CheckinRequest struct {
	Mood string `json:"mood" validate:"required"`
	Tip  string `json:"tip"`
}

// WellnessCheckin records today's mood and grants XP at most once per
// calendar day; the ledger key is the date itself.
func WellnessCheckin(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var req CheckinRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Validation failed", "errors": err.Error()})
	}

	today := time.Now().Format("2006-01-02")
	xp, granted, err := services.AwardXPOnce(userID, models.XPActionCheckin, today, checkinXP, "Wellness check-in")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Server error during check-in"})
	}
	if !granted {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message":          "You have already checked in today! Come back tomorrow for more XP.",
			"alreadyCheckedIn": true,
			"xp":               xp,
		})
	}

	entry := models.MoodEntry{
		UserID: userID,
		Mood:   req.Mood,
		Tip:    req.Tip,
		Date:   time.Now(),
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		log.Printf("[Wellness] Failed to record mood entry for %s: %v", userID, err)
	}

	return c.JSON(fiber.Map{
		"message":          "Check-in successful",
		"xp":               xp,
		"alreadyCheckedIn": false,
	})
}
