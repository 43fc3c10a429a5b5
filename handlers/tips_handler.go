package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/smartbuddy/smartbuddy/cache"
	"github.com/smartbuddy/smartbuddy/middleware"
	"github.com/smartbuddy/smartbuddy/services"
)

const tipsCacheTTL = 24 * time.Hour

type TipsRequest struct {
	Name     string `json:"name" validate:"required"`
	XP       *int   `json:"xp" validate:"required"`
	Mood     string `json:"mood" validate:"required"`
	Activity string `json:"activity" validate:"required"`
}

// GetDailyTips returns the user's personalized tip triple, generating it at
// most once per calendar day. The Redis TTL replaces any manual cleanup.
func GetDailyTips(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var req TipsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Missing required fields: name, xp, mood, activity",
			"error":   "MISSING_FIELDS",
		})
	}

	ctx := context.Background()
	today := time.Now().Format("2006-01-02")
	cacheKey := fmt.Sprintf("tips:%s:%s", userID, today)

	if raw, err := cache.RDB.Get(ctx, cacheKey).Result(); err == nil {
		var tips []string
		if err := json.Unmarshal([]byte(raw), &tips); err == nil {
			return c.JSON(fiber.Map{
				"tips":    tips,
				"cached":  true,
				"date":    today,
				"message": "AI Tips (cached)",
			})
		}
	}

	tips := services.GenerateAITips(req.Name, *req.XP, req.Mood, req.Activity)

	if encoded, err := json.Marshal(tips); err == nil {
		if err := cache.RDB.Set(ctx, cacheKey, encoded, tipsCacheTTL).Err(); err != nil {
			log.Printf("[Tips] Failed to cache tips for %s: %v", userID, err)
		}
	}

	return c.JSON(fiber.Map{
		"tips":    tips,
		"cached":  false,
		"date":    today,
		"message": "AI Tips (fresh)",
	})
}
