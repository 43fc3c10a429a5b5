package services

import (
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/smartbuddy/smartbuddy/database"
	"github.com/smartbuddy/smartbuddy/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInvalidXPAmount = errors.New("xp amount must be a positive number")

// AwardXPOnce grants amount XP at most once per (user, action, dedupeKey).
// Every grant is recorded in the xp_awards ledger; the ledger's unique index
// is the idempotency guard, so concurrent duplicate grants collapse to one.
// Returns the user's XP total and whether the grant was applied by this call.
func AwardXPOnce(userID uuid.UUID, action, dedupeKey string, amount int, reason string) (int, bool, error) {
	if amount <= 0 {
		return 0, false, ErrInvalidXPAmount
	}

	var total int
	granted := false
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		award := models.XPAward{
			UserID:    userID,
			Action:    action,
			DedupeKey: dedupeKey,
			Amount:    amount,
			Reason:    reason,
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&award)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected > 0 {
			inc := tx.Model(&models.User{}).Where("id = ?", userID).
				UpdateColumn("xp", gorm.Expr("xp + ?", amount))
			if inc.Error != nil {
				return inc.Error
			}
			if inc.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
			granted = true
		}

		var user models.User
		if err := tx.Select("xp").First(&user, "id = ?", userID).Error; err != nil {
			return err
		}
		total = user.XP
		return nil
	})
	if err != nil {
		return 0, false, err
	}

	if granted {
		log.Printf("Added %d XP to user %s for %s (total %d)", amount, userID, reason, total)
	}
	return total, granted, nil
}

// AwardXP grants XP unconditionally, still leaving a ledger row behind.
func AwardXP(userID uuid.UUID, amount int, reason string) (int, error) {
	total, _, err := AwardXPOnce(userID, models.XPActionManual, uuid.NewString(), amount, reason)
	return total, err
}
