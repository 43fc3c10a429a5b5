package jobs

import (
	"log"
	"time"

	"github.com/smartbuddy/smartbuddy/database"
	"github.com/smartbuddy/smartbuddy/models"
)

// ReleaseExpiredLocks clears account lockouts whose window has passed, so
// accounts unlock even if the user never attempts another login.
func ReleaseExpiredLocks() {
	res := database.DB.Model(&models.User{}).
		Where("account_locked = ? AND lock_until < ?", true, time.Now()).
		Updates(map[string]interface{}{
			"account_locked": false,
			"login_attempts": 0,
			"lock_until":     nil,
		})
	if res.Error != nil {
		log.Printf("🔥 Failed to release expired account locks: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("✅ Released %d expired account lock(s).", res.RowsAffected)
	}
}
