package database

import (
	"fmt"
	"log"

	config "github.com/smartbuddy/smartbuddy/configs"
	"github.com/smartbuddy/smartbuddy/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	fmt.Println("✅ Database connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.MoodEntry{},
		&models.ConnectionRequest{},
		&models.Conversation{},
		&models.Message{},
		&models.XPAward{},
	)
	if err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}

	// Partial unique indexes AutoMigrate cannot express. The pending-pair
	// index is what turns the "check then insert" request flow into a real
	// constraint, and the client-key index dedupes socket/REST double sends.
	for _, stmt := range []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_connection_requests_pending
			ON connection_requests (from_id, to_id) WHERE status = 'pending'`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_messages_client_key
			ON messages (conversation_id, client_key) WHERE client_key <> ''`,
	} {
		if err := DB.Exec(stmt).Error; err != nil {
			log.Fatalf("🔥 Failed to create index: %v", err)
		}
	}

	fmt.Println("✅ Database migration successful")
}
