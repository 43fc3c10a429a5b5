package cache

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
	config "github.com/smartbuddy/smartbuddy/configs"
)

var RDB *redis.Client

func ConnectCache() {
	url := config.Config("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/0"
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("🔥 Invalid REDIS_URL: %v", err)
	}

	RDB = redis.NewClient(opts)
	if err := RDB.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("🔥 Failed to connect to Redis: %v", err)
	}

	log.Println("✅ Redis connected successfully")
}
