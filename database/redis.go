package database

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
)

// Redis 分析快取用的客戶端；REDIS_URL 未設定時保持 nil，快取層自動停用
var Redis *redis.Client

func InitRedis() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		log.Println("REDIS_URL not set, analytics caching disabled")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Failed to ping redis at %s, caching disabled: %v", redisURL, err)
		return
	}

	Redis = client
	log.Printf("Redis initialized with address: %s", redisURL)
}
