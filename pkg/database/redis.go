package database

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// NewRedisClient connects to the event bus. It returns nil when addr is empty
// or the server cannot be reached, in which case events are only logged.
func NewRedisClient(ctx context.Context, addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Printf("Redis connection failed, continuing without Redis: %v", err)
		_ = rdb.Close()
		return nil
	}

	log.Println("Redis connection established")
	return rdb
}
