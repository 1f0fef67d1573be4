package utils

import (
	"context"
	"fmt"
	"time"

	"haram/config"

	"github.com/go-redis/redis/v8"
)

// SessionCacheClient holds parked reservation sessions.
var SessionCacheClient *redis.Client

// InitSessionCache connects the session Redis client and verifies it with a ping.
func InitSessionCache() error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSessionDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("connect to redis (session cache): %w", err)
	}

	SessionCacheClient = client
	return nil
}

// GetSessionCacheClient returns the session cache client, or nil before InitSessionCache.
func GetSessionCacheClient() *redis.Client {
	return SessionCacheClient
}
