package database

import (
	"context"
	"time"

	"shuttle-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// InitRedis instantiates a Redis client used as a read-through cache for
// admin-editable system settings. Returns nil when the server is not
// reachable; callers degrade by reading settings straight from the store.
func InitRedis(config utils.RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}

	return client
}
