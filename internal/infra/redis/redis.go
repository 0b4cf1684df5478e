package redis

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// New connects to redis; on failure it returns nil and the callers degrade
// to uncached operation.
func New(addr string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DB:           0,
		PoolSize:     200,
		MinIdleConns: 20,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("WARNING: redis unavailable at %s: %v. Caching and rate limiting disabled.", addr, err)
		return nil
	}
	return client
}
