package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ManuelReschke/CineFox/internal/pkg/env"
)

var (
	client *redis.Client
	ctx    = context.Background()
)

// SetupCache initializes the connection to the Redis-compatible cache server.
// A failed ping is logged, not fatal: cache users fall back to the database.
func SetupCache(log *logrus.Entry) {
	host := env.GetEnv("CACHE_HOST", "localhost")
	port := env.GetEnv("CACHE_PORT", "6379")

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: env.GetEnv("CACHE_PASSWORD", ""),
		DB:       0, // use default DB
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	pong, err := client.Ping(pingCtx).Result()
	if err != nil {
		log.WithError(err).Warn("could not connect to cache")
	} else {
		log.WithField("reply", pong).Info("connected to cache")
	}
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// SetClient replaces the client, for tests.
func SetClient(c *redis.Client) {
	client = c
}

// DeletePrefix removes every key starting with prefix, e.g. after the plan
// catalog changed.
func DeletePrefix(c context.Context, prefix string) (int64, error) {
	var deleted int64
	iter := GetClient().Scan(c, 0, prefix+"*", 100).Iterator()
	for iter.Next(c) {
		n, err := GetClient().Del(c, iter.Val()).Result()
		if err != nil {
			return deleted, err
		}
		deleted += n
	}
	return deleted, iter.Err()
}
