package cache

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	redisstorage "github.com/gofiber/storage/redis"
	"github.com/sirupsen/logrus"

	"github.com/ManuelReschke/CineFox/internal/pkg/env"
)

// limiterDatabase keeps rate limiter counters apart from the plan cache (DB 0).
const limiterDatabase = 2

// NewLimiterStorage returns a Redis-backed fiber.Storage for the API rate
// limiter, so every instance shares one budget per client. It returns nil when
// the cache is unreachable; the limiter then keeps its counters in memory.
func NewLimiterStorage(log *logrus.Entry) fiber.Storage {
	c := GetClient()
	if c == nil {
		return nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx).Err(); err != nil {
		log.WithError(err).Warn("rate limiter falls back to in-memory storage")
		return nil
	}

	host, port := limiterAddr(c.Options().Addr)
	password := env.GetEnv("CACHE_PASSWORD", "")
	if p := c.Options().Password; p != "" {
		password = p
	}

	return redisstorage.New(redisstorage.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: limiterDatabase,
		Reset:    false,
	})
}

func limiterAddr(addr string) (string, int) {
	host, port := "localhost", 6379
	if h, p, err := net.SplitHostPort(addr); err == nil {
		host = h
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}
	return host, port
}
