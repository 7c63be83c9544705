package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/ecofoods/ecofoods-backend/config"
	"github.com/ecofoods/ecofoods-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const revokedPrefix = "revoked:"

var client *redis.Client

// Init connects to redis. When no host is configured the package stays
// disabled and revocation calls become no-ops.
func Init(cfg *config.RedisConfig) error {
	if !cfg.Enabled() {
		logger.Warn("Redis host not configured, token revocation disabled")
		return nil
	}

	logger.Info("Initializing Redis connection", logger.Fields{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	c := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, logger.Fields{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		c.Close()
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	client = c
	logger.Info("Redis connection established successfully")
	return nil
}

// Enabled reports whether a redis client is connected
func Enabled() bool {
	return client != nil
}

func Close() error {
	if client == nil {
		return nil
	}
	logger.Info("Closing Redis connection")
	err := client.Close()
	client = nil
	return err
}

// RevokeToken stores token until it would have expired anyway
func RevokeToken(ctx context.Context, token string, ttl time.Duration) error {
	if client == nil || ttl <= 0 {
		return nil
	}

	if err := client.Set(ctx, revokedPrefix+token, "1", ttl).Err(); err != nil {
		logger.Error("Failed to revoke token", err)
		return err
	}
	logger.Debug("Token revoked", logger.Fields{"ttl": ttl.String()})
	return nil
}

// IsTokenRevoked checks whether token was revoked by logout
func IsTokenRevoked(ctx context.Context, token string) (bool, error) {
	if client == nil {
		return false, nil
	}

	err := client.Get(ctx, revokedPrefix+token).Err()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check token revocation", err)
		return false, err
	}
	return true, nil
}
