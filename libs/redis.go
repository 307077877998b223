package libs

import (
	"context"
	"time"

	"rental-admin/config"
	"rental-admin/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// NewRedis connects to Redis. It returns nil when Redis is unreachable and
// callers run without cache, token deny list or OTP storage.
func NewRedis(ctx context.Context, cfg *config.Config, log logger.ILogger) *redis.Client {
	var opt *redis.Options
	if cfg.RedisURL != "" {
		parsedOpt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Warning("failed to parse Redis URL, running without cache", logger.Error(err))
			return nil
		}
		opt = parsedOpt
	} else {
		opt = &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		}
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warning("redis connection failed, running without cache", logger.Error(err))
		client.Close()
		return nil
	}

	log.Info("redis connected", logger.String("addr", opt.Addr))
	return client
}
