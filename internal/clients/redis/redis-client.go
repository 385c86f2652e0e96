package redis_client

import (
	"context"
	"log/slog"

	"github.com/init-pkg/sheet-relay/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// New returns nil when no Redis address is configured.
func New(lc fx.Lifecycle, cfg *config.Config, log *slog.Logger) *redis.Client {
	rc := cfg.Infrastructure.Redis
	if rc.Addr == "" {
		log.Info("redis not configured, results cache disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     rc.Addr,
		Password: rc.Password,
		DB:       rc.Db,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				log.Warn("redis is not reachable yet", "addr", rc.Addr, "error", err)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return client
}
