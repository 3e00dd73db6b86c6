package remote

import (
	"fmt"

	"github.com/shelfsync/shelfsync/internal/config"
	"github.com/shelfsync/shelfsync/internal/logger"
	shelfredis "github.com/shelfsync/shelfsync/internal/redis"
)

// FromConfig selects a Client implementation from the configured provider
// name. The sync engine is written against the Client contract only.
func FromConfig(cfg *config.Config, log logger.Logger) (Client, error) {
	switch cfg.RemoteProvider {
	case ProviderMemory:
		return NewMemoryClient(), nil

	case ProviderHTTP:
		if cfg.RemoteURL == "" {
			return nil, fmt.Errorf("remote provider %q requires SHELF_REMOTE_URL", cfg.RemoteProvider)
		}
		return NewHTTPClient(cfg.RemoteURL), nil

	case ProviderRedis:
		rdb, err := shelfredis.New(shelfredis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect remote redis: %w", err)
		}
		return NewRedisClient(rdb, cfg.DocTTL), nil

	default:
		return nil, fmt.Errorf("unknown remote provider %q", cfg.RemoteProvider)
	}
}
