package database

import (
	"context"
	"fmt"
	"time"

	"skilldev_backend/internal/config"
	"skilldev_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// InitRedis 未配置 host 时返回 nil，调用方按无缓存处理
func InitRedis(cfg *config.RedisConfig) (*redis.Client, error) {
	if cfg.Host == "" {
		logger.Log.Info("Redis host not configured, catalog cache disabled")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     50,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	logger.Log.Info("Redis connection established", zap.String("addr", rdb.Options().Addr))
	return rdb, nil
}
