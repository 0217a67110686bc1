package service

import (
	"context"
	"encoding/json"
	"time"

	"skilldev_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	cacheKeyCategories = "skilldev:catalog:categories"
	cacheKeyOverview   = "skilldev:catalog:overview"
)

// CatalogCache 目录类只读数据的 Redis 缓存；Redis 未启用时所有操作直接穿透
type CatalogCache struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewCatalogCache(rdb *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{Redis: rdb, TTL: ttl}
}

func (c *CatalogCache) enabled() bool {
	return c != nil && c.Redis != nil
}

// Load 命中时解码到 dest 并返回 true；缓存异常只记录日志
func (c *CatalogCache) Load(key string, dest interface{}) bool {
	if !c.enabled() {
		return false
	}
	val, err := c.Redis.Get(context.Background(), key).Result()
	if err == redis.Nil {
		return false
	} else if err != nil {
		logger.Log.Warn("读取缓存失败", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		logger.Log.Warn("缓存数据损坏", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *CatalogCache) Store(key string, value interface{}) {
	if !c.enabled() {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.Redis.Set(context.Background(), key, data, c.TTL).Err(); err != nil {
		logger.Log.Warn("写入缓存失败", zap.String("key", key), zap.Error(err))
	}
}

func (c *CatalogCache) Invalidate(keys ...string) {
	if !c.enabled() || len(keys) == 0 {
		return
	}
	if err := c.Redis.Del(context.Background(), keys...).Err(); err != nil {
		logger.Log.Warn("清理缓存失败", zap.Strings("keys", keys), zap.Error(err))
	}
}
