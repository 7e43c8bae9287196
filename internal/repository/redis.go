package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ipresolver/internal/model"
)

var ErrCacheMiss = errors.New("cache miss")

const resultKeyPrefix = "firsthost:"

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *RedisCache) SetResult(ctx context.Context, cidr string, result model.AddressResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	err = r.client.Set(ctx, resultKeyPrefix+cidr, data, r.ttl).Err()
	if err != nil {
		r.logger.Error("failed to set result in cache",
			zap.String("cidr", cidr),
			zap.Error(err))
	}
	return err
}

func (r *RedisCache) GetResult(ctx context.Context, cidr string) (model.AddressResult, error) {
	var result model.AddressResult

	data, err := r.client.Get(ctx, resultKeyPrefix+cidr).Bytes()
	if err == redis.Nil {
		return result, ErrCacheMiss
	}
	if err != nil {
		r.logger.Error("failed to get result from cache",
			zap.String("cidr", cidr),
			zap.Error(err))
		return result, err
	}

	if err := json.Unmarshal(data, &result); err != nil {
		return result, fmt.Errorf("decoding cached result for %s: %w", cidr, err)
	}
	return result, nil
}
