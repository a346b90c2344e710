// Package redisstore keeps the system settings blob in Redis.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"farmequip-backoffice/internal/config"
	"farmequip-backoffice/internal/domain"
	"farmequip-backoffice/internal/logger"
	"farmequip-backoffice/internal/repository"
)

// NewClient creates a Redis client from configuration.
func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

// Ping checks the connection.
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// kv is the part of the Redis client the settings repository uses.
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

type settingsRepository struct {
	client kv
	prefix string
}

// NewSettingsRepository stores settings under prefix + domain.SettingsKey.
func NewSettingsRepository(client kv, prefix string) repository.SettingsRepository {
	return &settingsRepository{client: client, prefix: prefix}
}

func (r *settingsRepository) key() string {
	return r.prefix + domain.SettingsKey
}

func (r *settingsRepository) Load(ctx context.Context) (*domain.Settings, error) {
	logger.ExternalServiceCall("redis", "GET", "key", r.key())
	raw, err := r.client.Get(ctx, r.key()).Result()
	if errors.Is(err, redis.Nil) {
		logger.ExternalServiceResult("redis", "GET", nil, "found", false)
		return nil, fmt.Errorf("settings %q: %w", r.key(), domain.ErrNotFound)
	}
	logger.ExternalServiceResult("redis", "GET", err)
	if err != nil {
		return nil, err
	}

	var s domain.Settings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return &s, nil
}

func (r *settingsRepository) Save(ctx context.Context, settings domain.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	logger.ExternalServiceCall("redis", "SET", "key", r.key())
	err = r.client.Set(ctx, r.key(), raw, 0).Err()
	logger.ExternalServiceResult("redis", "SET", err)
	return err
}
