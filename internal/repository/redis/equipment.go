package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"draytrack-backend/internal/config"
	"draytrack-backend/internal/domain"
)

// EquipmentStatusCache is the Redis-backed equipment status store. The
// upstream feed adapter is eventually consistent, so a plain last-write-wins
// upsert per equipment id is all the ordering this store promises.
type EquipmentStatusCache struct {
	client *redis.Client
}

func NewEquipmentStatusCache(cfg config.RedisConfig) (*EquipmentStatusCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}

	return &EquipmentStatusCache{client: client}, nil
}

func (c *EquipmentStatusCache) Close() error {
	return c.client.Close()
}

func (c *EquipmentStatusCache) GetStatus(ctx context.Context, equipmentID string) (*domain.EquipmentStatus, error) {
	data, err := c.client.Get(ctx, statusKey(equipmentID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrEquipmentNotFound
		}
		return nil, err
	}

	var status domain.EquipmentStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *EquipmentStatusCache) SetStatus(ctx context.Context, status *domain.EquipmentStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}
	// No TTL: the cache is the engine's only view of the fleet and entries
	// stay valid until the feed overwrites them.
	return c.client.Set(ctx, statusKey(status.EquipmentID), data, 0).Err()
}

func statusKey(equipmentID string) string {
	return fmt.Sprintf("equipment:%s", equipmentID)
}
