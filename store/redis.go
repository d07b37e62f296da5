package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/helmsman-run/helmsman/models"
)

// Persistence mirrors desired-state mutations so they survive a restart.
type Persistence interface {
	SaveApplication(ctx context.Context, app models.Application) error
	DeleteApplication(ctx context.Context, name string) error
	LoadApplications(ctx context.Context) ([]models.Application, error)
}

const redisKey = "helmsman:applications"

// RedisPersistence keeps each application spec as a JSON field in a single
// redis hash.
type RedisPersistence struct {
	client *redis.Client
}

// NewRedisPersistence connects to redis at addr and verifies the connection.
func NewRedisPersistence(ctx context.Context, addr string) (*RedisPersistence, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return &RedisPersistence{client: client}, nil
}

func (r *RedisPersistence) SaveApplication(ctx context.Context, app models.Application) error {
	data, err := json.Marshal(app)
	if err != nil {
		return fmt.Errorf("marshal application '%s': %w", app.Name, err)
	}
	return r.client.HSet(ctx, redisKey, app.Name, data).Err()
}

func (r *RedisPersistence) DeleteApplication(ctx context.Context, name string) error {
	return r.client.HDel(ctx, redisKey, name).Err()
}

func (r *RedisPersistence) LoadApplications(ctx context.Context) ([]models.Application, error) {
	entries, err := r.client.HGetAll(ctx, redisKey).Result()
	if err != nil {
		return nil, err
	}

	apps := make([]models.Application, 0, len(entries))
	for name, raw := range entries {
		var app models.Application
		if err := json.Unmarshal([]byte(raw), &app); err != nil {
			return nil, fmt.Errorf("unmarshal persisted application '%s': %w", name, err)
		}
		apps = append(apps, app)
	}
	return apps, nil
}
