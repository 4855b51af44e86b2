package policy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"izakaya-order/internal/models"
)

// RedisStore shares policy state between every instance through Redis.
// Keys: <namespace>:policy:table_modes (hash) and <namespace>:policy:food_accepted.
type RedisStore struct {
	client    *redis.Client
	namespace string
}

// NewRedisStore connects to Redis and verifies the connection with a ping
func NewRedisStore(ctx context.Context, addr string, db int, namespace string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return NewRedisStoreWithClient(client, namespace), nil
}

func NewRedisStoreWithClient(client *redis.Client, namespace string) *RedisStore {
	return &RedisStore{client: client, namespace: namespace}
}

func (r *RedisStore) modesKey() string {
	return r.namespace + ":policy:table_modes"
}

func (r *RedisStore) foodKey() string {
	return r.namespace + ":policy:food_accepted"
}

func (r *RedisStore) TableMode(ctx context.Context, tableID string) (models.TableMode, bool, error) {
	val, err := r.client.HGet(ctx, r.modesKey(), tableID).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return models.TableMode(val), true, nil
}

func (r *RedisStore) SetTableMode(ctx context.Context, tableID string, mode models.TableMode) error {
	return r.client.HSet(ctx, r.modesKey(), tableID, string(mode)).Err()
}

func (r *RedisStore) FoodAccepted(ctx context.Context) (bool, bool, error) {
	val, err := r.client.Get(ctx, r.foodKey()).Result()
	if errors.Is(err, redis.Nil) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return val == "1", true, nil
}

func (r *RedisStore) SetFoodAccepted(ctx context.Context, enabled bool) error {
	val := "0"
	if enabled {
		val = "1"
	}
	return r.client.Set(ctx, r.foodKey(), val, 0).Err()
}

// Ping checks the Redis connection
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
