package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "shoepoint:collection:"

// Redis is a Store backend holding each collection as a single JSON value.
type Redis struct {
	client *redis.Client
}

// NewRedis wraps an existing Redis client as a document store.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func redisKey(collection string) string {
	return redisKeyPrefix + collection
}

// Load implements Store.
func (r *Redis) Load(ctx context.Context, collection string, dest any) (bool, error) {
	raw, err := r.client.Get(ctx, redisKey(collection)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: redis get %s: %v", ErrUnavailable, collection, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("%w: decode %s: %v", ErrUnavailable, collection, err)
	}
	return true, nil
}

// Save implements Store.
func (r *Redis) Save(ctx context.Context, collection string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrUnavailable, collection, err)
	}
	if err := r.client.Set(ctx, redisKey(collection), raw, 0).Err(); err != nil {
		return fmt.Errorf("%w: redis set %s: %v", ErrUnavailable, collection, err)
	}
	return nil
}

// Delete implements Store.
func (r *Redis) Delete(ctx context.Context, collection string) error {
	if err := r.client.Del(ctx, redisKey(collection)).Err(); err != nil {
		return fmt.Errorf("%w: redis del %s: %v", ErrUnavailable, collection, err)
	}
	return nil
}
