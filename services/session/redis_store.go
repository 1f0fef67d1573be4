package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"haram/services/reservation"
)

const sessionKeyPrefix = "rothem:session:"

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Save(ctx context.Context, id string, st reservation.State, ttl time.Duration) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal reservation session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKeyPrefix+id, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache reservation session: %w", err)
	}
	return nil
}

func (r *RedisStore) Load(ctx context.Context, id string) (reservation.State, error) {
	data, err := r.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return reservation.State{}, ErrSessionNotFound
	}
	if err != nil {
		return reservation.State{}, fmt.Errorf("get reservation session: %w", err)
	}

	var st reservation.State
	if err := json.Unmarshal(data, &st); err != nil {
		return reservation.State{}, fmt.Errorf("parse reservation session: %w", err)
	}
	return st, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, sessionKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete reservation session: %w", err)
	}
	return nil
}
