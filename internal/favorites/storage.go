package favorites

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

// Storage persists a favorite-id snapshot as an ordered list. Both calls are
// best-effort from the caller's point of view: the set degrades to
// session-only membership when they fail.
type Storage interface {
	Get(ctx context.Context) ([]string, error)
	Set(ctx context.Context, ids []string) error
}

const favKeyPrefix = "fav:"

// RedisStorage keeps one JSON-encoded id list per session.
type RedisStorage struct {
	client *redis.Client
	key    string
}

func NewRedisStorage(client *redis.Client, sessionID string) *RedisStorage {
	return &RedisStorage{client: client, key: favKeyPrefix + sessionID}
}

func (s *RedisStorage) Get(ctx context.Context) ([]string, error) {
	val, err := s.client.Get(ctx, s.key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "redis GET failed")
	}
	var ids []string
	if err := json.Unmarshal([]byte(val), &ids); err != nil {
		return nil, errors.Wrap(err, "failed to parse favorites data")
	}
	return ids, nil
}

func (s *RedisStorage) Set(ctx context.Context, ids []string) error {
	bin, err := json.Marshal(ids)
	if err != nil {
		return errors.Wrap(err, "failed to serialize favorites data")
	}
	if err := s.client.Set(ctx, s.key, bin, 0).Err(); err != nil {
		return errors.Wrap(err, "redis SET failed")
	}
	return nil
}
