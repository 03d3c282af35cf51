package cart

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	cartKeyPrefix = "cart:"
	cartField     = "cart"

	initAttempts = 10
	maxBackoff   = 30 * time.Second
)

// RedisStore keeps carts in Redis, one hash per session with the quantity
// map serialized whole into a single field. Mutations are read-modify-write;
// the last write wins, matching the in-memory semantics closely enough for
// a per-session cart.
type RedisStore struct {
	client *redis.Client
	log    logrus.FieldLogger
}

// NewRedisStore accepts either a redis:// URL or a plain "host:port" address.
func NewRedisStore(addr string, log logrus.FieldLogger) *RedisStore {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{
			Addr:         addr,
			MinIdleConns: 1,
			DialTimeout:  30 * time.Second,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			PoolSize:     10,
		}
	}
	return &RedisStore{client: redis.NewClient(opts), log: log}
}

// Client exposes the underlying connection so other state (favorites) can
// share it.
func (s *RedisStore) Client() *redis.Client { return s.client }

// Initialize pings Redis until it answers, with exponential backoff.
func (s *RedisStore) Initialize(ctx context.Context) error {
	for i := 0; i < initAttempts; i++ {
		if s.Ping(ctx) {
			s.log.Info("connected to redis")
			return nil
		}
		backoff := time.Duration(1<<uint(i)) * time.Second
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
		s.log.WithField("backoff", backoff).Warn("redis not reachable, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return errors.Errorf("failed to connect to redis after %d attempts", initAttempts)
}

func (s *RedisStore) AddItem(ctx context.Context, sessionID, productID string, max int32) error {
	return s.mutate(ctx, sessionID, func(m QuantityMap) {
		m.Add(productID, max)
	})
}

func (s *RedisStore) IncreaseItem(ctx context.Context, sessionID, productID string, max int32) error {
	return s.mutate(ctx, sessionID, func(m QuantityMap) {
		m.Increase(productID, max)
	})
}

func (s *RedisStore) DecreaseItem(ctx context.Context, sessionID, productID string) error {
	return s.mutate(ctx, sessionID, func(m QuantityMap) {
		m.Decrease(productID)
	})
}

func (s *RedisStore) EmptyCart(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, cartKeyPrefix+sessionID).Err(); err != nil {
		return errors.Wrap(err, "redis DEL failed")
	}
	return nil
}

func (s *RedisStore) GetCart(ctx context.Context, sessionID string) (QuantityMap, error) {
	return s.load(ctx, sessionID)
}

func (s *RedisStore) Ping(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.client.Ping(pingCtx).Err() == nil
}

func (s *RedisStore) load(ctx context.Context, sessionID string) (QuantityMap, error) {
	val, err := s.client.HGet(ctx, cartKeyPrefix+sessionID, cartField).Result()
	if err == redis.Nil {
		return QuantityMap{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "redis HGET failed")
	}
	var m QuantityMap
	if err := json.Unmarshal([]byte(val), &m); err != nil {
		return nil, errors.Wrap(err, "failed to parse cart data")
	}
	return m, nil
}

func (s *RedisStore) mutate(ctx context.Context, sessionID string, fn func(QuantityMap)) error {
	m, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	fn(m)
	bin, err := json.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "failed to serialize cart data")
	}
	if err := s.client.HSet(ctx, cartKeyPrefix+sessionID, cartField, bin).Err(); err != nil {
		return errors.Wrap(err, "redis HSET failed")
	}
	return nil
}
