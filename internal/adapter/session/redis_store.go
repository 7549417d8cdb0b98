package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"user-admin/pkg/logger"
)

const defaultMaxAttempts = 10

// RedisStore keeps JSON-encoded state in Redis. Update runs as a WATCH/MULTI
// transaction and retries when another writer touched the key first.
type RedisStore[T any] struct {
	client      *redis.Client
	prefix      string
	ttl         time.Duration
	maxAttempts int
	log         *zap.Logger
}

// NewRedisStore creates a new Redis-backed store whose keys start with prefix.
func NewRedisStore[T any](client *redis.Client, prefix string, ttl time.Duration, log *zap.Logger) *RedisStore[T] {
	return &RedisStore[T]{
		client:      client,
		prefix:      prefix,
		ttl:         ttl,
		maxAttempts: defaultMaxAttempts,
		log:         log,
	}
}

// key generates a Redis key for a session ID.
func (s *RedisStore[T]) key(sessionID string) string {
	return fmt.Sprintf("%s:%s", s.prefix, sessionID)
}

// Get retrieves the state for sessionID.
func (s *RedisStore[T]) Get(ctx context.Context, sessionID string) (T, error) {
	value, found, err := s.read(ctx, s.client, s.key(sessionID))
	if err != nil {
		return value, err
	}
	if !found {
		return value, ErrNotFound
	}
	return value, nil
}

// Update applies fn to the current state inside an optimistic transaction.
func (s *RedisStore[T]) Update(ctx context.Context, sessionID string, fn UpdateFunc[T]) (T, error) {
	key := s.key(sessionID)
	var next T

	txf := func(tx *redis.Tx) error {
		current, found, err := s.read(ctx, tx, key)
		if err != nil {
			return err
		}

		updated, err := fn(current, found)
		if err != nil {
			return err
		}

		data, err := json.Marshal(updated)
		if err != nil {
			return fmt.Errorf("failed to marshal session state: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		if err == nil {
			next = updated
		}
		return err
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return next, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			logger.WithContext(ctx, s.log).Debug("session state changed during update, retrying",
				zap.String("key", key),
				zap.Int("attempt", attempt),
			)
			continue
		}
		var zero T
		return zero, err
	}

	logger.WithContext(ctx, s.log).Warn("session state update gave up", zap.String("key", key))
	var zero T
	return zero, ErrConflict
}

// Delete removes the state for sessionID.
func (s *RedisStore[T]) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		s.log.Error("failed to delete session state", zap.String("session_id", sessionID), zap.Error(err))
		return err
	}
	return nil
}

func (s *RedisStore[T]) read(ctx context.Context, c redis.StringCmdable, key string) (T, bool, error) {
	var value T

	data, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return value, false, nil
	}
	if err != nil {
		return value, false, fmt.Errorf("failed to read session state: %w", err)
	}

	if err := json.Unmarshal(data, &value); err != nil {
		return value, false, fmt.Errorf("failed to unmarshal session state: %w", err)
	}
	return value, true, nil
}
