package history

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/samber/lo"

	"github.com/interera-ai/backend/internal/log"
)

type RedisStore struct {
	client *redis.Client
	limit  int
	ttl    time.Duration
}

func NewRedisStore(i *do.Injector) (*RedisStore, error) {
	client := do.MustInvoke[*redis.Client](i)
	limit := do.MustInvokeNamed[int](i, "history_limit")
	ttl := do.MustInvokeNamed[time.Duration](i, "history_ttl")
	return &RedisStore{client, limit, ttl}, nil
}

func (s *RedisStore) key(sessionID string) string { return "history:" + sessionID }

func (s *RedisStore) Append(ctx context.Context, sessionID string, img []byte) error {
	log.FromContextOrDiscard(ctx).Debug("appending to redis history", "session", sessionID)

	key := s.key(sessionID)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, img)
	pipe.LTrim(ctx, key, int64(-s.limit), -1)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) ([][]byte, error) {
	vals, err := s.client.LRange(ctx, s.key(sessionID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, nil
	}
	return lo.Map(vals, func(v string, _ int) []byte { return []byte(v) }), nil
}
