package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"news-dashboard/internal/domain"
	"news-dashboard/internal/infra/metrics"
)

type redisList interface {
	LPush(ctx context.Context, key string, values ...any) *redis.IntCmd
	BRPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
}

// RedisEventQueue реализует очередь событий на базе Redis lists.
type RedisEventQueue struct {
	client redisList
	key    string
}

// NewRedisEventQueue создаёт очередь по указанному ключу.
func NewRedisEventQueue(client redisList, key string) *RedisEventQueue {
	return &RedisEventQueue{client: client, key: key}
}

// Publish кладёт событие в очередь.
func (q *RedisEventQueue) Publish(ctx context.Context, event domain.PreferencesChanged) error {
	payload, err := encodeEvent(event)
	if err != nil {
		return err
	}
	start := time.Now()
	err = q.client.LPush(ctx, q.key, payload).Err()
	metrics.ObserveNetworkRequest("redis", "lpush", q.key, start, err)
	if err != nil {
		return fmt.Errorf("push event: %w", err)
	}
	return nil
}

// Pop блокирующе читает событие из очереди.
func (q *RedisEventQueue) Pop(ctx context.Context) (domain.PreferencesChanged, error) {
	for {
		if err := ctx.Err(); err != nil {
			return domain.PreferencesChanged{}, err
		}

		res, err := q.client.BRPop(ctx, time.Second, q.key).Result()
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				if ctx.Err() != nil {
					return domain.PreferencesChanged{}, ctx.Err()
				}
				continue
			}
			if errors.Is(err, redis.Nil) {
				continue
			}
			return domain.PreferencesChanged{}, err
		}
		if len(res) != 2 {
			return domain.PreferencesChanged{}, errors.New("redis queue: unexpected response")
		}
		return decodeEvent([]byte(res[1]))
	}
}

func decodeEvent(raw []byte) (domain.PreferencesChanged, error) {
	var event domain.PreferencesChanged
	if err := json.Unmarshal(raw, &event); err != nil {
		return domain.PreferencesChanged{}, fmt.Errorf("decode event: %w", err)
	}
	return event, nil
}

func encodeEvent(event domain.PreferencesChanged) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return payload, nil
}
