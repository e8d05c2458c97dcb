package queue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	statsPendingKey    = "stats:pending"
	statsProcessingKey = "stats:processing"
	statsCompletedKey  = "stats:completed"
	statsFailedKey     = "stats:failed"
	workerStatusKey    = "worker:status"
)

// RedisQueue backs each queue with a Redis list (RPUSH/BLPOP) and keeps the
// state counters in Redis hashes keyed by queue name. The counter updates are
// deliberately not atomic with the list operations.
type RedisQueue struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisQueue(client *redis.Client, log *zap.Logger) *RedisQueue {
	return &RedisQueue{
		client: client,
		log:    log.Named("queue"),
	}
}

func (r *RedisQueue) Enqueue(ctx context.Context, q Name, payload []byte) error {
	if err := r.client.RPush(ctx, string(q), payload).Err(); err != nil {
		return fmt.Errorf("enqueue %s: %w", q, err)
	}
	if err := r.client.HIncrBy(ctx, statsPendingKey, string(q), 1).Err(); err != nil {
		r.log.Warn("failed to bump pending counter", zap.String("queue", string(q)), zap.Error(err))
	}
	return nil
}

func (r *RedisQueue) DequeueBlocking(ctx context.Context, q Name, timeout time.Duration) ([]byte, bool, error) {
	res, err := r.client.BLPop(ctx, timeout, string(q)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("dequeue %s: %w", q, err)
	}
	// BLPOP returns [key, value].
	if len(res) < 2 {
		return nil, false, nil
	}

	if err := r.client.HIncrBy(ctx, statsPendingKey, string(q), -1).Err(); err != nil {
		r.log.Warn("failed to drop pending counter", zap.String("queue", string(q)), zap.Error(err))
	}
	if err := r.client.HIncrBy(ctx, statsProcessingKey, string(q), 1).Err(); err != nil {
		r.log.Warn("failed to bump processing counter", zap.String("queue", string(q)), zap.Error(err))
	}

	return []byte(res[1]), true, nil
}

func (r *RedisQueue) MarkCompleted(ctx context.Context, q Name) error {
	if err := r.client.HIncrBy(ctx, statsProcessingKey, string(q), -1).Err(); err != nil {
		return err
	}
	return r.client.HIncrBy(ctx, statsCompletedKey, string(q), 1).Err()
}

func (r *RedisQueue) MarkFailed(ctx context.Context, q Name) error {
	if err := r.client.HIncrBy(ctx, statsProcessingKey, string(q), -1).Err(); err != nil {
		return err
	}
	return r.client.HIncrBy(ctx, statsFailedKey, string(q), 1).Err()
}

func (r *RedisQueue) Stats(ctx context.Context) (Stats, error) {
	var stats Stats

	sum := func(hashKey string) (int64, error) {
		var total int64
		for _, q := range Names {
			raw, err := r.client.HGet(ctx, hashKey, string(q)).Result()
			if errors.Is(err, redis.Nil) {
				continue
			}
			if err != nil {
				return 0, err
			}
			value, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				continue
			}
			total += value
		}
		return total, nil
	}

	var err error
	if stats.Pending, err = sum(statsPendingKey); err != nil {
		return Stats{}, err
	}
	if stats.Processing, err = sum(statsProcessingKey); err != nil {
		return Stats{}, err
	}
	if stats.Completed, err = sum(statsCompletedKey); err != nil {
		return Stats{}, err
	}
	if stats.Failed, err = sum(statsFailedKey); err != nil {
		return Stats{}, err
	}

	status, err := r.client.Get(ctx, workerStatusKey).Result()
	if errors.Is(err, redis.Nil) {
		status = WorkerStatusStopped
	} else if err != nil {
		return Stats{}, err
	}
	stats.WorkerStatus = status

	return stats, nil
}

func (r *RedisQueue) SetWorkerStatus(ctx context.Context, status string) error {
	return r.client.Set(ctx, workerStatusKey, status, 0).Err()
}
