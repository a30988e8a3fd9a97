package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultQueueKey is the Redis list holding pending jobs.
const DefaultQueueKey = "notifications:booking"

var ErrQueueFull = errors.New("notification queue is full")

// Queue is a FIFO of notification jobs.
type Queue interface {
	Push(ctx context.Context, job *Job) error
	// Pop waits up to timeout for a job. It returns nil, nil on timeout.
	Pop(ctx context.Context, timeout time.Duration) (*Job, error)
}

type redisQueue struct {
	redis *redis.Client
	key   string
}

// NewRedisQueue creates a queue on a Redis list shared by the API and
// the notifier worker.
func NewRedisQueue(client *redis.Client, key string) Queue {
	if key == "" {
		key = DefaultQueueKey
	}
	return &redisQueue{redis: client, key: key}
}

func (q *redisQueue) Push(ctx context.Context, job *Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	return q.redis.LPush(ctx, q.key, raw).Err()
}

func (q *redisQueue) Pop(ctx context.Context, timeout time.Duration) (*Job, error) {
	res, err := q.redis.BRPop(ctx, timeout, q.key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(res) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply of %d items", len(res))
	}

	var job Job
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return nil, fmt.Errorf("unmarshal job: %w", err)
	}
	return &job, nil
}

type memoryQueue struct {
	jobs chan *Job
}

// NewMemoryQueue creates an in-process queue used when Redis is not configured.
func NewMemoryQueue(size int) Queue {
	return &memoryQueue{jobs: make(chan *Job, size)}
}

func (q *memoryQueue) Push(_ context.Context, job *Job) error {
	select {
	case q.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *memoryQueue) Pop(ctx context.Context, timeout time.Duration) (*Job, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case job := <-q.jobs:
		return job, nil
	case <-timer.C:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
