package notification

import (
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const defaultMemoryQueueSize = 256

// Backend names reported by OpenQueue
const (
	BackendKafka  = "kafka"
	BackendNATS   = "nats"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// QueueConfig configures the notification transport. The first configured
// backend wins in the order Kafka, NATS, Redis, memory.
type QueueConfig struct {
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string
	NATSURL      string
	NATSSubject  string
	RedisKey     string
	MemorySize   int
}

// OpenedQueue is a queue plus the backend that serves it.
type OpenedQueue struct {
	Queue
	Backend string
	closer  func() error
}

// Shared reports whether a separate notifier process can consume the queue.
func (q *OpenedQueue) Shared() bool {
	return q.Backend != BackendMemory
}

// Close releases broker connections. Redis clients are owned by the caller.
func (q *OpenedQueue) Close() error {
	if q.closer == nil {
		return nil
	}
	return q.closer()
}

// OpenQueue builds the configured transport. client may be nil.
func OpenQueue(cfg QueueConfig, client *redis.Client) (*OpenedQueue, error) {
	switch {
	case len(cfg.KafkaBrokers) > 0:
		q, err := NewKafkaQueue(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID)
		if err != nil {
			return nil, err
		}
		return &OpenedQueue{Queue: q, Backend: BackendKafka, closer: q.Close}, nil
	case cfg.NATSURL != "":
		q, err := NewNATSQueue(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			return nil, err
		}
		return &OpenedQueue{Queue: q, Backend: BackendNATS, closer: q.Close}, nil
	case client != nil:
		return &OpenedQueue{Queue: NewRedisQueue(client, cfg.RedisKey), Backend: BackendRedis}, nil
	}

	size := cfg.MemorySize
	if size <= 0 {
		size = defaultMemoryQueueSize
	}
	log.Warn().Msg("No broker configured, booking notifications are queued in memory")
	return &OpenedQueue{Queue: NewMemoryQueue(size), Backend: BackendMemory}, nil
}
