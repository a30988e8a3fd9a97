package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	DefaultKafkaTopic   = "booking-notifications"
	DefaultKafkaGroupID = "stayhub-notifier"
)

// KafkaQueue writes jobs to a topic keyed by booking id. Readers join a
// consumer group and offsets are committed as jobs are read.
type KafkaQueue struct {
	brokers []string
	topic   string
	groupID string
	writer  *kafka.Writer

	mu     sync.Mutex
	reader *kafka.Reader
}

// NewKafkaQueue creates the topic writer. The group reader is created on
// the first Pop.
func NewKafkaQueue(brokers []string, topic, groupID string) (*KafkaQueue, error) {
	if len(brokers) == 0 {
		return nil, errors.New("at least one kafka broker is required")
	}
	if topic == "" {
		topic = DefaultKafkaTopic
	}
	if groupID == "" {
		groupID = DefaultKafkaGroupID
	}

	return &KafkaQueue{
		brokers: brokers,
		topic:   topic,
		groupID: groupID,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			MaxAttempts:  3,
		},
	}, nil
}

func (q *KafkaQueue) Push(ctx context.Context, job *Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	return q.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(job.BookingID, 10)),
		Value: raw,
	})
}

func (q *KafkaQueue) Pop(ctx context.Context, timeout time.Duration) (*Job, error) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	msg, err := q.groupReader().ReadMessage(waitCtx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, nil
		}
		return nil, err
	}

	var job Job
	if err := json.Unmarshal(msg.Value, &job); err != nil {
		return nil, fmt.Errorf("unmarshal job: %w", err)
	}
	return &job, nil
}

func (q *KafkaQueue) groupReader() *kafka.Reader {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.reader == nil {
		q.reader = kafka.NewReader(kafka.ReaderConfig{
			Brokers:  q.brokers,
			Topic:    q.topic,
			GroupID:  q.groupID,
			MinBytes: 1,
			MaxBytes: 1 << 20,
			MaxWait:  time.Second,
		})
	}
	return q.reader
}

// Close flushes the writer and leaves the consumer group.
func (q *KafkaQueue) Close() error {
	err := q.writer.Close()

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.reader != nil {
		if rerr := q.reader.Close(); err == nil {
			err = rerr
		}
	}
	return err
}
