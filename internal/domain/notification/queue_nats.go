package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	DefaultNATSSubject = "notifications.booking"
	natsQueueGroup     = "stayhub-notifier"
)

// NATSQueue publishes jobs on a subject. Consumers share a queue group so
// each job is delivered to one notifier. Core NATS does not persist
// messages published while no notifier is subscribed.
type NATSQueue struct {
	conn    *nats.Conn
	subject string

	mu  sync.Mutex
	sub *nats.Subscription
}

// NewNATSQueue connects to url. The subscription is created on the first Pop
// so publish-only processes never take jobs.
func NewNATSQueue(url, subject string) (*NATSQueue, error) {
	if subject == "" {
		subject = DefaultNATSSubject
	}
	conn, err := nats.Connect(url, nats.Name("stayhub"))
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return &NATSQueue{conn: conn, subject: subject}, nil
}

func (q *NATSQueue) Push(_ context.Context, job *Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	return q.conn.Publish(q.subject, raw)
}

func (q *NATSQueue) Pop(ctx context.Context, timeout time.Duration) (*Job, error) {
	sub, err := q.subscription()
	if err != nil {
		return nil, err
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	msg, err := sub.NextMsgWithContext(waitCtx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, nats.ErrTimeout) {
			return nil, nil
		}
		return nil, err
	}

	var job Job
	if err := json.Unmarshal(msg.Data, &job); err != nil {
		return nil, fmt.Errorf("unmarshal job: %w", err)
	}
	return &job, nil
}

func (q *NATSQueue) subscription() (*nats.Subscription, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.sub != nil {
		return q.sub, nil
	}
	sub, err := q.conn.QueueSubscribeSync(q.subject, natsQueueGroup)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", q.subject, err)
	}
	q.sub = sub
	return sub, nil
}

// Close drains the subscription and closes the connection.
func (q *NATSQueue) Close() error {
	if err := q.conn.Drain(); err != nil {
		q.conn.Close()
		return err
	}
	return nil
}
