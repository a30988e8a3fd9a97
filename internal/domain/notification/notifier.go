package notification

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/stayhub/stayhub-api/internal/domain/booking"
)

const pushTimeout = 2 * time.Second

// BookingNotifier enqueues guest emails for booking events.
type BookingNotifier struct {
	queue Queue
}

// NewBookingNotifier creates notifier
func NewBookingNotifier(queue Queue) *BookingNotifier {
	return &BookingNotifier{queue: queue}
}

func (n *BookingNotifier) BookingCreated(ctx context.Context, b *booking.Booking, room *booking.RoomSnapshot) {
	n.push(ctx, NewBookingJob(TypeBookingConfirmed, b, room))
}

func (n *BookingNotifier) BookingCancelled(ctx context.Context, b *booking.Booking) {
	n.push(ctx, NewBookingJob(TypeBookingCancelled, b, nil))
}

// push is detached from request cancellation.
func (n *BookingNotifier) push(ctx context.Context, job *Job) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pushTimeout)
	defer cancel()

	if err := n.queue.Push(ctx, job); err != nil {
		log.Error().Err(err).
			Str("type", string(job.Type)).
			Int64("booking_id", job.BookingID).
			Msg("Failed to enqueue notification")
	}
}
