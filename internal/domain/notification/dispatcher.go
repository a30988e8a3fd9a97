package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/stayhub/stayhub-api/internal/domain/booking"
	"github.com/stayhub/stayhub-api/internal/domain/room"
	"github.com/stayhub/stayhub-api/internal/domain/user"
	"github.com/stayhub/stayhub-api/internal/pkg/email"
)

const (
	popTimeout  = 5 * time.Second
	maxAttempts = 3
	timeLayout  = "2006-01-02 15:04"
)

// ErrRecipientMissing means the job's user no longer exists.
var ErrRecipientMissing = errors.New("notification recipient not found")

// Mailer sends booking emails
type Mailer interface {
	SendBookingConfirmed(ctx context.Context, to string, data email.BookingMail) error
	SendBookingCancelled(ctx context.Context, to string, data email.BookingMail) error
}

// RoomReader resolves room names for jobs that do not carry one
type RoomReader interface {
	GetByID(ctx context.Context, id int64) (*room.Room, error)
}

// Dispatcher turns queued jobs into emails
type Dispatcher struct {
	queue       Queue
	users       user.Repository
	rooms       RoomReader
	mailer      Mailer
	policy      booking.PolicyConfig
	frontendURL string
}

// NewDispatcher creates dispatcher. rooms may be nil.
func NewDispatcher(queue Queue, users user.Repository, rooms RoomReader, mailer Mailer, policy booking.PolicyConfig, frontendURL string) *Dispatcher {
	return &Dispatcher{
		queue:       queue,
		users:       users,
		rooms:       rooms,
		mailer:      mailer,
		policy:      policy,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

// Run processes jobs until ctx is cancelled. Failed jobs are pushed back
// until they reach maxAttempts.
func (d *Dispatcher) Run(ctx context.Context) {
	log.Info().Msg("Notification dispatcher started")

	for {
		job, err := d.queue.Pop(ctx, popTimeout)
		if ctx.Err() != nil {
			log.Info().Msg("Notification dispatcher stopped")
			return
		}
		if err != nil {
			log.Error().Err(err).Msg("Failed to read notification queue")
			time.Sleep(time.Second)
			continue
		}
		if job == nil {
			continue
		}

		d.process(ctx, job)
	}
}

func (d *Dispatcher) process(ctx context.Context, job *Job) {
	err := d.Handle(ctx, job)
	if err == nil {
		log.Info().
			Str("job_id", job.ID.String()).
			Str("type", string(job.Type)).
			Int64("booking_id", job.BookingID).
			Msg("Notification sent")
		return
	}

	job.Attempts++
	event := log.Error().Err(err).
		Str("job_id", job.ID.String()).
		Str("type", string(job.Type)).
		Int64("booking_id", job.BookingID).
		Int("attempts", job.Attempts)

	if errors.Is(err, ErrRecipientMissing) || job.Attempts >= maxAttempts {
		event.Msg("Notification dropped")
		return
	}

	event.Msg("Notification failed, requeued")
	if err := d.queue.Push(ctx, job); err != nil {
		log.Error().Err(err).Str("job_id", job.ID.String()).Msg("Failed to requeue notification")
	}
}

// Handle sends the email of a single job.
func (d *Dispatcher) Handle(ctx context.Context, job *Job) error {
	u, err := d.users.GetByID(ctx, job.UserID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return fmt.Errorf("%w: user %d", ErrRecipientMissing, job.UserID)
	}

	data := d.mailData(ctx, job, u)

	switch job.Type {
	case TypeBookingConfirmed:
		return d.mailer.SendBookingConfirmed(ctx, u.Email, data)
	case TypeBookingCancelled:
		return d.mailer.SendBookingCancelled(ctx, u.Email, data)
	default:
		log.Warn().Str("type", string(job.Type)).Msg("Unknown notification type")
		return nil
	}
}

func (d *Dispatcher) mailData(ctx context.Context, job *Job, u *user.User) email.BookingMail {
	loc := d.policy.Location
	if loc == nil {
		loc = time.UTC
	}

	roomName := job.RoomName
	if roomName == "" && d.rooms != nil {
		if r, err := d.rooms.GetByID(ctx, job.RoomID); err == nil {
			roomName = r.Name
		}
	}
	if roomName == "" {
		roomName = fmt.Sprintf("#%d", job.RoomID)
	}

	data := email.BookingMail{
		GuestName:       u.DisplayName(),
		RoomName:        roomName,
		CheckIn:         job.CheckIn.In(loc).Format(timeLayout),
		CheckOut:        job.CheckOut.In(loc).Format(timeLayout),
		NumberOfPersons: job.NumberOfPersons,
		TotalCost:       job.TotalCost,
		BookingsURL:     d.frontendURL + "/bookings",
	}
	if job.Type == TypeBookingConfirmed {
		data.CancelUntil = d.policy.LatestCancellation(job.CheckIn).In(loc).Format(timeLayout)
	}
	return data
}
