package notification

import (
	"time"

	"github.com/google/uuid"

	"github.com/stayhub/stayhub-api/internal/domain/booking"
)

// Type represents notification type
type Type string

const (
	TypeBookingConfirmed Type = "booking_confirmed" // Guest: booking stored
	TypeBookingCancelled Type = "booking_cancelled" // Guest: booking cancelled
)

// Job is a queued notification. It carries a copy of the booking because
// a cancelled booking no longer exists when the job runs.
type Job struct {
	ID              uuid.UUID `json:"id"`
	Type            Type      `json:"type"`
	UserID          int64     `json:"user_id"`
	BookingID       int64     `json:"booking_id"`
	RoomID          int64     `json:"room_id"`
	RoomName        string    `json:"room_name,omitempty"`
	NumberOfPersons int       `json:"number_of_persons"`
	CheckIn         time.Time `json:"check_in"`
	CheckOut        time.Time `json:"check_out"`
	TotalCost       string    `json:"total_cost"`
	Attempts        int       `json:"attempts"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewBookingJob builds a job for b. room may be nil.
func NewBookingJob(t Type, b *booking.Booking, room *booking.RoomSnapshot) *Job {
	job := &Job{
		ID:              uuid.New(),
		Type:            t,
		UserID:          b.UserID,
		BookingID:       b.ID,
		RoomID:          b.RoomID,
		NumberOfPersons: b.NumberOfPersons,
		CheckIn:         b.CheckIn,
		CheckOut:        b.CheckOut,
		TotalCost:       b.TotalCost.StringFixed(2),
		CreatedAt:       time.Now().UTC(),
	}
	if room != nil {
		job.RoomName = room.Name
	}
	return job
}
