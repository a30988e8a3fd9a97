package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingRequest is a requested stay.
type BookingRequest struct {
	CheckInDate     Date
	CheckOutDate    Date
	RoomID          int64
	NumberOfPersons int
}

// RoomSnapshot holds the room attributes the booking rules depend on.
type RoomSnapshot struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	MaximumPersons int             `json:"maximum_persons"`
	PricePerNight  decimal.Decimal `json:"price_per_night"`
}

// CandidateBooking is a validated reservation that has not been stored yet.
type CandidateBooking struct {
	UserID          int64
	RoomID          int64
	NumberOfPersons int
	CheckIn         time.Time
	CheckOut        time.Time
	TotalCost       decimal.Decimal
}

// Interval returns the candidate's stay interval.
func (c *CandidateBooking) Interval() Interval {
	return Interval{CheckIn: c.CheckIn, CheckOut: c.CheckOut}
}

// OverlapQuery returns the repository search for bookings that may
// conflict with the candidate.
func (c *CandidateBooking) OverlapQuery() OverlapQuery {
	return OverlapQuery{RoomID: c.RoomID, From: c.CheckIn, To: c.CheckOut}
}

// Booking is a stored reservation (matches bookings table).
type Booking struct {
	ID              int64           `db:"id" json:"id"`
	UserID          int64           `db:"user_id" json:"user_id"`
	RoomID          int64           `db:"room_id" json:"room_id"`
	NumberOfPersons int             `db:"number_of_persons" json:"number_of_persons"`
	CheckIn         time.Time       `db:"check_in" json:"check_in"`
	CheckOut        time.Time       `db:"check_out" json:"check_out"`
	TotalCost       decimal.Decimal `db:"total_cost" json:"total_cost"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// Interval returns the booking's stay interval.
func (b *Booking) Interval() Interval {
	return Interval{CheckIn: b.CheckIn, CheckOut: b.CheckOut}
}

// Pagination controls list pagination.
type Pagination struct {
	Page  int
	Limit int
}

// Offset returns the row offset for the page.
func (p Pagination) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}
