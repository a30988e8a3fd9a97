package booking

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CreateBookingRequest is the booking and quote request body.
// number_of_persons is range checked by ValidateAdd.
type CreateBookingRequest struct {
	RoomID          int64  `json:"room_id" validate:"required,gt=0"`
	DateFrom        string `json:"date_from" validate:"required,datetime=2006-01-02"`
	DateTo          string `json:"date_to" validate:"required,datetime=2006-01-02"`
	NumberOfPersons int    `json:"number_of_persons" validate:"gte=0"`
}

// ToBookingRequest parses the request dates.
func (r *CreateBookingRequest) ToBookingRequest() (BookingRequest, error) {
	from, err := ParseDate(r.DateFrom)
	if err != nil {
		return BookingRequest{}, fmt.Errorf("date_from: %w", err)
	}
	to, err := ParseDate(r.DateTo)
	if err != nil {
		return BookingRequest{}, fmt.Errorf("date_to: %w", err)
	}

	return BookingRequest{
		CheckInDate:     from,
		CheckOutDate:    to,
		RoomID:          r.RoomID,
		NumberOfPersons: r.NumberOfPersons,
	}, nil
}

// BookingResponse represents a stored booking.
type BookingResponse struct {
	ID              int64           `json:"id"`
	RoomID          int64           `json:"room_id"`
	NumberOfPersons int             `json:"number_of_persons"`
	CheckInDate     Date            `json:"date_from"`
	CheckOutDate    Date            `json:"date_to"`
	CheckIn         time.Time       `json:"check_in"`
	CheckOut        time.Time       `json:"check_out"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	CreatedAt       time.Time       `json:"created_at"`
}

// NewBookingResponse renders b with dates in the policy zone.
func NewBookingResponse(b *Booking, loc *time.Location) BookingResponse {
	return BookingResponse{
		ID:              b.ID,
		RoomID:          b.RoomID,
		NumberOfPersons: b.NumberOfPersons,
		CheckInDate:     DateOf(b.CheckIn.In(loc)),
		CheckOutDate:    DateOf(b.CheckOut.In(loc)),
		CheckIn:         b.CheckIn.In(loc),
		CheckOut:        b.CheckOut.In(loc),
		TotalCost:       b.TotalCost,
		CreatedAt:       b.CreatedAt,
	}
}

// QuoteResponse is a priced, validated stay that was not stored.
type QuoteResponse struct {
	RoomID          int64           `json:"room_id"`
	NumberOfPersons int             `json:"number_of_persons"`
	CheckIn         time.Time       `json:"check_in"`
	CheckOut        time.Time       `json:"check_out"`
	Nights          int             `json:"nights"`
	TotalCost       decimal.Decimal `json:"total_cost"`
}

// NewQuoteResponse renders a candidate booking.
func NewQuoteResponse(c *CandidateBooking, nights int) QuoteResponse {
	return QuoteResponse{
		RoomID:          c.RoomID,
		NumberOfPersons: c.NumberOfPersons,
		CheckIn:         c.CheckIn,
		CheckOut:        c.CheckOut,
		Nights:          nights,
		TotalCost:       c.TotalCost,
	}
}
