package room

import (
	"time"

	"github.com/shopspring/decimal"
)

// Room is a bookable hotel room (matches rooms joined with hotels).
type Room struct {
	ID             int64           `db:"id" json:"id"`
	HotelID        int64           `db:"hotel_id" json:"hotel_id"`
	HotelName      string          `db:"hotel_name" json:"hotel_name"`
	City           string          `db:"city" json:"city"`
	Name           string          `db:"name" json:"name"`
	Description    string          `db:"description" json:"description,omitempty"`
	MaximumPersons int             `db:"maximum_persons" json:"maximum_persons"`
	PricePerNight  decimal.Decimal `db:"price_per_night" json:"price_per_night"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}
