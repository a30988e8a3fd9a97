package booking

import (
	"errors"
	"fmt"
	"time"
)

const (
	DefaultCheckInHour        = 14
	DefaultCheckOutHour       = 12
	DefaultTimeZone           = "Europe/Moscow"
	DefaultMaxRentalDays      = 30
	DefaultCancellationWindow = 48 * time.Hour
)

var ErrInvalidPolicy = errors.New("invalid booking policy")

// PolicyConfig holds the rules shared by the add and delete validators.
type PolicyConfig struct {
	CheckInHour        int
	CheckOutHour       int
	Location           *time.Location
	MaxRentalDays      int
	CancellationWindow time.Duration
}

// DefaultPolicy returns the stock hotel policy. When the tz database is
// not available the Moscow offset is used as a fixed zone.
func DefaultPolicy() PolicyConfig {
	loc, err := time.LoadLocation(DefaultTimeZone)
	if err != nil {
		loc = time.FixedZone("MSK", 3*60*60)
	}

	return PolicyConfig{
		CheckInHour:        DefaultCheckInHour,
		CheckOutHour:       DefaultCheckOutHour,
		Location:           loc,
		MaxRentalDays:      DefaultMaxRentalDays,
		CancellationWindow: DefaultCancellationWindow,
	}
}

// Validate reports whether the policy can be used by the validators.
func (p PolicyConfig) Validate() error {
	if p.CheckInHour < 0 || p.CheckInHour > 23 {
		return fmt.Errorf("%w: check-in hour %d out of range", ErrInvalidPolicy, p.CheckInHour)
	}
	if p.CheckOutHour < 0 || p.CheckOutHour > 23 {
		return fmt.Errorf("%w: check-out hour %d out of range", ErrInvalidPolicy, p.CheckOutHour)
	}
	if p.Location == nil {
		return fmt.Errorf("%w: time zone is not set", ErrInvalidPolicy)
	}
	if p.MaxRentalDays <= 0 {
		return fmt.Errorf("%w: max rental days must be positive", ErrInvalidPolicy)
	}
	if p.CancellationWindow < 0 {
		return fmt.Errorf("%w: cancellation window must not be negative", ErrInvalidPolicy)
	}
	return nil
}

// Interval combines the stay dates with the check-in and check-out hours.
func (p PolicyConfig) Interval(checkIn, checkOut Date) Interval {
	return Interval{
		CheckIn:  checkIn.At(p.CheckInHour, p.Location),
		CheckOut: checkOut.At(p.CheckOutHour, p.Location),
	}
}

// LatestCancellation is the cancellation deadline of a stay starting at
// checkIn. A cancellation at or after it is rejected.
func (p PolicyConfig) LatestCancellation(checkIn time.Time) time.Time {
	return checkIn.Add(-p.CancellationWindow)
}
