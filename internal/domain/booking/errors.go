package booking

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

var (
	ErrRentalPeriod      = errors.New("invalid rental period")
	ErrRoomCapacity      = errors.New("invalid number of persons for the room")
	ErrRoomAlreadyBooked = errors.New("room is already booked for the requested dates")
	ErrItemNotExists     = errors.New("booking does not exist")
	ErrItemNotBelongUser = errors.New("booking belongs to another user")
	ErrDeletionTimeEnded = errors.New("booking can no longer be cancelled")

	ErrRoomNotFound = errors.New("room not found")
	ErrRoomMismatch = errors.New("room snapshot does not match the requested room")

	// Storage level failures, mapped by the service.
	ErrOverlapConstraint = errors.New("booking violates room interval constraint")
	ErrSerialization     = errors.New("booking transaction could not be serialized")
)

// Kind identifies a booking domain error.
type Kind string

const (
	KindRentalPeriod      Kind = "rental_period"
	KindRoomCapacity      Kind = "room_capacity"
	KindRoomAlreadyBooked Kind = "room_already_booked"
	KindItemNotExists     Kind = "item_not_exists"
	KindItemNotBelongUser Kind = "item_not_belong_user"
	KindDeletionTimeEnded Kind = "deletion_time_ended"
)

// DomainError is implemented by every booking rule violation.
type DomainError interface {
	error
	Kind() Kind
	Details() map[string]string
}

// AsDomainError unwraps err to a booking rule violation.
func AsDomainError(err error) (DomainError, bool) {
	var de DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

type RentalPeriodReason string

const (
	RentalPeriodInverted RentalPeriodReason = "inverted"
	RentalPeriodTooLong  RentalPeriodReason = "too-long"
)

type RentalPeriodError struct {
	Reason        RentalPeriodReason
	CheckInDate   Date
	CheckOutDate  Date
	MaxRentalDays int
}

func (e *RentalPeriodError) Error() string {
	if e.Reason == RentalPeriodTooLong {
		return fmt.Sprintf("rental period %s..%s exceeds %d days", e.CheckInDate, e.CheckOutDate, e.MaxRentalDays)
	}
	return fmt.Sprintf("check-out date %s must be after check-in date %s", e.CheckOutDate, e.CheckInDate)
}

func (e *RentalPeriodError) Is(target error) bool { return target == ErrRentalPeriod }

func (e *RentalPeriodError) Kind() Kind { return KindRentalPeriod }

func (e *RentalPeriodError) Details() map[string]string {
	d := map[string]string{
		"reason":         string(e.Reason),
		"check_in_date":  e.CheckInDate.String(),
		"check_out_date": e.CheckOutDate.String(),
	}
	if e.Reason == RentalPeriodTooLong {
		d["max_rental_days"] = strconv.Itoa(e.MaxRentalDays)
	}
	return d
}

type CapacityReason string

const (
	CapacityNonPositive CapacityReason = "non-positive"
	CapacityExceeded    CapacityReason = "exceeds-capacity"
)

type RoomCapacityError struct {
	Reason          CapacityReason
	RoomID          int64
	RoomName        string
	MaximumPersons  int
	NumberOfPersons int
}

func (e *RoomCapacityError) Error() string {
	if e.Reason == CapacityNonPositive {
		return fmt.Sprintf("number of persons must be at least 1, got %d", e.NumberOfPersons)
	}
	return fmt.Sprintf("room %q holds at most %d persons, requested %d", e.RoomName, e.MaximumPersons, e.NumberOfPersons)
}

func (e *RoomCapacityError) Is(target error) bool { return target == ErrRoomCapacity }

func (e *RoomCapacityError) Kind() Kind { return KindRoomCapacity }

func (e *RoomCapacityError) Details() map[string]string {
	return map[string]string{
		"reason":            string(e.Reason),
		"room_id":           strconv.FormatInt(e.RoomID, 10),
		"room_name":         e.RoomName,
		"maximum_persons":   strconv.Itoa(e.MaximumPersons),
		"number_of_persons": strconv.Itoa(e.NumberOfPersons),
	}
}

// DateRange is a stay reported back to the client.
type DateRange struct {
	CheckInDate  Date `json:"check_in_date"`
	CheckOutDate Date `json:"check_out_date"`
}

type RoomAlreadyBookedError struct {
	RoomID    int64
	Conflicts []DateRange
}

func (e *RoomAlreadyBookedError) Error() string {
	return fmt.Sprintf("room %d is already booked: %d conflicting bookings", e.RoomID, len(e.Conflicts))
}

func (e *RoomAlreadyBookedError) Is(target error) bool { return target == ErrRoomAlreadyBooked }

func (e *RoomAlreadyBookedError) Kind() Kind { return KindRoomAlreadyBooked }

func (e *RoomAlreadyBookedError) Details() map[string]string {
	return map[string]string{
		"room_id":   strconv.FormatInt(e.RoomID, 10),
		"conflicts": strconv.Itoa(len(e.Conflicts)),
	}
}

type ItemNotExistsError struct {
	BookingID int64
}

func (e *ItemNotExistsError) Error() string {
	return fmt.Sprintf("booking %d does not exist", e.BookingID)
}

func (e *ItemNotExistsError) Is(target error) bool { return target == ErrItemNotExists }

func (e *ItemNotExistsError) Kind() Kind { return KindItemNotExists }

func (e *ItemNotExistsError) Details() map[string]string {
	return map[string]string{"booking_id": strconv.FormatInt(e.BookingID, 10)}
}

type ItemNotBelongUserError struct {
	UserID         int64
	BookingOwnerID int64
}

func (e *ItemNotBelongUserError) Error() string {
	return fmt.Sprintf("booking belongs to user %d, not %d", e.BookingOwnerID, e.UserID)
}

func (e *ItemNotBelongUserError) Is(target error) bool { return target == ErrItemNotBelongUser }

func (e *ItemNotBelongUserError) Kind() Kind { return KindItemNotBelongUser }

func (e *ItemNotBelongUserError) Details() map[string]string {
	return map[string]string{
		"user_id":          strconv.FormatInt(e.UserID, 10),
		"booking_owner_id": strconv.FormatInt(e.BookingOwnerID, 10),
	}
}

type DeletionTimeEndedError struct {
	Now                time.Time
	LatestCancellation time.Time
}

func (e *DeletionTimeEndedError) Error() string {
	return fmt.Sprintf("cancellation was possible until %s, now %s",
		e.LatestCancellation.Format(time.RFC3339), e.Now.Format(time.RFC3339))
}

func (e *DeletionTimeEndedError) Is(target error) bool { return target == ErrDeletionTimeEnded }

func (e *DeletionTimeEndedError) Kind() Kind { return KindDeletionTimeEnded }

func (e *DeletionTimeEndedError) Details() map[string]string {
	return map[string]string{
		"now":                 e.Now.Format(time.RFC3339),
		"latest_cancellation": e.LatestCancellation.Format(time.RFC3339),
	}
}
