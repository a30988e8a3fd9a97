package booking

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// ValidateAdd checks a requested stay against the room and policy and
// computes the reservation to store. Rules are checked in a fixed order
// and the first violation is returned:
//
//  1. check-out date after check-in date
//  2. stay no longer than MaxRentalDays
//  3. at least one person
//  4. no more persons than the room holds
func ValidateAdd(userID int64, req BookingRequest, room RoomSnapshot, policy PolicyConfig) (*CandidateBooking, error) {
	if req.RoomID != room.ID {
		return nil, fmt.Errorf("%w: requested %d, got %d", ErrRoomMismatch, req.RoomID, room.ID)
	}

	if !req.CheckOutDate.After(req.CheckInDate) {
		return nil, &RentalPeriodError{
			Reason:        RentalPeriodInverted,
			CheckInDate:   req.CheckInDate,
			CheckOutDate:  req.CheckOutDate,
			MaxRentalDays: policy.MaxRentalDays,
		}
	}

	days := req.CheckInDate.DaysUntil(req.CheckOutDate)
	if days > policy.MaxRentalDays {
		return nil, &RentalPeriodError{
			Reason:        RentalPeriodTooLong,
			CheckInDate:   req.CheckInDate,
			CheckOutDate:  req.CheckOutDate,
			MaxRentalDays: policy.MaxRentalDays,
		}
	}

	if req.NumberOfPersons < 1 {
		return nil, &RoomCapacityError{
			Reason:          CapacityNonPositive,
			RoomID:          room.ID,
			RoomName:        room.Name,
			MaximumPersons:  room.MaximumPersons,
			NumberOfPersons: req.NumberOfPersons,
		}
	}

	if req.NumberOfPersons > room.MaximumPersons {
		return nil, &RoomCapacityError{
			Reason:          CapacityExceeded,
			RoomID:          room.ID,
			RoomName:        room.Name,
			MaximumPersons:  room.MaximumPersons,
			NumberOfPersons: req.NumberOfPersons,
		}
	}

	interval := policy.Interval(req.CheckInDate, req.CheckOutDate)

	return &CandidateBooking{
		UserID:          userID,
		RoomID:          room.ID,
		NumberOfPersons: req.NumberOfPersons,
		CheckIn:         interval.CheckIn,
		CheckOut:        interval.CheckOut,
		TotalCost:       room.PricePerNight.Mul(decimal.NewFromInt(int64(days))),
	}, nil
}

// CheckAvailability fails with RoomAlreadyBookedError listing every
// overlapping booking, sorted by check-in date. Dates are reported in the
// candidate's time zone.
func CheckAvailability(candidate *CandidateBooking, overlapping []Booking) error {
	if len(overlapping) == 0 {
		return nil
	}

	loc := candidate.CheckIn.Location()

	sorted := make([]Booking, len(overlapping))
	copy(sorted, overlapping)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CheckIn.Equal(sorted[j].CheckIn) {
			return sorted[i].CheckIn.Before(sorted[j].CheckIn)
		}
		return sorted[i].CheckOut.Before(sorted[j].CheckOut)
	})

	conflicts := make([]DateRange, 0, len(sorted))
	for _, b := range sorted {
		conflicts = append(conflicts, DateRange{
			CheckInDate:  DateOf(b.CheckIn.In(loc)),
			CheckOutDate: DateOf(b.CheckOut.In(loc)),
		})
	}

	return &RoomAlreadyBookedError{
		RoomID:    candidate.RoomID,
		Conflicts: conflicts,
	}
}
