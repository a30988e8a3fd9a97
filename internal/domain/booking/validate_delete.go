package booking

import "time"

// ValidateDelete checks that userID may cancel the booking at now.
// booking is nil when the id was not found. Cancellation is rejected
// once now reaches CheckIn minus the cancellation window.
func ValidateDelete(userID, bookingID int64, booking *Booking, now time.Time, policy PolicyConfig) error {
	if booking == nil {
		return &ItemNotExistsError{BookingID: bookingID}
	}

	if booking.UserID != userID {
		return &ItemNotBelongUserError{UserID: userID, BookingOwnerID: booking.UserID}
	}

	latest := policy.LatestCancellation(booking.CheckIn)
	if !now.Before(latest) {
		return &DeletionTimeEndedError{Now: now, LatestCancellation: latest}
	}

	return nil
}
