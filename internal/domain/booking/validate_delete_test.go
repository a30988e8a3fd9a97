package booking

import (
	"errors"
	"testing"
	"time"
)

func TestValidateDelete(t *testing.T) {
	policy := testPolicy(t)
	checkIn := time.Date(2024, time.July, 2, 14, 0, 0, 0, policy.Location)
	owned := &Booking{ID: 3, UserID: 2, RoomID: 1, CheckIn: checkIn, CheckOut: checkIn.Add(46 * time.Hour)}
	deadline := checkIn.Add(-policy.CancellationWindow)

	tests := []struct {
		name    string
		userID  int64
		booking *Booking
		now     time.Time
		wantErr error
	}{
		{name: "missing booking", userID: 2, booking: nil, now: deadline.Add(-time.Hour), wantErr: ErrItemNotExists},
		{name: "other user", userID: 1, booking: owned, now: deadline.Add(-time.Hour), wantErr: ErrItemNotBelongUser},
		{name: "other user past deadline reports ownership", userID: 1, booking: owned, now: deadline.Add(time.Hour), wantErr: ErrItemNotBelongUser},
		{name: "before deadline", userID: 2, booking: owned, now: deadline.Add(-time.Nanosecond), wantErr: nil},
		{name: "exactly at deadline", userID: 2, booking: owned, now: deadline, wantErr: ErrDeletionTimeEnded},
		{name: "long after check-in", userID: 2, booking: owned, now: time.Date(2024, time.August, 1, 12, 0, 0, 0, policy.Location), wantErr: ErrDeletionTimeEnded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDelete(tt.userID, 3, tt.booking, tt.now, policy)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateDeleteErrorContext(t *testing.T) {
	policy := testPolicy(t)
	checkIn := time.Date(2024, time.July, 2, 14, 0, 0, 0, policy.Location)
	b := &Booking{ID: 3, UserID: 2, CheckIn: checkIn}

	var owner *ItemNotBelongUserError
	if !errors.As(ValidateDelete(1, 3, b, checkIn.Add(-72*time.Hour), policy), &owner) {
		t.Fatal("expected ItemNotBelongUserError")
	}
	if owner.UserID != 1 || owner.BookingOwnerID != 2 {
		t.Fatalf("unexpected context %+v", owner)
	}

	var missing *ItemNotExistsError
	if !errors.As(ValidateDelete(1, 99, nil, checkIn, policy), &missing) || missing.BookingID != 99 {
		t.Fatalf("expected ItemNotExistsError for 99, got %+v", missing)
	}

	now := time.Date(2024, time.August, 1, 12, 0, 0, 0, policy.Location)
	var ended *DeletionTimeEndedError
	if !errors.As(ValidateDelete(2, 3, b, now, policy), &ended) {
		t.Fatal("expected DeletionTimeEndedError")
	}
	if !ended.Now.Equal(now) || !ended.LatestCancellation.Equal(checkIn.Add(-48*time.Hour)) {
		t.Fatalf("unexpected context %+v", ended)
	}
}
