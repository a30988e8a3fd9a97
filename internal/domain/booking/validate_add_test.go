package booking

import (
	"encoding/json"
	"errors"
	"testing"
	"testing/quick"
	"time"

	"github.com/shopspring/decimal"
)

func testPolicy(t *testing.T) PolicyConfig {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		loc = time.FixedZone("MSK", 3*60*60)
	}
	return PolicyConfig{
		CheckInHour:        14,
		CheckOutHour:       12,
		Location:           loc,
		MaxRentalDays:      30,
		CancellationWindow: 48 * time.Hour,
	}
}

func testRoom() RoomSnapshot {
	return RoomSnapshot{ID: 1, Name: "Standard", MaximumPersons: 2, PricePerNight: decimal.NewFromInt(5000)}
}

func date(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestValidateAddComputesCandidate(t *testing.T) {
	policy := testPolicy(t)
	req := BookingRequest{CheckInDate: date("2024-07-29"), CheckOutDate: date("2024-08-10"), RoomID: 1, NumberOfPersons: 1}

	c, err := ValidateAdd(10, req, testRoom(), policy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantIn := time.Date(2024, time.July, 29, 14, 0, 0, 0, policy.Location)
	wantOut := time.Date(2024, time.August, 10, 12, 0, 0, 0, policy.Location)
	if !c.CheckIn.Equal(wantIn) || !c.CheckOut.Equal(wantOut) {
		t.Fatalf("unexpected interval %s - %s", c.CheckIn, c.CheckOut)
	}
	if !c.TotalCost.Equal(decimal.NewFromInt(60000)) {
		t.Fatalf("expected cost 60000, got %s", c.TotalCost)
	}
	if c.UserID != 10 || c.RoomID != 1 || c.NumberOfPersons != 1 {
		t.Fatalf("unexpected candidate %+v", c)
	}
}

func TestValidateAddRules(t *testing.T) {
	policy := testPolicy(t)
	room := RoomSnapshot{ID: 1, Name: "Family", MaximumPersons: 3, PricePerNight: decimal.NewFromInt(5000)}

	tests := []struct {
		name       string
		req        BookingRequest
		wantErr    error
		wantReason string
	}{
		{
			name:       "inverted dates",
			req:        BookingRequest{CheckInDate: date("2024-08-10"), CheckOutDate: date("2024-07-29"), RoomID: 1, NumberOfPersons: 1},
			wantErr:    ErrRentalPeriod,
			wantReason: string(RentalPeriodInverted),
		},
		{
			name:       "same day",
			req:        BookingRequest{CheckInDate: date("2024-08-10"), CheckOutDate: date("2024-08-10"), RoomID: 1, NumberOfPersons: 1},
			wantErr:    ErrRentalPeriod,
			wantReason: string(RentalPeriodInverted),
		},
		{
			name:       "too long",
			req:        BookingRequest{CheckInDate: date("2024-07-01"), CheckOutDate: date("2024-08-01"), RoomID: 1, NumberOfPersons: 1},
			wantErr:    ErrRentalPeriod,
			wantReason: string(RentalPeriodTooLong),
		},
		{
			name:       "zero persons",
			req:        BookingRequest{CheckInDate: date("2024-07-01"), CheckOutDate: date("2024-07-05"), RoomID: 1, NumberOfPersons: 0},
			wantErr:    ErrRoomCapacity,
			wantReason: string(CapacityNonPositive),
		},
		{
			name:       "negative persons",
			req:        BookingRequest{CheckInDate: date("2024-07-01"), CheckOutDate: date("2024-07-05"), RoomID: 1, NumberOfPersons: -2},
			wantErr:    ErrRoomCapacity,
			wantReason: string(CapacityNonPositive),
		},
		{
			name:       "over capacity",
			req:        BookingRequest{CheckInDate: date("2024-07-01"), CheckOutDate: date("2024-07-05"), RoomID: 1, NumberOfPersons: 10},
			wantErr:    ErrRoomCapacity,
			wantReason: string(CapacityExceeded),
		},
		{
			name:       "inverted and over capacity reports rental period",
			req:        BookingRequest{CheckInDate: date("2024-08-10"), CheckOutDate: date("2024-07-29"), RoomID: 1, NumberOfPersons: 10},
			wantErr:    ErrRentalPeriod,
			wantReason: string(RentalPeriodInverted),
		},
		{
			name:       "too long and zero persons reports rental period",
			req:        BookingRequest{CheckInDate: date("2024-01-01"), CheckOutDate: date("2024-03-01"), RoomID: 1, NumberOfPersons: 0},
			wantErr:    ErrRentalPeriod,
			wantReason: string(RentalPeriodTooLong),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ValidateAdd(1, tt.req, room, policy)
			if c != nil {
				t.Fatalf("expected no candidate, got %+v", c)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			de, ok := AsDomainError(err)
			if !ok {
				t.Fatalf("expected domain error, got %T", err)
			}
			if got := de.Details()["reason"]; got != tt.wantReason {
				t.Fatalf("expected reason %q, got %q", tt.wantReason, got)
			}
		})
	}
}

func TestValidateAddMaxRentalBoundary(t *testing.T) {
	policy := testPolicy(t)
	req := BookingRequest{CheckInDate: date("2024-07-01"), CheckOutDate: date("2024-07-31"), RoomID: 1, NumberOfPersons: 2}

	c, err := ValidateAdd(1, req, testRoom(), policy)
	if err != nil {
		t.Fatalf("30 days must be allowed: %v", err)
	}
	if !c.TotalCost.Equal(decimal.NewFromInt(150000)) {
		t.Fatalf("expected 150000, got %s", c.TotalCost)
	}
}

func TestValidateAddCapacityContext(t *testing.T) {
	room := RoomSnapshot{ID: 4, Name: "Family", MaximumPersons: 3, PricePerNight: decimal.NewFromInt(5000)}
	req := BookingRequest{CheckInDate: date("2024-07-01"), CheckOutDate: date("2024-07-05"), RoomID: 4, NumberOfPersons: 10}

	_, err := ValidateAdd(1, req, room, testPolicy(t))

	var capErr *RoomCapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected RoomCapacityError, got %v", err)
	}
	if capErr.MaximumPersons != 3 || capErr.NumberOfPersons != 10 || capErr.RoomID != 4 || capErr.RoomName != "Family" {
		t.Fatalf("unexpected context %+v", capErr)
	}
}

func TestValidateAddRoomMismatch(t *testing.T) {
	req := BookingRequest{CheckInDate: date("2024-07-01"), CheckOutDate: date("2024-07-05"), RoomID: 2, NumberOfPersons: 1}
	if _, err := ValidateAdd(1, req, testRoom(), testPolicy(t)); !errors.Is(err, ErrRoomMismatch) {
		t.Fatalf("expected ErrRoomMismatch, got %v", err)
	}
}

func TestValidateAddCostProperty(t *testing.T) {
	policy := testPolicy(t)
	start := date("2024-01-01")

	f := func(offset uint16, nights uint8, price uint32) bool {
		days := int(nights)%policy.MaxRentalDays + 1
		in := start.AddDays(int(offset) % 3650)
		room := RoomSnapshot{ID: 1, Name: "R", MaximumPersons: 2, PricePerNight: decimal.New(int64(price), -2)}
		req := BookingRequest{CheckInDate: in, CheckOutDate: in.AddDays(days), RoomID: 1, NumberOfPersons: 1}

		c, err := ValidateAdd(1, req, room, policy)
		if err != nil {
			return false
		}
		return c.TotalCost.Equal(room.PricePerNight.Mul(decimal.NewFromInt(int64(days)))) &&
			c.CheckOut.After(c.CheckIn)
	}
	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
}

func TestValidateAddIsDeterministic(t *testing.T) {
	policy := testPolicy(t)
	req := BookingRequest{CheckInDate: date("2024-07-29"), CheckOutDate: date("2024-08-10"), RoomID: 1, NumberOfPersons: 2}

	a, errA := ValidateAdd(1, req, testRoom(), policy)
	b, errB := ValidateAdd(1, req, testRoom(), policy)
	if errA != nil || errB != nil {
		t.Fatalf("unexpected errors %v %v", errA, errB)
	}
	if !a.CheckIn.Equal(b.CheckIn) || !a.CheckOut.Equal(b.CheckOut) || !a.TotalCost.Equal(b.TotalCost) {
		t.Fatalf("candidates differ: %+v vs %+v", a, b)
	}
}

func TestCheckAvailabilityNoOverlap(t *testing.T) {
	c := &CandidateBooking{RoomID: 1, CheckIn: time.Now(), CheckOut: time.Now().Add(time.Hour)}
	if err := CheckAvailability(c, nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestCheckAvailabilityReportsConflict(t *testing.T) {
	policy := testPolicy(t)
	req := BookingRequest{CheckInDate: date("2024-07-29"), CheckOutDate: date("2024-08-11"), RoomID: 1, NumberOfPersons: 1}
	c, err := ValidateAdd(1, req, testRoom(), policy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	existing := policy.Interval(date("2024-08-10"), date("2024-08-22"))
	overlapping := []Booking{{ID: 9, RoomID: 1, CheckIn: existing.CheckIn, CheckOut: existing.CheckOut}}

	err = CheckAvailability(c, overlapping)
	var booked *RoomAlreadyBookedError
	if !errors.As(err, &booked) {
		t.Fatalf("expected RoomAlreadyBookedError, got %v", err)
	}

	raw, err := json.Marshal(booked.Conflicts)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `[{"check_in_date":"2024-08-10","check_out_date":"2024-08-22"}]`
	if string(raw) != want {
		t.Fatalf("expected %s, got %s", want, raw)
	}
}

func TestCheckAvailabilitySortsAllConflicts(t *testing.T) {
	policy := testPolicy(t)
	c, err := ValidateAdd(1, BookingRequest{CheckInDate: date("2024-07-01"), CheckOutDate: date("2024-07-30"), RoomID: 1, NumberOfPersons: 1}, testRoom(), policy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stays := [][2]string{
		{"2024-07-20", "2024-07-22"},
		{"2024-07-02", "2024-07-04"},
		{"2024-07-10", "2024-07-12"},
		{"2024-07-05", "2024-07-08"},
	}
	overlapping := make([]Booking, 0, len(stays))
	for i, s := range stays {
		in := policy.Interval(date(s[0]), date(s[1]))
		overlapping = append(overlapping, Booking{ID: int64(i + 1), RoomID: 1, CheckIn: in.CheckIn, CheckOut: in.CheckOut})
	}

	var booked *RoomAlreadyBookedError
	if !errors.As(CheckAvailability(c, overlapping), &booked) {
		t.Fatal("expected RoomAlreadyBookedError")
	}
	if len(booked.Conflicts) != len(stays) {
		t.Fatalf("expected %d conflicts, got %d", len(stays), len(booked.Conflicts))
	}
	for i := 1; i < len(booked.Conflicts); i++ {
		if booked.Conflicts[i].CheckInDate.Before(booked.Conflicts[i-1].CheckInDate) {
			t.Fatalf("conflicts not sorted: %v", booked.Conflicts)
		}
	}
	if booked.Conflicts[0].CheckInDate.String() != "2024-07-02" {
		t.Fatalf("unexpected first conflict %v", booked.Conflicts[0])
	}
	// input slice is left untouched
	if overlapping[0].ID != 1 {
		t.Fatal("CheckAvailability modified its input")
	}
}
