package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stayhub/stayhub-api/internal/domain/booking"
	"github.com/stayhub/stayhub-api/internal/domain/room"
	"github.com/stayhub/stayhub-api/internal/domain/user"
	"github.com/stayhub/stayhub-api/internal/pkg/email"
)

type stubUsers struct {
	users map[int64]*user.User
	err   error
}

func (s *stubUsers) GetByID(_ context.Context, id int64) (*user.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.users[id], nil
}

type stubRooms struct {
	rooms map[int64]*room.Room
}

func (s *stubRooms) GetByID(_ context.Context, id int64) (*room.Room, error) {
	r, ok := s.rooms[id]
	if !ok {
		return nil, room.ErrRoomNotFound
	}
	return r, nil
}

type sentMail struct {
	kind Type
	to   string
	data email.BookingMail
}

type stubMailer struct {
	sent   []sentMail
	err    error
	notify chan struct{}
}

func (m *stubMailer) SendBookingConfirmed(_ context.Context, to string, data email.BookingMail) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{kind: TypeBookingConfirmed, to: to, data: data})
	if m.notify != nil {
		m.notify <- struct{}{}
	}
	return nil
}

func (m *stubMailer) SendBookingCancelled(_ context.Context, to string, data email.BookingMail) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{kind: TypeBookingCancelled, to: to, data: data})
	return nil
}

func testBooking() *booking.Booking {
	policy := booking.DefaultPolicy()
	in := policy.Interval(booking.NewDate(2026, time.September, 10), booking.NewDate(2026, time.September, 12))
	return &booking.Booking{
		ID:              5,
		UserID:          7,
		RoomID:          3,
		NumberOfPersons: 2,
		CheckIn:         in.CheckIn,
		CheckOut:        in.CheckOut,
		TotalCost:       decimal.NewFromInt(10000),
	}
}

func TestBookingNotifierEnqueuesJobs(t *testing.T) {
	q := NewMemoryQueue(4)
	n := NewBookingNotifier(q)
	b := testBooking()

	n.BookingCreated(context.Background(), b, &booking.RoomSnapshot{ID: 3, Name: "Deluxe"})
	n.BookingCancelled(context.Background(), b)

	created, err := q.Pop(context.Background(), time.Second)
	if err != nil || created == nil {
		t.Fatalf("expected created job, got %v, %v", created, err)
	}
	if created.Type != TypeBookingConfirmed || created.RoomName != "Deluxe" || created.TotalCost != "10000.00" {
		t.Fatalf("unexpected created job %+v", created)
	}

	cancelled, err := q.Pop(context.Background(), time.Second)
	if err != nil || cancelled == nil {
		t.Fatalf("expected cancelled job, got %v, %v", cancelled, err)
	}
	if cancelled.Type != TypeBookingCancelled || cancelled.BookingID != 5 {
		t.Fatalf("unexpected cancelled job %+v", cancelled)
	}
}

func TestMemoryQueuePopTimesOut(t *testing.T) {
	q := NewMemoryQueue(1)
	job, err := q.Pop(context.Background(), 10*time.Millisecond)
	if err != nil || job != nil {
		t.Fatalf("expected nil, nil on timeout, got %v, %v", job, err)
	}
}

func TestMemoryQueueFull(t *testing.T) {
	q := NewMemoryQueue(1)
	job := NewBookingJob(TypeBookingConfirmed, testBooking(), nil)
	if err := q.Push(context.Background(), job); err != nil {
		t.Fatalf("first push failed: %v", err)
	}
	if err := q.Push(context.Background(), job); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
}

func TestDispatcherHandleConfirmation(t *testing.T) {
	users := &stubUsers{users: map[int64]*user.User{7: {ID: 7, Email: "guest@example.com", FullName: "Anna"}}}
	mailer := &stubMailer{}
	d := NewDispatcher(NewMemoryQueue(1), users, nil, mailer, booking.DefaultPolicy(), "https://stayhub.example/")

	job := NewBookingJob(TypeBookingConfirmed, testBooking(), &booking.RoomSnapshot{ID: 3, Name: "Deluxe"})
	if err := d.Handle(context.Background(), job); err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(mailer.sent))
	}
	got := mailer.sent[0]
	if got.kind != TypeBookingConfirmed || got.to != "guest@example.com" {
		t.Fatalf("unexpected mail %+v", got)
	}
	if got.data.CheckIn != "2026-09-10 14:00" || got.data.CheckOut != "2026-09-12 12:00" {
		t.Fatalf("unexpected stay times %q - %q", got.data.CheckIn, got.data.CheckOut)
	}
	if got.data.CancelUntil != "2026-09-08 14:00" {
		t.Fatalf("unexpected cancel deadline %q", got.data.CancelUntil)
	}
	if got.data.BookingsURL != "https://stayhub.example/bookings" {
		t.Fatalf("unexpected url %q", got.data.BookingsURL)
	}
}

func TestDispatcherResolvesRoomNameForCancellation(t *testing.T) {
	users := &stubUsers{users: map[int64]*user.User{7: {ID: 7, Email: "guest@example.com"}}}
	rooms := &stubRooms{rooms: map[int64]*room.Room{3: {ID: 3, Name: "Deluxe"}}}
	mailer := &stubMailer{}
	d := NewDispatcher(NewMemoryQueue(1), users, rooms, mailer, booking.DefaultPolicy(), "")

	if err := d.Handle(context.Background(), NewBookingJob(TypeBookingCancelled, testBooking(), nil)); err != nil {
		t.Fatalf("handle failed: %v", err)
	}

	got := mailer.sent[0]
	if got.kind != TypeBookingCancelled || got.data.RoomName != "Deluxe" {
		t.Fatalf("unexpected mail %+v", got)
	}
	if got.data.GuestName != "guest@example.com" {
		t.Fatalf("expected email as display name, got %q", got.data.GuestName)
	}
	if got.data.CancelUntil != "" {
		t.Fatalf("cancellation mail must not carry a deadline")
	}
}

func TestDispatcherMissingUser(t *testing.T) {
	d := NewDispatcher(NewMemoryQueue(1), &stubUsers{}, nil, &stubMailer{}, booking.DefaultPolicy(), "")
	err := d.Handle(context.Background(), NewBookingJob(TypeBookingConfirmed, testBooking(), nil))
	if !errors.Is(err, ErrRecipientMissing) {
		t.Fatalf("expected ErrRecipientMissing, got %v", err)
	}
}

func TestDispatcherRequeuesFailedJob(t *testing.T) {
	users := &stubUsers{users: map[int64]*user.User{7: {ID: 7, Email: "guest@example.com"}}}
	q := NewMemoryQueue(2)
	d := NewDispatcher(q, users, nil, &stubMailer{err: errors.New("smtp down")}, booking.DefaultPolicy(), "")

	job := NewBookingJob(TypeBookingConfirmed, testBooking(), nil)
	d.process(context.Background(), job)

	requeued, err := q.Pop(context.Background(), time.Second)
	if err != nil || requeued == nil {
		t.Fatalf("expected requeued job, got %v, %v", requeued, err)
	}
	if requeued.Attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", requeued.Attempts)
	}

	requeued.Attempts = maxAttempts - 1
	d.process(context.Background(), requeued)
	if dropped, _ := q.Pop(context.Background(), 10*time.Millisecond); dropped != nil {
		t.Fatalf("job over the attempt limit must be dropped")
	}
}

func TestDispatcherRunStopsOnCancel(t *testing.T) {
	users := &stubUsers{users: map[int64]*user.User{7: {ID: 7, Email: "guest@example.com"}}}
	mailer := &stubMailer{notify: make(chan struct{}, 1)}
	q := NewMemoryQueue(1)
	d := NewDispatcher(q, users, nil, mailer, booking.DefaultPolicy(), "")

	if err := q.Push(context.Background(), NewBookingJob(TypeBookingConfirmed, testBooking(), nil)); err != nil {
		t.Fatalf("push failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	select {
	case <-mailer.notify:
	case <-time.After(2 * time.Second):
		t.Fatal("job was not processed")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher did not stop")
	}
}
