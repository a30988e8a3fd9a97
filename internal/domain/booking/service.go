package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// RoomFetcher loads the room attributes a booking depends on.
// It returns ErrRoomNotFound when the room does not exist.
type RoomFetcher interface {
	GetRoom(ctx context.Context, id int64) (*RoomSnapshot, error)
}

// Notifier is told about committed bookings. Calls must not block.
type Notifier interface {
	BookingCreated(ctx context.Context, b *Booking, room *RoomSnapshot)
	BookingCancelled(ctx context.Context, b *Booking)
}

// ServiceConfig configures the booking service.
type ServiceConfig struct {
	Policy    PolicyConfig
	TxRetries int
	Now       func() time.Time
}

// Service runs the booking validators against storage.
type Service struct {
	repo     Repository
	rooms    RoomFetcher
	notifier Notifier
	policy   PolicyConfig
	retries  int
	now      func() time.Time
}

// NewService creates booking service. notifier may be nil.
func NewService(repo Repository, rooms RoomFetcher, notifier Notifier, cfg ServiceConfig) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	retries := cfg.TxRetries
	if retries < 0 {
		retries = 0
	}

	return &Service{
		repo:     repo,
		rooms:    rooms,
		notifier: notifier,
		policy:   cfg.Policy,
		retries:  retries,
		now:      now,
	}
}

// Policy returns the policy the service validates with.
func (s *Service) Policy() PolicyConfig {
	return s.policy
}

// Quote validates a stay without storing it.
func (s *Service) Quote(ctx context.Context, userID int64, req BookingRequest) (*CandidateBooking, error) {
	room, err := s.rooms.GetRoom(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}

	return ValidateAdd(userID, req, *room, s.policy)
}

// Create validates and stores a booking.
func (s *Service) Create(ctx context.Context, userID int64, req BookingRequest) (*Booking, error) {
	room, err := s.rooms.GetRoom(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}

	candidate, err := ValidateAdd(userID, req, *room, s.policy)
	if err != nil {
		return nil, err
	}

	var created *Booking
	for attempt := 0; ; attempt++ {
		created, err = s.insert(ctx, candidate)
		if err == nil {
			break
		}

		if errors.Is(err, ErrSerialization) && attempt < s.retries {
			log.Debug().
				Int64("room_id", candidate.RoomID).
				Int("attempt", attempt+1).
				Msg("booking transaction retry")
			continue
		}

		if errors.Is(err, ErrOverlapConstraint) || errors.Is(err, ErrSerialization) {
			return nil, s.conflictError(ctx, candidate)
		}

		return nil, err
	}

	log.Info().
		Int64("booking_id", created.ID).
		Int64("room_id", created.RoomID).
		Int64("user_id", created.UserID).
		Str("total_cost", created.TotalCost.String()).
		Msg("booking created")

	if s.notifier != nil {
		s.notifier.BookingCreated(ctx, created, room)
	}

	return created, nil
}

func (s *Service) insert(ctx context.Context, candidate *CandidateBooking) (*Booking, error) {
	var created *Booking
	err := s.repo.WithRoomLock(ctx, candidate.RoomID, func(ctx context.Context, repo Repository) error {
		overlapping, err := repo.FindOverlapping(ctx, candidate.OverlapQuery())
		if err != nil {
			return fmt.Errorf("find overlapping bookings: %w", err)
		}

		if err := CheckAvailability(candidate, overlapping); err != nil {
			return err
		}

		created, err = repo.Insert(ctx, candidate)
		return err
	})
	return created, err
}

// conflictError rebuilds the conflict list after the database rejected
// an insert that passed the overlap check.
func (s *Service) conflictError(ctx context.Context, candidate *CandidateBooking) error {
	overlapping, err := s.repo.FindOverlapping(ctx, candidate.OverlapQuery())
	if err != nil {
		return fmt.Errorf("find overlapping bookings: %w", err)
	}

	if err := CheckAvailability(candidate, overlapping); err != nil {
		return err
	}
	return &RoomAlreadyBookedError{RoomID: candidate.RoomID, Conflicts: []DateRange{}}
}

// Cancel deletes a booking of userID.
func (s *Service) Cancel(ctx context.Context, userID, bookingID int64) (*Booking, error) {
	existing, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := ValidateDelete(userID, bookingID, existing, s.now(), s.policy); err != nil {
		return nil, err
	}

	deleted, err := s.repo.Delete(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if deleted == nil {
		return nil, &ItemNotExistsError{BookingID: bookingID}
	}

	log.Info().
		Int64("booking_id", deleted.ID).
		Int64("room_id", deleted.RoomID).
		Int64("user_id", userID).
		Msg("booking cancelled")

	if s.notifier != nil {
		s.notifier.BookingCancelled(ctx, deleted)
	}

	return deleted, nil
}

// ListMine returns bookings of userID, newest check-in first.
func (s *Service) ListMine(ctx context.Context, userID int64, page, limit int) ([]Booking, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	return s.repo.ListByUser(ctx, userID, Pagination{Page: page, Limit: limit})
}
