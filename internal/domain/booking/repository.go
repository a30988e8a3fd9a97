package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const queryTimeout = 3 * time.Second

// Repository defines booking data access.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Booking, error)
	FindOverlapping(ctx context.Context, q OverlapQuery) ([]Booking, error)
	Insert(ctx context.Context, c *CandidateBooking) (*Booking, error)
	Delete(ctx context.Context, id int64) (*Booking, error)
	ListByUser(ctx context.Context, userID int64, p Pagination) ([]Booking, int, error)

	// WithRoomLock runs fn with all other writers of roomID excluded.
	// The overlap check and the insert of a new booking belong inside it.
	WithRoomLock(ctx context.Context, roomID int64, fn func(ctx context.Context, repo Repository) error) error
}

const bookingColumns = `id, user_id, room_id, number_of_persons, check_in, check_out, total_cost, created_at`

// The three OR'd branches catch a window that starts inside an existing
// stay, ends inside one, or swallows one entirely.
const overlapQuery = `
	SELECT ` + bookingColumns + `
	FROM bookings
	WHERE room_id = $1 AND (
		($2 BETWEEN check_in AND check_out)
		OR ($3 BETWEEN check_in AND check_out)
		OR (check_in BETWEEN $2 AND $3 AND check_out BETWEEN $2 AND $3)
	)
	ORDER BY check_in, check_out
`

type repository struct {
	db *sqlx.DB
	q  sqlx.ExtContext
	tx *sqlx.Tx
}

// NewRepository creates a Postgres booking repository.
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db, q: db}
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var b Booking
	err := sqlx.GetContext(ctx, r.q, &b, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, mapDBError(err)
	}
	return &b, nil
}

func (r *repository) FindOverlapping(ctx context.Context, q OverlapQuery) ([]Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	bookings := make([]Booking, 0)
	if err := sqlx.SelectContext(ctx, r.q, &bookings, overlapQuery, q.RoomID, q.From, q.To); err != nil {
		return nil, mapDBError(err)
	}
	return bookings, nil
}

func (r *repository) Insert(ctx context.Context, c *CandidateBooking) (*Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var b Booking
	err := sqlx.GetContext(ctx, r.q, &b, `
		INSERT INTO bookings (user_id, room_id, number_of_persons, check_in, check_out, total_cost)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+bookingColumns,
		c.UserID, c.RoomID, c.NumberOfPersons, c.CheckIn, c.CheckOut, c.TotalCost,
	)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &b, nil
}

func (r *repository) Delete(ctx context.Context, id int64) (*Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var b Booking
	err := sqlx.GetContext(ctx, r.q, &b, `DELETE FROM bookings WHERE id = $1 RETURNING `+bookingColumns, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, mapDBError(err)
	}
	return &b, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int64, p Pagination) ([]Booking, int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var total int
	if err := sqlx.GetContext(ctx, r.q, &total, `SELECT COUNT(*) FROM bookings WHERE user_id = $1`, userID); err != nil {
		return nil, 0, mapDBError(err)
	}

	bookings := make([]Booking, 0)
	err := sqlx.SelectContext(ctx, r.q, &bookings, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE user_id = $1
		ORDER BY check_in DESC
		LIMIT $2 OFFSET $3
	`, userID, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, mapDBError(err)
	}
	return bookings, total, nil
}

func (r *repository) WithRoomLock(ctx context.Context, roomID int64, fn func(ctx context.Context, repo Repository) error) error {
	if r.tx != nil {
		if _, err := r.tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, roomID); err != nil {
			return mapDBError(err)
		}
		return fn(ctx, r)
	}

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin booking tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, roomID); err != nil {
		return mapDBError(err)
	}

	if err := fn(ctx, &repository{db: r.db, q: tx, tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return mapDBError(err)
	}
	return nil
}

func mapDBError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case "23P01":
		return fmt.Errorf("%w: %w", ErrOverlapConstraint, err)
	case "40001", "40P01":
		return fmt.Errorf("%w: %w", ErrSerialization, err)
	case "23503":
		if pqErr.Constraint == "bookings_room_id_fkey" {
			return fmt.Errorf("%w: %w", ErrRoomNotFound, err)
		}
		return err
	default:
		return err
	}
}
