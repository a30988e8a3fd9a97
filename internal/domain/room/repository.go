package room

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

const queryTimeout = 3 * time.Second

// Repository defines room data access
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Room, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates room repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// GetByID returns room by ID, nil when absent
func (r *repository) GetByID(ctx context.Context, id int64) (*Room, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT r.id, r.hotel_id, h.name AS hotel_name, h.city, r.name, r.description,
		       r.maximum_persons, r.price_per_night, r.created_at
		FROM rooms r
		JOIN hotels h ON h.id = r.hotel_id
		WHERE r.id = $1
	`
	var room Room
	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}
