package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/stayhub/stayhub-api/internal/config"
	"github.com/stayhub/stayhub-api/internal/pkg/database"
	"github.com/stayhub/stayhub-api/internal/pkg/logger"
)

func main() {
	seed := flag.Bool("seed", false, "insert a demo hotel, rooms and a verified guest")
	flag.Parse()

	cfg := config.Load()
	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := database.NewPostgres(ctx, cfg.DatabaseURL, database.PoolConfig{MaxOpenConns: 2, MaxIdleConns: 1})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	applied, err := database.Migrate(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
	log.Info().Int("applied", applied).Msg("Migrations up to date")

	if *seed {
		if err := seedDemo(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("Seeding failed")
		}
		log.Info().Msg("Demo data seeded")
	}
}

// seedDemo is idempotent: it does nothing when a hotel already exists.
func seedDemo(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var hotels int
	if err := tx.GetContext(ctx, &hotels, `SELECT COUNT(*) FROM hotels`); err != nil {
		return err
	}
	if hotels > 0 {
		return nil
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO users (email, full_name, email_verified)
		VALUES ('guest@stayhub.local', 'Demo Guest', TRUE)
		ON CONFLICT (email) DO NOTHING
	`); err != nil {
		return fmt.Errorf("seed user: %w", err)
	}

	var hotelID int64
	if err := tx.GetContext(ctx, &hotelID, `
		INSERT INTO hotels (name, city, address)
		VALUES ('StayHub Central', 'Moscow', 'Tverskaya 1')
		RETURNING id
	`); err != nil {
		return fmt.Errorf("seed hotel: %w", err)
	}

	rooms := []struct {
		name    string
		persons int
		price   string
	}{
		{"Standard", 2, "5000.00"},
		{"Deluxe", 3, "8500.00"},
		{"Family Suite", 5, "14000.00"},
	}
	for _, r := range rooms {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO rooms (hotel_id, name, maximum_persons, price_per_night)
			VALUES ($1, $2, $3, $4)
		`, hotelID, r.name, r.persons, r.price); err != nil {
			return fmt.Errorf("seed room %s: %w", r.name, err)
		}
	}

	return tx.Commit()
}
