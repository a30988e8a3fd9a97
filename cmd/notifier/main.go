package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/stayhub/stayhub-api/internal/config"
	"github.com/stayhub/stayhub-api/internal/domain/notification"
	"github.com/stayhub/stayhub-api/internal/domain/room"
	"github.com/stayhub/stayhub-api/internal/domain/user"
	"github.com/stayhub/stayhub-api/internal/pkg/database"
	"github.com/stayhub/stayhub-api/internal/pkg/email"
	"github.com/stayhub/stayhub-api/internal/pkg/logger"
)

func main() {
	workers := flag.Int("workers", 2, "number of concurrent queue consumers")
	flag.Parse()

	cfg := config.Load()
	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	log.Info().Int("workers", *workers).Msg("Starting notifier")

	policy, err := cfg.BookingPolicy()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid booking policy")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.NewPostgres(ctx, cfg.DatabaseURL, database.PoolConfig{MaxOpenConns: 5, MaxIdleConns: 2})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	rdb, err := database.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(rdb)

	queue, err := notification.OpenQueue(cfg.QueueConfig(), rdb)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open notification queue")
	}
	defer queue.Close()
	if !queue.Shared() {
		log.Fatal().Msg("Notifier requires KAFKA_BROKERS, NATS_URL or REDIS_URL")
	}
	log.Info().Str("backend", queue.Backend).Msg("Consuming notification queue")

	var roomCache room.Cache
	if rdb != nil {
		roomCache = room.NewRedisCache(rdb, cfg.RoomCacheTTL)
	}

	dispatcher := notification.NewDispatcher(
		queue,
		user.NewRepository(db),
		room.NewService(room.NewRepository(db), roomCache),
		email.NewService(cfg.EmailConfig()),
		policy,
		cfg.FrontendURL,
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-sigChan
		log.Info().Msg("Shutdown signal received")
		cancel()
	}()

	var wg sync.WaitGroup
	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			dispatcher.Run(ctx)
		}()
	}
	wg.Wait()

	log.Info().Msg("Notifier stopped")
}
