package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/stayhub/stayhub-api/internal/config"
	"github.com/stayhub/stayhub-api/internal/domain/booking"
	"github.com/stayhub/stayhub-api/internal/domain/notification"
	"github.com/stayhub/stayhub-api/internal/domain/room"
	"github.com/stayhub/stayhub-api/internal/domain/user"
	"github.com/stayhub/stayhub-api/internal/middleware"
	"github.com/stayhub/stayhub-api/internal/pkg/database"
	"github.com/stayhub/stayhub-api/internal/pkg/email"
	"github.com/stayhub/stayhub-api/internal/pkg/jwt"
	"github.com/stayhub/stayhub-api/internal/pkg/logger"
	pkgresponse "github.com/stayhub/stayhub-api/internal/pkg/response"
)

func main() {
	cfg := config.Load()
	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting StayHub API")

	policy, err := cfg.BookingPolicy()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid booking policy")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.NewPostgres(ctx, cfg.DatabaseURL, database.DefaultPoolConfig())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redisClient, err := database.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redisClient)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	roomRepo := room.NewRepository(db)
	bookingRepo := booking.NewRepository(db)

	// ---------- Services ----------
	var roomCache room.Cache
	if redisClient != nil {
		roomCache = room.NewRedisCache(redisClient, cfg.RoomCacheTTL)
	}
	roomService := room.NewService(roomRepo, roomCache)

	queue, err := notification.OpenQueue(cfg.QueueConfig(), redisClient)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open notification queue")
	}
	defer queue.Close()
	log.Info().Str("backend", queue.Backend).Msg("Notification queue ready")

	if !queue.Shared() {
		// No separate notifier process can read an in-memory queue.
		mailer := email.NewService(cfg.EmailConfig())
		dispatcher := notification.NewDispatcher(queue, userRepo, roomService, mailer, policy, cfg.FrontendURL)
		go dispatcher.Run(ctx)
	}

	bookingService := booking.NewService(bookingRepo, &roomFetcher{rooms: roomService}, notification.NewBookingNotifier(queue), booking.ServiceConfig{
		Policy:    policy,
		TxRetries: cfg.TxRetries,
	})

	// ---------- Handlers ----------
	r := newRouter(routerDeps{
		cfg:            cfg,
		db:             db,
		redis:          redisClient,
		jwtService:     jwtService,
		userRepo:       userRepo,
		roomHandler:    room.NewHandler(roomService),
		bookingHandler: booking.NewHandler(bookingService),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	cancel()

	log.Info().Msg("Server exited properly")
}

type routerDeps struct {
	cfg            *config.Config
	db             *sqlx.DB
	redis          *redis.Client
	jwtService     *jwt.Service
	userRepo       user.Repository
	roomHandler    *room.Handler
	bookingHandler *booking.Handler
}

func newRouter(d routerDeps) chi.Router {
	authMiddleware := middleware.Auth(d.jwtService)
	verifiedMiddleware := middleware.RequireVerifiedEmail(d.userRepo)

	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(d.cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		status := database.Health(r.Context(), d.db, d.redis)
		if !database.Healthy(status) {
			pkgresponse.JSON(w, http.StatusServiceUnavailable, status)
			return
		}
		status["status"] = "ok"
		pkgresponse.OK(w, status)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			pkgresponse.OK(w, map[string]string{"message": "pong"})
		})

		r.Mount("/rooms", d.roomHandler.Routes())
		r.Mount("/bookings", d.bookingHandler.Routes(authMiddleware, verifiedMiddleware))
	})

	return r
}

// roomFetcher adapts room.Service to booking.RoomFetcher
type roomFetcher struct {
	rooms interface {
		GetByID(ctx context.Context, id int64) (*room.Room, error)
	}
}

func (a *roomFetcher) GetRoom(ctx context.Context, id int64) (*booking.RoomSnapshot, error) {
	rm, err := a.rooms.GetByID(ctx, id)
	if errors.Is(err, room.ErrRoomNotFound) {
		return nil, booking.ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}

	return &booking.RoomSnapshot{
		ID:             rm.ID,
		Name:           rm.Name,
		MaximumPersons: rm.MaximumPersons,
		PricePerNight:  rm.PricePerNight,
	}, nil
}
