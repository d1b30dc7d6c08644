package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"gamearena/backend/internal/config"
	"gamearena/backend/internal/database"
	"gamearena/backend/internal/events"
	"gamearena/backend/internal/hub"
	"gamearena/backend/internal/leaderboard"
	"gamearena/backend/internal/logger"
	"gamearena/backend/internal/metrics"
	"gamearena/backend/internal/ratelimit"
	"gamearena/backend/internal/registration"
	"gamearena/backend/internal/repository"
	"gamearena/backend/internal/scheduler"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	// Swagger imports
	_ "gamearena/backend/docs" // This is important for swag to find the generated docs
)

// @title           GameArena API
// @version         1.0
// @description     Tournament rooms, paid registration, leaderboard, store and chat.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	log := logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database.Connect(cfg.DatabaseURL, log)
	if cfg.SeedData {
		if err := database.Seed(ctx, database.DB, log); err != nil {
			log.Fatal("failed to seed database", zap.Error(err))
		}
	}

	m := metrics.New()
	store := repository.NewGormStore(database.DB)

	publishers := []events.Publisher{hub.GlobalHub}
	if cfg.NATSURL != "" {
		nc, err := events.NewNATSPublisher(cfg.NATSURL, log)
		if err != nil {
			log.Warn("nats unavailable, events stay in-process", zap.Error(err))
		} else {
			defer nc.Close()
			publishers = append(publishers, nc)
		}
	}

	engine := registration.NewEngine(store, registration.Options{
		Pacer:     registration.Delay(cfg.PaymentStageDelay),
		Timeout:   cfg.RegistrationTimeout,
		Publisher: events.Multi(publishers...),
		Metrics:   m,
		Logger:    log.Named("registration"),
	})
	reaper := registration.NewReaper(store, cfg.PendingReapAfter, m, log.Named("reaper"))

	board := leaderboard.NewService(database.DB, connectRedis(ctx, cfg.RedisURL, log), m, log.Named("leaderboard"))
	if err := board.Rebuild(ctx); err != nil {
		log.Warn("initial leaderboard rebuild failed", zap.Error(err))
	}

	joinLimiter := ratelimit.PerMinute(cfg.JoinRatePerMinute)

	sched, err := scheduler.New(log.Named("scheduler"))
	if err != nil {
		log.Fatal("failed to create scheduler", zap.Error(err))
	}
	mustSchedule(log, sched.Every("reap-pending-registrations", time.Minute, func(ctx context.Context) error {
		_, err := reaper.Sweep(ctx)
		return err
	}))
	mustSchedule(log, sched.Every("start-due-rooms", time.Minute, func(ctx context.Context) error {
		n, err := scheduler.StartDueRooms(ctx, store.Rooms(), time.Now())
		if n > 0 {
			log.Info("rooms started", zap.Int("count", n))
		}
		return err
	}))
	mustSchedule(log, sched.Every("rebuild-leaderboard", 5*time.Minute, board.Rebuild))
	mustSchedule(log, sched.Every("cleanup-rate-limits", 10*time.Minute, func(context.Context) error {
		joinLimiter.Cleanup(10 * time.Minute)
		return nil
	}))
	sched.Start()

	router := newRouter(routerDeps{
		store:       store,
		engine:      engine,
		hub:         hub.GlobalHub,
		leaderboard: board,
		metrics:     m,
		joinLimiter: joinLimiter,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("server is running",
			zap.String("addr", cfg.HTTPAddr),
			zap.String("swagger", "/swagger/index.html"),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}
	if err := sched.Shutdown(); err != nil {
		log.Error("scheduler shutdown", zap.Error(err))
	}
}

// connectRedis returns nil when url is empty or redis is unreachable; the
// leaderboard then reads postgres directly.
func connectRedis(ctx context.Context, url string, log *zap.Logger) *redis.Client {
	if url == "" {
		return nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Warn("invalid REDIS_URL, leaderboard cache disabled", zap.Error(err))
		return nil
	}
	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unavailable, leaderboard cache disabled", zap.Error(err))
		_ = rdb.Close()
		return nil
	}
	return rdb
}

func mustSchedule(log *zap.Logger, err error) {
	if err != nil {
		log.Fatal("failed to schedule job", zap.Error(err))
	}
}
