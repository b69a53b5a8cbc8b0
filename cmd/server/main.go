package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/erp-portal/internal/api"
	"github.com/stemsi/erp-portal/internal/config"
	"github.com/stemsi/erp-portal/internal/database"
	"github.com/stemsi/erp-portal/internal/handler"
	"github.com/stemsi/erp-portal/internal/logger"
	"github.com/stemsi/erp-portal/internal/middleware"
	"github.com/stemsi/erp-portal/internal/route"
	"github.com/stemsi/erp-portal/internal/router"
	"github.com/stemsi/erp-portal/internal/session"
	"github.com/stemsi/erp-portal/internal/storage"
	"github.com/stemsi/erp-portal/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("backend", cfg.BackendURL).
		Str("storage", cfg.StorageDriver).
		Msg("Starting ERP Portal")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Open Session Storage ──────────────────────────────────────────
	backing, err := openBacking(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open session storage")
	}
	defer backing.close()

	var st storage.Storage = backing.storage
	if cfg.SessionSecret != "" {
		st = storage.NewSealed(st, cfg.SessionSecret)
		log.Info().Msg("Session values are sealed")
	}

	bus := backing.bus
	if bus == nil {
		bus = session.NewLocalBus()
	}
	provider := session.NewProvider(st, bus, log)

	// Logins made by another process sharing the storage file reach our tabs.
	if backing.file != nil {
		if err := backing.file.Watch(func(keys []string) {
			provider.NotifyExternal(context.Background(), keys)
		}); err != nil {
			log.Warn().Err(err).Msg("Storage file watch disabled")
		}
	}

	// ─── Initialize API Client ─────────────────────────────────────────
	client := api.New(cfg.BackendURL, cfg.BackendTimeout, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	opts := handler.Options{
		ClearSessionOnUnauthorized: cfg.ClearSessionOnUnauthorized,
		MaxUploadBytes:             cfg.MaxUploadBytes,
	}
	handlers := &router.Handlers{
		Page:    handler.NewPageHandler(client, opts, log),
		Auth:    handler.NewAuthHandler(client, opts, log),
		Student: handler.NewStudentHandler(client, opts, log),
		Teacher: handler.NewTeacherHandler(client, opts, log),
		Admin:   handler.NewAdminHandler(client, opts, log),
		WS:      handler.NewWSHandler(bus, log, cfg.AllowedOrigins),
		System:  handler.NewSystemHandler(cfg.StorageDriver, backing.checks, log),
	}

	// ─── Login Throttle ────────────────────────────────────────────────
	var limiter *middleware.RateLimiter
	if cfg.LoginRateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.LoginRateLimit, time.Minute)
		defer limiter.Stop()
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r, err := router.SetupRouter(cfg, router.Deps{
		Provider:     provider,
		Table:        route.Portal,
		LoginLimiter: limiter,
		Log:          log,
	}, handlers)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up router")
	}

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// backing is the storage driver chosen by STORAGE_DRIVER plus what comes
// with it: a cross-instance bus for redis, a watchable file, health checks.
type backing struct {
	storage storage.Storage
	bus     session.Bus
	file    *storage.File
	checks  map[string]handler.HealthCheck
	closers []func()
}

func (b *backing) close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func openBacking(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*backing, error) {
	b := &backing{checks: make(map[string]handler.HealthCheck)}

	switch cfg.StorageDriver {
	case config.StorageMemory:
		b.storage = storage.NewMemory()
		log.Warn().Msg("Memory storage: sessions are lost on restart")

	case config.StorageFile:
		f, err := storage.OpenFile(cfg.StorageFile, log)
		if err != nil {
			return nil, err
		}
		b.storage = f
		b.file = f
		b.closers = append(b.closers, func() { _ = f.Close() })

	case config.StorageRedis:
		rdb, err := database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		b.storage = storage.NewRedis(rdb)
		b.bus = session.NewRedisBus(rdb, log)
		b.checks["redis"] = redisCheck(rdb)
		b.closers = append(b.closers, func() { _ = rdb.Close() })

	case config.StoragePostgres:
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		b.storage = storage.NewPostgres(pool)
		b.checks["postgres"] = postgresCheck(pool)
		b.closers = append(b.closers, pool.Close)

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}

	return b, nil
}

func redisCheck(rdb *redis.Client) handler.HealthCheck {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}

func postgresCheck(pool *pgxpool.Pool) handler.HealthCheck {
	return func(ctx context.Context) error {
		return pool.Ping(ctx)
	}
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
