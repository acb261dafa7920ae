package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	sfhttp "github.com/Strob0t/schoolforge/internal/adapter/http"
	sfnats "github.com/Strob0t/schoolforge/internal/adapter/nats"
	sfotel "github.com/Strob0t/schoolforge/internal/adapter/otel"
	"github.com/Strob0t/schoolforge/internal/adapter/postgres"
	"github.com/Strob0t/schoolforge/internal/config"
	"github.com/Strob0t/schoolforge/internal/logger"
	"github.com/Strob0t/schoolforge/internal/middleware"
	"github.com/Strob0t/schoolforge/internal/password"
	"github.com/Strob0t/schoolforge/internal/port/messagequeue"
	"github.com/Strob0t/schoolforge/internal/service"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if len(os.Args) > 1 && os.Args[1] == "admin" {
		if err := runAdmin(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, closer := logger.New(cfg.Logging)
	defer closer.Close()
	slog.SetDefault(log)

	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"pg_max_conns", cfg.Postgres.MaxConns,
		"nats_enabled", cfg.NATS.URL != "",
		"otel_enabled", cfg.Telemetry.OTLPEndpoint != "",
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---

	shutdownTelemetry, err := sfotel.Setup(ctx, cfg.Logging.Service, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(sctx); err != nil {
			slog.Warn("telemetry shutdown", "error", err)
		}
	}()

	metrics, err := sfotel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	slog.Info("postgres connected")

	if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	slog.Info("migrations applied")

	queue, err := connectQueue(ctx, cfg.NATS)
	if err != nil {
		return fmt.Errorf("nats: %w", err)
	}
	defer func() {
		if err := queue.Drain(); err != nil {
			slog.Warn("nats drain", "error", err)
		}
	}()

	// --- Services ---

	store := postgres.NewStore(pool)
	hasher := password.NewHasher(cfg.Auth.BcryptCost)
	identity := service.NewIdentityFactory(hasher)
	authSvc := service.NewAuthService(store, hasher, &cfg.Auth, metrics)
	provisioningSvc := service.NewProvisioningService(store, identity, hasher, queue, metrics, cfg.Provisioning)
	setupSvc := service.NewSetupService(store, queue)
	seeder := service.NewSeeder(store, identity, queue, metrics)

	// --- HTTP ---

	handlers := &sfhttp.Handlers{
		Auth:         authSvc,
		Provisioning: provisioningSvc,
		Setup:        setupSvc,
		Accounts:     seeder,
		DB:           store,
		BodyLimit:    cfg.Server.BodyLimit,
	}
	limiter := middleware.NewRateLimiter(cfg.Rate)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(sfotel.HTTPMiddleware(cfg.Logging.Service))
	r.Use(sfhttp.Logger)
	r.Use(chimw.Recoverer)
	r.Use(sfhttp.SecurityHeaders)
	r.Use(sfhttp.CORS(cfg.Server.CORSOrigin))
	r.Use(chimw.Timeout(30 * time.Second))

	sfhttp.MountRoutes(r, handlers, authSvc, limiter, cfg.Auth)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		limiter.Run(gctx)
		return nil
	})
	g.Go(func() error {
		slog.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	return g.Wait()
}

// connectQueue returns the JetStream publisher, or a no-op queue when no
// NATS URL is configured.
func connectQueue(ctx context.Context, cfg config.NATS) (messagequeue.Queue, error) {
	if cfg.URL == "" {
		slog.Info("nats disabled, events are not published")
		return messagequeue.Noop{}, nil
	}
	q, err := sfnats.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("nats connected", "stream", cfg.Stream)
	return q, nil
}
