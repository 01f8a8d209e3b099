package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/pos_ledger/internal/core/ports/services"
	coreservices "github.com/SscSPs/pos_ledger/internal/core/services"
	"github.com/SscSPs/pos_ledger/internal/events"
	"github.com/SscSPs/pos_ledger/internal/handlers"
	"github.com/SscSPs/pos_ledger/internal/jobs"
	"github.com/SscSPs/pos_ledger/internal/middleware"
	"github.com/SscSPs/pos_ledger/internal/platform/config"
	"github.com/SscSPs/pos_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/pos_ledger/pkg/database"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title POS Ledger API
// @version 1.0
// @description Cash register, customer account and stock ledger of the point of sale.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Ledger backend stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		return err
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if cfg.RunMigrations {
		if err := runMigrations(logger, cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			return err
		}
	}

	var publisher services.EventPublisher = events.LogPublisher{}
	if rdb := database.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); rdb != nil {
		defer rdb.Close()
		publisher = events.MultiPublisher{events.LogPublisher{}, events.NewRedisPublisher(rdb, cfg.EventsChannelPrefix)}
		logger.Info("Publishing ledger events to Redis", slog.String("channel_prefix", cfg.EventsChannelPrefix))
	}

	repos := pgsql.NewRepositoryProvider(dbPool, cfg.LedgerTxTimeout)
	container := coreservices.NewServiceContainer(cfg, repos, publisher)

	scheduler := jobs.NewScheduler(logger)
	if err := scheduler.AddJob(cfg.StaleSessionCheckSchedule, jobs.NewStaleSessionJob(container.CashRegister, publisher, logger)); err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	if err := r.SetTrustedProxies(nil); err != nil {
		return err
	}

	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		logger.Warn("Invalid RATE_LIMIT, rate limiting disabled", slog.String("rate", cfg.RateLimit), slog.String("error", err.Error()))
		rateLimiter = nil
	}
	if err := handlers.RegisterRoutes(r, cfg, container, rateLimiter); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func runMigrations(logger *slog.Logger, databaseURL, migrationsPath string) error {
	logger.Info("Running database migrations...")
	// Using pgx/v5/stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(migrationsPath, "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
