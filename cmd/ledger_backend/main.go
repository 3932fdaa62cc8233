package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/vistamar/estate_ledger_app/internal/adapters/database/pgsql"
	"github.com/vistamar/estate_ledger_app/internal/core/services"
	"github.com/vistamar/estate_ledger_app/internal/handlers"
	"github.com/vistamar/estate_ledger_app/internal/middleware"
	"github.com/vistamar/estate_ledger_app/internal/platform/config"
	"github.com/vistamar/estate_ledger_app/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// systemActorID stamps bootstrap mutations that have no authenticated caller.
const systemActorID = "system"

// @title Estate Ledger API
// @version 1.0
// @description Double-entry accounting backend for real-estate back offices.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(repos)

	// Bootstrap: chart of accounts and fiscal periods must exist before any
	// posting happens.
	if cfg.SeedOnStart {
		inserted, err := serviceContainer.Account.EnsureSeeded(ctx, systemActorID)
		if err != nil {
			logger.Error("Failed to seed chart of accounts", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if inserted > 0 {
			logger.Info("Seeded chart of accounts", slog.Int("inserted", inserted))
		}
		created, err := serviceContainer.Period.EnsureDefaultPeriods(ctx, systemActorID)
		if err != nil {
			logger.Error("Failed to create default fiscal periods", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if created > 0 {
			logger.Info("Created default fiscal periods", slog.Int("created", created))
		}
	}

	if cfg.ReconcileOnStart {
		summary, err := serviceContainer.Document.ReconcileUnposted(ctx, systemActorID)
		if err != nil {
			logger.Error("Startup reconciliation failed", slog.String("error", err.Error()))
		} else {
			logger.Info("Startup reconciliation completed",
				slog.Int("posted", summary.Posted),
				slog.Int("repaired", summary.Repaired),
				slog.Int("failed", summary.Failed))
		}
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, rate limiting)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid RATE_LIMIT value", slog.String("rate_limit", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(limiter.New(memory.NewStore(), rate)))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending migrations over a temporary database/sql
// connection using the pgx stdlib driver.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	if err := migrationDB.Ping(); err != nil {
		migrationDB.Close()
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		migrationDB.Close()
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		migrationDB.Close()
		return err
	}

	upErr := m.Up()
	sourceErr, dbErr := m.Close()
	if upErr != nil && upErr != migrate.ErrNoChange {
		return upErr
	}
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
