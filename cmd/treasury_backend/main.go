package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/domain"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/events"
	portsrepo "github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/ports/repositories"
	portssvc "github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/ports/services"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/core/services"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/handlers"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/middleware"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/platform/config"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/repositories/database/pgsql"
	"github.com/Desmondwr/payrovaHR-backend-sub000/pkg/database"
)

// @title Treasury Backend API
// @version 1.0
// @description Funding sources, payment batches, the treasury ledger and bank reconciliation.

// @host localhost:8080
// @BasePath /api/treasury
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)

	var emitter events.Emitter
	if posthogEmitter := events.NewPosthogEmitter(cfg.PostHogAPIKey, cfg.PostHogEndpoint, logger); posthogEmitter != nil {
		defer posthogEmitter.Close()
		emitter = posthogEmitter
	}

	serviceContainer := services.NewServiceContainer(repos, emitter)

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	if cfg.AutoMatchInterval > 0 {
		go runAutoMatchSweep(context.Background(), cfg.AutoMatchInterval, repos.StatementRepo, serviceContainer, logger)
	}

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations before the server starts
// serving.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	// Migrations run over a standard sql.DB connection; the pgx stdlib
	// driver keeps it compatible with the main pool.
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		logger.Error("Failed to open database connection for migrations", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		logger.Error("Failed to ping database for migrations", slog.String("error", err.Error()))
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		logger.Error("Could not create postgres driver instance for migrations", slog.String("error", err.Error()))
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		logger.Error("Could not create migrate instance", slog.String("error", err.Error()))
		return err
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		logger.Error("Failed to apply migrations", slog.String("error", upErr.Error()))
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		logger.Error("Migration source error", slog.String("error", sourceErr.Error()))
		return sourceErr
	}
	if dbErr != nil {
		logger.Error("Migration database error", slog.String("error", dbErr.Error()))
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// runAutoMatchSweep periodically runs the matcher over statements still in
// IMPORTED, for institutions that opted into automatic matching. Manual
// auto-match via the API works independently of this loop.
func runAutoMatchSweep(
	ctx context.Context,
	interval time.Duration,
	statementRepo portsrepo.StatementRepository,
	svc *portssvc.ServiceContainer,
	logger *slog.Logger,
) {
	const sweepBatchSize = 50

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		stmts, err := statementRepo.FindStatementsByStatus(ctx, domain.StatementImported, sweepBatchSize)
		if err != nil {
			logger.Error("Auto-match sweep failed to list statements", slog.String("error", err.Error()))
			continue
		}

		for _, stmt := range stmts {
			instCfg, err := svc.Config.GetOrCreate(ctx, stmt.InstitutionID)
			if err != nil {
				logger.Error("Auto-match sweep failed to load configuration",
					slog.String("institution_id", stmt.InstitutionID), slog.String("error", err.Error()))
				continue
			}
			if !instCfg.AutoMatchEnabled || !instCfg.ReconciliationEnabled {
				continue
			}

			result, err := svc.Reconciliation.AutoMatch(ctx, stmt.InstitutionID, stmt.StatementID, "system")
			if err != nil {
				logger.Error("Auto-match sweep failed on statement",
					slog.String("statement_id", stmt.StatementID), slog.String("error", err.Error()))
				continue
			}
			logger.Info("Auto-match sweep processed statement",
				slog.String("statement_id", stmt.StatementID),
				slog.Int("suggested", result.Suggested),
				slog.Int("auto_confirmed", result.AutoConfirmed))
		}
	}
}
