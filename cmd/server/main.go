// Package main implements the entry point for the routine API server,
// which manages recurring back-office routines: registering a routine
// expands its cadence into dated occurrence rows, and both levels move
// through an open/completed lifecycle.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/routine-api/internal/config"
	"github.com/phrazzld/routine-api/internal/platform/logger"
	"github.com/phrazzld/routine-api/internal/platform/postgres"
	"github.com/phrazzld/routine-api/internal/service"
	"github.com/phrazzld/routine-api/internal/service/identity"
	"github.com/phrazzld/routine-api/internal/store"
)

// application bundles the initialized dependencies the router needs.
type application struct {
	config            *config.Config
	logger            *slog.Logger
	db                *sql.DB
	seriesService     service.SeriesService
	occurrenceService service.OccurrenceService
	identityService   identity.Service
	tokenVerifier     identity.TokenVerifier
	directoryStore    store.DirectoryStore
}

func main() {
	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.serve(); err != nil {
		app.logger.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

// initializeApp loads configuration, sets up logging, connects to the
// database, applies migrations, and wires the service graph.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := postgres.RunMigrations(context.Background(), db, appLogger); err != nil {
		return nil, err
	}

	caps := postgres.NewSchemaCapabilities(db)
	seriesStore := postgres.NewPostgresSeriesStore(db, appLogger)
	occurrenceStore := postgres.NewPostgresOccurrenceStore(db, caps, appLogger)
	directoryStore := postgres.NewPostgresDirectoryStore(db, appLogger)

	seriesService, err := service.NewSeriesService(db, seriesStore, occurrenceStore, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create series service: %w", err)
	}
	occurrenceService, err := service.NewOccurrenceService(occurrenceStore, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create occurrence service: %w", err)
	}
	identityService, err := identity.NewService(directoryStore, cfg.Directory, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity service: %w", err)
	}
	tokenVerifier, err := identity.NewTokenVerifier(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create token verifier: %w", err)
	}

	return &application{
		config:            cfg,
		logger:            appLogger,
		db:                db,
		seriesService:     seriesService,
		occurrenceService: occurrenceService,
		identityService:   identityService,
		tokenVerifier:     tokenVerifier,
		directoryStore:    directoryStore,
	}, nil
}

// serve starts the HTTP server with graceful shutdown support.
func (app *application) serve() error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           app.setupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("Starting server", "port", app.config.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-shutdownCh:
		app.logger.Info("Shutting down server...")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("Server shutdown failed", "error", err)
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("Failed to close database connection", "error", err)
	}

	app.logger.Info("Server shutdown completed")
	return nil
}
