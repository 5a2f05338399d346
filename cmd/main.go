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

	"github.com/Dosada05/bracket-pool/config"
	"github.com/Dosada05/bracket-pool/db"
	"github.com/Dosada05/bracket-pool/handlers"
	"github.com/Dosada05/bracket-pool/hub"
	"github.com/Dosada05/bracket-pool/repositories"
	api "github.com/Dosada05/bracket-pool/routes"
	"github.com/Dosada05/bracket-pool/services"
	"github.com/Dosada05/bracket-pool/storage"
	"github.com/go-chi/chi/v5"
)

const shutdownTimeout = 15 * time.Second

// @title Bracket Pool API
// @version 1.0
// @description Tournament bracket pool: seeding, picks, results and standings.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.Int("current_year", cfg.CurrentYear),
		slog.Int("underdog_bonus", cfg.Scoring.UnderdogBonus),
	)

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var store storage.ObjectStore
	if cfg.R2Enabled() {
		store, err = storage.NewR2Store(ctx, storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 store", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 store initialized", slog.String("bucket", cfg.R2BucketName))
	} else {
		logger.Warn("R2 not configured, standings export disabled")
	}

	wsHub := hub.NewHub(logger)
	go wsHub.Run(ctx)

	seedingRepo := repositories.NewPostgresSeedingRepository(dbConn)
	entryRepo := repositories.NewPostgresEntryRepository(dbConn)
	resultRepo := repositories.NewPostgresResultRepository(dbConn)

	bracketService := services.NewBracketService(seedingRepo, cfg.Scoring, cfg.FinalFourPairing, logger)
	entryService := services.NewEntryService(entryRepo, resultRepo, bracketService, logger)
	standingsService := services.NewStandingsService(entryRepo, resultRepo, bracketService, logger)
	resultService := services.NewResultService(resultRepo, bracketService, standingsService, wsHub, logger)
	exportService := services.NewExportService(standingsService, store, logger)
	logger.Info("services initialized")

	if store != nil && cfg.ExportInterval > 0 {
		go runExportScheduler(ctx, logger, exportService, cfg.CurrentYear, cfg.ExportInterval)
	}

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Bracket:   handlers.NewBracketHandler(bracketService),
		Entry:     handlers.NewEntryHandler(entryService),
		Result:    handlers.NewResultHandler(resultService),
		Standings: handlers.NewStandingsHandler(standingsService, exportService),
		WebSocket: handlers.NewWebSocketHandler(wsHub, bracketService, cfg.CORSAllowedOrigins, logger),
	}, api.Options{
		JWTSecret:      []byte(cfg.JWTSecretKey),
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			stop()
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		stop()

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}

// runExportScheduler uploads the current year's standings once at startup and then on every tick.
func runExportScheduler(ctx context.Context, logger *slog.Logger, exports services.ExportService, year int, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	logger.Info("standings export scheduler started", slog.Int("year", year), slog.Duration("interval", interval))

	export := func() {
		exportCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()
		location, err := exports.ExportStandings(exportCtx, year)
		switch {
		case errors.Is(err, services.ErrSeedingNotFound):
			logger.Debug("scheduler: no seeding yet, export skipped", slog.Int("year", year))
		case err != nil:
			logger.Error("scheduler: standings export failed", slog.Int("year", year), slog.Any("error", err))
		default:
			logger.Info("scheduler: standings exported", slog.String("location", location))
		}
	}

	export()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			export()
		}
	}
}
