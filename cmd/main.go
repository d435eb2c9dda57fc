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

	"github.com/Dosada05/bracket-live/brackets"
	"github.com/Dosada05/bracket-live/config"
	"github.com/Dosada05/bracket-live/db"
	"github.com/Dosada05/bracket-live/handlers"
	"github.com/Dosada05/bracket-live/realtime"
	"github.com/Dosada05/bracket-live/repositories"
	api "github.com/Dosada05/bracket-live/routes"
	"github.com/Dosada05/bracket-live/services"
	"github.com/Dosada05/bracket-live/storage"
	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.Int("max_players", cfg.MaxPlayers),
		slog.Bool("database", cfg.DatabaseURL != ""))

	if err := run(cfg, logger); err != nil {
		logger.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("application exited")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Bracket ledger (optional)
	var eventLog *services.EventLog
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(ctx, cfg.DatabaseURL, cfg.DatabaseTimeout)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer func() {
			if err := dbConn.Close(); err != nil {
				logger.Error("failed to close database connection", slog.Any("error", err))
			} else {
				logger.Info("database connection closed")
			}
		}()
		if err := db.Migrate(ctx, dbConn); err != nil {
			return err
		}
		logger.Info("database connection established, migrations applied")

		eventLog = services.NewEventLog(repositories.NewPostgresEventRepository(dbConn), logger)
	} else {
		logger.Info("DATABASE_URL not set, bracket history disabled")
	}

	// Bracket archive (optional)
	var archive *services.ArchiveService
	r2Cfg := storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	}
	if r2Cfg.Enabled() {
		uploader, err := storage.NewCloudflareR2Uploader(ctx, r2Cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
		}
		archive = services.NewArchiveService(uploader, logger)
		logger.Info("Cloudflare R2 archive enabled", slog.String("bucket", cfg.R2BucketName))
	}

	wsHub := realtime.NewHub(logger)

	tournamentService := services.NewTournamentService(services.TournamentServiceConfig{
		MaxPlayers: cfg.MaxPlayers,
		Generator:  brackets.NewSingleEliminationGenerator(),
		Publisher:  wsHub,
		Events:     eventLog,
		Archiver:   archive,
		Logger:     logger,
	})

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		logger,
		cfg.AllowedOrigins,
		handlers.NewTournamentHandler(tournamentService, eventLog),
		handlers.NewParticipantHandler(tournamentService),
		handlers.NewMatchHandler(tournamentService),
		handlers.NewWebSocketHandler(wsHub, tournamentService, cfg.AllowedOrigins, logger),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return wsHub.Run(gctx)
	})

	if eventLog != nil {
		g.Go(func() error {
			return eventLog.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			return err
		}
		if archive != nil {
			if err := archive.Shutdown(shutdownCtx); err != nil {
				logger.Warn("pending bracket archives did not finish", slog.Any("error", err))
			}
		}
		logger.Info("server shutdown complete")
		return nil
	})

	return g.Wait()
}
