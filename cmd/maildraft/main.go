package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/maildraft/internal/adapter/driven/gemini"
	"github.com/ericfisherdev/maildraft/internal/adapter/driven/memory"
	sqliteadapter "github.com/ericfisherdev/maildraft/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/maildraft/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/maildraft/internal/adapter/driving/web"
	"github.com/ericfisherdev/maildraft/internal/application"
	"github.com/ericfisherdev/maildraft/internal/config"
	"github.com/ericfisherdev/maildraft/internal/domain/port/driven"
)

// writeTimeoutMargin is added to the Gemini timeout so a slow completion can
// still be written back before the server gives up on the response.
const writeTimeoutMargin = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load .env (if present) and configuration.
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)
	logger.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"gemini_timeout", cfg.GeminiTimeout,
		"env_api_key", cfg.GeminiAPIKey != "",
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open the credential store.
	var store driven.CredentialStore
	if cfg.UsesMemoryStore() {
		store = memory.NewCredentialStore()
		logger.Info("using in-memory credential store, saved keys are lost on restart")
	} else {
		db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
		logger.Info("database opened", "path", db.Path())

		if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
			return err
		}
		logger.Info("migrations complete")

		repo := sqliteadapter.NewCredentialRepo(db, cfg.SecretKey)
		if !repo.Encrypted() {
			logger.Warn("MAILDRAFT_SECRET_KEY not set, API keys are stored unencrypted")
		}
		store = repo
	}

	// 4. Wire adapters and services.
	client := gemini.NewClient(cfg.GeminiEndpoint, cfg.GeminiTimeout, logger)
	credentialSvc := application.NewCredentialService(store, client, cfg.CredentialFallbacks(), logger)
	generationSvc := application.NewGenerationService(client, credentialSvc, application.NewEmailSlot(), logger)

	// 5. Register API and GUI routes on one mux.
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, httphandler.NewHandler(generationSvc, credentialSvc, logger))
	webhandler.RegisterRoutes(mux, webhandler.NewHandler(generationSvc, credentialSvc, logger))

	handler := httphandler.ApplyMiddleware(mux, logger)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.GeminiTimeout + writeTimeoutMargin,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	logger.Info("maildraft started", "listen_addr", cfg.ListenAddr)

	// 6. Wait for shutdown signal.
	<-ctx.Done()
	logger.Info("shutting down")

	// 7. Graceful shutdown with 10s timeout so an in-flight generation can finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}
