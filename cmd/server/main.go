// bookmarkd - personal bookmarking service
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

	"github.com/ashureev/bookmarkd/internal/api"
	"github.com/ashureev/bookmarkd/internal/appconf"
	"github.com/ashureev/bookmarkd/internal/config"
	"github.com/ashureev/bookmarkd/internal/middleware"
	"github.com/ashureev/bookmarkd/internal/session"
	"github.com/ashureev/bookmarkd/internal/store"
	"github.com/ashureev/bookmarkd/internal/timezone"
	"github.com/ashureev/bookmarkd/web"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "installed", appconf.Exists(cfg.ConfigPath))

	// Initialize dependencies. An unusable data directory is reported to the
	// operator by the installer, so the database is opened lazily.
	repo := store.NewLazySQLite(cfg.DBPath)
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Warn("Database not available yet", "path", cfg.DBPath, "error", err)
	} else {
		slog.Info("Database connected")
	}

	// A broken session directory is reported to the operator by the installer.
	sessions, err := session.NewManager(cfg.Session)
	if err != nil {
		slog.Warn("Session storage is not usable", "path", sessions.SavePath(), "error", err)
	}
	if cfg.Session.Key == "" {
		slog.Warn("SESSION_KEY not set, sessions will not survive a restart")
	}

	zones, err := timezone.LoadIdentifiers(cfg.ZoneinfoDir)
	if err != nil {
		slog.Warn("Falling back to built-in timezone list", "error", err)
		zones = timezone.Fallback
	}
	catalog := timezone.New(zones, cfg.DefaultTimezone)
	slog.Info("Timezone catalog loaded", "zones", len(zones), "default", catalog.Default.String())

	tmpl, err := web.Templates()
	if err != nil {
		slog.Error("Failed to load templates", "error", err)
		os.Exit(1)
	}

	// Initialize handlers.
	baseHandler := api.NewHandler(repo, cfg, tmpl)
	installHandler := api.NewInstallHandler(baseHandler, catalog, sessions)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))
	r.Use(middleware.SecureHeaders)

	baseHandler.RegisterHealth(r)
	baseHandler.RegisterHome(r)
	installHandler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
