// Copyright (c) 2025-2026 Senja Labs
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/senjalabs/senja-web/internal/api"
	"github.com/senjalabs/senja-web/internal/config"
	"github.com/senjalabs/senja-web/internal/handler"
	"github.com/senjalabs/senja-web/internal/i18n"
	"github.com/senjalabs/senja-web/internal/logging"
	"github.com/senjalabs/senja-web/internal/middleware"
	"github.com/senjalabs/senja-web/internal/query"
	"github.com/senjalabs/senja-web/internal/render"
	"github.com/senjalabs/senja-web/internal/scheduler"
	"github.com/senjalabs/senja-web/internal/session"
	"github.com/senjalabs/senja-web/internal/store"
	"github.com/senjalabs/senja-web/internal/version"
	"github.com/senjalabs/senja-web/web"
)

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Plan with Senja - event discovery and booking\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SENJA_API_URL          Base URL of the events API (required)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SENJA_SESSION_SECRET   Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SENJA_DB_PATH          SQLite session store path (default: ./data/senja.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SENJA_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SENJA_ENV              Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SENJA_DEFAULT_LANG     Default UI language (default: id)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SENJA_REDIS_URL        Redis URL for the query cache (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("senja %s\n", version.Version)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger; the recent-warnings buffer feeds the health endpoint
	recent := logging.Setup(cfg.LogLevel)

	if err := i18n.Init(cfg.DefaultLang); err != nil {
		return fmt.Errorf("initializing i18n: %w", err)
	}
	slog.Info("i18n initialized", "languages", i18n.SupportedLanguages)

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// The SQLite database only backs the session store
	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	sessionManager := session.New(cfg, db)
	slog.Info("session manager initialized")

	// Query cache backend: Redis when configured, in-process memory otherwise
	var cacheStore query.Store
	if cfg.UseRedisCache() {
		cacheStore, err = query.NewRedisStore(cfg.RedisURL, cfg.CachePrefix, time.Duration(cfg.CacheTTL)*time.Second)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		slog.Info("query cache initialized", "backend", "redis", "url", cfg.RedisURL)
	} else {
		cacheStore = query.NewMemoryStore(query.MemoryStoreOptions{
			DefaultTTL:      time.Duration(cfg.CacheTTL) * time.Second,
			MaxItems:        cfg.CacheMaxSize,
			CleanupInterval: time.Minute,
		})
		slog.Info("query cache initialized", "backend", "memory")
	}
	queries := query.NewManager(cacheStore)
	defer func() {
		if err := queries.Close(); err != nil {
			slog.Error("error closing query cache", "error", err)
		}
	}()

	// API client reads its bearer token from the request's session context
	apiClient := api.New(cfg.APIBaseURL, func(ctx context.Context) string {
		return session.Token(ctx, sessionManager)
	})

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	h := handler.New(apiClient, queries, renderer, sessionManager, recent)

	sched := scheduler.New(apiClient, queries, slog.Default())
	if err := sched.Start(cfg.RefreshSpec); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	// Throttle credential submissions per client IP
	authThrottle := middleware.NewAuthThrottle(1, 5)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))

	// Operational endpoints skip sessions and CSRF
	r.Get("/healthz", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	// Static assets: cache for 1 year
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle("/static/*", staticCache(31536000)(http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))))

	// HTML routes
	r.Group(func(r chi.Router) {
		r.Use(sessionManager.LoadAndSave)
		r.Use(middleware.CSRF([]byte(cfg.SessionSecret), cfg.IsDevelopment()))
		r.Use(middleware.Language(sessionManager))
		r.Use(middleware.LoadUser(sessionManager))

		// Public
		r.Get("/", h.ListEvents)
		r.Get("/events/{id}", h.ShowEvent)
		r.Get("/login", h.LoginForm)
		r.With(authThrottle.Middleware()).Post("/login", h.Login)
		r.Get("/register", h.RegisterForm)
		r.With(authThrottle.Middleware()).Post("/register", h.Register)
		r.Post("/logout", h.Logout)

		// Authenticated
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser(sessionManager))
			r.Get("/events/new", h.NewEventForm)
			r.Post("/events/new", h.CreateEvent)
			r.Post("/events/{id}/book", h.BookEvent)
			r.Get("/bookings", h.ListBookings)
			r.Post("/bookings/{id}/cancel", h.StartCancel)
			r.Post("/bookings/{id}/cancel/confirm", h.ConfirmCancel)
			r.Post("/bookings/{id}/cancel/dismiss", h.DismissCancel)
		})
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// staticCache sets a long-lived Cache-Control header for immutable assets.
func staticCache(maxAge int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAge))
			next.ServeHTTP(w, r)
		})
	}
}
