// Package internal provides the main application initialization and runtime logic.
package internal

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
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/folio/internal/api"
	"github.com/starford/folio/internal/auth"
	"github.com/starford/folio/internal/catalog"
	"github.com/starford/folio/internal/mcpserver"
	"github.com/starford/folio/internal/settings"
	"github.com/starford/folio/internal/sse"
	"github.com/starford/folio/internal/storage"
	"github.com/starford/folio/internal/watch"
	"github.com/starford/folio/internal/web"
)

// stack is the storage and domain services shared by the HTTP server and
// the MCP server.
type stack struct {
	logger   *slog.Logger
	store    *storage.Store
	catalog  *catalog.Service
	settings *settings.Service
}

func (app *application) build() (*stack, error) {
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(app.logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("version", app.version),
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("data_dir", cfg.Data.Dir),
		slog.String("uploads_dir", cfg.Uploads.Dir),
		slog.String("auth_mode", cfg.Auth.Mode),
		slog.String("log_level", cfg.App.LogLevel.String()))

	dataFS, err := storage.NewFS(cfg.Data.Dir)
	if err != nil {
		return nil, fmt.Errorf("init data storage: %w", err)
	}
	uploadsFS, err := storage.NewFS(cfg.Uploads.Dir)
	if err != nil {
		return nil, fmt.Errorf("init uploads storage: %w", err)
	}

	store := storage.NewStore(dataFS, uploadsFS, storage.Files{
		Cards:    cfg.Data.CardsFile,
		Settings: cfg.Data.SettingsFile,
	}, logger)

	return &stack{
		logger:   logger,
		store:    store,
		catalog:  catalog.NewService(store),
		settings: settings.NewService(store),
	}, nil
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := newApplication(opts)
	st, err := app.build()
	if err != nil {
		return err
	}
	cfg := app.config
	logger := st.logger

	authn, err := auth.New(auth.Credentials{
		Username:     cfg.Auth.Username,
		Password:     cfg.Auth.Password,
		PasswordHash: cfg.Auth.PasswordHash,
	}, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("init auth: %w", err)
	}
	if cfg.Auth.AuthEnabled() && cfg.Auth.JWTSecret == "" {
		logger.Warn("auth.jwt_secret is empty, sessions will not survive a restart")
	}
	if !cfg.Auth.AuthEnabled() {
		logger.Warn("authentication disabled, admin mutations are open")
	}

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	uploads := api.NewUploadHandler(st.store, cfg.App.UploadMaxBytes())

	apiRouter := api.NewRouter(api.Deps{
		Catalog:         st.catalog,
		Settings:        st.settings,
		Uploads:         uploads,
		Auth:            authn,
		AuthEnabled:     cfg.Auth.AuthEnabled(),
		LoginRatePerMin: cfg.Auth.LoginRatePerMin,
		Events:          broker,
		SSE:             broker,
	})

	pages, err := web.NewHandler(st.catalog, st.settings, cfg.Site.WebSite())
	if err != nil {
		return fmt.Errorf("init pages: %w", err)
	}

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	// Stored uploads are public.
	r.Get(storage.UploadURLPrefix+"{filename}", uploads.ServeFile)

	// Server-rendered pages.
	pages.Routes(r)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Writes made by other processes (the MCP server, a text editor) reach
	// open pages through the watcher.
	files := st.store.Files()
	g.Go(func() error {
		err := watch.Watch(gCtx, st.store.DataDir(), []string{files.Cards, files.Settings},
			watch.DefaultDebounce, logger, broker.PublishReload)
		if err != nil {
			logger.Warn("file watcher stopped", slog.String("error", err.Error()))
		}
		return nil
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		// Open SSE streams would otherwise hold Shutdown until the timeout.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group so the watcher exits with the server.
var errShutdown = errors.New("shutdown")

// RunMCP serves the card tools over stdio until the client disconnects.
func RunMCP(_ context.Context, opts ...Option) error {
	app := newApplication(opts)
	st, err := app.build()
	if err != nil {
		return err
	}

	st.logger.Info("MCP server starting", slog.String("version", app.version))
	srv := mcpserver.New(st.catalog, st.settings, st.store, app.version)
	if err := srv.ServeStdio(); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
