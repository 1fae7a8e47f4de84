// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
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
	"github.com/starford/folio/internal/docstore"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/paper"
	"github.com/starford/folio/internal/parser"
	"github.com/starford/folio/internal/site"
	"github.com/starford/folio/internal/sse"
	"github.com/starford/folio/internal/storage"
	"github.com/starford/folio/internal/watcher"
)

// NewLogger builds the structured JSON logger used across the application.
func NewLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// OpenStore opens the document store described by cfg.
func OpenStore(cfg DocumentsConfig) (*docstore.Store, error) {
	store, err := storage.NewFS(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	return docstore.New(store, parser.New(cfg.Suffix, cfg.HiddenMarker)), nil
}

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := app.logger
	if logger == nil {
		logger = NewLogger(cfg.App.LogLevel)
	}
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("documents_path", cfg.Documents.Path),
		slog.String("paper_base_url", cfg.Paper.BaseURL),
		slog.Bool("events_enabled", cfg.Events.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	docs, err := OpenStore(cfg.Documents)
	if err != nil {
		return err
	}

	projects, err := loadProjects(cfg.Site.ProjectsPath, logger)
	if err != nil {
		return err
	}

	deps := api.Deps{
		Documents:  docs,
		Paper:      paper.NewClient(cfg.Paper.BaseURL, cfg.Paper.Timeout),
		Projects:   projects,
		Limiter:    site.NewLimiter(cfg.Site.ContactLimit, cfg.Site.ContactWindow),
		HomeURL:    cfg.Site.HomeURL,
		DiscordURL: cfg.Site.DiscordURL,
	}
	if cfg.Site.WebhookURL != "" {
		deps.Contact = site.NewNotifier(cfg.Site.WebhookURL, cfg.Paper.Timeout)
	} else {
		logger.Warn("site.webhook_url not set, contact form disabled")
	}

	var hub *sse.Hub
	if cfg.Events.Enabled {
		hub = sse.NewHub(cfg.Events.Throttle, listSummaries(docs))
		defer hub.Close()
		deps.Events = hub
	}

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		writeStatus(w, http.StatusOK, "ok")
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		if _, err := os.Stat(cfg.Documents.Path); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "documents unavailable")
			return
		}
		writeStatus(w, http.StatusOK, "ok")
	})

	r.Mount("/", api.NewRouter(deps))

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Start file watcher feeding the event hub.
	if hub != nil {
		g.Go(func() error {
			err := watcher.Watch(gCtx, cfg.Documents.Path, docs.Parser(), logger, hub.Notify)
			if err != nil {
				// The API keeps serving without change events.
				logger.Error("watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

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

		// Event streams never finish on their own; end them first.
		if hub != nil {
			hub.Close()
		}

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

// errShutdown cancels the group context so the watcher stops with the server.
var errShutdown = errors.New("shutdown")

// loadProjects reads the project catalogue. A missing file yields an empty
// catalogue; an unreadable or malformed one is a startup error.
func loadProjects(path string, logger *slog.Logger) ([]models.Project, error) {
	if path == "" {
		return nil, nil
	}
	projects, err := site.LoadProjects(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("projects file not found", slog.String("path", path))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	return projects, nil
}

// listSummaries adapts the document store to the hub's snapshot listing.
func listSummaries(docs *docstore.Store) sse.Lister {
	return func(ctx context.Context) ([]sse.Summary, error) {
		all, err := docs.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]sse.Summary, 0, len(all))
		for _, d := range all {
			out = append(out, sse.Summarize(d))
		}
		return out, nil
	}
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = fmt.Fprintf(w, `{"status":%q}`, status)
}
