// Package server exposes the live map, its JSON API and the map editor over
// HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"metromap/pkg/editor"
	"metromap/pkg/metrics"
	"metromap/pkg/poller"
	"metromap/pkg/render"
	"metromap/pkg/surface"
	"metromap/pkg/types"
)

// SessionCookie carries the viewer session id.
const SessionCookie = "metromap_session"

// VehicleSnapshotter returns the latest vehicle poll.
type VehicleSnapshotter interface {
	Snapshot() poller.Snapshot
}

// Upstream is the transit API the proxy endpoints pass through to.
type Upstream interface {
	HasAPIKey() bool
	FetchVehicles(ctx context.Context) (*types.Document, error)
	FetchPredictions(ctx context.Context, stopID string) (*types.Document, error)
}

// Config holds server configuration.
type Config struct {
	Addr        string
	MapEditable bool
	StaticDir   string
	CORSOrigins []string
	// Collector, when set, is served on /metrics.
	Collector *metrics.Collector
}

// Deps are the components the server routes requests to.
type Deps struct {
	Store    *surface.Store
	Vehicles VehicleSnapshotter
	Upstream Upstream
	Renderer *render.Renderer
	// Editor is required when MapEditable is set.
	Editor *editor.Workspace
}

// Server serves the map pages and API.
type Server struct {
	config Config
	deps   Deps
	router chi.Router
	http   *http.Server
}

// New validates the configuration and builds the router.
func New(config Config, deps Deps) (*Server, error) {
	if deps.Store == nil {
		return nil, errors.New("session store is required")
	}
	if deps.Vehicles == nil {
		return nil, errors.New("vehicle source is required")
	}
	if deps.Upstream == nil {
		return nil, errors.New("upstream client is required")
	}
	if deps.Renderer == nil {
		return nil, errors.New("renderer is required")
	}
	if config.MapEditable && deps.Editor == nil {
		return nil, errors.New("editor workspace is required when the map is editable")
	}
	if config.Addr == "" {
		config.Addr = ":8080"
	}
	if len(config.CORSOrigins) == 0 {
		config.CORSOrigins = []string{"*"}
	}

	s := &Server{config: config, deps: deps}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.config.Collector != nil {
		r.Handle("/metrics", s.config.Collector.Handler())
	}

	r.Get("/", s.handlePage)
	r.Get("/frame", s.handleFrame)

	r.Route("/api", func(r chi.Router) {
		r.Get("/vehicles", s.handleVehicles)
		r.Post("/hover", s.handleHover)
		r.Delete("/hover", s.handleUnhover)

		r.Get("/panel", s.handleGetPanel)
		r.Post("/panel", s.handleOpenPanel)
		r.Post("/panel/click", s.handleClick)
		r.Delete("/panel", s.handleClosePanel)

		r.Get("/stations", s.handleStations)
		r.Get("/stations/hit", s.handleHit)

		r.Get("/upstream/vehicles", s.handleUpstreamVehicles)
		r.Get("/upstream/predictions", s.handleUpstreamPredictions)

		r.Route("/editor", func(r chi.Router) {
			r.Use(s.requireEditable)
			r.Get("/", s.handleEditorState)
			r.Get("/export", s.handleEditorExport)
			r.Post("/line", s.handleEditorLine)
			r.Post("/arm", s.handleEditorArm)
			r.Post("/click", s.handleEditorClick)
			r.Post("/drag/start", s.handleEditorDragStart)
			r.Post("/drag", s.handleEditorDrag)
			r.Post("/drag/end", s.handleEditorDragEnd)
			r.Post("/nudge", s.handleEditorNudge)
			r.Post("/set", s.handleEditorSet)
			r.Delete("/entries/{stopID}", s.handleEditorDelete)
			r.Post("/zoom", s.handleEditorZoom)
			r.Post("/pan", s.handleEditorPan)
			r.Post("/reset-view", s.handleEditorResetView)
			r.Post("/grid", s.handleEditorGrid)
			r.Post("/filter", s.handleEditorFilter)
			r.Post("/dismiss", s.handleEditorDismiss)
		})
	})

	r.Get("/map-editor", s.handleEditorPage)
	r.With(s.requireEditable).Get("/map-editor/fragment", s.handleEditorFragment)

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		r.Handle("/static/*", http.StripPrefix("/static/", fs))
	}
	return r
}

// Handler returns the instrumented root handler.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.router, "metromap")
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.http = &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "addr", s.config.Addr, "map_editable", s.config.MapEditable)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	slog.Info("HTTP server stopped")
	return nil
}
