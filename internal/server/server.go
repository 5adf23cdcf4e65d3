package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	contractform "github.com/goliatone/go-contractform"
	postalcomponent "github.com/goliatone/go-contractform/components/postal"
	"github.com/goliatone/go-contractform/internal/config"
	"github.com/goliatone/go-contractform/pkg/postal"
	"github.com/goliatone/go-contractform/pkg/render"
	"github.com/goliatone/go-contractform/pkg/renderers/html"
	"github.com/goliatone/go-contractform/pkg/session"

	theme "github.com/goliatone/go-theme"
)

// ShutdownGrace bounds how long Run waits for in-flight requests.
const ShutdownGrace = 5 * time.Second

// Server wires sessions, renderers and routes.
type Server struct {
	cfg        config.Config
	logger     Logger
	httpClient *http.Client
	registry   *prometheus.Registry
	metrics    *postal.Metrics
	renderers  *render.Registry
	theme      *theme.RendererConfig
	sessions   *session.Manager[*Scope]
	mux        *http.ServeMux
}

// New builds a server for cfg. Defaults are applied to cfg first.
func New(cfg config.Config, opts ...Option) (*Server, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{cfg: cfg}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.httpClient == nil {
		s.httpClient = &http.Client{Timeout: cfg.Postal.Timeout}
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}

	metrics, err := postal.NewMetrics(s.registry)
	if err != nil {
		return nil, fmt.Errorf("server: metrics: %w", err)
	}
	s.metrics = metrics

	if s.renderers == nil {
		renderers, err := DefaultRenderers(cfg.Theme.Templates)
		if err != nil {
			return nil, err
		}
		s.renderers = renderers
	}

	selector, err := render.NewManifestSelector(cfg.Theme.Name, cfg.Theme.Variant, render.DefaultTheme())
	if err != nil {
		return nil, fmt.Errorf("server: theme: %w", err)
	}
	selection, err := selector.Select(cfg.Theme.Name, cfg.Theme.Variant)
	if err != nil {
		return nil, fmt.Errorf("server: theme: %w", err)
	}
	s.theme = render.ThemeConfig(selection, nil)

	sessions, err := session.NewManager(s.newScope, session.WithDispose(func(scope *Scope) error {
		return scope.Dispose()
	}))
	if err != nil {
		return nil, err
	}
	s.sessions = sessions

	if err := s.routes(); err != nil {
		return nil, err
	}
	return s, nil
}

// DefaultRenderers registers the html renderer (the fallback) plus the json
// and text renderers. A non-empty templatesDir overrides bundled templates.
func DefaultRenderers(templatesDir string) (*render.Registry, error) {
	return contractform.NewRegistry(html.WithTemplatesDir(templatesDir))
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Sessions exposes the session manager.
func (s *Server) Sessions() *session.Manager[*Scope] {
	return s.sessions
}

// Run serves on the configured address until ctx is done, sweeping idle
// sessions in the background, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()
	s.logger.Printf("listening on %s (postal %s)", s.cfg.Server.Addr, s.cfg.Postal.BaseURL)

	sweepEvery := s.cfg.Session.IdleTimeout / 2
	if sweepEvery < time.Second {
		sweepEvery = time.Second
	}
	ticker := time.NewTicker(sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case err := <-errChan:
			return fmt.Errorf("server: listen: %w", err)
		case <-ticker.C:
			if n, err := s.sessions.Sweep(s.cfg.Session.IdleTimeout); err != nil {
				s.logger.Printf("sweep sessions: %v", err)
			} else if n > 0 {
				s.logger.Printf("swept %d idle sessions", n)
			}
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownGrace)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Printf("shutdown: %v", err)
			}
			return s.Close()
		}
	}
}

// Close disposes every session.
func (s *Server) Close() error {
	return s.sessions.Close()
}

func (s *Server) routes() error {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)

	mux.HandleFunc("GET /contract", s.handleContract)
	mux.HandleFunc("POST /contract/administrative-data", s.handleAdministrativeData)
	mux.HandleFunc("POST /contract/modules/{key}", s.handleModule)
	mux.HandleFunc("GET /contract/debug", s.handleContractDebug)
	mux.HandleFunc("POST /contract/reset", s.handleContractReset)

	mux.HandleFunc("GET /address", s.handleAddress)
	mux.HandleFunc("POST /address/zip", s.handleAddressZip)
	mux.HandleFunc("POST /address/street/focus", s.handleAddressStreetFocus)
	mux.HandleFunc("POST /address/fields", s.handleAddressFields)
	mux.HandleFunc("POST /address/info", s.handleAddressInfo)
	mux.HandleFunc("POST /address/alert/close", s.handleAddressAlertClose)
	mux.HandleFunc("POST /address/submit", s.handleAddressSubmit)
	mux.HandleFunc("GET /address/state", s.handleAddressState)

	mux.HandleFunc("POST /session/close", s.handleSessionClose)

	lookups := postalcomponent.New(postalcomponent.WithResolver(func(r *http.Request) (postalcomponent.Lookup, error) {
		scope, err := s.existingScope(r)
		if err != nil {
			return nil, postalcomponent.StatusError{Code: http.StatusUnauthorized, Err: err}
		}
		return scope.Lookup, nil
	}))
	if _, err := lookups.RegisterRoutes(mux, "/"); err != nil {
		return err
	}

	mux.HandleFunc("GET /api/postal/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		if _, err := w.Write(postal.OpenAPIDocument()); err != nil {
			s.logger.Printf("write openapi document: %v", err)
		}
	})
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServerFS(html.AssetsFS())))
	if s.cfg.MetricsEnabled() {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.mux = mux
	return nil
}
