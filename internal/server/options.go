package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-contractform/pkg/render"
)

// Logger is the subset of *log.Logger the server writes to.
type Logger interface {
	Printf(format string, args ...any)
}

// Option configures a Server.
type Option func(*Server)

// WithLogger overrides the default log.Default() logger.
func WithLogger(logger Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHTTPClient sets the client used for postal lookups.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Server) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// WithRegistry sets the Prometheus registry backing /metrics and the lookup
// metrics.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(s *Server) {
		if registry != nil {
			s.registry = registry
		}
	}
}

// WithRenderers replaces the default html/json/text renderer registry.
func WithRenderers(renderers *render.Registry) Option {
	return func(s *Server) {
		if renderers != nil {
			s.renderers = renderers
		}
	}
}
