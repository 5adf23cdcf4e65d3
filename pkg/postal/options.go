package postal

import (
	"log"
	"net/http"
	"strings"

	"github.com/goliatone/go-contractform/pkg/session"
)

const (
	// DefaultBaseURL is the Postdirekt PLZ lookup servlet.
	DefaultBaseURL = "https://www.postdirekt.de/plzserver/PlzAjaxServlet"
	// DefaultLocale is the only locale the widgets support.
	DefaultLocale = "de_DE"
)

// Logger is the subset of *log.Logger the client writes failures to.
type Logger interface {
	Printf(format string, args ...any)
}

// Option configures the client before construction.
type Option func(*config)

type config struct {
	baseURL        string
	locale         string
	userAgent      string
	httpClient     *http.Client
	store          session.Store
	logger         Logger
	metrics        *Metrics
	validateSchema bool
}

func defaultConfig() config {
	return config{
		baseURL:        DefaultBaseURL,
		locale:         DefaultLocale,
		validateSchema: true,
	}
}

// WithBaseURL points the client at another servlet, e.g. a CORS proxy or a
// test server.
func WithBaseURL(raw string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			cfg.baseURL = trimmed
		}
	}
}

// WithLocale overrides the lang query parameter.
func WithLocale(locale string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(locale); trimmed != "" {
			cfg.locale = trimmed
		}
	}
}

// WithUserAgent sets the User-Agent header on outgoing requests.
func WithUserAgent(ua string) Option {
	return func(cfg *config) {
		cfg.userAgent = strings.TrimSpace(ua)
	}
}

// WithHTTPClient injects the HTTP client used for lookups.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *config) {
		if client != nil {
			cfg.httpClient = client
		}
	}
}

// WithStore sets the session cache. Dispose clears this store entirely, so
// pass a store scoped to the session rather than a shared one.
func WithStore(store session.Store) Option {
	return func(cfg *config) {
		if store != nil {
			cfg.store = store
		}
	}
}

// WithLogger routes failure logs to logger.
func WithLogger(logger Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithMetrics records request, cache and latency metrics.
func WithMetrics(metrics *Metrics) Option {
	return func(cfg *config) {
		cfg.metrics = metrics
	}
}

// WithResponseSchema toggles validation of response bodies against the
// embedded OpenAPI description of the servlet. Enabled by default.
func WithResponseSchema(enabled bool) Option {
	return func(cfg *config) {
		cfg.validateSchema = enabled
	}
}

func (cfg *config) applyDefaults() {
	if cfg.httpClient == nil {
		cfg.httpClient = &http.Client{}
	}
	if cfg.store == nil {
		cfg.store = session.NewMemoryStore()
	}
	if cfg.logger == nil {
		cfg.logger = log.Default()
	}
}
