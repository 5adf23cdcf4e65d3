// Package config loads the contractform YAML configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable holding the default config path.
const EnvPath = "CONTRACTFORM_CONFIG"

// Session store kinds.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config is the root configuration document.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Postal   PostalConfig   `yaml:"postal"`
	Session  SessionConfig  `yaml:"session"`
	Theme    ThemeConfig    `yaml:"theme"`
	Address  AddressConfig  `yaml:"address"`
	Contract ContractConfig `yaml:"contract"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// Metrics toggles the /metrics endpoint.
	Metrics *bool `yaml:"metrics"`
}

type PostalConfig struct {
	BaseURL   string        `yaml:"baseURL"`
	Locale    string        `yaml:"locale"`
	UserAgent string        `yaml:"userAgent"`
	Timeout   time.Duration `yaml:"timeout"`
	// ValidateResponses checks lookup payloads against the embedded OpenAPI
	// document.
	ValidateResponses *bool `yaml:"validateResponses"`
}

type SessionConfig struct {
	Store string `yaml:"store"`
	// Dir holds one SQLite database per session when Store is sqlite.
	Dir         string        `yaml:"dir"`
	IdleTimeout time.Duration `yaml:"idleTimeout"`
	CookieName  string        `yaml:"cookieName"`
}

type ThemeConfig struct {
	Name    string `yaml:"name"`
	Variant string `yaml:"variant"`
	// Templates is an optional directory whose templates replace the bundled
	// ones with the same name.
	Templates string `yaml:"templates"`
}

type AddressConfig struct {
	Forms []string `yaml:"forms"`
}

type ContractConfig struct {
	// Fixture is an optional YAML or JSON contract loaded instead of the
	// built-in demo contract.
	Fixture string `yaml:"fixture"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset values.
func (c *Config) ApplyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.Metrics == nil {
		c.Server.Metrics = boolPtr(true)
	}
	if c.Postal.BaseURL == "" {
		c.Postal.BaseURL = "https://www.postdirekt.de/plzserver/PlzAjaxServlet"
	}
	if c.Postal.Locale == "" {
		c.Postal.Locale = "de_DE"
	}
	if c.Postal.ValidateResponses == nil {
		c.Postal.ValidateResponses = boolPtr(true)
	}
	c.Session.Store = strings.ToLower(strings.TrimSpace(c.Session.Store))
	if c.Session.Store == "" {
		c.Session.Store = StoreMemory
	}
	if c.Session.Store == StoreSQLite && c.Session.Dir == "" {
		c.Session.Dir = ".contractform/sessions"
	}
	if c.Session.IdleTimeout == 0 {
		c.Session.IdleTimeout = 30 * time.Minute
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "contractform_session"
	}
	if c.Theme.Name == "" {
		c.Theme.Name = "contractform"
	}
	if len(c.Address.Forms) == 0 {
		c.Address.Forms = []string{"address1", "address2"}
	}
}

// Validate reports configuration errors left after defaults.
func (c Config) Validate() error {
	var errs []error
	switch c.Session.Store {
	case StoreMemory, StoreSQLite:
	default:
		errs = append(errs, fmt.Errorf("config: unknown session store %q", c.Session.Store))
	}
	if c.Session.IdleTimeout < 0 {
		errs = append(errs, fmt.Errorf("config: session idleTimeout must not be negative"))
	}
	if c.Postal.Timeout < 0 {
		errs = append(errs, fmt.Errorf("config: postal timeout must not be negative"))
	}
	seen := make(map[string]struct{}, len(c.Address.Forms))
	for _, id := range c.Address.Forms {
		id = strings.TrimSpace(id)
		if id == "" || strings.ContainsAny(id, ". ") {
			errs = append(errs, fmt.Errorf("config: invalid address form id %q", id))
			continue
		}
		if _, dup := seen[id]; dup {
			errs = append(errs, fmt.Errorf("config: duplicate address form id %q", id))
		}
		seen[id] = struct{}{}
	}
	return errors.Join(errs...)
}

// Parse decodes a YAML document, applies defaults and validates the result.
// Unknown keys are rejected.
func Parse(r io.Reader) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the file at path. An empty path falls back to $CONTRACTFORM_CONFIG
// and then to the defaults.
func Load(path string) (Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = strings.TrimSpace(os.Getenv(EnvPath))
	}
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("%w (file %s)", err, path)
	}
	return cfg, nil
}

// MetricsEnabled reports whether /metrics is served.
func (c Config) MetricsEnabled() bool {
	return c.Server.Metrics == nil || *c.Server.Metrics
}

// ValidateResponses reports whether lookup payload validation is on.
func (c Config) ValidateResponses() bool {
	return c.Postal.ValidateResponses == nil || *c.Postal.ValidateResponses
}

func boolPtr(v bool) *bool { return &v }
