package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Addr != ":8080" {
		t.Fatalf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Postal.BaseURL != "https://www.postdirekt.de/plzserver/PlzAjaxServlet" || cfg.Postal.Locale != "de_DE" {
		t.Fatalf("unexpected postal defaults: %+v", cfg.Postal)
	}
	if cfg.Session.Store != StoreMemory || cfg.Session.CookieName != "contractform_session" || cfg.Session.IdleTimeout != 30*time.Minute {
		t.Fatalf("unexpected session defaults: %+v", cfg.Session)
	}
	if !cfg.MetricsEnabled() || !cfg.ValidateResponses() {
		t.Fatalf("expected metrics and validation enabled by default")
	}
	if diff := cmp.Diff([]string{"address1", "address2"}, cfg.Address.Forms); diff != "" {
		t.Fatalf("forms mismatch (-want +got):\n%s", diff)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestParse_OverridesAndDurations(t *testing.T) {
	doc := `
server:
  addr: 127.0.0.1:9000
  metrics: false
postal:
  baseURL: https://example.test/plz
  timeout: 5s
  validateResponses: false
session:
  store: SQLite
  idleTimeout: 10m
theme:
  variant: dark
address:
  forms: [billing, shipping, other]
`
	cfg, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" || cfg.MetricsEnabled() {
		t.Fatalf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Postal.Timeout != 5*time.Second || cfg.ValidateResponses() {
		t.Fatalf("unexpected postal config: %+v", cfg.Postal)
	}
	if cfg.Postal.Locale != "de_DE" {
		t.Fatalf("expected default locale, got %q", cfg.Postal.Locale)
	}
	if cfg.Session.Store != StoreSQLite || cfg.Session.Dir == "" || cfg.Session.IdleTimeout != 10*time.Minute {
		t.Fatalf("unexpected session config: %+v", cfg.Session)
	}
	if cfg.Theme.Name != "contractform" || cfg.Theme.Variant != "dark" {
		t.Fatalf("unexpected theme config: %+v", cfg.Theme)
	}
	if len(cfg.Address.Forms) != 3 {
		t.Fatalf("unexpected forms: %v", cfg.Address.Forms)
	}
}

func TestParse_EmptyDocumentUsesDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	if _, err := Parse(strings.NewReader("server:\n  port: 80\n")); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{name: "store", doc: "session:\n  store: redis\n", want: "unknown session store"},
		{name: "duplicate form", doc: "address:\n  forms: [a, a]\n", want: "duplicate address form id"},
		{name: "dotted form", doc: "address:\n  forms: [a.b]\n", want: "invalid address form id"},
		{name: "timeout", doc: "postal:\n  timeout: -1s\n", want: "postal timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contractform.yaml")
	if err := os.WriteFile(path, []byte("server:\n  addr: :9999\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Fatalf("addr = %q", cfg.Server.Addr)
	}

	t.Setenv(EnvPath, path)
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("load from env: %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Fatalf("env addr = %q", cfg.Server.Addr)
	}
}

func TestLoad_NoPathUsesDefaults(t *testing.T) {
	t.Setenv(EnvPath, "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("addr = %q", cfg.Server.Addr)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
