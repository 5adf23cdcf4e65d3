package html

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-contractform/pkg/render"
	rendertemplate "github.com/goliatone/go-contractform/pkg/render/template"
	"github.com/goliatone/go-contractform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-contractform/pkg/widgets"
)

// ErrUnknownPage is returned for page kinds without a template.
var ErrUnknownPage = errors.New("html renderer: unknown page kind")

var pageTemplates = map[string]string{
	render.PageIndex:    "index.tmpl",
	render.PageContract: "contract.tmpl",
	render.PageAddress:  "address.tmpl",
}

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS   fs.FS
	templatesDir string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk first. Templates
// missing there fall back to the bundle.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templatesDir = strings.TrimSpace(path)
	}
}

// Renderer renders pages as server-side HTML documents.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	engineOptions := []gotemplate.Option{
		gotemplate.WithFS(cfg.templateFS),
		gotemplate.WithExtension(".tmpl"),
	}
	if cfg.templatesDir != "" {
		if info, err := os.Stat(cfg.templatesDir); err != nil || !info.IsDir() {
			return nil, fmt.Errorf("html renderer: templates dir %q is not a directory", cfg.templatesDir)
		}
		engineOptions = append(engineOptions, gotemplate.WithBaseDir(cfg.templatesDir))
	}
	engine, err := gotemplate.New(engineOptions...)
	if err != nil {
		return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
	}
	if err := engine.GlobalContext(map[string]any{"nav": render.Navigation()}); err != nil {
		return nil, fmt.Errorf("html renderer: seed navigation: %w", err)
	}

	return &Renderer{templates: engine}, nil
}

// Name implements render.Renderer.
func (r *Renderer) Name() string {
	return "html"
}

// ContentType implements render.Renderer.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render implements render.Renderer.
func (r *Renderer) Render(_ context.Context, page render.Page, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}
	name, ok := pageTemplates[page.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPage, page.Kind)
	}

	formErrors := attachErrors(&page, options.Errors)

	result, err := r.templates.RenderTemplate(name, map[string]any{
		"page":       page,
		"theme":      buildThemeContext(options),
		"formErrors": formErrors,
		"hidden":     options.Hidden,
		"sessionID":  options.SessionID,
		"current":    currentHref(page.Kind),
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func currentHref(kind string) string {
	if kind == render.PageIndex {
		return "/"
	}
	return "/" + kind
}

// attachErrors copies field errors keyed "<form>.<field>" onto the address
// field views and returns what is left as page-level messages.
func attachErrors(page *render.Page, payload map[string][]string) []string {
	if len(payload) == 0 {
		return nil
	}
	var known []string
	for _, form := range page.Addresses {
		for _, field := range form.Fields {
			known = append(known, form.ID+"."+field.ID)
		}
	}
	mapping := render.MapErrors(known, payload)

	addresses := make([]widgets.AddressView, len(page.Addresses))
	copy(addresses, page.Addresses)
	for i := range addresses {
		fields := append(addresses[i].Fields[:0:0], addresses[i].Fields...)
		for j := range fields {
			fields[j].Errors = mapping.Fields[addresses[i].ID+"."+fields[j].ID]
		}
		addresses[i].Fields = fields
	}
	page.Addresses = addresses
	return mapping.Form
}
