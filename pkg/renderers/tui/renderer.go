package tui

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-contractform/pkg/render"
)

// Renderer prints pages as plain text and drives the interactive address and
// contract flows through a PromptDriver.
type Renderer struct {
	driver PromptDriver
	theme  Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a renderer. Without WithPromptDriver the survey driver
// writing to stdout is used.
func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	return r
}

// Name implements render.Renderer.
func (r *Renderer) Name() string {
	return "text"
}

// ContentType implements render.Renderer.
func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render implements render.Renderer with a plain text summary of page.
func (r *Renderer) Render(_ context.Context, page render.Page, options render.RenderOptions) ([]byte, error) {
	var b bytes.Buffer
	fmt.Fprintf(&b, "# %s\n", page.Title)

	switch page.Kind {
	case render.PageIndex:
		for _, link := range page.Links {
			fmt.Fprintf(&b, "- %s (%s)\n", link.Label, link.Href)
		}
	case render.PageContract:
		if page.Contract == nil {
			return nil, fmt.Errorf("tui: contract page without contract view")
		}
		fmt.Fprintf(&b, "\nValid from: %s\n", orDash(page.Contract.AdministrativeData.ValidFrom))
		for _, module := range page.Contract.Modules {
			fmt.Fprintf(&b, "\n## %s [%s]\n%s\n", module.Name, module.Key, module.Comments)
		}
		fmt.Fprintf(&b, "\n## Debug Info\n%s\n", page.Contract.Debug)
	case render.PageAddress:
		for _, form := range page.Addresses {
			fmt.Fprintf(&b, "\n## %s (%s)\n", form.Legend, form.ID)
			for _, field := range form.Fields {
				marker := ""
				if !field.Valid {
					marker = " (invalid)"
				}
				fmt.Fprintf(&b, "%-12s %s%s\n", field.Label+":", orDash(field.Value), marker)
				if len(field.List) > 0 {
					fmt.Fprintf(&b, "%-12s %s\n", "", strings.Join(field.List, ", "))
				}
			}
			if form.Alert.Visible {
				fmt.Fprintf(&b, "[%s] %s\n", form.Alert.Title, form.Alert.Code)
			}
		}
		if page.Alert != nil && page.Alert.Visible {
			fmt.Fprintf(&b, "\n[%s] %s\n", page.Alert.Title, page.Alert.Code)
		}
	default:
		return nil, fmt.Errorf("tui: unknown page kind %q", page.Kind)
	}

	keys := make([]string, 0, len(options.Errors))
	for key := range options.Errors {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		for _, message := range options.Errors[key] {
			fmt.Fprintf(&b, "%s%s %s\n", r.theme.ErrorPrefix, key, message)
		}
	}
	return b.Bytes(), nil
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
