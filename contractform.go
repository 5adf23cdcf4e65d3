// Package contractform exposes the contract editor and address lookup building
// blocks from the module root.
package contractform

import (
	"context"
	"fmt"

	"github.com/goliatone/go-contractform/pkg/contract"
	"github.com/goliatone/go-contractform/pkg/render"
	"github.com/goliatone/go-contractform/pkg/renderers/html"
	"github.com/goliatone/go-contractform/pkg/renderers/tui"
	"github.com/goliatone/go-contractform/pkg/widgets"
)

// RenderOptions describes per-request data renderers use for theming and
// error feedback.
type RenderOptions = render.RenderOptions

// Page is the renderer input.
type Page = render.Page

// NewRegistry returns a renderer registry holding the html renderer (the
// negotiation fallback) plus the json and text renderers. htmlOptions
// configure the html renderer.
func NewRegistry(htmlOptions ...html.Option) (*render.Registry, error) {
	htmlRenderer, err := html.New(htmlOptions...)
	if err != nil {
		return nil, fmt.Errorf("contractform: html renderer: %w", err)
	}
	registry := render.NewRegistry()
	for _, renderer := range []render.Renderer{htmlRenderer, render.JSONRenderer{}, tui.New()} {
		if err := registry.Register(renderer); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// RenderContract renders model as a contract page with the named renderer.
// A nil model renders the demo contract.
func RenderContract(ctx context.Context, model *contract.Model, rendererName string, options RenderOptions) ([]byte, error) {
	if model == nil {
		model = contract.InitialModel()
	}
	w := widgets.NewContractWidget()
	defer w.Close()
	if err := w.SetModel(model); err != nil {
		return nil, err
	}
	view, err := w.View()
	if err != nil {
		return nil, err
	}
	return renderPage(ctx, render.ContractPage(view), rendererName, options)
}

// RenderAddress renders the address page for forms with the named renderer.
func RenderAddress(ctx context.Context, alert *widgets.AlertPanel, forms []*widgets.AddressForm, rendererName string, options RenderOptions) ([]byte, error) {
	return renderPage(ctx, render.AddressPage(alert, forms...), rendererName, options)
}

func renderPage(ctx context.Context, page Page, rendererName string, options RenderOptions) ([]byte, error) {
	registry, err := NewRegistry()
	if err != nil {
		return nil, err
	}
	renderer, err := registry.Get(rendererName)
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, page, options)
}
