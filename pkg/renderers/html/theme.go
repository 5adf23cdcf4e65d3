package html

import (
	"github.com/goliatone/go-contractform/pkg/render"
)

type themeContext struct {
	Name       string            `json:"name,omitempty"`
	Variant    string            `json:"variant,omitempty"`
	CSSVars    map[string]string `json:"cssVars,omitempty"`
	Stylesheet string            `json:"stylesheet"`
}

func buildThemeContext(options render.RenderOptions) themeContext {
	ctx := themeContext{Stylesheet: "/assets/" + StylesheetName}
	cfg := options.Theme
	if cfg == nil {
		return ctx
	}
	ctx.Name = cfg.Theme
	ctx.Variant = cfg.Variant
	if len(cfg.CSSVars) > 0 {
		ctx.CSSVars = make(map[string]string, len(cfg.CSSVars))
		for key, value := range cfg.CSSVars {
			ctx.CSSVars[key] = value
		}
	}
	if cfg.AssetURL != nil {
		if url := cfg.AssetURL(render.AssetStylesheet); url != "" {
			ctx.Stylesheet = url
		}
	}
	return ctx
}
