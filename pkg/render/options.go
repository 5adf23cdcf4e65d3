package render

import (
	theme "github.com/goliatone/go-theme"
)

// RenderOptions describe per-request data that renderers can use to customise
// their output without touching widget state.
type RenderOptions struct {
	// Theme carries resolved tokens, CSS variables and asset URLs.
	Theme *theme.RendererConfig
	// Errors surfaces request feedback keyed by field ID. Messages under the
	// empty key are page level.
	Errors map[string][]string
	// Hidden lists extra inputs added to every form on the page.
	Hidden []HiddenField
	// SessionID is rendered for debugging only.
	SessionID string
}
