package widgets

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// CloseLabel is the accessible label of the alert close button.
const CloseLabel = "Schließen"

var (
	titlePolicyOnce sync.Once
	titlePolicy     *bluemonday.Policy
)

// AlertPanel shows a title and a JSON payload. Hiding the panel notifies the
// registered close listeners.
type AlertPanel struct {
	mu        sync.Mutex
	title     string
	code      json.RawMessage
	visible   bool
	listeners map[int]func()
	nextID    int
}

// NewAlertPanel returns a hidden, empty panel.
func NewAlertPanel() *AlertPanel {
	return &AlertPanel{listeners: make(map[int]func())}
}

// SetTitle sets the title. Markup other than strong, em and code is stripped.
func (a *AlertPanel) SetTitle(title string) {
	cleaned := sanitizeTitle(title)
	a.mu.Lock()
	a.title = cleaned
	a.mu.Unlock()
}

// Title returns the sanitized title.
func (a *AlertPanel) Title() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.title
}

// SetCode stores the JSON encoding of value.
func (a *AlertPanel) SetCode(value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("widgets: encode alert code: %w", err)
	}
	a.mu.Lock()
	a.code = payload
	a.mu.Unlock()
	return nil
}

// Code returns the stored JSON payload, or nil when none was set.
func (a *AlertPanel) Code() json.RawMessage {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.code == nil {
		return nil
	}
	return append(json.RawMessage(nil), a.code...)
}

// Show makes the panel visible.
func (a *AlertPanel) Show() {
	a.mu.Lock()
	a.visible = true
	a.mu.Unlock()
}

// Hide makes the panel invisible and notifies close listeners.
func (a *AlertPanel) Hide() {
	a.mu.Lock()
	a.visible = false
	listeners := make([]func(), 0, len(a.listeners))
	for id := 0; id < a.nextID; id++ {
		if fn, ok := a.listeners[id]; ok {
			listeners = append(listeners, fn)
		}
	}
	a.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// Visible reports whether the panel is shown.
func (a *AlertPanel) Visible() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.visible
}

// OnClose registers fn to run on Hide. The returned func removes it.
func (a *AlertPanel) OnClose(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.listeners[id] = fn
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.listeners, id)
		a.mu.Unlock()
	}
}

// View returns the render data for the panel.
func (a *AlertPanel) View() AlertView {
	a.mu.Lock()
	defer a.mu.Unlock()
	return AlertView{
		Title:   a.title,
		Code:    string(a.code),
		Visible: a.visible,
		Close:   CloseLabel,
	}
}

func sanitizeTitle(raw string) string {
	titlePolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("strong", "em", "code")
		titlePolicy = policy
	})
	return strings.TrimSpace(titlePolicy.Sanitize(strings.TrimSpace(raw)))
}
