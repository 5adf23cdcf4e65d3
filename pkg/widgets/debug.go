package widgets

import (
	"sync"

	"github.com/goliatone/go-contractform/pkg/contract"
)

// DebugView shows the JSON snapshot of the model it was last given.
type DebugView struct {
	mu    sync.RWMutex
	model *contract.Model
}

// NewDebugView returns a view holding an empty model.
func NewDebugView() *DebugView {
	return &DebugView{model: contract.NewModel()}
}

// SetModel replaces the displayed model with a copy of model.
func (d *DebugView) SetModel(model *contract.Model) {
	d.mu.Lock()
	d.model = model.Clone()
	d.mu.Unlock()
}

// Model returns a copy of the displayed model.
func (d *DebugView) Model() *contract.Model {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.model.Clone()
}

// Text returns the indented JSON snapshot.
func (d *DebugView) Text() (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.model.DebugInfo()
}
