package widgets

import (
	"sync"

	"github.com/goliatone/go-contractform/pkg/contract"
)

// ContractWidget owns a contract model and the leaf widgets rendered from it.
// Every applied change replaces the whole child list and pushes the model to
// the debug view before Dispatch returns.
type ContractWidget struct {
	mu       sync.Mutex
	model    *contract.Model
	admin    *AdministrativeDataWidget
	modules  []*ContractModuleWidget
	debug    *DebugView
	revision uint64
	closed   bool
}

// Children is a snapshot of the widgets produced by the latest render.
type Children struct {
	AdministrativeData *AdministrativeDataWidget
	Modules            []*ContractModuleWidget
	Debug              *DebugView
}

// NewContractWidget returns a rendered widget holding a fresh, empty model.
func NewContractWidget() *ContractWidget {
	w := &ContractWidget{
		model: contract.NewModel(),
		debug: NewDebugView(),
	}
	w.renderLocked()
	return w
}

// SetModel replaces the model wholesale, re-renders and refreshes the debug
// view. A nil model is treated as a fresh empty one.
func (w *ContractWidget) SetModel(model *contract.Model) error {
	if model == nil {
		model = contract.NewModel()
	}
	if model.Contract == nil {
		model.Contract = contract.NewContract()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWidgetClosed
	}
	w.model = model
	w.renderLocked()
	w.debug.SetModel(w.model)
	return nil
}

// Model returns a copy of the current model.
func (w *ContractWidget) Model() *contract.Model {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.model.Clone()
}

// Render regenerates the child widgets from the current model.
func (w *ContractWidget) Render() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.renderLocked()
}

// Dispatch applies a change as if a child had emitted it.
func (w *ContractWidget) Dispatch(change Change) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWidgetClosed
	}

	switch c := change.(type) {
	case AdministrativeDataChange:
		w.model.Contract.SetAdministrativeData(c.Record)
	case *AdministrativeDataChange:
		w.model.Contract.SetAdministrativeData(c.Record)
	case ModuleChange:
		w.model.Contract.SetModule(c.Record)
	case *ModuleChange:
		w.model.Contract.SetModule(c.Record)
	default:
		return &UnknownChangeError{Change: change}
	}

	w.renderLocked()
	w.debug.SetModel(w.model)
	return nil
}

// Children returns the widgets produced by the latest render.
func (w *ContractWidget) Children() Children {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Children{
		AdministrativeData: w.admin,
		Modules:            append([]*ContractModuleWidget(nil), w.modules...),
		Debug:              w.debug,
	}
}

// AdministrativeData returns the current administrative data widget.
func (w *ContractWidget) AdministrativeData() *AdministrativeDataWidget {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.admin
}

// ModuleWidgets returns the module widgets in model order.
func (w *ContractWidget) ModuleWidgets() []*ContractModuleWidget {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]*ContractModuleWidget(nil), w.modules...)
}

// ModuleWidget returns the widget rendered for key.
func (w *ContractWidget) ModuleWidget(key string) (*ContractModuleWidget, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, module := range w.modules {
		if module.Key() == key {
			return module, true
		}
	}
	return nil, false
}

// DebugView returns the debug view child.
func (w *ContractWidget) DebugView() *DebugView {
	return w.debug
}

// Revision reports how many renders have happened.
func (w *ContractWidget) Revision() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.revision
}

// Close detaches every child listener. Later changes return ErrWidgetClosed.
func (w *ContractWidget) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	w.detachLocked()
}

// View returns the render data for the current state.
func (w *ContractWidget) View() (ContractView, error) {
	w.mu.Lock()
	admin := w.admin.Props()
	modules := make([]ModuleProps, 0, len(w.modules))
	for _, module := range w.modules {
		modules = append(modules, module.Props())
	}
	revision := w.revision
	w.mu.Unlock()

	debug, err := w.debug.Text()
	if err != nil {
		return ContractView{}, err
	}
	return ContractView{
		AdministrativeData: admin,
		Modules:            modules,
		Debug:              debug,
		Revision:           revision,
	}, nil
}

func (w *ContractWidget) renderLocked() {
	w.detachLocked()

	w.admin = NewAdministrativeDataWidget(AdministrativeDataProps{
		ValidFrom: w.model.Contract.AdministrativeData.ValidFrom,
	}, w.Dispatch)

	modules := w.model.Contract.Modules()
	w.modules = make([]*ContractModuleWidget, 0, len(modules))
	for _, module := range modules {
		w.modules = append(w.modules, NewContractModuleWidget(moduleProps(module), w.Dispatch))
	}
	w.revision++
}

func (w *ContractWidget) detachLocked() {
	if w.admin != nil {
		w.admin.detach()
	}
	for _, module := range w.modules {
		module.detach()
	}
}
