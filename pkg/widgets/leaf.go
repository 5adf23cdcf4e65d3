package widgets

import (
	"sync"

	"github.com/goliatone/go-contractform/pkg/contract"
)

// AdministrativeDataProps are the values a contract widget passes down when it
// renders the administrative data section.
type AdministrativeDataProps struct {
	ValidFrom string `json:"validFrom"`
}

// AdministrativeDataWidget renders the "valid from" date and reports edits.
type AdministrativeDataWidget struct {
	mu       sync.Mutex
	props    AdministrativeDataProps
	listener Listener
}

// NewAdministrativeDataWidget constructs a leaf bound to listener.
func NewAdministrativeDataWidget(props AdministrativeDataProps, listener Listener) *AdministrativeDataWidget {
	return &AdministrativeDataWidget{props: props, listener: listener}
}

// Props returns the values the widget was rendered with.
func (w *AdministrativeDataWidget) Props() AdministrativeDataProps {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.props
}

// Input handles a date edit. It emits a fresh AdministrativeData holding only
// value; other administrative fields are not carried over.
func (w *AdministrativeDataWidget) Input(value string) error {
	w.mu.Lock()
	listener := w.listener
	w.mu.Unlock()

	return emit(listener, AdministrativeDataChange{
		Record: contract.AdministrativeData{ValidFrom: value},
	})
}

func (w *AdministrativeDataWidget) detach() {
	w.mu.Lock()
	w.listener = nil
	w.mu.Unlock()
}

// ModuleProps are the attributes a module widget is rendered with.
type ModuleProps struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Comments string `json:"comments"`
}

// ContractModuleWidget renders one contract module and reports comment edits.
type ContractModuleWidget struct {
	mu       sync.Mutex
	props    ModuleProps
	listener Listener
}

// NewContractModuleWidget constructs a leaf bound to listener.
func NewContractModuleWidget(props ModuleProps, listener Listener) *ContractModuleWidget {
	return &ContractModuleWidget{props: props, listener: listener}
}

// Props returns the values the widget was rendered with.
func (w *ContractModuleWidget) Props() ModuleProps {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.props
}

// Key returns the module key the widget represents.
func (w *ContractModuleWidget) Key() string {
	return w.Props().Key
}

// Input handles a comments edit, emitting the full module record with key and
// name taken from the current props.
func (w *ContractModuleWidget) Input(comments string) error {
	w.mu.Lock()
	props := w.props
	listener := w.listener
	w.mu.Unlock()

	return emit(listener, ModuleChange{
		Record: contract.Module{
			Key:      props.Key,
			Name:     props.Name,
			Comments: comments,
		},
	})
}

func (w *ContractModuleWidget) detach() {
	w.mu.Lock()
	w.listener = nil
	w.mu.Unlock()
}

func moduleProps(module contract.Module) ModuleProps {
	return ModuleProps{Key: module.Key, Name: module.Name, Comments: module.Comments}
}
