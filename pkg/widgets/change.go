package widgets

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-contractform/pkg/contract"
)

// ErrWidgetClosed is returned when a change reaches a closed contract widget.
var ErrWidgetClosed = errors.New("widgets: widget closed")

// ErrWidgetDetached is returned by Input on a leaf that a later render
// replaced. The edit is dropped; callers look the leaf up again.
var ErrWidgetDetached = errors.New("widgets: widget detached")

// Change is a model change message emitted by a leaf widget. The concrete
// types are AdministrativeDataChange and ModuleChange.
type Change interface {
	isChange()
}

// AdministrativeDataChange carries a complete replacement for the contract's
// administrative data.
type AdministrativeDataChange struct {
	Record contract.AdministrativeData
}

// ModuleChange carries a complete module record to upsert by key.
type ModuleChange struct {
	Record contract.Module
}

func (AdministrativeDataChange) isChange() {}
func (ModuleChange) isChange()             {}

// Listener receives changes from a leaf widget. Each leaf has exactly one.
type Listener func(Change) error

// UnknownChangeError reports a Change implementation the contract widget does
// not handle.
type UnknownChangeError struct {
	Change Change
}

func (e *UnknownChangeError) Error() string {
	return fmt.Sprintf("widgets: unsupported change %T", e.Change)
}

func emit(listener Listener, change Change) error {
	if listener == nil {
		return ErrWidgetDetached
	}
	return listener(change)
}
