package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-contractform/pkg/contract"
	"github.com/goliatone/go-contractform/pkg/render"
	"github.com/goliatone/go-contractform/pkg/widgets"
)

const dateLayout = "2006-01-02"

func (s *Server) handleContract(w http.ResponseWriter, r *http.Request) {
	scope, err := s.scope(w, r)
	if err != nil {
		s.scopeError(w, err)
		return
	}
	s.respondContract(w, r, http.StatusOK, scope, nil)
}

func (s *Server) handleAdministrativeData(w http.ResponseWriter, r *http.Request) {
	scope, err := s.scope(w, r)
	if err != nil {
		s.scopeError(w, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.respondContract(w, r, http.StatusBadRequest, scope, map[string][]string{"": {err.Error()}})
		return
	}

	validFrom := strings.TrimSpace(r.PostForm.Get("validFrom"))
	if _, err := time.Parse(dateLayout, validFrom); err != nil {
		s.respondContract(w, r, http.StatusBadRequest, scope, map[string][]string{
			"validFrom": {fmt.Sprintf("expected a date like %s", dateLayout)},
		})
		return
	}
	if err := inputLeaf(func() (func(string) error, bool) {
		return scope.Contract.AdministrativeData().Input, true
	}, validFrom); err != nil {
		s.respondContract(w, r, statusForContract(err), scope, map[string][]string{"": {err.Error()}})
		return
	}
	s.respondContract(w, r, http.StatusOK, scope, nil)
}

// handleModule edits the comments of the module named in the path. A key
// without a module inserts a new one.
func (s *Server) handleModule(w http.ResponseWriter, r *http.Request) {
	scope, err := s.scope(w, r)
	if err != nil {
		s.scopeError(w, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.respondContract(w, r, http.StatusBadRequest, scope, map[string][]string{"": {err.Error()}})
		return
	}

	key := strings.TrimSpace(r.PathValue("key"))
	comments := r.PostForm.Get("comments")
	if key == "" {
		s.respondContract(w, r, http.StatusBadRequest, scope, map[string][]string{"": {"module key is required"}})
		return
	}

	if _, ok := scope.Contract.ModuleWidget(key); ok {
		err = inputLeaf(func() (func(string) error, bool) {
			leaf, ok := scope.Contract.ModuleWidget(key)
			if !ok {
				return nil, false
			}
			return leaf.Input, true
		}, comments)
	} else {
		name := strings.TrimSpace(r.PostForm.Get("name"))
		if name == "" {
			name = key
		}
		err = scope.Contract.Dispatch(widgets.ModuleChange{Record: contract.Module{Key: key, Name: name, Comments: comments}})
	}
	if err != nil {
		s.respondContract(w, r, statusForContract(err), scope, map[string][]string{"": {err.Error()}})
		return
	}
	s.respondContract(w, r, http.StatusOK, scope, nil)
}

func (s *Server) handleContractDebug(w http.ResponseWriter, r *http.Request) {
	scope, err := s.scope(w, r)
	if err != nil {
		s.scopeError(w, err)
		return
	}
	text, err := scope.Contract.DebugView().Text()
	if err != nil {
		s.logger.Printf("contract debug: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, []byte(text))
}

func (s *Server) handleContractReset(w http.ResponseWriter, r *http.Request) {
	scope, err := s.scope(w, r)
	if err != nil {
		s.scopeError(w, err)
		return
	}
	model, err := s.initialModel()
	if err == nil {
		err = scope.Contract.SetModel(model)
	}
	if err != nil {
		s.respondContract(w, r, statusForContract(err), scope, map[string][]string{"": {err.Error()}})
		return
	}
	s.respondContract(w, r, http.StatusOK, scope, nil)
}

func (s *Server) respondContract(w http.ResponseWriter, r *http.Request, status int, scope *Scope, errs map[string][]string) {
	view, err := scope.Contract.View()
	if err != nil {
		s.logger.Printf("contract view: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	s.respond(w, r, status, scope, render.ContractPage(view), errs)
}

// leafAttempts bounds how often an edit is replayed against a freshly looked
// up leaf after a concurrent render detached the previous one.
const leafAttempts = 3

// inputLeaf runs value through the current leaf returned by lookup. Leaves are
// replaced on every render, so an edit that lands on a detached leaf is
// retried on the new one.
func inputLeaf(lookup func() (func(string) error, bool), value string) error {
	var err error
	for range leafAttempts {
		input, ok := lookup()
		if !ok {
			return widgets.ErrWidgetDetached
		}
		if err = input(value); !errors.Is(err, widgets.ErrWidgetDetached) {
			return err
		}
	}
	return err
}

func statusForContract(err error) int {
	var unknown *widgets.UnknownChangeError
	switch {
	case errors.Is(err, widgets.ErrWidgetClosed), errors.Is(err, widgets.ErrWidgetDetached):
		return http.StatusConflict
	case errors.As(err, &unknown):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
