package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-contractform/pkg/postal"
	"github.com/goliatone/go-contractform/pkg/render"
	"github.com/goliatone/go-contractform/pkg/widgets"
)

var editableFields = []string{
	widgets.FieldZip,
	widgets.FieldCity,
	widgets.FieldStreet,
	widgets.FieldHouseNumber,
}

// addressRequest is the parsed state shared by the address actions: the
// caller's scope with the posted field values applied, and the form named by
// the "form" value, if any.
type addressRequest struct {
	scope  *Scope
	formID string
	form   *widgets.AddressForm
}

// prepareAddress resolves the scope, parses the body and applies every posted
// "<form>.<field>" value. It writes the error response itself and returns
// false when the request cannot proceed.
func (s *Server) prepareAddress(w http.ResponseWriter, r *http.Request, needForm bool) (addressRequest, bool) {
	scope, err := s.scope(w, r)
	if err != nil {
		s.scopeError(w, err)
		return addressRequest{}, false
	}
	req := addressRequest{scope: scope}
	if err := r.ParseForm(); err != nil {
		s.respondAddress(w, r, http.StatusBadRequest, scope, map[string][]string{"": {err.Error()}})
		return req, false
	}
	applyFields(scope, r.PostForm)

	req.formID = strings.TrimSpace(r.PostForm.Get("form"))
	if req.formID == "" {
		if needForm {
			s.respondAddress(w, r, http.StatusBadRequest, scope, map[string][]string{"": {"form is required"}})
			return req, false
		}
		return req, true
	}
	form, ok := scope.Form(req.formID)
	if !ok {
		s.respondAddress(w, r, http.StatusBadRequest, scope, map[string][]string{"": {fmt.Sprintf("unknown address form %q", req.formID)}})
		return req, false
	}
	req.form = form
	return req, true
}

func applyFields(scope *Scope, values url.Values) {
	for _, form := range scope.Forms {
		for _, id := range editableFields {
			posted, ok := values[form.ID()+"."+id]
			if !ok || len(posted) == 0 {
				continue
			}
			_ = form.SetField(id, strings.TrimSpace(posted[0]))
		}
	}
}

func (s *Server) handleAddress(w http.ResponseWriter, r *http.Request) {
	scope, err := s.scope(w, r)
	if err != nil {
		s.scopeError(w, err)
		return
	}
	s.respondAddress(w, r, http.StatusOK, scope, nil)
}

// handleAddressZip runs the city lookup for the posted zip of one form.
func (s *Server) handleAddressZip(w http.ResponseWriter, r *http.Request) {
	req, ok := s.prepareAddress(w, r, true)
	if !ok {
		return
	}
	key := req.formID + "." + widgets.FieldZip
	value := strings.TrimSpace(r.PostForm.Get(key))
	if err := req.form.InputZip(r.Context(), value); err != nil {
		s.respondAddress(w, r, statusForLookup(err), req.scope, map[string][]string{key: {err.Error()}})
		return
	}
	if !postal.IsValidZip(value) {
		s.respondAddress(w, r, http.StatusBadRequest, req.scope, map[string][]string{key: {postal.ErrInvalidZip.Error()}})
		return
	}
	s.respondAddress(w, r, http.StatusOK, req.scope, nil)
}

// handleAddressStreetFocus loads the street candidates for one form.
func (s *Server) handleAddressStreetFocus(w http.ResponseWriter, r *http.Request) {
	req, ok := s.prepareAddress(w, r, true)
	if !ok {
		return
	}
	if err := req.form.FocusStreet(r.Context()); err != nil {
		key := req.formID + "." + widgets.FieldStreet
		s.respondAddress(w, r, statusForLookup(err), req.scope, map[string][]string{key: {err.Error()}})
		return
	}
	s.respondAddress(w, r, http.StatusOK, req.scope, nil)
}

func (s *Server) handleAddressFields(w http.ResponseWriter, r *http.Request) {
	req, ok := s.prepareAddress(w, r, false)
	if !ok {
		return
	}
	s.respondAddress(w, r, http.StatusOK, req.scope, nil)
}

func (s *Server) handleAddressInfo(w http.ResponseWriter, r *http.Request) {
	req, ok := s.prepareAddress(w, r, true)
	if !ok {
		return
	}
	if err := req.form.ShowInfo(); err != nil {
		s.respondAddress(w, r, http.StatusInternalServerError, req.scope, map[string][]string{"": {err.Error()}})
		return
	}
	s.respondAddress(w, r, http.StatusOK, req.scope, nil)
}

// handleAddressAlertClose closes the alert of the named form, or the page
// alert when no form is named.
func (s *Server) handleAddressAlertClose(w http.ResponseWriter, r *http.Request) {
	req, ok := s.prepareAddress(w, r, false)
	if !ok {
		return
	}
	if req.form != nil {
		req.form.CloseAlert()
	} else {
		req.scope.Alert.Hide()
	}
	s.respondAddress(w, r, http.StatusOK, req.scope, nil)
}

// handleAddressSubmit shows every form state in the page alert.
func (s *Server) handleAddressSubmit(w http.ResponseWriter, r *http.Request) {
	req, ok := s.prepareAddress(w, r, false)
	if !ok {
		return
	}
	if _, err := widgets.SubmitAddresses(req.scope.Alert, req.scope.Forms...); err != nil {
		s.respondAddress(w, r, http.StatusInternalServerError, req.scope, map[string][]string{"": {err.Error()}})
		return
	}
	s.respondAddress(w, r, http.StatusOK, req.scope, nil)
}

func (s *Server) handleAddressState(w http.ResponseWriter, r *http.Request) {
	scope, err := s.scope(w, r)
	if err != nil {
		s.scopeError(w, err)
		return
	}
	states := make(map[string]widgets.AddressRecord, len(scope.Forms))
	for _, form := range scope.Forms {
		states[form.ID()] = form.State()
	}
	s.encodeJSON(w, http.StatusOK, states)
}

func (s *Server) respondAddress(w http.ResponseWriter, r *http.Request, status int, scope *Scope, errs map[string][]string) {
	s.respond(w, r, status, scope, render.AddressPage(scope.Alert, scope.Forms...), errs)
}

func statusForLookup(err error) int {
	var lookupErr *postal.LookupError
	if errors.As(err, &lookupErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
