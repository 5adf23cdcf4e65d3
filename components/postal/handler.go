package postal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	lookup "github.com/goliatone/go-contractform/pkg/postal"
)

// ErrMissingLookup is returned when no lookup is configured for a request.
var ErrMissingLookup = errors.New("postal: no lookup configured")

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

type optionsResponse struct {
	Data  []Option `json:"data"`
	Error string   `json:"error,omitempty"`
}

// CitiesHandler answers city candidates for the zip parameter.
func CitiesHandler(fns ...OptionFn) http.Handler {
	opts := NewOptions(fns...)
	return citiesHandler(opts)
}

// StreetsHandler answers street candidates for the zip and city parameters.
func StreetsHandler(fns ...OptionFn) http.Handler {
	opts := NewOptions(fns...)
	return streetsHandler(opts)
}

func citiesHandler(opts Options) http.Handler {
	return handle(opts, func(r *http.Request, l Lookup) ([]string, error) {
		zip, err := zipParam(r, opts)
		if err != nil {
			return nil, err
		}
		return l.Cities(r.Context(), zip)
	})
}

func streetsHandler(opts Options) http.Handler {
	return handle(opts, func(r *http.Request, l Lookup) ([]string, error) {
		zip, err := zipParam(r, opts)
		if err != nil {
			return nil, err
		}
		city := strings.TrimSpace(r.URL.Query().Get(opts.CityParam))
		if city == "" {
			return nil, StatusError{Code: http.StatusBadRequest, Err: fmt.Errorf("postal: missing %s parameter", opts.CityParam)}
		}
		return l.Streets(r.Context(), zip, city)
	})
}

func handle(opts Options, fetch func(*http.Request, Lookup) ([]string, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		if opts.Guard != nil {
			if err := opts.Guard(r); err != nil {
				writeGuardError(w, err)
				return
			}
		}

		if opts.Resolver == nil {
			writeJSON(w, r, http.StatusInternalServerError, optionsResponse{Data: []Option{}, Error: ErrMissingLookup.Error()})
			return
		}
		l, err := opts.Resolver(r)
		if err == nil && l == nil {
			err = ErrMissingLookup
		}
		if err != nil {
			writeJSON(w, r, statusFor(err), optionsResponse{Data: []Option{}, Error: err.Error()})
			return
		}

		values, err := fetch(r, l)
		if err != nil {
			writeJSON(w, r, statusFor(err), optionsResponse{Data: []Option{}, Error: err.Error()})
			return
		}
		writeJSON(w, r, http.StatusOK, optionsResponse{Data: toOptions(values)})
	})
}

func zipParam(r *http.Request, opts Options) (string, error) {
	zip := strings.TrimSpace(r.URL.Query().Get(opts.ZipParam))
	if !lookup.IsValidZip(zip) {
		return "", StatusError{Code: http.StatusBadRequest, Err: lookup.ErrInvalidZip}
	}
	return zip, nil
}

func statusFor(err error) int {
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		return httpErr.StatusCode()
	}
	var lookupErr *lookup.LookupError
	if errors.As(err, &lookupErr) {
		return http.StatusBadGateway
	}
	if errors.Is(err, lookup.ErrInvalidZip) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload optionsResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(payload)
}

func writeGuardError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	if err == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
}
