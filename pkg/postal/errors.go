package postal

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalidZip reports a postal code that is not exactly five digits.
var ErrInvalidZip = errors.New("postal: zip code must be five digits")

// LookupError describes a failed lookup: a transport error, a non-200 status
// or a payload that could not be decoded.
type LookupError struct {
	URL        string
	StatusCode int
	Status     string
	Err        error
}

func (e *LookupError) Error() string {
	switch {
	case e.StatusCode != 0:
		status := e.Status
		if status == "" {
			status = http.StatusText(e.StatusCode)
		}
		return fmt.Sprintf("postal: %s returned %d - %q", e.URL, e.StatusCode, status)
	case e.Err != nil:
		return fmt.Sprintf("postal: %s: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("postal: %s: lookup failed", e.URL)
	}
}

func (e *LookupError) Unwrap() error { return e.Err }
