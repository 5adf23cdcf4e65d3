package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}

// LookupRow mirrors a single row of the remote postal lookup payload.
type LookupRow struct {
	City   string `json:"city,omitempty"`
	Street string `json:"street,omitempty"`
}

// LookupPayload mirrors the remote postal lookup response body.
type LookupPayload struct {
	Success bool        `json:"success"`
	Count   int         `json:"count"`
	Rows    []LookupRow `json:"rows"`
}

// PostalServer is an httptest-backed stand-in for the remote postal lookup
// service. Responses are keyed by the "finda" query kind plus the zip (and
// city for street lookups); every request is recorded.
type PostalServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []*http.Request
	cities   map[string]LookupPayload
	streets  map[string]LookupPayload
	status   int
}

// NewPostalServer starts a fake postal service and registers cleanup on t.
func NewPostalServer(t *testing.T) *PostalServer {
	t.Helper()

	ps := &PostalServer{
		cities:  make(map[string]LookupPayload),
		streets: make(map[string]LookupPayload),
	}
	ps.Server = httptest.NewServer(http.HandlerFunc(ps.serve))
	t.Cleanup(ps.Close)
	return ps
}

// SetCities scripts the city lookup payload for zip.
func (ps *PostalServer) SetCities(zip string, payload LookupPayload) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.cities[zip] = payload
}

// SetStreets scripts the street lookup payload for zip and city.
func (ps *PostalServer) SetStreets(zip, city string, payload LookupPayload) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.streets[zip+"|"+city] = payload
}

// FailWith makes every subsequent request answer with status. Zero restores
// scripted responses.
func (ps *PostalServer) FailWith(status int) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.status = status
}

// Requests returns the number of requests served so far.
func (ps *PostalServer) Requests() int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return len(ps.requests)
}

// LastRequest returns the most recent request, or nil.
func (ps *PostalServer) LastRequest() *http.Request {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if len(ps.requests) == 0 {
		return nil
	}
	return ps.requests[len(ps.requests)-1]
}

func (ps *PostalServer) serve(w http.ResponseWriter, r *http.Request) {
	ps.mu.Lock()
	ps.requests = append(ps.requests, r.Clone(context.Background()))
	status := ps.status
	query := r.URL.Query()
	var (
		payload LookupPayload
		found   bool
	)
	switch query.Get("finda") {
	case "city":
		payload, found = ps.cities[query.Get("city")]
	case "streets":
		payload, found = ps.streets[query.Get("plz_plz")+"|"+query.Get("plz_city")]
	}
	ps.mu.Unlock()

	if status != 0 {
		http.Error(w, http.StatusText(status), status)
		return
	}
	if !found {
		payload = LookupPayload{Success: false, Count: 0, Rows: []LookupRow{}}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
