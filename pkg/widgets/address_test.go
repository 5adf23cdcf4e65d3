package widgets

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-contractform/pkg/postal"
	"github.com/goliatone/go-contractform/pkg/session"
	"github.com/goliatone/go-contractform/pkg/testsupport"
)

type stubLookup struct {
	mu          sync.Mutex
	cities      map[string][]string
	streets     map[string][]string
	err         error
	cityCalls   []string
	streetCalls []string
	disposed    int
}

func newStubLookup() *stubLookup {
	return &stubLookup{cities: map[string][]string{}, streets: map[string][]string{}}
}

func (s *stubLookup) Cities(_ context.Context, zip string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cityCalls = append(s.cityCalls, zip)
	if s.err != nil {
		return nil, s.err
	}
	return s.cities[zip], nil
}

func (s *stubLookup) Streets(_ context.Context, zip, city string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streetCalls = append(s.streetCalls, zip+"|"+city)
	if s.err != nil {
		return nil, s.err
	}
	return s.streets[zip+"|"+city], nil
}

func (s *stubLookup) Dispose() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disposed++
	return nil
}

func strptr(s string) *string { return &s }

func TestAddressForm_ZipInputPrefillsCity(t *testing.T) {
	lookup := newStubLookup()
	lookup.cities["97074"] = []string{"Würzburg", "Randersacker"}
	form, err := NewAddressForm(lookup)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}

	if err := form.InputZip(context.Background(), "9707"); err != nil {
		t.Fatalf("partial zip: %v", err)
	}
	if len(lookup.cityCalls) != 0 {
		t.Fatalf("expected no lookup for a partial zip")
	}

	if err := form.InputZip(context.Background(), "97074"); err != nil {
		t.Fatalf("zip: %v", err)
	}
	city, _ := form.Field(FieldCity)
	if city.Value != "Würzburg" {
		t.Fatalf("expected first candidate selected, got %q", city.Value)
	}
	if diff := cmp.Diff([]string{"Würzburg", "Randersacker"}, form.Cities()); diff != "" {
		t.Fatalf("candidates mismatch (-want +got):\n%s", diff)
	}
}

func TestAddressForm_EmptyLookupClearsCity(t *testing.T) {
	lookup := newStubLookup()
	lookup.cities["97074"] = []string{"Würzburg"}
	form, _ := NewAddressForm(lookup)

	_ = form.InputZip(context.Background(), "97074")
	if err := form.InputZip(context.Background(), "00000"); err != nil {
		t.Fatalf("zip: %v", err)
	}
	city, _ := form.Field(FieldCity)
	if city.Value != "" || len(city.List) != 0 {
		t.Fatalf("expected cleared city, got %#v", city)
	}
}

func TestAddressForm_LookupFailureKeepsCandidates(t *testing.T) {
	lookup := newStubLookup()
	lookup.cities["97074"] = []string{"Würzburg"}
	form, _ := NewAddressForm(lookup)
	_ = form.InputZip(context.Background(), "97074")

	lookup.err = errors.New("boom")
	if err := form.InputZip(context.Background(), "12345"); err == nil {
		t.Fatalf("expected lookup error")
	}
	if diff := cmp.Diff([]string{"Würzburg"}, form.Cities()); diff != "" {
		t.Fatalf("candidates changed on failure (-want +got):\n%s", diff)
	}
	zip, _ := form.Field(FieldZip)
	if zip.Value != "12345" {
		t.Fatalf("zip value should still be stored, got %q", zip.Value)
	}
}

func TestAddressForm_FocusStreetNeedsZipAndCity(t *testing.T) {
	lookup := newStubLookup()
	lookup.streets["97074|Würzburg"] = []string{"Gneisenaustr.", "Werner-von-Siemens-Str."}
	form, _ := NewAddressForm(lookup)

	if err := form.FocusStreet(context.Background()); err != nil {
		t.Fatalf("focus: %v", err)
	}
	if len(lookup.streetCalls) != 0 {
		t.Fatalf("expected no street lookup without zip and city")
	}

	_ = form.SetField(FieldZip, "97074")
	form.SetCity("Würzburg")
	if err := form.FocusStreet(context.Background()); err != nil {
		t.Fatalf("focus: %v", err)
	}
	if diff := cmp.Diff([]string{"Gneisenaustr.", "Werner-von-Siemens-Str."}, form.Streets()); diff != "" {
		t.Fatalf("streets mismatch (-want +got):\n%s", diff)
	}
	street, _ := form.Field(FieldStreet)
	if street.Value != "" {
		t.Fatalf("street must not be auto-selected, got %q", street.Value)
	}
}

func TestAddressForm_StateReportsValidFieldsOnly(t *testing.T) {
	form, _ := NewAddressForm(newStubLookup())

	want := AddressRecord{Country: strptr("de")}
	if diff := cmp.Diff(want, form.State()); diff != "" {
		t.Fatalf("empty state mismatch (-want +got):\n%s", diff)
	}

	_ = form.SetField(FieldZip, "9707x")
	form.SetCity("Würzburg")
	form.SetStreet("Gneisenaustr.")
	form.SetHouseNumber("7")

	want = AddressRecord{
		City:        strptr("Würzburg"),
		Street:      strptr("Gneisenaustr."),
		HouseNumber: strptr("7"),
		Country:     strptr("de"),
	}
	if diff := cmp.Diff(want, form.State()); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}

	payload, err := json.Marshal(form.State())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	const wantJSON = `{"zip":null,"city":"Würzburg","street":"Gneisenaustr.","houseNumber":"7","country":"de"}`
	if string(payload) != wantJSON {
		t.Fatalf("json mismatch\nwant: %s\n got: %s", wantJSON, payload)
	}
}

func TestAddressForm_CountryIsReadOnly(t *testing.T) {
	form, _ := NewAddressForm(newStubLookup())
	if err := form.SetField(FieldCountry, "fr"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if err := form.SetField("phone", "1"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestAddressForm_InfoTogglesWithAlert(t *testing.T) {
	form, _ := NewAddressForm(newStubLookup())
	form.SetHouseNumber("7")

	if err := form.ShowInfo(); err != nil {
		t.Fatalf("show info: %v", err)
	}
	if !form.InfoDisabled() || !form.Alert().Visible() {
		t.Fatalf("expected disabled info action and visible alert")
	}
	if form.Alert().Title() != InfoTitle {
		t.Fatalf("unexpected title %q", form.Alert().Title())
	}
	var state AddressRecord
	if err := json.Unmarshal(form.Alert().Code(), &state); err != nil {
		t.Fatalf("decode alert code: %v", err)
	}
	if state.HouseNumber == nil || *state.HouseNumber != "7" {
		t.Fatalf("alert payload missing state: %s", form.Alert().Code())
	}

	form.CloseAlert()
	if form.InfoDisabled() || form.Alert().Visible() {
		t.Fatalf("expected info re-enabled and alert hidden")
	}
}

func TestAddressForm_DisposeClearsLookup(t *testing.T) {
	lookup := newStubLookup()
	form, _ := NewAddressForm(lookup)
	if err := form.Dispose(); err != nil {
		t.Fatalf("dispose: %v", err)
	}
	if lookup.disposed != 1 {
		t.Fatalf("expected lookup dispose, got %d", lookup.disposed)
	}

	_ = form.ShowInfo()
	form.CloseAlert()
	if !form.InfoDisabled() {
		t.Fatalf("close listener should be detached after dispose")
	}
}

func TestAddressForm_WithPostalClient(t *testing.T) {
	server := testsupport.NewPostalServer(t)
	payload := testsupport.LookupPayload{
		Success: true,
		Count:   2,
		Rows: []testsupport.LookupRow{
			{City: "Würzburg", Street: "Gneisenaustr."},
			{City: "Würzburg", Street: "Werner-von-Siemens-Str."},
		},
	}
	server.SetCities("97074", payload)
	server.SetStreets("97074", "Würzburg", payload)

	store := session.NewMemoryStore()
	client, err := postal.New(postal.WithBaseURL(server.URL), postal.WithStore(store))
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	form, err := NewAddressForm(client, WithFormID("billing"))
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	ctx := context.Background()

	if err := form.InputZip(ctx, "97074"); err != nil {
		t.Fatalf("zip: %v", err)
	}
	if err := form.FocusStreet(ctx); err != nil {
		t.Fatalf("focus: %v", err)
	}
	if err := form.FocusStreet(ctx); err != nil {
		t.Fatalf("focus again: %v", err)
	}
	if server.Requests() != 2 {
		t.Fatalf("expected cached second street lookup, got %d requests", server.Requests())
	}
	if diff := cmp.Diff([]string{"Gneisenaustr.", "Werner-von-Siemens-Str."}, form.Streets()); diff != "" {
		t.Fatalf("streets mismatch (-want +got):\n%s", diff)
	}

	if err := form.Dispose(); err != nil {
		t.Fatalf("dispose: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected session cache cleared on dispose")
	}
}

func TestAddressForm_ViewLabels(t *testing.T) {
	form, _ := NewAddressForm(newStubLookup(), WithFormID("a1"))
	view := form.View()
	if view.ID != "a1" || view.Legend != "Adresse" {
		t.Fatalf("unexpected view header %#v", view)
	}
	labels := make([]string, 0, len(view.Fields))
	for _, field := range view.Fields {
		labels = append(labels, field.Label)
	}
	if diff := cmp.Diff([]string{"PLZ", "Stadt", "Straße", "Hausnummer", "Land"}, labels); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
	if view.Alert.Close != CloseLabel {
		t.Fatalf("unexpected close label %q", view.Alert.Close)
	}
}

func TestSubmitAddresses(t *testing.T) {
	first, _ := NewAddressForm(newStubLookup(), WithFormID("one"))
	second, _ := NewAddressForm(newStubLookup(), WithFormID("two"))
	first.SetCity("Würzburg")

	panel := NewAlertPanel()
	states, err := SubmitAddresses(panel, first, second)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(states) != 2 || states[0].City == nil || states[1].City != nil {
		t.Fatalf("unexpected states %#v", states)
	}
	if panel.Title() != SubmitTitle || !panel.Visible() {
		t.Fatalf("expected visible %q alert", SubmitTitle)
	}
	var decoded []AddressRecord
	if err := json.Unmarshal(panel.Code(), &decoded); err != nil || len(decoded) != 2 {
		t.Fatalf("decode submitted payload: %v %s", err, panel.Code())
	}
}
