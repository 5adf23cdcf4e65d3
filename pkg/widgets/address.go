package widgets

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
)

// Address field identifiers.
const (
	FieldZip         = "zip"
	FieldCity        = "city"
	FieldStreet      = "street"
	FieldHouseNumber = "houseNumber"
	FieldCountry     = "country"
)

// InfoTitle is the alert title used by the info action.
const InfoTitle = "Info"

// SubmitTitle is the alert title used when a page of address forms is
// submitted.
const SubmitTitle = "Form"

// ErrUnknownField is returned when an edit targets a field the form does not
// have, or one that is disabled.
var ErrUnknownField = errors.New("widgets: unknown or read-only field")

var zipRun = regexp.MustCompile(`\d{5}`)

// Lookup resolves cities and streets for a postal code. *postal.Client
// satisfies it.
type Lookup interface {
	Cities(ctx context.Context, zip string) ([]string, error)
	Streets(ctx context.Context, zip, city string) ([]string, error)
	Dispose() error
}

// AddressRecord is the form state. A nil field is present but currently
// fails validation.
type AddressRecord struct {
	Zip         *string `json:"zip"`
	City        *string `json:"city"`
	Street      *string `json:"street"`
	HouseNumber *string `json:"houseNumber"`
	Country     *string `json:"country"`
}

// AddressOption configures an AddressForm.
type AddressOption func(*AddressForm)

// WithFormID sets the identifier used to tell several forms on one page apart.
func WithFormID(id string) AddressOption {
	return func(f *AddressForm) {
		if id != "" {
			f.id = id
		}
	}
}

// WithAlertPanel replaces the form's own alert panel.
func WithAlertPanel(panel *AlertPanel) AddressOption {
	return func(f *AddressForm) {
		if panel != nil {
			f.alert = panel
		}
	}
}

// AddressForm is the address fieldset with postal code autocompletion.
type AddressForm struct {
	mu           sync.Mutex
	id           string
	lookup       Lookup
	order        []string
	fields       map[string]*Field
	alert        *AlertPanel
	infoDisabled bool
	unsubscribe  func()
}

// NewAddressForm constructs a form that resolves suggestions through lookup.
func NewAddressForm(lookup Lookup, opts ...AddressOption) (*AddressForm, error) {
	if lookup == nil {
		return nil, fmt.Errorf("widgets: address lookup is required")
	}
	form := &AddressForm{
		id:     "address",
		lookup: lookup,
		alert:  NewAlertPanel(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(form)
	}

	fields := []*Field{
		{ID: FieldZip, Label: "PLZ", Pattern: "[0-9]{5}", Required: true},
		{ID: FieldCity, Label: "Stadt", Required: true, ListID: "cities"},
		{ID: FieldStreet, Label: "Straße", Required: true, ListID: "streets"},
		{ID: FieldHouseNumber, Label: "Hausnummer", Required: true},
		{
			ID:       FieldCountry,
			Label:    "Land",
			Value:    "de",
			Required: true,
			Disabled: true,
			Options:  []Option{{Value: "de", Label: "Deutschland"}},
		},
	}
	form.fields = make(map[string]*Field, len(fields))
	for _, field := range fields {
		form.order = append(form.order, field.ID)
		form.fields[field.ID] = field
	}

	form.unsubscribe = form.alert.OnClose(func() {
		form.mu.Lock()
		form.infoDisabled = false
		form.mu.Unlock()
	})
	return form, nil
}

// ID returns the form identifier.
func (f *AddressForm) ID() string {
	return f.id
}

// InputZip stores the zip value. When it contains five consecutive digits the
// city candidates are replaced by the lookup result and the city is set to
// the first candidate, or cleared when there is none. A failed lookup leaves
// the candidates untouched.
func (f *AddressForm) InputZip(ctx context.Context, value string) error {
	f.mu.Lock()
	f.fields[FieldZip].Value = value
	f.mu.Unlock()

	if value == "" || !zipRun.MatchString(value) {
		return nil
	}

	cities, err := f.lookup.Cities(ctx, value)
	if err != nil {
		return fmt.Errorf("widgets: city lookup: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	city := f.fields[FieldCity]
	city.List = append([]string(nil), cities...)
	city.Value = ""
	if len(cities) > 0 {
		city.Value = cities[0]
	}
	return nil
}

// FocusStreet refreshes the street candidates when both zip and city are set.
// The street value itself is left alone.
func (f *AddressForm) FocusStreet(ctx context.Context) error {
	f.mu.Lock()
	zip := f.fields[FieldZip].Value
	city := f.fields[FieldCity].Value
	f.mu.Unlock()

	if zip == "" || city == "" {
		return nil
	}

	streets, err := f.lookup.Streets(ctx, zip, city)
	if err != nil {
		return fmt.Errorf("widgets: street lookup: %w", err)
	}

	f.mu.Lock()
	f.fields[FieldStreet].List = append([]string(nil), streets...)
	f.mu.Unlock()
	return nil
}

// SetCity sets the city value.
func (f *AddressForm) SetCity(value string) {
	_ = f.SetField(FieldCity, value)
}

// SetStreet sets the street value.
func (f *AddressForm) SetStreet(value string) {
	_ = f.SetField(FieldStreet, value)
}

// SetHouseNumber sets the house number value.
func (f *AddressForm) SetHouseNumber(value string) {
	_ = f.SetField(FieldHouseNumber, value)
}

// SetField sets a field value without triggering lookups. Disabled fields
// cannot be edited.
func (f *AddressForm) SetField(id, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	field, ok := f.fields[id]
	if !ok || field.Disabled {
		return fmt.Errorf("%w: %q", ErrUnknownField, id)
	}
	field.Value = value
	return nil
}

// Field returns a copy of the field with id.
func (f *AddressForm) Field(id string) (Field, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	field, ok := f.fields[id]
	if !ok {
		return Field{}, false
	}
	out := *field
	out.List = append([]string(nil), field.List...)
	return out, true
}

// Cities returns the current city candidates.
func (f *AddressForm) Cities() []string {
	field, _ := f.Field(FieldCity)
	return field.List
}

// Streets returns the current street candidates.
func (f *AddressForm) Streets() []string {
	field, _ := f.Field(FieldStreet)
	return field.List
}

// State returns every field value that currently passes validation.
func (f *AddressForm) State() AddressRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return AddressRecord{
		Zip:         f.validated(FieldZip),
		City:        f.validated(FieldCity),
		Street:      f.validated(FieldStreet),
		HouseNumber: f.validated(FieldHouseNumber),
		Country:     f.validated(FieldCountry),
	}
}

func (f *AddressForm) validated(id string) *string {
	field := f.fields[id]
	if !field.Valid() {
		return nil
	}
	value := field.Value
	return &value
}

// ShowInfo disables the info action and shows the current state in the alert
// panel.
func (f *AddressForm) ShowInfo() error {
	state := f.State()

	f.mu.Lock()
	f.infoDisabled = true
	f.mu.Unlock()

	f.alert.SetTitle(InfoTitle)
	if err := f.alert.SetCode(state); err != nil {
		return err
	}
	f.alert.Show()
	return nil
}

// CloseAlert hides the alert panel, which re-enables the info action.
func (f *AddressForm) CloseAlert() {
	f.alert.Hide()
}

// InfoDisabled reports whether the info action is disabled.
func (f *AddressForm) InfoDisabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.infoDisabled
}

// Alert returns the form's alert panel.
func (f *AddressForm) Alert() *AlertPanel {
	return f.alert
}

// Dispose detaches from the alert panel and disposes the lookup client,
// which clears the session cache.
func (f *AddressForm) Dispose() error {
	f.mu.Lock()
	unsubscribe := f.unsubscribe
	f.unsubscribe = nil
	f.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if err := f.lookup.Dispose(); err != nil {
		return fmt.Errorf("widgets: dispose lookup: %w", err)
	}
	return nil
}

// View returns the render data for the form.
func (f *AddressForm) View() AddressView {
	f.mu.Lock()
	fields := make([]FieldView, 0, len(f.order))
	for _, id := range f.order {
		fields = append(fields, f.fields[id].view())
	}
	infoDisabled := f.infoDisabled
	f.mu.Unlock()

	return AddressView{
		ID:           f.id,
		Legend:       "Adresse",
		Fields:       fields,
		InfoLabel:    InfoTitle,
		InfoDisabled: infoDisabled,
		Alert:        f.alert.View(),
	}
}

// SubmitAddresses shows the states of forms, in order, in panel under the
// submit title.
func SubmitAddresses(panel *AlertPanel, forms ...*AddressForm) ([]AddressRecord, error) {
	if panel == nil {
		return nil, fmt.Errorf("widgets: alert panel is required")
	}
	states := make([]AddressRecord, 0, len(forms))
	for _, form := range forms {
		if form == nil {
			continue
		}
		states = append(states, form.State())
	}
	panel.SetTitle(SubmitTitle)
	if err := panel.SetCode(states); err != nil {
		return nil, err
	}
	panel.Show()
	return states, nil
}
