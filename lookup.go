package contractform

import (
	"github.com/goliatone/go-contractform/pkg/postal"
	"github.com/goliatone/go-contractform/pkg/widgets"
)

// NewLookupClient constructs the cached postal lookup client.
func NewLookupClient(options ...postal.Option) (*postal.Client, error) {
	return postal.New(options...)
}

// NewAddressForm builds an address form backed by a fresh lookup client.
// Disposing the form disposes the client.
func NewAddressForm(options []postal.Option, formOptions ...widgets.AddressOption) (*widgets.AddressForm, error) {
	client, err := postal.New(options...)
	if err != nil {
		return nil, err
	}
	return widgets.NewAddressForm(client, formOptions...)
}
