package render

import (
	"github.com/goliatone/go-contractform/pkg/widgets"
)

// Page kinds understood by the bundled renderers.
const (
	PageIndex    = "index"
	PageContract = "contract"
	PageAddress  = "address"
)

// Page is the renderer input: the view data of one screen.
type Page struct {
	Kind      string                `json:"kind"`
	Title     string                `json:"title"`
	Contract  *widgets.ContractView `json:"contract,omitempty"`
	Addresses []widgets.AddressView `json:"addresses,omitempty"`
	// Alert is the page level alert shown after submitting address forms.
	Alert *widgets.AlertView `json:"alert,omitempty"`
	Links []Link             `json:"links,omitempty"`
}

// Link is a navigation entry.
type Link struct {
	Href  string `json:"href"`
	Label string `json:"label"`
}

// ContractPage builds the contract page for view.
func ContractPage(view widgets.ContractView) Page {
	return Page{Kind: PageContract, Title: "Contract", Contract: &view}
}

// AddressPage builds the address page for the given forms and submit panel.
func AddressPage(alert *widgets.AlertPanel, forms ...*widgets.AddressForm) Page {
	page := Page{Kind: PageAddress, Title: "Address"}
	for _, form := range forms {
		if form == nil {
			continue
		}
		page.Addresses = append(page.Addresses, form.View())
	}
	if alert != nil {
		view := alert.View()
		page.Alert = &view
	}
	return page
}

// IndexPage builds the landing page.
func IndexPage() Page {
	return Page{
		Kind:  PageIndex,
		Title: "Contract form",
		Links: Navigation()[1:],
	}
}

// Navigation lists the top-level screens, landing page first.
func Navigation() []Link {
	return []Link{
		{Href: "/", Label: "Start"},
		{Href: "/contract", Label: "Contract"},
		{Href: "/address", Label: "Address"},
	}
}
