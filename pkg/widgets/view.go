package widgets

// ContractView is the data handed to renderers for the contract page.
type ContractView struct {
	AdministrativeData AdministrativeDataProps `json:"administrativeData"`
	Modules            []ModuleProps           `json:"modules"`
	Debug              string                  `json:"debug"`
	Revision           uint64                  `json:"revision"`
}

// FieldView is the render data for one address field.
type FieldView struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Value    string   `json:"value"`
	Pattern  string   `json:"pattern,omitempty"`
	Required bool     `json:"required"`
	Disabled bool     `json:"disabled"`
	Valid    bool     `json:"valid"`
	ListID   string   `json:"listId,omitempty"`
	List     []string `json:"list,omitempty"`
	Options  []Option `json:"options,omitempty"`
	// Errors is filled by renderers from request feedback.
	Errors []string `json:"errors,omitempty"`
}

// Option is a select option.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// AlertView is the render data for an alert panel.
type AlertView struct {
	Title   string `json:"title"`
	Code    string `json:"code"`
	Visible bool   `json:"visible"`
	Close   string `json:"close"`
}

// AddressView is the render data for an address fieldset.
type AddressView struct {
	ID           string      `json:"id"`
	Legend       string      `json:"legend"`
	Fields       []FieldView `json:"fields"`
	InfoLabel    string      `json:"infoLabel"`
	InfoDisabled bool        `json:"infoDisabled"`
	Alert        AlertView   `json:"alert"`
}
