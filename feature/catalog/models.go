package catalog

// Attribute codes of the course attribute bag.
const (
	AttrFieldsOfStudy         = "lcv_fields_of_study_value"
	AttrProgramQualifications = "lcv_program_qualifications_value"
	AttrTotalCredits          = "lcv_total_credits"
	AttrLevel                 = "lcv_level"
	AttrDeliveryMethod        = "lcv_delivery_method"
	AttrLength                = "lcv_length"
	AttrSubscription          = "subs_enabled"
)

// Course is one product as returned by the search API.
// Only the fields consumed downstream are decoded; everything else is ignored.
type Course struct {
	URLKey           string      `json:"url_key"`
	Name             string      `json:"name"`
	ShortDescription string      `json:"short_description"`
	SKU              string      `json:"sku"`
	ProductType      string      `json:"product_type"`
	ImageURL         string      `json:"image_url"`
	Vendor           *Vendor     `json:"vendor,omitempty"`
	Prices           *Prices     `json:"prices_unformatted,omitempty"`
	Attributes       []Attribute `json:"attributes"`
}

// Vendor is the course provider.
type Vendor struct {
	// ID is numeric or textual depending on the storeview.
	ID      any    `json:"id"`
	Name    string `json:"name"`
	LogoSrc string `json:"logo_src"`
	Link    string `json:"link"`
}

// Prices holds the raw price values.
type Prices struct {
	Price any `json:"price"`
}

// Attribute is one entry of the attribute bag.
// OptionValue is a string, a number or a list of strings.
type Attribute struct {
	Code        string `json:"code"`
	OptionValue any    `json:"option_value"`
}

// Attribute returns the value of the first attribute with the given code.
func (c Course) Attribute(code string) (any, bool) {
	for _, attr := range c.Attributes {
		if attr.Code == code {
			return attr.OptionValue, true
		}
	}
	return nil, false
}

// VendorName returns the vendor name or an empty string when the course has no vendor.
func (c Course) VendorName() string {
	if c.Vendor == nil {
		return ""
	}
	return c.Vendor.Name
}

// page is the envelope of one search response.
type page struct {
	Items *[]Course `json:"items"`
}
