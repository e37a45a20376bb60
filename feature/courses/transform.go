package courses

import (
	"math"
	"math/big"
	"strings"
	"time"

	"catalog-sync/core/utils"
	"catalog-sync/feature/catalog"
	"catalog-sync/feature/hubdb"
)

// StatusActive is written to every synced row.
const StatusActive = "Active"

// creditDivisor converts the raw credit attribute into course credits.
const creditDivisor = 50

// Transformer maps catalog courses onto HubDB rows.
type Transformer struct {
	// Now stamps last_updated. Defaults to time.Now.
	Now func() time.Time
}

// NewTransformer returns a transformer using the wall clock.
func NewTransformer() *Transformer {
	return &Transformer{Now: time.Now}
}

// Transform builds the row body for a course. It performs no I/O and, apart from
// last_updated, returns the same output for the same course.
func (t *Transformer) Transform(course catalog.Course) hubdb.RowInput {
	now := time.Now
	if t != nil && t.Now != nil {
		now = t.Now
	}

	rawCredits, _ := course.Attribute(catalog.AttrTotalCredits)

	values := map[string]any{
		"title":                  course.Name,
		"short_description":      course.ShortDescription,
		"price":                  price(course),
		"fields_of_study":        attribute(course, catalog.AttrFieldsOfStudy),
		"level":                  attribute(course, catalog.AttrLevel),
		"delivery_method":        attribute(course, catalog.AttrDeliveryMethod),
		"length":                 attribute(course, catalog.AttrLength),
		"credits":                FormatCredits(rawCredits),
		"image_url":              course.ImageURL,
		hubdb.KeyColumn:          course.URLKey,
		"program_qualifications": attribute(course, catalog.AttrProgramQualifications),
		"raw_credits":            attribute(course, catalog.AttrTotalCredits),
		"sku":                    course.SKU,
		"product_type":           course.ProductType,
		"last_updated":           now().UnixMilli(),
		"status":                 StatusActive,
		"seo_title":              course.Name,
		"seo_description":        course.ShortDescription,
		"seo_keywords":           Keywords(course),
		"subscription":           subscription(course),
	}

	if v := course.Vendor; v != nil {
		values["instructor"] = v.Name
		values["vendor_id"] = v.ID
		values["vendor_name"] = v.Name
		values["vendor_logo"] = v.LogoSrc
		values["vendor_link"] = v.Link
	}

	return hubdb.RowInput{
		Name:   course.Name,
		Path:   course.URLKey,
		Values: values,
	}
}

// FormatCredits divides the raw credit value by 50 and renders it with at most three
// decimals and no trailing zeros. Empty or unparsable values give "0".
func FormatCredits(raw any) string {
	if utils.IsEmpty(raw) {
		return "0"
	}

	f, ok := utils.ToFloat(raw)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return "0"
	}

	s := toFixed3(f / creditDivisor)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "" || s == "-" || s == "-0" {
		return "0"
	}
	return s
}

// toFixed3 renders x with exactly three decimals, rounding the exact binary value
// half away from zero.
func toFixed3(x float64) string {
	y := new(big.Float).SetPrec(256).SetFloat64(math.Abs(x))
	y.Mul(y, big.NewFloat(1000))

	n, _ := y.Int(nil)
	frac := new(big.Float).SetPrec(256).SetInt(n)
	frac.Sub(y, frac)
	if frac.Cmp(big.NewFloat(0.5)) >= 0 {
		n.Add(n, big.NewInt(1))
	}

	digits := n.String()
	for len(digits) < 4 {
		digits = "0" + digits
	}
	s := digits[:len(digits)-3] + "." + digits[len(digits)-3:]
	if x < 0 {
		s = "-" + s
	}
	return s
}

// Keywords builds the SEO keyword line from the course name, vendor name, fields of
// study, level and delivery method. Empty parts are dropped; list values are joined
// with a bare comma.
func Keywords(course catalog.Course) string {
	candidates := []any{course.Name, course.VendorName()}
	for _, code := range []string{catalog.AttrFieldsOfStudy, catalog.AttrLevel, catalog.AttrDeliveryMethod} {
		v, _ := course.Attribute(code)
		candidates = append(candidates, v)
	}

	parts := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if utils.IsEmpty(c) {
			continue
		}
		parts = append(parts, utils.Join(c, ","))
	}
	return strings.Join(parts, ", ")
}

// attribute flattens an attribute value into a display string.
func attribute(course catalog.Course, code string) string {
	v, ok := course.Attribute(code)
	if !ok || v == nil {
		return ""
	}
	return utils.Join(v, ", ")
}

func price(course catalog.Course) any {
	if course.Prices == nil || utils.IsEmpty(course.Prices.Price) {
		return 0
	}
	return course.Prices.Price
}

func subscription(course catalog.Course) any {
	v, _ := course.Attribute(catalog.AttrSubscription)
	if utils.IsEmpty(v) {
		return 0
	}
	return v
}
