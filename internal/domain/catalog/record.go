// Package catalog implements the company catalog bounded context: the
// normalized company record, the normalization pipeline that produces it from
// raw upstream payloads, and the immutable table holding the normalized
// collection.  All data-quality rules for company records live here;
// transport and caching concerns are handled by separate infrastructure
// packages.
package catalog

// Field identifies a categorical company attribute usable for distinct-value
// listing and distribution counting.  Values match the upstream JSON keys.
type Field string

const (
	FieldGeneralApproach  Field = "general_approach"
	FieldSpecificApproach Field = "specific_approach"
	FieldFuelSource       Field = "fuel_source"
	FieldLocation         Field = "location"
)

// CategoricalFields lists the fields exposed to filter widgets, in display
// order.
var CategoricalFields = []Field{
	FieldGeneralApproach,
	FieldSpecificApproach,
	FieldFuelSource,
	FieldLocation,
}

// Company is one normalized catalog record.  Numeric fields use pointers so
// that an absent upstream value is distinguishable from zero: absent values
// are excluded from sums and means rather than skewing them.
//
// A Company is immutable after normalization; consumers must treat all slice
// fields as read-only.
type Company struct {
	// Name uniquely identifies the company within the catalog and is the
	// join key for detail lookups.  Always non-empty.
	Name string `json:"name"`

	Description string `json:"description"`
	Location    string `json:"location"`

	// YearFounded is kept verbatim from upstream; only the leading 4-digit
	// year is ever shown (see query.FoundedYear).
	YearFounded string `json:"year_founded"`

	Employees *int64 `json:"employees,omitempty"`

	GeneralApproach  string `json:"general_approach"`
	SpecificApproach string `json:"specific_approach"`
	FuelSource       string `json:"fuel_source"`

	PilotPlantTimeline string `json:"pilot_plant_timeline"`

	// FundingUSD originates from the nested funding.amount field.
	FundingUSD *float64 `json:"funding_usd,omitempty"`

	// CommercialOutputMWe originates from the nested commercial_output.mwe
	// field.
	CommercialOutputMWe *float64 `json:"commercial_output_mwe,omitempty"`

	Milestones []string `json:"milestones_past_12_months"`
}

// CategoricalValue returns the record's value for a categorical field.
// The second return is false for fields that are not categorical.
func (c Company) CategoricalValue(f Field) (string, bool) {
	switch f {
	case FieldGeneralApproach:
		return c.GeneralApproach, true
	case FieldSpecificApproach:
		return c.SpecificApproach, true
	case FieldFuelSource:
		return c.FuelSource, true
	case FieldLocation:
		return c.Location, true
	default:
		return "", false
	}
}

// IsCategorical reports whether f names a known categorical field.
func IsCategorical(f Field) bool {
	for _, known := range CategoricalFields {
		if f == known {
			return true
		}
	}
	return false
}
