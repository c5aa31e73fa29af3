package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fusionatlas/fusion-catalog/internal/domain/catalog"
)

// Placeholder is shown wherever a display value is absent or malformed.
// Formatting is total: out-of-shape input degrades to this, never to an
// error.
const Placeholder = "n/a"

// Millions renders a raw USD amount as "$X.XM" with one decimal.
func Millions(usd float64) string {
	return fmt.Sprintf("$%.1fM", usd/1e6)
}

// Billions renders a raw USD amount as "$X.XB" with one decimal.
func Billions(usd float64) string {
	return fmt.Sprintf("$%.1fB", usd/1e9)
}

// MillionsOrPlaceholder renders an optional USD amount in millions.
func MillionsOrPlaceholder(usd *float64) string {
	if usd == nil {
		return Placeholder
	}
	return Millions(*usd)
}

// FoundedYear extracts the 4-digit year from a year_founded value.  The
// contract is that the first four characters form the year; anything shorter
// or non-numeric degrades to the placeholder.
func FoundedYear(yearFounded string) string {
	if len(yearFounded) < 4 {
		return Placeholder
	}
	year := yearFounded[:4]
	for _, r := range year {
		if r < '0' || r > '9' {
			return Placeholder
		}
	}
	return year
}

// GroupThousands renders n with comma separators ("1234567" → "1,234,567").
func GroupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// EmployeesOrPlaceholder renders an optional employee count with thousands
// grouping.
func EmployeesOrPlaceholder(employees *int64) string {
	if employees == nil {
		return Placeholder
	}
	return GroupThousands(*employees)
}

// OutputMWe renders an optional output value as "N MWe".
func OutputMWe(output *float64) string {
	if output == nil {
		return Placeholder
	}
	return fmt.Sprintf("%.0f MWe", *output)
}

// ApproachLabel joins the general and specific approach for display, e.g.
// "Magnetic Confinement — Tokamak".  Either side may be empty.
func ApproachLabel(general, specific string) string {
	switch {
	case general == "" && specific == "":
		return Placeholder
	case specific == "":
		return general
	case general == "":
		return specific
	default:
		return general + " - " + specific
	}
}

// CompanyDetail is the display-ready projection of a single record for the
// detail view.  Every field is already formatted; the UI renders it verbatim.
type CompanyDetail struct {
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	Location           string   `json:"location"`
	Founded            string   `json:"founded"`
	Employees          string   `json:"employees"`
	Approach           string   `json:"approach"`
	FuelSource         string   `json:"fuel_source"`
	PilotPlantTimeline string   `json:"pilot_plant_timeline"`
	Funding            string   `json:"funding"`
	Output             string   `json:"output"`
	Milestones         []string `json:"milestones"`
}

// FormatDetail builds the display projection for one record.
func FormatDetail(c catalog.Company) CompanyDetail {
	milestones := c.Milestones
	if milestones == nil {
		milestones = []string{}
	}
	return CompanyDetail{
		Name:               c.Name,
		Description:        c.Description,
		Location:           c.Location,
		Founded:            FoundedYear(c.YearFounded),
		Employees:          EmployeesOrPlaceholder(c.Employees),
		Approach:           ApproachLabel(c.GeneralApproach, c.SpecificApproach),
		FuelSource:         c.FuelSource,
		PilotPlantTimeline: c.PilotPlantTimeline,
		Funding:            MillionsOrPlaceholder(c.FundingUSD),
		Output:             OutputMWe(c.CommercialOutputMWe),
		Milestones:         milestones,
	}
}

// CompanyRow is the display-ready projection of one record for the tabular
// database view.
type CompanyRow struct {
	Name             string `json:"name"`
	Location         string `json:"location"`
	Founded          string `json:"founded"`
	Employees        string `json:"employees"`
	Funding          string `json:"funding"`
	GeneralApproach  string `json:"general_approach"`
	SpecificApproach string `json:"specific_approach"`
	FuelSource       string `json:"fuel_source"`
	Output           string `json:"output"`
	PilotTimeline    string `json:"pilot_timeline"`
}

// FormatRows builds the tabular projection of a view, preserving order.
func FormatRows(v View) []CompanyRow {
	rows := make([]CompanyRow, 0, v.Count())
	for _, c := range v.Records() {
		rows = append(rows, CompanyRow{
			Name:             c.Name,
			Location:         c.Location,
			Founded:          FoundedYear(c.YearFounded),
			Employees:        EmployeesOrPlaceholder(c.Employees),
			Funding:          MillionsOrPlaceholder(c.FundingUSD),
			GeneralApproach:  c.GeneralApproach,
			SpecificApproach: c.SpecificApproach,
			FuelSource:       c.FuelSource,
			Output:           OutputMWe(c.CommercialOutputMWe),
			PilotTimeline:    c.PilotPlantTimeline,
		})
	}
	return rows
}
