package query

import (
	"sort"

	"github.com/fusionatlas/fusion-catalog/internal/domain/catalog"
)

// Summary carries the scalar metrics shown on the dashboard cards.  Means
// are computed over present values only; a view with no eligible values
// reports zero rather than faulting on division.
type Summary struct {
	Count           int     `json:"count"`
	TotalFundingUSD float64 `json:"total_funding_usd"`
	MeanEmployees   float64 `json:"mean_employees"`
	MeanOutputMWe   float64 `json:"mean_output_mwe"`
}

// Summarize computes the summary metrics for a view.  Records with an absent
// numeric field are excluded from that field's sum or mean but still count
// toward Count.
func Summarize(v View) Summary {
	s := Summary{Count: v.Count()}

	var employeeSum float64
	var employeeN int
	var outputSum float64
	var outputN int

	for _, c := range v.Records() {
		if c.FundingUSD != nil {
			s.TotalFundingUSD += *c.FundingUSD
		}
		if c.Employees != nil {
			employeeSum += float64(*c.Employees)
			employeeN++
		}
		if c.CommercialOutputMWe != nil {
			outputSum += *c.CommercialOutputMWe
			outputN++
		}
	}

	if employeeN > 0 {
		s.MeanEmployees = employeeSum / float64(employeeN)
	}
	if outputN > 0 {
		s.MeanOutputMWe = outputSum / float64(outputN)
	}
	return s
}

// ValueCount is one segment of a categorical distribution.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Distribution counts the occurrences of each distinct value of a
// categorical field within the view, ranked by descending count with ties
// broken by first-seen order.  The ranking drives the visual order of chart
// segments, so it must be deterministic.  Records with an empty value for
// the field are not counted, and the counts of the returned segments sum to
// the number of counted records.
func Distribution(v View, f catalog.Field) []ValueCount {
	if !catalog.IsCategorical(f) {
		return nil
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, c := range v.Records() {
		val, _ := c.CategoricalValue(f)
		if val == "" {
			continue
		}
		if _, ok := counts[val]; !ok {
			firstSeen[val] = i
		}
		counts[val]++
	}

	out := make([]ValueCount, 0, len(counts))
	for val, n := range counts {
		out = append(out, ValueCount{Value: val, Count: n})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return firstSeen[out[i].Value] < firstSeen[out[j].Value]
	})
	return out
}

// FundingPoint is one bar of the per-company funding chart.
type FundingPoint struct {
	Name       string  `json:"name"`
	FundingUSD float64 `json:"funding_usd"`
}

// FundingSeries returns the per-company funding amounts for the view, in
// base order, skipping records with absent funding.
func FundingSeries(v View) []FundingPoint {
	out := make([]FundingPoint, 0, v.Count())
	for _, c := range v.Records() {
		if c.FundingUSD == nil {
			continue
		}
		out = append(out, FundingPoint{Name: c.Name, FundingUSD: *c.FundingUSD})
	}
	return out
}

// ScatterPoint is one bubble of the employees-vs-output chart; FundingUSD
// drives the bubble size and is zero when absent.
type ScatterPoint struct {
	Name       string  `json:"name"`
	Employees  int64   `json:"employees"`
	OutputMWe  float64 `json:"output_mwe"`
	FundingUSD float64 `json:"funding_usd"`
}

// ScatterSeries returns the employees-vs-output points for records where
// both axes are present.
func ScatterSeries(v View) []ScatterPoint {
	out := make([]ScatterPoint, 0, v.Count())
	for _, c := range v.Records() {
		if c.Employees == nil || c.CommercialOutputMWe == nil {
			continue
		}
		p := ScatterPoint{
			Name:      c.Name,
			Employees: *c.Employees,
			OutputMWe: *c.CommercialOutputMWe,
		}
		if c.FundingUSD != nil {
			p.FundingUSD = *c.FundingUSD
		}
		out = append(out, p)
	}
	return out
}
