// Package query implements the read-side pipeline over the company catalog:
// predicate filtering, summary aggregation, categorical distributions, and
// display formatting.  Everything here is a pure function of its inputs; the
// catalog table is never mutated and no state persists between calls.
package query

import (
	"strings"

	"github.com/fusionatlas/fusion-catalog/internal/domain/catalog"
)

// PredicateSet names the active filter criteria and their parameters.  It is
// passed by value between layers so the Filter Engine stays independently
// testable: there is no shared widget state, only this configuration.
//
// Each predicate has an explicit disabled form (empty set, empty string,
// zero threshold); a zero PredicateSet matches every record.
type PredicateSet struct {
	// FuelSources keeps records whose fuel_source is in the set.
	// Empty ⇒ disabled.
	FuelSources []string `json:"fuel_sources,omitempty"`

	// Approaches keeps records whose general_approach is in the set.
	// Empty ⇒ disabled.
	Approaches []string `json:"approaches,omitempty"`

	// SearchTerm keeps records whose name or description contains the term,
	// case-insensitively.  Empty ⇒ disabled.
	SearchTerm string `json:"search_term,omitempty"`

	// MinFundingUSD keeps records with funding_amount >= the threshold.
	// Zero ⇒ disabled.  Records with absent funding fail an active
	// threshold: an unknown amount cannot satisfy a lower bound.
	MinFundingUSD float64 `json:"min_funding_usd,omitempty"`
}

// Active reports whether any predicate is enabled.  This distinguishes an
// empty result caused by filtering from "no filters active" over an empty
// catalog.
func (p PredicateSet) Active() bool {
	return len(p.FuelSources) > 0 ||
		len(p.Approaches) > 0 ||
		strings.TrimSpace(p.SearchTerm) != "" ||
		p.MinFundingUSD > 0
}

// View is a read-only ordered subset of the catalog produced by applying a
// PredicateSet.  It records the base size so callers can render
// "showing N of M" without re-counting.
type View struct {
	records    []catalog.Company
	baseLen    int
	predicates PredicateSet
}

// Records returns the surviving records in base order.  The slice is owned
// by the view and must be treated as read-only.
func (v View) Records() []catalog.Company { return v.records }

// Count returns the number of records in the view.
func (v View) Count() int { return len(v.records) }

// BaseCount returns the size of the catalog the view was derived from.
func (v View) BaseCount() int { return v.baseLen }

// IsEmpty reports whether no records survived filtering.  An empty view is a
// valid state, not an error.
func (v View) IsEmpty() bool { return len(v.records) == 0 }

// Predicates returns the predicate set that produced the view.
func (v View) Predicates() PredicateSet { return v.predicates }

// Apply filters base through p and returns the derived view.  The predicates
// compose with logical AND; surviving records keep their base order; base is
// never modified.  Apply is idempotent: applying p to its own result yields
// the same record set.
func Apply(base []catalog.Company, p PredicateSet) View {
	fuels := toSet(p.FuelSources)
	approaches := toSet(p.Approaches)
	term := strings.ToLower(strings.TrimSpace(p.SearchTerm))

	out := make([]catalog.Company, 0, len(base))
	for _, c := range base {
		if len(fuels) > 0 && !fuels[c.FuelSource] {
			continue
		}
		if len(approaches) > 0 && !approaches[c.GeneralApproach] {
			continue
		}
		if term != "" && !matchesSearch(c, term) {
			continue
		}
		if p.MinFundingUSD > 0 {
			if c.FundingUSD == nil || *c.FundingUSD < p.MinFundingUSD {
				continue
			}
		}
		out = append(out, c)
	}

	return View{records: out, baseLen: len(base), predicates: p}
}

// matchesSearch reports whether the lowercased term occurs in the record's
// name or description.
func matchesSearch(c catalog.Company, lowerTerm string) bool {
	return strings.Contains(strings.ToLower(c.Name), lowerTerm) ||
		strings.Contains(strings.ToLower(c.Description), lowerTerm)
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		set[v] = true
	}
	return set
}
