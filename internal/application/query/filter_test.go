package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fusionatlas/fusion-catalog/internal/domain/catalog"
)

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }

func fixtureCompanies() []catalog.Company {
	return []catalog.Company{
		{
			Name:            "Commonwealth Fusion Systems",
			Description:     "SPARC tokamak developer",
			GeneralApproach: "Magnetic Confinement",
			FuelSource:      "D-T",
			FundingUSD:      f64(2_000_000_000),
			Employees:       i64(750),
		},
		{
			Name:            "TAE Technologies",
			Description:     "Field-reversed configuration with aneutronic fuel",
			GeneralApproach: "Field-Reversed Configuration",
			FuelSource:      "p-B11",
			FundingUSD:      f64(1_200_000_000),
		},
		{
			Name:            "Helion Energy",
			Description:     "Pulsed magneto-inertial fusion",
			GeneralApproach: "Magneto-Inertial",
			FuelSource:      "D-He3",
			FundingUSD:      f64(577_000_000),
		},
		{
			Name:            "First Light Fusion",
			Description:     "Projectile-driven inertial fusion",
			GeneralApproach: "Inertial Confinement",
			FuelSource:      "D-T",
			// Funding unknown.
		},
	}
}

func names(v View) []string {
	out := make([]string, 0, v.Count())
	for _, c := range v.Records() {
		out = append(out, c.Name)
	}
	return out
}

func TestApply_ZeroPredicateSetMatchesEverything(t *testing.T) {
	base := fixtureCompanies()

	v := Apply(base, PredicateSet{})

	assert.Equal(t, len(base), v.Count())
	assert.Equal(t, len(base), v.BaseCount())
	assert.False(t, v.Predicates().Active())
}

func TestApply_FuelSourcePreservesOrder(t *testing.T) {
	v := Apply(fixtureCompanies(), PredicateSet{FuelSources: []string{"D-T"}})

	assert.Equal(t, []string{"Commonwealth Fusion Systems", "First Light Fusion"}, names(v))
	assert.Equal(t, 4, v.BaseCount())
}

func TestApply_PredicatesCompose(t *testing.T) {
	p := PredicateSet{
		FuelSources:   []string{"D-T", "D-He3"},
		MinFundingUSD: 500_000_000,
	}

	v := Apply(fixtureCompanies(), p)

	// First Light matches the fuel predicate but has unknown funding, which
	// cannot satisfy a lower bound.
	assert.Equal(t, []string{"Commonwealth Fusion Systems", "Helion Energy"}, names(v))
}

func TestApply_SearchCaseInsensitive(t *testing.T) {
	v := Apply(fixtureCompanies(), PredicateSet{SearchTerm: "TOKAMAK"})
	assert.Equal(t, []string{"Commonwealth Fusion Systems"}, names(v))

	v = Apply(fixtureCompanies(), PredicateSet{SearchTerm: "  helion "})
	assert.Equal(t, []string{"Helion Energy"}, names(v))
}

func TestApply_SearchMatchesDescription(t *testing.T) {
	v := Apply(fixtureCompanies(), PredicateSet{SearchTerm: "inertial"})
	assert.Equal(t, []string{"Helion Energy", "First Light Fusion"}, names(v))
}

func TestApply_MinFundingZeroIsDisabled(t *testing.T) {
	v := Apply(fixtureCompanies(), PredicateSet{MinFundingUSD: 0})

	// First Light's unknown funding survives because the predicate is off.
	assert.Equal(t, 4, v.Count())
}

func TestApply_ThresholdAboveMaxYieldsEmptyValidView(t *testing.T) {
	v := Apply(fixtureCompanies(), PredicateSet{MinFundingUSD: 10_000_000_000})

	assert.True(t, v.IsEmpty())
	assert.Equal(t, 0, v.Count())
	assert.Equal(t, 4, v.BaseCount())
}

func TestApply_Idempotent(t *testing.T) {
	p := PredicateSet{FuelSources: []string{"D-T"}, SearchTerm: "fusion"}

	once := Apply(fixtureCompanies(), p)
	twice := Apply(once.Records(), p)

	require.Equal(t, once.Count(), twice.Count())
	assert.Equal(t, names(once), names(twice))
}

func TestApply_DoesNotMutateBase(t *testing.T) {
	base := fixtureCompanies()
	before := names(View{records: base})

	_ = Apply(base, PredicateSet{FuelSources: []string{"p-B11"}})

	assert.Equal(t, before, names(View{records: base}))
}

func TestPredicateSet_Active(t *testing.T) {
	assert.False(t, PredicateSet{}.Active())
	assert.False(t, PredicateSet{SearchTerm: "   "}.Active())
	assert.True(t, PredicateSet{FuelSources: []string{"D-T"}}.Active())
	assert.True(t, PredicateSet{Approaches: []string{"Tokamak"}}.Active())
	assert.True(t, PredicateSet{SearchTerm: "laser"}.Active())
	assert.True(t, PredicateSet{MinFundingUSD: 1}.Active())
}
