package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePredicates(t *testing.T) {
	r := httptest.NewRequest("GET",
		"/api/v1/companies?fuel_source=D-T&fuel_source=D-He3&approach=Magnetic+Confinement&q=tokamak&min_funding_musd=250", nil)

	p, err := parsePredicates(r)
	require.NoError(t, err)

	assert.Equal(t, []string{"D-T", "D-He3"}, p.FuelSources)
	assert.Equal(t, []string{"Magnetic Confinement"}, p.Approaches)
	assert.Equal(t, "tokamak", p.SearchTerm)
	assert.Equal(t, 250_000_000.0, p.MinFundingUSD)
}

func TestParsePredicates_CommaSeparated(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/companies?fuel_source=D-T,p-B11", nil)

	p, err := parsePredicates(r)
	require.NoError(t, err)
	assert.Equal(t, []string{"D-T", "p-B11"}, p.FuelSources)
}

func TestParsePredicates_Empty(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/companies", nil)

	p, err := parsePredicates(r)
	require.NoError(t, err)
	assert.False(t, p.Active())
}

func TestParsePredicates_NegativeFundingRejected(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/companies?min_funding_musd=-5", nil)

	_, err := parsePredicates(r)
	assert.Error(t, err)
}

func TestSplitMulti(t *testing.T) {
	assert.Nil(t, splitMulti(nil))
	assert.Equal(t, []string{"a", "b", "c"}, splitMulti([]string{"a, b", "c", " "}))
}
