package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fusionatlas/fusion-catalog/internal/application/query"
	"github.com/fusionatlas/fusion-catalog/internal/domain/catalog"
	"github.com/fusionatlas/fusion-catalog/internal/infrastructure/cache"
	"github.com/fusionatlas/fusion-catalog/internal/infrastructure/monitoring/logging"
)

type fixedFetcher struct{ items []catalog.Raw }

func (f fixedFetcher) Fetch(_ context.Context) ([]catalog.Raw, error) { return f.items, nil }

func testFactory(items []catalog.Raw) ServiceFactory {
	return func(_ context.Context) (*query.Service, error) {
		snap := cache.New(fixedFetcher{items: items}, time.Hour, logging.NewNopLogger(), nil)
		return query.NewService(snap, logging.NewNopLogger()), nil
	}
}

func testCatalog() []catalog.Raw {
	return []catalog.Raw{
		{
			"name":             "Commonwealth Fusion Systems",
			"description":      "SPARC tokamak developer",
			"location":         "Devens, MA",
			"year_founded":     "2018-01-01",
			"employees":        float64(750),
			"general_approach": "Magnetic Confinement",
			"specific_approach": "Tokamak",
			"fuel_source":      "D-T",
			"funding":          map[string]interface{}{"amount": float64(2_000_000_000)},
		},
		{
			"name":             "Helion Energy",
			"general_approach": "Magneto-Inertial",
			"fuel_source":      "D-He3",
			"funding":          map[string]interface{}{"amount": float64(577_000_000)},
			"milestones_past_12_months": []interface{}{"50M degree plasma"},
		},
	}
}

// runCommand executes fusionctl with args and returns stdout.
func runCommand(t *testing.T, items []catalog.Raw, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	root := NewRootCommand(testFactory(items))
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

// resetFlags clears package-level flag state between runs.
func resetFlags() {
	listFuelSources, listApproaches, listSearch, listMinFundingMUSD = nil, nil, "", 0
	summaryFuelSources, summaryApproaches, summarySearch, summaryMinFundingMUSD = nil, nil, "", 0
}

func TestListCommand(t *testing.T) {
	out, err := runCommand(t, testCatalog(), "list")
	require.NoError(t, err)

	assert.Contains(t, out, "Commonwealth Fusion Systems")
	assert.Contains(t, out, "Helion Energy")
	assert.Contains(t, out, "Showing 2 of 2 companies")
}

func TestListCommand_Filtered(t *testing.T) {
	out, err := runCommand(t, testCatalog(), "list", "--fuel-source", "D-He3")
	require.NoError(t, err)

	assert.NotContains(t, out, "Commonwealth Fusion Systems")
	assert.Contains(t, out, "Helion Energy")
	assert.Contains(t, out, "Showing 1 of 2 companies")
}

func TestListCommand_MinFundingInMillions(t *testing.T) {
	out, err := runCommand(t, testCatalog(), "list", "--min-funding-musd", "1000")
	require.NoError(t, err)

	assert.Contains(t, out, "Commonwealth Fusion Systems")
	assert.NotContains(t, out, "Helion Energy")
}

func TestListCommand_JSONOutput(t *testing.T) {
	out, err := runCommand(t, testCatalog(), "list", "-o", "json")
	require.NoError(t, err)

	assert.Contains(t, out, `"base_count": 2`)
	assert.Contains(t, out, `"name": "Helion Energy"`)
}

func TestSummaryCommand(t *testing.T) {
	out, err := runCommand(t, testCatalog(), "summary")
	require.NoError(t, err)

	assert.Contains(t, out, "TOTAL FUNDING")
	assert.Contains(t, out, "$2.6B")
	assert.Contains(t, out, "Showing 2 of 2 companies")
}

func TestShowCommand(t *testing.T) {
	out, err := runCommand(t, testCatalog(), "show", "Helion", "Energy")
	require.NoError(t, err)

	assert.Contains(t, out, "Helion Energy")
	assert.Contains(t, out, "$577.0M")
	assert.Contains(t, out, "50M degree plasma")
}

func TestShowCommand_NotFound(t *testing.T) {
	_, err := runCommand(t, testCatalog(), "show", "No Such Company")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "company not found")
}

func TestEmptyCatalogFailsCommands(t *testing.T) {
	_, err := runCommand(t, nil, "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no valid records")
}

func TestFormatTable(t *testing.T) {
	out := FormatTable(
		[]string{"NAME", "FUEL"},
		[][]string{{"Helion Energy", "D-He3"}, {"Zap Energy", "D-T"}},
	)

	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "-----")
	assert.Contains(t, out, "Helion Energy  D-He3")
}

func TestFormatTable_Empty(t *testing.T) {
	assert.Empty(t, FormatTable(nil, nil))
}
