package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fusionatlas/fusion-catalog/internal/domain/catalog"
	"github.com/fusionatlas/fusion-catalog/internal/infrastructure/monitoring/logging"
	"github.com/fusionatlas/fusion-catalog/pkg/errors"
)

type stubSource struct {
	table       *catalog.Table
	report      catalog.Report
	fetchedAt   time.Time
	err         error
	invalidated int
	snapshots   int
}

func (s *stubSource) Snapshot(_ context.Context) (*catalog.Table, catalog.Report, time.Time, error) {
	s.snapshots++
	if s.err != nil {
		return nil, catalog.Report{}, time.Time{}, s.err
	}
	return s.table, s.report, s.fetchedAt, nil
}

func (s *stubSource) Invalidate() { s.invalidated++ }

func newTestService(records []catalog.Company) (*Service, *stubSource) {
	src := &stubSource{
		table:     catalog.NewTable(records),
		report:    catalog.Report{Total: len(records), Accepted: len(records)},
		fetchedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
	return NewService(src, logging.NewNopLogger()), src
}

func TestService_EmptyCatalogShortCircuits(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	_, err := svc.Search(ctx, PredicateSet{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeCatalogEmpty))

	_, err = svc.Summarize(ctx, PredicateSet{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeCatalogEmpty))

	_, err = svc.Distribute(ctx, PredicateSet{}, catalog.FieldFuelSource)
	assert.True(t, errors.IsCode(err, errors.ErrCodeCatalogEmpty))

	_, err = svc.FilterOptions(ctx)
	assert.True(t, errors.IsCode(err, errors.ErrCodeCatalogEmpty))

	_, err = svc.Detail(ctx, "Helion Energy")
	assert.True(t, errors.IsCode(err, errors.ErrCodeCatalogEmpty))
}

func TestService_Search(t *testing.T) {
	svc, _ := newTestService(fixtureCompanies())

	res, err := svc.Search(context.Background(), PredicateSet{FuelSources: []string{"D-T"}})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Count)
	assert.Equal(t, 4, res.BaseCount)
	require.Len(t, res.Companies, 2)
	assert.Equal(t, "Commonwealth Fusion Systems", res.Companies[0].Name)
	assert.False(t, res.FetchedAt.IsZero())
}

func TestService_SearchEmptyResultIsNotAnError(t *testing.T) {
	svc, _ := newTestService(fixtureCompanies())

	res, err := svc.Search(context.Background(), PredicateSet{SearchTerm: "antimatter"})
	require.NoError(t, err)

	assert.Equal(t, 0, res.Count)
	assert.Equal(t, 4, res.BaseCount)
}

func TestService_Summarize(t *testing.T) {
	svc, _ := newTestService(fixtureCompanies())

	res, err := svc.Summarize(context.Background(), PredicateSet{})
	require.NoError(t, err)

	assert.Equal(t, 4, res.Summary.Count)
	assert.InDelta(t, 3_777_000_000, res.Summary.TotalFundingUSD, 0.1)
	assert.Equal(t, "$3.8B", res.Cards.TotalFunding)
	assert.Len(t, res.FundingSeries, 3)
	assert.False(t, res.SourceDegraded)
}

func TestService_DistributeRejectsNonCategoricalField(t *testing.T) {
	svc, _ := newTestService(fixtureCompanies())

	_, err := svc.Distribute(context.Background(), PredicateSet{}, catalog.Field("funding"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
}

func TestService_Distribute(t *testing.T) {
	svc, _ := newTestService(fixtureCompanies())

	res, err := svc.Distribute(context.Background(), PredicateSet{}, catalog.FieldFuelSource)
	require.NoError(t, err)

	assert.Equal(t, "fuel_source", res.Field)
	require.NotEmpty(t, res.Segments)
	assert.Equal(t, ValueCount{Value: "D-T", Count: 2}, res.Segments[0])
}

func TestService_Detail(t *testing.T) {
	svc, _ := newTestService(fixtureCompanies())
	ctx := context.Background()

	d, err := svc.Detail(ctx, "Helion Energy")
	require.NoError(t, err)
	assert.Equal(t, "$577.0M", d.Funding)

	_, err = svc.Detail(ctx, "No Such Company")
	assert.True(t, errors.IsCode(err, errors.ErrCodeCompanyNotFound))
}

func TestService_FilterOptions(t *testing.T) {
	svc, _ := newTestService(fixtureCompanies())

	opts, err := svc.FilterOptions(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"D-T", "p-B11", "D-He3"}, opts.FuelSources)
	assert.Equal(t, 2_000_000_000.0, opts.MaxFundingUSD)
}

func TestService_RefreshInvalidatesThenReloads(t *testing.T) {
	svc, src := newTestService(fixtureCompanies())

	res, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, src.invalidated)
	assert.Equal(t, 1, src.snapshots)
	assert.Equal(t, 4, res.Count)
}

func TestService_SourceErrorPropagates(t *testing.T) {
	src := &stubSource{err: errors.New(errors.ErrCodeSourceUnavailable, "dial tcp: refused")}
	svc := NewService(src, logging.NewNopLogger())

	_, err := svc.Search(context.Background(), PredicateSet{})
	assert.True(t, errors.IsSourceFailure(err))
}
