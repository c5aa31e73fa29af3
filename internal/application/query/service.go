package query

import (
	"context"
	"time"

	"github.com/fusionatlas/fusion-catalog/internal/domain/catalog"
	"github.com/fusionatlas/fusion-catalog/internal/infrastructure/monitoring/logging"
	"github.com/fusionatlas/fusion-catalog/pkg/errors"
)

// SnapshotSource supplies the current catalog snapshot.  Implementations are
// expected to cache: repeated calls within the freshness window return the
// same table.
type SnapshotSource interface {
	// Snapshot returns the current table, the normalization report from the
	// load that produced it, and the time it was fetched.
	Snapshot(ctx context.Context) (*catalog.Table, catalog.Report, time.Time, error)

	// Invalidate discards the cached snapshot so the next Snapshot call
	// reloads from the upstream source.
	Invalidate()
}

// Service is the read-side application service.  Every operation resolves the
// current snapshot, applies the caller's predicates, and projects the result;
// no state is held between calls.
type Service struct {
	source SnapshotSource
	log    logging.Logger
}

// NewService creates a query service over the given snapshot source.
func NewService(source SnapshotSource, log logging.Logger) *Service {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Service{source: source, log: log.Named("query")}
}

// snapshot resolves the current table, mapping an empty catalog to the
// no-data error so every operation short-circuits the same way.
func (s *Service) snapshot(ctx context.Context) (*catalog.Table, catalog.Report, time.Time, error) {
	table, report, fetchedAt, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, catalog.Report{}, time.Time{}, err
	}
	if table.IsEmpty() {
		return nil, catalog.Report{}, time.Time{},
			errors.New(errors.ErrCodeCatalogEmpty, errors.DefaultMessageForCode(errors.ErrCodeCatalogEmpty))
	}
	return table, report, fetchedAt, nil
}

// Options carries the values that drive the filter controls: the distinct
// categorical values in first-seen order, and the funding ceiling for the
// minimum-funding threshold.
type Options struct {
	FuelSources   []string  `json:"fuel_sources"`
	Approaches    []string  `json:"approaches"`
	MaxFundingUSD float64   `json:"max_funding_usd"`
	FetchedAt     time.Time `json:"fetched_at"`
}

// FilterOptions returns the selectable filter values for the current catalog.
func (s *Service) FilterOptions(ctx context.Context) (Options, error) {
	table, _, fetchedAt, err := s.snapshot(ctx)
	if err != nil {
		return Options{}, err
	}

	var maxFunding float64
	for _, c := range table.All() {
		if c.FundingUSD != nil && *c.FundingUSD > maxFunding {
			maxFunding = *c.FundingUSD
		}
	}

	return Options{
		FuelSources:   table.DistinctValues(catalog.FieldFuelSource),
		Approaches:    table.DistinctValues(catalog.FieldGeneralApproach),
		MaxFundingUSD: maxFunding,
		FetchedAt:     fetchedAt,
	}, nil
}

// SearchResult is the response of a filtered catalog listing.
type SearchResult struct {
	Companies []CompanyRow `json:"companies"`
	Count     int          `json:"count"`
	BaseCount int          `json:"base_count"`
	FetchedAt time.Time    `json:"fetched_at"`
}

// Search applies the predicates and returns the display rows of the surviving
// records together with the "showing N of M" counts.  An empty result under
// active predicates is a valid response, not an error.
func (s *Service) Search(ctx context.Context, p PredicateSet) (SearchResult, error) {
	table, _, fetchedAt, err := s.snapshot(ctx)
	if err != nil {
		return SearchResult{}, err
	}

	view := Apply(table.All(), p)
	return SearchResult{
		Companies: FormatRows(view),
		Count:     view.Count(),
		BaseCount: view.BaseCount(),
		FetchedAt: fetchedAt,
	}, nil
}

// SummaryResult bundles the raw summary metrics with their display forms and
// the chart series derived from the same view.
type SummaryResult struct {
	Summary        Summary        `json:"summary"`
	Cards          SummaryCards   `json:"cards"`
	FundingSeries  []FundingPoint `json:"funding_series"`
	ScatterSeries  []ScatterPoint `json:"scatter_series"`
	Count          int            `json:"count"`
	BaseCount      int            `json:"base_count"`
	SourceDegraded bool           `json:"source_degraded"`
	FetchedAt      time.Time      `json:"fetched_at"`
}

// SummaryCards holds the pre-formatted card strings.
type SummaryCards struct {
	Companies     string `json:"companies"`
	TotalFunding  string `json:"total_funding"`
	MeanEmployees string `json:"mean_employees"`
	MeanOutputMWe string `json:"mean_output_mwe"`
}

// Summarize computes summary metrics and chart series for the filtered view.
func (s *Service) Summarize(ctx context.Context, p PredicateSet) (SummaryResult, error) {
	table, report, fetchedAt, err := s.snapshot(ctx)
	if err != nil {
		return SummaryResult{}, err
	}

	view := Apply(table.All(), p)
	summary := Summarize(view)

	return SummaryResult{
		Summary:        summary,
		Cards:          formatCards(summary),
		FundingSeries:  FundingSeries(view),
		ScatterSeries:  ScatterSeries(view),
		Count:          view.Count(),
		BaseCount:      view.BaseCount(),
		SourceDegraded: report.Degraded(),
		FetchedAt:      fetchedAt,
	}, nil
}

func formatCards(s Summary) SummaryCards {
	return SummaryCards{
		Companies:     GroupThousands(int64(s.Count)),
		TotalFunding:  Billions(s.TotalFundingUSD),
		MeanEmployees: GroupThousands(int64(s.MeanEmployees + 0.5)),
		MeanOutputMWe: OutputMWe(&s.MeanOutputMWe),
	}
}

// DistributionResult is the response of a categorical distribution query.
type DistributionResult struct {
	Field     string       `json:"field"`
	Segments  []ValueCount `json:"segments"`
	Count     int          `json:"count"`
	BaseCount int          `json:"base_count"`
	FetchedAt time.Time    `json:"fetched_at"`
}

// Distribute counts the distinct values of a categorical field within the
// filtered view.  A non-categorical field is a caller error.
func (s *Service) Distribute(ctx context.Context, p PredicateSet, f catalog.Field) (DistributionResult, error) {
	if !catalog.IsCategorical(f) {
		return DistributionResult{}, errors.Newf(errors.ErrCodeBadRequest, "field %q is not categorical", string(f))
	}

	table, _, fetchedAt, err := s.snapshot(ctx)
	if err != nil {
		return DistributionResult{}, err
	}

	view := Apply(table.All(), p)
	return DistributionResult{
		Field:     string(f),
		Segments:  Distribution(view, f),
		Count:     view.Count(),
		BaseCount: view.BaseCount(),
		FetchedAt: fetchedAt,
	}, nil
}

// Detail returns the display projection for a single company by exact name.
func (s *Service) Detail(ctx context.Context, name string) (CompanyDetail, error) {
	table, _, _, err := s.snapshot(ctx)
	if err != nil {
		return CompanyDetail{}, err
	}

	c, ok := table.ByName(name)
	if !ok {
		return CompanyDetail{}, errors.New(errors.ErrCodeCompanyNotFound, errors.DefaultMessageForCode(errors.ErrCodeCompanyNotFound)).
			WithDetail("name=" + name)
	}
	return FormatDetail(c), nil
}

// RefreshResult reports the outcome of a forced reload.
type RefreshResult struct {
	Count     int            `json:"count"`
	Report    catalog.Report `json:"report"`
	FetchedAt time.Time      `json:"fetched_at"`
}

// Refresh discards the cached snapshot and loads a fresh one.  The old
// snapshot is already gone when the load fails; the next read retries.
func (s *Service) Refresh(ctx context.Context) (RefreshResult, error) {
	s.source.Invalidate()

	table, report, fetchedAt, err := s.source.Snapshot(ctx)
	if err != nil {
		return RefreshResult{}, err
	}

	s.log.Info("catalog refreshed",
		logging.Int("count", table.Len()),
		logging.Int("rejected_no_name", report.RejectedNoName),
		logging.Int("duplicate_name", report.DuplicateName),
	)
	return RefreshResult{Count: table.Len(), Report: report, FetchedAt: fetchedAt}, nil
}
