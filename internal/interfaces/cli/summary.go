package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fusionatlas/fusion-catalog/internal/application/query"
)

var (
	summaryFuelSources    []string
	summaryApproaches     []string
	summarySearch         string
	summaryMinFundingMUSD float64
)

// newSummaryCmd creates the summary command: aggregate metrics over the
// filtered catalog.
func newSummaryCmd(factory ServiceFactory, opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show aggregate metrics for the filtered catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := factory(cmd.Context())
			if err != nil {
				return err
			}

			res, err := svc.Summarize(cmd.Context(), query.PredicateSet{
				FuelSources:   summaryFuelSources,
				Approaches:    summaryApproaches,
				SearchTerm:    summarySearch,
				MinFundingUSD: summaryMinFundingMUSD * 1e6,
			})
			if err != nil {
				return err
			}

			if strings.EqualFold(opts.OutputFormat, "json") {
				return printJSON(cmd, res)
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, FormatTable(
				[]string{"COMPANIES", "TOTAL FUNDING", "AVG EMPLOYEES", "AVG OUTPUT"},
				[][]string{{
					res.Cards.Companies,
					res.Cards.TotalFunding,
					res.Cards.MeanEmployees,
					res.Cards.MeanOutputMWe,
				}},
			))
			fmt.Fprintf(out, "\nShowing %d of %d companies\n", res.Count, res.BaseCount)
			if res.SourceDegraded {
				fmt.Fprintln(cmd.ErrOrStderr(), "Warning: some upstream records were rejected during normalization")
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&summaryFuelSources, "fuel-source", nil, "filter by fuel source (repeatable)")
	f.StringSliceVar(&summaryApproaches, "approach", nil, "filter by general approach (repeatable)")
	f.StringVar(&summarySearch, "search", "", "substring match over name and description")
	f.Float64Var(&summaryMinFundingMUSD, "min-funding-musd", 0, "minimum funding in millions of USD")

	return cmd
}
