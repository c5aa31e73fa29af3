package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fusionatlas/fusion-catalog/internal/application/query"
)

var (
	listFuelSources    []string
	listApproaches     []string
	listSearch         string
	listMinFundingMUSD float64
)

// newListCmd creates the list command: filter the catalog and print the
// surviving companies.
func newListCmd(factory ServiceFactory, opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List companies matching the given filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := factory(cmd.Context())
			if err != nil {
				return err
			}

			res, err := svc.Search(cmd.Context(), query.PredicateSet{
				FuelSources:   listFuelSources,
				Approaches:    listApproaches,
				SearchTerm:    listSearch,
				MinFundingUSD: listMinFundingMUSD * 1e6,
			})
			if err != nil {
				return err
			}

			if strings.EqualFold(opts.OutputFormat, "json") {
				return printJSON(cmd, res)
			}

			rows := make([][]string, 0, len(res.Companies))
			for _, c := range res.Companies {
				rows = append(rows, []string{
					c.Name, c.Location, c.Founded, c.Employees, c.Funding,
					c.GeneralApproach, c.FuelSource,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, FormatTable(
				[]string{"NAME", "LOCATION", "FOUNDED", "EMPLOYEES", "FUNDING", "APPROACH", "FUEL"},
				rows,
			))
			fmt.Fprintf(out, "\nShowing %d of %d companies\n", res.Count, res.BaseCount)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&listFuelSources, "fuel-source", nil, "filter by fuel source (repeatable)")
	f.StringSliceVar(&listApproaches, "approach", nil, "filter by general approach (repeatable)")
	f.StringVar(&listSearch, "search", "", "substring match over name and description")
	f.Float64Var(&listMinFundingMUSD, "min-funding-musd", 0, "minimum funding in millions of USD")

	return cmd
}
