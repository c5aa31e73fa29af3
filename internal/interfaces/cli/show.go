package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// newShowCmd creates the show command: print the full detail for one company.
func newShowCmd(factory ServiceFactory, opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <company name>",
		Short: "Show the full record for a single company",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := factory(cmd.Context())
			if err != nil {
				return err
			}

			name := strings.Join(args, " ")
			detail, err := svc.Detail(cmd.Context(), name)
			if err != nil {
				return err
			}

			if strings.EqualFold(opts.OutputFormat, "json") {
				return printJSON(cmd, detail)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", detail.Name)
			if detail.Description != "" {
				fmt.Fprintf(out, "%s\n", detail.Description)
			}
			fmt.Fprintln(out)
			fmt.Fprint(out, FormatTable(
				[]string{"FIELD", "VALUE"},
				[][]string{
					{"Location", detail.Location},
					{"Founded", detail.Founded},
					{"Employees", detail.Employees},
					{"Approach", detail.Approach},
					{"Fuel source", detail.FuelSource},
					{"Pilot plant", detail.PilotPlantTimeline},
					{"Funding", detail.Funding},
					{"Commercial output", detail.Output},
				},
			))
			if len(detail.Milestones) > 0 {
				fmt.Fprintln(out, "\nMilestones (past 12 months):")
				for _, m := range detail.Milestones {
					fmt.Fprintf(out, "  - %s\n", m)
				}
			}
			return nil
		},
	}
}
