package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uploadwire/cli/internal/cmdtypes"
	"github.com/uploadwire/cli/internal/cmdutil"
	oerrors "github.com/uploadwire/cli/internal/errors"
	"github.com/uploadwire/cli/internal/output"
)

// NewPlanCmd creates the plan command.
func NewPlanCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		outFlags cmdutil.OutputFlags
		diff     bool
		strict   bool
	)

	c := &cobra.Command{
		Use:   "plan",
		Short: "Show how upload steps are wired into the pipeline",
		Long: `Wire the upload steps into the host graph and print the result
without running anything.

Examples:
  # Per-variant summary
  uploadwire plan

  # Full graph as YAML
  uploadwire plan -o yaml

  # What wiring changed in the host graph
  uploadwire plan --diff`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			format, err := outFlags.Parse()
			if err != nil {
				return err
			}

			session, err := cmdutil.Wire(cfg)
			if err != nil {
				return err
			}

			if diff {
				text, err := cmdutil.PlanDiff(session, output.IsTTY())
				if err != nil {
					return err
				}
				if text == "" {
					fmt.Fprintln(c.OutOrStdout(), "No changes to the host graph")
				} else {
					fmt.Fprint(c.OutOrStdout(), output.IndentDiff(text, "  "))
				}
			} else if err := cmdutil.WritePlan(c.OutOrStdout(), session, format); err != nil {
				return err
			}

			if variantErr := session.Report.Err(); variantErr != nil {
				output.Warn("some variants will fail when their upload steps run", "error", variantErr)
				if strict {
					return &oerrors.ExitError{
						Code:    oerrors.ExitCodeFromError(variantErr),
						Err:     variantErr,
						Printed: true,
					}
				}
			}
			return nil
		},
	}

	outFlags.AddTo(c)
	c.Flags().BoolVar(&diff, "diff", false, "Show a YAML diff of the host graph before and after wiring")
	c.Flags().BoolVar(&strict, "strict", false, "Fail when any variant recorded a wiring error")

	return c
}
