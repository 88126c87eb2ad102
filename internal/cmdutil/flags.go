// Package cmdutil provides shared command utilities: flag groups, the wiring
// session every command starts from, and report rendering.
package cmdutil

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	oerrors "github.com/uploadwire/cli/internal/errors"
	"github.com/uploadwire/cli/internal/output"
)

// OutputFlags holds the --output flag.
type OutputFlags struct {
	Format string
}

// AddTo registers the output flags on the given cobra command.
func (f *OutputFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Format, "output", "o", "table",
		"Output format ("+strings.Join(output.ValidFormats(), ", ")+")")
}

// Parse validates and returns the output format.
func (f *OutputFlags) Parse() (output.OutputFormat, error) {
	format := output.ParseOutputFormat(f.Format)
	if format == output.FormatTable && !strings.EqualFold(f.Format, string(output.FormatTable)) {
		return "", fmt.Errorf("%w: invalid output format %q, use %s",
			oerrors.ErrValidation, f.Format, strings.Join(output.ValidFormats(), ", "))
	}
	return format, nil
}

// ExecFlags holds flags for commands that execute the graph.
type ExecFlags struct {
	Parallelism int
}

// AddTo registers the execution flags on the given cobra command.
func (f *ExecFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.Parallelism, "parallelism", 0,
		"Maximum concurrently running tasks (0 = unlimited)")
}
