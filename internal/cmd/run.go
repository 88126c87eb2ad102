package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/uploadwire/cli/internal/cmdtypes"
	"github.com/uploadwire/cli/internal/cmdutil"
	oerrors "github.com/uploadwire/cli/internal/errors"
	"github.com/uploadwire/cli/internal/graph"
	"github.com/uploadwire/cli/internal/output"
)

// NewRunCmd creates the run command.
func NewRunCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var execFlags cmdutil.ExecFlags

	c := &cobra.Command{
		Use:   "run <task>...",
		Short: "Run host tasks with the upload steps wired in",
		Long: `Wire the upload steps, then run the named host tasks, their
dependencies, and their finalizers.

Examples:
  # Build the release variant, uploading its mapping
  uploadwire run assembleRelease

  # Assemble and bundle; native symbols are uploaded once
  uploadwire run assembleRelease bundleRelease`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runTasks(c, cfg, execFlags, args)
		},
	}

	execFlags.AddTo(c)
	return c
}

func runTasks(c *cobra.Command, cfg *cmdtypes.GlobalConfig, execFlags cmdutil.ExecFlags, tasks []string) error {
	session, err := cmdutil.Wire(cfg)
	if err != nil {
		return err
	}

	var unknown []string
	for _, t := range tasks {
		if _, ok := session.Host.Graph.Lookup(t); !ok {
			unknown = append(unknown, t)
		}
	}
	if len(unknown) > 0 {
		return oerrors.NewNotFoundError("unknown task: "+strings.Join(unknown, ", "), cfg.PipelinePath,
			"Available tasks: "+strings.Join(session.Host.Tasks(), ", "))
	}

	ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var result *graph.Result
	err = output.RunWithSpinner(ctx, "Running "+strings.Join(tasks, ", "), func(ctx context.Context) error {
		var execErr error
		result, execErr = session.Host.Graph.Execute(ctx, graph.ExecuteOptions{Parallelism: execFlags.Parallelism}, tasks...)
		return execErr
	})

	if result != nil {
		if writeErr := cmdutil.WriteRunResult(c.OutOrStdout(), result); writeErr != nil {
			return writeErr
		}
	}
	if err != nil {
		output.Error("run failed", "error", err)
		return &oerrors.ExitError{Code: oerrors.ExitCodeFromError(err), Err: err, Printed: true}
	}

	fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark("all tasks completed"))
	return nil
}
