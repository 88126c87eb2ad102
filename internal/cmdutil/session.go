package cmdutil

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"

	"github.com/uploadwire/cli/internal/cmdtypes"
	"github.com/uploadwire/cli/internal/config"
	oerrors "github.com/uploadwire/cli/internal/errors"
	"github.com/uploadwire/cli/internal/graph"
	"github.com/uploadwire/cli/internal/host"
	"github.com/uploadwire/cli/internal/output"
	"github.com/uploadwire/cli/internal/paths"
	"github.com/uploadwire/cli/internal/wiring"
)

// Session is a wired host graph plus what it took to build it.
type Session struct {
	Host *host.Host

	// Baseline is the host graph before wiring.
	Baseline graph.Snapshot

	Report *wiring.Report
}

// Wire loads the pipeline, builds the baseline host graph, and wires the
// upload steps into it.
//
// On failure it returns an *ExitError with the appropriate exit code and
// the Printed flag set.
func Wire(cfg *cmdtypes.GlobalConfig) (*Session, error) {
	if cfg == nil || cfg.Settings == nil {
		return nil, &oerrors.ExitError{Code: oerrors.ExitGeneralError, Err: fmt.Errorf("configuration not loaded")}
	}
	fs := cfg.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	output.Debug("loading pipeline", "path", cfg.PipelinePath)
	pipeline, err := host.Load(fs, cfg.PipelinePath)
	if err != nil {
		return nil, printed("could not load pipeline", err)
	}

	h, err := host.New(pipeline)
	if err != nil {
		return nil, printed("could not build host graph", err)
	}
	baseline := h.Graph.Snapshot()

	resolver := paths.New(pipeline.ProjectDir, pipeline.RootDir, pipeline.BuildDir, fs)
	if cfg.LookPath != nil {
		resolver.LookPath = cfg.LookPath
	}

	w := &wiring.Wirer{
		Graph:    h.Graph,
		Sources:  h.Sources,
		Resolver: resolver,
		Gate:     config.NewGate(*cfg.Settings, pipeline.Extras()),
		Runner:   cfg.Runner,
		Fs:       fs,
		CLIOptions: paths.CLIOptions{
			FlagValue:     cfg.CLIExecutableFlag,
			SettingsValue: cfg.Settings.CLIExecutable,
		},
	}

	report, err := w.Wire(pipeline.BuildVariants())
	if err != nil {
		return nil, printed("could not resolve sentry-cli", err)
	}

	output.Debug("wiring complete",
		"variants", len(pipeline.Variants),
		"nodes", len(report.Nodes()),
		"cli", report.CLI.Path,
		"cli_source", report.CLI.Source,
	)

	return &Session{Host: h, Baseline: baseline, Report: report}, nil
}

// printed logs err and wraps it in an ExitError marked as already printed.
func printed(msg string, err error) error {
	var detail *oerrors.DetailError
	if errors.As(err, &detail) {
		output.Error(msg)
		output.Details(detail.Error())
	} else {
		output.Error(msg, "error", err)
	}
	return &oerrors.ExitError{Code: oerrors.ExitCodeFromError(err), Err: err, Printed: true}
}
