// Package cmd provides CLI command implementations.
package cmd

import (
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/uploadwire/cli/internal/cmdtypes"
	"github.com/uploadwire/cli/internal/config"
	oerrors "github.com/uploadwire/cli/internal/errors"
	"github.com/uploadwire/cli/internal/host"
	"github.com/uploadwire/cli/internal/output"
)

// rootFlags holds the persistent flag values.
type rootFlags struct {
	config        string
	verbose       bool
	timestamps    bool
	projectDir    string
	pipeline      string
	cliExecutable string
}

// NewRootCmd creates the root command for the uploadwire CLI.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&cmdtypes.GlobalConfig{})
}

// newRootCmd builds the command tree around cfg. Fields already set on cfg
// (Fs, Runner, LookPath) are kept.
func newRootCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "uploadwire",
		Short: "Wire sentry-cli upload steps into a build pipeline",
		Long: `uploadwire splices mapping and native symbol upload steps into a host
build graph, per build variant, and runs them through sentry-cli.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, _ []string) error {
			return initializeGlobals(c, flags, cfg)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.config, "config", "", "Path to user settings file (env: UPLOADWIRE_CONFIG)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose output")
	pf.BoolVar(&flags.timestamps, "timestamps", true, "Show timestamps in log output")
	pf.StringVarP(&flags.projectDir, "project-dir", "p", ".", "Project directory")
	pf.StringVar(&flags.pipeline, "pipeline", "", "Pipeline description (default: <project-dir>/"+host.DefaultFileName+")")
	pf.StringVar(&flags.cliExecutable, "cli-executable", "", "Path to sentry-cli (env: UPLOADWIRE_CLI_EXECUTABLE)")

	rootCmd.AddCommand(
		NewPlanCmd(cfg),
		NewRunCmd(cfg),
		NewConfigCmd(cfg),
		NewVersionCmd(cfg),
	)

	return rootCmd
}

// initializeGlobals sets up logging and loads settings into cfg.
func initializeGlobals(c *cobra.Command, flags *rootFlags, cfg *cmdtypes.GlobalConfig) error {
	logCfg := output.LogConfig{Verbose: flags.verbose}
	if c.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(flags.timestamps)
	}
	output.SetupLogging(logCfg)

	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}

	projectDir, err := filepath.Abs(flags.projectDir)
	if err != nil {
		return oerrors.Wrap(oerrors.ErrNotFound, "could not resolve project directory")
	}
	cfg.ProjectDir = projectDir
	cfg.PipelinePath = flags.pipeline
	if cfg.PipelinePath == "" {
		cfg.PipelinePath = filepath.Join(projectDir, host.DefaultFileName)
	}
	cfg.CLIExecutableFlag = flags.cliExecutable
	cfg.Verbose = flags.verbose

	pathResult, err := config.ResolveConfigPath(config.ResolveConfigPathOptions{FlagValue: flags.config})
	if err != nil {
		return oerrors.Wrap(oerrors.ErrNotFound, "could not resolve config path")
	}
	cfg.ConfigPath = pathResult.ConfigPath

	settings, err := config.NewLoaderFs(cfg.Fs).Load(cfg.ConfigPath, config.ProjectFile(projectDir))
	if err != nil {
		return oerrors.NewValidationError(err.Error(), cfg.ConfigPath, "", "Fix the settings file or run 'uploadwire config vet'.")
	}
	cfg.Settings = settings

	config.LogResolvedValues([]config.ResolvedValue{{
		Key:      "config",
		Value:    pathResult.ConfigPath,
		Source:   pathResult.Source,
		Shadowed: pathResult.Shadowed,
	}})
	output.Debug("initializing CLI",
		"project_dir", cfg.ProjectDir,
		"pipeline", cfg.PipelinePath,
		"auto_upload", settings.AutoUpload,
		"upload_native_symbols", settings.UploadNativeSymbols,
		"include_native_sources", settings.IncludeNativeSources,
	)

	return nil
}
