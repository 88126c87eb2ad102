package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uploadwire/cli/internal/cmdtypes"
	"github.com/uploadwire/cli/internal/paths"
	"github.com/uploadwire/cli/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show uploadwire version information.

Displays:
  - uploadwire version, commit, and build date
  - the sentry-cli that would be used, and its version`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			resolver := paths.New(cfg.ProjectDir, "", "", cfg.Fs)
			if cfg.LookPath != nil {
				resolver.LookPath = cfg.LookPath
			}

			var cliPath string
			if res, err := resolver.CLIExecutable(paths.CLIOptions{
				FlagValue:     cfg.CLIExecutableFlag,
				SettingsValue: cfg.Settings.CLIExecutable,
			}); err == nil {
				cliPath = res.Path
			}

			up := version.DetectUploader(c.Context(), cliPath)
			fmt.Fprintln(c.OutOrStdout(), version.FullVersionString(version.GetInfo(), up))
			return nil
		},
	}
}
