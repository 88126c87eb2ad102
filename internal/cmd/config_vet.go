package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/uploadwire/cli/internal/cmdtypes"
	"github.com/uploadwire/cli/internal/config"
	oerrors "github.com/uploadwire/cli/internal/errors"
	"github.com/uploadwire/cli/internal/output"
)

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:   "vet",
		Short: "Validate settings",
		Long: `Validate the effective uploadwire settings.

Checks performed:
  1. The project settings file exists
  2. Every settings file parses
  3. The merged settings are consistent

Examples:
  # Validate the project settings
  uploadwire config vet

  # Validate another project
  uploadwire config vet -p ./app`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runConfigVet(c, cfg)
		},
	}

	return c
}

func runConfigVet(c *cobra.Command, cfg *cmdtypes.GlobalConfig) error {
	projectFile := config.ProjectFile(cfg.ProjectDir)

	output.Debug("validating settings",
		"project_file", projectFile,
		"user_file", cfg.ConfigPath,
	)

	exists, err := afero.Exists(cfg.Fs, projectFile)
	if err != nil {
		return fmt.Errorf("checking settings file: %w", err)
	}
	if !exists {
		return &oerrors.DetailError{
			Type:     "not found",
			Message:  "settings file not found",
			Location: projectFile,
			Hint:     "Run 'uploadwire config init' to create default settings.",
			Cause:    oerrors.ErrNotFound,
		}
	}

	// Parse errors already surfaced while loading globals, so cfg.Settings is
	// the merged, parsed result.
	warnings, err := config.Validate(cfg.Fs, *cfg.Settings)
	for _, w := range warnings {
		output.Warn(w)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark("Settings are valid: "+projectFile))
	return nil
}
