package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/uploadwire/cli/internal/cmdtypes"
	"github.com/uploadwire/cli/internal/config"
	oerrors "github.com/uploadwire/cli/internal/errors"
)

const settingsHeader = "# uploadwire settings\n" +
	"# Every key can be overridden with UPLOADWIRE_<KEY> (e.g. UPLOADWIRE_AUTO_UPLOAD).\n\n"

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd(cfg *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		force  bool
		global bool
	)

	c := &cobra.Command{
		Use:   "init",
		Short: "Create a settings file with default values",
		Long: `Create an uploadwire settings file with default values.

By default the file is created as uploadwire.yaml in the project directory.
With --global it is created at the user settings path
(--config flag > UPLOADWIRE_CONFIG env > ~/.uploadwire/config.yaml).

Examples:
  # Initialize project settings
  uploadwire config init

  # Overwrite existing settings
  uploadwire config init --force`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			path := config.ProjectFile(cfg.ProjectDir)
			if global {
				path = cfg.ConfigPath
			}
			return writeDefaultSettings(c, cfg.Fs, path, force)
		},
	}

	c.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing settings file")
	c.Flags().BoolVar(&global, "global", false, "Write the user settings file instead of the project one")

	return c
}

func writeDefaultSettings(c *cobra.Command, fs afero.Fs, path string, force bool) error {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return fmt.Errorf("expanding settings path: %w", err)
	}

	exists, err := afero.Exists(fs, expanded)
	if err != nil {
		return fmt.Errorf("checking settings file: %w", err)
	}
	if exists && !force {
		return &oerrors.DetailError{
			Type:     "validation failed",
			Message:  "settings file already exists",
			Location: expanded,
			Hint:     "Use --force to overwrite existing settings.",
			Cause:    oerrors.ErrValidation,
		}
	}

	if err := fs.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return oerrors.Wrap(oerrors.ErrPermission, "could not create "+filepath.Dir(expanded))
	}

	data, err := yaml.Marshal(config.DefaultSettings())
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	data = append([]byte(settingsHeader), data...)

	if err := afero.WriteFile(fs, expanded, data, 0o644); err != nil {
		return oerrors.Wrap(oerrors.ErrPermission, "could not write "+expanded)
	}

	fmt.Fprintf(c.OutOrStdout(), "Settings file created: %s\n", expanded)
	return nil
}
