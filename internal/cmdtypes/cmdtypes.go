// Package cmdtypes provides shared types for the cmd package and cmdutil.
// It is separate from internal/cmd to avoid import cycles.
package cmdtypes

import (
	"github.com/spf13/afero"

	"github.com/uploadwire/cli/internal/config"
	oerrors "github.com/uploadwire/cli/internal/errors"
	"github.com/uploadwire/cli/internal/sentrycli"
)

// GlobalConfig holds CLI-wide configuration resolved during PersistentPreRunE.
// It is populated once at startup and passed explicitly into every
// sub-command constructor.
type GlobalConfig struct {
	// ConfigPath is the resolved user settings file.
	ConfigPath string

	// ProjectDir is the resolved --project-dir.
	ProjectDir string

	// PipelinePath is the resolved pipeline description.
	PipelinePath string

	// CLIExecutableFlag is the raw --cli-executable value.
	CLIExecutableFlag string

	// Settings are the merged user and project settings.
	Settings *config.Settings

	Verbose bool

	// Fs is the filesystem every command works on. Defaults to the OS.
	Fs afero.Fs

	// Runner executes uploader invocations. Defaults to sentrycli.NewBinary().
	Runner sentrycli.Runner

	// LookPath overrides the PATH search for the uploader.
	LookPath func(file string) (string, error)
}

// Exit codes, aliased from internal/errors.
const (
	ExitSuccess          = oerrors.ExitSuccess
	ExitGeneralError     = oerrors.ExitGeneralError
	ExitValidationError  = oerrors.ExitValidationError
	ExitPermissionDenied = oerrors.ExitPermissionDenied
	ExitNotFound         = oerrors.ExitNotFound
	ExitUploadFailed     = oerrors.ExitUploadFailed
)

// ExitError is a type alias to internal/errors.ExitError.
type ExitError = oerrors.ExitError
