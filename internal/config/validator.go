package config

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"

	oerrors "github.com/uploadwire/cli/internal/errors"
)

// ValidationError represents a settings validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString("settings validation failed:\n")
	for _, err := range e {
		fmt.Fprintf(&sb, "  %s: %s\n", err.Field, err.Message)
	}
	return sb.String()
}

// Is matches errors.ErrValidation.
func (e ValidationErrors) Is(target error) bool {
	return target == oerrors.ErrValidation
}

// Validate checks settings for contradictions. Warnings are returned
// separately and never fail validation.
func Validate(fs afero.Fs, s Settings) (warnings []string, err error) {
	var errs ValidationErrors

	if s.IncludeNativeSources && !s.UploadNativeSymbols {
		warnings = append(warnings,
			"includeNativeSources has no effect while uploadNativeSymbols is false")
	}

	if s.CLIExecutable != "" {
		if strings.TrimSpace(s.CLIExecutable) == "" {
			errs = append(errs, ValidationError{
				Field:   "cliExecutable",
				Message: "must not be whitespace only",
			})
		} else if path, expErr := ExpandPath(s.CLIExecutable); expErr == nil {
			if isDir, _ := afero.IsDir(fs, path); isDir {
				errs = append(errs, ValidationError{
					Field:   "cliExecutable",
					Message: fmt.Sprintf("%s is a directory", path),
				})
			}
		}
	}

	if len(errs) > 0 {
		return warnings, errs
	}
	return warnings, nil
}
