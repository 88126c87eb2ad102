package config

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/uploadwire/cli/internal/errors"
)

func TestValidate(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/opt/tools", 0o755))
	writeFile(t, fs, "/opt/tools/sentry-cli", "")

	t.Run("defaults are valid", func(t *testing.T) {
		warnings, err := Validate(fs, DefaultSettings())
		assert.NoError(t, err)
		assert.Empty(t, warnings)
	})

	t.Run("include sources without native upload warns", func(t *testing.T) {
		warnings, err := Validate(fs, Settings{IncludeNativeSources: true})
		assert.NoError(t, err)
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "includeNativeSources")
	})

	t.Run("executable pointing at a file is valid", func(t *testing.T) {
		_, err := Validate(fs, Settings{CLIExecutable: "/opt/tools/sentry-cli"})
		assert.NoError(t, err)
	})

	t.Run("executable pointing at a directory fails", func(t *testing.T) {
		_, err := Validate(fs, Settings{CLIExecutable: "/opt/tools"})
		require.Error(t, err)

		var verrs ValidationErrors
		require.True(t, errors.As(err, &verrs))
		assert.Equal(t, "cliExecutable", verrs[0].Field)
		assert.True(t, errors.Is(err, oerrors.ErrValidation))
	})

	t.Run("whitespace executable fails", func(t *testing.T) {
		_, err := Validate(fs, Settings{CLIExecutable: "  "})
		assert.Error(t, err)
	})
}
