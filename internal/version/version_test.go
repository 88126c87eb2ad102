package version

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo()
	require.NotEmpty(t, info.GoVersion, "GoVersion should be populated")
	assert.Equal(t, Version, info.Version)
}

func TestInfoString(t *testing.T) {
	info := Info{
		Version:   "v1.0.0",
		GitCommit: "abc123",
		BuildDate: "2026-01-29",
		GoVersion: "go1.25",
	}

	str := info.String()

	assert.Contains(t, str, "v1.0.0")
	assert.Contains(t, str, "abc123")
	assert.Contains(t, str, "2026-01-29")
	assert.Contains(t, str, "go1.25")
}

func TestUploaderInfoString(t *testing.T) {
	assert.Contains(t, UploaderInfo{}.String(), "not found")
	assert.Contains(t, UploaderInfo{Found: true, Path: "/bin/sentry-cli", Message: "boom"}.String(), "unknown (boom)")

	str := UploaderInfo{Found: true, Path: "/bin/sentry-cli", Version: "v2.31.0"}.String()
	assert.Contains(t, str, "v2.31.0")
	assert.Contains(t, str, "/bin/sentry-cli")
}

func TestFullVersionString(t *testing.T) {
	str := FullVersionString(Info{Version: "v1.2.3"}, UploaderInfo{Found: true, Path: "/x", Version: "v2.0.0"})
	assert.Contains(t, str, "v1.2.3")
	assert.Contains(t, str, "sentry-cli:")
	assert.Contains(t, str, "v2.0.0")
}

func TestExtractVersion(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"sentry-cli 2.31.0\n", "v2.31.0", true},
		{"sentry-cli v1.74.3", "v1.74.3", true},
		{"sentry-cli 2.0.0-beta.1", "v2.0.0-beta.1", true},
		{"no version here", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := extractVersion(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectUploader(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		info := DetectUploader(context.Background(), "")
		assert.False(t, info.Found)
	})

	t.Run("fake uploader script", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("requires a POSIX shell")
		}
		if _, err := exec.LookPath("sh"); err != nil {
			t.Skip("sh not available")
		}

		script := filepath.Join(t.TempDir(), "sentry-cli")
		require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho 'sentry-cli 2.31.0'\n"), 0o755))

		info := DetectUploader(context.Background(), script)
		assert.True(t, info.Found)
		assert.Equal(t, "v2.31.0", info.Version)
		assert.Equal(t, script, info.Path)
	})

	t.Run("failing uploader", func(t *testing.T) {
		info := DetectUploader(context.Background(), "/nonexistent/sentry-cli")
		assert.True(t, info.Found)
		assert.Empty(t, info.Version)
		assert.NotEmpty(t, info.Message)
	})
}
