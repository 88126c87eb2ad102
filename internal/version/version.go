// Package version provides version information for the uploadwire CLI.
package version

import (
	"fmt"
	"runtime"
)

// Build-time variables set via ldflags.
var (
	// Version is the CLI version (set via ldflags).
	Version = "v0.0.0-dev"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// Info contains version information.
type Info struct {
	// Version is the CLI version (set via ldflags).
	Version string `json:"version"`

	// GitCommit is the git commit hash.
	GitCommit string `json:"gitCommit"`

	// BuildDate is the build timestamp.
	BuildDate string `json:"buildDate"`

	// GoVersion is the Go version used to build.
	GoVersion string `json:"goVersion"`
}

// UploaderInfo describes the sentry-cli installation the CLI would use.
type UploaderInfo struct {
	// Version is the uploader version.
	Version string `json:"version"`

	// Path is the path to the uploader.
	Path string `json:"path"`

	// Found indicates the uploader was located.
	Found bool `json:"found"`

	// Message provides additional information when detection failed.
	Message string `json:"message,omitempty"`
}

// GetInfo returns the current version information.
func GetInfo() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
}

// String returns a human-readable version string.
func (i Info) String() string {
	return fmt.Sprintf("uploadwire:\n  Version:  %s\n  Build ID: %s/%s\n  Go:       %s",
		i.Version, i.BuildDate, i.GitCommit, i.GoVersion)
}

// String returns a human-readable uploader info string.
func (u UploaderInfo) String() string {
	if !u.Found {
		msg := u.Message
		if msg == "" {
			msg = "not found"
		}
		return "  Version: " + msg + "\n  Path:    -"
	}
	if u.Version == "" {
		return fmt.Sprintf("  Version: unknown (%s)\n  Path:    %s", u.Message, u.Path)
	}
	return fmt.Sprintf("  Version: %s\n  Path:    %s", u.Version, u.Path)
}

// FullVersionString returns complete version information including the uploader.
func FullVersionString(info Info, up UploaderInfo) string {
	return fmt.Sprintf("%s\n\nsentry-cli:\n%s", info.String(), up.String())
}
