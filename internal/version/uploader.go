package version

import (
	"bytes"
	"context"
	"os/exec"
	"regexp"
	"strings"
	"time"
)

// uploaderVersionRegex matches output like "sentry-cli 2.31.0".
var uploaderVersionRegex = regexp.MustCompile(`v?\d+\.\d+\.\d+(?:-[a-zA-Z0-9.]+)?`)

// detectTimeout bounds the `sentry-cli --version` call.
const detectTimeout = 5 * time.Second

// DetectUploader runs `<path> --version`. An empty path reads as not found.
func DetectUploader(ctx context.Context, path string) UploaderInfo {
	if path == "" {
		return UploaderInfo{Message: "sentry-cli not found"}
	}

	ctx, cancel := context.WithTimeout(ctx, detectTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, "--version")
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return UploaderInfo{
			Path:    path,
			Found:   true,
			Message: "failed to get sentry-cli version: " + err.Error(),
		}
	}

	v, ok := extractVersion(out.String())
	if !ok {
		return UploaderInfo{
			Path:    path,
			Found:   true,
			Message: "unrecognized version output",
		}
	}
	return UploaderInfo{Version: v, Path: path, Found: true}
}

// extractVersion pulls the first semantic version out of the output and
// normalizes it to a "v" prefix.
func extractVersion(output string) (string, bool) {
	match := uploaderVersionRegex.FindString(output)
	if match == "" {
		return "", false
	}
	if !strings.HasPrefix(match, "v") {
		match = "v" + match
	}
	return match, true
}
