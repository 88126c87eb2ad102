package upload

import (
	"context"

	"github.com/uploadwire/cli/internal/config"
	"github.com/uploadwire/cli/internal/output"
	"github.com/uploadwire/cli/internal/sentrycli"
)

// NativeSymbolUpload uploads a variant's native debug files.
type NativeSymbolUpload struct {
	// Variant is the variant name, for logs.
	Variant string

	CLIExecutable  string
	PropertiesFile string

	// NativeLibsDir is the merged native libraries directory.
	NativeLibsDir string

	// IncludeNativeSources adds --include-sources.
	IncludeNativeSources bool

	Organization config.Lookup
	Project      config.Lookup

	WorkingDir string
}

// Args returns the uploader argument vector.
func (n *NativeSymbolUpload) Args() []string {
	args := appendOrgProject([]string{"upload-dif"}, n.Organization, n.Project)
	args = append(args, n.NativeLibsDir)
	if n.IncludeNativeSources {
		args = append(args, "--include-sources")
	}
	return sentrycli.Command(n.CLIExecutable, args...)
}

// Run invokes the uploader.
func (n *NativeSymbolUpload) Run(ctx context.Context, runner sentrycli.Runner) error {
	inv := sentrycli.Invocation{
		Dir:  n.WorkingDir,
		Env:  sentrycli.PropertiesEnvFor(n.PropertiesFile),
		Args: n.Args(),
	}
	log := output.VariantLogger(n.Variant)
	log.Info("uploading native symbols", "dir", n.NativeLibsDir)
	log.Debug("invoking uploader", "cmd", inv.String())
	return runner.Run(ctx, inv)
}
