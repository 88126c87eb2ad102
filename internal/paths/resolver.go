// Package paths resolves the filesystem locations the upload steps need:
// the uploader executable, the variant's properties file, and the generated
// asset and native library directories.
package paths

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/magiconair/properties"
	"github.com/spf13/afero"

	"github.com/uploadwire/cli/internal/config"
	oerrors "github.com/uploadwire/cli/internal/errors"
	"github.com/uploadwire/cli/internal/output"
	"github.com/uploadwire/cli/internal/sentrycli"
	"github.com/uploadwire/cli/internal/variant"
)

// PropertiesFileName is the uploader's properties file name.
const PropertiesFileName = "sentry.properties"

// cliExecutableKey is the properties key that pins the uploader path.
const cliExecutableKey = "cli.executable"

// ErrCLINotFound is returned when no uploader executable can be located.
var ErrCLINotFound = oerrors.Wrap(oerrors.ErrNotFound, "sentry-cli executable not found")

// Resolver resolves paths for one project. The zero value is not usable;
// create one with New.
type Resolver struct {
	// ProjectDir is the directory of the project being built.
	ProjectDir string

	// RootDir is the root of a multi-project build. Often equal to ProjectDir.
	RootDir string

	// BuildDir is the build output directory.
	BuildDir string

	// Fs is the filesystem all lookups go through.
	Fs afero.Fs

	// LookPath searches PATH. Defaults to exec.LookPath.
	LookPath func(file string) (string, error)

	// GOOS selects the executable suffix. Defaults to runtime.GOOS.
	GOOS string

	once   sync.Once
	cli    CLIResult
	cliErr error
}

// New creates a Resolver. An empty rootDir defaults to projectDir and an
// empty buildDir to <projectDir>/build.
func New(projectDir, rootDir, buildDir string, fs afero.Fs) *Resolver {
	if rootDir == "" {
		rootDir = projectDir
	}
	if buildDir == "" {
		buildDir = filepath.Join(projectDir, "build")
	}
	return &Resolver{
		ProjectDir: projectDir,
		RootDir:    rootDir,
		BuildDir:   buildDir,
		Fs:         fs,
		LookPath:   exec.LookPath,
		GOOS:       runtime.GOOS,
	}
}

// CLIOptions carries the explicit uploader overrides.
type CLIOptions struct {
	// FlagValue is the --cli-executable flag value (empty if not set).
	FlagValue string

	// SettingsValue is the cliExecutable settings value (empty if not set).
	SettingsValue string
}

// CLIResult is the resolved uploader executable.
type CLIResult struct {
	// Path is the executable to invoke.
	Path string

	// Source indicates where the path came from.
	Source config.ConfigSource

	// Shadowed contains values overridden by higher precedence.
	Shadowed map[config.ConfigSource]string
}

// CLIExecutable resolves the uploader executable using precedence:
// (1) --cli-executable flag, (2) UPLOADWIRE_CLI_EXECUTABLE env,
// (3) cli.executable in the root sentry.properties, (4) settings,
// (5) the bundled <rootDir>/.uploadwire/bin/sentry-cli, (6) PATH.
//
// The result is computed once; later calls return it regardless of opts.
// Explicit overrides are returned without checking that they exist.
func (r *Resolver) CLIExecutable(opts CLIOptions) (CLIResult, error) {
	r.once.Do(func() {
		r.cli, r.cliErr = r.resolveCLI(opts)
		if r.cliErr == nil {
			config.LogResolvedValues([]config.ResolvedValue{{
				Key:      "cliExecutable",
				Value:    r.cli.Path,
				Source:   r.cli.Source,
				Shadowed: r.cli.Shadowed,
			}})
		}
	})
	return r.cli, r.cliErr
}

func (r *Resolver) resolveCLI(opts CLIOptions) (CLIResult, error) {
	result := CLIResult{Shadowed: make(map[config.ConfigSource]string)}

	candidates := []struct {
		source config.ConfigSource
		value  string
	}{
		{config.SourceFlag, opts.FlagValue},
		{config.SourceEnv, os.Getenv("UPLOADWIRE_CLI_EXECUTABLE")},
		{config.SourceProperties, r.propertiesCLIExecutable()},
		{config.SourceConfig, opts.SettingsValue},
	}

	for _, c := range candidates {
		if c.value == "" {
			continue
		}
		if result.Path == "" {
			result.Path = c.value
			result.Source = c.source
			continue
		}
		if c.value != result.Path {
			result.Shadowed[c.source] = c.value
		}
	}
	if result.Path != "" {
		return result, nil
	}

	bundled := r.BundledCLIPath()
	exists, err := afero.Exists(r.Fs, bundled)
	if err != nil {
		return result, fmt.Errorf("checking bundled uploader %s: %w", bundled, err)
	}
	if exists {
		result.Path = bundled
		result.Source = config.SourceBundled
		return result, nil
	}

	lookPath := r.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	if path, err := lookPath(sentrycli.ExecutableName); err == nil {
		result.Path = path
		result.Source = config.SourcePath
		return result, nil
	}

	return result, &oerrors.DetailError{
		Type:     "not found",
		Message:  ErrCLINotFound.Error(),
		Location: bundled,
		Hint: "Install sentry-cli on PATH, or set --cli-executable, UPLOADWIRE_CLI_EXECUTABLE, " +
			"or cliExecutable in " + config.FileName + ".",
		Cause: ErrCLINotFound,
	}
}

// BundledCLIPath is where a project-local uploader is expected.
func (r *Resolver) BundledCLIPath() string {
	name := sentrycli.ExecutableName
	if r.goos() == "windows" {
		name += ".exe"
	}
	return filepath.Join(r.RootDir, ".uploadwire", "bin", name)
}

// propertiesCLIExecutable reads cli.executable from the root properties
// file. Any failure reads as unset.
func (r *Resolver) propertiesCLIExecutable() string {
	path := filepath.Join(r.RootDir, PropertiesFileName)
	if exists, _ := afero.Exists(r.Fs, path); !exists {
		return ""
	}

	data, err := afero.ReadFile(r.Fs, path)
	if err != nil {
		output.Debug("properties file unreadable, ignoring cli.executable", "path", path, "err", err)
		return ""
	}
	props, err := properties.Load(data, properties.UTF8)
	if err != nil {
		output.Debug("properties file malformed, ignoring cli.executable", "path", path, "err", err)
		return ""
	}
	return props.GetString(cliExecutableKey, "")
}

func (r *Resolver) goos() string {
	if r.GOOS != "" {
		return r.GOOS
	}
	return runtime.GOOS
}

// PropertiesFile returns the first existing properties file for v, searching
// variant-specific locations under the project directory, then the same
// locations under the root directory. found is false when none exist; err
// reports stat failures other than not-exist.
func (r *Resolver) PropertiesFile(v variant.Variant) (path string, found bool, err error) {
	for _, candidate := range r.PropertiesCandidates(v) {
		exists, err := afero.Exists(r.Fs, candidate)
		if err != nil {
			return "", false, fmt.Errorf("checking properties file %s: %w", candidate, err)
		}
		if exists {
			return candidate, true, nil
		}
	}
	return "", false, nil
}

// PropertiesCandidates lists the properties file locations for v in search order.
func (r *Resolver) PropertiesCandidates(v variant.Variant) []string {
	bt := v.BuildType.Name
	flavor := v.FlavorName

	var rel [][]string
	if flavor != "" {
		rel = append(rel,
			[]string{"src", bt, flavor},
			[]string{"src", flavor, bt},
			[]string{"src", flavor},
		)
	}
	if bt != "" {
		rel = append(rel, []string{"src", bt})
	}
	rel = append(rel, []string{})

	dirs := []string{r.ProjectDir}
	if filepath.Clean(r.RootDir) != filepath.Clean(r.ProjectDir) {
		dirs = append(dirs, r.RootDir)
	}

	var out []string
	for _, dir := range dirs {
		for _, parts := range rel {
			elems := append([]string{dir}, parts...)
			elems = append(elems, PropertiesFileName)
			out = append(out, filepath.Join(elems...))
		}
	}
	return out
}

// OutputAssetDirectory is where the mapping step writes its generated asset:
// <buildDir>/generated/assets/sentry<variantName>.
func (r *Resolver) OutputAssetDirectory(v variant.Variant) string {
	return filepath.Join(r.BuildDir, "generated", "assets", "sentry"+v.Name)
}

// NativeLibsDirectory holds the merged native libraries of v.
func (r *Resolver) NativeLibsDirectory(v variant.Variant) string {
	return filepath.Join(r.BuildDir, "intermediates", "merged_native_libs", v.Name)
}
