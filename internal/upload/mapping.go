// Package upload describes the two upload steps and runs them through the
// uploader.
package upload

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/uploadwire/cli/internal/config"
	"github.com/uploadwire/cli/internal/output"
	"github.com/uploadwire/cli/internal/sentrycli"
)

// DebugMetaFileName is the asset the mapping step writes for the app to read
// its mapping UUID from at runtime.
const DebugMetaFileName = "sentry-debug-meta.properties"

// proguardUUIDsKey is the debug-meta key holding the mapping UUID.
const proguardUUIDsKey = "io.sentry.ProguardUuids"

// MappingUpload uploads a variant's mapping files.
type MappingUpload struct {
	// Variant is the variant name, for logs.
	Variant string

	// CLIExecutable is the resolved uploader path.
	CLIExecutable string

	// PropertiesFile is passed to the uploader when set.
	PropertiesFile string

	// OutputDir receives the debug-meta asset.
	OutputDir string

	// MappingFiles produces candidate mapping files. Files that do not exist
	// are ignored.
	MappingFiles func() []string

	// AutoUpload false adds --no-upload.
	AutoUpload bool

	Organization config.Lookup
	Project      config.Lookup

	// WorkingDir is the uploader's working directory.
	WorkingDir string

	// Fs is used for existence checks and the debug-meta write.
	Fs afero.Fs

	// NewUUID generates the mapping UUID. Defaults to a random v4 UUID.
	NewUUID func() string
}

// Args returns the uploader argument vector for the given UUID and files.
func (m *MappingUpload) Args(id string, files []string) []string {
	args := []string{"upload-proguard", "--uuid", id}
	args = append(args, files...)
	if !m.AutoUpload {
		args = append(args, "--no-upload")
	}
	args = appendOrgProject(args, m.Organization, m.Project)
	return sentrycli.Command(m.CLIExecutable, args...)
}

// ExistingMappingFiles returns the produced mapping files that exist.
func (m *MappingUpload) ExistingMappingFiles() ([]string, error) {
	if m.MappingFiles == nil {
		return nil, nil
	}
	var out []string
	for _, f := range m.MappingFiles() {
		ok, err := afero.Exists(m.Fs, f)
		if err != nil {
			return nil, fmt.Errorf("checking mapping file %s: %w", f, err)
		}
		if ok {
			out = append(out, f)
		}
	}
	return out, nil
}

// Run writes the debug-meta asset and uploads the mapping files. With no
// existing mapping file it does nothing.
func (m *MappingUpload) Run(ctx context.Context, runner sentrycli.Runner) error {
	log := output.VariantLogger(m.Variant)

	files, err := m.ExistingMappingFiles()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Debug("no mapping files found, skipping mapping upload")
		return nil
	}

	id := m.newUUID()
	if err := m.Fs.MkdirAll(m.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", m.OutputDir, err)
	}
	metaPath := filepath.Join(m.OutputDir, DebugMetaFileName)
	content := proguardUUIDsKey + "=" + id + "\n"
	if err := afero.WriteFile(m.Fs, metaPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", metaPath, err)
	}

	inv := sentrycli.Invocation{
		Dir:  m.WorkingDir,
		Env:  sentrycli.PropertiesEnvFor(m.PropertiesFile),
		Args: m.Args(id, files),
	}
	log.Info("uploading mapping files", "uuid", id, "files", len(files))
	log.Debug("invoking uploader", "cmd", inv.String())
	return runner.Run(ctx, inv)
}

func (m *MappingUpload) newUUID() string {
	if m.NewUUID != nil {
		return m.NewUUID()
	}
	return uuid.NewString()
}

func appendOrgProject(args []string, org, project config.Lookup) []string {
	if org.Found {
		args = append(args, "--org", org.Value)
	}
	if project.Found {
		args = append(args, "--project", project.Value)
	}
	return args
}
