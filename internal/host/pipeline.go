// Package host is a small in-memory host pipeline: it loads a pipeline
// description, registers the baseline build tasks of every variant, and
// keeps each variant's asset source set.
package host

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/uploadwire/cli/internal/config"
	oerrors "github.com/uploadwire/cli/internal/errors"
	"github.com/uploadwire/cli/internal/variant"
)

// DefaultFileName is the pipeline description looked up in the project directory.
const DefaultFileName = "pipeline.yaml"

// Pipeline is the parsed pipeline description.
type Pipeline struct {
	// ProjectDir defaults to the directory holding the file.
	ProjectDir string `yaml:"projectDir"`

	// RootDir defaults to ProjectDir.
	RootDir string `yaml:"rootDir"`

	// BuildDir is relative to ProjectDir. Defaults to "build".
	BuildDir string `yaml:"buildDir"`

	// Ext is the ambient key-value store. Absent means no store.
	Ext map[string]any `yaml:"ext"`

	Variants []VariantSpec `yaml:"variants"`
}

// VariantSpec describes one variant in the pipeline file.
type VariantSpec struct {
	Name         string        `yaml:"name"`
	Flavor       string        `yaml:"flavor"`
	BuildType    BuildTypeSpec `yaml:"buildType"`
	Bundle       bool          `yaml:"bundle"`
	MappingFiles []string      `yaml:"mappingFiles"`
}

// BuildTypeSpec is a variant's build type.
type BuildTypeSpec struct {
	Name          string `yaml:"name"`
	MinifyEnabled bool   `yaml:"minifyEnabled"`
}

// Load reads and validates a pipeline file. Unknown fields are rejected.
// Relative directories resolve against the file's directory.
func Load(fs afero.Fs, path string) (*Pipeline, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, afero.ErrFileNotFound) {
			return nil, oerrors.NewNotFoundError("pipeline file not found", path,
				"Create a "+DefaultFileName+" or pass --pipeline.")
		}
		return nil, fmt.Errorf("reading pipeline file: %w", err)
	}

	p, err := Parse(data)
	if err != nil {
		return nil, oerrors.NewValidationError(err.Error(), path, "", "")
	}

	p.resolveDirs(filepath.Dir(path))
	if err := p.Validate(); err != nil {
		return nil, oerrors.NewValidationError(err.Error(), path, "variants", "")
	}
	return p, nil
}

// Parse decodes a pipeline description without resolving directories.
func Parse(data []byte) (*Pipeline, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var p Pipeline
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing pipeline: %w", err)
	}
	return &p, nil
}

func (p *Pipeline) resolveDirs(base string) {
	abs := func(dir, def string) string {
		if dir == "" {
			return def
		}
		if filepath.IsAbs(dir) {
			return filepath.Clean(dir)
		}
		return filepath.Join(base, dir)
	}
	p.ProjectDir = abs(p.ProjectDir, base)
	p.RootDir = abs(p.RootDir, p.ProjectDir)

	if p.BuildDir == "" {
		p.BuildDir = "build"
	}
	if !filepath.IsAbs(p.BuildDir) {
		p.BuildDir = filepath.Join(p.ProjectDir, p.BuildDir)
	}
}

// Validate checks variant names are present and unique.
func (p *Pipeline) Validate() error {
	seen := make(map[string]bool, len(p.Variants))
	for i, v := range p.Variants {
		if v.Name == "" {
			return fmt.Errorf("variant %d has no name", i)
		}
		if seen[v.Name] {
			return fmt.Errorf("variant %q declared twice", v.Name)
		}
		seen[v.Name] = true
	}
	return nil
}

// Extras returns the ambient store, nil when the file has no ext map.
func (p *Pipeline) Extras() config.Extras {
	if p.Ext == nil {
		return nil
	}
	return config.MapExtras(p.Ext)
}

// BuildVariants converts the variant specs. Relative mapping files resolve
// against ProjectDir.
func (p *Pipeline) BuildVariants() []variant.Variant {
	out := make([]variant.Variant, 0, len(p.Variants))
	for _, spec := range p.Variants {
		files := make([]string, 0, len(spec.MappingFiles))
		for _, f := range spec.MappingFiles {
			if !filepath.IsAbs(f) {
				f = filepath.Join(p.ProjectDir, f)
			}
			files = append(files, f)
		}
		out = append(out, variant.Variant{
			Name:       spec.Name,
			FlavorName: spec.Flavor,
			BuildType: variant.BuildType{
				Name:          spec.BuildType.Name,
				MinifyEnabled: spec.BuildType.MinifyEnabled,
			},
			MappingFiles: func() []string { return files },
		})
	}
	return out
}

// Spec returns the spec of the named variant.
func (p *Pipeline) Spec(name string) (VariantSpec, bool) {
	for _, v := range p.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return VariantSpec{}, false
}
