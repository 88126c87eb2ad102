// Package config provides settings loading, ambient lookups, and the gate
// that decides which upload steps apply to a variant.
package config

// FileName is the per-project settings file.
const FileName = "uploadwire.yaml"

// Settings are the user-facing switches for the upload steps.
type Settings struct {
	// AutoUpload uploads mapping files. When false the uploader only
	// processes them locally (--no-upload).
	// Env: UPLOADWIRE_AUTO_UPLOAD, Default: true
	AutoUpload bool `mapstructure:"autoUpload" json:"autoUpload" yaml:"autoUpload"`

	// UploadNativeSymbols wires the native symbol upload step.
	// Env: UPLOADWIRE_UPLOAD_NATIVE_SYMBOLS, Default: false
	UploadNativeSymbols bool `mapstructure:"uploadNativeSymbols" json:"uploadNativeSymbols" yaml:"uploadNativeSymbols"`

	// IncludeNativeSources bundles native sources with the symbol upload.
	// Env: UPLOADWIRE_INCLUDE_NATIVE_SOURCES, Default: false
	IncludeNativeSources bool `mapstructure:"includeNativeSources" json:"includeNativeSources" yaml:"includeNativeSources"`

	// CLIExecutable pins the uploader executable.
	// Env: UPLOADWIRE_CLI_EXECUTABLE, Default: resolved at runtime
	CLIExecutable string `mapstructure:"cliExecutable" json:"cliExecutable,omitempty" yaml:"cliExecutable,omitempty"`

	// MappingUpload overrides the global switches for the mapping upload step.
	MappingUpload StepSettings `mapstructure:"mappingUpload" json:"mappingUpload,omitempty" yaml:"mappingUpload,omitempty"`
}

// StepSettings are per-step overrides. nil fields fall back to the global value.
type StepSettings struct {
	AutoUpload *bool `mapstructure:"autoUpload" json:"autoUpload,omitempty" yaml:"autoUpload,omitempty"`
}

// DefaultSettings returns Settings with every default applied.
// Used by `uploadwire config init` to generate the initial file.
func DefaultSettings() Settings {
	return Settings{
		AutoUpload: true,
	}
}
