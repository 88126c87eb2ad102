package config

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/uploadwire/cli/internal/output"
)

// Environment variable prefix for uploadwire configuration.
const envPrefix = "UPLOADWIRE"

// Loader handles loading and merging settings from files and the environment.
type Loader struct {
	v  *viper.Viper
	fs afero.Fs
}

// NewLoader creates a loader reading from the OS filesystem.
func NewLoader() *Loader {
	return NewLoaderFs(afero.NewOsFs())
}

// NewLoaderFs creates a loader reading from fs.
func NewLoaderFs(fs afero.Fs) *Loader {
	v := viper.New()
	v.SetFs(fs)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("autoUpload", "UPLOADWIRE_AUTO_UPLOAD")
	_ = v.BindEnv("uploadNativeSymbols", "UPLOADWIRE_UPLOAD_NATIVE_SYMBOLS")
	_ = v.BindEnv("includeNativeSources", "UPLOADWIRE_INCLUDE_NATIVE_SOURCES")
	_ = v.BindEnv("cliExecutable", "UPLOADWIRE_CLI_EXECUTABLE")

	defaults := DefaultSettings()
	v.SetDefault("autoUpload", defaults.AutoUpload)
	v.SetDefault("uploadNativeSymbols", defaults.UploadNativeSymbols)
	v.SetDefault("includeNativeSources", defaults.IncludeNativeSources)
	v.SetDefault("cliExecutable", defaults.CLIExecutable)

	return &Loader{v: v, fs: fs}
}

// Load merges the given settings files in order, later files winning, then
// applies environment overrides. Missing files are skipped.
func (l *Loader) Load(files ...string) (*Settings, error) {
	for _, file := range files {
		if file == "" {
			continue
		}
		path, err := ExpandPath(file)
		if err != nil {
			return nil, fmt.Errorf("expanding config path: %w", err)
		}

		exists, err := afero.Exists(l.fs, path)
		if err != nil {
			return nil, fmt.Errorf("checking config file %s: %w", path, err)
		}
		if !exists {
			output.Debug("settings file not found, skipping", "path", path)
			continue
		}

		l.v.SetConfigFile(path)
		l.v.SetConfigType("yaml")
		if err := l.v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		output.Debug("settings file loaded", "path", path)
	}

	var s Settings
	if err := l.v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshaling settings: %w", err)
	}
	return &s, nil
}

// FileExists checks whether a settings file exists on the loader's filesystem.
func (l *Loader) FileExists(file string) (bool, error) {
	path, err := ExpandPath(file)
	if err != nil {
		return false, err
	}
	return afero.Exists(l.fs, path)
}
