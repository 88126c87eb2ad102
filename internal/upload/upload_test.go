package upload

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uploadwire/cli/internal/config"
	"github.com/uploadwire/cli/internal/sentrycli"
)

const cli = "/bin/sentry-cli"

// fakeRunner records invocations instead of starting processes.
type fakeRunner struct {
	calls []sentrycli.Invocation
}

func (f *fakeRunner) Run(_ context.Context, inv sentrycli.Invocation) error {
	f.calls = append(f.calls, inv)
	return nil
}

func found(v string) config.Lookup { return config.Lookup{Value: v, Found: true} }

func TestMappingUpload_Args(t *testing.T) {
	tests := []struct {
		name string
		m    MappingUpload
		want []string
	}{
		{
			name: "auto upload without org or project",
			m:    MappingUpload{CLIExecutable: cli, AutoUpload: true},
			want: []string{"upload-proguard", "--uuid", "id-1", "a.txt", "b.txt"},
		},
		{
			name: "no upload",
			m:    MappingUpload{CLIExecutable: cli},
			want: []string{"upload-proguard", "--uuid", "id-1", "a.txt", "b.txt", "--no-upload"},
		},
		{
			name: "org and project",
			m:    MappingUpload{CLIExecutable: cli, AutoUpload: true, Organization: found("acme"), Project: found("android")},
			want: []string{"upload-proguard", "--uuid", "id-1", "a.txt", "b.txt", "--org", "acme", "--project", "android"},
		},
		{
			name: "project only",
			m:    MappingUpload{CLIExecutable: cli, AutoUpload: true, Project: found("android")},
			want: []string{"upload-proguard", "--uuid", "id-1", "a.txt", "b.txt", "--project", "android"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.Args("id-1", []string{"a.txt", "b.txt"})
			assert.Equal(t, sentrycli.Command(cli, tt.want...), got)
		})
	}
}

func TestMappingUpload_Run(t *testing.T) {
	t.Run("no mapping files is a no-op", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		runner := &fakeRunner{}
		m := &MappingUpload{
			Variant:       "release",
			CLIExecutable: cli,
			OutputDir:     "/p/build/generated/assets/sentryrelease",
			MappingFiles:  func() []string { return []string{"/p/build/mapping.txt"} },
			Fs:            fs,
		}

		require.NoError(t, m.Run(context.Background(), runner))
		assert.Empty(t, runner.calls)

		exists, err := afero.DirExists(fs, m.OutputDir)
		require.NoError(t, err)
		assert.False(t, exists, "output dir is only created when there is something to upload")
	})

	t.Run("nil producer is a no-op", func(t *testing.T) {
		runner := &fakeRunner{}
		m := &MappingUpload{Variant: "release", CLIExecutable: cli, Fs: afero.NewMemMapFs()}
		require.NoError(t, m.Run(context.Background(), runner))
		assert.Empty(t, runner.calls)
	})

	t.Run("writes debug meta and invokes the uploader", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/p/build/mapping.txt", []byte("map"), 0o644))
		runner := &fakeRunner{}
		m := &MappingUpload{
			Variant:        "release",
			CLIExecutable:  cli,
			PropertiesFile: "/p/sentry.properties",
			OutputDir:      "/p/build/generated/assets/sentryrelease",
			MappingFiles: func() []string {
				return []string{"/p/build/mapping.txt", "/p/build/missing.txt"}
			},
			AutoUpload:   true,
			Organization: found("acme"),
			WorkingDir:   "/root",
			Fs:           fs,
			NewUUID:      func() string { return "0b7f6c1e-uuid" },
		}

		require.NoError(t, m.Run(context.Background(), runner))

		meta, err := afero.ReadFile(fs, filepath.Join(m.OutputDir, DebugMetaFileName))
		require.NoError(t, err)
		assert.Equal(t, "io.sentry.ProguardUuids=0b7f6c1e-uuid\n", string(meta))

		require.Len(t, runner.calls, 1)
		inv := runner.calls[0]
		assert.Equal(t, "/root", inv.Dir)
		assert.Equal(t, []string{"SENTRY_PROPERTIES=/p/sentry.properties"}, inv.Env)
		assert.Equal(t, sentrycli.Command(cli,
			"upload-proguard", "--uuid", "0b7f6c1e-uuid", "/p/build/mapping.txt", "--org", "acme"), inv.Args)
	})

	t.Run("random uuid by default", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/m.txt", []byte("map"), 0o644))
		runner := &fakeRunner{}
		m := &MappingUpload{
			CLIExecutable: cli,
			OutputDir:     "/out",
			MappingFiles:  func() []string { return []string{"/m.txt"} },
			Fs:            fs,
		}

		require.NoError(t, m.Run(context.Background(), runner))
		require.Len(t, runner.calls, 1)
		assert.Empty(t, runner.calls[0].Env)

		meta, err := afero.ReadFile(fs, "/out/"+DebugMetaFileName)
		require.NoError(t, err)
		assert.Regexp(t, `^io\.sentry\.ProguardUuids=[0-9a-f-]{36}\n$`, string(meta))
	})

	t.Run("uploader failure is returned", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/m.txt", []byte("map"), 0o644))
		boom := &sentrycli.ExitError{Args: []string{cli}, Code: 1}
		m := &MappingUpload{
			CLIExecutable: cli,
			OutputDir:     "/out",
			MappingFiles:  func() []string { return []string{"/m.txt"} },
			Fs:            fs,
		}

		var got sentrycli.Invocation
		err := m.Run(context.Background(), sentrycli.RunnerFunc(func(_ context.Context, inv sentrycli.Invocation) error {
			got = inv
			return boom
		}))
		assert.True(t, errors.Is(err, boom))
		assert.Contains(t, got.Args, "upload-proguard")
	})
}

func TestNativeSymbolUpload_Args(t *testing.T) {
	tests := []struct {
		name string
		n    NativeSymbolUpload
		want []string
	}{
		{
			name: "minimal",
			n:    NativeSymbolUpload{CLIExecutable: cli, NativeLibsDir: "/libs"},
			want: []string{"upload-dif", "/libs"},
		},
		{
			name: "org project and sources",
			n: NativeSymbolUpload{
				CLIExecutable:        cli,
				NativeLibsDir:        "/libs",
				IncludeNativeSources: true,
				Organization:         found("acme"),
				Project:              found("android"),
			},
			want: []string{"upload-dif", "--org", "acme", "--project", "android", "/libs", "--include-sources"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, sentrycli.Command(cli, tt.want...), tt.n.Args())
		})
	}
}

func TestNativeSymbolUpload_Run(t *testing.T) {
	runner := &fakeRunner{}
	n := &NativeSymbolUpload{
		Variant:        "release",
		CLIExecutable:  cli,
		PropertiesFile: "/p/sentry.properties",
		NativeLibsDir:  "/libs",
		WorkingDir:     "/root",
	}

	require.NoError(t, n.Run(context.Background(), runner))
	require.Len(t, runner.calls, 1)
	assert.Equal(t, "/root", runner.calls[0].Dir)
	assert.Equal(t, []string{"SENTRY_PROPERTIES=/p/sentry.properties"}, runner.calls[0].Env)
	assert.Equal(t, n.Args(), runner.calls[0].Args)
}
