package wiring

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uploadwire/cli/internal/config"
	oerrors "github.com/uploadwire/cli/internal/errors"
	"github.com/uploadwire/cli/internal/graph"
	"github.com/uploadwire/cli/internal/output"
	"github.com/uploadwire/cli/internal/paths"
	"github.com/uploadwire/cli/internal/sentrycli"
	"github.com/uploadwire/cli/internal/variant"
)

const cli = "/bin/sentry-cli"

type fakeRunner struct {
	mu    sync.Mutex
	calls []sentrycli.Invocation
}

func (f *fakeRunner) Run(_ context.Context, inv sentrycli.Invocation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, inv)
	return nil
}

func (f *fakeRunner) subcommands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.calls {
		for _, a := range c.Args {
			if strings.HasPrefix(a, "upload-") {
				out = append(out, a)
			}
		}
	}
	return out
}

type fakeSources struct {
	dirs map[string][]string
}

func (f *fakeSources) AddAssetDir(variantName, dir string) {
	if f.dirs == nil {
		f.dirs = make(map[string][]string)
	}
	f.dirs[variantName] = append(f.dirs[variantName], dir)
}

// registerBaseline adds the host-owned nodes of one variant.
func registerBaseline(t *testing.T, g *graph.Memory, v variant.Variant, bundle bool) {
	t.Helper()
	a := v.AnchorNames()
	merge, err := g.RegisterNode(graph.NodeSpec{Name: a.MergeAssets, Group: "build"})
	require.NoError(t, err)
	assemble, err := g.RegisterNode(graph.NodeSpec{Name: a.Assemble, Group: "build"})
	require.NoError(t, err)
	require.NoError(t, g.AddEdge(merge, assemble, graph.MustCompleteBefore))
	if bundle {
		b, err := g.RegisterNode(graph.NodeSpec{Name: a.Bundle, Group: "build"})
		require.NoError(t, err)
		require.NoError(t, g.AddEdge(merge, b, graph.MustCompleteBefore))
	}
}

type fixture struct {
	graph   *graph.Memory
	sources *fakeSources
	runner  *fakeRunner
	fs      afero.Fs
	wirer   *Wirer
}

func newFixture(settings config.Settings, extras config.Extras) *fixture {
	fs := afero.NewMemMapFs()
	g := graph.NewMemory()
	sources := &fakeSources{}
	runner := &fakeRunner{}
	resolver := paths.New("/p", "", "", fs)
	return &fixture{
		graph:   g,
		sources: sources,
		runner:  runner,
		fs:      fs,
		wirer: &Wirer{
			Graph:      g,
			Sources:    sources,
			Resolver:   resolver,
			Gate:       config.NewGate(settings, extras),
			Runner:     runner,
			CLIOptions: paths.CLIOptions{FlagValue: cli},
		},
	}
}

func release() variant.Variant {
	return variant.Variant{
		Name:         "release",
		BuildType:    variant.BuildType{Name: "release", MinifyEnabled: true},
		MappingFiles: func() []string { return []string{"/p/build/outputs/mapping/release/mapping.txt"} },
	}
}

func debug() variant.Variant {
	return variant.Variant{Name: "debug", BuildType: variant.BuildType{Name: "debug"}}
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	output.SetupLoggingTo(&buf, output.LogConfig{Timestamps: output.BoolPtr(false)})
	t.Cleanup(func() { output.SetupLogging(output.LogConfig{}) })
	return &buf
}

func TestWire_MinifyOff(t *testing.T) {
	f := newFixture(config.DefaultSettings(), nil)
	v := debug()
	registerBaseline(t, f.graph, v, false)

	report, err := f.wirer.Wire([]variant.Variant{v})
	require.NoError(t, err)

	node := v.MappingUploadNodeName()
	_, ok := f.graph.Lookup(node)
	assert.True(t, ok, "mapping node is always registered")
	assert.Empty(t, f.graph.EdgesOf(node))
	assert.Empty(t, f.sources.dirs)
	assert.Equal(t, StateIneligible, report.State("debug", StepMappingUpload))
}

func TestWire_MinifyOn(t *testing.T) {
	f := newFixture(config.DefaultSettings(), nil)
	v := release()
	registerBaseline(t, f.graph, v, false)

	report, err := f.wirer.Wire([]variant.Variant{v})
	require.NoError(t, err)
	require.NoError(t, report.Err())

	assetDir := filepath.Join("/p", "build", "generated", "assets", "sentryrelease")
	assert.Equal(t, []string{assetDir}, f.sources.dirs["release"], "asset dir added exactly once")

	assert.Equal(t, []graph.Edge{{
		From: "uploadSentryProguardMappingsRelease",
		To:   "mergeReleaseAssets",
		Kind: graph.MustCompleteBefore,
	}}, f.graph.EdgesOf("uploadSentryProguardMappingsRelease"))
	assert.Equal(t, StateWired, report.State("release", StepMappingUpload))

	require.NoError(t, afero.WriteFile(f.fs, "/p/build/outputs/mapping/release/mapping.txt", []byte("map"), 0o644))
	res, err := f.graph.Execute(context.Background(), graph.ExecuteOptions{}, "mergeReleaseAssets")
	require.NoError(t, err)
	assert.Equal(t, []string{"uploadSentryProguardMappingsRelease", "mergeReleaseAssets"}, res.Order)
	assert.Equal(t, []string{"upload-proguard"}, f.runner.subcommands())

	exists, err := afero.Exists(f.fs, filepath.Join(assetDir, "sentry-debug-meta.properties"))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestWire_NativeDisabled(t *testing.T) {
	logs := captureLogs(t)
	f := newFixture(config.DefaultSettings(), nil)
	variants := []variant.Variant{release(), debug()}
	for _, v := range variants {
		registerBaseline(t, f.graph, v, true)
	}

	report, err := f.wirer.Wire(variants)
	require.NoError(t, err)

	for _, v := range variants {
		_, ok := f.graph.Lookup(v.NativeSymbolUploadNodeName())
		assert.False(t, ok, "no native node for %s", v.Name)
		assert.Equal(t, StateIneligible, report.State(v.Name, StepNativeSymbolUpload))
	}
	assert.Equal(t, len(variants), strings.Count(logs.String(), NativeDisabledNotice))
}

func TestWire_NativeEnabled_FinalizesAssembleAndBundle(t *testing.T) {
	f := newFixture(config.Settings{AutoUpload: true, UploadNativeSymbols: true}, nil)
	v := release()
	registerBaseline(t, f.graph, v, true)

	report, err := f.wirer.Wire([]variant.Variant{v})
	require.NoError(t, err)

	native := "uploadNativeSymbolsForRelease"
	assert.ElementsMatch(t, []graph.Edge{
		{From: "assembleRelease", To: native, Kind: graph.FinalizedBy},
		{From: "bundleRelease", To: native, Kind: graph.FinalizedBy},
	}, f.graph.EdgesOf(native))
	assert.Equal(t, StateWired, report.State("release", StepNativeSymbolUpload))

	res, err := f.graph.Execute(context.Background(), graph.ExecuteOptions{}, "assembleRelease", "bundleRelease")
	require.NoError(t, err)
	assert.True(t, res.Ran(native))

	// No mapping file exists, so only the native upload reaches the uploader.
	assert.Equal(t, []string{"upload-dif"}, f.runner.subcommands())
}

func TestWire_NativeEnabled_NoBundle(t *testing.T) {
	f := newFixture(config.Settings{UploadNativeSymbols: true}, nil)
	v := release()
	registerBaseline(t, f.graph, v, false)

	_, err := f.wirer.Wire([]variant.Variant{v})
	require.NoError(t, err)

	assert.Equal(t, []graph.Edge{
		{From: "assembleRelease", To: "uploadNativeSymbolsForRelease", Kind: graph.FinalizedBy},
	}, f.graph.EdgesOf("uploadNativeSymbolsForRelease"))
}

func TestWire_MissingAmbientValues(t *testing.T) {
	tests := []struct {
		name   string
		extras config.Extras
	}{
		{"nil store", nil},
		{"empty store", config.MapExtras{}},
		{"unrelated keys", config.MapExtras{"other": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(config.Settings{UploadNativeSymbols: true}, tt.extras)
			v := release()
			registerBaseline(t, f.graph, v, false)

			report, err := f.wirer.Wire([]variant.Variant{v})
			require.NoError(t, err)
			require.NoError(t, report.Err())

			spec, ok := f.graph.Node(v.NativeSymbolUploadNodeName())
			require.True(t, ok)
			assert.Equal(t, "<unset>", spec.Inputs["org"])
			assert.Equal(t, "<unset>", spec.Inputs["project"])

			_, err = f.graph.Execute(context.Background(), graph.ExecuteOptions{}, "assembleRelease")
			require.NoError(t, err)
			for _, c := range f.runner.calls {
				assert.NotContains(t, c.Args, "--org")
				assert.NotContains(t, c.Args, "--project")
			}
		})
	}
}

func TestWire_AmbientValuesPassedThrough(t *testing.T) {
	f := newFixture(config.Settings{UploadNativeSymbols: true},
		config.MapExtras{"sentryOrg": "acme", "sentryProject": "android"})
	v := release()
	registerBaseline(t, f.graph, v, false)

	_, err := f.wirer.Wire([]variant.Variant{v})
	require.NoError(t, err)
	_, err = f.graph.Execute(context.Background(), graph.ExecuteOptions{}, "assembleRelease")
	require.NoError(t, err)

	require.Len(t, f.runner.calls, 1)
	args := f.runner.calls[0].Args
	assert.Contains(t, args, "acme")
	assert.Contains(t, args, "android")
}

func TestWire_DebugVariantLeavesBaselineUnchanged(t *testing.T) {
	f := newFixture(config.DefaultSettings(), nil)
	v := debug()
	registerBaseline(t, f.graph, v, true)
	before := f.graph.Snapshot()

	report, err := f.wirer.Wire([]variant.Variant{v})
	require.NoError(t, err)

	assert.Equal(t, []string{"uploadSentryProguardMappingsDebug"}, report.Nodes())
	assert.Equal(t, []string{"uploadSentryProguardMappingsDebug"}, report.DormantNodes())
	assert.Equal(t, before, f.graph.Snapshot().Without(report.DormantNodes()...))
	assert.Equal(t, before.Nodes, f.graph.Snapshot().Without("uploadSentryProguardMappingsDebug").Nodes)
}

func TestWire_MissingAnchorSkipsEdge(t *testing.T) {
	f := newFixture(config.Settings{UploadNativeSymbols: true}, nil)
	v := release()

	report, err := f.wirer.Wire([]variant.Variant{v})
	require.NoError(t, err)
	require.NoError(t, report.Err())

	assert.Empty(t, f.graph.Edges())
	assert.Equal(t, StateWired, report.State("release", StepMappingUpload))
	assert.Equal(t, 2, f.graph.Len())
}

func TestWire_CLINotFoundIsFatal(t *testing.T) {
	t.Setenv("UPLOADWIRE_CLI_EXECUTABLE", "")
	f := newFixture(config.DefaultSettings(), nil)
	f.wirer.CLIOptions = paths.CLIOptions{}
	f.wirer.Resolver.LookPath = func(string) (string, error) { return "", errors.New("not on PATH") }

	report, err := f.wirer.Wire([]variant.Variant{release(), debug()})
	require.Error(t, err)
	assert.Nil(t, report)
	assert.True(t, errors.Is(err, paths.ErrCLINotFound))
	assert.True(t, errors.Is(err, oerrors.ErrNotFound))
	assert.Zero(t, f.graph.Len(), "no variant is touched")
}

func TestWire_DuplicateVariantIsIsolated(t *testing.T) {
	f := newFixture(config.DefaultSettings(), nil)
	v := release()
	registerBaseline(t, f.graph, v, false)

	report, err := f.wirer.Wire([]variant.Variant{v, v, debug()})
	require.NoError(t, err)
	require.Error(t, report.Err())
	assert.True(t, errors.Is(report.Err(), graph.ErrDuplicateNode))

	_, ok := f.graph.Lookup(debug().MappingUploadNodeName())
	assert.True(t, ok, "later variants are still wired")
}

// statErrFs fails every stat of a properties file with a permission error.
type statErrFs struct {
	afero.Fs
}

func (s statErrFs) Stat(name string) (os.FileInfo, error) {
	if filepath.Base(name) == paths.PropertiesFileName {
		return nil, &os.PathError{Op: "stat", Path: name, Err: fs.ErrPermission}
	}
	return s.Fs.Stat(name)
}

func TestWire_PropertiesErrorIsDeferred(t *testing.T) {
	f := newFixture(config.Settings{UploadNativeSymbols: true}, nil)
	f.wirer.Resolver.Fs = statErrFs{Fs: f.fs}
	f.wirer.Fs = f.fs
	v := release()
	registerBaseline(t, f.graph, v, false)

	report, err := f.wirer.Wire([]variant.Variant{v})
	require.NoError(t, err, "variant errors never fail wiring")
	require.Error(t, report.Err())
	assert.True(t, errors.Is(report.Err(), fs.ErrPermission))

	step, ok := report.Step("release", StepNativeSymbolUpload)
	require.True(t, ok)
	assert.Equal(t, StateWired, step.State)
	assert.Error(t, step.Err)

	_, err = f.graph.Execute(context.Background(), graph.ExecuteOptions{}, "assembleRelease")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrPermission))
	assert.Empty(t, f.runner.calls)
}
