// Package wiring splices the upload steps into a host graph, one variant at
// a time.
package wiring

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/uploadwire/cli/internal/config"
	"github.com/uploadwire/cli/internal/graph"
	"github.com/uploadwire/cli/internal/output"
	"github.com/uploadwire/cli/internal/paths"
	"github.com/uploadwire/cli/internal/sentrycli"
	"github.com/uploadwire/cli/internal/upload"
	"github.com/uploadwire/cli/internal/variant"
)

// NativeDisabledNotice is logged once per variant when native symbol upload
// is turned off.
const NativeDisabledNotice = "uploadNativeSymbols disabled, native symbol upload won't be executed"

// SourceSets is the host's per-variant asset source registry.
type SourceSets interface {
	AddAssetDir(variantName, dir string)
}

// Wirer attaches upload nodes to a host graph.
type Wirer struct {
	Graph    graph.Graph
	Sources  SourceSets
	Resolver *paths.Resolver
	Gate     *config.Gate

	// Runner executes uploader invocations. Defaults to sentrycli.NewBinary().
	Runner sentrycli.Runner

	// Fs is handed to the upload steps. Defaults to Resolver.Fs.
	Fs afero.Fs

	CLIOptions paths.CLIOptions
}

// Wire resolves the uploader once, then wires every variant. A resolution
// failure is returned before any variant is touched. Per-variant failures do
// not stop wiring: they are recorded in the report and returned by the
// failing node's action when it runs.
func (w *Wirer) Wire(variants []variant.Variant) (*Report, error) {
	cli, err := w.Resolver.CLIExecutable(w.CLIOptions)
	if err != nil {
		return nil, err
	}

	report := &Report{CLI: cli}
	for _, v := range variants {
		w.wireVariant(report, cli.Path, v)
	}
	return report, nil
}

func (w *Wirer) runner() sentrycli.Runner {
	if w.Runner != nil {
		return w.Runner
	}
	return sentrycli.NewBinary()
}

func (w *Wirer) fs() afero.Fs {
	if w.Fs != nil {
		return w.Fs
	}
	return w.Resolver.Fs
}

// stepInputs is what both steps of one variant share.
type stepInputs struct {
	cli        string
	properties string
	org        config.Lookup
	project    config.Lookup
	deferred   error
}

func (w *Wirer) wireVariant(report *Report, cli string, v variant.Variant) {
	logger := output.VariantLogger(v.Name)
	mapping := StepReport{Variant: v.Name, Step: StepMappingUpload, State: StateNotConsidered}
	native := StepReport{Variant: v.Name, Step: StepNativeSymbolUpload, State: StateNotConsidered}
	defer func() {
		report.Steps = append(report.Steps, mapping, native)
	}()

	in := w.resolveInputs(logger, cli, v)
	if in.deferred != nil {
		report.addErr(in.deferred)
		mapping.Err = in.deferred
		native.Err = in.deferred
	}

	if err := w.wireMapping(logger, &mapping, in, v); err != nil {
		report.addErr(err)
		return
	}

	if !w.Gate.ShouldWireNativeSymbolUpload() {
		logger.Info(NativeDisabledNotice)
		native.State = StateIneligible
		return
	}
	if err := w.wireNative(logger, &native, in, v); err != nil {
		report.addErr(err)
	}
}

func (w *Wirer) resolveInputs(logger *log.Logger, cli string, v variant.Variant) stepInputs {
	in := stepInputs{
		cli:     cli,
		org:     w.Gate.Organization(),
		project: w.Gate.Project(),
	}

	props, found, err := w.Resolver.PropertiesFile(v)
	switch {
	case err != nil:
		in.deferred = fmt.Errorf("variant %s: %w", v.Name, err)
	case found:
		in.properties = props
	default:
		logger.Debug("properties file unavailable")
	}

	if !in.org.Found {
		logger.Debug("ambient parameter unavailable", "key", config.KeyOrganization)
	}
	if !in.project.Found {
		logger.Debug("ambient parameter unavailable", "key", config.KeyProject)
	}
	return in
}

func (w *Wirer) wireMapping(logger *log.Logger, rep *StepReport, in stepInputs, v variant.Variant) error {
	outputDir := w.Resolver.OutputAssetDirectory(v)
	step := &upload.MappingUpload{
		Variant:        v.Name,
		CLIExecutable:  in.cli,
		PropertiesFile: in.properties,
		OutputDir:      outputDir,
		MappingFiles:   v.Mappings,
		AutoUpload:     w.Gate.AutoUpload(),
		Organization:   in.org,
		Project:        in.project,
		WorkingDir:     w.Resolver.RootDir,
		Fs:             w.fs(),
	}

	runner := w.runner()
	deferred := in.deferred
	handle, err := w.Graph.RegisterNode(graph.NodeSpec{
		Name:        v.MappingUploadNodeName(),
		Group:       "upload",
		Description: "Uploads the mapping files of " + v.Name,
		Inputs: map[string]string{
			"cliExecutable":  in.cli,
			"propertiesFile": in.properties,
			"autoUpload":     strconv.FormatBool(step.AutoUpload),
			"org":            in.org.String(),
			"project":        in.project.String(),
		},
		Outputs: []string{outputDir},
		Action: func(ctx context.Context) error {
			if deferred != nil {
				return deferred
			}
			return step.Run(ctx, runner)
		},
	})
	if err != nil {
		return fmt.Errorf("variant %s: registering mapping upload: %w", v.Name, err)
	}
	rep.Node = handle.Name

	if !w.Gate.ShouldWireMappingUpload(v) {
		logger.Debug("minify disabled, mapping upload left unwired", "node", handle.Name)
		rep.State = StateIneligible
		return nil
	}

	rep.State = StateWired
	if w.Sources != nil {
		w.Sources.AddAssetDir(v.Name, outputDir)
	}

	anchor := v.AnchorNames().MergeAssets
	merge, ok := w.Graph.Lookup(anchor)
	if !ok {
		logger.Debug("anchor node not found, edge not added", "anchor", anchor)
		return nil
	}
	if err := w.Graph.AddEdge(handle, merge, graph.MustCompleteBefore); err != nil {
		return fmt.Errorf("variant %s: %w", v.Name, err)
	}
	rep.Edges = append(rep.Edges, graph.Edge{From: handle.Name, To: merge.Name, Kind: graph.MustCompleteBefore})
	return nil
}

func (w *Wirer) wireNative(logger *log.Logger, rep *StepReport, in stepInputs, v variant.Variant) error {
	libsDir := w.Resolver.NativeLibsDirectory(v)
	step := &upload.NativeSymbolUpload{
		Variant:              v.Name,
		CLIExecutable:        in.cli,
		PropertiesFile:       in.properties,
		NativeLibsDir:        libsDir,
		IncludeNativeSources: w.Gate.IncludeNativeSources(),
		Organization:         in.org,
		Project:              in.project,
		WorkingDir:           w.Resolver.RootDir,
	}

	runner := w.runner()
	deferred := in.deferred
	handle, err := w.Graph.RegisterNode(graph.NodeSpec{
		Name:        v.NativeSymbolUploadNodeName(),
		Group:       "upload",
		Description: "Uploads the native debug symbols of " + v.Name,
		Inputs: map[string]string{
			"cliExecutable":        in.cli,
			"propertiesFile":       in.properties,
			"nativeLibsDir":        libsDir,
			"includeNativeSources": strconv.FormatBool(step.IncludeNativeSources),
			"org":                  in.org.String(),
			"project":              in.project.String(),
		},
		Action: func(ctx context.Context) error {
			if deferred != nil {
				return deferred
			}
			return step.Run(ctx, runner)
		},
	})
	if err != nil {
		return fmt.Errorf("variant %s: registering native symbol upload: %w", v.Name, err)
	}
	rep.Node = handle.Name
	rep.State = StateWired

	anchors := v.AnchorNames()
	for _, name := range []string{anchors.Assemble, anchors.Bundle} {
		anchor, ok := w.Graph.Lookup(name)
		if !ok {
			logger.Debug("anchor node not found, edge not added", "anchor", name)
			continue
		}
		if err := w.Graph.AddEdge(anchor, handle, graph.FinalizedBy); err != nil {
			return fmt.Errorf("variant %s: %w", v.Name, err)
		}
		rep.Edges = append(rep.Edges, graph.Edge{From: anchor.Name, To: handle.Name, Kind: graph.FinalizedBy})
	}
	return nil
}
