package host

import (
	"context"
	"fmt"
	"strings"

	"github.com/uploadwire/cli/internal/graph"
	"github.com/uploadwire/cli/internal/output"
	"github.com/uploadwire/cli/internal/variant"
)

// Host owns the graph and source sets built from a pipeline.
type Host struct {
	Pipeline *Pipeline
	Graph    *graph.Memory
	Sources  *SourceSets
}

// New builds the baseline graph for every variant in p.
func New(p *Pipeline) (*Host, error) {
	h := &Host{
		Pipeline: p,
		Graph:    graph.NewMemory(),
		Sources:  NewSourceSets(),
	}
	for i, v := range p.BuildVariants() {
		if err := h.registerBaseline(v, p.Variants[i].Bundle); err != nil {
			return nil, fmt.Errorf("variant %s: %w", v.Name, err)
		}
	}
	return h, nil
}

// MinifyNodeName names the minify task of a variant.
func MinifyNodeName(v variant.Variant) string {
	return "minify" + v.TaskSuffix() + "WithR8"
}

// registerBaseline adds the build tasks of one variant:
// minify (when enabled) and merge-assets feed assemble and bundle.
func (h *Host) registerBaseline(v variant.Variant, bundle bool) error {
	anchors := v.AnchorNames()

	var upstream []graph.NodeHandle
	if v.IsMinifyEnabled() {
		minify, err := h.register(graph.NodeSpec{
			Name:        MinifyNodeName(v),
			Group:       "build",
			Description: "Minifies " + v.Name,
		})
		if err != nil {
			return err
		}
		upstream = append(upstream, minify)
	}

	merge, err := h.register(graph.NodeSpec{
		Name:        anchors.MergeAssets,
		Group:       "build",
		Description: "Merges the assets of " + v.Name,
		Action:      h.mergeAssetsAction(v.Name),
	})
	if err != nil {
		return err
	}
	upstream = append(upstream, merge)

	outputs := []graph.NodeSpec{{
		Name:        anchors.Assemble,
		Group:       "build",
		Description: "Assembles " + v.Name,
	}}
	if bundle {
		outputs = append(outputs, graph.NodeSpec{
			Name:        anchors.Bundle,
			Group:       "build",
			Description: "Bundles " + v.Name,
		})
	}
	for _, spec := range outputs {
		node, err := h.register(spec)
		if err != nil {
			return err
		}
		for _, up := range upstream {
			if err := h.Graph.AddEdge(up, node, graph.MustCompleteBefore); err != nil {
				return err
			}
		}
	}
	return nil
}

// register adds a node whose default action only logs.
func (h *Host) register(spec graph.NodeSpec) (graph.NodeHandle, error) {
	if spec.Action == nil {
		name := spec.Name
		spec.Action = func(context.Context) error {
			output.Debug("host task", "node", name)
			return nil
		}
	}
	return h.Graph.RegisterNode(spec)
}

func (h *Host) mergeAssetsAction(variantName string) graph.Action {
	return func(context.Context) error {
		dirs := h.Sources.AssetDirs(variantName)
		output.VariantLogger(variantName).Debug("merging assets",
			"extra_dirs", strings.Join(dirs, ","))
		return nil
	}
}

// Tasks lists the registered task names in name order.
func (h *Host) Tasks() []string {
	snap := h.Graph.Snapshot()
	out := make([]string, 0, len(snap.Nodes))
	for _, n := range snap.Nodes {
		out = append(out, n.Name)
	}
	return out
}
