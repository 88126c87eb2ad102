package cmdutil

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/uploadwire/cli/internal/graph"
	"github.com/uploadwire/cli/internal/output"
	"github.com/uploadwire/cli/internal/wiring"
)

// PlanDocument is the yaml/json view of a wiring session.
type PlanDocument struct {
	CLI   CLIView        `json:"cli"`
	Steps []StepView     `json:"steps"`
	Graph graph.Snapshot `json:"graph"`
}

// CLIView is the resolved uploader.
type CLIView struct {
	Path   string `json:"path"`
	Source string `json:"source"`
}

// StepView is one (variant, step) wiring outcome.
type StepView struct {
	Variant string   `json:"variant"`
	Step    string   `json:"step"`
	Node    string   `json:"node,omitempty"`
	State   string   `json:"state"`
	Edges   []string `json:"edges,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Document builds the serializable view of the session.
func (s *Session) Document() PlanDocument {
	doc := PlanDocument{
		CLI: CLIView{
			Path:   s.Report.CLI.Path,
			Source: s.Report.CLI.Source.String(),
		},
		Graph: s.Host.Graph.Snapshot(),
	}
	for _, st := range s.Report.Steps {
		view := StepView{
			Variant: st.Variant,
			Step:    string(st.Step),
			Node:    st.Node,
			State:   string(st.State),
			Edges:   edgeStrings(st.Edges),
		}
		if st.Err != nil {
			view.Error = st.Err.Error()
		}
		doc.Steps = append(doc.Steps, view)
	}
	return doc
}

func edgeStrings(edges []graph.Edge) []string {
	out := make([]string, 0, len(edges))
	for _, e := range edges {
		out = append(out, e.String())
	}
	return out
}

// StepRows converts a report into table rows.
func StepRows(r *wiring.Report) []output.StepRow {
	rows := make([]output.StepRow, 0, len(r.Steps))
	for _, st := range r.Steps {
		node := st.Node
		if node == "" {
			node = "-"
		}
		edges := "-"
		if len(st.Edges) > 0 {
			targets := make([]string, 0, len(st.Edges))
			for _, e := range st.Edges {
				if e.Kind == graph.FinalizedBy {
					targets = append(targets, "after "+e.From)
				} else {
					targets = append(targets, "before "+e.To)
				}
			}
			edges = strings.Join(targets, ", ")
		}
		rows = append(rows, output.StepRow{
			Variant: st.Variant,
			Step:    string(st.Step),
			Node:    node,
			Status:  string(st.State),
			Edges:   edges,
		})
	}
	return rows
}

// WritePlan writes the session in the requested format.
func WritePlan(w io.Writer, s *Session, format output.OutputFormat) error {
	switch format {
	case output.FormatYAML:
		data, err := yaml.Marshal(s.Document())
		if err != nil {
			return fmt.Errorf("marshaling plan: %w", err)
		}
		_, err = w.Write(data)
		return err
	case output.FormatJSON:
		data, err := json.MarshalIndent(s.Document(), "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling plan: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	default:
		_, err := fmt.Fprintln(w, output.RenderStepTable(StepRows(s.Report)))
		return err
	}
}

// PlanDiff renders a YAML diff between the baseline and the wired graph.
// It returns an empty string when wiring left the graph unchanged.
func PlanDiff(s *Session, useColor bool) (string, error) {
	before, err := yaml.Marshal(s.Baseline)
	if err != nil {
		return "", fmt.Errorf("marshaling baseline graph: %w", err)
	}
	after, err := yaml.Marshal(s.Host.Graph.Snapshot())
	if err != nil {
		return "", fmt.Errorf("marshaling wired graph: %w", err)
	}
	return output.DiffYAML("baseline", before, "wired", after, useColor)
}

// WriteRunResult writes the execution state of every scheduled node:
// executed nodes in completion order, then skipped ones by name.
func WriteRunResult(w io.Writer, res *graph.Result) error {
	t := output.NewTable("TASK", "STATUS")
	for _, name := range res.Order {
		st := string(res.States[name])
		t.Row(name, output.StatusStyle(st).Render(st))
	}

	var skipped []string
	for name, st := range res.States {
		if st == graph.StateSkipped {
			skipped = append(skipped, name)
		}
	}
	sort.Strings(skipped)
	for _, name := range skipped {
		t.Row(name, output.StatusStyle(output.StatusSkipped).Render(output.StatusSkipped))
	}

	_, err := fmt.Fprintln(w, t.String())
	return err
}
