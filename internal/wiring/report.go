package wiring

import (
	"github.com/hashicorp/go-multierror"

	"github.com/uploadwire/cli/internal/graph"
	"github.com/uploadwire/cli/internal/paths"
)

// Step identifies one of the two upload steps.
type Step string

const (
	StepMappingUpload      Step = "mapping-upload"
	StepNativeSymbolUpload Step = "native-symbol-upload"
)

// State is the wiring outcome of one step for one variant.
type State string

const (
	// StateNotConsidered means wiring never evaluated the step.
	StateNotConsidered State = "not-considered"

	// StateIneligible means the step was evaluated and gets no edges. A
	// mapping node registered without edges is ineligible.
	StateIneligible State = "ineligible"

	// StateWired means the step's node and edges are in the graph.
	StateWired State = "wired"
)

// StepReport records what wiring did for one (variant, step) pair.
type StepReport struct {
	Variant string       `json:"variant"`
	Step    Step         `json:"step"`
	Node    string       `json:"node,omitempty"`
	State   State        `json:"state"`
	Edges   []graph.Edge `json:"edges,omitempty"`

	// Err is a deferred variant error. It also fails the node's action.
	Err error `json:"-"`
}

// Report is the outcome of one Wire call.
type Report struct {
	// CLI is the resolved uploader.
	CLI paths.CLIResult

	// Steps lists two entries per variant in wiring order.
	Steps []StepReport

	errs *multierror.Error
}

// State returns the state of a step, StateNotConsidered when unknown.
func (r *Report) State(variantName string, step Step) State {
	if s, ok := r.find(variantName, step); ok {
		return s.State
	}
	return StateNotConsidered
}

// Step returns the report entry for a step.
func (r *Report) Step(variantName string, step Step) (StepReport, bool) {
	return r.find(variantName, step)
}

func (r *Report) find(variantName string, step Step) (StepReport, bool) {
	for _, s := range r.Steps {
		if s.Variant == variantName && s.Step == step {
			return s, true
		}
	}
	return StepReport{}, false
}

// Nodes returns the names of every node wiring registered.
func (r *Report) Nodes() []string {
	var out []string
	for _, s := range r.Steps {
		if s.Node != "" {
			out = append(out, s.Node)
		}
	}
	return out
}

// DormantNodes returns registered nodes that got no edges.
func (r *Report) DormantNodes() []string {
	var out []string
	for _, s := range r.Steps {
		if s.Node != "" && len(s.Edges) == 0 {
			out = append(out, s.Node)
		}
	}
	return out
}

// Err aggregates the per-variant errors, nil when there are none.
func (r *Report) Err() error {
	return r.errs.ErrorOrNil()
}

func (r *Report) addErr(err error) {
	r.errs = multierror.Append(r.errs, err)
}
