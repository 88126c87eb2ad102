package graph

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/uploadwire/cli/internal/output"
)

// State is the execution state of a node within one Execute call.
type State string

const (
	StatePending   State = "pending"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
	StateSkipped   State = "skipped"
)

// ExecuteOptions configures Execute.
type ExecuteOptions struct {
	// Parallelism caps concurrently running nodes. Zero or less means unlimited.
	Parallelism int
}

// Result records the outcome of one Execute call.
type Result struct {
	// Order lists executed nodes (succeeded or failed) in completion order.
	Order []string

	// States holds the final state of every scheduled node.
	States map[string]State

	// Err aggregates node failures. nil when every executed node succeeded.
	Err error
}

// Ran reports whether the node's action was invoked.
func (r *Result) Ran(name string) bool {
	st := r.States[name]
	return st == StateSucceeded || st == StateFailed
}

// Execute runs the targets, their dependencies, and the finalizers of every
// node scheduled. Each node runs at most once per call, so a finalizer shared
// by several anchors runs once. A finalizer runs after its anchors whether
// they succeeded or failed, but is skipped when none of them ran. Nodes whose
// dependencies failed are skipped. Independent nodes run concurrently.
func (m *Memory) Execute(ctx context.Context, opts ExecuteOptions, targets ...string) (*Result, error) {
	m.mu.RLock()
	plan, err := m.planLocked(targets)
	m.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	result := &Result{States: make(map[string]State, len(plan.nodes))}
	for name := range plan.nodes {
		result.States[name] = StatePending
	}

	var (
		mu     sync.Mutex
		errs   *multierror.Error
		remain = len(plan.nodes)
	)

	for remain > 0 {
		if ctx.Err() != nil {
			for name, st := range result.States {
				if st == StatePending {
					result.States[name] = StateSkipped
				}
			}
			errs = multierror.Append(errs, ctx.Err())
			break
		}

		ready := plan.ready(result.States)
		if len(ready) == 0 {
			return result, fmt.Errorf("%w: no runnable nodes among %d pending", ErrCycle, remain)
		}

		runnable := make([]*memoryNode, 0, len(ready))
		for _, name := range ready {
			if reason, skip := plan.skipReason(name, result.States); skip {
				output.Debug("skipping node", "node", name, "reason", reason)
				result.States[name] = StateSkipped
			} else {
				runnable = append(runnable, plan.nodes[name])
			}
			remain--
		}

		var g errgroup.Group
		if opts.Parallelism > 0 {
			g.SetLimit(opts.Parallelism)
		}
		for _, node := range runnable {
			g.Go(func() error {
				var runErr error
				if node.spec.Action != nil {
					runErr = node.spec.Action(ctx)
				}

				mu.Lock()
				defer mu.Unlock()
				result.Order = append(result.Order, node.spec.Name)
				if runErr != nil {
					result.States[node.spec.Name] = StateFailed
					errs = multierror.Append(errs, fmt.Errorf("node %s: %w", node.spec.Name, runErr))
					return nil
				}
				result.States[node.spec.Name] = StateSucceeded
				return nil
			})
		}
		_ = g.Wait()
	}

	result.Err = errs.ErrorOrNil()
	return result, result.Err
}

// executionPlan is the set of nodes one Execute call schedules.
type executionPlan struct {
	nodes map[string]*memoryNode

	// anchors maps a finalizer to the scheduled nodes it finalizes.
	anchors map[string][]string

	// required holds nodes reached from the targets through dependencies.
	required map[string]bool

	order []string
}

// planLocked computes the scheduled set. The caller holds m.mu.
func (m *Memory) planLocked(targets []string) (*executionPlan, error) {
	p := &executionPlan{
		nodes:    make(map[string]*memoryNode),
		anchors:  make(map[string][]string),
		required: make(map[string]bool),
	}

	var addDeps func(name string, required bool) error
	addDeps = func(name string, required bool) error {
		n, ok := m.nodes[name]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownNode, name)
		}
		if required {
			if p.required[name] {
				return nil
			}
			p.required[name] = true
		} else if _, ok := p.nodes[name]; ok {
			return nil
		}
		p.nodes[name] = n
		for _, dep := range n.dependsOn {
			if err := addDeps(dep, required); err != nil {
				return err
			}
		}
		return nil
	}

	for _, t := range targets {
		if err := addDeps(t, true); err != nil {
			return nil, err
		}
	}

	// Finalizers and their dependencies join the plan until nothing new appears.
	for changed := true; changed; {
		changed = false
		for name, n := range p.nodes {
			for _, fin := range n.finalizedBy {
				if !slices.Contains(p.anchors[fin], name) {
					p.anchors[fin] = append(p.anchors[fin], name)
					changed = true
				}
				if _, ok := p.nodes[fin]; !ok {
					if err := addDeps(fin, false); err != nil {
						return nil, err
					}
					changed = true
				}
			}
		}
	}

	for _, name := range m.order {
		if _, ok := p.nodes[name]; ok {
			p.order = append(p.order, name)
		}
	}
	return p, nil
}

// ready returns pending nodes whose dependencies and anchors are all terminal,
// in registration order.
func (p *executionPlan) ready(states map[string]State) []string {
	var out []string
	for _, name := range p.order {
		if states[name] != StatePending {
			continue
		}
		if p.waiting(name, states) {
			continue
		}
		out = append(out, name)
	}
	return out
}

func (p *executionPlan) waiting(name string, states map[string]State) bool {
	for _, dep := range p.nodes[name].dependsOn {
		if states[dep] == StatePending {
			return true
		}
	}
	for _, anchor := range p.anchors[name] {
		if states[anchor] == StatePending {
			return true
		}
	}
	return false
}

// skipReason reports whether a ready node must be skipped instead of run.
func (p *executionPlan) skipReason(name string, states map[string]State) (string, bool) {
	for _, dep := range p.nodes[name].dependsOn {
		if states[dep] != StateSucceeded {
			return "dependency " + dep + " did not succeed", true
		}
	}
	if p.required[name] {
		return "", false
	}
	for _, anchor := range p.anchors[name] {
		if st := states[anchor]; st == StateSucceeded || st == StateFailed {
			return "", false
		}
	}
	return "no finalized node ran", true
}
