// Package graph defines the adapter the wiring code uses to register nodes and
// edges in a host build graph, plus an in-memory graph that implements it.
package graph

import (
	"context"
	"fmt"

	oerrors "github.com/uploadwire/cli/internal/errors"
)

// EdgeKind is an ordering constraint between two nodes.
type EdgeKind string

const (
	// MustCompleteBefore means the from node completes before the to node starts.
	MustCompleteBefore EdgeKind = "must-complete-before"

	// FinalizedBy means the to node runs after the from node, whatever its outcome.
	FinalizedBy EdgeKind = "is-finalized-by"
)

var (
	// ErrUnknownNode is returned when an edge or target references a node that
	// was never registered.
	ErrUnknownNode = oerrors.Wrap(oerrors.ErrNotFound, "unknown node")

	// ErrDuplicateNode is returned when a node name is registered twice.
	ErrDuplicateNode = oerrors.Wrap(oerrors.ErrValidation, "duplicate node")

	// ErrCycle is returned when an edge would make the graph cyclic.
	ErrCycle = oerrors.Wrap(oerrors.ErrValidation, "dependency cycle")
)

// Action is the work a node performs when the scheduler reaches it.
type Action func(ctx context.Context) error

// NodeSpec describes a node to register.
type NodeSpec struct {
	// Name is unique within the graph.
	Name string

	// Group is a free-form category used for display ("build", "upload").
	Group string

	// Description is a one-line summary for display.
	Description string

	// Inputs are display-only key/value inputs.
	Inputs map[string]string

	// Outputs are display-only declared output paths.
	Outputs []string

	// Action runs when the node executes. nil means a no-op.
	Action Action
}

// NodeHandle references a registered node.
type NodeHandle struct {
	Name string
}

// String implements fmt.Stringer.
func (h NodeHandle) String() string {
	return h.Name
}

// Graph is implemented by the host integration layer. The wiring code only
// talks to this interface, so any host (or a test fake) can back it.
type Graph interface {
	// RegisterNode adds a node and returns its handle.
	RegisterNode(spec NodeSpec) (NodeHandle, error)

	// AddEdge adds an ordering constraint between two registered nodes.
	AddEdge(from, to NodeHandle, kind EdgeKind) error

	// Lookup returns the handle of a registered node.
	Lookup(name string) (NodeHandle, bool)
}

// Edge is a directed constraint between two nodes.
type Edge struct {
	From string   `json:"from"`
	To   string   `json:"to"`
	Kind EdgeKind `json:"kind"`
}

// String implements fmt.Stringer.
func (e Edge) String() string {
	return fmt.Sprintf("%s -[%s]-> %s", e.From, e.Kind, e.To)
}
