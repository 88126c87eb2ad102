package graph

import (
	"fmt"
	"slices"
	"sort"
	"sync"
)

type memoryNode struct {
	spec        NodeSpec
	dependsOn   []string
	finalizedBy []string
}

// Memory is an in-memory Graph with a scheduler. It is safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	nodes map[string]*memoryNode
	order []string
}

var _ Graph = (*Memory)(nil)

// NewMemory creates an empty graph.
func NewMemory() *Memory {
	return &Memory{nodes: make(map[string]*memoryNode)}
}

// RegisterNode adds a node. Names must be unique.
func (m *Memory) RegisterNode(spec NodeSpec) (NodeHandle, error) {
	if spec.Name == "" {
		return NodeHandle{}, fmt.Errorf("%w: empty name", ErrUnknownNode)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.nodes[spec.Name]; ok {
		return NodeHandle{}, fmt.Errorf("%w: %s", ErrDuplicateNode, spec.Name)
	}
	m.nodes[spec.Name] = &memoryNode{spec: spec}
	m.order = append(m.order, spec.Name)
	return NodeHandle{Name: spec.Name}, nil
}

// AddEdge adds an ordering constraint. Adding the same edge twice is a no-op.
func (m *Memory) AddEdge(from, to NodeHandle, kind EdgeKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	fromNode, ok := m.nodes[from.Name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, from.Name)
	}
	toNode, ok := m.nodes[to.Name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, to.Name)
	}
	if from.Name == to.Name {
		return fmt.Errorf("%w: %s references itself", ErrCycle, from.Name)
	}

	switch kind {
	case MustCompleteBefore:
		if slices.Contains(toNode.dependsOn, from.Name) {
			return nil
		}
		if m.reachableLocked(from.Name, to.Name) {
			return fmt.Errorf("%w: %s already depends on %s", ErrCycle, from.Name, to.Name)
		}
		toNode.dependsOn = append(toNode.dependsOn, from.Name)
	case FinalizedBy:
		if !slices.Contains(fromNode.finalizedBy, to.Name) {
			fromNode.finalizedBy = append(fromNode.finalizedBy, to.Name)
		}
	default:
		return fmt.Errorf("unsupported edge kind %q", kind)
	}
	return nil
}

// reachableLocked reports whether target is in the dependency closure of start.
func (m *Memory) reachableLocked(start, target string) bool {
	seen := make(map[string]bool)
	stack := []string{start}
	for len(stack) > 0 {
		name := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if name == target {
			return true
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		stack = append(stack, m.nodes[name].dependsOn...)
	}
	return false
}

// Lookup returns the handle of a registered node.
func (m *Memory) Lookup(name string) (NodeHandle, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.nodes[name]; !ok {
		return NodeHandle{}, false
	}
	return NodeHandle{Name: name}, true
}

// Node returns the spec of a registered node.
func (m *Memory) Node(name string) (NodeSpec, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n, ok := m.nodes[name]
	if !ok {
		return NodeSpec{}, false
	}
	return n.spec, true
}

// Len returns the number of registered nodes.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.nodes)
}

// Edges returns all edges in registration order of their owning node.
func (m *Memory) Edges() []Edge {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var edges []Edge
	for _, name := range m.order {
		n := m.nodes[name]
		for _, dep := range n.dependsOn {
			edges = append(edges, Edge{From: dep, To: name, Kind: MustCompleteBefore})
		}
		for _, fin := range n.finalizedBy {
			edges = append(edges, Edge{From: name, To: fin, Kind: FinalizedBy})
		}
	}
	return edges
}

// EdgesOf returns the edges touching the named node.
func (m *Memory) EdgesOf(name string) []Edge {
	var out []Edge
	for _, e := range m.Edges() {
		if e.From == name || e.To == name {
			out = append(out, e)
		}
	}
	return out
}

// SnapshotNode is the serializable view of one node.
type SnapshotNode struct {
	Name        string            `json:"name"`
	Group       string            `json:"group,omitempty"`
	Description string            `json:"description,omitempty"`
	Inputs      map[string]string `json:"inputs,omitempty"`
	Outputs     []string          `json:"outputs,omitempty"`
	DependsOn   []string          `json:"dependsOn,omitempty"`
	FinalizedBy []string          `json:"finalizedBy,omitempty"`
}

// Snapshot is the serializable view of a graph.
type Snapshot struct {
	Nodes []SnapshotNode `json:"nodes"`
}

// Snapshot returns a copy of the graph sorted by node name.
func (m *Memory) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	nodes := make([]SnapshotNode, 0, len(m.nodes))
	for _, name := range m.order {
		n := m.nodes[name]
		dependsOn := slices.Clone(n.dependsOn)
		finalizedBy := slices.Clone(n.finalizedBy)
		sort.Strings(dependsOn)
		sort.Strings(finalizedBy)
		nodes = append(nodes, SnapshotNode{
			Name:        name,
			Group:       n.spec.Group,
			Description: n.spec.Description,
			Inputs:      n.spec.Inputs,
			Outputs:     slices.Clone(n.spec.Outputs),
			DependsOn:   dependsOn,
			FinalizedBy: finalizedBy,
		})
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })
	return Snapshot{Nodes: nodes}
}

// Without returns a copy of the snapshot with the named nodes, and every
// reference to them, removed.
func (s Snapshot) Without(names ...string) Snapshot {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	keep := func(list []string) []string {
		var out []string
		for _, n := range list {
			if !drop[n] {
				out = append(out, n)
			}
		}
		return out
	}

	nodes := make([]SnapshotNode, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		if drop[n.Name] {
			continue
		}
		n.DependsOn = keep(n.DependsOn)
		n.FinalizedBy = keep(n.FinalizedBy)
		nodes = append(nodes, n)
	}
	return Snapshot{Nodes: nodes}
}
