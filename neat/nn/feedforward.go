package nn

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInputSize is returned by Activate when the input slice does not match
// the layout's input count.
var ErrInputSize = errors.New("input size mismatch")

// Layout describes the node id space shared by every genome of a run.
//
// Ids [0, Inputs) are inputs, id Inputs is the bias node, ids
// [Inputs+HiddenCap, Inputs+HiddenCap+Outputs) are outputs and everything in
// between is hidden.
type Layout struct {
	Inputs    int
	Outputs   int
	HiddenCap int
}

// BiasID returns the id of the constant bias node.
func (l Layout) BiasID() int { return l.Inputs }

// OutputID returns the id of the i-th output node.
func (l Layout) OutputID(i int) int { return l.Inputs + l.HiddenCap + i }

// HiddenLimit is the first id that is no longer hidden space.
func (l Layout) HiddenLimit() int { return l.Inputs + l.HiddenCap }

// IsInput reports whether id is an input node.
func (l Layout) IsInput(id int) bool { return id >= 0 && id < l.Inputs }

// IsOutput reports whether id is an output node.
func (l Layout) IsOutput(id int) bool {
	return id >= l.HiddenLimit() && id < l.HiddenLimit()+l.Outputs
}

// IsHidden reports whether id lies in hidden space.
func (l Layout) IsHidden(id int) bool { return id > l.BiasID() && id < l.HiddenLimit() }

// Link is the view of a connection gene the graph needs.
type Link struct {
	From    int
	To      int
	Weight  float64
	Enabled bool
}

// Node holds the value of a neuron during one activation together with the
// links that end in it.
type Node struct {
	Value    float64
	Incoming []Link
}

// Graph is a node graph derived from a list of links. It is rebuilt whenever
// the links change and carries no state worth keeping between builds.
type Graph struct {
	layout Layout
	nodes  map[int]*Node
	ids    []int // ascending
}

// Build derives the node graph for links. Inputs, the bias node and all
// outputs are always present; hidden nodes appear only when a link
// references them.
func Build(layout Layout, links []Link) *Graph {
	g := &Graph{
		layout: layout,
		nodes:  make(map[int]*Node, layout.Inputs+1+layout.Outputs+len(links)),
	}
	for i := 0; i < layout.Inputs; i++ {
		g.nodes[i] = &Node{}
	}
	g.nodes[layout.BiasID()] = &Node{Value: 1}
	for i := 0; i < layout.Outputs; i++ {
		g.nodes[layout.OutputID(i)] = &Node{}
	}

	for _, l := range links {
		if _, ok := g.nodes[l.From]; !ok {
			g.nodes[l.From] = &Node{}
		}
		to, ok := g.nodes[l.To]
		if !ok {
			to = &Node{}
			g.nodes[l.To] = to
		}
		to.Incoming = append(to.Incoming, l)
	}

	g.ids = make([]int, 0, len(g.nodes))
	for id := range g.nodes {
		g.ids = append(g.ids, id)
	}
	sort.Ints(g.ids)
	return g
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int { return len(g.ids) }

// IDs returns the node ids in ascending order. The slice must not be modified.
func (g *Graph) IDs() []int { return g.ids }

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id int) *Node { return g.nodes[id] }

// MaxHiddenID returns the largest hidden id present, or the bias id when the
// graph has no hidden nodes.
func (g *Graph) MaxHiddenID() int {
	maxID := g.layout.BiasID()
	for _, id := range g.ids {
		if g.layout.IsHidden(id) && id > maxID {
			maxID = id
		}
	}
	return maxID
}

// HasLink reports whether a link from -> to exists, enabled or not.
func (g *Graph) HasLink(from, to int) bool {
	n, ok := g.nodes[to]
	if !ok {
		return false
	}
	for _, l := range n.Incoming {
		if l.From == from {
			return true
		}
	}
	return false
}

// Reaches reports whether dst can be reached from src. Disabled links are
// followed too, since they can be re-enabled later.
func (g *Graph) Reaches(src, dst int) bool {
	if src == dst {
		return true
	}
	outgoing := make(map[int][]int, len(g.nodes))
	for _, id := range g.ids {
		for _, l := range g.nodes[id].Incoming {
			outgoing[l.From] = append(outgoing[l.From], l.To)
		}
	}

	visited := make(map[int]bool)
	queue := []int{src}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == dst {
			return true
		}
		if visited[current] {
			continue
		}
		visited[current] = true
		queue = append(queue, outgoing[current]...)
	}
	return false
}

// Activate feeds inputs through the graph and returns the output values in
// output-id order.
//
// Nodes are visited in ascending id order; every node above the bias takes
// act of agg over the weighted values of its enabled incoming links, or of
// their plain sum when agg is nil. A link whose source has a larger id than
// its target therefore reads the source's initial value rather than its
// activated one.
func (g *Graph) Activate(inputs []float64, act func(float64) float64, agg func([]float64) float64) ([]float64, error) {
	if len(inputs) != g.layout.Inputs {
		return nil, fmt.Errorf("%w: got %d inputs, network has %d", ErrInputSize, len(inputs), g.layout.Inputs)
	}

	for i, v := range inputs {
		g.nodes[i].Value = v
	}
	g.nodes[g.layout.BiasID()].Value = 1

	var weighted []float64
	for _, id := range g.ids {
		if id <= g.layout.BiasID() {
			continue
		}
		node := g.nodes[id]
		weighted = weighted[:0]
		for _, l := range node.Incoming {
			if l.Enabled {
				weighted = append(weighted, g.nodes[l.From].Value*l.Weight)
			}
		}
		node.Value = act(aggregate(weighted, agg))
	}

	outputs := make([]float64, g.layout.Outputs)
	for i := range outputs {
		outputs[i] = g.nodes[g.layout.OutputID(i)].Value
	}
	return outputs, nil
}

func aggregate(values []float64, agg func([]float64) float64) float64 {
	if agg != nil {
		return agg(values)
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum
}
