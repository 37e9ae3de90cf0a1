package neat

import (
	"math/rand"
)

// Mutate drifts the genome's mutation rates and then applies, each with its
// own chance and in this order: weight mutation, add connection, add
// connection from the bias node, add node, disable a connection, enable a
// connection. Structural mutations that find nothing to do leave the genome
// unchanged.
func (g *Genome) Mutate(rng *rand.Rand, innov *Innovation) {
	g.Rates.perturb(rng)

	if rng.Float64() <= g.Rates.WeightMutationChance {
		g.mutateWeights(rng)
	}
	if rng.Float64() <= g.Rates.ConnectionChance {
		g.mutateAddConnection(rng, innov, false)
	}
	if rng.Float64() <= g.Rates.BiasConnectionChance {
		g.mutateAddConnection(rng, innov, true)
	}
	if rng.Float64() <= g.Rates.NodeMutationChance {
		g.mutateAddNode(rng, innov)
	}
	if rng.Float64() <= g.Rates.DisableMutationChance {
		g.mutateEnabled(rng, false)
	}
	if rng.Float64() <= g.Rates.EnableMutationChance {
		g.mutateEnabled(rng, true)
	}
}

// mutateWeights perturbs or replaces connection weights. The per-gene
// chances and step size come from the config, not the drifting rates.
func (g *Genome) mutateWeights(rng *rand.Rand) {
	for _, cg := range g.Connections {
		if rng.Float64() >= g.Config.WeightChance {
			continue
		}
		if rng.Float64() < g.Config.PerturbChance {
			cg.Weight += (2*rng.Float64() - 1) * g.Config.Steps
		} else {
			cg.Weight = randomWeight(rng)
		}
	}
}

// mutateAddConnection attempts to connect two random nodes. The target is
// drawn from the nodes past the bias; the source from all nodes, or is the
// bias node when forceBias is set. The attempt is dropped unless the source
// id is below the target id and the pair is not yet connected.
func (g *Genome) mutateAddConnection(rng *rand.Rand, innov *Innovation, forceBias bool) {
	graph := g.graph()
	layout := g.Config.Layout()
	ids := graph.IDs()

	span := len(ids) - layout.Inputs - 1
	if span <= 0 {
		return
	}
	to := ids[rng.Intn(span)+layout.Inputs+1]
	from := ids[rng.Intn(len(ids))]
	if forceBias {
		from = layout.BiasID()
	}

	if from >= to {
		return
	}
	if graph.HasLink(from, to) {
		return
	}
	if g.Config.FeedForward && graph.Reaches(to, from) { // would close a cycle
		return
	}

	g.AddConnection(innov, from, to, randomWeight(rng), true)
}

// mutateAddNode splits a random enabled connection in two. The old
// connection is disabled, the incoming half gets weight 1 and the outgoing
// half keeps the old weight.
func (g *Genome) mutateAddNode(rng *rand.Rand, innov *Innovation) {
	if !g.hasEnabledConnection() {
		return
	}
	graph := g.graph()
	layout := g.Config.Layout()

	split := g.Connections[rng.Intn(len(g.Connections))]
	for attempts := 1; !split.Enabled; attempts++ {
		if attempts > g.Config.HiddenNodeCap {
			return
		}
		split = g.Connections[rng.Intn(len(g.Connections))]
	}

	// Node count minus outputs lands just past the hidden ids in use while
	// they are dense. Crossover can leave gaps, so never go below the largest.
	node := max(graph.Len()-layout.Outputs, graph.MaxHiddenID()+1)
	if node >= layout.HiddenLimit() {
		return // hidden space exhausted
	}

	split.Enabled = false
	g.AddConnection(innov, split.From, node, 1, true)
	g.AddConnection(innov, node, split.To, split.Weight, true)
}

// mutateEnabled forces the enabled flag of one random connection.
func (g *Genome) mutateEnabled(rng *rand.Rand, enabled bool) {
	if len(g.Connections) == 0 {
		return
	}
	g.Connections[rng.Intn(len(g.Connections))].Enabled = enabled
}

func (g *Genome) hasEnabledConnection() bool {
	for _, cg := range g.Connections {
		if cg.Enabled {
			return true
		}
	}
	return false
}
