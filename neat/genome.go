package neat

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/baldhumanity/neat-genepool/neat/nn"
)

// ErrInputSize is returned by EvaluateNetwork when the input vector does not
// match the configured number of inputs.
var ErrInputSize = nn.ErrInputSize

// Genome represents an individual organism in the population.
//
// Connections is the only persistent record of topology. Nodes are derived
// from it on demand and thrown away afterwards.
type Genome struct {
	Connections       []*ConnectionGene
	Fitness           float64 // Raw score from the environment until the pool replaces it with a rank.
	Points            float64 // Raw score saved by the pool before ranking.
	NormalisedFitness float64 // Fitness divided by the size of the owning species.
	Rates             MutationRates
	Config            *GenomeConfig
}

// NewGenome creates an empty genome with default mutation rates.
func NewGenome(config *GenomeConfig) *Genome {
	return &Genome{
		Rates:  DefaultMutationRates(config),
		Config: config,
	}
}

// Copy returns a deep copy with its own genes and mutation rates.
func (g *Genome) Copy() *Genome {
	c := &Genome{
		Connections:       make([]*ConnectionGene, len(g.Connections)),
		Fitness:           g.Fitness,
		Points:            g.Points,
		NormalisedFitness: g.NormalisedFitness,
		Rates:             g.Rates,
		Config:            g.Config,
	}
	for i, cg := range g.Connections {
		c.Connections[i] = cg.Copy()
	}
	return c
}

// AddConnection appends a connection gene carrying a fresh innovation number
// and returns it.
func (g *Genome) AddConnection(innov *Innovation, from, to int, weight float64, enabled bool) *ConnectionGene {
	cg := &ConnectionGene{
		From:       from,
		To:         to,
		Innovation: innov.Next(),
		Weight:     weight,
		Enabled:    enabled,
	}
	g.Connections = append(g.Connections, cg)
	return cg
}

// MaxInnovation returns the largest innovation number in the genome, or 0
// when it has no genes.
func (g *Genome) MaxInnovation() int {
	maxInnov := 0
	for _, cg := range g.Connections {
		if cg.Innovation > maxInnov {
			maxInnov = cg.Innovation
		}
	}
	return maxInnov
}

// graph derives the node graph from the connection genes.
func (g *Genome) graph() *nn.Graph {
	links := make([]nn.Link, len(g.Connections))
	for i, cg := range g.Connections {
		links[i] = cg.link()
	}
	return nn.Build(g.Config.Layout(), links)
}

// EvaluateNetwork runs inputs through the network encoded by the genome and
// returns one value per output node. Each node applies the configured
// activation to the configured aggregation of its weighted inputs.
func (g *Genome) EvaluateNetwork(inputs []float64) ([]float64, error) {
	act, err := GetActivation(g.Config.Activation)
	if err != nil {
		return nil, err
	}
	agg, err := GetAggregation(g.Config.Aggregation)
	if err != nil {
		return nil, err
	}
	return g.graph().Activate(inputs, act, agg)
}

// String returns a string representation of the Genome.
func (g *Genome) String() string {
	parts := make([]string, len(g.Connections))
	for i, cg := range g.Connections {
		parts[i] = cg.String()
	}
	return fmt.Sprintf("Genome(Fitness: %.3f, Points: %.3f, Connections: [%s])",
		g.Fitness, g.Points, strings.Join(parts, ", "))
}

// geneMap indexes connection genes by innovation number.
func geneMap(g *Genome) map[int]*ConnectionGene {
	m := make(map[int]*ConnectionGene, len(g.Connections))
	for _, cg := range g.Connections {
		m[cg.Innovation] = cg
	}
	return m
}

// innovationUnion returns every innovation number present in a or b, ascending.
func innovationUnion(a, b map[int]*ConnectionGene) []int {
	all := make([]int, 0, len(a)+len(b))
	for innov := range a {
		all = append(all, innov)
	}
	for innov := range b {
		if _, ok := a[innov]; !ok {
			all = append(all, innov)
		}
	}
	sort.Ints(all)
	return all
}

// Breed creates a child by aligning the parents' genes on innovation number.
//
// Matching genes come from either parent with equal chance; if exactly one
// parent has the gene disabled the child's copy is disabled with probability
// 0.75. Unmatched genes come from the fitter parent only, or from either
// parent with a coin flip per gene when the parents are equally fit. The
// child starts with default mutation rates and zero fitness.
func Breed(rng *rand.Rand, parent1, parent2 *Genome) *Genome {
	if parent1.Fitness < parent2.Fitness {
		parent1, parent2 = parent2, parent1 // Ensure parent1 is the fitter one
	}

	child := NewGenome(parent1.Config)
	genes1 := geneMap(parent1)
	genes2 := geneMap(parent2)
	equal := parent1.Fitness == parent2.Fitness

	for _, innov := range innovationUnion(genes1, genes2) {
		gene1, in1 := genes1[innov]
		gene2, in2 := genes2[innov]

		var trait *ConnectionGene
		switch {
		case in1 && in2:
			if rng.Intn(2) == 0 {
				trait = gene1.Copy()
			} else {
				trait = gene2.Copy()
			}
			if gene1.Enabled != gene2.Enabled {
				trait.Enabled = rng.Float64() >= 0.75
			}
		case equal:
			if in1 {
				trait = gene1.Copy()
			} else {
				trait = gene2.Copy()
			}
			if rng.Intn(2) == 0 {
				continue
			}
		case in1:
			trait = gene1.Copy()
		default:
			// Only the weaker parent has it.
			continue
		}

		child.Connections = append(child.Connections, trait)
	}

	return child
}

// Distance is the compatibility distance between two genomes:
//
//	(excessCoef*excess + disjointCoef*disjoint) / total + weightCoef*weightDiff / matching
//
// A gene present in only one genome is disjoint when its innovation is below
// the smaller of the two maximum innovations and excess otherwise. The weight
// term is dropped when no genes match.
func Distance(g1, g2 *Genome, config *SpeciesSetConfig) float64 {
	genes1 := geneMap(g1)
	genes2 := geneMap(g2)

	lowMaxInnovation := 0
	if len(genes1) > 0 && len(genes2) > 0 {
		lowMaxInnovation = min(g1.MaxInnovation(), g2.MaxInnovation())
	}

	matching, disjoint, excess := 0, 0, 0
	weightDiff := 0.0
	for _, innov := range innovationUnion(genes1, genes2) {
		gene1, in1 := genes1[innov]
		gene2, in2 := genes2[innov]
		switch {
		case in1 && in2:
			matching++
			weightDiff += math.Abs(gene1.Weight - gene2.Weight)
		case innov < lowMaxInnovation:
			disjoint++
		default:
			excess++
		}
	}

	total := matching + disjoint + excess
	if total == 0 {
		return 0
	}
	delta := (config.ExcessCoefficient*float64(excess) + config.DisjointCoefficient*float64(disjoint)) / float64(total)
	if matching > 0 {
		delta += config.WeightCoefficient * weightDiff / float64(matching)
	}
	return delta
}

// IsSameSpecies reports whether the distance between g1 and g2 is below the
// compatibility threshold.
func IsSameSpecies(g1, g2 *Genome, config *SpeciesSetConfig) bool {
	return Distance(g1, g2, config) < config.CompatibilityThreshold
}
