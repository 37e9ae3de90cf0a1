package neat

import (
	"fmt"
	"math/rand"

	"github.com/baldhumanity/neat-genepool/neat/nn"
)

// --------------------------- ConnectionGene ---------------------------

// ConnectionGene represents a connection between two nodes in the genome.
// From, To and Innovation never change once the gene exists.
type ConnectionGene struct {
	From       int
	To         int
	Innovation int
	Weight     float64
	Enabled    bool
}

// String returns a string representation of the ConnectionGene.
func (cg *ConnectionGene) String() string {
	return fmt.Sprintf("ConnGene(#%d %d->%d, Weight: %.3f, Enabled: %t)",
		cg.Innovation, cg.From, cg.To, cg.Weight, cg.Enabled)
}

// Copy creates a deep copy of the ConnectionGene.
func (cg *ConnectionGene) Copy() *ConnectionGene {
	c := *cg
	return &c
}

func (cg *ConnectionGene) link() nn.Link {
	return nn.Link{From: cg.From, To: cg.To, Weight: cg.Weight, Enabled: cg.Enabled}
}

// --------------------------- MutationRates ---------------------------

// Factors applied to every mutation rate before each mutation. They are
// reciprocal, so a shrink followed by a grow restores the rate.
const (
	rateShrink = 0.95
	rateGrow   = 1.05263
)

// MutationRates are the per-genome mutation parameters. Each genome carries
// its own copy and drifts it a little every time it mutates.
type MutationRates struct {
	Steps                 float64
	PerturbChance         float64
	WeightChance          float64
	WeightMutationChance  float64
	NodeMutationChance    float64
	ConnectionChance      float64
	BiasConnectionChance  float64
	DisableMutationChance float64
	EnableMutationChance  float64
}

// DefaultMutationRates returns the starting rates from the genome config.
func DefaultMutationRates(config *GenomeConfig) MutationRates {
	return MutationRates{
		Steps:                 config.Steps,
		PerturbChance:         config.PerturbChance,
		WeightChance:          config.WeightChance,
		WeightMutationChance:  config.WeightMutationChance,
		NodeMutationChance:    config.NodeMutationChance,
		ConnectionChance:      config.ConnectionMutationChance,
		BiasConnectionChance:  config.BiasConnectionMutationChance,
		DisableMutationChance: config.DisableMutationChance,
		EnableMutationChance:  config.EnableMutationChance,
	}
}

// perturb scales every rate by 0.95 or 1.05263, one coin flip per rate, in
// field order.
func (mr *MutationRates) perturb(rng *rand.Rand) {
	for _, rate := range []*float64{
		&mr.Steps,
		&mr.PerturbChance,
		&mr.WeightChance,
		&mr.WeightMutationChance,
		&mr.NodeMutationChance,
		&mr.ConnectionChance,
		&mr.BiasConnectionChance,
		&mr.DisableMutationChance,
		&mr.EnableMutationChance,
	} {
		if rng.Intn(2) == 0 {
			*rate *= rateShrink
		} else {
			*rate *= rateGrow
		}
	}
}
