package neat

import (
	"math"
	"math/rand"
	"sort"
)

// Species represents a group of genetically similar genomes. The first
// genome is the one newcomers are compared against.
type Species struct {
	Key     int       // Unique identifier for the species.
	Genomes []*Genome // Members; never empty while the species is alive.

	bestFitness float64 // Best raw score ever seen in this species.
	staleness   int     // Generations since bestFitness last improved.
}

// NewSpecies creates a species holding the given genomes.
func NewSpecies(key int, genomes ...*Genome) *Species {
	return &Species{
		Key:         key,
		Genomes:     genomes,
		bestFitness: math.Inf(-1),
	}
}

// BestFitness returns the best raw score the species has ever produced, or
// negative infinity before its first staleness update.
func (s *Species) BestFitness() float64 {
	return s.bestFitness
}

// Staleness returns the number of generations since the species last improved.
func (s *Species) Staleness() int {
	return s.staleness
}

// CalculateGenomeNormalisedFitness divides every member's fitness by the
// species size.
func (s *Species) CalculateGenomeNormalisedFitness() {
	for _, g := range s.Genomes {
		g.NormalisedFitness = g.Fitness / float64(len(s.Genomes))
	}
}

// TotalNormalisedFitness sums the members' normalised fitness.
func (s *Species) TotalNormalisedFitness() float64 {
	total := 0.0
	for _, g := range s.Genomes {
		total += g.NormalisedFitness
	}
	return total
}

// sortGenomes orders members by descending fitness, keeping the existing
// order among equals.
func (s *Species) sortGenomes() {
	sort.SliceStable(s.Genomes, func(i, j int) bool {
		return s.Genomes[i].Fitness > s.Genomes[j].Fitness
	})
}

// KillWeakGenomes keeps independent copies of the fitter half of the
// members, rounding up.
func (s *Species) KillWeakGenomes() {
	s.sortGenomes()
	surviveCount := (len(s.Genomes) + 1) / 2

	survivors := make([]*Genome, surviveCount)
	for i := range survivors {
		survivors[i] = s.Genomes[i].Copy()
	}
	s.Genomes = survivors
}

// BreedChild produces a mutated offspring. With the configured crossover
// chance two members, drawn with replacement, are crossed; otherwise a
// single member is cloned.
func (s *Species) BreedChild(rng *rand.Rand, innov *Innovation, config *ReproductionConfig) *Genome {
	var child *Genome
	if rng.Float64() < config.CrossoverChance {
		parent1 := s.Genomes[rng.Intn(len(s.Genomes))]
		parent2 := s.Genomes[rng.Intn(len(s.Genomes))]
		child = Breed(rng, parent1, parent2)
	} else {
		child = s.Genomes[rng.Intn(len(s.Genomes))]
	}
	child = child.Copy()
	child.Mutate(rng, innov)
	return child
}

// BestGenome returns the fittest member, the earliest one on ties, or nil
// for an empty species. Members are left sorted by descending fitness.
func (s *Species) BestGenome() *Genome {
	if len(s.Genomes) == 0 {
		return nil
	}
	s.sortGenomes()
	return s.Genomes[0]
}
