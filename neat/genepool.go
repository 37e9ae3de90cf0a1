package neat

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sort"
	"time"
)

// ErrEmptyPopulation is returned by queries that need at least one genome.
var ErrEmptyPopulation = errors.New("gene pool is empty")

// GenePool holds every species of a run and drives one generation at a time.
// It is not safe for concurrent use.
type GenePool struct {
	Config *Config

	species        []*Species
	generation     int
	bestFitness    float64 // Best raw score recorded so far.
	poolStaleness  int
	nextSpeciesKey int

	innovation *Innovation
	rng        *rand.Rand
	logger     *slog.Logger
}

// Option customises a GenePool.
type Option func(*GenePool)

// WithRand sets the random source used by every stochastic operation.
func WithRand(rng *rand.Rand) Option {
	return func(p *GenePool) { p.rng = rng }
}

// WithInnovation sets the innovation registry.
func WithInnovation(innov *Innovation) Option {
	return func(p *GenePool) { p.innovation = innov }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *GenePool) { p.logger = logger }
}

// NewGenePool creates an empty gene pool. Without options it uses a
// time-seeded random source, a fresh innovation registry and slog.Default().
func NewGenePool(config *Config, opts ...Option) (*GenePool, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("failed to create gene pool: %w", err)
	}

	p := &GenePool{
		Config:         config,
		bestFitness:    math.Inf(-1),
		nextSpeciesKey: 1,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		p.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if p.innovation == nil {
		p.innovation = NewInnovation(0)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p, nil
}

// InitializePool fills the pool with PopSize empty genomes.
func (p *GenePool) InitializePool() {
	for i := 0; i < p.Config.Neat.PopSize; i++ {
		p.AddToSpecies(NewGenome(&p.Config.Genome))
	}
}

// AddToSpecies places the genome in the first species whose representative
// it is compatible with, or founds a new species for it.
func (p *GenePool) AddToSpecies(genome *Genome) {
	for _, s := range p.species {
		if len(s.Genomes) == 0 {
			continue
		}
		if IsSameSpecies(genome, s.Genomes[0], &p.Config.SpeciesSet) {
			s.Genomes = append(s.Genomes, genome)
			return
		}
	}

	s := NewSpecies(p.nextSpeciesKey, genome)
	p.nextSpeciesKey++
	p.species = append(p.species, s)
	p.logger.Debug("created new species", "species", s.Key, "generation", p.generation)
}

// Species returns the live species.
func (p *GenePool) Species() []*Species {
	return p.species
}

// Genomes returns every live genome, species by species.
func (p *GenePool) Genomes() []*Genome {
	all := make([]*Genome, 0, p.Size())
	for _, s := range p.species {
		all = append(all, s.Genomes...)
	}
	return all
}

// Size returns the number of live genomes.
func (p *GenePool) Size() int {
	n := 0
	for _, s := range p.species {
		n += len(s.Genomes)
	}
	return n
}

// Generation returns the number of generations bred so far.
func (p *GenePool) Generation() int {
	return p.generation
}

// BestFitness returns the best raw score recorded so far, or negative
// infinity before the first generation is bred.
func (p *GenePool) BestFitness() float64 {
	return p.bestFitness
}

// PoolStaleness returns the generations since the pool's best score improved.
func (p *GenePool) PoolStaleness() int {
	return p.poolStaleness
}

// Innovation returns the pool's innovation registry.
func (p *GenePool) Innovation() *Innovation {
	return p.innovation
}

// EvaluateFitness has env score every genome and then ranks them.
func (p *GenePool) EvaluateFitness(env Environment) error {
	if err := env.Evaluate(p.Genomes()); err != nil {
		return fmt.Errorf("fitness evaluation failed in generation %d: %w", p.generation, err)
	}
	p.rankGlobally()
	return nil
}

// rankGlobally replaces every genome's fitness with its position in
// ascending fitness order, saving the raw score in Points.
func (p *GenePool) rankGlobally() {
	all := p.Genomes()
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Fitness < all[j].Fitness
	})
	for i, g := range all {
		g.Points = g.Fitness
		g.Fitness = float64(i)
	}
}

// TopGenome returns the genome with the highest fitness, the earliest on ties.
func (p *GenePool) TopGenome() (*Genome, error) {
	var top *Genome
	for _, g := range p.Genomes() {
		if top == nil || g.Fitness > top.Fitness {
			top = g
		}
	}
	if top == nil {
		return nil, ErrEmptyPopulation
	}
	return top, nil
}

// CalculateGenomeNormalisedFitness sets the normalised fitness of every genome.
func (p *GenePool) CalculateGenomeNormalisedFitness() {
	for _, s := range p.species {
		s.CalculateGenomeNormalisedFitness()
	}
}

// GlobalNormalisedFitness sums the normalised fitness over all species.
func (p *GenePool) GlobalNormalisedFitness() float64 {
	total := 0.0
	for _, s := range p.species {
		total += s.TotalNormalisedFitness()
	}
	return total
}

// KillWeakGenomesFromSpecies culls every species to its fitter half.
func (p *GenePool) KillWeakGenomesFromSpecies() {
	for _, s := range p.species {
		s.KillWeakGenomes()
	}
}

// PoolStats summarises the pool for reporting.
type PoolStats struct {
	Generation    int
	Species       int
	Population    int
	BestPoints    float64
	MeanPoints    float64
	StdevPoints   float64
	BestFitness   float64
	PoolStaleness int
}

// Stats computes summary statistics over the raw scores of the live genomes.
func (p *GenePool) Stats() PoolStats {
	points := make([]float64, 0, p.Size())
	for _, g := range p.Genomes() {
		points = append(points, g.Points)
	}
	return PoolStats{
		Generation:    p.generation,
		Species:       len(p.species),
		Population:    len(points),
		BestPoints:    MaxFloat(points),
		MeanPoints:    Mean(points),
		StdevPoints:   Stdev(points),
		BestFitness:   p.bestFitness,
		PoolStaleness: p.poolStaleness,
	}
}
