package neat

import (
	"sort"
)

// updateStaleness records the species' current best raw score and advances
// its staleness counter when that score is no improvement.
func (s *Species) updateStaleness() {
	best := s.BestGenome()
	if best != nil && best.Points > s.bestFitness {
		s.bestFitness = best.Points
		s.staleness = 0
		return
	}
	s.staleness++
}

// currentBestPoints returns the best raw score among the live genomes.
func (p *GenePool) currentBestPoints() float64 {
	points := make([]float64, 0, p.Size())
	for _, g := range p.Genomes() {
		points = append(points, g.Points)
	}
	return MaxFloat(points)
}

// RemoveStaleSpecies drops species that have not improved for
// StaleSpecies generations, except those whose best score already matches
// the pool's best. Survivors are ordered by the fitness of their best
// genome. When the pool itself has not improved for more than StalePool
// generations only the leading species is kept.
func (p *GenePool) RemoveStaleSpecies() {
	if current := p.currentBestPoints(); current > p.bestFitness {
		p.bestFitness = current
		p.poolStaleness = 0
	} else {
		p.poolStaleness++
	}

	survived := make([]*Species, 0, len(p.species))
	for _, s := range p.species {
		if len(s.Genomes) == 0 {
			continue
		}
		s.updateStaleness()
		if s.staleness < p.Config.Stagnation.StaleSpecies || s.bestFitness >= p.bestFitness {
			survived = append(survived, s)
			continue
		}
		p.logger.Debug("species removed due to staleness",
			"species", s.Key, "staleness", s.staleness, "best_fitness", s.bestFitness)
	}

	sort.SliceStable(survived, func(i, j int) bool {
		return survived[i].BestGenome().Fitness > survived[j].BestGenome().Fitness
	})

	if p.poolStaleness > p.Config.Stagnation.StalePool && len(survived) > 1 {
		p.logger.Debug("gene pool stale, keeping only the leading species",
			"pool_staleness", p.poolStaleness, "species", survived[0].Key, "dropped", len(survived)-1)
		survived = survived[:1]
	}

	p.species = survived
}
