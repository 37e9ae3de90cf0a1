package neat

// computeSpawnAmounts splits popSize offspring across species in proportion
// to their share of total. The fractional parts are carried from one species
// to the next and paid out as an extra child whenever the carry exceeds one,
// so the result depends on the order of shares. A non-positive total splits
// the population evenly.
func computeSpawnAmounts(shares []float64, total float64, popSize int) []int {
	spawnAmounts := make([]int, len(shares))
	carryOver := 0.0

	for i, share := range shares {
		var exact float64
		if total > 0 {
			exact = float64(popSize) * share / total
		} else {
			exact = float64(popSize) / float64(len(shares))
		}

		spawn := int(exact)
		carryOver += exact - float64(spawn)
		if carryOver > 1 {
			spawn++
			carryOver--
		}
		spawnAmounts[i] = spawn
	}
	return spawnAmounts
}

// BreedNewGeneration turns the evaluated and ranked pool into the next
// generation and returns the newly bred children.
//
// Normalised fitness is measured before culling. Each surviving species
// keeps its best genome as the seed of its next generation and breeds the
// rest of its allotment; a species allotted no children dies. Children are
// then sorted into species by compatibility, founding new species where
// nothing matches.
func (p *GenePool) BreedNewGeneration() []*Genome {
	p.CalculateGenomeNormalisedFitness()
	globalNormalisedFitness := p.GlobalNormalisedFitness()
	shares := make(map[*Species]float64, len(p.species))
	for _, s := range p.species {
		shares[s] = s.TotalNormalisedFitness()
	}

	p.KillWeakGenomesFromSpecies()
	p.RemoveStaleSpecies()

	ordered := make([]float64, len(p.species))
	for i, s := range p.species {
		ordered[i] = shares[s]
	}
	spawnAmounts := computeSpawnAmounts(ordered, globalNormalisedFitness, p.Config.Neat.PopSize)

	var children []*Genome
	survived := make([]*Species, 0, len(p.species))
	for i, s := range p.species {
		spawn := spawnAmounts[i]
		if spawn < 1 {
			p.logger.Debug("species removed, no offspring allotted", "species", s.Key)
			continue
		}

		best := s.BestGenome()
		for j := 1; j < spawn; j++ {
			children = append(children, s.BreedChild(p.rng, p.innovation, &p.Config.Reproduction))
		}
		s.Genomes = []*Genome{best}
		survived = append(survived, s)
	}

	p.species = survived
	for _, child := range children {
		p.AddToSpecies(child)
	}

	p.generation++
	p.logger.Info("bred new generation",
		"generation", p.generation,
		"species", len(p.species),
		"children", len(children),
		"population", p.Size(),
		"best_fitness", p.bestFitness,
		"pool_staleness", p.poolStaleness,
	)
	return children
}
