// Package neat provides a Go implementation of the NeuroEvolution of Augmenting Topologies (NEAT) algorithm.
//
// NEAT is a genetic algorithm for the generation of evolving artificial neural networks.
// It alters both the weighting parameters and structures of networks, attempting to find
// a balance between the fitness of evolved solutions and their diversity.
//
// Genomes are lists of connection genes tagged with innovation numbers. The
// network a genome encodes is derived from that list whenever it is needed.
// Genomes are grouped into species by compatibility distance, and each
// generation the gene pool ranks every genome, culls each species to its
// fitter half, drops stale species and breeds the next generation in
// proportion to each species' share of the pool's fitness.
//
// Basic usage:
//
//	config, err := neat.LoadConfig("path/to/config")
//	if err != nil {
//		log.Fatalf("Error loading config: %v", err)
//	}
//
//	pool, err := neat.NewGenePool(config, neat.WithRand(rand.New(rand.NewSource(1))))
//	if err != nil {
//		log.Fatalf("Error creating gene pool: %v", err)
//	}
//	pool.InitializePool()
//
//	for pool.Generation() < config.Neat.MaxGenerations {
//		if err := pool.EvaluateFitness(env); err != nil {
//			log.Fatalf("Error evaluating generation: %v", err)
//		}
//		best, _ := pool.TopGenome()
//		if problems.Correctness(best.Points, maxPoints) > config.Neat.CorrectnessThreshold {
//			fmt.Println("Solution found!")
//			break
//		}
//		pool.BreedNewGeneration()
//	}
//
// The library itself lives in the neat subpackage; benchmark environments
// are in neat/problems and runnable drivers under examples/.
package neat
