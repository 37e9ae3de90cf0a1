package neat

// Environment scores a population for a particular task by setting each
// genome's Fitness.
type Environment interface {
	Evaluate(genomes []*Genome) error
}

// FitnessFunc adapts a plain function to the Environment interface.
type FitnessFunc func(genomes []*Genome) error

// Evaluate calls f(genomes).
func (f FitnessFunc) Evaluate(genomes []*Genome) error {
	return f(genomes)
}
