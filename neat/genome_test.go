package neat

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConfig has two inputs and one output: ids 0 and 1 are inputs, 2 is
// the bias, 3..11 are hidden and 12 is the output.
func testConfig() *Config {
	c := DefaultConfig()
	c.Neat.PopSize = 20
	c.Genome.NumInputs = 2
	c.Genome.HiddenNodeCap = 10
	return c
}

const testOutput = 12

func genomeWith(config *GenomeConfig, genes ...*ConnectionGene) *Genome {
	g := NewGenome(config)
	g.Connections = genes
	return g
}

func gene(innov, from, to int, weight float64, enabled bool) *ConnectionGene {
	return &ConnectionGene{From: from, To: to, Innovation: innov, Weight: weight, Enabled: enabled}
}

func innovations(g *Genome) []int {
	ids := make([]int, len(g.Connections))
	for i, cg := range g.Connections {
		ids[i] = cg.Innovation
	}
	return ids
}

func TestEvaluateEmptyGenome(t *testing.T) {
	g := NewGenome(&testConfig().Genome)

	out, err := g.EvaluateNetwork([]float64{1, -1})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5}, out)
}

func TestEvaluateDirectConnection(t *testing.T) {
	config := DefaultConfig().Genome
	config.HiddenNodeCap = 1
	g := genomeWith(&config, gene(1, 0, 2, 1, true))

	// A zero input leaves the sum at zero.
	out, err := g.EvaluateNetwork([]float64{0})
	require.NoError(t, err)
	assert.Equal(t, 0.5, out[0])

	out, err = g.EvaluateNetwork([]float64{1})
	require.NoError(t, err)
	assert.InDelta(t, Sigmoid(1), out[0], 1e-12)
}

func TestEvaluateHiddenNode(t *testing.T) {
	g := genomeWith(&testConfig().Genome,
		gene(1, 0, 3, 1, true),
		gene(2, 3, testOutput, 2, true),
		gene(3, 2, testOutput, 0.5, true),
	)

	out, err := g.EvaluateNetwork([]float64{0.3, 0})
	require.NoError(t, err)
	assert.InDelta(t, Sigmoid(2*Sigmoid(0.3)+0.5), out[0], 1e-12)
}

func TestEvaluateIsRepeatable(t *testing.T) {
	g := genomeWith(&testConfig().Genome,
		gene(1, 0, 3, 0.7, true),
		gene(2, 3, testOutput, -1.2, true),
		gene(3, 1, testOutput, 0.4, false),
	)

	first, err := g.EvaluateNetwork([]float64{0.2, 0.9})
	require.NoError(t, err)
	second, err := g.EvaluateNetwork([]float64{0.2, 0.9})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEvaluateWrongInputSize(t *testing.T) {
	g := NewGenome(&testConfig().Genome)

	_, err := g.EvaluateNetwork([]float64{1})
	assert.ErrorIs(t, err, ErrInputSize)
	_, err = g.EvaluateNetwork([]float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrInputSize)
}

func TestEvaluateUsesConfiguredActivation(t *testing.T) {
	config := testConfig().Genome
	config.Activation = "identity"
	g := genomeWith(&config, gene(1, 0, testOutput, 3, true))

	out, err := g.EvaluateNetwork([]float64{2, 0})
	require.NoError(t, err)
	assert.Equal(t, 6.0, out[0])
}

func TestEvaluateUsesConfiguredAggregation(t *testing.T) {
	config := testConfig().Genome
	config.Activation = "identity"
	config.Aggregation = "product"
	g := genomeWith(&config,
		gene(1, 0, testOutput, 3, true),
		gene(2, 1, testOutput, 0.5, true),
	)

	out, err := g.EvaluateNetwork([]float64{2, 4})
	require.NoError(t, err)
	assert.Equal(t, 12.0, out[0])
}

func TestGenomeCopyIsIndependent(t *testing.T) {
	g := genomeWith(&testConfig().Genome, gene(1, 0, testOutput, 1, true))
	g.Fitness = 3
	g.Points = 7

	c := g.Copy()
	c.Connections[0].Weight = 5
	c.Connections[0].Enabled = false
	c.Rates.Steps = 9
	c.Connections = append(c.Connections, gene(2, 1, testOutput, 1, true))

	assert.Equal(t, 1.0, g.Connections[0].Weight)
	assert.True(t, g.Connections[0].Enabled)
	assert.Equal(t, 0.1, g.Rates.Steps)
	assert.Len(t, g.Connections, 1)
	assert.Equal(t, 3.0, c.Fitness)
	assert.Equal(t, 7.0, c.Points)
}

func TestAddConnectionUsesRegistry(t *testing.T) {
	innov := NewInnovation(4)
	g := NewGenome(&testConfig().Genome)

	a := g.AddConnection(innov, 0, testOutput, 0.5, true)
	b := g.AddConnection(innov, 1, testOutput, -0.5, false)

	assert.Equal(t, 5, a.Innovation)
	assert.Equal(t, 6, b.Innovation)
	assert.False(t, b.Enabled)
	assert.Equal(t, 6, g.MaxInnovation())
	assert.Equal(t, 0, NewGenome(&testConfig().Genome).MaxInnovation())
}

func TestBreedInheritsUnmatchedFromFitterParent(t *testing.T) {
	config := &testConfig().Genome
	fit := genomeWith(config,
		gene(1, 0, testOutput, 1, true),
		gene(2, 1, testOutput, 1, true),
		gene(3, 2, testOutput, 1, true),
	)
	fit.Fitness = 2
	weak := genomeWith(config,
		gene(1, 0, testOutput, -1, true),
		gene(4, 0, 3, -1, true),
	)
	weak.Fitness = 1

	for seed := int64(0); seed < 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		assert.Equal(t, []int{1, 2, 3}, innovations(Breed(rng, fit, weak)))
		// Argument order does not matter.
		assert.Equal(t, []int{1, 2, 3}, innovations(Breed(rng, weak, fit)))
	}
}

func TestBreedMatchingGenesComeFromEitherParent(t *testing.T) {
	config := &testConfig().Genome
	p1 := genomeWith(config, gene(1, 0, testOutput, 1, true))
	p1.Fitness = 2
	p2 := genomeWith(config, gene(1, 0, testOutput, -1, true))
	p2.Fitness = 1

	seen := map[float64]int{}
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		child := Breed(rng, p1, p2)
		require.Len(t, child.Connections, 1)
		seen[child.Connections[0].Weight]++
	}
	assert.Greater(t, seen[1], 0)
	assert.Greater(t, seen[-1], 0)

	// Child genes are copies.
	child := Breed(rng, p1, p2)
	child.Connections[0].Weight = 42
	assert.Equal(t, 1.0, p1.Connections[0].Weight)
	assert.Equal(t, -1.0, p2.Connections[0].Weight)
}

func TestBreedEqualFitnessMixesUnmatchedGenes(t *testing.T) {
	config := &testConfig().Genome
	p1 := genomeWith(config,
		gene(1, 0, testOutput, 1, true),
		gene(2, 1, testOutput, 1, true),
	)
	p2 := genomeWith(config,
		gene(1, 0, testOutput, 1, true),
		gene(3, 2, testOutput, 1, true),
	)

	counts := map[int]int{}
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 400; i++ {
		child := Breed(rng, p1, p2)
		for _, innov := range innovations(child) {
			counts[innov]++
		}
		assert.IsIncreasing(t, append([]int{0}, innovations(child)...))
	}
	assert.Equal(t, 400, counts[1])
	assert.InDelta(t, 200, counts[2], 50)
	assert.InDelta(t, 200, counts[3], 50)
}

func TestBreedDisablesMismatchedGenesMostly(t *testing.T) {
	config := &testConfig().Genome
	p1 := genomeWith(config, gene(1, 0, testOutput, 1, false))
	p1.Fitness = 2
	p2 := genomeWith(config, gene(1, 0, testOutput, 1, true))
	p2.Fitness = 1

	const trials = 4000
	enabled := 0
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < trials; i++ {
		if Breed(rng, p1, p2).Connections[0].Enabled {
			enabled++
		}
	}
	assert.InDelta(t, 0.25, float64(enabled)/trials, 0.03)
}

func TestBreedResetsChildState(t *testing.T) {
	config := &testConfig().Genome
	p1 := genomeWith(config, gene(1, 0, testOutput, 1, true))
	p1.Fitness = 4
	p1.Rates.Steps = 3
	p2 := p1.Copy()

	child := Breed(rand.New(rand.NewSource(1)), p1, p2)
	assert.Equal(t, 0.0, child.Fitness)
	assert.Equal(t, DefaultMutationRates(config), child.Rates)
}

func TestDistanceReflexiveAndSymmetric(t *testing.T) {
	c := testConfig()
	a := genomeWith(&c.Genome,
		gene(1, 0, testOutput, 0.5, true),
		gene(2, 1, testOutput, 1.5, true),
		gene(5, 0, 3, 1, true),
	)
	b := genomeWith(&c.Genome,
		gene(1, 0, testOutput, -0.5, true),
		gene(3, 2, testOutput, 0.1, true),
	)

	assert.Equal(t, 0.0, Distance(a, a, &c.SpeciesSet))
	assert.Equal(t, Distance(a, b, &c.SpeciesSet), Distance(b, a, &c.SpeciesSet))
	assert.True(t, IsSameSpecies(a, a.Copy(), &c.SpeciesSet))
}

func TestDistanceSmallWeightChange(t *testing.T) {
	c := testConfig()
	a := genomeWith(&c.Genome,
		gene(1, 0, testOutput, 0.5, true),
		gene(2, 1, testOutput, 1.5, true),
	)
	b := a.Copy()
	for _, cg := range b.Connections {
		cg.Weight += 0.01
	}

	assert.InDelta(t, 0.4*0.01, Distance(a, b, &c.SpeciesSet), 1e-12)
	assert.True(t, IsSameSpecies(a, b, &c.SpeciesSet))
}

func TestDistanceClassifiesDisjointAndExcess(t *testing.T) {
	c := testConfig()
	c.SpeciesSet.ExcessCoefficient = 3
	c.SpeciesSet.DisjointCoefficient = 1

	a := genomeWith(&c.Genome,
		gene(1, 0, testOutput, 0.5, true),
		gene(2, 1, testOutput, 1, true),
		gene(3, 2, testOutput, 1, true),
	)
	b := genomeWith(&c.Genome,
		gene(1, 0, testOutput, 1, true),
		gene(4, 0, 3, 1, true),
	)

	// Lower max innovation is 3: gene 2 is disjoint, genes 3 and 4 are excess.
	want := (3.0*2+1.0*1)/4 + 0.4*0.5/1
	assert.InDelta(t, want, Distance(a, b, &c.SpeciesSet), 1e-12)
	assert.False(t, IsSameSpecies(a, b, &c.SpeciesSet))
}

func TestDistanceWithoutMatchingGenes(t *testing.T) {
	c := testConfig()
	a := genomeWith(&c.Genome, gene(1, 0, testOutput, 1, true))
	b := genomeWith(&c.Genome, gene(2, 1, testOutput, 1, true))

	assert.Equal(t, 2.0, Distance(a, b, &c.SpeciesSet))
}

func TestDistanceAgainstEmptyGenome(t *testing.T) {
	c := testConfig()
	empty := NewGenome(&c.Genome)
	a := genomeWith(&c.Genome,
		gene(1, 0, testOutput, 1, true),
		gene(2, 1, testOutput, 1, true),
	)

	assert.Equal(t, 0.0, Distance(empty, NewGenome(&c.Genome), &c.SpeciesSet))
	assert.Equal(t, 2.0, Distance(empty, a, &c.SpeciesSet))
	assert.True(t, IsSameSpecies(empty, NewGenome(&c.Genome), &c.SpeciesSet))
}

func TestInnovation(t *testing.T) {
	in := NewInnovation(0)
	assert.Equal(t, 0, in.Current())
	assert.Equal(t, 1, in.Next())
	assert.Equal(t, 2, in.Next())
	assert.Equal(t, 2, in.Current())

	assert.Equal(t, 11, NewInnovation(10).Next())
}
