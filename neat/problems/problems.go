// Package problems provides fitness environments for small benchmark tasks.
//
// Each environment scores a genome as the square of the summed closeness
// (1 - |expected - output|) over the task's samples, so a perfect genome
// scores len(samples)².
package problems

import (
	"errors"
	"fmt"
	"math"

	"github.com/baldhumanity/neat-genepool/neat"
)

// Sample is one input vector with the expected first output.
type Sample struct {
	Inputs   []float64
	Expected float64
}

// Score evaluates g on every sample and returns the squared summed closeness.
func Score(g *neat.Genome, samples []Sample) (float64, error) {
	closeness := 0.0
	for _, s := range samples {
		out, err := g.EvaluateNetwork(s.Inputs)
		if err != nil {
			return 0, err
		}
		if len(out) == 0 {
			return 0, errors.New("network produced no output")
		}
		closeness += 1 - math.Abs(s.Expected-out[0])
	}
	return closeness * closeness, nil
}

// MaxScore is the score of a genome that reproduces every sample exactly.
func MaxScore(samples []Sample) float64 {
	n := float64(len(samples))
	return n * n
}

// Correctness expresses points as a percentage of maxPoints.
func Correctness(points, maxPoints float64) float64 {
	return 100 - 100*(maxPoints-points)/maxPoints
}

func evaluate(genomes []*neat.Genome, samples []Sample) error {
	for _, g := range genomes {
		g.Fitness = 0
		fitness, err := Score(g, samples)
		if err != nil {
			return fmt.Errorf("failed to score genome: %w", err)
		}
		g.Fitness = fitness
	}
	return nil
}

// XOR asks for the exclusive or of two binary inputs. It needs a config
// with two inputs.
type XOR struct{}

// XORSamples are the four rows of the XOR truth table.
var XORSamples = []Sample{
	{Inputs: []float64{0, 0}, Expected: 0},
	{Inputs: []float64{0, 1}, Expected: 1},
	{Inputs: []float64{1, 0}, Expected: 1},
	{Inputs: []float64{1, 1}, Expected: 0},
}

// Evaluate implements neat.Environment.
func (XOR) Evaluate(genomes []*neat.Genome) error {
	return evaluate(genomes, XORSamples)
}

// Quadratic asks for y = x² on the integers in [-2, 2], with the target
// scaled by 1/4 to fit the sigmoid's range. It needs a config with one input.
type Quadratic struct{}

// QuadraticSamples returns the samples for x in [-r, r], targets scaled by 1/r².
func QuadraticSamples(r int) []Sample {
	samples := make([]Sample, 0, 2*r+1)
	for x := -r; x <= r; x++ {
		samples = append(samples, Sample{
			Inputs:   []float64{float64(x)},
			Expected: float64(x*x) / float64(r*r),
		})
	}
	return samples
}

// Evaluate implements neat.Environment.
func (Quadratic) Evaluate(genomes []*neat.Genome) error {
	return evaluate(genomes, QuadraticSamples(2))
}

// Generalisation scores g on the wider range [-3, 3] it was not trained on
// and returns the correctness percentage.
func (Quadratic) Generalisation(g *neat.Genome) (float64, error) {
	samples := QuadraticSamples(3)
	score, err := Score(g, samples)
	if err != nil {
		return 0, err
	}
	return Correctness(score, MaxScore(samples)), nil
}
