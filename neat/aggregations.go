package neat

import (
	"fmt"
	"sort"
)

// AggregationType combines the weighted values arriving at a node. Every
// aggregation returns 0 for a node without enabled input links, so such a
// node rests at the activation of 0 whatever the configured aggregation.
type AggregationType func(inputs []float64) float64

// AggregationFunctions maps function names to the actual aggregation functions.
var AggregationFunctions = map[string]AggregationType{
	"sum":     AggregateSum,
	"product": AggregateProduct,
	"min":     AggregateMin,
	"max":     AggregateMax,
	"mean":    AggregateMean,
	"median":  AggregateMedian,
	"average": AggregateMean, // Alias for mean
}

// GetAggregation retrieves an aggregation function by name.
func GetAggregation(name string) (AggregationType, error) {
	if fn, ok := AggregationFunctions[name]; ok {
		return fn, nil
	}
	return nil, fmt.Errorf("unknown aggregation function: %s", name)
}

// AggregateSum calculates the sum of the inputs.
func AggregateSum(inputs []float64) float64 {
	return Sum(inputs)
}

// AggregateProduct calculates the product of the inputs.
func AggregateProduct(inputs []float64) float64 {
	if len(inputs) == 0 {
		return 0.0
	}
	product := 1.0
	for _, v := range inputs {
		product *= v
	}
	return product
}

// AggregateMin finds the minimum value among the inputs.
func AggregateMin(inputs []float64) float64 {
	if len(inputs) == 0 {
		return 0.0
	}
	minVal := inputs[0]
	for _, v := range inputs[1:] {
		if v < minVal {
			minVal = v
		}
	}
	return minVal
}

// AggregateMax finds the maximum value among the inputs.
func AggregateMax(inputs []float64) float64 {
	if len(inputs) == 0 {
		return 0.0
	}
	return MaxFloat(inputs)
}

// AggregateMean calculates the average of the inputs.
func AggregateMean(inputs []float64) float64 {
	return Mean(inputs)
}

// AggregateMedian returns the middle input, or the mean of the two middle
// inputs for an even count. The inputs are not reordered.
func AggregateMedian(inputs []float64) float64 {
	if len(inputs) == 0 {
		return 0.0
	}
	sorted := append([]float64(nil), inputs...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
