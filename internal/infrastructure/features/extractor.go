// Package features provides feature-extraction infrastructure for the learner.
package features

import "math"

// Extractor maps input samples to fixed-dimensional embedding vectors.
// Implementations must be deterministic for a given input while in
// evaluation mode.
type Extractor interface {
	// Embed maps a batch of inputs to a batch of embeddings.
	Embed(inputs [][]float64) [][]float64

	// OutputDimension is the embedding dimensionality.
	OutputDimension() int

	// SetTraining toggles training mode. Exemplar selection and
	// classification always run with training disabled.
	SetTraining(training bool)
}

// Normalize returns a unit-length copy of the vector. A zero vector is
// returned unchanged.
func Normalize(v []float64) []float64 {
	var sum float64
	for _, val := range v {
		sum += val * val
	}

	result := make([]float64, len(v))
	if sum == 0 {
		copy(result, v)
		return result
	}

	norm := math.Sqrt(sum)
	for i, val := range v {
		result[i] = val / norm
	}
	return result
}

// SquaredDistance calculates squared Euclidean distance between two vectors.
// Mismatched lengths compare over the shorter prefix.
func SquaredDistance(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var sum float64
	for i := 0; i < n; i++ {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}

// Mean returns the element-wise mean of a non-empty set of vectors.
func Mean(vectors [][]float64) []float64 {
	if len(vectors) == 0 {
		return nil
	}

	mean := make([]float64, len(vectors[0]))
	for _, v := range vectors {
		for i := 0; i < len(mean) && i < len(v); i++ {
			mean[i] += v[i]
		}
	}
	n := float64(len(vectors))
	for i := range mean {
		mean[i] /= n
	}
	return mean
}
