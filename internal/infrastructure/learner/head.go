// Package learner provides the class-incremental learning infrastructure.
package learner

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/SmallPigPeppa/PODNet/internal/shared"
)

// LinearHead is a bias-free linear classifier over embedding space, one
// weight row per class. Growth is pure construction: a new head is built,
// old rows are copied in, and the old storage is discarded.
type LinearHead struct {
	inputDim int
	weights  [][]float64
	rng      *rand.Rand
}

// NewLinearHead creates a head with Kaiming-normal initialized rows.
func NewLinearHead(inputDim, nClasses int, seed int64) *LinearHead {
	head := &LinearHead{
		inputDim: inputDim,
		rng:      rand.New(rand.NewSource(seed)),
	}
	head.weights = make([][]float64, nClasses)
	for i := range head.weights {
		head.weights[i] = head.freshRow()
	}
	return head
}

// freshRow samples one Kaiming-normal row: std = sqrt(2 / fan_in).
func (h *LinearHead) freshRow() []float64 {
	std := math.Sqrt(2.0 / float64(h.inputDim))
	row := make([]float64, h.inputDim)
	for i := range row {
		row[i] = h.rng.NormFloat64() * std
	}
	return row
}

// InputDimension returns the embedding dimension the head consumes.
func (h *LinearHead) InputDimension() int {
	return h.inputDim
}

// NClasses returns the number of output classes.
func (h *LinearHead) NClasses() int {
	return len(h.weights)
}

// Weights returns the live weight matrix. The optimizer mutates it in place
// during training; no other phase may write to it.
func (h *LinearHead) Weights() [][]float64 {
	return h.weights
}

// CloneWeights returns a value copy of the weight matrix.
func (h *LinearHead) CloneWeights() [][]float64 {
	return shared.CloneFloat64Matrix(h.weights)
}

// Forward computes logits for a batch of embeddings.
func (h *LinearHead) Forward(embeddings [][]float64) [][]float64 {
	logits := make([][]float64, len(embeddings))
	for i, embedding := range embeddings {
		out := make([]float64, len(h.weights))
		for c, row := range h.weights {
			var total float64
			for j := 0; j < len(row) && j < len(embedding); j++ {
				total += row[j] * embedding[j]
			}
			out[c] = total
		}
		logits[i] = out
	}
	return logits
}

// Grow returns a new head with taskSize extra classes. Rows for existing
// classes are copied from the receiver; new rows come from newRows when
// provided (one per new class) and are freshly initialized otherwise.
func (h *LinearHead) Grow(taskSize int, newRows [][]float64) (*LinearHead, error) {
	if taskSize <= 0 {
		return nil, fmt.Errorf("head growth requires a positive task size, got %d", taskSize)
	}
	if newRows != nil && len(newRows) != taskSize {
		return nil, fmt.Errorf("expected %d seed rows, got %d", taskSize, len(newRows))
	}

	grown := &LinearHead{
		inputDim: h.inputDim,
		rng:      h.rng,
		weights:  make([][]float64, len(h.weights)+taskSize),
	}

	for i, row := range h.weights {
		grown.weights[i] = shared.CloneFloat64Slice(row)
	}
	for i := 0; i < taskSize; i++ {
		if newRows != nil {
			grown.weights[len(h.weights)+i] = shared.CloneFloat64Slice(newRows[i])
		} else {
			grown.weights[len(h.weights)+i] = grown.freshRow()
		}
	}

	return grown, nil
}
