package features

import (
	"encoding/binary"
	"hash/fnv"
	"math"
)

// HashingExtractor generates embeddings using a hash-based random projection.
// This is a deterministic stand-in for a trained backbone: each output
// dimension projects the input through pseudo-random weights derived from
// FNV-1a hashes, so equal inputs always produce equal embeddings.
type HashingExtractor struct {
	dimension int
	training  bool
}

// NewHashingExtractor creates a new hashing extractor.
func NewHashingExtractor(dimension int) *HashingExtractor {
	if dimension <= 0 {
		dimension = 64
	}
	return &HashingExtractor{
		dimension: dimension,
	}
}

// OutputDimension returns the embedding dimensionality.
func (h *HashingExtractor) OutputDimension() int {
	return h.dimension
}

// SetTraining toggles training mode. The hashing extractor has no trainable
// state, so the flag only records the requested mode.
func (h *HashingExtractor) SetTraining(training bool) {
	h.training = training
}

// Embed maps a batch of inputs to unit-normalized embeddings.
func (h *HashingExtractor) Embed(inputs [][]float64) [][]float64 {
	embeddings := make([][]float64, len(inputs))
	for i, input := range inputs {
		embeddings[i] = h.embedOne(input)
	}
	return embeddings
}

func (h *HashingExtractor) embedOne(input []float64) []float64 {
	embedding := make([]float64, h.dimension)

	if len(input) == 0 {
		return embedding
	}

	for i := 0; i < h.dimension; i++ {
		var total float64
		for j, value := range input {
			total += value * projectionWeight(i, j)
		}
		embedding[i] = math.Tanh(total)
	}

	return Normalize(embedding)
}

// projectionWeight derives a pseudo-random weight in [-1, 1] for the
// (dimension, input) pair from an FNV-1a hash.
func projectionWeight(dim, idx int) float64 {
	hasher := fnv.New64a()
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(dim))
	binary.LittleEndian.PutUint64(buf[8:], uint64(idx))
	hasher.Write(buf[:])
	hashVal := hasher.Sum64()

	return (float64(hashVal)/float64(math.MaxUint64))*2.0 - 1.0
}
