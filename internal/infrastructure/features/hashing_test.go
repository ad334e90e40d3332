package features

import (
	"math"
	"testing"
)

func TestHashingExtractor_Deterministic(t *testing.T) {
	extractor := NewHashingExtractor(32)

	input := [][]float64{{0.5, -1.0, 2.0}}
	first := extractor.Embed(input)
	second := extractor.Embed(input)

	for i := range first[0] {
		if first[0][i] != second[0][i] {
			t.Fatalf("embedding not deterministic at dimension %d: %v vs %v", i, first[0][i], second[0][i])
		}
	}
}

func TestHashingExtractor_Dimension(t *testing.T) {
	extractor := NewHashingExtractor(16)

	if extractor.OutputDimension() != 16 {
		t.Errorf("expected output dimension 16, got %d", extractor.OutputDimension())
	}

	embeddings := extractor.Embed([][]float64{{1, 2}, {3, 4}})
	if len(embeddings) != 2 {
		t.Fatalf("expected 2 embeddings, got %d", len(embeddings))
	}
	for _, e := range embeddings {
		if len(e) != 16 {
			t.Errorf("expected embedding length 16, got %d", len(e))
		}
	}
}

func TestHashingExtractor_DefaultsDimension(t *testing.T) {
	extractor := NewHashingExtractor(0)
	if extractor.OutputDimension() != 64 {
		t.Errorf("expected default dimension 64, got %d", extractor.OutputDimension())
	}
}

func TestHashingExtractor_UnitNorm(t *testing.T) {
	extractor := NewHashingExtractor(24)

	embedding := extractor.Embed([][]float64{{1.0, -0.5, 0.25}})[0]

	var sum float64
	for _, v := range embedding {
		sum += v * v
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("expected unit norm embedding, got squared norm %v", sum)
	}
}

func TestNormalize_ZeroVector(t *testing.T) {
	v := []float64{0, 0, 0}
	result := Normalize(v)

	for i, val := range result {
		if val != 0 {
			t.Errorf("expected zero at %d, got %v", i, val)
		}
	}
}

func TestSquaredDistance(t *testing.T) {
	a := []float64{0, 0}
	b := []float64{3, 4}

	if got := SquaredDistance(a, b); got != 25 {
		t.Errorf("expected squared distance 25, got %v", got)
	}
	if got := SquaredDistance(a, a); got != 0 {
		t.Errorf("expected zero self distance, got %v", got)
	}
}

func TestMean(t *testing.T) {
	vectors := [][]float64{{1, 2}, {3, 4}}

	mean := Mean(vectors)
	if mean[0] != 2 || mean[1] != 3 {
		t.Errorf("expected mean [2 3], got %v", mean)
	}

	if Mean(nil) != nil {
		t.Error("expected nil mean for empty input")
	}
}
