package learner

import "testing"

func TestNewLinearHead_Shape(t *testing.T) {
	head := NewLinearHead(8, 4, 1)

	if head.NClasses() != 4 {
		t.Errorf("expected 4 classes, got %d", head.NClasses())
	}
	if head.InputDimension() != 8 {
		t.Errorf("expected input dimension 8, got %d", head.InputDimension())
	}
	for i, row := range head.Weights() {
		if len(row) != 8 {
			t.Errorf("expected row %d of length 8, got %d", i, len(row))
		}
	}
}

func TestLinearHead_Forward(t *testing.T) {
	head := NewLinearHead(2, 2, 1)
	head.Weights()[0] = []float64{1, 0}
	head.Weights()[1] = []float64{0, -1}

	logits := head.Forward([][]float64{{3, 5}})

	if logits[0][0] != 3 {
		t.Errorf("expected logit 3, got %v", logits[0][0])
	}
	if logits[0][1] != -5 {
		t.Errorf("expected logit -5, got %v", logits[0][1])
	}
}

func TestLinearHead_GrowPreservesOldRows(t *testing.T) {
	head := NewLinearHead(4, 2, 7)
	before := head.CloneWeights()

	grown, err := head.Grow(2, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if grown.NClasses() != 4 {
		t.Fatalf("expected 4 classes after growth, got %d", grown.NClasses())
	}
	for i := 0; i < 2; i++ {
		for j := range before[i] {
			if grown.Weights()[i][j] != before[i][j] {
				t.Fatalf("old row %d changed at column %d: %v vs %v", i, j, grown.Weights()[i][j], before[i][j])
			}
		}
	}
}

func TestLinearHead_GrowNoAliasing(t *testing.T) {
	head := NewLinearHead(4, 2, 7)

	grown, err := head.Grow(1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	grown.Weights()[0][0] = 123
	if head.Weights()[0][0] == 123 {
		t.Error("grown head must not alias the old head's storage")
	}
}

func TestLinearHead_GrowWithSeedRows(t *testing.T) {
	head := NewLinearHead(2, 1, 7)
	seed := [][]float64{{0.5, -0.5}}

	grown, err := head.Grow(1, seed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if grown.Weights()[1][0] != 0.5 || grown.Weights()[1][1] != -0.5 {
		t.Errorf("expected seeded row, got %v", grown.Weights()[1])
	}

	// Seed rows are copied, not aliased.
	seed[0][0] = 99
	if grown.Weights()[1][0] == 99 {
		t.Error("seed row must be copied into the new head")
	}
}

func TestLinearHead_GrowRejectsBadArguments(t *testing.T) {
	head := NewLinearHead(2, 1, 7)

	if _, err := head.Grow(0, nil); err == nil {
		t.Error("expected error for zero task size")
	}
	if _, err := head.Grow(2, [][]float64{{1, 2}}); err == nil {
		t.Error("expected error for seed row count mismatch")
	}
}
