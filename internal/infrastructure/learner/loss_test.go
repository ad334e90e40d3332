package learner

import (
	"math"
	"testing"
)

func TestLossComposer_FirstTaskHasZeroDistillation(t *testing.T) {
	composer := NewLossComposer(nil)

	logits := [][]float64{{2.0, -1.0}, {-0.5, 0.5}}
	targets := [][]float64{{1, 0}, {0, 1}}

	clf, distil, grad, err := composer.Compose(logits, targets, []int{0, 1}, true, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if distil != 0 {
		t.Errorf("expected zero distillation loss on first task, got %v", distil)
	}
	if clf <= 0 {
		t.Errorf("expected positive classification loss, got %v", clf)
	}
	if len(grad) != 2 || len(grad[0]) != 2 {
		t.Errorf("expected gradient shaped like logits, got %dx%d", len(grad), len(grad[0]))
	}
}

func TestLossComposer_FirstTaskLossValue(t *testing.T) {
	composer := NewLossComposer(nil)

	// Logit 0 against target 0.5 gives BCE of exactly ln(2) per element.
	logits := [][]float64{{0, 0}}
	targets := [][]float64{{0.5, 0.5}}

	clf, _, _, err := composer.Compose(logits, targets, []int{0}, true, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(clf-math.Ln2) > 1e-12 {
		t.Errorf("expected loss ln(2), got %v", clf)
	}
}

func TestLossComposer_LaterTaskSplitsColumns(t *testing.T) {
	cache := NewPredictionCache()
	cache.PutTrain(7, []float64{0.9, 0.1})

	composer := NewLossComposer(cache)

	// Columns 0-1 are old classes, columns 2-3 the new task.
	logits := [][]float64{{4.0, -4.0, 1.0, -1.0}}
	targets := [][]float64{{0, 0, 1, 0}}

	clf, distil, grad, err := composer.Compose(logits, targets, []int{7}, true, 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !CheckLoss(clf) || !CheckLoss(distil) {
		t.Fatalf("expected valid losses, got clf=%v distil=%v", clf, distil)
	}
	if distil <= 0 {
		t.Errorf("expected positive distillation loss, got %v", distil)
	}

	// Aligned logits and soft targets: sigmoid(4) is close to 0.9, so the
	// old-column gradient should be small but non-zero.
	if grad[0][0] == 0 || grad[0][2] == 0 {
		t.Error("expected gradient on both old and new columns")
	}
}

func TestLossComposer_MissingCachedPrediction(t *testing.T) {
	composer := NewLossComposer(NewPredictionCache())

	logits := [][]float64{{1.0, 1.0}}
	targets := [][]float64{{0, 1}}

	if _, _, _, err := composer.Compose(logits, targets, []int{42}, true, 1, 1); err == nil {
		t.Error("expected error for missing cached prediction")
	}
}

func TestLossComposer_SeparateValidationCache(t *testing.T) {
	cache := NewPredictionCache()
	cache.PutTrain(1, []float64{0.5})
	cache.PutVal(1, []float64{0.5})

	composer := NewLossComposer(cache)
	logits := [][]float64{{0.0, 2.0}}
	targets := [][]float64{{0, 1}}

	if _, _, _, err := composer.Compose(logits, targets, []int{1}, true, 1, 1); err != nil {
		t.Errorf("train lookup failed: %v", err)
	}
	if _, _, _, err := composer.Compose(logits, targets, []int{1}, false, 1, 1); err != nil {
		t.Errorf("validation lookup failed: %v", err)
	}
}

func TestLossComposer_EmptyBatch(t *testing.T) {
	composer := NewLossComposer(nil)

	if _, _, _, err := composer.Compose(nil, nil, nil, true, 0, 0); err == nil {
		t.Error("expected error for empty batch")
	}
}

func TestCheckLoss(t *testing.T) {
	if !CheckLoss(0) {
		t.Error("zero loss should be valid")
	}
	if !CheckLoss(1.5) {
		t.Error("positive finite loss should be valid")
	}
	if CheckLoss(-0.001) {
		t.Error("negative loss should be invalid")
	}
	if CheckLoss(math.NaN()) {
		t.Error("NaN loss should be invalid")
	}
	if CheckLoss(math.Inf(1)) {
		t.Error("infinite loss should be invalid")
	}
}

func TestLossComposer_CorruptedLogitsProduceInvalidLoss(t *testing.T) {
	composer := NewLossComposer(nil)

	logits := [][]float64{{math.Inf(1), 0}}
	targets := [][]float64{{1, 0}}

	clf, _, _, err := composer.Compose(logits, targets, []int{0}, true, 0, 0)
	if err != nil {
		t.Fatalf("composer itself performs no validity filtering: %v", err)
	}
	if CheckLoss(clf) {
		t.Errorf("expected CheckLoss to reject corrupted loss, got %v", clf)
	}
}

func TestSigmoid(t *testing.T) {
	if sigmoid(0) != 0.5 {
		t.Errorf("expected sigmoid(0)=0.5, got %v", sigmoid(0))
	}
	if s := sigmoid(40); s <= 0.999 {
		t.Errorf("expected sigmoid(40) near 1, got %v", s)
	}
	if s := sigmoid(-40); s >= 0.001 {
		t.Errorf("expected sigmoid(-40) near 0, got %v", s)
	}
}
