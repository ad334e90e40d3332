package learner

import (
	"fmt"
	"math"
)

// PredictionCache holds the frozen sigmoid predictions of the pre-task model
// snapshot, keyed by sample identifier. Train and validation partitions keep
// independent caches so their identifier spaces may overlap freely.
type PredictionCache struct {
	train map[int][]float64
	val   map[int][]float64
}

// NewPredictionCache creates an empty cache.
func NewPredictionCache() *PredictionCache {
	return &PredictionCache{
		train: make(map[int][]float64),
		val:   make(map[int][]float64),
	}
}

// PutTrain stores a training-partition prediction vector.
func (p *PredictionCache) PutTrain(id int, preds []float64) {
	p.train[id] = preds
}

// PutVal stores a validation-partition prediction vector.
func (p *PredictionCache) PutVal(id int, preds []float64) {
	p.val[id] = preds
}

// Lookup returns the cached vector for a sample in the selected partition.
func (p *PredictionCache) Lookup(id int, train bool) ([]float64, bool) {
	if train {
		preds, ok := p.train[id]
		return preds, ok
	}
	preds, ok := p.val[id]
	return preds, ok
}

// LossComposer produces the combined classification and distillation loss
// for the current task. It performs no validity filtering; invalid values
// are the caller's responsibility to detect.
type LossComposer struct {
	cache *PredictionCache
}

// NewLossComposer creates a composer. The cache is nil for the first task.
func NewLossComposer(cache *PredictionCache) *LossComposer {
	return &LossComposer{cache: cache}
}

// Compose computes the classification and distillation losses and the
// gradient of their sum with respect to the logits.
//
// For the first task the classification loss is binary cross-entropy with
// logits over every column and the distillation loss is exactly zero. For
// later tasks classification covers columns [newTaskIndex, nClasses) and
// distillation trains columns [0, newTaskIndex) against the cached sigmoid
// targets, which are consumed as-is and never re-activated.
func (l *LossComposer) Compose(logits, targets [][]float64, ids []int, train bool, taskIndex, newTaskIndex int) (clfLoss, distilLoss float64, gradient [][]float64, err error) {
	if len(logits) == 0 {
		return 0, 0, nil, fmt.Errorf("cannot compose loss over an empty batch")
	}

	gradient = make([][]float64, len(logits))
	for i := range gradient {
		gradient[i] = make([]float64, len(logits[i]))
	}

	if taskIndex == 0 {
		clfLoss = bceWithLogits(logits, targets, 0, len(logits[0]), gradient)
		return clfLoss, 0, gradient, nil
	}

	if l.cache == nil {
		return 0, 0, nil, fmt.Errorf("no prediction cache available for task %d", taskIndex)
	}

	clfLoss = bceWithLogits(logits, targets, newTaskIndex, len(logits[0]), gradient)

	cached := make([][]float64, len(ids))
	for i, id := range ids {
		preds, ok := l.cache.Lookup(id, train)
		if !ok {
			return 0, 0, nil, fmt.Errorf("no cached prediction for sample %d", id)
		}
		cached[i] = preds
	}
	distilLoss = bceWithLogits(logits, cached, 0, newTaskIndex, gradient)

	return clfLoss, distilLoss, gradient, nil
}

// bceWithLogits computes mean binary cross-entropy with logits over the
// column range [lo, hi), accumulating d(loss)/d(logit) into gradient.
func bceWithLogits(logits, targets [][]float64, lo, hi int, gradient [][]float64) float64 {
	count := len(logits) * (hi - lo)
	if count <= 0 {
		return 0
	}

	var total float64
	scale := 1.0 / float64(count)
	for i, row := range logits {
		for c := lo; c < hi && c < len(row); c++ {
			z := row[c]
			var t float64
			if c < len(targets[i]) {
				t = targets[i][c]
			}

			// Numerically stable: max(z, 0) - z*t + log(1 + exp(-|z|))
			loss := math.Max(z, 0) - z*t + math.Log1p(math.Exp(-math.Abs(z)))
			total += loss
			gradient[i][c] += (sigmoid(z) - t) * scale
		}
	}
	return total * scale
}

// sigmoid is the numerically stable logistic function.
func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1.0 / (1.0 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1.0 + e)
}

// CheckLoss reports whether a loss value is valid: finite and non-negative.
func CheckLoss(loss float64) bool {
	return !math.IsNaN(loss) && !math.IsInf(loss, 0) && loss >= 0
}
