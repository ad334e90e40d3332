package learner

import (
	"fmt"

	domainLearner "github.com/SmallPigPeppa/PODNet/internal/domain/learner"
	"github.com/SmallPigPeppa/PODNet/internal/infrastructure/features"
)

// NearestMeanClassifier assigns a sample to the class whose stored mean
// embedding is closest in squared Euclidean distance, bypassing the trained
// classifier head.
type NearestMeanClassifier struct {
	means [][]float64
}

// NewNearestMeanClassifier validates the stored class means and builds a
// classifier over them. Means must exist for exactly nClasses classes.
func NewNearestMeanClassifier(means [][]float64, nClasses int) (*NearestMeanClassifier, error) {
	if len(means) == 0 {
		return nil, fmt.Errorf("%w: have you forgotten to call AfterTask?", domainLearner.ErrUninitializedClassifier)
	}
	if len(means) != nClasses {
		return nil, fmt.Errorf("%w: %d means for %d classes", domainLearner.ErrClassMeanCountMismatch, len(means), nClasses)
	}
	for classID, mean := range means {
		if mean == nil {
			return nil, fmt.Errorf("%w: class %d has no mean", domainLearner.ErrClassMeanCountMismatch, classID)
		}
	}

	return &NearestMeanClassifier{means: means}, nil
}

// Predict returns the class id of the nearest mean. Ties resolve to the
// lowest class id as a deterministic first-match argmin.
func (n *NearestMeanClassifier) Predict(embedding []float64) int {
	best := 0
	bestDist := features.SquaredDistance(n.means[0], embedding)

	for classID := 1; classID < len(n.means); classID++ {
		if dist := features.SquaredDistance(n.means[classID], embedding); dist < bestDist {
			best, bestDist = classID, dist
		}
	}
	return best
}

// PredictBatch classifies a batch of embeddings.
func (n *NearestMeanClassifier) PredictBatch(embeddings [][]float64) []int {
	predictions := make([]int, len(embeddings))
	for i, embedding := range embeddings {
		predictions[i] = n.Predict(embedding)
	}
	return predictions
}
