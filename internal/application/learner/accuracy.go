// Package learner provides application services for class-incremental learning.
package learner

import (
	"fmt"
	"math"
)

// AccuracyReport summarizes eval-task results: total accuracy plus accuracy
// per task-sized class bucket, labeled "lo-hi" with zero-padded bounds.
type AccuracyReport struct {
	// Total is the overall accuracy over the evaluation set.
	Total float64 `json:"total"`

	// PerBucket maps a class-range label to its accuracy.
	PerBucket map[string]float64 `json:"perBucket"`
}

// ComputeAccuracy builds an accuracy report from parallel predicted and true
// label slices, bucketing classes by taskSize.
func ComputeAccuracy(ypred, ytrue []int, taskSize int) (AccuracyReport, error) {
	if len(ypred) != len(ytrue) {
		return AccuracyReport{}, fmt.Errorf("prediction and truth lengths disagree: %d vs %d", len(ypred), len(ytrue))
	}
	if len(ytrue) == 0 {
		return AccuracyReport{}, fmt.Errorf("cannot compute accuracy over an empty evaluation set")
	}
	if taskSize <= 0 {
		return AccuracyReport{}, fmt.Errorf("task size must be positive, got %d", taskSize)
	}

	report := AccuracyReport{PerBucket: make(map[string]float64)}

	correct := 0
	maxClass := 0
	for i := range ytrue {
		if ypred[i] == ytrue[i] {
			correct++
		}
		if ytrue[i] > maxClass {
			maxClass = ytrue[i]
		}
	}
	report.Total = round3(float64(correct) / float64(len(ytrue)))

	for lo := 0; lo <= maxClass; lo += taskSize {
		hi := lo + taskSize
		bucketCorrect, bucketTotal := 0, 0
		for i, truth := range ytrue {
			if truth >= lo && truth < hi {
				bucketTotal++
				if ypred[i] == truth {
					bucketCorrect++
				}
			}
		}
		if bucketTotal == 0 {
			continue
		}
		label := fmt.Sprintf("%02d-%02d", lo, hi-1)
		report.PerBucket[label] = round3(float64(bucketCorrect) / float64(bucketTotal))
	}

	return report, nil
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
