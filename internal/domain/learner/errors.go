// Package learner provides domain types for class-incremental learning.
package learner

import "errors"

var (
	// ErrInvalidLoss indicates a classification or distillation loss that is
	// non-finite or negative. Training must halt before the optimizer step.
	ErrInvalidLoss = errors.New("invalid loss value")

	// ErrUninitializedClassifier indicates eval was requested before any
	// class means were built.
	ErrUninitializedClassifier = errors.New("cannot classify without built exemplar means")

	// ErrClassMeanCountMismatch indicates the stored class means disagree
	// with the number of known classes.
	ErrClassMeanCountMismatch = errors.New("exemplar mean count is inconsistent with class count")

	// ErrUnknownWeightGeneration indicates an unrecognized weight-generation
	// policy in the configuration.
	ErrUnknownWeightGeneration = errors.New("unknown weight generation type")

	// ErrPhaseOrder indicates a lifecycle phase was invoked out of order.
	ErrPhaseOrder = errors.New("task phase invoked out of order")
)
