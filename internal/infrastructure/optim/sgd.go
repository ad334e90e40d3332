// Package optim provides optimization infrastructure for the learner.
package optim

import (
	"github.com/SmallPigPeppa/PODNet/internal/shared"
)

// Optimizer applies gradient updates to classifier head weights.
type Optimizer interface {
	// Step updates weights in place using the given gradients. Gradients
	// share the weight matrix shape.
	Step(weights, gradients [][]float64)

	// LearningRate returns the current step size.
	LearningRate() float64

	// SetLearningRate replaces the step size. Used by the schedule.
	SetLearningRate(lr float64)
}

// SGD implements stochastic gradient descent with momentum and weight decay,
// rebuilt at each task boundary so momentum state is bound to the current
// head shape.
type SGD struct {
	config   shared.OptimizerConfig
	lr       float64
	velocity [][]float64
}

// NewSGD creates an SGD optimizer for a head with the given row shapes.
func NewSGD(config shared.OptimizerConfig, weights [][]float64) *SGD {
	velocity := make([][]float64, len(weights))
	for i, row := range weights {
		velocity[i] = make([]float64, len(row))
	}

	return &SGD{
		config:   config,
		lr:       config.LearningRate,
		velocity: velocity,
	}
}

// LearningRate returns the current step size.
func (s *SGD) LearningRate() float64 {
	return s.lr
}

// SetLearningRate replaces the step size.
func (s *SGD) SetLearningRate(lr float64) {
	s.lr = lr
}

// Step applies one momentum-SGD update in place.
func (s *SGD) Step(weights, gradients [][]float64) {
	for i := 0; i < len(weights) && i < len(gradients); i++ {
		row := weights[i]
		grads := gradients[i]
		velocity := s.velocity[i]

		for j := 0; j < len(row) && j < len(grads); j++ {
			grad := grads[j] + s.config.WeightDecay*row[j]
			velocity[j] = s.config.Momentum*velocity[j] + grad
			row[j] -= s.lr * velocity[j]
		}
	}
}
