// Package shared provides shared types used across all modules in inclearn-go.
package shared

import (
	"fmt"
)

// ============================================================================
// Optimization Types
// ============================================================================

// OptimizerConfig holds hyperparameters for the stochastic gradient optimizer
// bound to the classifier head at each task boundary.
type OptimizerConfig struct {
	// LearningRate is the initial step size.
	LearningRate float64 `json:"learningRate"`

	// Momentum is the momentum coefficient (0 disables momentum).
	Momentum float64 `json:"momentum"`

	// WeightDecay is the L2 penalty applied to head weights.
	WeightDecay float64 `json:"weightDecay"`
}

// DefaultOptimizerConfig returns the default optimizer configuration.
func DefaultOptimizerConfig() OptimizerConfig {
	return OptimizerConfig{
		LearningRate: 2.0,
		Momentum:     0.9,
		WeightDecay:  0.00005,
	}
}

// Validate checks the optimizer configuration for invalid values.
func (c OptimizerConfig) Validate() error {
	if c.LearningRate <= 0 {
		return fmt.Errorf("learning rate must be positive, got %v", c.LearningRate)
	}
	if c.Momentum < 0 || c.Momentum >= 1 {
		return fmt.Errorf("momentum must be in [0, 1), got %v", c.Momentum)
	}
	if c.WeightDecay < 0 {
		return fmt.Errorf("weight decay must be non-negative, got %v", c.WeightDecay)
	}
	return nil
}

// SchedulerConfig holds the multi-step learning-rate schedule, stepped once
// per epoch.
type SchedulerConfig struct {
	// Milestones are the epoch indices at which the learning rate decays.
	Milestones []int `json:"milestones"`

	// Gamma is the multiplicative decay applied at each milestone.
	Gamma float64 `json:"gamma"`
}

// DefaultSchedulerConfig returns the default schedule configuration.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Milestones: []int{49, 63},
		Gamma:      0.2,
	}
}

// Validate checks the scheduler configuration for invalid values.
func (c SchedulerConfig) Validate() error {
	if c.Gamma <= 0 || c.Gamma > 1 {
		return fmt.Errorf("scheduler gamma must be in (0, 1], got %v", c.Gamma)
	}
	previous := -1
	for _, milestone := range c.Milestones {
		if milestone < 0 {
			return fmt.Errorf("scheduler milestone must be non-negative, got %d", milestone)
		}
		if milestone <= previous {
			return fmt.Errorf("scheduler milestones must be strictly increasing")
		}
		previous = milestone
	}
	return nil
}

// ============================================================================
// Checkpoint Types
// ============================================================================

// CheckpointBackend identifies a checkpoint store implementation.
type CheckpointBackend string

const (
	CheckpointBackendSQLite   CheckpointBackend = "sqlite"
	CheckpointBackendPostgres CheckpointBackend = "postgres"
)
