package learner

import (
	"fmt"

	"github.com/SmallPigPeppa/PODNet/internal/shared"
)

// Config configures the class-incremental learner.
type Config struct {
	// MemorySize is the global exemplar budget across all classes.
	MemorySize int `json:"memorySize"`

	// Increment is the number of classes introduced by each task.
	Increment int `json:"increment"`

	// Epochs is the number of training epochs per task.
	Epochs int `json:"epochs"`

	// WeightGeneration selects the head-growth policy.
	WeightGeneration WeightGenerationConfig `json:"weightGeneration"`

	// Seed drives head initialization and proxy sampling. Zero selects a
	// time-based seed.
	Seed int64 `json:"seed,omitempty"`

	// Optimizer is the per-task optimizer configuration.
	Optimizer shared.OptimizerConfig `json:"optimizer"`

	// Scheduler is the per-task learning-rate schedule.
	Scheduler shared.SchedulerConfig `json:"scheduler"`
}

// DefaultConfig returns the default learner configuration.
func DefaultConfig() Config {
	return Config{
		MemorySize:       2000,
		Increment:        10,
		Epochs:           70,
		WeightGeneration: DefaultWeightGenerationConfig(),
		Optimizer:        shared.DefaultOptimizerConfig(),
		Scheduler:        shared.DefaultSchedulerConfig(),
	}
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if c.MemorySize <= 0 {
		return fmt.Errorf("memory size must be positive, got %d", c.MemorySize)
	}
	if c.Increment <= 0 {
		return fmt.Errorf("increment must be positive, got %d", c.Increment)
	}
	if c.Epochs <= 0 {
		return fmt.Errorf("epochs must be positive, got %d", c.Epochs)
	}
	if err := c.WeightGeneration.Validate(); err != nil {
		return err
	}
	if err := c.Optimizer.Validate(); err != nil {
		return err
	}
	return c.Scheduler.Validate()
}
