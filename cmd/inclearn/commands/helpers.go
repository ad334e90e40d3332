package commands

import (
	"github.com/SmallPigPeppa/PODNet/internal/shared"
)

// optimizerConfig builds an optimizer configuration with the given learning
// rate on top of the defaults.
func optimizerConfig(lr float64) shared.OptimizerConfig {
	config := shared.DefaultOptimizerConfig()
	config.LearningRate = lr
	return config
}

// schedulerConfig scales the decay milestones to the epoch count, decaying at
// roughly 70% and 90% of the run.
func schedulerConfig(epochs int) shared.SchedulerConfig {
	config := shared.DefaultSchedulerConfig()
	config.Milestones = []int{epochs * 7 / 10, epochs * 9 / 10}
	if config.Milestones[0] >= config.Milestones[1] {
		config.Milestones = []int{epochs - 1}
	}
	return config
}
