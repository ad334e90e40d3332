package optim

import (
	"github.com/SmallPigPeppa/PODNet/internal/shared"
)

// MultiStepSchedule decays the optimizer learning rate by gamma at fixed
// epoch milestones. Step is called once per epoch, at epoch start.
type MultiStepSchedule struct {
	config    shared.SchedulerConfig
	optimizer Optimizer
	epoch     int
	baseLR    float64
}

// NewMultiStepSchedule binds a schedule to an optimizer.
func NewMultiStepSchedule(config shared.SchedulerConfig, optimizer Optimizer) *MultiStepSchedule {
	return &MultiStepSchedule{
		config:    config,
		optimizer: optimizer,
		baseLR:    optimizer.LearningRate(),
	}
}

// Epoch returns the number of schedule steps taken so far.
func (m *MultiStepSchedule) Epoch() int {
	return m.epoch
}

// Step advances the schedule by one epoch, decaying the learning rate when
// the new epoch index crosses a milestone.
func (m *MultiStepSchedule) Step() {
	m.epoch++

	lr := m.baseLR
	for _, milestone := range m.config.Milestones {
		if m.epoch > milestone {
			lr *= m.config.Gamma
		}
	}
	m.optimizer.SetLearningRate(lr)
}
