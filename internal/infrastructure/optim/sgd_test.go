package optim

import (
	"math"
	"testing"

	"github.com/SmallPigPeppa/PODNet/internal/shared"
)

func TestSGD_StepMovesAgainstGradient(t *testing.T) {
	config := shared.OptimizerConfig{LearningRate: 0.1, Momentum: 0, WeightDecay: 0}
	weights := [][]float64{{1.0, -1.0}}
	sgd := NewSGD(config, weights)

	sgd.Step(weights, [][]float64{{2.0, -2.0}})

	if math.Abs(weights[0][0]-0.8) > 1e-12 {
		t.Errorf("expected weight 0.8, got %v", weights[0][0])
	}
	if math.Abs(weights[0][1]-(-0.8)) > 1e-12 {
		t.Errorf("expected weight -0.8, got %v", weights[0][1])
	}
}

func TestSGD_MomentumAccumulates(t *testing.T) {
	config := shared.OptimizerConfig{LearningRate: 1.0, Momentum: 0.5, WeightDecay: 0}
	weights := [][]float64{{0.0}}
	sgd := NewSGD(config, weights)

	sgd.Step(weights, [][]float64{{1.0}})
	// velocity = 1, weight = -1
	sgd.Step(weights, [][]float64{{1.0}})
	// velocity = 1.5, weight = -2.5

	if math.Abs(weights[0][0]-(-2.5)) > 1e-12 {
		t.Errorf("expected weight -2.5 after momentum accumulation, got %v", weights[0][0])
	}
}

func TestSGD_WeightDecay(t *testing.T) {
	config := shared.OptimizerConfig{LearningRate: 0.1, Momentum: 0, WeightDecay: 0.5}
	weights := [][]float64{{2.0}}
	sgd := NewSGD(config, weights)

	sgd.Step(weights, [][]float64{{0.0}})

	// grad = 0 + 0.5*2 = 1, weight = 2 - 0.1*1 = 1.9
	if math.Abs(weights[0][0]-1.9) > 1e-12 {
		t.Errorf("expected weight 1.9 with decay, got %v", weights[0][0])
	}
}

func TestMultiStepSchedule_DecaysAtMilestones(t *testing.T) {
	config := shared.OptimizerConfig{LearningRate: 1.0}
	weights := [][]float64{{0.0}}
	sgd := NewSGD(config, weights)

	schedule := NewMultiStepSchedule(shared.SchedulerConfig{Milestones: []int{2, 4}, Gamma: 0.1}, sgd)

	schedule.Step()
	if sgd.LearningRate() != 1.0 {
		t.Errorf("expected lr 1.0 at epoch 1, got %v", sgd.LearningRate())
	}

	schedule.Step()
	schedule.Step()
	if math.Abs(sgd.LearningRate()-0.1) > 1e-12 {
		t.Errorf("expected lr 0.1 after first milestone, got %v", sgd.LearningRate())
	}

	schedule.Step()
	schedule.Step()
	if math.Abs(sgd.LearningRate()-0.01) > 1e-12 {
		t.Errorf("expected lr 0.01 after second milestone, got %v", sgd.LearningRate())
	}
	if schedule.Epoch() != 5 {
		t.Errorf("expected 5 schedule steps, got %d", schedule.Epoch())
	}
}
