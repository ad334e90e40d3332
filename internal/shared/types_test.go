package shared

import "testing"

func TestDefaultOptimizerConfig(t *testing.T) {
	config := DefaultOptimizerConfig()

	if err := config.Validate(); err != nil {
		t.Errorf("default optimizer config should validate: %v", err)
	}
	if config.LearningRate <= 0 {
		t.Errorf("expected positive learning rate, got %v", config.LearningRate)
	}
}

func TestOptimizerConfig_Validate(t *testing.T) {
	config := DefaultOptimizerConfig()
	config.LearningRate = 0
	if err := config.Validate(); err == nil {
		t.Error("expected error for zero learning rate")
	}

	config = DefaultOptimizerConfig()
	config.Momentum = 1.0
	if err := config.Validate(); err == nil {
		t.Error("expected error for momentum of 1")
	}

	config = DefaultOptimizerConfig()
	config.WeightDecay = -0.1
	if err := config.Validate(); err == nil {
		t.Error("expected error for negative weight decay")
	}
}

func TestSchedulerConfig_Validate(t *testing.T) {
	config := DefaultSchedulerConfig()
	if err := config.Validate(); err != nil {
		t.Errorf("default scheduler config should validate: %v", err)
	}

	config.Milestones = []int{10, 5}
	if err := config.Validate(); err == nil {
		t.Error("expected error for non-increasing milestones")
	}

	config = DefaultSchedulerConfig()
	config.Gamma = 0
	if err := config.Validate(); err == nil {
		t.Error("expected error for zero gamma")
	}
}

func TestCloneFloat64Matrix(t *testing.T) {
	source := [][]float64{{1, 2}, {3, 4}}
	cloned := CloneFloat64Matrix(source)

	cloned[0][0] = 99
	if source[0][0] != 1 {
		t.Error("clone should not share row storage with source")
	}

	if CloneFloat64Matrix(nil) != nil {
		t.Error("cloning nil matrix should return nil")
	}
}

func TestCloneIntSliceMap(t *testing.T) {
	source := map[int][]int{0: {1, 2, 3}}
	cloned := CloneIntSliceMap(source)

	cloned[0][0] = 99
	if source[0][0] != 1 {
		t.Error("clone should not share slice storage with source")
	}
}
