package learner

import (
	"testing"

	domainLearner "github.com/SmallPigPeppa/PODNet/internal/domain/learner"
	"github.com/SmallPigPeppa/PODNet/internal/infrastructure/checkpoint"
	"github.com/SmallPigPeppa/PODNet/internal/infrastructure/dataset"
	"github.com/SmallPigPeppa/PODNet/internal/infrastructure/features"
	infraLearner "github.com/SmallPigPeppa/PODNet/internal/infrastructure/learner"
	"github.com/SmallPigPeppa/PODNet/internal/shared"
)

func serviceConfig() domainLearner.Config {
	return domainLearner.Config{
		MemorySize:       20,
		Increment:        2,
		Epochs:           2,
		Seed:             5,
		WeightGeneration: domainLearner.DefaultWeightGenerationConfig(),
		Optimizer:        shared.OptimizerConfig{LearningRate: 0.05, Momentum: 0.9, WeightDecay: 0.0001},
		Scheduler:        shared.SchedulerConfig{Gamma: 0.2},
	}
}

func taskStream(task, perClass, firstID int) *dataset.SliceDataset {
	samples := dataset.SyntheticSamples(dataset.SyntheticConfig{
		ClassLo:        task * 2,
		ClassHi:        (task + 1) * 2,
		PerClass:       perClass,
		InputDimension: 8,
		Seed:           42,
		FirstID:        firstID,
	})
	return dataset.NewSliceDataset(samples, 16)
}

func newTestService(t *testing.T, store checkpoint.Store) *Service {
	t.Helper()

	controller, err := infraLearner.NewController(serviceConfig(), features.NewHashingExtractor(16))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	service, err := NewService(controller, store, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return service
}

func TestService_RunTask(t *testing.T) {
	store := checkpoint.NewSQLiteStore("", checkpoint.WithInMemoryFallback())
	if err := store.Initialize(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer store.Close()

	service := newTestService(t, store)
	train := taskStream(0, 30, 0)

	report, err := service.RunTask(train, nil, train, train)
	if err != nil {
		t.Fatalf("run task failed: %v", err)
	}

	if report.Task != 0 {
		t.Errorf("expected task 0, got %d", report.Task)
	}
	if report.EvalSize != train.Size() {
		t.Errorf("expected eval size %d, got %d", train.Size(), report.EvalSize)
	}
	if report.ExemplarsStored > 20 {
		t.Errorf("exemplar budget exceeded: %d", report.ExemplarsStored)
	}
	if report.SnapshotID == "" {
		t.Error("expected a snapshot id with a configured store")
	}

	latest, found, err := store.LoadLatest(service.RunID())
	if err != nil || !found {
		t.Fatalf("expected persisted snapshot, found=%v err=%v", found, err)
	}
	if latest.NClasses != 2 {
		t.Errorf("expected snapshot with 2 classes, got %d", latest.NClasses)
	}
	if len(latest.Means) != 2 {
		t.Errorf("expected 2 class means in snapshot, got %d", len(latest.Means))
	}
}

func TestService_RunTaskWithoutStore(t *testing.T) {
	service := newTestService(t, nil)
	train := taskStream(0, 20, 0)

	report, err := service.RunTask(train, nil, train, train)
	if err != nil {
		t.Fatalf("run task failed: %v", err)
	}
	if report.SnapshotID != "" {
		t.Errorf("expected empty snapshot id without a store, got %q", report.SnapshotID)
	}
	if len(service.Reports()) != 1 {
		t.Errorf("expected 1 collected report, got %d", len(service.Reports()))
	}
}

func TestService_TwoTaskStream(t *testing.T) {
	service := newTestService(t, nil)

	task0 := taskStream(0, 30, 0)
	if _, err := service.RunTask(task0, nil, task0, task0); err != nil {
		t.Fatalf("task 0 failed: %v", err)
	}

	task1 := taskStream(1, 30, 1000)
	combinedSamples := dataset.SyntheticSamples(dataset.SyntheticConfig{
		ClassLo: 0, ClassHi: 2, PerClass: 30, InputDimension: 8, Seed: 42, FirstID: 0,
	})
	combinedSamples = append(combinedSamples, dataset.SyntheticSamples(dataset.SyntheticConfig{
		ClassLo: 2, ClassHi: 4, PerClass: 30, InputDimension: 8, Seed: 42, FirstID: 1000,
	})...)
	combined := dataset.NewSliceDataset(combinedSamples, 16)

	report, err := service.RunTask(task1, nil, combined, combined)
	if err != nil {
		t.Fatalf("task 1 failed: %v", err)
	}

	if report.Task != 1 {
		t.Errorf("expected task 1, got %d", report.Task)
	}
	if report.ExemplarsStored > 20 {
		t.Errorf("exemplar budget exceeded after task 1: %d", report.ExemplarsStored)
	}
	if service.Controller().NClasses() != 4 {
		t.Errorf("expected 4 classes after task 1, got %d", service.Controller().NClasses())
	}
}

func TestComputeAccuracy(t *testing.T) {
	ypred := []int{0, 1, 2, 3}
	ytrue := []int{0, 1, 2, 2}

	report, err := ComputeAccuracy(ypred, ytrue, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Total != 0.75 {
		t.Errorf("expected total accuracy 0.75, got %v", report.Total)
	}
	if report.PerBucket["00-01"] != 1.0 {
		t.Errorf("expected bucket 00-01 accuracy 1.0, got %v", report.PerBucket["00-01"])
	}
	if report.PerBucket["02-03"] != 0.5 {
		t.Errorf("expected bucket 02-03 accuracy 0.5, got %v", report.PerBucket["02-03"])
	}
}

func TestComputeAccuracy_Errors(t *testing.T) {
	if _, err := ComputeAccuracy([]int{0}, []int{0, 1}, 2); err == nil {
		t.Error("expected error for mismatched lengths")
	}
	if _, err := ComputeAccuracy(nil, nil, 2); err == nil {
		t.Error("expected error for empty input")
	}
	if _, err := ComputeAccuracy([]int{0}, []int{0}, 0); err == nil {
		t.Error("expected error for zero task size")
	}
}
