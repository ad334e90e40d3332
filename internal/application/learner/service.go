package learner

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	domainLearner "github.com/SmallPigPeppa/PODNet/internal/domain/learner"
	"github.com/SmallPigPeppa/PODNet/internal/infrastructure/checkpoint"
	"github.com/SmallPigPeppa/PODNet/internal/infrastructure/dataset"
	infraLearner "github.com/SmallPigPeppa/PODNet/internal/infrastructure/learner"
)

// Service drives whole tasks through the learner lifecycle and checkpoints
// the settled exemplar state after each completed after-task phase.
type Service struct {
	mu         sync.Mutex
	controller *infraLearner.Controller
	store      checkpoint.Store
	runID      string
	increment  int
	reports    []TaskReport
}

// TaskReport summarizes one completed task.
type TaskReport struct {
	// Task is the completed task index.
	Task int `json:"task"`

	// Accuracy is the nearest-class-mean evaluation report.
	Accuracy AccuracyReport `json:"accuracy"`

	// EvalSize is the number of evaluated samples.
	EvalSize int `json:"evalSize"`

	// SnapshotID identifies the persisted checkpoint, empty when no store
	// is configured.
	SnapshotID string `json:"snapshotId,omitempty"`

	// ExemplarsStored is the aggregate exemplar count after the task.
	ExemplarsStored int `json:"exemplarsStored"`
}

// NewService creates a service over a controller. The checkpoint store is
// optional; pass nil to disable persistence.
func NewService(controller *infraLearner.Controller, store checkpoint.Store, increment int) (*Service, error) {
	if controller == nil {
		return nil, fmt.Errorf("controller is required")
	}
	if increment <= 0 {
		return nil, fmt.Errorf("increment must be positive, got %d", increment)
	}

	return &Service{
		controller: controller,
		store:      store,
		runID:      uuid.New().String(),
		increment:  increment,
	}, nil
}

// RunID returns the run identifier used for checkpoints.
func (s *Service) RunID() string {
	return s.runID
}

// Controller returns the underlying task controller.
func (s *Service) Controller() *infraLearner.Controller {
	return s.controller
}

// Reports returns the per-task reports collected so far.
func (s *Service) Reports() []TaskReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	reports := make([]TaskReport, len(s.reports))
	copy(reports, s.reports)
	return reports
}

// RunTask executes all four lifecycle phases for the next task. A phase
// failure aborts the task; the learner then refuses further phases and the
// last persisted snapshot remains the newest valid state.
func (s *Service) RunTask(train, val, memoryData, eval dataset.DataSource) (TaskReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := s.controller.Task()

	if err := s.controller.BeforeTask(train, val); err != nil {
		return TaskReport{}, fmt.Errorf("task %d before phase: %w", task, err)
	}
	if err := s.controller.TrainTask(train, val); err != nil {
		return TaskReport{}, fmt.Errorf("task %d train phase: %w", task, err)
	}
	if err := s.controller.AfterTask(memoryData); err != nil {
		return TaskReport{}, fmt.Errorf("task %d after phase: %w", task, err)
	}

	snapshotID := ""
	if s.store != nil {
		id, err := s.saveSnapshot(task)
		if err != nil {
			return TaskReport{}, fmt.Errorf("task %d checkpoint: %w", task, err)
		}
		snapshotID = id
	}

	ypred, ytrue, err := s.controller.EvalTask(eval)
	if err != nil {
		return TaskReport{}, fmt.Errorf("task %d eval phase: %w", task, err)
	}

	accuracy, err := ComputeAccuracy(ypred, ytrue, s.increment)
	if err != nil {
		return TaskReport{}, fmt.Errorf("task %d accuracy: %w", task, err)
	}

	report := TaskReport{
		Task:            task,
		Accuracy:        accuracy,
		EvalSize:        len(ypred),
		SnapshotID:      snapshotID,
		ExemplarsStored: s.controller.Memory().TotalStored(),
	}
	s.reports = append(s.reports, report)
	return report, nil
}

// saveSnapshot persists the settled learner state after an after-task phase.
func (s *Service) saveSnapshot(task int) (string, error) {
	snapshot := domainLearner.Snapshot{
		ID:          uuid.New().String(),
		RunID:       s.runID,
		Task:        task,
		NClasses:    s.controller.NClasses(),
		HeadWeights: s.controller.Head().CloneWeights(),
		Exemplars:   s.controller.Memory().SnapshotExemplars(),
		Means:       s.controller.Memory().Means(),
		CreatedAt:   time.Now(),
	}

	if err := s.store.SaveSnapshot(snapshot); err != nil {
		return "", err
	}
	return snapshot.ID, nil
}
