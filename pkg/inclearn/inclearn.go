// Package inclearn provides the public API for the class-incremental learner.
//
// This package provides a high-level interface for running class-incremental
// training: exemplar memory with herding selection, distillation against the
// previous model and nearest-class-mean evaluation.
//
// Example:
//
//	learner, err := inclearn.New(inclearn.Config{
//	    MemorySize: 2000,
//	    Increment:  10,
//	    Epochs:     70,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	report, err := learner.RunTask(train, val, memoryData, eval)
package inclearn

import (
	appLearner "github.com/SmallPigPeppa/PODNet/internal/application/learner"
	domainLearner "github.com/SmallPigPeppa/PODNet/internal/domain/learner"
	"github.com/SmallPigPeppa/PODNet/internal/infrastructure/checkpoint"
	"github.com/SmallPigPeppa/PODNet/internal/infrastructure/dataset"
	"github.com/SmallPigPeppa/PODNet/internal/infrastructure/features"
	infraLearner "github.com/SmallPigPeppa/PODNet/internal/infrastructure/learner"
	"github.com/SmallPigPeppa/PODNet/internal/shared"
)

// Re-export types for the public API
type (
	// Configuration types
	Config                 = domainLearner.Config
	WeightGeneration       = domainLearner.WeightGeneration
	WeightGenerationConfig = domainLearner.WeightGenerationConfig
	OptimizerConfig        = shared.OptimizerConfig
	SchedulerConfig        = shared.SchedulerConfig

	// Lifecycle types
	Task     = domainLearner.Task
	Phase    = domainLearner.Phase
	Snapshot = domainLearner.Snapshot

	// Data types
	Batch       = dataset.Batch
	Sample      = dataset.Sample
	DataSource  = dataset.DataSource
	Extractor   = features.Extractor
	MemoryStats = infraLearner.MemoryStats

	// Reporting types
	TaskReport     = appLearner.TaskReport
	AccuracyReport = appLearner.AccuracyReport

	// Store types
	CheckpointStore = checkpoint.Store
	PostgresConfig  = checkpoint.PostgresConfig
)

// Re-export weight generation policies
const (
	WeightGenerationBasic         = domainLearner.WeightGenerationBasic
	WeightGenerationEmbeddingMean = domainLearner.WeightGenerationEmbeddingMean
	WeightGenerationImprinted     = domainLearner.WeightGenerationImprinted
)

// Re-export error sentinels
var (
	ErrInvalidLoss             = domainLearner.ErrInvalidLoss
	ErrUninitializedClassifier = domainLearner.ErrUninitializedClassifier
	ErrClassMeanCountMismatch  = domainLearner.ErrClassMeanCountMismatch
	ErrUnknownWeightGeneration = domainLearner.ErrUnknownWeightGeneration
	ErrPhaseOrder              = domainLearner.ErrPhaseOrder
)

// DefaultConfig returns the default learner configuration.
func DefaultConfig() Config {
	return domainLearner.DefaultConfig()
}

// Learner drives class-incremental training over a stream of tasks.
type Learner struct {
	service *appLearner.Service
}

// Options configures optional learner components.
type Options struct {
	// Extractor overrides the default feature extractor.
	Extractor features.Extractor

	// EmbeddingDimension sets the default extractor's output width. Ignored
	// when Extractor is set. Zero selects the extractor default.
	EmbeddingDimension int

	// Store enables snapshot persistence between tasks. Nil disables it.
	Store checkpoint.Store
}

// New creates a learner with the default feature extractor and no
// checkpoint store.
func New(config Config) (*Learner, error) {
	return NewWithOptions(config, Options{})
}

// NewWithOptions creates a learner with explicit component overrides.
func NewWithOptions(config Config, options Options) (*Learner, error) {
	extractor := options.Extractor
	if extractor == nil {
		extractor = features.NewHashingExtractor(options.EmbeddingDimension)
	}

	controller, err := infraLearner.NewController(config, extractor)
	if err != nil {
		return nil, err
	}

	service, err := appLearner.NewService(controller, options.Store, config.Increment)
	if err != nil {
		return nil, err
	}

	return &Learner{service: service}, nil
}

// RunTask executes one full task lifecycle and returns its report.
func (l *Learner) RunTask(train, val, memoryData, eval dataset.DataSource) (TaskReport, error) {
	return l.service.RunTask(train, val, memoryData, eval)
}

// RunID returns the run identifier used for checkpoint snapshots.
func (l *Learner) RunID() string {
	return l.service.RunID()
}

// Reports returns the per-task reports accumulated so far.
func (l *Learner) Reports() []TaskReport {
	return l.service.Reports()
}

// NewSyntheticSource builds a deterministic synthetic data source covering the
// class range [classLo, classHi).
func NewSyntheticSource(classLo, classHi, perClass, inputDim int, seed int64) DataSource {
	samples := dataset.SyntheticSamples(dataset.SyntheticConfig{
		ClassLo:        classLo,
		ClassHi:        classHi,
		PerClass:       perClass,
		InputDimension: inputDim,
		Seed:           seed,
		FirstID:        classLo * perClass,
	})
	return dataset.NewSliceDataset(samples, 0)
}

// NewSQLiteStore opens a SQLite-backed checkpoint store. An empty path uses
// an in-memory store.
func NewSQLiteStore(path string) (CheckpointStore, error) {
	store := checkpoint.NewSQLiteStore(path)
	if err := store.Initialize(); err != nil {
		return nil, err
	}
	return store, nil
}

// NewPostgresStore opens a Postgres-backed checkpoint store.
func NewPostgresStore(config PostgresConfig) (CheckpointStore, error) {
	store := checkpoint.NewPostgresStore(config)
	if err := store.Initialize(); err != nil {
		return nil, err
	}
	return store, nil
}
