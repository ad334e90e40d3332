package learner

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	domainLearner "github.com/SmallPigPeppa/PODNet/internal/domain/learner"
	"github.com/SmallPigPeppa/PODNet/internal/infrastructure/dataset"
	"github.com/SmallPigPeppa/PODNet/internal/infrastructure/features"
	"github.com/SmallPigPeppa/PODNet/internal/infrastructure/optim"
)

// Controller drives the four-phase task lifecycle: before-task caches the
// old model's predictions and grows the head, train-task runs supervised
// optimization with the composed loss, after-task reduces and rebuilds the
// exemplar memory, eval-task classifies by nearest class mean.
//
// Phases execute strictly in order and tasks strictly in increasing index
// order. A failed phase leaves the learner invalid for the rest of the task;
// the exemplar state from the last completed after-task remains the newest
// valid snapshot.
type Controller struct {
	mu        sync.RWMutex
	config    domainLearner.Config
	extractor features.Extractor

	head     *LinearHead
	memory   *ExemplarMemory
	composer *LossComposer
	cache    *PredictionCache

	optimizer *optim.SGD
	schedule  *optim.MultiStepSchedule

	task          int
	nClasses      int
	newTaskIndex  int
	lastCompleted domainLearner.Phase
	invalid       bool

	rng   *rand.Rand
	stats *ControllerStats
}

// ControllerStats contains lifecycle statistics.
type ControllerStats struct {
	CompletedTasks int     `json:"completedTasks"`
	TotalEpochs    int     `json:"totalEpochs"`
	TotalBatches   int64   `json:"totalBatches"`
	LastClfLoss    float64 `json:"lastClfLoss"`
	LastDistilLoss float64 `json:"lastDistilLoss"`
	LastValLoss    float64 `json:"lastValLoss"`
}

// NewController creates a learner for a class-incremental stream. The head
// starts with one task's worth of classes, matching the first increment.
func NewController(config domainLearner.Config, extractor features.Extractor) (*Controller, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid learner config: %w", err)
	}
	if extractor == nil {
		return nil, fmt.Errorf("feature extractor is required")
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Controller{
		config:    config,
		extractor: extractor,
		head:      NewLinearHead(extractor.OutputDimension(), config.Increment, seed),
		memory:    NewExemplarMemory(config.MemorySize),
		composer:  NewLossComposer(nil),
		nClasses:  config.Increment,
		rng:       rand.New(rand.NewSource(seed + 1)),
		stats:     &ControllerStats{},
	}, nil
}

// Task returns the current task index.
func (c *Controller) Task() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.task
}

// NClasses returns the number of classes known to the learner.
func (c *Controller) NClasses() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.nClasses
}

// Head returns the classifier head.
func (c *Controller) Head() *LinearHead {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.head
}

// Memory returns the exemplar memory manager.
func (c *Controller) Memory() *ExemplarMemory {
	return c.memory
}

// Exemplars returns every retained exemplar identifier across all classes,
// class id ascending, selection order within a class.
func (c *Controller) Exemplars() []int {
	return c.memory.Flattened()
}

// Stats returns a copy of the lifecycle statistics.
func (c *Controller) Stats() ControllerStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return *c.stats
}

// guardPhase enforces the strict lifecycle ordering.
func (c *Controller) guardPhase(next domainLearner.Phase) error {
	if c.invalid {
		return fmt.Errorf("%w: learner state invalidated by an earlier failure", domainLearner.ErrPhaseOrder)
	}

	var expected domainLearner.Phase
	switch next {
	case domainLearner.PhaseBefore:
		expected = domainLearner.PhaseEval
		if c.lastCompleted == "" {
			return nil
		}
	case domainLearner.PhaseTraining:
		expected = domainLearner.PhaseBefore
	case domainLearner.PhaseAfter:
		expected = domainLearner.PhaseTraining
	case domainLearner.PhaseEval:
		expected = domainLearner.PhaseAfter
	}

	if c.lastCompleted != expected {
		return fmt.Errorf("%w: %s requested after %q", domainLearner.ErrPhaseOrder, next, c.lastCompleted)
	}
	return nil
}

// BeforeTask prepares the learner for the incoming task. For every task
// after the first it caches the pre-growth model's sigmoid predictions over
// the training data (and validation data when present), grows the head by
// the task increment, and bumps the class count. The optimizer and schedule
// are then rebuilt against the current parameters.
func (c *Controller) BeforeTask(train, val dataset.DataSource) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guardPhase(domainLearner.PhaseBefore); err != nil {
		return err
	}
	if train == nil || train.Size() == 0 {
		return fmt.Errorf("before-task requires training data")
	}

	if c.task == 0 {
		c.cache = nil
		c.composer = NewLossComposer(nil)
	} else {
		cache := NewPredictionCache()
		c.cachePredictions(train, cache.PutTrain)
		if val != nil && val.Size() > 0 {
			c.cachePredictions(val, cache.PutVal)
		}
		c.cache = cache
		c.composer = NewLossComposer(cache)

		if err := c.growHead(train); err != nil {
			c.invalid = true
			return err
		}
		c.nClasses += c.config.Increment
	}
	c.newTaskIndex = c.task * c.config.Increment

	c.optimizer = optim.NewSGD(c.config.Optimizer, c.head.Weights())
	c.schedule = optim.NewMultiStepSchedule(c.config.Scheduler, c.optimizer)

	c.lastCompleted = domainLearner.PhaseBefore
	return nil
}

// cachePredictions runs a frozen forward pass over a data source and stores
// sigmoid-activated logits per sample identifier.
func (c *Controller) cachePredictions(source dataset.DataSource, put func(int, []float64)) {
	c.extractor.SetTraining(false)
	defer c.extractor.SetTraining(true)

	for _, batch := range source.Batches() {
		embeddings := c.extractor.Embed(batch.Inputs)
		logits := c.head.Forward(embeddings)
		for i, id := range batch.IDs {
			preds := make([]float64, len(logits[i]))
			for j, z := range logits[i] {
				preds[j] = sigmoid(z)
			}
			put(id, preds)
		}
	}
}

// growHead grows the classifier head by one increment under the configured
// weight-generation policy.
func (c *Controller) growHead(train dataset.DataSource) error {
	var newRows [][]float64

	switch c.config.WeightGeneration.Type {
	case domainLearner.WeightGenerationBasic:
		newRows = nil
	case domainLearner.WeightGenerationEmbeddingMean, domainLearner.WeightGenerationImprinted:
		rows, err := c.seedRows(train)
		if err != nil {
			return err
		}
		newRows = rows
	default:
		return fmt.Errorf("%w: %q", domainLearner.ErrUnknownWeightGeneration, string(c.config.WeightGeneration.Type))
	}

	grown, err := c.head.Grow(c.config.Increment, newRows)
	if err != nil {
		return fmt.Errorf("failed to grow head: %w", err)
	}
	c.head = grown
	return nil
}

// seedRows derives one weight row per incoming class from normalized class
// mean embeddings. The embedding policy with several proxies per class
// averages noisy samples around the mean using the per-dimension deviation.
func (c *Controller) seedRows(train dataset.DataSource) ([][]float64, error) {
	c.extractor.SetTraining(false)
	defer c.extractor.SetTraining(true)

	lo := c.nClasses
	hi := c.nClasses + c.config.Increment

	rows := make([][]float64, 0, c.config.Increment)
	for classID := lo; classID < hi; classID++ {
		view := train.ByClass(classID)
		if view.Size() == 0 {
			return nil, fmt.Errorf("no samples for incoming class %d", classID)
		}

		embeddings := make([][]float64, 0, view.Size())
		for _, batch := range view.Batches() {
			for _, e := range c.extractor.Embed(batch.Inputs) {
				embeddings = append(embeddings, features.Normalize(e))
			}
		}

		mean := features.Mean(embeddings)
		proxies := c.config.WeightGeneration.ProxyPerClass
		if c.config.WeightGeneration.Type == domainLearner.WeightGenerationEmbeddingMean && proxies > 1 {
			mean = c.sampleProxyMean(mean, embeddings, proxies)
		}
		rows = append(rows, features.Normalize(mean))
	}

	return rows, nil
}

// sampleProxyMean draws proxy rows around the class mean with per-dimension
// standard deviation and averages them.
func (c *Controller) sampleProxyMean(mean []float64, embeddings [][]float64, proxies int) []float64 {
	std := make([]float64, len(mean))
	if len(embeddings) > 1 {
		for _, e := range embeddings {
			for d := 0; d < len(std) && d < len(e); d++ {
				diff := e[d] - mean[d]
				std[d] += diff * diff
			}
		}
		for d := range std {
			std[d] = math.Sqrt(std[d] / float64(len(embeddings)-1))
		}
	}

	averaged := make([]float64, len(mean))
	for p := 0; p < proxies; p++ {
		for d := range averaged {
			averaged[d] += mean[d] + c.rng.NormFloat64()*std[d]
		}
	}
	for d := range averaged {
		averaged[d] /= float64(proxies)
	}
	return averaged
}

// TrainTask runs the fixed number of epochs over the training data. Each
// batch computes the composed loss, validates it, and applies one optimizer
// step. When validation data is present the validation loss is recomputed
// after each epoch with the same loss composition in no-gradient mode.
func (c *Controller) TrainTask(train, val dataset.DataSource) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guardPhase(domainLearner.PhaseTraining); err != nil {
		return err
	}

	c.extractor.SetTraining(true)

	for epoch := 0; epoch < c.config.Epochs; epoch++ {
		c.schedule.Step()

		for _, batch := range train.Batches() {
			if err := c.trainBatch(batch); err != nil {
				c.invalid = true
				return err
			}
		}
		c.stats.TotalEpochs++

		if val != nil && val.Size() > 0 {
			valLoss, err := c.validationLoss(val)
			if err != nil {
				c.invalid = true
				return err
			}
			c.stats.LastValLoss = valLoss
		}
	}

	c.lastCompleted = domainLearner.PhaseTraining
	return nil
}

// trainBatch computes the composed loss for one mini-batch and applies the
// optimizer step. An invalid loss aborts before any parameter update.
func (c *Controller) trainBatch(batch dataset.Batch) error {
	embeddings := c.extractor.Embed(batch.Inputs)
	logits := c.head.Forward(embeddings)
	targets := oneHot(batch.Targets, c.nClasses)

	clfLoss, distilLoss, logitGrads, err := c.composer.Compose(logits, targets, batch.IDs, true, c.task, c.newTaskIndex)
	if err != nil {
		return fmt.Errorf("loss composition failed: %w", err)
	}
	if !CheckLoss(clfLoss) || !CheckLoss(distilLoss) {
		return fmt.Errorf("%w: clf=%v distil=%v", domainLearner.ErrInvalidLoss, clfLoss, distilLoss)
	}

	c.optimizer.Step(c.head.Weights(), headGradient(logitGrads, embeddings, c.head.NClasses(), c.head.InputDimension()))

	c.stats.TotalBatches++
	c.stats.LastClfLoss = clfLoss
	c.stats.LastDistilLoss = distilLoss
	return nil
}

// validationLoss computes the summed composed loss over the validation data
// without touching any parameters.
func (c *Controller) validationLoss(val dataset.DataSource) (float64, error) {
	var total float64

	for _, batch := range val.Batches() {
		embeddings := c.extractor.Embed(batch.Inputs)
		logits := c.head.Forward(embeddings)
		targets := oneHot(batch.Targets, c.nClasses)

		clfLoss, distilLoss, _, err := c.composer.Compose(logits, targets, batch.IDs, false, c.task, c.newTaskIndex)
		if err != nil {
			return 0, fmt.Errorf("validation loss composition failed: %w", err)
		}
		if !CheckLoss(clfLoss) || !CheckLoss(distilLoss) {
			return 0, fmt.Errorf("%w: clf=%v distil=%v", domainLearner.ErrInvalidLoss, clfLoss, distilLoss)
		}
		total += clfLoss + distilLoss
	}

	return total, nil
}

// AfterTask settles the exemplar memory: reduce every known class to the
// updated per-class quota, refresh the means of previously known classes
// from their reduced exemplar sets, and build exemplar sets for the classes
// this task introduced.
func (c *Controller) AfterTask(data dataset.DataSource) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guardPhase(domainLearner.PhaseAfter); err != nil {
		return err
	}
	if data == nil || data.Size() == 0 {
		return fmt.Errorf("after-task requires candidate data")
	}

	c.extractor.SetTraining(false)
	defer c.extractor.SetTraining(true)

	quota := c.memory.PerClassQuota(c.nClasses)
	c.memory.Reduce(quota)
	c.memory.ResetMeans(c.nClasses)

	// Means of previously known classes drift as the backbone trains;
	// recompute them from the reduced exemplar sets.
	for classID := 0; classID < c.newTaskIndex; classID++ {
		ids := c.memory.ExemplarIDs(classID)
		if len(ids) == 0 {
			continue
		}

		view := data.ByIdentifiers(ids)
		embeddings := c.embedAll(view)
		if len(embeddings) == 0 {
			return fmt.Errorf("no candidate data for known class %d exemplars", classID)
		}
		if err := c.memory.SetMean(classID, features.Normalize(features.Mean(embeddings))); err != nil {
			c.invalid = true
			return err
		}
	}

	for classID := c.newTaskIndex; classID < c.nClasses; classID++ {
		view := data.ByClass(classID)
		embeddings := c.embedAll(view)
		ids := collectIDs(view)
		if len(embeddings) == 0 {
			c.invalid = true
			return fmt.Errorf("no candidates for class %d", classID)
		}

		_, mean, err := c.memory.BuildForClass(classID, embeddings, ids, quota)
		if err != nil {
			c.invalid = true
			return fmt.Errorf("herding failed for class %d: %w", classID, err)
		}
		if err := c.memory.SetMean(classID, mean); err != nil {
			c.invalid = true
			return err
		}
	}

	c.lastCompleted = domainLearner.PhaseAfter
	return nil
}

// EvalTask classifies the evaluation data by nearest class mean and returns
// parallel predicted and true label slices. Completing eval closes the task
// cycle and admits the next task's before-task phase.
func (c *Controller) EvalTask(data dataset.DataSource) (ypred, ytrue []int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guardPhase(domainLearner.PhaseEval); err != nil {
		return nil, nil, err
	}

	classifier, err := NewNearestMeanClassifier(c.memory.Means(), c.nClasses)
	if err != nil {
		return nil, nil, err
	}

	c.extractor.SetTraining(false)
	defer c.extractor.SetTraining(true)

	for _, batch := range data.Batches() {
		embeddings := c.extractor.Embed(batch.Inputs)
		for i := range embeddings {
			ypred = append(ypred, classifier.Predict(features.Normalize(embeddings[i])))
			ytrue = append(ytrue, batch.Targets[i])
		}
	}

	c.lastCompleted = domainLearner.PhaseEval
	c.stats.CompletedTasks++
	c.task++
	return ypred, ytrue, nil
}

// embedAll embeds every sample of a data source, preserving order.
func (c *Controller) embedAll(source dataset.DataSource) [][]float64 {
	embeddings := make([][]float64, 0, source.Size())
	for _, batch := range source.Batches() {
		embeddings = append(embeddings, c.extractor.Embed(batch.Inputs)...)
	}
	return embeddings
}

// collectIDs gathers every sample identifier of a data source in order.
func collectIDs(source dataset.DataSource) []int {
	ids := make([]int, 0, source.Size())
	for _, batch := range source.Batches() {
		ids = append(ids, batch.IDs...)
	}
	return ids
}

// oneHot encodes integer targets over nClasses columns.
func oneHot(targets []int, nClasses int) [][]float64 {
	encoded := make([][]float64, len(targets))
	for i, target := range targets {
		row := make([]float64, nClasses)
		if target >= 0 && target < nClasses {
			row[target] = 1
		}
		encoded[i] = row
	}
	return encoded
}

// headGradient accumulates the loss gradient with respect to the head rows:
// dL/dW[c][d] = sum_i gradLogits[i][c] * embedding[i][d].
func headGradient(logitGrads, embeddings [][]float64, nClasses, inputDim int) [][]float64 {
	grads := make([][]float64, nClasses)
	for cIdx := range grads {
		grads[cIdx] = make([]float64, inputDim)
	}

	for i, rowGrad := range logitGrads {
		embedding := embeddings[i]
		for cIdx := 0; cIdx < len(rowGrad) && cIdx < nClasses; cIdx++ {
			g := rowGrad[cIdx]
			if g == 0 {
				continue
			}
			for d := 0; d < inputDim && d < len(embedding); d++ {
				grads[cIdx][d] += g * embedding[d]
			}
		}
	}
	return grads
}
