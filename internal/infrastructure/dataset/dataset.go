// Package dataset provides in-memory data sources for the learner.
package dataset

// Batch is one mini-batch of samples: parallel identifier, input and target
// slices of equal length.
type Batch struct {
	IDs     []int
	Inputs  [][]float64
	Targets []int
}

// DataSource produces finite passes of mini-batches. Calling Batches again
// restarts the pass, which is how the training loop implements epochs.
type DataSource interface {
	// Batches returns one full pass over the data.
	Batches() []Batch

	// Size is the number of samples in the source.
	Size() int

	// ByClass returns a view restricted to samples of one class, preserving
	// the source order.
	ByClass(classID int) DataSource

	// ByIdentifiers returns a view restricted to the given identifiers,
	// preserving the order of the identifier list.
	ByIdentifiers(ids []int) DataSource
}

// Sample is a single data point with a stable identifier.
type Sample struct {
	ID     int       `json:"id"`
	Input  []float64 `json:"input"`
	Target int       `json:"target"`
}

// SliceDataset is an in-memory DataSource backed by a sample slice.
type SliceDataset struct {
	samples   []Sample
	batchSize int
}

// NewSliceDataset creates a dataset over the given samples.
func NewSliceDataset(samples []Sample, batchSize int) *SliceDataset {
	if batchSize <= 0 {
		batchSize = 32
	}
	return &SliceDataset{
		samples:   samples,
		batchSize: batchSize,
	}
}

// Size returns the number of samples.
func (d *SliceDataset) Size() int {
	return len(d.samples)
}

// Batches returns one full pass over the samples in insertion order.
func (d *SliceDataset) Batches() []Batch {
	if len(d.samples) == 0 {
		return nil
	}

	batches := make([]Batch, 0, (len(d.samples)+d.batchSize-1)/d.batchSize)
	for start := 0; start < len(d.samples); start += d.batchSize {
		end := start + d.batchSize
		if end > len(d.samples) {
			end = len(d.samples)
		}

		batch := Batch{
			IDs:     make([]int, 0, end-start),
			Inputs:  make([][]float64, 0, end-start),
			Targets: make([]int, 0, end-start),
		}
		for _, sample := range d.samples[start:end] {
			batch.IDs = append(batch.IDs, sample.ID)
			batch.Inputs = append(batch.Inputs, sample.Input)
			batch.Targets = append(batch.Targets, sample.Target)
		}
		batches = append(batches, batch)
	}

	return batches
}

// ByClass returns a view over samples whose target equals classID.
func (d *SliceDataset) ByClass(classID int) DataSource {
	filtered := make([]Sample, 0)
	for _, sample := range d.samples {
		if sample.Target == classID {
			filtered = append(filtered, sample)
		}
	}
	return &SliceDataset{samples: filtered, batchSize: d.batchSize}
}

// ByIdentifiers returns a view over the named samples, in identifier-list order.
func (d *SliceDataset) ByIdentifiers(ids []int) DataSource {
	byID := make(map[int]Sample, len(d.samples))
	for _, sample := range d.samples {
		byID[sample.ID] = sample
	}

	filtered := make([]Sample, 0, len(ids))
	for _, id := range ids {
		if sample, ok := byID[id]; ok {
			filtered = append(filtered, sample)
		}
	}
	return &SliceDataset{samples: filtered, batchSize: d.batchSize}
}
