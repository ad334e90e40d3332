package learner

import (
	"fmt"
	"sort"
	"sync"

	"github.com/SmallPigPeppa/PODNet/internal/infrastructure/features"
	"github.com/SmallPigPeppa/PODNet/internal/shared"
)

// ExemplarMemory owns the per-class exemplar identifier sets and the class
// mean collection under a strict global budget. Exemplars are stored in
// selection-priority order (best first), so reduction is plain truncation.
type ExemplarMemory struct {
	mu         sync.RWMutex
	memorySize int
	exemplars  map[int][]int
	means      [][]float64
	stats      *MemoryStats
}

// MemoryStats contains exemplar memory statistics.
type MemoryStats struct {
	TotalStored     int `json:"totalStored"`
	KnownClasses    int `json:"knownClasses"`
	TotalSelections int `json:"totalSelections"`
	TotalReductions int `json:"totalReductions"`
}

// NewExemplarMemory creates an exemplar memory with the given global budget.
func NewExemplarMemory(memorySize int) *ExemplarMemory {
	return &ExemplarMemory{
		memorySize: memorySize,
		exemplars:  make(map[int][]int),
		stats:      &MemoryStats{},
	}
}

// MemorySize returns the global exemplar budget.
func (m *ExemplarMemory) MemorySize() int {
	return m.memorySize
}

// PerClassQuota returns the per-class budget for the given class count:
// memorySize / nClasses, integer division.
func (m *ExemplarMemory) PerClassQuota(nClasses int) int {
	if nClasses <= 0 {
		return 0
	}
	return m.memorySize / nClasses
}

// Reduce truncates every known class's exemplar set to the first quota
// entries, discarding the lowest-priority suffix.
func (m *ExemplarMemory) Reduce(quota int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for classID, ids := range m.exemplars {
		if len(ids) > quota {
			m.exemplars[classID] = ids[:quota]
		}
	}
	m.stats.TotalReductions++
	m.refreshCountsLocked()
}

// BuildForClass runs herding selection over a class's candidate pool and
// stores the resulting exemplar set. Candidate embeddings and identifiers
// are parallel slices. Returns the selected identifiers and the normalized
// running mean of the selected exemplars, which becomes the class mean.
func (m *ExemplarMemory) BuildForClass(classID int, embeddings [][]float64, ids []int, quota int) ([]int, []float64, error) {
	if len(embeddings) != len(ids) {
		return nil, nil, fmt.Errorf("candidate embeddings and identifiers disagree: %d vs %d", len(embeddings), len(ids))
	}
	if len(embeddings) == 0 {
		return nil, nil, fmt.Errorf("no candidates for class %d", classID)
	}

	classMean := features.Normalize(features.Mean(embeddings))

	dim := len(embeddings[0])
	runningSum := make([]float64, dim)
	selected := make([]int, 0, quota)
	selectedPos := make(map[int]bool, quota)

	limit := quota
	if len(embeddings) < limit {
		limit = len(embeddings)
	}

	candidate := make([]float64, dim)
	for i := 0; i < limit; i++ {
		bestPos := -1
		var bestDist float64

		for j, embedding := range embeddings {
			if selectedPos[j] {
				continue
			}

			for d := 0; d < dim; d++ {
				candidate[d] = (embedding[d] + runningSum[d]) / float64(i+1)
			}
			dist := features.SquaredDistance(classMean, features.Normalize(candidate))

			switch {
			case bestPos < 0, dist < bestDist:
				bestPos, bestDist = j, dist
			case dist == bestDist && ids[j] < ids[bestPos]:
				bestPos = j
			}
		}

		selectedPos[bestPos] = true
		selected = append(selected, ids[bestPos])
		for d := 0; d < dim; d++ {
			runningSum[d] += embeddings[bestPos][d]
		}
	}

	exemplarMean := make([]float64, dim)
	for d := range exemplarMean {
		exemplarMean[d] = runningSum[d] / float64(len(selected))
	}

	m.mu.Lock()
	m.exemplars[classID] = selected
	m.stats.TotalSelections += len(selected)
	m.refreshCountsLocked()
	m.mu.Unlock()

	return shared.CloneIntSlice(selected), features.Normalize(exemplarMean), nil
}

// ExemplarIDs returns a copy of one class's exemplar identifiers in
// selection-priority order.
func (m *ExemplarMemory) ExemplarIDs(classID int) []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return shared.CloneIntSlice(m.exemplars[classID])
}

// KnownClasses returns the class ids with stored exemplars, ascending.
func (m *ExemplarMemory) KnownClasses() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	classes := make([]int, 0, len(m.exemplars))
	for classID := range m.exemplars {
		classes = append(classes, classID)
	}
	sort.Ints(classes)
	return classes
}

// Flattened returns every retained exemplar identifier, class id ascending,
// per-class selection order within a class.
func (m *ExemplarMemory) Flattened() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	classes := make([]int, 0, len(m.exemplars))
	for classID := range m.exemplars {
		classes = append(classes, classID)
	}
	sort.Ints(classes)

	flattened := make([]int, 0)
	for _, classID := range classes {
		flattened = append(flattened, m.exemplars[classID]...)
	}
	return flattened
}

// TotalStored returns the aggregate exemplar count across all classes.
func (m *ExemplarMemory) TotalStored() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := 0
	for _, ids := range m.exemplars {
		total += len(ids)
	}
	return total
}

// ResetMeans clears the class mean collection ahead of an after-task rebuild.
func (m *ExemplarMemory) ResetMeans(nClasses int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.means = make([][]float64, nClasses)
}

// SetMean stores a class mean. Means must already be unit-normalized.
func (m *ExemplarMemory) SetMean(classID int, mean []float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if classID < 0 || classID >= len(m.means) {
		return fmt.Errorf("class %d outside mean collection of size %d", classID, len(m.means))
	}
	m.means[classID] = shared.CloneFloat64Slice(mean)
	return nil
}

// Means returns a value copy of the class mean collection in class-id order.
func (m *ExemplarMemory) Means() [][]float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return shared.CloneFloat64Matrix(m.means)
}

// SnapshotExemplars returns a value copy of the per-class exemplar sets.
func (m *ExemplarMemory) SnapshotExemplars() map[int][]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return shared.CloneIntSliceMap(m.exemplars)
}

// Stats returns a copy of the memory statistics.
func (m *ExemplarMemory) Stats() MemoryStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return *m.stats
}

func (m *ExemplarMemory) refreshCountsLocked() {
	total := 0
	for _, ids := range m.exemplars {
		total += len(ids)
	}
	m.stats.TotalStored = total
	m.stats.KnownClasses = len(m.exemplars)
}
