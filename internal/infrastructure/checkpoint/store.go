// Package checkpoint provides persistence for learner snapshots: classifier
// head weights, exemplar identifier sets and class means.
package checkpoint

import (
	domainLearner "github.com/SmallPigPeppa/PODNet/internal/domain/learner"
)

// Store persists learner snapshots taken after completed after-task phases.
type Store interface {
	// Initialize prepares the backing storage.
	Initialize() error

	// SaveSnapshot persists one snapshot.
	SaveSnapshot(snapshot domainLearner.Snapshot) error

	// LoadLatest returns the newest snapshot for a run, by task index.
	LoadLatest(runID string) (domainLearner.Snapshot, bool, error)

	// ListSnapshots returns every snapshot for a run in task order.
	ListSnapshots(runID string) ([]domainLearner.Snapshot, error)

	// Close releases the backing storage.
	Close() error
}
