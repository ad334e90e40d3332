package checkpoint

import (
	"database/sql"
	"fmt"
	"sort"
	"sync"

	domainLearner "github.com/SmallPigPeppa/PODNet/internal/domain/learner"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	mu          sync.RWMutex
	dbPath      string
	db          *sql.DB
	snapshots   map[string][]domainLearner.Snapshot // In-memory fallback, keyed by run
	initialized bool
	useInMemory bool
}

// SQLiteOption configures the SQLiteStore.
type SQLiteOption func(*SQLiteStore)

// WithInMemoryFallback forces in-memory storage.
func WithInMemoryFallback() SQLiteOption {
	return func(s *SQLiteStore) {
		s.useInMemory = true
	}
}

// NewSQLiteStore creates a new SQLite-backed checkpoint store.
func NewSQLiteStore(dbPath string, opts ...SQLiteOption) *SQLiteStore {
	s := &SQLiteStore{
		dbPath:    dbPath,
		snapshots: make(map[string][]domainLearner.Snapshot),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Initialize opens the database and creates the snapshot table.
func (s *SQLiteStore) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	if s.useInMemory || s.dbPath == "" || s.dbPath == ":memory:" {
		s.useInMemory = true
		s.initialized = true
		return nil
	}

	db, err := sql.Open("sqlite", s.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open checkpoint database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			id TEXT PRIMARY KEY,
			run_id TEXT NOT NULL,
			task INTEGER NOT NULL,
			n_classes INTEGER NOT NULL,
			head_weights TEXT NOT NULL,
			exemplars TEXT NOT NULL,
			means TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_snapshots_run_id ON snapshots(run_id);
		CREATE INDEX IF NOT EXISTS idx_snapshots_task ON snapshots(run_id, task);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to create snapshot schema: %w", err)
	}

	s.db = db
	s.initialized = true
	return nil
}

// SaveSnapshot persists one snapshot.
func (s *SQLiteStore) SaveSnapshot(snapshot domainLearner.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return fmt.Errorf("checkpoint store not initialized")
	}

	if s.useInMemory {
		s.snapshots[snapshot.RunID] = append(s.snapshots[snapshot.RunID], snapshot)
		sort.Slice(s.snapshots[snapshot.RunID], func(i, j int) bool {
			return s.snapshots[snapshot.RunID][i].Task < s.snapshots[snapshot.RunID][j].Task
		})
		return nil
	}

	weights, exemplars, means, err := encodePayload(snapshot)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO snapshots (id, run_id, task, n_classes, head_weights, exemplars, means, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		snapshot.ID, snapshot.RunID, snapshot.Task, snapshot.NClasses,
		weights, exemplars, means, snapshot.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// LoadLatest returns the newest snapshot for a run.
func (s *SQLiteStore) LoadLatest(runID string) (domainLearner.Snapshot, bool, error) {
	snapshots, err := s.ListSnapshots(runID)
	if err != nil {
		return domainLearner.Snapshot{}, false, err
	}
	if len(snapshots) == 0 {
		return domainLearner.Snapshot{}, false, nil
	}
	return snapshots[len(snapshots)-1], true, nil
}

// ListSnapshots returns every snapshot for a run in task order.
func (s *SQLiteStore) ListSnapshots(runID string) ([]domainLearner.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, fmt.Errorf("checkpoint store not initialized")
	}

	if s.useInMemory {
		stored := s.snapshots[runID]
		result := make([]domainLearner.Snapshot, len(stored))
		copy(result, stored)
		return result, nil
	}

	rows, err := s.db.Query(
		`SELECT id, run_id, task, n_classes, head_weights, exemplars, means, created_at
		 FROM snapshots WHERE run_id = ? ORDER BY task ASC`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		s.initialized = false
		return err
	}
	s.initialized = false
	return nil
}
