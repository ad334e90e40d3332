package checkpoint

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"time"

	domainLearner "github.com/SmallPigPeppa/PODNet/internal/domain/learner"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresConfig configures the PostgreSQL checkpoint backend.
type PostgresConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"-"`
	Database string `json:"database"`
	SSL      bool   `json:"ssl"`
}

// PostgresStore implements Store using PostgreSQL.
type PostgresStore struct {
	mu      sync.RWMutex
	db      *sql.DB
	config  PostgresConfig
	connStr string
}

// NewPostgresStore creates a PostgreSQL checkpoint store. Unset fields are
// filled from the standard PG environment variables.
func NewPostgresStore(config PostgresConfig) *PostgresStore {
	if config.Host == "" {
		config.Host = getEnvOrDefault("PGHOST", "localhost")
	}
	if config.Port == 0 {
		config.Port = 5432
	}
	if config.User == "" {
		config.User = getEnvOrDefault("PGUSER", "postgres")
	}
	if config.Password == "" {
		config.Password = os.Getenv("PGPASSWORD")
	}
	if config.Database == "" {
		config.Database = os.Getenv("PGDATABASE")
	}

	return &PostgresStore{
		config:  config,
		connStr: buildConnectionString(config),
	}
}

// buildConnectionString constructs a PostgreSQL connection string.
func buildConnectionString(config PostgresConfig) string {
	sslMode := "disable"
	if config.SSL {
		sslMode = "require"
	}

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Database, sslMode,
	)

	if config.Password != "" {
		connStr += fmt.Sprintf(" password=%s", config.Password)
	}

	return connStr
}

// Initialize connects to PostgreSQL and creates the snapshot table.
func (p *PostgresStore) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db != nil {
		return nil // Already connected
	}

	db, err := sql.Open("postgres", p.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
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
			created_at BIGINT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_snapshots_run_id ON snapshots(run_id)
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to create snapshot schema: %w", err)
	}

	p.db = db
	return nil
}

// SaveSnapshot persists one snapshot.
func (p *PostgresStore) SaveSnapshot(snapshot domainLearner.Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db == nil {
		return fmt.Errorf("checkpoint store not initialized")
	}

	weights, exemplars, means, err := encodePayload(snapshot)
	if err != nil {
		return err
	}

	_, err = p.db.Exec(
		`INSERT INTO snapshots (id, run_id, task, n_classes, head_weights, exemplars, means, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
		   head_weights = EXCLUDED.head_weights,
		   exemplars = EXCLUDED.exemplars,
		   means = EXCLUDED.means`,
		snapshot.ID, snapshot.RunID, snapshot.Task, snapshot.NClasses,
		weights, exemplars, means, snapshot.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// LoadLatest returns the newest snapshot for a run.
func (p *PostgresStore) LoadLatest(runID string) (domainLearner.Snapshot, bool, error) {
	snapshots, err := p.ListSnapshots(runID)
	if err != nil {
		return domainLearner.Snapshot{}, false, err
	}
	if len(snapshots) == 0 {
		return domainLearner.Snapshot{}, false, nil
	}
	return snapshots[len(snapshots)-1], true, nil
}

// ListSnapshots returns every snapshot for a run in task order.
func (p *PostgresStore) ListSnapshots(runID string) ([]domainLearner.Snapshot, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.db == nil {
		return nil, fmt.Errorf("checkpoint store not initialized")
	}

	rows, err := p.db.Query(
		`SELECT id, run_id, task, n_classes, head_weights, exemplars, means, created_at
		 FROM snapshots WHERE run_id = $1 ORDER BY task ASC`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// Close releases the connection pool.
func (p *PostgresStore) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db != nil {
		err := p.db.Close()
		p.db = nil
		return err
	}
	return nil
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
