package checkpoint

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	domainLearner "github.com/SmallPigPeppa/PODNet/internal/domain/learner"
)

// encodePayload serializes the matrix-valued snapshot fields to JSON text.
func encodePayload(snapshot domainLearner.Snapshot) (weights, exemplars, means string, err error) {
	w, err := json.Marshal(snapshot.HeadWeights)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode head weights: %w", err)
	}
	e, err := json.Marshal(snapshot.Exemplars)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode exemplars: %w", err)
	}
	m, err := json.Marshal(snapshot.Means)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode means: %w", err)
	}
	return string(w), string(e), string(m), nil
}

// scanSnapshots decodes snapshot rows produced by the backends' list queries.
func scanSnapshots(rows *sql.Rows) ([]domainLearner.Snapshot, error) {
	var snapshots []domainLearner.Snapshot

	for rows.Next() {
		var snapshot domainLearner.Snapshot
		var weights, exemplars, means string
		var createdAt int64

		if err := rows.Scan(&snapshot.ID, &snapshot.RunID, &snapshot.Task, &snapshot.NClasses,
			&weights, &exemplars, &means, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}

		if err := json.Unmarshal([]byte(weights), &snapshot.HeadWeights); err != nil {
			return nil, fmt.Errorf("failed to decode head weights: %w", err)
		}
		if err := json.Unmarshal([]byte(exemplars), &snapshot.Exemplars); err != nil {
			return nil, fmt.Errorf("failed to decode exemplars: %w", err)
		}
		if err := json.Unmarshal([]byte(means), &snapshot.Means); err != nil {
			return nil, fmt.Errorf("failed to decode means: %w", err)
		}
		snapshot.CreatedAt = time.Unix(createdAt, 0)

		snapshots = append(snapshots, snapshot)
	}

	return snapshots, rows.Err()
}
