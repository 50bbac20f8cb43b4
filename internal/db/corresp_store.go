package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/primfit/internal/corresp"
	"github.com/banshee-data/primfit/internal/prim"
)

// MatchRun records one execution of the correspondence matcher: the two
// input sources and when it ran.
type MatchRun struct {
	RunID       string `json:"run_id"`
	SourceA     string `json:"source_a"`
	SourceB     string `json:"source_b"`
	CreatedAtNs int64  `json:"created_at_ns"`
}

// CorrespStore provides persistence for correspondence runs and their
// accepted pairs.
type CorrespStore struct {
	db *DB
}

// NewCorrespStore creates a new CorrespStore.
func NewCorrespStore(db *DB) *CorrespStore {
	return &CorrespStore{db: db}
}

// InsertRun stores a run and its assignments in one transaction.
// If run.RunID is empty, a new UUID is generated. Pair rank follows
// acceptance order.
func (s *CorrespStore) InsertRun(run *MatchRun, assignments []corresp.Assignment) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAtNs == 0 {
		run.CreatedAtNs = time.Now().UnixNano()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin insert run: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO match_runs (run_id, source_a, source_b, created_at_ns)
		VALUES (?, ?, ?, ?)
	`, run.RunID, run.SourceA, run.SourceB, run.CreatedAtNs)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for rank, a := range assignments {
		_, err = tx.Exec(`
			INSERT INTO match_pairs (run_id, rank, gid_a, lid_a, gid_b, lid_b, cost)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, run.RunID, rank, a.Key.A.Gid, a.Key.A.Lid, a.Key.B.Gid, a.Key.B.Lid, a.Cost)
		if err != nil {
			return fmt.Errorf("insert pair rank %d: %w", rank, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *CorrespStore) GetRun(runID string) (*MatchRun, error) {
	var run MatchRun
	err := s.db.QueryRow(`
		SELECT run_id, source_a, source_b, created_at_ns
		FROM match_runs
		WHERE run_id = ?
	`, runID).Scan(&run.RunID, &run.SourceA, &run.SourceB, &run.CreatedAtNs)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}
	return &run, nil
}

// ListPairs returns a run's assignments in acceptance order.
func (s *CorrespStore) ListPairs(runID string) ([]corresp.Assignment, error) {
	rows, err := s.db.Query(`
		SELECT gid_a, lid_a, gid_b, lid_b, cost
		FROM match_pairs
		WHERE run_id = ?
		ORDER BY rank
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("list pairs for %s: %w", runID, err)
	}
	defer rows.Close()

	var out []corresp.Assignment
	for rows.Next() {
		var a corresp.Assignment
		var key corresp.PairKey
		var gidA, lidA, gidB, lidB int
		if err := rows.Scan(&gidA, &lidA, &gidB, &lidB, &a.Cost); err != nil {
			return nil, fmt.Errorf("scan pair: %w", err)
		}
		key.A = prim.GidLid{Gid: gidA, Lid: lidA}
		key.B = prim.GidLid{Gid: gidB, Lid: lidB}
		a.Key = key
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pairs: %w", err)
	}
	return out, nil
}
