package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/banshee-data/rastergrid/internal/gridmap"
	"github.com/google/uuid"
)

// SnapshotRecord is a stored grid snapshot.
type SnapshotRecord struct {
	SnapshotID string
	RunID      string // empty when not tied to a run
	CreatedAt  time.Time
	Snapshot   *gridmap.Snapshot
}

// SnapshotStore provides persistence for grid snapshots.
type SnapshotStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(db *sql.DB) *SnapshotStore {
	return &SnapshotStore{db: db, now: time.Now}
}

// Insert stores snap and returns its generated ID.
func (s *SnapshotStore) Insert(runID string, snap *gridmap.Snapshot) (string, error) {
	if snap == nil {
		return "", fmt.Errorf("insert snapshot: nil snapshot")
	}
	names, err := json.Marshal(snap.LayerNames)
	if err != nil {
		return "", fmt.Errorf("insert snapshot: %w", err)
	}
	id := uuid.New().String()
	_, err = s.db.Exec(`
		INSERT INTO grid_snapshots (
			snapshot_id, run_id, grid_rows, grid_cols, resolution,
			origin_x, origin_y, layer_names, layers_blob, created_ns
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		id,
		nullString(runID),
		snap.Rows,
		snap.Cols,
		snap.Resolution,
		snap.OriginX,
		snap.OriginY,
		string(names),
		snap.LayersBlob,
		s.now().UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("insert snapshot: %w", err)
	}
	return id, nil
}

const snapshotColumns = `
	snapshot_id, run_id, grid_rows, grid_cols, resolution,
	origin_x, origin_y, layer_names, layers_blob, created_ns`

// Get returns the snapshot with the given ID, or sql.ErrNoRows.
func (s *SnapshotStore) Get(snapshotID string) (*SnapshotRecord, error) {
	row := s.db.QueryRow(`SELECT `+snapshotColumns+` FROM grid_snapshots WHERE snapshot_id = ?`, snapshotID)
	rec, err := scanSnapshot(row)
	if err != nil {
		return nil, fmt.Errorf("get snapshot %s: %w", snapshotID, err)
	}
	return rec, nil
}

// LatestForRun returns the most recent snapshot taken for runID, or
// sql.ErrNoRows.
func (s *SnapshotStore) LatestForRun(runID string) (*SnapshotRecord, error) {
	row := s.db.QueryRow(`SELECT `+snapshotColumns+` FROM grid_snapshots
		WHERE run_id = ?
		ORDER BY created_ns DESC
		LIMIT 1`, runID)
	rec, err := scanSnapshot(row)
	if err != nil {
		return nil, fmt.Errorf("latest snapshot for run %s: %w", runID, err)
	}
	return rec, nil
}

func scanSnapshot(row *sql.Row) (*SnapshotRecord, error) {
	rec := &SnapshotRecord{Snapshot: &gridmap.Snapshot{}}
	snap := rec.Snapshot
	var runID sql.NullString
	var names string
	var createdNs int64
	err := row.Scan(
		&rec.SnapshotID, &runID, &snap.Rows, &snap.Cols, &snap.Resolution,
		&snap.OriginX, &snap.OriginY, &names, &snap.LayersBlob, &createdNs,
	)
	if err != nil {
		return nil, err
	}
	if runID.Valid {
		rec.RunID = runID.String
	}
	rec.CreatedAt = time.Unix(0, createdNs)
	if err := json.Unmarshal([]byte(names), &snap.LayerNames); err != nil {
		return nil, fmt.Errorf("decode layer names: %w", err)
	}
	return rec, nil
}
