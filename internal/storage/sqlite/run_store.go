package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/banshee-data/rastergrid/internal/bench"
	"github.com/google/uuid"
)

// BenchRun is one persisted benchmark run.
type BenchRun struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	MapRows    int       `json:"map_rows"`
	MapCols    int       `json:"map_cols"`
	StreetRows int       `json:"street_rows"`
	StreetCols int       `json:"street_cols"`
	Repeat     int       `json:"repeat"`
	ConfigJSON []byte    `json:"config_json,omitempty"`
}

// BenchResult is one variant's outcome within a run.
type BenchResult struct {
	RunID       string        `json:"run_id"`
	Seq         int           `json:"seq"`
	Variant     string        `json:"variant"`
	Description string        `json:"description"`
	Options     string        `json:"options"`
	Repetitions int           `json:"repetitions"`
	Best        time.Duration `json:"best_ns"`
	Mean        time.Duration `json:"mean_ns"`
	Cells       int           `json:"cells"`
	Missed      int           `json:"missed"`
	Error       string        `json:"error,omitempty"`
}

// RunStore provides persistence for benchmark runs and their results.
type RunStore struct {
	db *sql.DB
}

// NewRunStore creates a new RunStore.
func NewRunStore(db *sql.DB) *RunStore {
	return &RunStore{db: db}
}

// InsertRun stores run and all of its results in one transaction. If
// run.ID is empty, a new UUID is generated and written back.
func (s *RunStore) InsertRun(run *bench.Run, repeat int, configJSON []byte) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO bench_runs (
			run_id, started_ns, map_rows, map_cols,
			street_rows, street_cols, repeat_count, config_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.StartedAt.UnixNano(),
		run.MapSize.Rows,
		run.MapSize.Cols,
		run.StreetSize.Rows,
		run.StreetSize.Cols,
		repeat,
		nullBytes(configJSON),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, r := range run.Results {
		var errText string
		if r.Err != nil {
			errText = r.Err.Error()
		}
		_, err := tx.Exec(`
			INSERT INTO bench_results (
				run_id, seq, variant, description, options, repetitions,
				best_ns, mean_ns, cells, missed, error
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			run.ID,
			i,
			r.Variant.Name,
			r.Variant.Description,
			r.Variant.Options.String(),
			len(r.Durations),
			int64(r.Best()),
			int64(r.Mean()),
			r.Stats.Cells,
			r.Stats.Missed,
			nullString(errText),
		)
		if err != nil {
			return fmt.Errorf("insert result %s: %w", r.Variant.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetRun returns the run with the given ID, or sql.ErrNoRows.
func (s *RunStore) GetRun(runID string) (*BenchRun, error) {
	r := &BenchRun{}
	var startedNs int64
	var configJSON []byte
	err := s.db.QueryRow(`
		SELECT run_id, started_ns, map_rows, map_cols,
		       street_rows, street_cols, repeat_count, config_json
		FROM bench_runs
		WHERE run_id = ?
	`, runID).Scan(
		&r.RunID, &startedNs, &r.MapRows, &r.MapCols,
		&r.StreetRows, &r.StreetCols, &r.Repeat, &configJSON,
	)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}
	r.StartedAt = time.Unix(0, startedNs)
	r.ConfigJSON = configJSON
	return r, nil
}

// ListRuns returns up to limit runs, most recent first.
func (s *RunStore) ListRuns(limit int) ([]*BenchRun, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(`
		SELECT run_id, started_ns, map_rows, map_cols,
		       street_rows, street_cols, repeat_count, config_json
		FROM bench_runs
		ORDER BY started_ns DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*BenchRun
	for rows.Next() {
		r := &BenchRun{}
		var startedNs int64
		var configJSON []byte
		if err := rows.Scan(&r.RunID, &startedNs, &r.MapRows, &r.MapCols, &r.StreetRows, &r.StreetCols, &r.Repeat, &configJSON); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt = time.Unix(0, startedNs)
		r.ConfigJSON = configJSON
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ListResults returns the results of a run in the order they ran.
func (s *RunStore) ListResults(runID string) ([]*BenchResult, error) {
	rows, err := s.db.Query(`
		SELECT run_id, seq, variant, description, options, repetitions,
		       best_ns, mean_ns, cells, missed, error
		FROM bench_results
		WHERE run_id = ?
		ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var results []*BenchResult
	for rows.Next() {
		r := &BenchResult{}
		var bestNs, meanNs int64
		var errText sql.NullString
		err := rows.Scan(
			&r.RunID, &r.Seq, &r.Variant, &r.Description, &r.Options, &r.Repetitions,
			&bestNs, &meanNs, &r.Cells, &r.Missed, &errText,
		)
		if err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.Best = time.Duration(bestNs)
		r.Mean = time.Duration(meanNs)
		if errText.Valid {
			r.Error = errText.String
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// DeleteRun removes a run together with its results and snapshots.
func (s *RunStore) DeleteRun(runID string) error {
	result, err := s.db.Exec("DELETE FROM bench_runs WHERE run_id = ?", runID)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete run rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullBytes(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
