// Package storage provides SQLite-based persistence for run results and
// user tuning overrides. Uses the pure-Go modernc.org/sqlite driver to
// avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/runtime-zero/internal/config"
	"github.com/vovakirdan/runtime-zero/internal/sim"
)

// timeLayout is fixed-width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// StageStats contains aggregated statistics for one stage.
type StageStats struct {
	StageID    string
	Runs       int
	Clears     int
	BestScore  int
	BestTimeMs float64 // fastest clear; 0 if never cleared
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			stage_id TEXT NOT NULL,
			stage_name TEXT NOT NULL DEFAULT '',
			success INTEGER NOT NULL,
			reason TEXT NOT NULL,
			elapsed_ms REAL NOT NULL,
			difficulty TEXT NOT NULL,
			mirror INTEGER NOT NULL DEFAULT 0,
			cycles INTEGER NOT NULL DEFAULT 0,
			gems INTEGER NOT NULL DEFAULT 0,
			gems_total INTEGER NOT NULL DEFAULT 0,
			hits INTEGER NOT NULL DEFAULT 0,
			backups_used INTEGER NOT NULL DEFAULT 0,
			score INTEGER NOT NULL,
			rank TEXT NOT NULL,
			finished_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_stage ON runs(stage_id);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(stage_id, score DESC, elapsed_ms ASC);
		CREATE INDEX IF NOT EXISTS idx_runs_finished ON runs(finished_at);

		CREATE TABLE IF NOT EXISTS tuning_overrides (
			difficulty TEXT NOT NULL,
			key TEXT NOT NULL,
			value REAL NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (difficulty, key)
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a finished run. Saving the same run id twice replaces
// the earlier row.
func (s *Store) SaveRun(r sim.RunResult) error {
	if r.RunID == uuid.Nil {
		return errors.New("storage: cannot save run: missing run id")
	}
	finished := r.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}

	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO runs
		 (run_id, stage_id, stage_name, success, reason, elapsed_ms, difficulty, mirror,
		  cycles, gems, gems_total, hits, backups_used, score, rank, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID.String(),
		r.StageID,
		r.StageName,
		r.Success,
		string(r.Reason),
		r.ElapsedMs,
		string(r.Difficulty),
		r.Mirror,
		r.Cycles,
		r.Gems,
		r.GemsTotal,
		r.Hits,
		r.BackupsUsed,
		r.Score,
		string(r.Rank),
		finished.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save run: %w", err)
	}
	return nil
}

const runColumns = `run_id, stage_id, stage_name, success, reason, elapsed_ms, difficulty, mirror,
	cycles, gems, gems_total, hits, backups_used, score, rank, finished_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (sim.RunResult, error) {
	var (
		r                      sim.RunResult
		id, reason, diff, rank string
		finished               string
	)
	err := row.Scan(
		&id,
		&r.StageID,
		&r.StageName,
		&r.Success,
		&reason,
		&r.ElapsedMs,
		&diff,
		&r.Mirror,
		&r.Cycles,
		&r.Gems,
		&r.GemsTotal,
		&r.Hits,
		&r.BackupsUsed,
		&r.Score,
		&rank,
		&finished,
	)
	if err != nil {
		return r, err
	}

	if r.RunID, err = uuid.Parse(id); err != nil {
		return r, fmt.Errorf("bad run id %q: %w", id, err)
	}
	r.Reason = sim.Reason(reason)
	r.Difficulty = config.Difficulty(diff)
	r.Rank = sim.Rank(rank)
	if t, err := time.Parse(timeLayout, finished); err == nil {
		r.FinishedAt = t
	}
	return r, nil
}

func (s *Store) queryRuns(query string, args ...any) ([]sim.RunResult, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []sim.RunResult
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// RunByID retrieves a run by its id. Returns nil if it does not exist.
func (s *Store) RunByID(id uuid.UUID) (*sim.RunResult, error) {
	r, err := scanRun(s.db.QueryRow(
		`SELECT `+runColumns+` FROM runs WHERE run_id = ?`,
		id.String(),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return &r, nil
}

// TopRuns retrieves the best N runs for the given stage.
// Results are ordered by score descending, then by elapsed time.
func (s *Store) TopRuns(stageID string, limit int) ([]sim.RunResult, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE stage_id = ?
		 ORDER BY score DESC, elapsed_ms ASC
		 LIMIT ?`,
		stageID, limit,
	)
}

// RecentRuns retrieves the most recently finished runs across all stages.
func (s *Store) RecentRuns(limit int) ([]sim.RunResult, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRuns(
		`SELECT `+runColumns+`
		 FROM runs
		 ORDER BY finished_at DESC
		 LIMIT ?`,
		limit,
	)
}

// BestScore returns the highest score for the given stage.
// Returns 0 if no runs exist.
func (s *Store) BestScore(stageID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM runs WHERE stage_id = ?",
		stageID,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query best score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// ClearRuns deletes all runs for the given stage.
func (s *Store) ClearRuns(stageID string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE stage_id = ?", stageID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// AllStageStats retrieves statistics for every stage that has been played.
func (s *Store) AllStageStats() (map[string]*StageStats, error) {
	rows, err := s.db.Query(
		`SELECT stage_id, COUNT(*), SUM(success), MAX(score),
		        COALESCE(MIN(CASE WHEN success = 1 THEN elapsed_ms END), 0),
		        MAX(finished_at)
		 FROM runs
		 GROUP BY stage_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stage stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*StageStats)
	for rows.Next() {
		var st StageStats
		var last string
		if err := rows.Scan(&st.StageID, &st.Runs, &st.Clears, &st.BestScore, &st.BestTimeMs, &last); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		if t, err := time.Parse(timeLayout, last); err == nil {
			st.LastPlayed = t
		}
		stats[st.StageID] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// SaveOverride stores one user tuning override for a difficulty and
// returns the value as stored (clamped and snapped to the field's range).
func (s *Store) SaveOverride(d config.Difficulty, key string, v float64) (float64, error) {
	f, ok := config.FieldByKey(key)
	if !ok {
		return 0, fmt.Errorf("storage: %w", config.ValidateOverrideKey(key))
	}
	stored := f.ClampAndSnap(v)
	_, err := s.db.Exec(
		`INSERT INTO tuning_overrides (difficulty, key, value, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(difficulty, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		string(d), key, stored, time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save override: %w", err)
	}
	return stored, nil
}

// SaveOverrides replaces every stored override for d with o.
func (s *Store) SaveOverrides(d config.Difficulty, o config.TuningOverride) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec("DELETE FROM tuning_overrides WHERE difficulty = ?", string(d)); err != nil {
		return fmt.Errorf("storage: cannot reset overrides: %w", err)
	}
	now := time.Now().UTC().Format(timeLayout)
	for key, v := range config.SanitizeOverride(o) {
		if _, err := tx.Exec(
			"INSERT INTO tuning_overrides (difficulty, key, value, updated_at) VALUES (?, ?, ?, ?)",
			string(d), key, v, now,
		); err != nil {
			return fmt.Errorf("storage: cannot save override %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit overrides: %w", err)
	}
	return nil
}

// Overrides loads the user override layer for d. Rows for keys that are
// no longer editable are skipped.
func (s *Store) Overrides(d config.Difficulty) (config.TuningOverride, error) {
	rows, err := s.db.Query(
		"SELECT key, value FROM tuning_overrides WHERE difficulty = ?",
		string(d),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query overrides: %w", err)
	}
	defer rows.Close()

	o := make(config.TuningOverride)
	for rows.Next() {
		var key string
		var v float64
		if err := rows.Scan(&key, &v); err != nil {
			return nil, fmt.Errorf("storage: cannot scan override: %w", err)
		}
		o[key] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return config.SanitizeOverride(o), nil
}

// ResetOverrides deletes the stored overrides for d.
func (s *Store) ResetOverrides(d config.Difficulty) error {
	_, err := s.db.Exec("DELETE FROM tuning_overrides WHERE difficulty = ?", string(d))
	if err != nil {
		return fmt.Errorf("storage: cannot reset overrides: %w", err)
	}
	return nil
}
