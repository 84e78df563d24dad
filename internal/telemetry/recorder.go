// Package telemetry persists census series to SQLite.
package telemetry

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"protocell/internal/sims/protocell"
)

var schema = []string{`
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	seed INTEGER NOT NULL,
	width INTEGER NOT NULL,
	height INTEGER NOT NULL,
	started_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
)`, `
CREATE TABLE IF NOT EXISTS census (
	run TEXT NOT NULL REFERENCES runs(id),
	tick INTEGER NOT NULL,
	sim_time REAL NOT NULL,
	population INTEGER NOT NULL,
	births INTEGER NOT NULL,
	deaths INTEGER NOT NULL,
	lineages INTEGER NOT NULL,
	dominant_lineage INTEGER NOT NULL,
	mean_energy REAL NOT NULL,
	mean_enzymes REAL NOT NULL,
	free_molecules INTEGER NOT NULL,
	internal_molecules INTEGER NOT NULL,
	mean_temperature REAL NOT NULL,
	mean_solute REAL NOT NULL,
	PRIMARY KEY (run, tick)
)`}

// Recorder writes census rows for one or more runs.
type Recorder struct {
	db *sql.DB
}

// Open creates or opens the database at path.
func Open(path string) (*Recorder, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	for _, table := range schema {
		if _, err := db.Exec(table); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return &Recorder{db: db}, nil
}

// Close releases the database.
func (r *Recorder) Close() error { return r.db.Close() }

// BeginRun registers a run and returns its id.
func (r *Recorder) BeginRun(ctx context.Context, cfg protocell.Config) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO runs (id, seed, width, height) VALUES (?, ?, ?, ?)`,
		id, cfg.Seed, cfg.Width, cfg.Height)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// Record stores c under run. Re-recording a tick replaces the row.
func (r *Recorder) Record(ctx context.Context, run string, c protocell.Census) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO census (
			run, tick, sim_time, population, births, deaths, lineages, dominant_lineage,
			mean_energy, mean_enzymes, free_molecules, internal_molecules,
			mean_temperature, mean_solute
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run, int64(c.Tick), c.Time, c.Population, c.Births, c.Deaths, c.Lineages,
		int64(c.DominantLineage), c.MeanEnergy, c.MeanEnzymes, c.FreeMolecules,
		c.InternalMolecules, c.MeanTemperature, c.MeanSolute)
	if err != nil {
		return fmt.Errorf("insert census tick %d: %w", c.Tick, err)
	}
	return nil
}

// Series returns the recorded censuses of run in tick order.
func (r *Recorder) Series(ctx context.Context, run string) ([]protocell.Census, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT tick, sim_time, population, births, deaths, lineages, dominant_lineage,
			mean_energy, mean_enzymes, free_molecules, internal_molecules,
			mean_temperature, mean_solute
		FROM census WHERE run = ? ORDER BY tick`, run)
	if err != nil {
		return nil, fmt.Errorf("query census: %w", err)
	}
	defer rows.Close()

	var out []protocell.Census
	for rows.Next() {
		var c protocell.Census
		var tick, lineage int64
		if err := rows.Scan(&tick, &c.Time, &c.Population, &c.Births, &c.Deaths, &c.Lineages,
			&lineage, &c.MeanEnergy, &c.MeanEnzymes, &c.FreeMolecules, &c.InternalMolecules,
			&c.MeanTemperature, &c.MeanSolute); err != nil {
			return nil, fmt.Errorf("scan census: %w", err)
		}
		c.Tick, c.DominantLineage = uint64(tick), uint64(lineage)
		out = append(out, c)
	}
	return out, rows.Err()
}

// Runs lists run ids, oldest first.
func (r *Recorder) Runs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM runs ORDER BY started_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
