// Package store is a SQLite ledger of spin outcomes, used to accumulate
// per-number hit counts across sessions.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

type Spin struct {
	ID        uuid.UUID `json:"id"`
	BatchID   uuid.UUID `json:"batch_id"` // uuid.Nil for single spins
	RunID     string    `json:"run_id"`
	Preset    string    `json:"preset"`
	Seed      int64     `json:"seed"`
	Number    int       `json:"number"`
	Pocket    int       `json:"pocket"`
	Ticks     int       `json:"ticks"`
	SubSteps  int       `json:"sub_steps"`
	Forced    bool      `json:"forced"`
	CreatedAt time.Time `json:"created_at"`
}

// Batch groups the spins of one ensemble run.
type Batch struct {
	ID        uuid.UUID `json:"id"`
	Preset    string    `json:"preset"`
	Runs      int       `json:"runs"`
	SeedStart int64     `json:"seed_start"`
	ChiSquare float64   `json:"chi_square"`
	CreatedAt time.Time `json:"created_at"`
}

type Ledger struct {
	db *sql.DB
}

// Open opens or creates the database at path and migrates it.
func Open(path string) (*Ledger, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // SQLite is not concurrent for writes
	l := &Ledger{db: db}
	if err := l.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return l, nil
}

func (l *Ledger) Close() error { return l.db.Close() }

// Migrate creates missing tables and indexes. It is idempotent.
func (l *Ledger) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS batches (
			id TEXT PRIMARY KEY,
			preset TEXT NOT NULL,
			runs INTEGER NOT NULL,
			seed_start INTEGER NOT NULL,
			chi_square REAL NOT NULL,
			created_at TIMESTAMP NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS spins (
			id TEXT PRIMARY KEY,
			batch_id TEXT,
			run_id TEXT NOT NULL DEFAULT '',
			preset TEXT NOT NULL,
			seed INTEGER NOT NULL,
			number INTEGER NOT NULL,
			pocket INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			sub_steps INTEGER NOT NULL,
			forced INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL,
			FOREIGN KEY(batch_id) REFERENCES batches(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_spins_created ON spins(created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_spins_preset_number ON spins(preset, number);`,
		`CREATE INDEX IF NOT EXISTS idx_spins_batch ON spins(batch_id);`,
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, q := range stmts {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertSpin(ctx context.Context, db execer, sp *Spin) error {
	if sp.ID == uuid.Nil {
		sp.ID = uuid.New()
	}
	if sp.CreatedAt.IsZero() {
		sp.CreatedAt = time.Now().UTC()
	}
	var batch any
	if sp.BatchID != uuid.Nil {
		batch = sp.BatchID.String()
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO spins(id, batch_id, run_id, preset, seed, number, pocket, ticks, sub_steps, forced, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sp.ID.String(), batch, sp.RunID, sp.Preset, sp.Seed, sp.Number, sp.Pocket,
		sp.Ticks, sp.SubSteps, sp.Forced, sp.CreatedAt)
	return err
}

// SaveSpin records one spin and returns its id.
func (l *Ledger) SaveSpin(ctx context.Context, sp Spin) (uuid.UUID, error) {
	if err := insertSpin(ctx, l.db, &sp); err != nil {
		return uuid.Nil, err
	}
	return sp.ID, nil
}

// SaveBatch records an ensemble and all its spins in one transaction.
func (l *Ledger) SaveBatch(ctx context.Context, b Batch, spins []Spin) (uuid.UUID, error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	b.Runs = len(spins)

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO batches(id, preset, runs, seed_start, chi_square, created_at)
		VALUES(?, ?, ?, ?, ?, ?)`,
		b.ID.String(), b.Preset, b.Runs, b.SeedStart, b.ChiSquare, b.CreatedAt)
	if err != nil {
		tx.Rollback()
		return uuid.Nil, err
	}
	for i := range spins {
		sp := spins[i]
		sp.BatchID = b.ID
		sp.CreatedAt = b.CreatedAt
		if sp.Preset == "" {
			sp.Preset = b.Preset
		}
		if err := insertSpin(ctx, tx, &sp); err != nil {
			tx.Rollback()
			return uuid.Nil, fmt.Errorf("spin seed %d: %w", sp.Seed, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return uuid.Nil, err
	}
	return b.ID, nil
}

// ListSpins returns the most recent spins first.
func (l *Ledger) ListSpins(ctx context.Context, limit int) ([]Spin, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, COALESCE(batch_id, ''), run_id, preset, seed, number, pocket, ticks, sub_steps, forced, created_at
		FROM spins ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Spin
	for rows.Next() {
		var (
			sp             Spin
			idStr, batchID string
		)
		if err := rows.Scan(&idStr, &batchID, &sp.RunID, &sp.Preset, &sp.Seed, &sp.Number, &sp.Pocket,
			&sp.Ticks, &sp.SubSteps, &sp.Forced, &sp.CreatedAt); err != nil {
			return nil, err
		}
		if sp.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("spin id %q: %w", idStr, err)
		}
		if batchID != "" {
			if sp.BatchID, err = uuid.Parse(batchID); err != nil {
				return nil, fmt.Errorf("batch id %q: %w", batchID, err)
			}
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

// ListBatches returns the most recent ensembles first.
func (l *Ledger) ListBatches(ctx context.Context, limit int) ([]Batch, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, preset, runs, seed_start, chi_square, created_at
		FROM batches ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Batch
	for rows.Next() {
		var (
			b     Batch
			idStr string
		)
		if err := rows.Scan(&idStr, &b.Preset, &b.Runs, &b.SeedStart, &b.ChiSquare, &b.CreatedAt); err != nil {
			return nil, err
		}
		if b.ID, err = uuid.Parse(idStr); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Counts returns hits per number, optionally restricted to some presets.
func (l *Ledger) Counts(ctx context.Context, presets ...string) (map[int]int, error) {
	q := `SELECT number, COUNT(*) FROM spins`
	args := make([]any, 0, len(presets))
	if len(presets) > 0 {
		q += ` WHERE preset IN (?` + strings.Repeat(", ?", len(presets)-1) + `)`
		for _, p := range presets {
			args = append(args, p)
		}
	}
	q += ` GROUP BY number`

	rows, err := l.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var n, c int
		if err := rows.Scan(&n, &c); err != nil {
			return nil, err
		}
		counts[n] = c
	}
	return counts, rows.Err()
}
