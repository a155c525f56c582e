// Package catalog stores completed discovery runs in a SQLite database so
// they can be listed and reloaded later.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/bamsammich/sieve/internal/discovery"
	"github.com/bamsammich/sieve/internal/stats"
)

// ErrNotFound is returned by Load for an unknown run ID.
var ErrNotFound = errors.New("run not found")

// rootSep separates root paths in the runs table; it cannot occur in a path.
const rootSep = "\x00"

// Run describes one stored discovery.
type Run struct {
	Started   time.Time
	ID        string
	Roots     []string
	Entries   int
	Files     int64
	Bytes     int64
	Recursive bool
}

// Catalog is a SQLite-backed store of discovery runs.
type Catalog struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the catalog database at path.
func Open(path string) (*Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create catalog dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open catalog db: %w", err)
	}

	c := &Catalog{db: db, path: path}
	if err := c.init(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Catalog) init() error {
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id        TEXT PRIMARY KEY,
			started   INTEGER NOT NULL,
			roots     TEXT NOT NULL,
			recursive INTEGER NOT NULL,
			entries   INTEGER NOT NULL,
			files     INTEGER NOT NULL,
			bytes     INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS entries (
			run_id     TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq        INTEGER NOT NULL,
			path       TEXT NOT NULL,
			root       TEXT NOT NULL,
			is_dir     INTEGER NOT NULL,
			is_regular INTEGER NOT NULL,
			is_symlink INTEGER NOT NULL,
			size       INTEGER NOT NULL,
			mode       INTEGER NOT NULL,
			mtime      INTEGER NOT NULL,
			PRIMARY KEY (run_id, seq)
		);
	`)
	if err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (c *Catalog) Path() string { return c.path }

// Save stores res as a new run in a single transaction and returns it.
func (c *Catalog) Save(
	ctx context.Context,
	roots []string,
	recursive bool,
	res *discovery.Result,
	snap stats.Snapshot,
) (Run, error) {
	run := Run{
		ID:        uuid.NewString(),
		Started:   time.Now().Add(-snap.Elapsed).UTC(),
		Roots:     roots,
		Recursive: recursive,
		Entries:   res.Len(),
		Files:     snap.Files,
		Bytes:     snap.Bytes,
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx,
		"INSERT INTO runs (id, started, roots, recursive, entries, files, bytes) VALUES (?, ?, ?, ?, ?, ?, ?)",
		run.ID, run.Started.UnixNano(), strings.Join(roots, rootSep), recursive, run.Entries, run.Files, run.Bytes,
	)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO entries
		(run_id, seq, path, root, is_dir, is_regular, is_symlink, size, mode, mtime)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Run{}, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	seq := 0
	for p, a := range res.All() {
		_, err := stmt.ExecContext(ctx,
			run.ID, seq, p.Name, p.Root, a.IsDir, a.IsRegular, a.IsSymlink,
			a.Size, uint32(a.Mode), a.ModTime.UnixNano(),
		)
		if err != nil {
			return Run{}, fmt.Errorf("insert %s: %w", p.Name, err)
		}
		seq++
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("commit: %w", err)
	}
	return run, nil
}

// Runs lists stored runs, newest first.
func (c *Catalog) Runs(ctx context.Context) ([]Run, error) {
	rows, err := c.db.QueryContext(ctx,
		"SELECT id, started, roots, recursive, entries, files, bytes FROM runs ORDER BY started DESC, id")
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Load rebuilds the result of run id in the order it was discovered.
func (c *Catalog) Load(ctx context.Context, id string) (Run, *discovery.Result, error) {
	run, err := scanRun(c.db.QueryRowContext(ctx,
		"SELECT id, started, roots, recursive, entries, files, bytes FROM runs WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Run{}, nil, err
	}

	rows, err := c.db.QueryContext(ctx, `SELECT path, root, is_dir, is_regular, is_symlink, size, mode, mtime
		FROM entries WHERE run_id = ? ORDER BY seq`, id)
	if err != nil {
		return Run{}, nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	res := discovery.NewResult()
	for rows.Next() {
		var (
			p     discovery.Path
			a     discovery.Attributes
			mode  uint32
			mtime int64
		)
		if err := rows.Scan(&p.Name, &p.Root, &a.IsDir, &a.IsRegular, &a.IsSymlink, &a.Size, &mode, &mtime); err != nil {
			return Run{}, nil, fmt.Errorf("scan entry: %w", err)
		}
		a.Mode = os.FileMode(mode)
		a.ModTime = time.Unix(0, mtime)
		res.Put(p, a)
	}
	if err := rows.Err(); err != nil {
		return Run{}, nil, err
	}
	return run, res, nil
}

// Delete removes a run and its entries.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM entries WHERE run_id = ?", id); err != nil {
		return fmt.Errorf("delete entries: %w", err)
	}
	r, err := tx.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if n, _ := r.RowsAffected(); n == 0 { //nolint:errcheck // sqlite always reports rows affected
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return tx.Commit()
}

// Close closes the database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var (
		run     Run
		started int64
		roots   string
	)
	if err := s.Scan(&run.ID, &started, &roots, &run.Recursive, &run.Entries, &run.Files, &run.Bytes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Started = time.Unix(0, started).UTC()
	if roots != "" {
		run.Roots = strings.Split(roots, rootSep)
	}
	return run, nil
}
