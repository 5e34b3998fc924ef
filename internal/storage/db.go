package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"mizan/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS products (
  slug TEXT PRIMARY KEY,
  position INTEGER NOT NULL,
  name TEXT NOT NULL,
  brand TEXT,
  category TEXT,
  category_slug TEXT,
  nutrients_json TEXT NOT NULL,
  raw_json TEXT NOT NULL,
  lastSeenAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_products_category_slug ON products(category_slug);
CREATE INDEX IF NOT EXISTS idx_products_brand ON products(brand);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL UNIQUE,
  inputPath TEXT NOT NULL,
  outputPath TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  timingsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// ReplaceProducts swaps the stored snapshot for products in one transaction.
func (d *DB) ReplaceProducts(ctx context.Context, products []internal.Product) error {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO products (slug, position, name, brand, category, category_slug, nutrients_json, raw_json, lastSeenAt)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
`)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for i, p := range products {
		nutrientsJSON, err := json.Marshal(p.Nutrients)
		if err != nil {
			return fmt.Errorf("marshal nutrients for %s: %w", p.Slug, err)
		}
		rawJSON, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshal product %s: %w", p.Slug, err)
		}
		if _, err := stmt.ExecContext(ctx,
			p.Slug, i, p.Name, p.Brand, p.Category, p.CategorySlug, string(nutrientsJSON), string(rawJSON),
		); err != nil {
			return fmt.Errorf("insert %s: %w", p.Slug, err)
		}
	}

	return tx.Commit()
}

// ListProducts returns the stored snapshot in insertion order.
func (d *DB) ListProducts(ctx context.Context) ([]internal.Product, error) {
	rows, err := d.conn.QueryContext(ctx, `SELECT slug, raw_json FROM products ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.Product
	for rows.Next() {
		var slug, rawJSON string
		if err := rows.Scan(&slug, &rawJSON); err != nil {
			return nil, err
		}
		var p internal.Product
		if err := json.Unmarshal([]byte(rawJSON), &p); err != nil {
			return nil, fmt.Errorf("decode stored product %s: %w", slug, err)
		}
		p.Slug = slug
		out = append(out, p)
	}
	return out, rows.Err()
}

// RunRecord is one recorded cleanup run. Counts is stored as JSON.
type RunRecord struct {
	ID         int
	TraceID    string
	InputPath  string
	OutputPath string
	Counts     any
	CountsJSON string
	TotalMs    float64
	CreatedAt  string
}

func (d *DB) InsertRun(ctx context.Context, run RunRecord) error {
	countsJSON, err := json.Marshal(run.Counts)
	if err != nil {
		return err
	}
	timingsJSON, _ := json.Marshal(map[string]float64{"totalMs": run.TotalMs})
	_, err = d.conn.ExecContext(ctx, `
INSERT INTO runs (traceId, inputPath, outputPath, countsJson, timingsJson) VALUES (?, ?, ?, ?, ?)
`, run.TraceID, run.InputPath, run.OutputPath, string(countsJSON), string(timingsJSON))
	return err
}

// ListRuns returns the most recent runs first.
func (d *DB) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := d.conn.QueryContext(ctx, `
SELECT id, traceId, inputPath, outputPath, countsJson, timingsJson, createdAt
FROM runs ORDER BY id DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var run RunRecord
		var timingsJSON string
		if err := rows.Scan(&run.ID, &run.TraceID, &run.InputPath, &run.OutputPath, &run.CountsJSON, &timingsJSON, &run.CreatedAt); err != nil {
			return nil, err
		}
		var timings map[string]float64
		_ = json.Unmarshal([]byte(timingsJSON), &timings)
		run.TotalMs = timings["totalMs"]
		out = append(out, run)
	}
	return out, rows.Err()
}

func (d *DB) SetMetadata(ctx context.Context, key, value string) error {
	_, err := d.conn.ExecContext(ctx, `
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(ctx context.Context, key string) (*string, error) {
	var value string
	err := d.conn.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
