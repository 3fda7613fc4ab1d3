package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/i474232898/geoflix/internal/recommend"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS records (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL,
	condition TEXT NOT NULL,
	temperature REAL NOT NULL,
	category TEXT NOT NULL,
	city TEXT NOT NULL,
	created_at TEXT NOT NULL
);`

// SQLiteStore keeps the log in an embedded SQLite table (pure Go driver modernc.org/sqlite).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and applies the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One connection serialises writers and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		log.Printf("WARN: could not set WAL mode: %v", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Append inserts r as the newest row.
func (s *SQLiteStore) Append(ctx context.Context, r recommend.Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO records(id, condition, temperature, category, city, created_at) VALUES(?,?,?,?,?,?)`,
		r.ID, r.Condition, r.Temperature, string(r.Category), r.City, r.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// All returns every row in insertion order.
func (s *SQLiteStore) All(ctx context.Context) ([]recommend.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, condition, temperature, category, city, created_at FROM records ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []recommend.Record
	for rows.Next() {
		var (
			r   recommend.Record
			cat string
			ts  string
		)
		if err := rows.Scan(&r.ID, &r.Condition, &r.Temperature, &cat, &r.City, &ts); err != nil {
			return nil, fmt.Errorf("%w: scan record: %v", recommend.ErrCorruptStore, err)
		}
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("%w: record %s: invalid created_at %q", recommend.ErrCorruptStore, r.ID, ts)
		}
		r.Category = recommend.Category(cat)
		r.CreatedAt = t
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
