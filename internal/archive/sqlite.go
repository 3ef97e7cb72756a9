// Package archive persists store snapshots between runs.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rcliao/memsift/internal/model"
)

// SQLite stores snapshots in a single-file database.
type SQLite struct {
	db *sql.DB
}

// Open opens or creates the archive database at the given path.
func Open(dbPath string) (*SQLite, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	a := &SQLite{db: db}
	if err := a.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return a, nil
}

func (a *SQLite) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		id           TEXT PRIMARY KEY,
		type         TEXT NOT NULL,
		original     TEXT NOT NULL,
		reduced      TEXT NOT NULL,
		ratio        REAL NOT NULL,
		importance   REAL NOT NULL,
		entities     TEXT,
		context      TEXT,
		created_at   TEXT NOT NULL,
		access_count INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_records_created ON records(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_records_type ON records(type);

	CREATE TABLE IF NOT EXISTS meta (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := a.db.Exec(schema)
	return err
}

// Save replaces archive contents with the snapshot in one transaction.
func (a *SQLite) Save(ctx context.Context, recs []*model.Record, evicted uint64) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return err
	}

	for _, r := range recs {
		var entities, rctx *string
		if len(r.Entities) > 0 {
			b, _ := json.Marshal(r.Entities)
			s := string(b)
			entities = &s
		}
		if len(r.Context) > 0 {
			b, _ := json.Marshal(r.Context)
			s := string(b)
			rctx = &s
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO records (id, type, original, reduced, ratio, importance, entities, context, created_at, access_count)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, string(r.Type), r.Original, r.Reduced, r.Ratio, r.Importance,
			entities, rctx, r.CreatedAt.UTC().Format(time.RFC3339Nano), r.AccessCount)
		if err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES ('evicted', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		strconv.FormatUint(evicted, 10))
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Load returns archived records in ID order plus the eviction counter.
// A fresh database yields an empty slice and zero.
func (a *SQLite) Load(ctx context.Context) ([]*model.Record, uint64, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT id, type, original, reduced, ratio, importance, entities, context, created_at, access_count
		 FROM records ORDER BY id`)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var recs []*model.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		recs = append(recs, r)
	}

	var evicted uint64
	var raw string
	err = a.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'evicted'`).Scan(&raw)
	switch {
	case err == nil:
		evicted, _ = strconv.ParseUint(raw, 10, 64)
	case !errors.Is(err, sql.ErrNoRows):
		return nil, 0, err
	}

	return recs, evicted, nil
}

// Close closes the database.
func (a *SQLite) Close() error {
	return a.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scanner) (*model.Record, error) {
	var r model.Record
	var typ, createdAt string
	var entities, rctx sql.NullString

	err := row.Scan(&r.ID, &typ, &r.Original, &r.Reduced, &r.Ratio, &r.Importance,
		&entities, &rctx, &createdAt, &r.AccessCount)
	if err != nil {
		return nil, err
	}

	r.Type = model.ContentType(typ)
	r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	if entities.Valid {
		json.Unmarshal([]byte(entities.String), &r.Entities)
	}
	if rctx.Valid {
		json.Unmarshal([]byte(rctx.String), &r.Context)
	}

	return &r, nil
}
