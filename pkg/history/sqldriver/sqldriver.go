// Package sqldriver implements history.Driver over database/sql using ent's
// dialect aware query builder. The sqlite and postgres packages open the
// connection and hand it to New.
package sqldriver

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/papercomputeco/aiscore/pkg/detect"
	"github.com/papercomputeco/aiscore/pkg/history"
)

const (
	table = "analyses"

	colID        = "id"
	colProvider  = "provider"
	colAIScore   = "ai_score"
	colWordCount = "word_count"
	colCharCount = "char_count"
	colDuration  = "duration_ns"
	colCreatedAt = "created_at"
)

var columns = []string{colID, colProvider, colAIScore, colWordCount, colCharCount, colDuration, colCreatedAt}

// schema holds the append-only migrations per dialect.
var schema = map[string][]string{
	dialect.SQLite: {
		`CREATE TABLE IF NOT EXISTS analyses (
			id TEXT PRIMARY KEY,
			provider TEXT NOT NULL,
			ai_score REAL NOT NULL,
			word_count INTEGER NOT NULL,
			char_count INTEGER NOT NULL,
			duration_ns INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS analyses_created_at ON analyses (created_at)`,
	},
	dialect.Postgres: {
		`CREATE TABLE IF NOT EXISTS analyses (
			id VARCHAR(36) PRIMARY KEY,
			provider VARCHAR(32) NOT NULL,
			ai_score DOUBLE PRECISION NOT NULL,
			word_count INTEGER NOT NULL,
			char_count INTEGER NOT NULL,
			duration_ns BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS analyses_created_at ON analyses (created_at)`,
	},
}

// row mirrors the analyses table for scanning.
type row struct {
	ID         string    `sql:"id"`
	Provider   string    `sql:"provider"`
	AIScore    float64   `sql:"ai_score"`
	WordCount  int64     `sql:"word_count"`
	CharCount  int64     `sql:"char_count"`
	DurationNS int64     `sql:"duration_ns"`
	CreatedAt  time.Time `sql:"created_at"`
}

func (r row) record() *history.Record {
	return &history.Record{
		ID:        r.ID,
		Provider:  detect.ProviderID(r.Provider),
		AIScore:   r.AIScore,
		WordCount: int(r.WordCount),
		CharCount: int(r.CharCount),
		Duration:  time.Duration(r.DurationNS),
		CreatedAt: r.CreatedAt.UTC(),
	}
}

// Driver implements history.Driver for SQL databases.
type Driver struct {
	drv     *entsql.Driver
	dialect string
}

// New wraps db for the given ent dialect and applies the schema.
func New(ctx context.Context, dialectName string, db *sql.DB) (*Driver, error) {
	stmts, ok := schema[dialectName]
	if !ok {
		return nil, fmt.Errorf("unsupported history dialect: %s", dialectName)
	}

	d := &Driver{
		drv:     entsql.OpenDB(dialectName, db),
		dialect: dialectName,
	}

	for _, stmt := range stmts {
		if err := d.drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return d, nil
}

// Put inserts rec. Writing an id that already exists is a no-op.
func (d *Driver) Put(ctx context.Context, rec *history.Record) error {
	if rec == nil {
		return history.ErrNilRecord
	}

	query, args := entsql.Dialect(d.dialect).
		Insert(table).
		Columns(columns...).
		Values(
			rec.ID,
			string(rec.Provider),
			rec.AIScore,
			rec.WordCount,
			rec.CharCount,
			int64(rec.Duration),
			rec.CreatedAt.UTC(),
		).
		OnConflict(entsql.ConflictColumns(colID), entsql.DoNothing()).
		Query()

	if err := d.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("inserting record: %w", err)
	}
	return nil
}

// Get retrieves a record by id.
func (d *Driver) Get(ctx context.Context, id string) (*history.Record, error) {
	query, args := entsql.Dialect(d.dialect).
		Select(columns...).
		From(entsql.Table(table)).
		Where(entsql.EQ(colID, id)).
		Limit(1).
		Query()

	rows, err := d.query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, history.NotFoundError{ID: id}
	}

	return rows[0].record(), nil
}

// List returns up to limit records, most recent first.
func (d *Driver) List(ctx context.Context, limit int) ([]*history.Record, error) {
	query, args := entsql.Dialect(d.dialect).
		Select(columns...).
		From(entsql.Table(table)).
		OrderBy(entsql.Desc(colCreatedAt), entsql.Desc(colID)).
		Limit(history.NormalizeLimit(limit)).
		Query()

	rows, err := d.query(ctx, query, args)
	if err != nil {
		return nil, err
	}

	out := make([]*history.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.record())
	}
	return out, nil
}

func (d *Driver) query(ctx context.Context, query string, args []any) ([]row, error) {
	var rows entsql.Rows
	if err := d.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var out []row
	if err := entsql.ScanSlice(rows, &out); err != nil {
		return nil, fmt.Errorf("scanning records: %w", err)
	}
	return out, nil
}

// DB returns the underlying database handle.
func (d *Driver) DB() *sql.DB {
	return d.drv.DB()
}

// Close closes the underlying database.
func (d *Driver) Close() error {
	return d.drv.Close()
}
