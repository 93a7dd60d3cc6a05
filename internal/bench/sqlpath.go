package bench

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v4/stdlib"
)

// insertChunk keeps multi-row named inserts under driver bind-parameter
// limits.
const insertChunk = 500

// SQLPath is the driver path: raw SQL through sqlx on top of a database/sql
// driver ("pgx" in production, "sqlite" in tests).
type SQLPath struct {
	db     *sqlx.DB
	driver string
}

// NewSQLPath connects and caps the pool at maxConns so both paths run the
// same connection budget.
func NewSQLPath(driver, dsn string, maxConns int) (*SQLPath, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s, %w", driver, err)
	}

	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
		db.SetMaxIdleConns(maxConns)
	}

	return &SQLPath{db: db.Unsafe(), driver: driver}, nil
}

func (p *SQLPath) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *SQLPath) Reset(ctx context.Context) error {
	ddl := []string{`DROP TABLE IF EXISTS bench_storage`}

	switch p.driver {
	case "pgx", "postgres":
		ddl = append(ddl, `CREATE TABLE bench_storage (
			id serial PRIMARY KEY,
			short_val integer NOT NULL,
			long_val text
		)`)
	default:
		ddl = append(ddl, `CREATE TABLE bench_storage (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			short_val INTEGER NOT NULL,
			long_val TEXT
		)`)
	}

	for _, cmd := range ddl {
		if _, err := p.db.ExecContext(ctx, cmd); err != nil {
			return fmt.Errorf("reset table, %w", err)
		}
	}
	return nil
}

func (p *SQLPath) Seed(ctx context.Context, n int) error {
	return p.insertRows(ctx, sampleRows(n))
}

func (p *SQLPath) Do(ctx context.Context, c Category, opts Options) error {
	switch c {
	case ConcurrentSelect:
		query := p.db.Rebind(`SELECT id, short_val, long_val FROM bench_storage WHERE id = ?`)

		return forEach(ctx, opts.Workers, opts.Ops, func(ctx context.Context) error {
			row := &BenchRow{}

			err := p.db.GetContext(ctx, row, query, randomID(opts.SeedRows))
			if errors.Is(err, sql.ErrNoRows) {
				err = nil
			}
			return err
		})

	case ConcurrentUpdate:
		query := p.db.Rebind(`UPDATE bench_storage SET long_val = ? WHERE id = ?`)

		return forEach(ctx, opts.Workers, opts.Ops, func(ctx context.Context) error {
			_, err := p.db.ExecContext(ctx, query, "updated value", randomID(opts.SeedRows))
			return err
		})

	case BatchAdd:
		return p.insertRows(ctx, sampleRows(opts.Ops))

	case ConcurrentAdd:
		return forEach(ctx, opts.Workers, opts.Ops, func(ctx context.Context) error {
			_, err := p.db.NamedExecContext(ctx, `
				INSERT INTO bench_storage (short_val, long_val)
				VALUES (:short_val, :long_val)
			`, sampleRow())
			return err
		})
	}

	return fmt.Errorf("unknown category %d", c)
}

func (p *SQLPath) insertRows(ctx context.Context, rows []*BenchRow) error {
	for len(rows) > 0 {
		chunk := rows
		if len(chunk) > insertChunk {
			chunk = chunk[:insertChunk]
		}
		rows = rows[len(chunk):]

		_, err := p.db.NamedExecContext(ctx, `
			INSERT INTO bench_storage (short_val, long_val)
			VALUES (:short_val, :long_val)
		`, chunk)
		if err != nil {
			return fmt.Errorf("insert rows, %w", err)
		}
	}
	return nil
}

func (p *SQLPath) Close() error {
	return p.db.Close()
}
