// Package bench times identical workloads through a raw-driver path and an
// ORM path against the same database and reports how the two compare.
package bench

import "context"

// Category is one of the benchmarked operation types.
type Category int

const (
	ConcurrentSelect Category = iota
	ConcurrentUpdate
	BatchAdd
	ConcurrentAdd
)

// Categories returns all categories in the order they run and report.
func Categories() []Category {
	return []Category{ConcurrentSelect, ConcurrentUpdate, BatchAdd, ConcurrentAdd}
}

func (c Category) String() string {
	switch c {
	case ConcurrentSelect:
		return "Concurrent Select"
	case ConcurrentUpdate:
		return "Concurrent Update"
	case BatchAdd:
		return "Batch Add"
	case ConcurrentAdd:
		return "Concurrent Add"
	}
	return "Unknown"
}

// needsSeed reports whether the category reads or mutates pre-existing rows.
func (c Category) needsSeed() bool {
	return c == ConcurrentSelect || c == ConcurrentUpdate
}

// Options are the workload parameters shared by both paths so that a pair of
// trials stays comparable.
type Options struct {
	// SeedRows is the table size loaded before select/update trials.
	SeedRows int
	// Ops is the number of operations per trial.
	Ops int
	// Workers is the fan-out degree for concurrent categories.
	Workers int
}

// Path executes the benchmark workload through one access stack. Timing is the
// harness's job; a Path only does the work.
type Path interface {
	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Reset drops and recreates the bench table.
	Reset(ctx context.Context) error

	// Seed bulk-loads n rows into a freshly reset table.
	Seed(ctx context.Context, n int) error

	// Do executes one category's workload and blocks until every
	// operation has finished. The first operation error aborts the rest.
	Do(ctx context.Context, c Category, opts Options) error

	Close() error
}

// Factory builds a fresh Path, and with it a fresh connection pool, for a
// single trial. Pools are never reused across trials so warm-up effects in
// one category cannot leak into another.
type Factory struct {
	// Label names the path in results, e.g. "Pgx" or "GORM".
	Label string
	New   func(ctx context.Context) (Path, error)
}

// BenchRow is the single benchmark table. The same struct serves the sqlx
// path (db tags), the ORM path (gorm tags) and sample generation (faker tags).
type BenchRow struct {
	ID       int64  `db:"id" gorm:"column:id;primaryKey;autoIncrement" faker:"-"`
	ShortVal int64  `db:"short_val" gorm:"column:short_val;not null" faker:"boundary_start=1, boundary_end=100000"`
	LongVal  string `db:"long_val" gorm:"column:long_val" faker:"paragraph"`
}

// TableName implements gorm's naming hook.
func (BenchRow) TableName() string { return "bench_storage" }
