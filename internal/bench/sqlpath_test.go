package bench

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (p *SQLPath) countRows(ctx context.Context, t *testing.T) int {
	t.Helper()

	var n int
	require.NoError(t, p.db.GetContext(ctx, &n, `SELECT count(*) FROM bench_storage`))
	return n
}

func TestSQLPathResetAndSeed(t *testing.T) {
	ctx := context.Background()
	p := testSQLPath(t, 2)

	require.NoError(t, p.Reset(ctx))
	require.NoError(t, p.Seed(ctx, 25))
	assert.Equal(t, 25, p.countRows(ctx, t))

	// Reset is destructive: a second reset empties the table.
	require.NoError(t, p.Reset(ctx))
	assert.Equal(t, 0, p.countRows(ctx, t))
}

func TestSQLPathSeedCrossesChunkBoundary(t *testing.T) {
	ctx := context.Background()
	p := testSQLPath(t, 2)

	require.NoError(t, p.Reset(ctx))
	require.NoError(t, p.Seed(ctx, insertChunk+7))
	assert.Equal(t, insertChunk+7, p.countRows(ctx, t))
}

func TestSQLPathCategories(t *testing.T) {
	ctx := context.Background()
	opts := Options{SeedRows: 30, Ops: 12, Workers: 3}

	p := testSQLPath(t, opts.Workers)
	require.NoError(t, p.Reset(ctx))
	require.NoError(t, p.Seed(ctx, opts.SeedRows))

	require.NoError(t, p.Do(ctx, ConcurrentSelect, opts))
	require.NoError(t, p.Do(ctx, ConcurrentUpdate, opts))
	assert.Equal(t, opts.SeedRows, p.countRows(ctx, t), "updates must not change row count")

	require.NoError(t, p.Do(ctx, BatchAdd, opts))
	assert.Equal(t, opts.SeedRows+opts.Ops, p.countRows(ctx, t))

	require.NoError(t, p.Do(ctx, ConcurrentAdd, opts))
	assert.Equal(t, opts.SeedRows+2*opts.Ops, p.countRows(ctx, t))
}

func TestSQLPathSelectOnEmptyTable(t *testing.T) {
	ctx := context.Background()
	p := testSQLPath(t, 2)

	require.NoError(t, p.Reset(ctx))

	// Missing rows are not operation failures.
	err := p.Do(ctx, ConcurrentSelect, Options{SeedRows: 0, Ops: 5, Workers: 2})
	assert.NoError(t, err)
}

func TestNewSQLPathBadTarget(t *testing.T) {
	_, err := NewSQLPath("sqlite",
		"file:/no/such/directory/anywhere/bench.db?_pragma=busy_timeout(1000)", 1)
	assert.Error(t, err)
}
