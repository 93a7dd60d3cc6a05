package bench

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	_ "modernc.org/sqlite"
)

// Test databases live in per-test temp dirs. WAL plus a busy timeout keeps
// concurrent trial workers from tripping over SQLite's single-writer lock.

func testSQLPath(t *testing.T, maxConns int) *SQLPath {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
		filepath.Join(t.TempDir(), "driver.db"))

	p, err := NewSQLPath("sqlite", dsn, maxConns)
	if err != nil {
		t.Fatalf("connect sqlite, %v", err)
	}
	t.Cleanup(func() { p.Close() })

	return p
}

func testORMDialector(t *testing.T) gorm.Dialector {
	t.Helper()

	return sqlite.Open(fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL",
		filepath.Join(t.TempDir(), "orm.db")))
}

func testORMPath(t *testing.T, maxConns int) *ORMPath {
	t.Helper()

	p, err := NewORMPath(testORMDialector(t), maxConns)
	if err != nil {
		t.Fatalf("open orm, %v", err)
	}
	t.Cleanup(func() { p.Close() })

	return p
}

// sqliteFactories builds a driver/ORM factory pair for end-to-end harness
// tests. Each path keeps its own database file; trials run sequentially so
// the comparison structure is all that matters here.
func sqliteFactories(t *testing.T) (Factory, Factory) {
	t.Helper()

	driverDSN := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
		filepath.Join(t.TempDir(), "driver.db"))
	ormDSN := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL",
		filepath.Join(t.TempDir(), "orm.db"))

	driver := Factory{Label: "SQL", New: func(context.Context) (Path, error) {
		return NewSQLPath("sqlite", driverDSN, 4)
	}}
	orm := Factory{Label: "ORM", New: func(context.Context) (Path, error) {
		return NewORMPath(sqlite.Open(ormDSN), 4)
	}}

	return driver, orm
}
