package testsupport

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

var dbSeq atomic.Int64

// NewSQLiteMemoryDB opens a private shared-cache in-memory SQLite database.
// Every call gets its own database name so tests do not see each other's rows.
func NewSQLiteMemoryDB() (*sql.DB, error) {
	dsn := fmt.Sprintf("file:ubiquo_test_%d?mode=memory&cache=shared&_fk=1", dbSeq.Add(1))
	return sql.Open("sqlite3", dsn)
}

// NewBunDB wraps NewSQLiteMemoryDB in bun, runs schema against it and
// registers cleanup with t.
func NewBunDB(t testing.TB, schema func(context.Context, bun.IDB) error) *bun.DB {
	t.Helper()

	sqldb, err := NewSQLiteMemoryDB()
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	if schema != nil {
		if err := schema(context.Background(), db); err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}
