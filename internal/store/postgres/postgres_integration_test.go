package postgres

import (
	"os"
	"testing"

	"github.com/PeytonLeFleur/lamp-and-light/internal/store"
	"github.com/PeytonLeFleur/lamp-and-light/internal/store/storetest"
)

func makePGStore(t *testing.T) store.Store {
	t.Helper()
	dsn := os.Getenv("LAMPLIGHT_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("LAMPLIGHT_POSTGRES_DSN not set; skipping postgres store integration test")
	}
	db, err := Open(dsn)
	if err != nil {
		t.Fatalf("postgres open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := EnsureSchema(db); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return NewWithDB(db)
}

func TestPostgresStore_Compliance(t *testing.T) {
	storetest.Run(t, makePGStore)
}
