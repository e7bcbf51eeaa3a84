package testsupport

import (
	"testing"

	"chartsync/internal/chartdb"
	"chartsync/internal/config"
)

// MustOpenStore opens a chartdb.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *chartdb.Store {
	t.Helper()

	store, err := chartdb.Open(cfg)
	if err != nil {
		t.Fatalf("chartdb.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
