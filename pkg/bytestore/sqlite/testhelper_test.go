package sqlite

import (
	"fmt"
	"net/url"
	"testing"
)

// setupTestStore creates a named shared in-memory database per test.
// WAL is not applicable to in-memory databases, so the pragma is omitted.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := fmt.Sprintf(
		"file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)",
		url.PathEscape(t.Name()),
	)
	db, err := openDB(dsn, dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	s, err := newStore(db)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}
