package util

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"testing"
)

// TempDBPath returns a path for a throwaway database file rooted in the
// test's temp directory. Callers are responsible for creating/removing the
// file through whatever filesystem (real or in-memory) they're exercising.
func TempDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), fmt.Sprintf("bufferpool-test-%d.dat", rand.Intn(1_000_000)))
}
