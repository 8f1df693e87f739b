package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockFileName = ".indexdiff.lock"

// AcquireRunLock takes an exclusive, non-blocking lock on the cache root so
// two comparison runs never share one cache directory.
func (s *Store) AcquireRunLock() (func(), error) {
	if err := os.MkdirAll(s.root, cacheDirMode); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	lockPath := filepath.Join(s.root, lockFileName)
	l := flock.New(lockPath)

	locked, err := l.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire cache lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another comparison run is using the cache (lock: %s)", lockPath)
	}

	return func() { _ = l.Unlock() }, nil
}
