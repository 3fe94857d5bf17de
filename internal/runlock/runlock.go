package runlock

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"

	"fieldprep/internal/fileutil"
)

// FileName is the lock file created in the output root.
const FileName = ".fieldprep.lock"

// ErrHeld is returned when another process holds the lock.
var ErrHeld = errors.New("another fieldprep run is writing to this output root")

// Lock is an exclusive advisory lock on an output root.
type Lock struct {
	path string
	lock *flock.Flock
}

// Acquire takes the lock for outputRoot without blocking.
func Acquire(outputRoot string) (*Lock, error) {
	if err := fileutil.EnsureDir(outputRoot); err != nil {
		return nil, err
	}
	path := filepath.Join(outputRoot, FileName)
	l := &Lock{path: path, lock: flock.New(path)}
	ok, err := l.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrHeld, path)
	}
	return l, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Release unlocks. The lock file itself is left in place.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}
