package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrBusy is returned when another batch holds the run lock.
var ErrBusy = errors.New("another blacksys batch is already running")

// LockName is the lock file created in the state directory.
const LockName = "blacksys.lock"

// Lock guards a state directory against concurrent batches.
type Lock struct {
	lock *flock.Flock
}

// AcquireLock takes the run lock in stateDir without blocking.
func AcquireLock(stateDir string) (*Lock, error) {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure state directory: %w", err)
	}
	fl := flock.New(filepath.Join(stateDir, LockName))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, ErrBusy
	}
	return &Lock{lock: fl}, nil
}

// Release drops the lock.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
