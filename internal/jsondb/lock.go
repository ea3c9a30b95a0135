package jsondb

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrLockTimeout is returned when a file lock cannot be acquired within the
// configured timeout.
var ErrLockTimeout = errors.New("file lock acquisition timed out")

const (
	defaultPollInterval = 10 * time.Millisecond
	defaultLockTimeout  = 5 * time.Second
)

// FileLockManager serializes read-modify-write cycles on document files.
//
// Locking is advisory and process-local: it only serializes concurrent
// goroutines within this process racing on the same file. It offers no
// protection against other processes touching the same files; running more
// than one instance of the server against one data directory is outside the
// design's guarantees.
type FileLockManager struct {
	mu      sync.Mutex
	locks   map[string]bool
	poll    time.Duration
	timeout time.Duration
}

// NewFileLockManager constructs a lock manager with default poll interval
// and timeout.
func NewFileLockManager() *FileLockManager {
	return &FileLockManager{
		locks:   make(map[string]bool),
		poll:    defaultPollInterval,
		timeout: defaultLockTimeout,
	}
}

// Acquire claims the lock for file, polling until it is free or the timeout
// elapses.
func (m *FileLockManager) Acquire(ctx context.Context, file string) error {
	deadline := time.Now().Add(m.timeout)

	for {
		m.mu.Lock()
		if !m.locks[file] {
			m.locks[file] = true
			m.mu.Unlock()
			return nil
		}
		m.mu.Unlock()

		if time.Now().After(deadline) {
			return fmt.Errorf("%w: %s", ErrLockTimeout, file)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.poll):
		}
	}
}

// Release frees the lock for file. Releasing an unheld lock is a no-op.
func (m *FileLockManager) Release(file string) {
	m.mu.Lock()
	delete(m.locks, file)
	m.mu.Unlock()
}
