// Advisory locking of the source log.
//
// The seek strategy maps the log and trusts its size for the whole request;
// a writer that truncated the file underneath would turn reads into SIGBUS.
// Cooperating writers take LockExclusive for rotation or truncation, and the
// extractor holds LockShared from open to close. Appends do not need the
// lock: bytes past the mapped size are simply not seen.
//
// The mutex is held for the entire flock syscall so that Fd() cannot race
// with Close() on the same *os.File. setFile(nil) drains any in-flight call
// and turns later Lock/Unlock calls into no-ops.
package logsearch

import (
	"os"
	"sync"
)

// LockMode selects shared (read) or exclusive (write) locking.
type LockMode int

const (
	LockShared LockMode = iota
	LockExclusive
)

type fileLock struct {
	mu sync.Mutex
	f  *os.File
}

// Lock acquires a shared or exclusive lock, blocking until it is granted.
func (l *fileLock) Lock(mode LockMode) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	return l.lock(mode)
}

// Unlock releases the lock.
func (l *fileLock) Unlock() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	return l.unlock()
}

func (l *fileLock) setFile(f *os.File) {
	l.mu.Lock()
	l.f = f
	l.mu.Unlock()
}
