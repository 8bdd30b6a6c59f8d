package tree

import "sync"

// AccessLock coordinates background readers with the engine's tree
// replacement. It grants any number of concurrent read leases, each
// keyed by a caller-supplied identity, or exactly one write lease,
// never both. All acquisitions are try-acquire: a refusal means "tree
// temporarily unavailable" and the caller picks the retry policy.
type AccessLock struct {
	mu      sync.Mutex
	readers map[string]struct{}
	writing bool
}

func NewAccessLock() *AccessLock {
	return &AccessLock{readers: make(map[string]struct{})}
}

// AcquireRead grants a read lease to the identity. Fails without
// blocking when a write lease is held or the identity already holds a
// read lease.
func (l *AccessLock) AcquireRead(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.writing {
		return false
	}
	if _, held := l.readers[id]; held {
		return false
	}
	l.readers[id] = struct{}{}
	return true
}

// ReleaseRead drops the identity's lease. Fails when none was held.
func (l *AccessLock) ReleaseRead(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, held := l.readers[id]; !held {
		return false
	}
	delete(l.readers, id)
	return true
}

// AcquireWrite grants the single write lease. Fails without blocking
// when any read lease or another write lease is outstanding.
func (l *AccessLock) AcquireWrite() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.writing || len(l.readers) > 0 {
		return false
	}
	l.writing = true
	return true
}

func (l *AccessLock) ReleaseWrite() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.writing {
		return false
	}
	l.writing = false
	return true
}

// Readers reports the number of outstanding read leases.
func (l *AccessLock) Readers() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.readers)
}
