package membership

import "sync"

// memberLocks serializes the state transitions that read a member's prior
// state before writing a dependent new one (renew, freeze, unfreeze,
// mark-attendance). One mutex per member id; members never contend with
// each other.
type memberLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newMemberLocks() *memberLocks {
	return &memberLocks{locks: make(map[uint]*sync.Mutex)}
}

// Lock acquires the mutex for the given member id and returns its unlock
// function. Entries are kept for the process lifetime; the map is bounded
// by the number of distinct members touched.
func (l *memberLocks) Lock(memberID uint) func() {
	l.mu.Lock()
	m, ok := l.locks[memberID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[memberID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
