package leave

import "sync"

// staffLocks serializes Approve per staff member so two concurrent
// approvals cannot both pass the overlap check and commit overlapping
// APPROVED intervals. Locks are never released from the map; the staff
// population is small and bounded.
type staffLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newStaffLocks() *staffLocks {
	return &staffLocks{locks: make(map[string]*sync.Mutex)}
}

func (s *staffLocks) acquire(staffID string) func() {
	s.mu.Lock()
	l, ok := s.locks[staffID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[staffID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}
