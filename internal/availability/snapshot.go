package availability

import (
	"sync"
	"time"

	"reserva/internal/domain"
)

// Snapshot is one immutable view of the active reservation window. Generation
// is assigned when the fetch that produced it began, so snapshots from
// overlapping fetches can be ordered.
type Snapshot struct {
	Generation   uint64
	FetchedAt    time.Time
	Reservations []domain.Reservation
}

// SnapshotStore holds the last successfully applied snapshot. Fetches may run
// concurrently; each calls Begin before starting and Apply when done, and only
// the newest generation wins. A failed fetch simply never applies, leaving the
// prior snapshot in place.
type SnapshotStore struct {
	mu      sync.RWMutex
	nextGen uint64
	current Snapshot
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Begin reserves the next fetch generation.
func (s *SnapshotStore) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextGen++
	return s.nextGen
}

// Apply installs the fetch result unless a newer generation has already been
// applied. Returns false when the result was stale and discarded.
func (s *SnapshotStore) Apply(gen uint64, reservations []domain.Reservation, fetchedAt time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen <= s.current.Generation {
		return false
	}
	s.current = Snapshot{
		Generation:   gen,
		FetchedAt:    fetchedAt,
		Reservations: reservations,
	}
	return true
}

// Current returns the last applied snapshot. The contained slice must be
// treated as read-only; refreshes replace it wholesale and never mutate it.
func (s *SnapshotStore) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
