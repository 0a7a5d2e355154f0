package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"pediatric-dosage/internal/domain/consultations"
)

type snapshotEntry struct {
	snap      consultations.Snapshot
	expiresAt time.Time
}

type snapshotStore struct {
	mu   sync.Mutex
	byID map[string]snapshotEntry
	ttl  time.Duration
	now  func() time.Time
}

// NewSnapshotStore guarda snapshots en memoria. ttl <= 0 = no expiran.
func NewSnapshotStore(ttl time.Duration) consultations.SnapshotStore {
	return &snapshotStore{
		byID: make(map[string]snapshotEntry),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (s *snapshotStore) Save(ctx context.Context, snap consultations.Snapshot) error {
	if snap.ID == "" {
		return errors.New("snapshot id required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictExpired(now)

	e := snapshotEntry{snap: snap}
	if s.ttl > 0 {
		e.expiresAt = now.Add(s.ttl)
	}
	s.byID[snap.ID] = e
	return nil
}

func (s *snapshotStore) Get(ctx context.Context, id string) (consultations.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.byID[id]
	if !ok {
		return consultations.Snapshot{}, consultations.ErrSnapshotNotFound
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.byID, id)
		return consultations.Snapshot{}, consultations.ErrSnapshotNotFound
	}
	return e.snap, nil
}

// evictExpired asume el lock tomado.
func (s *snapshotStore) evictExpired(now time.Time) {
	for id, e := range s.byID {
		if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
			delete(s.byID, id)
		}
	}
}
