package store

import (
	"context"
	"sync"
)

// MemoryStore is the in-process SessionStore used for single-instance
// deployments.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]*Snapshot
}

var _ SessionStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string]*Snapshot)}
}

// Save stores a copy of the snapshot.
func (s *MemoryStore) Save(ctx context.Context, snap *Snapshot) error {
	cp := *snap
	s.mu.Lock()
	s.snapshots[snap.SessionID] = &cp
	s.mu.Unlock()
	return nil
}

// Load returns the stored snapshot, or (nil, nil) when absent.
func (s *MemoryStore) Load(ctx context.Context, sessionID string) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[sessionID]
	if !ok {
		return nil, nil
	}
	cp := *snap
	return &cp, nil
}

// Delete removes the snapshot if present.
func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.snapshots, sessionID)
	s.mu.Unlock()
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
