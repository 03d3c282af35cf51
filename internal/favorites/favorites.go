// Package favorites holds the per-session set of favorited product ids,
// mirrored to a storage collaborator on a best-effort basis. Without a
// collaborator the set lives only for the session.
package favorites

import (
	"context"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// Set is an idempotent membership set over product ids. Mutations schedule
// an asynchronous write-back of the full membership; construction schedules
// an asynchronous load that replaces the in-memory state with whatever was
// persisted. Load or write failures silently degrade to session-only
// favorites.
type Set struct {
	mu     sync.RWMutex
	ids    map[string]struct{}
	w      *writer
	closed bool

	loaded chan struct{}
}

// New builds an empty set. When storage is non-nil, the persisted membership
// is loaded in the background and the writer goroutine starts.
func New(ctx context.Context, storage Storage, log logrus.FieldLogger) *Set {
	s := &Set{
		ids:    make(map[string]struct{}),
		loaded: make(chan struct{}),
	}
	if storage == nil {
		close(s.loaded)
		return s
	}
	s.w = newWriter(storage, log)
	go func() {
		defer close(s.loaded)
		ids, err := storage.Get(ctx)
		if err != nil {
			log.WithError(err).Debug("favorites load failed, starting empty")
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		s.ids = make(map[string]struct{}, len(ids))
		for _, id := range ids {
			s.ids[id] = struct{}{}
		}
	}()
	return s
}

// Add inserts id. Adding an existing member has no effect.
func (s *Set) Add(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		return
	}
	s.ids[id] = struct{}{}
	s.persistLocked()
}

// Remove deletes id. Removing a non-member has no effect.
func (s *Set) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; !ok {
		return
	}
	delete(s.ids, id)
	s.persistLocked()
}

// Toggle flips membership for id.
func (s *Set) Toggle(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
	}
	s.persistLocked()
}

// Has reports membership.
func (s *Set) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

// Clear empties the set.
func (s *Set) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ids) == 0 {
		return
	}
	s.ids = make(map[string]struct{})
	s.persistLocked()
}

// Count is the set cardinality.
func (s *Set) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// IDs returns the members sorted, the same order the snapshot is persisted in.
func (s *Set) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Close stops the write-back goroutine. Mutations after Close still work in
// memory but are no longer persisted.
func (s *Set) Close() {
	s.mu.Lock()
	if s.closed || s.w == nil {
		s.closed = true
		s.mu.Unlock()
		return
	}
	s.closed = true
	w := s.w
	s.mu.Unlock()
	w.close()
}

// WaitLoaded blocks until the initial load finished, for callers that want
// read-your-restore semantics (tests, mostly).
func (s *Set) WaitLoaded(ctx context.Context) error {
	select {
	case <-s.loaded:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Set) persistLocked() {
	if s.w == nil || s.closed {
		return
	}
	s.w.publish(s.snapshotLocked())
}

func (s *Set) snapshotLocked() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
