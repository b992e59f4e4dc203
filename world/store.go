package world

import (
	"iter"
	"sync"

	"github.com/hupe1980/entidx/core"
	"github.com/hupe1980/entidx/storage"
)

type record[C any] struct {
	value   C
	changed core.Tick
}

type removal struct {
	entity core.EntityID
	tick   core.Tick
}

// Store is a typed container for one component type. It tracks the tick
// each component was last set, keeps a bounded-retention removal log,
// and notifies registered observers on writes.
//
// Store implements storage.Source and storage.Observer, so it can be
// handed directly to an index.
type Store[C any] struct {
	w *World

	mu         sync.RWMutex
	components map[core.EntityID]record[C]
	removals   []removal
	onSet      []func(e core.EntityID, c C)
	onRemove   []func(e core.EntityID)
}

func newStore[C any](w *World) *Store[C] {
	return &Store[C]{
		w:          w,
		components: make(map[core.EntityID]record[C]),
		removals:   make([]removal, 0, 16),
	}
}

// Set inserts or replaces the component for e, stamping it with the
// current tick.
func (s *Store[C]) Set(e core.EntityID, c C) {
	tick := s.w.Tick()

	s.mu.Lock()
	s.components[e] = record[C]{value: c, changed: tick}
	observers := s.onSet
	s.mu.Unlock()

	for _, fn := range observers {
		fn(e, c)
	}
}

// Get retrieves the component for e.
func (s *Store[C]) Get(e core.EntityID) (C, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.components[e]
	return rec.value, ok
}

// Has reports whether e carries this component.
func (s *Store[C]) Has(e core.EntityID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.components[e]
	return ok
}

// Remove deletes the component from e, logging the removal into the
// feed.
func (s *Store[C]) Remove(e core.EntityID) {
	s.removeEntity(e)
}

// Len returns the number of entities carrying this component.
func (s *Store[C]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.components)
}

// Tick returns the world's current logical tick.
func (s *Store[C]) Tick() core.Tick {
	return s.w.Tick()
}

// Components iterates all entities carrying this component with their
// last-changed ticks. The snapshot is taken up front, so mutating the
// store mid-iteration is safe.
func (s *Store[C]) Components() iter.Seq2[core.EntityID, storage.Ref[C]] {
	s.mu.RLock()
	snapshot := make(map[core.EntityID]record[C], len(s.components))
	for e, rec := range s.components {
		snapshot[e] = rec
	}
	s.mu.RUnlock()

	return func(yield func(core.EntityID, storage.Ref[C]) bool) {
		for e, rec := range snapshot {
			if !yield(e, storage.Ref[C]{Component: rec.value, Changed: rec.changed}) {
				return
			}
		}
	}
}

// Removed iterates entities removed at a tick newer than since-1, so
// removals from tick `since` itself are included. Entries expire from
// the log after the world's retention window.
func (s *Store[C]) Removed(since core.Tick) iter.Seq[core.EntityID] {
	now := s.w.Tick()

	s.mu.RLock()
	snapshot := make([]removal, len(s.removals))
	copy(snapshot, s.removals)
	s.mu.RUnlock()

	return func(yield func(core.EntityID) bool) {
		for _, r := range snapshot {
			if r.tick.IsNewerThan(since-1, now) {
				if !yield(r.entity) {
					return
				}
			}
		}
	}
}

// OnSet registers fn to run after every component insert or replace.
func (s *Store[C]) OnSet(fn func(e core.EntityID, c C)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSet = append(s.onSet, fn)
}

// OnRemove registers fn to run after every component removal.
func (s *Store[C]) OnRemove(fn func(e core.EntityID)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRemove = append(s.onRemove, fn)
}

func (s *Store[C]) removeEntity(e core.EntityID) {
	tick := s.w.Tick()

	s.mu.Lock()
	if _, ok := s.components[e]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.components, e)
	s.removals = append(s.removals, removal{entity: e, tick: tick})
	observers := s.onRemove
	s.mu.Unlock()

	for _, fn := range observers {
		fn(e)
	}
}

// prune drops removal-log entries older than the retention window.
func (s *Store[C]) prune(now core.Tick, retention uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.removals[:0]
	for _, r := range s.removals {
		if now.Sub(r.tick) <= retention {
			kept = append(kept, r)
		}
	}
	s.removals = kept
}
