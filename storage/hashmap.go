package storage

import (
	"iter"

	"github.com/hupe1980/entidx/core"
	"github.com/hupe1980/entidx/multimap"
)

// Hashmap is the default Storage implementation. It maintains a unique
// multimap from values to entities, refreshed incrementally using change
// ticks.
type Hashmap[C any, V comparable] struct {
	value       func(C) V
	cfg         Config
	m           *multimap.Unique[V, core.EntityID]
	lastRefresh core.Tick
	removed     []core.EntityID
}

// NewHashmap creates a Hashmap storage using value to derive lookup keys.
// value must be pure; its results are effectively cached in the map.
func NewHashmap[C any, V comparable](value func(C) V, cfg Config) *Hashmap[C, V] {
	return &Hashmap[C, V]{
		value:   value,
		cfg:     cfg,
		m:       multimap.New[V, core.EntityID](),
		removed: make([]core.EntityID, 0, 16),
	}
}

// Lookup returns all entities whose component evaluates to v. If
// configured with RefreshOnLookup, the first lookup at each tick
// refreshes first.
func (s *Hashmap[C, V]) Lookup(src Source[C], v V) iter.Seq[core.EntityID] {
	if s.cfg.RefreshOnLookup && s.lastRefresh != src.Tick() {
		s.ForceRefresh(src)
	}
	return s.m.Get(v)
}

// Refresh reconciles with src unless already refreshed at the current
// tick. Repeated calls within one tick are no-ops.
func (s *Hashmap[C, V]) Refresh(src Source[C]) {
	if s.lastRefresh != src.Tick() {
		s.ForceRefresh(src)
	}
}

// ForceRefresh unconditionally reconciles the map with src: buffered and
// feed-reported removals are dropped, then every component changed since
// the last refresh is re-evaluated.
func (s *Hashmap[C, V]) ForceRefresh(src Source[C]) {
	for _, e := range s.removed {
		s.m.Remove(e)
	}
	s.removed = s.removed[:0]
	for e := range src.Removed(s.lastRefresh) {
		s.m.Remove(e)
	}

	now := src.Tick()
	// Lower the bound by one so that changes made earlier within the
	// same tick as the previous refresh are still picked up.
	since := s.lastRefresh - 1
	for e, ref := range src.Components() {
		if ref.Changed.IsNewerThan(since, now) {
			s.m.Insert(s.value(ref.Component), e)
		}
	}
	s.lastRefresh = now
}

// ObserveSet applies a pushed insert or mutation directly to the map.
func (s *Hashmap[C, V]) ObserveSet(e core.EntityID, c C) {
	s.m.Insert(s.value(c), e)
}

// ObserveRemove records a pushed removal. Under Eager configuration the
// entity is dropped from the map immediately; otherwise it is buffered
// until the next refresh.
func (s *Hashmap[C, V]) ObserveRemove(e core.EntityID) {
	if s.cfg.Eager {
		s.m.Remove(e)
		return
	}
	s.removed = append(s.removed, e)
}

// Len returns the number of indexed entities.
func (s *Hashmap[C, V]) Len() int {
	return s.m.Len()
}
