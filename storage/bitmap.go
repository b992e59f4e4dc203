package storage

import (
	"fmt"
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/entidx/core"
)

// Bitmap is a Storage implementation that keeps each value's entity set
// in a roaring bitmap. It trades slightly slower single-entity updates
// for compact posting sets and ordered iteration, which pays off for
// low-cardinality values over many entities.
type Bitmap[C any, V comparable] struct {
	value       func(C) V
	cfg         Config
	forward     map[V]*roaring.Bitmap
	reverse     map[core.EntityID]V
	lastRefresh core.Tick
	removed     []core.EntityID
}

// NewBitmap creates a Bitmap storage using value to derive lookup keys.
func NewBitmap[C any, V comparable](value func(C) V, cfg Config) *Bitmap[C, V] {
	return &Bitmap[C, V]{
		value:   value,
		cfg:     cfg,
		forward: make(map[V]*roaring.Bitmap),
		reverse: make(map[core.EntityID]V),
		removed: make([]core.EntityID, 0, 16),
	}
}

// Lookup returns all entities whose component evaluates to v, in entity
// id order.
func (s *Bitmap[C, V]) Lookup(src Source[C], v V) iter.Seq[core.EntityID] {
	if s.cfg.RefreshOnLookup && s.lastRefresh != src.Tick() {
		s.ForceRefresh(src)
	}
	bm := s.forward[v]
	return func(yield func(core.EntityID) bool) {
		if bm == nil {
			return
		}
		it := bm.Iterator()
		for it.HasNext() {
			if !yield(core.EntityID(it.Next())) {
				return
			}
		}
	}
}

// Refresh reconciles with src unless already refreshed at the current
// tick.
func (s *Bitmap[C, V]) Refresh(src Source[C]) {
	if s.lastRefresh != src.Tick() {
		s.ForceRefresh(src)
	}
}

// ForceRefresh unconditionally reconciles the posting sets with src.
func (s *Bitmap[C, V]) ForceRefresh(src Source[C]) {
	for _, e := range s.removed {
		s.remove(e)
	}
	s.removed = s.removed[:0]
	for e := range src.Removed(s.lastRefresh) {
		s.remove(e)
	}

	now := src.Tick()
	since := s.lastRefresh - 1
	for e, ref := range src.Components() {
		if ref.Changed.IsNewerThan(since, now) {
			s.insert(s.value(ref.Component), e)
		}
	}
	s.lastRefresh = now
}

// ObserveSet applies a pushed insert or mutation directly.
func (s *Bitmap[C, V]) ObserveSet(e core.EntityID, c C) {
	s.insert(s.value(c), e)
}

// ObserveRemove records a pushed removal, immediately under Eager
// configuration, buffered otherwise.
func (s *Bitmap[C, V]) ObserveRemove(e core.EntityID) {
	if s.cfg.Eager {
		s.remove(e)
		return
	}
	s.removed = append(s.removed, e)
}

// Len returns the number of indexed entities.
func (s *Bitmap[C, V]) Len() int {
	return len(s.reverse)
}

func (s *Bitmap[C, V]) insert(v V, e core.EntityID) {
	if old, ok := s.reverse[e]; ok {
		if old == v {
			return
		}
		s.purge(old, e, "insert")
	}
	s.reverse[e] = v
	bm, ok := s.forward[v]
	if !ok {
		bm = roaring.New()
		s.forward[v] = bm
	}
	bm.Add(uint32(e))
}

func (s *Bitmap[C, V]) remove(e core.EntityID) {
	old, ok := s.reverse[e]
	if !ok {
		return
	}
	delete(s.reverse, e)
	s.purge(old, e, "remove")
}

// purge drops e from v's posting set, deleting the set if it becomes
// empty. The reverse map named v, so its bitmap must exist.
func (s *Bitmap[C, V]) purge(v V, e core.EntityID, op string) {
	bm, ok := s.forward[v]
	if !ok {
		panic(fmt.Sprintf("storage: bitmap %s: reverse map names value %v absent from forward map", op, v))
	}
	bm.Remove(uint32(e))
	if bm.IsEmpty() {
		delete(s.forward, v)
	}
}
