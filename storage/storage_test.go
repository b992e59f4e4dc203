package storage

import (
	"iter"
	"slices"
	"testing"

	"github.com/hupe1980/entidx/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource is a minimal host store for storage tests: components with
// change ticks plus a removal log, no retention expiry.
type removalEntry struct {
	entity core.EntityID
	tick   core.Tick
}

type fakeSource struct {
	tick       core.Tick
	components map[core.EntityID]Ref[int]
	removals   []removalEntry
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		tick:       1,
		components: make(map[core.EntityID]Ref[int]),
	}
}

func (f *fakeSource) set(e core.EntityID, c int) {
	f.components[e] = Ref[int]{Component: c, Changed: f.tick}
}

func (f *fakeSource) remove(e core.EntityID) {
	delete(f.components, e)
	f.removals = append(f.removals, removalEntry{entity: e, tick: f.tick})
}

func (f *fakeSource) step() { f.tick++ }

func (f *fakeSource) Tick() core.Tick { return f.tick }

func (f *fakeSource) Components() iter.Seq2[core.EntityID, Ref[int]] {
	return func(yield func(core.EntityID, Ref[int]) bool) {
		for e, ref := range f.components {
			if !yield(e, ref) {
				return
			}
		}
	}
}

func (f *fakeSource) Removed(since core.Tick) iter.Seq[core.EntityID] {
	return func(yield func(core.EntityID) bool) {
		for _, r := range f.removals {
			if r.tick.IsNewerThan(since-1, f.tick) {
				if !yield(r.entity) {
					return
				}
			}
		}
	}
}

func ids(seq iter.Seq[core.EntityID]) []core.EntityID {
	var out []core.EntityID
	for e := range seq {
		out = append(out, e)
	}
	slices.Sort(out)
	return out
}

func identity(c int) int { return c }

// storages under test share one contract; run every behavioral test
// against both map-backed implementations.
func forEachStorage(t *testing.T, cfg Config, fn func(t *testing.T, s Storage[int, int])) {
	t.Run("Hashmap", func(t *testing.T) {
		fn(t, NewHashmap(identity, cfg))
	})
	t.Run("Bitmap", func(t *testing.T) {
		fn(t, NewBitmap(identity, cfg))
	})
}

func TestStorage_RefreshAndLookup(t *testing.T) {
	forEachStorage(t, Config{}, func(t *testing.T, s Storage[int, int]) {
		src := newFakeSource()
		src.set(1, 10)
		src.set(2, 10)
		src.set(3, 20)
		src.set(4, 30)

		s.Refresh(src)

		assert.Equal(t, []core.EntityID{1, 2}, ids(s.Lookup(src, 10)))
		assert.Equal(t, []core.EntityID{3}, ids(s.Lookup(src, 20)))
		assert.Empty(t, ids(s.Lookup(src, 40)))
	})
}

func TestStorage_IncrementalValueChange(t *testing.T) {
	forEachStorage(t, Config{}, func(t *testing.T, s Storage[int, int]) {
		src := newFakeSource()
		src.set(1, 10)
		src.set(2, 10)
		src.set(3, 20)
		src.set(4, 30)
		s.Refresh(src)

		src.step()
		for e, ref := range src.components {
			src.set(e, ref.Component+5)
		}
		s.Refresh(src)

		assert.Empty(t, ids(s.Lookup(src, 10)))
		assert.Equal(t, []core.EntityID{1, 2}, ids(s.Lookup(src, 15)))
		assert.Equal(t, []core.EntityID{3}, ids(s.Lookup(src, 25)))
		assert.Equal(t, []core.EntityID{4}, ids(s.Lookup(src, 35)))
	})
}

func TestStorage_RefreshIdempotentWithinTick(t *testing.T) {
	forEachStorage(t, Config{}, func(t *testing.T, s Storage[int, int]) {
		src := newFakeSource()
		src.set(1, 10)
		s.Refresh(src)

		// A write later in the same tick is not seen by a gated refresh.
		src.set(2, 10)
		s.Refresh(src)
		assert.Equal(t, []core.EntityID{1}, ids(s.Lookup(src, 10)))

		// ForceRefresh always re-evaluates.
		s.ForceRefresh(src)
		assert.Equal(t, []core.EntityID{1, 2}, ids(s.Lookup(src, 10)))
	})
}

func TestStorage_SameTickWriteVisibility(t *testing.T) {
	forEachStorage(t, Config{}, func(t *testing.T, s Storage[int, int]) {
		src := newFakeSource()
		src.step()
		src.step()

		// A write made earlier in the same tick as the refresh is seen.
		src.set(1, 10)
		s.Refresh(src)
		assert.Equal(t, []core.EntityID{1}, ids(s.Lookup(src, 10)))

		// A write made after a refresh within tick T is still picked up
		// by the next refresh at T+1, thanks to the lowered bound.
		src.set(2, 10)
		src.step()
		s.Refresh(src)
		assert.Equal(t, []core.EntityID{1, 2}, ids(s.Lookup(src, 10)))
	})
}

func TestStorage_FeedRemovals(t *testing.T) {
	forEachStorage(t, Config{}, func(t *testing.T, s Storage[int, int]) {
		src := newFakeSource()
		src.set(1, 10)
		src.set(2, 10)
		s.Refresh(src)

		src.step()
		src.remove(1)
		s.Refresh(src)
		assert.Equal(t, []core.EntityID{2}, ids(s.Lookup(src, 10)))
	})
}

func TestStorage_BufferedRemovalLatency(t *testing.T) {
	forEachStorage(t, Config{}, func(t *testing.T, s Storage[int, int]) {
		src := newFakeSource()
		src.set(1, 10)
		s.Refresh(src)

		// Under a manual regime, a buffered removal stays visible until
		// the next refresh.
		src.step()
		delete(src.components, 1)
		s.ObserveRemove(1)
		assert.Equal(t, []core.EntityID{1}, ids(s.Lookup(src, 10)))

		s.Refresh(src)
		assert.Empty(t, ids(s.Lookup(src, 10)))
	})
}

func TestStorage_EagerObservers(t *testing.T) {
	forEachStorage(t, Config{Eager: true}, func(t *testing.T, s Storage[int, int]) {
		src := newFakeSource()

		s.ObserveSet(1, 10)
		s.ObserveSet(2, 10)
		assert.Equal(t, []core.EntityID{1, 2}, ids(s.Lookup(src, 10)))

		// A pushed mutation migrates the entity between values.
		s.ObserveSet(1, 20)
		assert.Equal(t, []core.EntityID{2}, ids(s.Lookup(src, 10)))
		assert.Equal(t, []core.EntityID{1}, ids(s.Lookup(src, 20)))

		s.ObserveRemove(2)
		assert.Empty(t, ids(s.Lookup(src, 10)))
	})
}

func TestStorage_RefreshOnLookup(t *testing.T) {
	forEachStorage(t, Config{RefreshOnLookup: true}, func(t *testing.T, s Storage[int, int]) {
		src := newFakeSource()
		src.set(1, 10)

		// No explicit refresh: the first lookup at this tick refreshes.
		assert.Equal(t, []core.EntityID{1}, ids(s.Lookup(src, 10)))

		// Later writes within the tick wait for the next one.
		src.set(2, 10)
		assert.Equal(t, []core.EntityID{1}, ids(s.Lookup(src, 10)))

		src.step()
		assert.Equal(t, []core.EntityID{1, 2}, ids(s.Lookup(src, 10)))
	})
}

func TestScan_LookupWithoutState(t *testing.T) {
	s := NewScan(identity, Config{})
	src := newFakeSource()
	src.set(1, 10)
	src.set(2, 10)
	src.set(3, 20)

	assert.Equal(t, []core.EntityID{1, 2}, ids(s.Lookup(src, 10)))

	// No refresh needed: changes are visible immediately.
	src.set(3, 10)
	assert.Equal(t, []core.EntityID{1, 2, 3}, ids(s.Lookup(src, 10)))

	s.Refresh(src)
	s.ForceRefresh(src)
	require.Equal(t, []core.EntityID{1, 2, 3}, ids(s.Lookup(src, 10)))
}

func TestHashmap_Len(t *testing.T) {
	s := NewHashmap(identity, Config{})
	src := newFakeSource()
	src.set(1, 10)
	src.set(2, 20)
	s.Refresh(src)
	assert.Equal(t, 2, s.Len())
}

func TestBitmap_LookupOrdered(t *testing.T) {
	s := NewBitmap(identity, Config{})
	src := newFakeSource()
	src.set(9, 10)
	src.set(3, 10)
	src.set(7, 10)
	s.Refresh(src)

	var got []core.EntityID
	for e := range s.Lookup(src, 10) {
		got = append(got, e)
	}
	assert.Equal(t, []core.EntityID{3, 7, 9}, got)
	assert.Equal(t, 3, s.Len())
}
