package world

import (
	"testing"

	"github.com/hupe1980/entidx/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type health struct {
	hp int
}

func TestWorld_SpawnDespawn(t *testing.T) {
	w := New()

	a := w.Spawn()
	b := w.Spawn()
	assert.NotEqual(t, a, b)
	assert.True(t, w.Alive(a))
	assert.Equal(t, 2, w.Len())

	w.Despawn(a)
	assert.False(t, w.Alive(a))
	assert.True(t, w.Alive(b))
	assert.Equal(t, 1, w.Len())
}

func TestWorld_GetStoreIsSingleton(t *testing.T) {
	w := New()
	s1 := GetStore[health](w)
	s2 := GetStore[health](w)
	require.Same(t, s1, s2)
}

func TestStore_SetGetRemove(t *testing.T) {
	w := New()
	s := GetStore[health](w)
	e := w.Spawn()

	_, ok := s.Get(e)
	assert.False(t, ok)

	s.Set(e, health{hp: 7})
	got, ok := s.Get(e)
	require.True(t, ok)
	assert.Equal(t, 7, got.hp)
	assert.True(t, s.Has(e))
	assert.Equal(t, 1, s.Len())

	s.Remove(e)
	assert.False(t, s.Has(e))
	assert.Equal(t, 0, s.Len())
}

func TestStore_ChangeTickStamping(t *testing.T) {
	w := New()
	s := GetStore[health](w)
	e := w.Spawn()

	s.Set(e, health{hp: 1})
	first := w.Tick()

	w.Step()
	f := w.Spawn()
	s.Set(f, health{hp: 2})

	ticks := make(map[core.EntityID]core.Tick)
	for id, ref := range s.Components() {
		ticks[id] = ref.Changed
	}
	assert.Equal(t, first, ticks[e])
	assert.Equal(t, first+1, ticks[f])

	// Re-setting restamps.
	s.Set(e, health{hp: 3})
	for id, ref := range s.Components() {
		if id == e {
			assert.Equal(t, first+1, ref.Changed)
		}
	}
}

func collectRemoved[C any](s *Store[C], since core.Tick) []core.EntityID {
	var out []core.EntityID
	for e := range s.Removed(since) {
		out = append(out, e)
	}
	return out
}

func TestStore_RemovalFeedWindow(t *testing.T) {
	w := New()
	s := GetStore[health](w)
	e := w.Spawn()
	s.Set(e, health{hp: 1})

	removedAt := w.Tick()
	s.Remove(e)

	// Same-tick removals are reported for since == removal tick.
	assert.Equal(t, []core.EntityID{e}, collectRemoved(s, removedAt))
	// But not for a later reference point.
	assert.Empty(t, collectRemoved(s, removedAt+1))
}

func TestStore_RemovalFeedRetention(t *testing.T) {
	w := New()
	s := GetStore[health](w)
	e := w.Spawn()
	s.Set(e, health{hp: 1})

	removedAt := w.Tick()
	w.Despawn(e)

	// Default retention is two steps.
	w.Step()
	assert.Equal(t, []core.EntityID{e}, collectRemoved(s, removedAt))
	w.Step()
	assert.Equal(t, []core.EntityID{e}, collectRemoved(s, removedAt))
	w.Step()
	assert.Empty(t, collectRemoved(s, removedAt))
}

func TestStore_Observers(t *testing.T) {
	w := New()
	s := GetStore[health](w)

	var sets, removes []core.EntityID
	s.OnSet(func(e core.EntityID, c health) { sets = append(sets, e) })
	s.OnRemove(func(e core.EntityID) { removes = append(removes, e) })

	e := w.Spawn()
	s.Set(e, health{hp: 1})
	s.Set(e, health{hp: 2})
	w.Despawn(e)

	assert.Equal(t, []core.EntityID{e, e}, sets)
	assert.Equal(t, []core.EntityID{e}, removes)

	// Despawning an entity without the component fires nothing.
	f := w.Spawn()
	w.Despawn(f)
	assert.Len(t, removes, 1)
}

func TestWorld_RetentionOption(t *testing.T) {
	w := New(func(o *Options) { o.RemovalRetention = 1 })
	s := GetStore[health](w)
	e := w.Spawn()
	s.Set(e, health{hp: 1})

	removedAt := w.Tick()
	s.Remove(e)

	w.Step()
	assert.Equal(t, []core.EntityID{e}, collectRemoved(s, removedAt))
	w.Step()
	assert.Empty(t, collectRemoved(s, removedAt))
}
