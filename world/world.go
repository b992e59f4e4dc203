package world

import (
	"reflect"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/entidx/core"
)

// World contains all entities and their components in typed stores, and
// owns the logical clock that drives change detection.
type World struct {
	mu     sync.RWMutex
	next   core.EntityID
	tick   core.Tick
	live   *roaring.Bitmap
	stores map[reflect.Type]anyStore

	retention uint32
}

// anyStore is the type-erased handle the world keeps per component type.
type anyStore interface {
	removeEntity(e core.EntityID)
	prune(now core.Tick, retention uint32)
}

// Options configures a World.
type Options struct {
	// RemovalRetention is the number of steps removal notifications are
	// retained before they expire from the feed. Defaults to 2.
	RemovalRetention uint32
}

// New creates an empty world. The logical clock starts at tick 1.
func New(optFns ...func(o *Options)) *World {
	opts := Options{
		RemovalRetention: 2,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &World{
		next:      1,
		tick:      1,
		live:      roaring.New(),
		stores:    make(map[reflect.Type]anyStore),
		retention: opts.RemovalRetention,
	}
}

// Spawn reserves a new entity id.
func (w *World) Spawn() core.EntityID {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.next
	w.next++
	w.live.Add(uint32(id))
	return id
}

// Despawn removes the entity and all of its components. Each store logs
// the removal into its feed and notifies its observers.
func (w *World) Despawn(e core.EntityID) {
	w.mu.Lock()
	stores := make([]anyStore, 0, len(w.stores))
	for _, s := range w.stores {
		stores = append(stores, s)
	}
	w.live.Remove(uint32(e))
	w.mu.Unlock()

	for _, s := range stores {
		s.removeEntity(e)
	}
}

// Alive reports whether e has been spawned and not despawned.
func (w *World) Alive(e core.EntityID) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.live.Contains(uint32(e))
}

// Len returns the number of live entities.
func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return int(w.live.GetCardinality())
}

// Tick returns the current logical tick.
func (w *World) Tick() core.Tick {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.tick
}

// Step advances the logical clock by one and expires removal-feed
// entries past the retention window. The host calls this once per
// scheduling step.
func (w *World) Step() core.Tick {
	w.mu.Lock()
	w.tick++
	now := w.tick
	stores := make([]anyStore, 0, len(w.stores))
	for _, s := range w.stores {
		stores = append(stores, s)
	}
	retention := w.retention
	w.mu.Unlock()

	for _, s := range stores {
		s.prune(now, retention)
	}
	return now
}

// GetStore returns the store for component type C, creating it on first
// use. The returned pointer stays valid for the lifetime of the world.
func GetStore[C any](w *World) *Store[C] {
	key := reflect.TypeFor[C]()

	w.mu.Lock()
	defer w.mu.Unlock()

	if s, ok := w.stores[key]; ok {
		return s.(*Store[C])
	}
	s := newStore[C](w)
	w.stores[key] = s
	return s
}
