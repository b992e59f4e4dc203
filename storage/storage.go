package storage

import (
	"iter"

	"github.com/hupe1980/entidx/core"
)

// Ref carries a component value together with the tick it was last added
// or mutated.
type Ref[C any] struct {
	Component C
	Changed   core.Tick
}

// Source is the per-operation capability handed to a storage by the host
// store. It exposes the current logical tick, the set of live components
// with their change ticks, and the bounded-retention removal feed.
//
// Storages never retain a Source; it is passed into each call. Callers
// that register per-frame refreshes hold one long-lived Source instead.
type Source[C any] interface {
	// Tick returns the current logical tick.
	Tick() core.Tick

	// Components iterates all live entities carrying the component,
	// with each component's last-changed tick. Queried fresh on every
	// refresh.
	Components() iter.Seq2[core.EntityID, Ref[C]]

	// Removed iterates entities whose component was removed at a tick
	// newer than since-1, so removals made earlier within tick `since`
	// itself are included. Entries older than the feed's retention
	// window are permanently missed.
	Removed(since core.Tick) iter.Seq[core.EntityID]
}

// Observer receives push notifications from a host store that supports
// them. It is an optional fast path next to the batch refresh; both paths
// maintain the same invariants.
type Observer[C any] interface {
	// OnSet registers fn to run whenever a component is added or
	// replaced.
	OnSet(fn func(e core.EntityID, c C))

	// OnRemove registers fn to run whenever a component is removed or
	// its entity despawned.
	OnRemove(fn func(e core.EntityID))
}

// Storage keeps a value-to-entities mapping synchronized with a Source.
//
// Each Storage instance is exclusively owned during a call; the host
// scheduler must not run two operations against the same instance
// concurrently.
type Storage[C any, V comparable] interface {
	// Lookup returns all entities whose component evaluates to v. It may
	// trigger a refresh first, depending on configuration.
	Lookup(src Source[C], v V) iter.Seq[core.EntityID]

	// Refresh reconciles with src unless already refreshed at the
	// current tick.
	Refresh(src Source[C])

	// ForceRefresh unconditionally reconciles with src.
	ForceRefresh(src Source[C])

	// ObserveSet records a component insert or mutation pushed by the
	// host store.
	ObserveSet(e core.EntityID, c C)

	// ObserveRemove records a component removal pushed by the host
	// store.
	ObserveRemove(e core.EntityID)
}

// Config tunes storage behavior. The zero value means batch-only refresh
// with no refresh-on-lookup.
type Config struct {
	// RefreshOnLookup refreshes before the first lookup at each tick.
	RefreshOnLookup bool

	// Eager applies pushed observations to the mapping immediately
	// instead of buffering removals for the next refresh.
	Eager bool
}
