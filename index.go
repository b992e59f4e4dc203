package entidx

import (
	"fmt"
	"iter"
	"time"

	"github.com/hupe1980/entidx/core"
	"github.com/hupe1980/entidx/storage"
)

// Definition describes one index: how to derive the lookup value from a
// component and when the index refreshes. Definitions with the same Name
// share one storage resource; they must agree on component and value
// types.
type Definition[C any, V comparable] struct {
	// Name identifies the index's storage resource within a registry.
	// Required and unique per index.
	Name string

	// Value derives the lookup key from a component. It must be pure
	// and deterministic; its results are cached by the storage, so
	// equal components must produce equal values.
	Value func(C) V

	// Policy selects when the index refreshes automatically. The zero
	// value is Manual.
	Policy RefreshPolicy

	// NewStorage optionally overrides the storage backend. Defaults to
	// storage.NewHashmap; storage.NewBitmap and storage.NewScan are the
	// alternatives.
	NewStorage func(value func(C) V, cfg storage.Config) storage.Storage[C, V]
}

func (d Definition[C, V]) storageConfig() storage.Config {
	return storage.Config{
		RefreshOnLookup: d.Policy.WhenUsed,
		Eager:           d.Policy.Observed,
	}
}

// Index is a short-lived binding of an index storage to the current tick
// and change/removal feed. Acquire one per operation or step; do not
// retain it across steps.
type Index[C any, V comparable] struct {
	name    string
	storage storage.Storage[C, V]
	src     storage.Source[C]
	reg     *Registry
}

// Acquire binds the index described by def to src for one operation.
// The backing storage is created in reg on first use; at that point
// observers and per-frame hooks are registered, so a source used with an
// EachFrame or Observed policy must stay valid for the registry's
// lifetime.
func Acquire[C any, V comparable](reg *Registry, def Definition[C, V], src storage.Source[C]) *Index[C, V] {
	if def.Name == "" {
		panic("entidx: definition has no name")
	}
	if def.Value == nil {
		panic(fmt.Sprintf("entidx: definition %q has no value function", def.Name))
	}

	st := storageFor(reg, def, src)
	ix := &Index[C, V]{
		name:    def.Name,
		storage: st,
		src:     src,
		reg:     reg,
	}
	if def.Policy.WhenRun {
		ix.Refresh()
	}
	return ix
}

// storageFor returns the storage resource for def, instantiating it and
// wiring its observers and frame hook on first use.
func storageFor[C any, V comparable](r *Registry, def Definition[C, V], src storage.Source[C]) storage.Storage[C, V] {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.storages[def.Name]; ok {
		st, ok := existing.(storage.Storage[C, V])
		if !ok {
			panic(fmt.Sprintf("entidx: index %q already registered with different component or value types", def.Name))
		}
		return st
	}

	newStorage := def.NewStorage
	if newStorage == nil {
		newStorage = func(value func(C) V, cfg storage.Config) storage.Storage[C, V] {
			return storage.NewHashmap(value, cfg)
		}
	}
	st := newStorage(def.Value, def.storageConfig())
	r.storages[def.Name] = st

	if obs, ok := src.(storage.Observer[C]); ok {
		switch {
		case def.Policy.Observed:
			obs.OnSet(st.ObserveSet)
			obs.OnRemove(st.ObserveRemove)
		case !def.Policy.NoRemovalObserver:
			obs.OnRemove(st.ObserveRemove)
		}
	}
	if def.Policy.EachFrame {
		r.addFrameHook(def.Name, func() {
			r.timedRefresh(def.Name, false, func() { st.Refresh(src) })
		})
	}

	r.logger.Debug("index storage initialized", "index", def.Name)
	return st
}

// Lookup returns all entities whose component evaluates to v. Depending
// on the refresh policy this may refresh the index first. The returned
// sequence reads the live storage; consume it before the next mutation.
func (ix *Index[C, V]) Lookup(v V) iter.Seq[core.EntityID] {
	return ix.storage.Lookup(ix.src, v)
}

// LookupSingle returns the single entity whose component evaluates to v.
// It returns ErrNoEntities or ErrMultipleEntities on a cardinality
// mismatch, consuming at most two elements of the lookup.
func (ix *Index[C, V]) LookupSingle(v V) (core.EntityID, error) {
	start := time.Now()

	var found core.EntityID
	n := 0
	for e := range ix.storage.Lookup(ix.src, v) {
		n++
		if n > 1 {
			break
		}
		found = e
	}

	var err error
	switch n {
	case 0:
		err = ErrNoEntities
	case 1:
	default:
		found, err = 0, ErrMultipleEntities
	}

	ix.reg.metrics.RecordLookup(time.Since(start), err)
	ix.reg.logger.LogLookupSingle(ix.name, err)
	return found, err
}

// MustLookupSingle is LookupSingle for callers that consider a
// cardinality mismatch unrecoverable; it panics instead of returning an
// error.
func (ix *Index[C, V]) MustLookupSingle(v V) core.EntityID {
	e, err := ix.LookupSingle(v)
	if err != nil {
		panic(fmt.Sprintf("entidx: index %q: %v", ix.name, err))
	}
	return e
}

// Refresh reconciles the index with the host store unless it was already
// refreshed at the current tick.
func (ix *Index[C, V]) Refresh() {
	ix.reg.timedRefresh(ix.name, false, func() { ix.storage.Refresh(ix.src) })
}

// ForceRefresh unconditionally reconciles the index with the host store.
// It must be called for the index to reflect changes made after an
// earlier refresh within the same tick.
func (ix *Index[C, V]) ForceRefresh() {
	ix.reg.timedRefresh(ix.name, true, func() { ix.storage.ForceRefresh(ix.src) })
}
