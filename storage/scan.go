package storage

import (
	"iter"

	"github.com/hupe1980/entidx/core"
)

// Scan is a Storage implementation that stores nothing. Every lookup
// walks the source and evaluates each component, the way a caller
// without an index would. It never needs refreshing, so it pairs best
// with the Manual refresh policy.
type Scan[C any, V comparable] struct {
	value func(C) V
}

// NewScan creates a Scan storage using value to derive lookup keys. cfg
// is accepted for interface symmetry and ignored.
func NewScan[C any, V comparable](value func(C) V, _ Config) *Scan[C, V] {
	return &Scan[C, V]{value: value}
}

// Lookup walks all live components and yields the entities whose
// component evaluates to v.
func (s *Scan[C, V]) Lookup(src Source[C], v V) iter.Seq[core.EntityID] {
	return func(yield func(core.EntityID) bool) {
		for e, ref := range src.Components() {
			if s.value(ref.Component) == v {
				if !yield(e) {
					return
				}
			}
		}
	}
}

// Refresh is a no-op; Scan holds no state to reconcile.
func (s *Scan[C, V]) Refresh(Source[C]) {}

// ForceRefresh is a no-op.
func (s *Scan[C, V]) ForceRefresh(Source[C]) {}

// ObserveSet is a no-op.
func (s *Scan[C, V]) ObserveSet(core.EntityID, C) {}

// ObserveRemove is a no-op.
func (s *Scan[C, V]) ObserveRemove(core.EntityID) {}
