package multimap

import (
	"fmt"
	"iter"
)

// Unique maps a key to a set of values while enforcing that each value
// belongs to at most one key at a time. Re-inserting a value under its
// current key is a no-op; inserting it under a different key migrates it.
//
// The zero value is not usable; use New.
type Unique[K comparable, V comparable] struct {
	forward map[K]map[V]struct{}
	reverse map[V]K
}

// New creates an empty Unique multimap.
func New[K comparable, V comparable]() *Unique[K, V] {
	return &Unique[K, V]{
		forward: make(map[K]map[V]struct{}),
		reverse: make(map[V]K),
	}
}

// Get returns all values currently under k. The sequence is empty if k is
// absent. Iteration order is unspecified.
func (m *Unique[K, V]) Get(k K) iter.Seq[V] {
	return func(yield func(V) bool) {
		for v := range m.forward[k] {
			if !yield(v) {
				return
			}
		}
	}
}

// Len returns the total number of values across all keys.
func (m *Unique[K, V]) Len() int {
	return len(m.reverse)
}

// KeyCount returns the number of keys with at least one value.
func (m *Unique[K, V]) KeyCount() int {
	return len(m.forward)
}

// Insert associates v with k. It returns v's previous key and whether v
// had one. Inserting under the same key is a no-op.
func (m *Unique[K, V]) Insert(k K, v V) (old K, had bool) {
	old, had = m.reverse[v]
	m.reverse[v] = k

	if had {
		if old == k {
			return old, true
		}
		m.purge(old, v, "insert")
	}

	set, ok := m.forward[k]
	if !ok {
		set = make(map[V]struct{})
		m.forward[k] = set
	}
	set[v] = struct{}{}

	return old, had
}

// Remove removes v from whatever key it currently belongs to. It returns
// the key v was removed from and whether v was present.
func (m *Unique[K, V]) Remove(v V) (old K, had bool) {
	old, had = m.reverse[v]
	if !had {
		return old, false
	}
	delete(m.reverse, v)
	m.purge(old, v, "remove")
	return old, true
}

// purge removes v from k's forward set, deleting the set entirely if it
// becomes empty. The reverse map named k, so k must exist in the forward
// map; anything else means the two directions diverged.
func (m *Unique[K, V]) purge(k K, v V, op string) {
	set, ok := m.forward[k]
	if !ok {
		panic(fmt.Sprintf("multimap: %s: reverse map names key %v absent from forward map", op, k))
	}
	if len(set) == 1 {
		delete(m.forward, k)
		return
	}
	delete(set, v)
}
