// Package world provides a small in-memory entity/component store with
// change-tick tracking, suitable as the host side of an index: typed
// component stores stamp every write with the world's logical tick, log
// removals into a bounded-retention feed, and support push observers.
//
// Each Store implements storage.Source and storage.Observer, so it can
// be handed directly to entidx.Acquire. Applications with their own
// store can implement those interfaces instead; nothing in the index
// core depends on this package.
package world
