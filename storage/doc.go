// Package storage provides the backing stores that keep a secondary
// index synchronized with a mutable entity/component source.
//
// A Storage owns a value-to-entities mapping and reconciles it against a
// Source using change-tick bookkeeping: a refresh drops removed entities,
// then re-evaluates every component added or mutated since the previous
// refresh. The tick comparison is windowed and wraparound-safe, and the
// lower bound is lowered by one tick so that writes made earlier within
// the same tick as the refresh are visible.
//
// Three implementations are provided: Hashmap (unique multimap, the
// default), Bitmap (roaring bitmap posting sets), and Scan (no storage,
// full scan per lookup).
package storage
