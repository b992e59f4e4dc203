// Package entidx provides secondary indexes over a mutable
// entity/component store: given entities carrying a typed component, an
// index answers "all entities whose component evaluates to value V"
// without a full scan, and stays consistent under incremental,
// tick-based mutation.
//
// # Quick Start
//
//	w := world.New()
//	healths := world.GetStore[Health](w)
//
//	byHP := entidx.Definition[Health, int]{
//	    Name:   "health_by_hp",
//	    Value:  func(h Health) int { return h.HP },
//	    Policy: entidx.OnAccess,
//	}
//
//	reg := entidx.NewRegistry()
//	idx := entidx.Acquire(reg, byHP, healths)
//	for e := range idx.Lookup(100) {
//	    // every entity with HP == 100
//	}
//
// # Refresh Policies
//
// A refresh reconciles the index with the store using change-tick
// bookkeeping; the policy decides when that happens. OnAccess refreshes
// lazily on first lookup per tick, Conservative adds a per-frame refresh
// so removals are picked up without lookups, Snapshot refreshes only at
// frame boundaries, Manual not at all, and Eager maintains the index
// through push observers. The removal feed retains notifications for a
// bounded number of steps (two by default), so policies that refresh
// less often than that can miss removals permanently.
//
// # Storage Backends
//
// The default backend keeps a bidirectional unique multimap from values
// to entities. storage.NewBitmap swaps the per-value sets for roaring
// bitmaps, and storage.NewScan stores nothing and scans on every lookup.
//
// The world package ships a small tick-tracking component store for
// applications that don't bring their own; any type implementing
// storage.Source works as a host.
package entidx
