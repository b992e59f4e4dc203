package entidx

// RefreshPolicy defines when an index is refreshed automatically.
// Refreshing is required for an index to reflect components as they are
// added, changed, and removed; each knob trades staleness for update
// cost. A policy is pure configuration and carries no state.
type RefreshPolicy struct {
	// WhenUsed refreshes the first time Lookup is called at each tick.
	// Subsequent lookups within the same tick reuse the result.
	WhenUsed bool

	// WhenRun refreshes whenever the index is acquired, whether or not
	// Lookup is ever called. Compared to WhenUsed this saves a check on
	// every lookup but pays for a refresh even on unused acquisitions.
	WhenRun bool

	// EachFrame registers one unconditional refresh with the registry's
	// frame hook, run at the frame boundary independent of access.
	EachFrame bool

	// Observed maintains the index through push notifications from the
	// host store instead of batch refreshes. Best used with components
	// that are replaced rather than mutated in place, since in-place
	// mutations produce no notification.
	Observed bool

	// NoRemovalObserver skips registering the buffering removal
	// observer. Only safe when components are never removed; this
	// precondition is not checked at runtime.
	NoRemovalObserver bool
}

var (
	// OnAccess refreshes lazily on the first lookup at each tick. A good
	// default for most indexes.
	OnAccess = RefreshPolicy{WhenUsed: true}

	// Conservative refreshes on first lookup and additionally once per
	// frame, so a removal at tick T is reflected by the next frame even
	// if no lookup happened at T.
	Conservative = RefreshPolicy{WhenUsed: true, EachFrame: true}

	// NoDespawnOptimized behaves like OnAccess but assumes the indexed
	// component is never removed and skips removal bookkeeping. If the
	// assumption is violated, removed entities linger in lookup results
	// until the removal feed has already expired; there is no runtime
	// check.
	NoDespawnOptimized = RefreshPolicy{WhenUsed: true, NoRemovalObserver: true}

	// Snapshot refreshes once per frame only. Lookups within a frame see
	// a consistent snapshot from the frame boundary.
	Snapshot = RefreshPolicy{EachFrame: true}

	// Manual never refreshes automatically. The caller must invoke
	// Refresh explicitly, and must do so within the removal feed's
	// retention window or removals are permanently missed.
	Manual = RefreshPolicy{}

	// Eager maintains the index synchronously through push observers,
	// with no batch refresh at all.
	Eager = RefreshPolicy{Observed: true}
)
