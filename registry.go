package entidx

import (
	"context"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Registry owns the storage resources behind indexes, keyed by
// definition name. Storages are instantiated lazily on first acquisition
// and live for the lifetime of the registry.
//
// Indexes with an EachFrame policy register a refresh hook here; the
// host is expected to call RefreshFrame once at a fixed point in each
// frame.
type Registry struct {
	mu       sync.Mutex
	logger   *Logger
	metrics  MetricsCollector
	storages map[string]any
	frame    []frameHook
}

type frameHook struct {
	name    string
	refresh func()
}

// NewRegistry creates an empty registry.
func NewRegistry(optFns ...Option) *Registry {
	o := applyOptions(optFns)
	return &Registry{
		logger:   o.logger,
		metrics:  o.metrics,
		storages: make(map[string]any),
	}
}

// RefreshFrame runs every registered per-frame refresh. Call it once at
// a fixed point in each frame, after Step on the host store. Hooks run
// in parallel; each index storage is touched by exactly one goroutine.
func (r *Registry) RefreshFrame(ctx context.Context) error {
	r.mu.Lock()
	hooks := slices.Clone(r.frame)
	r.mu.Unlock()

	g, _ := errgroup.WithContext(ctx)
	for _, h := range hooks {
		g.Go(func() error {
			h.refresh()
			return nil
		})
	}
	return g.Wait()
}

// FrameHooks returns the number of registered per-frame refresh hooks.
func (r *Registry) FrameHooks() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frame)
}

func (r *Registry) addFrameHook(name string, refresh func()) {
	r.frame = append(r.frame, frameHook{name: name, refresh: refresh})
	r.logger.Debug("frame refresh registered", "index", name)
}

func (r *Registry) timedRefresh(name string, forced bool, refresh func()) {
	start := time.Now()
	refresh()
	d := time.Since(start)
	r.metrics.RecordRefresh(d, forced)
	r.logger.LogRefresh(name, d, forced)
}
