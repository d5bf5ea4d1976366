package randpart

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Core is the façade (C7): it owns the grid, the store, the lifecycle
// stepper and the work pool, and is the only type a host binary talks to.
// It is single-threaded from the caller's perspective — tick() is never
// safe to call concurrently with itself or with Snapshot().
type Core struct {
	ID uuid.UUID

	layout               Layout
	stopAfterInitialLoad bool

	grid      *Grid
	store     *Store
	lifecycle *Lifecycle
	pool      *Pool
	logger    Logger

	workerCountOverride int
}

// Option configures a Core at construction time.
type Option func(*Core)

// WithLogger overrides the default no-op logger.
func WithLogger(l Logger) Option {
	return func(c *Core) { c.logger = l }
}

// WithWorkerCount overrides DefaultWorkerCount() for the recount pool.
func WithWorkerCount(n int) Option {
	return func(c *Core) {
		if n > 0 {
			c.workerCountOverride = n
		}
	}
}

// New allocates a Core at the given capacity, seeds every slot dead, and
// starts it under layout. stopAfterInitialLoad, when true, makes Tick pause
// the simulation each time the batch cursor wraps, i.e. once every slot has
// been visited (see Tick): the spec's literal wording ("clear paused internally") reads
// as unpausing, but its own rationale — "lets a caller freeze the animation
// once every slot has been spawned" — only makes sense as a pause, so
// that's what's implemented; see DESIGN.md. capacity == 0 is the one case
// the core signals
// KindCapacityExhausted for; everything else about that error kind is
// impossible to hit at runtime.
func New(capacity int, layout Layout, stopAfterInitialLoad bool, opts ...Option) (*Core, error) {
	if capacity == 0 {
		return nil, fatalf(KindCapacityExhausted, "New", "capacity must be > 0")
	}

	c := &Core{
		ID:                   uuid.New(),
		layout:               layout,
		stopAfterInitialLoad: stopAfterInitialLoad,
		store:                NewStore(capacity),
		logger:               NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	workers := c.workerCountOverride
	if workers == 0 {
		workers = DefaultWorkerCount()
	}

	c.grid = NewGrid(IntervalsPerAxis, MinCoord, MaxCoord)
	c.lifecycle = NewLifecycle(time.Now().UnixNano())
	c.pool = NewPool(workers)

	c.logger.Infof("core %s: allocated capacity=%d layout=%s workers=%d", c.ID, capacity, layout, workers)
	return c, nil
}

// Tick runs one frame: the lifecycle stepper advances its batch (touching
// some slots), then — unless the active layout is the dual-color demo,
// which never needs counts — the density aggregator recomputes density for
// every slot whose neighborhood could have changed, and the global maximum
// is refreshed. dtMS is the caller-supplied frame delta in milliseconds.
//
// Any fatal error surfaced by the grid aborts the tick and is returned; the
// core does not retry it, and slots the tick changed before the error keep
// those changes (nothing is rolled back).
//
// stop_after_initial_load freezes the simulation (see New) the instant the
// batch cursor completes a full cycle; after an unpause it freezes again at
// the next wrap.
func (c *Core) Tick(dtMS float32) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if fe, ok := r.(error); ok {
				c.logger.Errorf("core %s: tick aborted: %v", c.ID, fe)
				err = fe
				return
			}
			panic(r)
		}
	}()

	touched := c.lifecycle.Tick(dtMS, c.store, c.grid, c.layout)

	if !c.layout.IsDualColorDemo() {
		Aggregate(touched, c.store, c.grid, c.pool)
	}

	if c.stopAfterInitialLoad && c.lifecycle.Wrapped() {
		c.lifecycle.SetPaused(true)
	}

	if c.logger.DebugEnabled() {
		summary := summarizeDensity(c.store)
		c.logger.Debugf("core %s: density mean=%.2f stddev=%.2f max=%d live=%d",
			c.ID, summary.Mean, summary.StdDev, summary.Max, summary.Count)
	}

	return nil
}

// SetLayout switches the active layout. Per §4.7, switching to a different
// layout kills every particle, empties the grid, unpauses, and resets the
// batch cursor; the next ticks repopulate under the new layout. Setting the
// same layout again is a no-op.
func (c *Core) SetLayout(l Layout) {
	if l == c.layout {
		return
	}
	c.layout = l
	c.store.resetAll()
	c.grid.Clear()
	c.lifecycle.SetPaused(false)
	c.lifecycle.Reset()
	c.logger.Infof("core %s: layout -> %s", c.ID, l)
}

// Layout returns the currently active layout.
func (c *Core) Layout() Layout { return c.layout }

// TogglePaused flips the paused flag.
func (c *Core) TogglePaused() {
	c.lifecycle.TogglePaused()
	c.logger.Debugf("core %s: paused=%v", c.ID, c.lifecycle.Paused())
}

// Paused reports the current paused flag.
func (c *Core) Paused() bool { return c.lifecycle.Paused() }

// Snapshot is the zero-copy view the renderer reads between ticks: the
// backing SoA slices plus the current normalization maximum. The caller
// must not retain or mutate these slices across a subsequent Tick call.
func (c *Core) Snapshot() (positions []mgl32.Vec3, densities []uint32, timesToDeath []float32, maxDensity uint32) {
	return c.store.Pos, c.store.Density, c.store.TimeToDeath, c.store.MaxDensity
}

// Close releases the recount pool's workers. Call once the Core is no
// longer needed.
func (c *Core) Close() {
	c.pool.Close()
}
