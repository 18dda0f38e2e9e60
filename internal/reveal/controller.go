// Package reveal grows a visible prefix of the catalog in fixed steps as the
// viewer approaches the end of the rendered list.
package reveal

import (
	"context"
	"errors"
	"sync"
	"time"

	"tcorea.dev/internal/models"
)

// Defaults for the visible window
const (
	DefaultInitial = 4
	DefaultStep    = 4
	DefaultSettle  = 500 * time.Millisecond
)

// ErrCatalogSet is returned when a controller is given a second catalog
var ErrCatalogSet = errors.New("reveal: catalog already set")

// ErrClosed is returned by Wait on a closed controller
var ErrClosed = errors.New("reveal: controller closed")

// State of the controller
type State int

const (
	IdleEmpty State = iota
	IdlePartial
	LoadingMore
	IdleComplete
)

func (s State) String() string {
	switch s {
	case IdleEmpty:
		return "idle-empty"
	case IdlePartial:
		return "idle-partial"
	case LoadingMore:
		return "loading-more"
	case IdleComplete:
		return "idle-complete"
	}
	return "unknown"
}

// Snapshot is a consistent view of the controller
type Snapshot struct {
	State   State
	Visible []models.Project
	Total   int
	Loading bool
}

// More reports whether the window can still grow
func (s Snapshot) More() bool {
	return len(s.Visible) < s.Total
}

// Option configures a Controller
type Option func(*Controller)

// WithSizes sets the initial window and the growth step. Non-positive values are ignored.
func WithSizes(initial, step int) Option {
	return func(c *Controller) {
		if initial > 0 {
			c.initial = initial
		}
		if step > 0 {
			c.step = step
		}
	}
}

// WithSettle sets the delay between a proximity signal and the append
func WithSettle(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.settle = d
		}
	}
}

// WithClock replaces the clock used for the settle timer
func WithClock(clock Clock) Option {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithOnChange registers a callback run after every state change, outside the lock
func WithOnChange(fn func(Snapshot)) Option {
	return func(c *Controller) {
		c.onChange = fn
	}
}

// Controller owns the visible window of one mounted gallery view.
//
// The window is always a prefix of the catalog and only grows. A proximity
// signal is edge-triggered: it fires when the sentinel goes from far to near,
// and is ignored while a previous growth is still settling.
type Controller struct {
	mu       sync.Mutex
	clock    Clock
	initial  int
	step     int
	settle   time.Duration
	onChange func(Snapshot)

	catalog []models.Project
	set     bool
	k       int
	loading bool
	near    bool
	timer   Timer
	idle    chan struct{}
	closed  bool
}

// New creates a controller in IdleEmpty
func New(opts ...Option) *Controller {
	c := &Controller{
		clock:   RealClock,
		initial: DefaultInitial,
		step:    DefaultStep,
		settle:  DefaultSettle,
		idle:    make(chan struct{}),
	}
	close(c.idle)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetCatalog installs the loaded catalog and opens the initial window
func (c *Controller) SetCatalog(projects []models.Project) error {
	return c.install(projects, 0)
}

// Resume installs the catalog with a window of k records, clamped between the
// initial window and the whole catalog. It remounts a view whose page already
// shows k records.
func (c *Controller) Resume(projects []models.Project, k int) error {
	return c.install(projects, k)
}

func (c *Controller) install(projects []models.Project, k int) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.set {
		c.mu.Unlock()
		return ErrCatalogSet
	}
	c.catalog = projects
	c.set = true
	c.k = min(max(c.initial, k), len(projects))
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
	return nil
}

// Proximity reports whether the sentinel is near the viewport. It returns true
// when this signal started a growth.
func (c *Controller) Proximity(near bool) bool {
	_, started := c.proximity(near)
	return started
}

// Signal is Proximity(true) that also returns the window length the growth
// starts from, read under the same lock.
func (c *Controller) Signal() (from int, started bool) {
	return c.proximity(true)
}

func (c *Controller) proximity(near bool) (int, bool) {
	c.mu.Lock()
	wasNear := c.near
	c.near = near
	from := c.k
	if !near || wasNear || c.closed || c.loading || !c.set || c.k >= len(c.catalog) {
		c.mu.Unlock()
		return from, false
	}

	c.loading = true
	c.idle = make(chan struct{})
	c.timer = c.clock.AfterFunc(c.settle, c.grow)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
	return from, true
}

func (c *Controller) grow() {
	c.mu.Lock()
	if c.closed || !c.loading {
		c.mu.Unlock()
		return
	}
	c.k += min(c.step, len(c.catalog)-c.k)
	c.loading = false
	c.timer = nil
	close(c.idle)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
}

// Wait blocks until no growth is pending and returns the resulting snapshot
func (c *Controller) Wait(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	idle := c.idle
	c.mu.Unlock()

	select {
	case <-idle:
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return Snapshot{}, ErrClosed
	}
	return c.snapshotLocked(), nil
}

// Snapshot returns the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Close deregisters the controller. A pending growth is dropped and later
// signals are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.loading {
		c.loading = false
		close(c.idle)
	}
}

// Closed reports whether Close was called
func (c *Controller) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{
		Visible: c.catalog[:c.k:c.k],
		Total:   len(c.catalog),
		Loading: c.loading,
	}
	switch {
	case !c.set:
		s.State = IdleEmpty
	case c.loading:
		s.State = LoadingMore
	case c.k < len(c.catalog):
		s.State = IdlePartial
	default:
		s.State = IdleComplete
	}
	return s
}

func (c *Controller) notify(s Snapshot) {
	if c.onChange != nil {
		c.onChange(s)
	}
}
