package preview

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/linkpeek/linkpeek/internal/cache"
	"github.com/linkpeek/linkpeek/internal/loader"
	"github.com/linkpeek/linkpeek/internal/match"
	"github.com/linkpeek/linkpeek/pkg/types"
)

// Controller states.
const (
	StateIdle    = "idle"
	StatePending = "pending"
	StateLoading = "loading"
	StateShown   = "shown"
	StateError   = "error"
)

// errorMessage is the fixed user-visible text rendered on a load failure.
const errorMessage = "Image failed to load"

// Position is a page-relative top-left coordinate for the preview container.
type Position struct {
	X int
	Y int
}

// Renderer is the rendering port. Implementations own the actual container —
// the WebSocket bridge forwards these as render commands to the extension,
// tests record them. Calls must not block.
//
// The controller guarantees at most one container is live: every Show call
// for a new hover is preceded by Hide for the previous one.
type Renderer interface {
	ShowLoading(pos Position)
	ShowImage(url string, w, h int, pos Position)
	ShowError(message string, pos Position)
	Hide()
}

// Tunables are the behavior knobs, loaded from config and hot-reloadable.
type Tunables struct {
	// HoverDelay is the debounce interval between pointer-enter and the
	// load starting.
	HoverDelay time.Duration

	// OffsetX/OffsetY is the fixed margin between the pointer and the
	// container's default top-left corner.
	OffsetX int
	OffsetY int

	// PlaceholderW/PlaceholderH are the dimensions assumed for positioning
	// when the image's intrinsic size is unknown (SVG, error indicator).
	PlaceholderW int
	PlaceholderH int
}

// DefaultTunables returns the production defaults.
func DefaultTunables() Tunables {
	return Tunables{
		HoverDelay:   150 * time.Millisecond,
		OffsetX:      20,
		OffsetY:      20,
		PlaceholderW: 120,
		PlaceholderH: 90,
	}
}

// Counters aggregates preview outcomes across all controllers for the
// metrics endpoint.
type Counters struct {
	Shown        atomic.Uint64
	LoadFailures atomic.Uint64
	Superseded   atomic.Uint64
}

// origin is the pointer position and viewport captured at pointer-enter.
type origin struct {
	x, y      int
	viewportW int
	viewportH int
}

// Controller owns one page context's hover state. All mutable fields live
// behind the mutex; the timer callback and the load goroutine re-enter
// through it and are gated by the generation guard.
type Controller struct {
	matcher  *match.Matcher
	cache    *cache.Cache
	loader   loader.Loader
	renderer Renderer
	counters *Counters

	mu         sync.Mutex
	tun        Tunables
	state      string
	target     string
	generation uint64
	timer      *time.Timer
	at         origin

	// Injectable for deterministic tests.
	now     func() time.Time
	timerFn func(d time.Duration, f func()) *time.Timer
	spawn   func(f func())
}

// New creates a Controller. counters may be shared across controllers; nil
// allocates a private set.
func New(m *match.Matcher, ca *cache.Cache, ld loader.Loader, r Renderer, tun Tunables, counters *Counters) *Controller {
	if counters == nil {
		counters = &Counters{}
	}
	return &Controller{
		matcher:  m,
		cache:    ca,
		loader:   ld,
		renderer: r,
		counters: counters,
		tun:      tun,
		state:    StateIdle,
		now:      time.Now,
		timerFn:  time.AfterFunc,
		spawn:    func(f func()) { go f() },
	}
}

// State returns the current state name.
func (c *Controller) State() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetTunables replaces the behavior knobs. Takes effect from the next hover.
func (c *Controller) SetTunables(tun Tunables) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tun = tun
}

// Enter handles a pointer-enter event. Links that do not resolve to an image
// URL are ignored. Re-entering the link of the still-active hover is a no-op;
// a different qualifying link tears the active hover down and starts over.
// ctx bounds the image load that may follow and should span the page session.
func (c *Controller) Enter(ctx context.Context, ev types.PointerEvent) {
	resolved, ok := c.matcher.Resolve(ev.URL)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if resolved == c.target && c.state != StateIdle {
		return
	}

	c.teardownLocked()
	c.generation++
	c.target = resolved
	c.at = origin{x: ev.X, y: ev.Y, viewportW: ev.ViewportW, viewportH: ev.ViewportH}
	c.state = StatePending

	gen := c.generation
	c.timer = c.timerFn(c.tun.HoverDelay, func() { c.fire(ctx, gen) })

	slog.Debug("preview: hover armed", "url", resolved, "x", ev.X, "y", ev.Y)
}

// Leave handles a pointer-leave event: any state collapses to Idle. The
// generation bump suppresses whatever timer or load is still in flight.
func (c *Controller) Leave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.teardownLocked()
}

// teardownLocked cancels the timer, destroys any visible container, and
// resets the tracked URL. Callers hold c.mu.
func (c *Controller) teardownLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	switch c.state {
	case StateLoading, StateShown, StateError:
		c.renderer.Hide()
	}
	c.state = StateIdle
	c.target = ""
}

// fire runs when the debounce timer elapses. A stale generation means the
// hover was abandoned or superseded while the timer was pending.
func (c *Controller) fire(ctx context.Context, gen uint64) {
	c.mu.Lock()
	if gen != c.generation || c.state != StatePending {
		c.mu.Unlock()
		return
	}

	c.state = StateLoading
	c.timer = nil
	url := c.target
	at := c.at
	tun := c.tun

	c.renderer.ShowLoading(Position{X: at.x + tun.OffsetX, Y: at.y + tun.OffsetY})

	// A cached URL is served without a daemon-side refetch: the recorded
	// dimensions position the container, and the extension's img element
	// resolves the URL from the browser cache.
	if e, ok := c.cache.Get(url); ok {
		w, h := e.Width, e.Height
		if w <= 0 || h <= 0 {
			w, h = tun.PlaceholderW, tun.PlaceholderH
		}
		c.state = StateShown
		c.renderer.ShowImage(url, w, h, place(at, w, h, tun))
		c.counters.Shown.Add(1)
		c.mu.Unlock()
		slog.Debug("preview: shown from cache", "url", url, "w", w, "h", h)
		return
	}

	start := c.now()
	c.mu.Unlock()

	slog.Debug("preview: loading", "url", url)

	c.spawn(func() {
		info, err := c.loader.Load(ctx, url)
		c.finish(gen, url, info, err, start)
	})
}

// finish applies a load outcome. The generation and URL are compared against
// the controller's current hover; a mismatch means this result belongs to a
// superseded hover and must be discarded unrendered.
func (c *Controller) finish(gen uint64, url string, info loader.Info, err error, start time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation || url != c.target {
		c.counters.Superseded.Add(1)
		slog.Debug("preview: discarding superseded load", "url", url)
		return
	}

	if err != nil {
		c.state = StateError
		c.counters.LoadFailures.Add(1)
		pos := place(c.at, c.tun.PlaceholderW, c.tun.PlaceholderH, c.tun)
		c.renderer.ShowError(errorMessage, pos)
		slog.Warn("preview: image load failed", "url", url, "err", err)
		return
	}

	c.cache.Put(url, cache.Entry{
		SourceURL:    url,
		LoadDuration: c.now().Sub(start),
		RecordedAt:   c.now(),
		Width:        info.Width,
		Height:       info.Height,
	})

	w, h := info.Width, info.Height
	if w <= 0 || h <= 0 {
		w, h = c.tun.PlaceholderW, c.tun.PlaceholderH
	}

	c.state = StateShown
	c.renderer.ShowImage(url, w, h, place(c.at, w, h, c.tun))
	c.counters.Shown.Add(1)
	slog.Debug("preview: shown", "url", url, "w", w, "h", h)
}
