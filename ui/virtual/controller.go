// Package virtual windows long, variable-height lists so that only items
// near the viewport mount real content. Off-screen items stay in the pass
// order, so scroll height and ranking stay correct, but skip rendering.
//
// Key properties:
//   - Sizes come from three sources: an explicit size, a shared size
//     category measured once through a single probe item, or a per-item
//     measurement taken after layout.
//   - Unknown sizes converge progressively: at most MaxMeasurePerBatch items
//     are staged off-screen and measured per pass, and further passes are
//     requested until nothing is invalidated or queued.
//   - Forced updates collapse to one per pass and go through an injected
//     Scheduler; the engine never touches the host UI directly, only the
//     ports declared in ports.go.
package virtual

import (
	"iter"
	"log/slog"
	"slices"
)

const (
	// MaxMeasurePerBatch bounds how many unknown-size items are mounted for
	// measurement in a single pass.
	MaxMeasurePerBatch = 5

	// StagingOffset positions items being probed where they cannot be seen.
	StagingOffset = -5000
)

// Stats summarises the latest pass.
type Stats struct {
	Passes   int
	Items    int
	Mounted  int
	DataOnly int
	Queued   int
	Measured int
	Height   int
}

type placed struct {
	y        int
	dataOnly bool
}

// Controller owns the size store and render pass state for one list. It is
// not safe for concurrent use; every method must be called from the host's
// update loop.
type Controller struct {
	opts options
	log  *slog.Logger

	sizes *SizeStore

	// cur and prev are swapped at BeginPass.
	cur, prev *passState

	// invalidated survives across passes and is pruned, never reset.
	invalidated map[string]struct{}

	placed map[string]placed
	warned map[string]struct{}

	signal  Version
	started bool
	token   Version

	requested bool

	scrollTop     int
	viewHeight    int
	contentHeight int

	window      *placeholderWindow
	unsubscribe func()

	passes   int
	measured int
}

// New returns a Controller configured with opts.
func New(opts ...Option) *Controller {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	c := &Controller{
		opts:        o,
		log:         o.logger,
		sizes:       NewSizeStore(),
		cur:         newPassState(),
		prev:        newPassState(),
		invalidated: make(map[string]struct{}),
		placed:      make(map[string]placed),
		warned:      make(map[string]struct{}),
	}
	if o.placeholders != nil {
		c.window = &placeholderWindow{desc: *o.placeholders, sizes: c.sizes}
	}
	if o.scroll != nil {
		c.scrollTop = o.scroll.ScrollOffset()
		c.viewHeight = o.scroll.ViewportExtent()
	}
	return c
}

// Sizes exposes the size store.
func (c *Controller) Sizes() *SizeStore { return c.sizes }

// ScrollTop returns the last recorded scroll offset.
func (c *Controller) ScrollTop() int { return c.scrollTop }

// ViewHeight returns the last recorded viewport extent.
func (c *Controller) ViewHeight() int { return c.viewHeight }

// ContentHeight returns the last non-zero pass cursor.
func (c *Controller) ContentHeight() int { return c.contentHeight }

// Invalidated reports whether id is currently marked stale.
func (c *Controller) Invalidated(id string) bool {
	_, ok := c.invalidated[id]
	return ok
}

// Stats reports on the latest pass.
func (c *Controller) Stats() Stats {
	return Stats{
		Passes:   c.passes,
		Items:    len(c.cur.order),
		Mounted:  c.cur.mounted,
		DataOnly: c.cur.dataOnly,
		Queued:   len(c.cur.candidates),
		Measured: c.measured,
		Height:   c.contentHeight,
	}
}

// ---------------------------------------------------------------------------
// Forced updates
// ---------------------------------------------------------------------------

// RequestUpdate asks the host for another pass. Calls after the first in a
// pass are dropped. fast schedules as soon as possible; otherwise the pass
// waits for the next frame.
func (c *Controller) RequestUpdate(fast bool) {
	if c.requested {
		return
	}
	c.requested = true
	s, run := c.opts.scheduler, c.opts.update
	if s == nil || run == nil {
		return
	}
	if fast {
		s.Now(run)
	} else {
		s.NextFrame(run)
	}
}

// Pending reports whether an update was requested since the pass began.
func (c *Controller) Pending() bool { return c.requested }

// ---------------------------------------------------------------------------
// Pass lifecycle
// ---------------------------------------------------------------------------

// BeginPass starts a pass. A signal different from the previous pass's
// forces a structural recompute: every previously ordered id is invalidated
// and every item is visited as data-only.
func (c *Controller) BeginPass(signal Version) {
	c.prev, c.cur = c.cur, c.prev
	c.token.Bump()
	c.cur.reset(c.token)
	c.requested = false
	c.passes++

	for id := range c.invalidated {
		if _, ok := c.prev.index[id]; !ok {
			delete(c.invalidated, id)
		}
	}

	if !c.started || signal != c.signal {
		for _, id := range c.prev.order {
			c.invalidated[id] = struct{}{}
		}
		c.cur.structural = true
	}
	c.signal = signal
	c.started = true
}

// EndPass runs the post-layout step. The host calls it once the pass's
// layout has been committed.
func (c *Controller) EndPass() {
	pass := c.cur

	if pass.y > 0 {
		c.contentHeight = pass.y
		if c.opts.container != nil {
			c.opts.container.SetContentHeight(pass.y)
		}
	}

	if c.opts.scroll != nil {
		c.viewHeight = c.opts.scroll.ViewportExtent()
		c.RepositionPlaceholders()
	}

	if len(pass.candidates) > 0 {
		batch := slices.Clone(pass.candidates)
		if s := c.opts.scheduler; s != nil {
			s.NextFrame(func() { c.measure(batch) })
		}
	}

	if pass.structural {
		for id := range c.placed {
			if _, ok := pass.index[id]; !ok {
				delete(c.placed, id)
			}
		}
	}

	c.log.Debug("pass complete",
		"pass", c.passes,
		"items", len(pass.order),
		"mounted", pass.mounted,
		"queued", len(pass.candidates),
		"invalidated", len(c.invalidated),
		"structural", pass.structural,
		"height", pass.y,
	)

	if pass.structural || len(c.invalidated) > 0 {
		c.RequestUpdate(false)
	}
}

// measure reads the rendered size of each candidate. A category is measured
// at most once per batch; later members share the result.
func (c *Controller) measure(ids []string) {
	m := c.opts.measurer
	if m == nil {
		return
	}
	done := make(map[string]struct{})
	for _, id := range ids {
		rec, _ := c.sizes.Record(id)
		cat := rec.Category
		if cat != "" {
			if _, ok := done[cat]; ok {
				delete(c.invalidated, id)
				continue
			}
		}

		h, ok := m.Measure(id)
		if !ok || h <= 0 {
			// Unmounted before we got here. Category members heal once any
			// other member is measured; plain items still placed stay invalidated
			// until retried.
			if _, live := c.placed[id]; live && cat == "" {
				c.invalidated[id] = struct{}{}
				c.RequestUpdate(false)
			}
			continue
		}
		c.measured++
		c.sizes.ClearStale(id)
		if cat != "" {
			done[cat] = struct{}{}
		}

		current, _ := c.sizes.Size(id)
		if h == current {
			continue
		}
		if cat != "" {
			c.sizes.ResolveCategory(cat, h)
			c.log.Debug("category measured", "category", cat, "id", id, "size", h)
		} else {
			c.sizes.SetSize(id, h)
			c.log.Debug("item measured", "id", id, "size", h)
		}
		c.RequestUpdate(false)
	}
}

// Release drops all bookkeeping for an item that left the list.
func (c *Controller) Release(id string) {
	c.cur.unqueue(id)
	delete(c.invalidated, id)
	delete(c.placed, id)
	delete(c.warned, id)
	c.sizes.ClearStale(id)
	if rec, ok := c.sizes.Record(id); ok && rec.Category != "" {
		if c.sizes.ReleaseClaim(rec.Category, id) {
			c.log.Debug("category claim released", "category", rec.Category, "id", id)
		}
	}
}

// ---------------------------------------------------------------------------
// Scrolling and placeholders
// ---------------------------------------------------------------------------

// Attach subscribes to the scroll source. Scroll events record the latest
// offset and request a fast pass, rate limited per Optimizations. When
// limited and placeholders are enabled, fillers still follow every raw
// event.
func (c *Controller) Attach() {
	src := c.opts.scroll
	if src == nil || c.unsubscribe != nil {
		return
	}
	c.viewHeight = src.ViewportExtent()

	handle := c.HandleScroll
	limited := false
	switch opt := c.opts.opt; {
	case opt.OnlyUpdateAtIdle && c.opts.scheduler != nil:
		quiet := opt.Throttle
		if quiet <= 0 {
			quiet = idleQuiet
		}
		handle = Debounce(c.opts.scheduler, handle, quiet)
		limited = true
	case opt.Throttle > 0:
		switch {
		case c.opts.throttle != nil:
			handle = c.opts.throttle(handle, opt.Throttle)
			limited = true
		case c.opts.scheduler != nil:
			handle = Throttle(c.opts.scheduler, handle, opt.Throttle)
			limited = true
		}
	}
	if limited && c.window != nil {
		inner := handle
		handle = func() {
			c.RepositionPlaceholders()
			inner()
		}
	}
	c.unsubscribe = src.Subscribe(handle)
}

// Detach removes the scroll subscription.
func (c *Controller) Detach() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

// HandleScroll records the scroll position and requests a fast pass.
func (c *Controller) HandleScroll() {
	src := c.opts.scroll
	if src == nil {
		return
	}
	c.scrollTop = src.ScrollOffset()
	c.viewHeight = src.ViewportExtent()
	c.RequestUpdate(true)
}

// Fillers returns the placeholder fillers for the current viewport. The
// sequence is empty when placeholders are disabled or unresolved.
func (c *Controller) Fillers() iter.Seq[Filler] {
	if c.window == nil {
		return func(func(Filler) bool) {}
	}
	return c.window.fillers(c.viewHeight)
}

// RepositionPlaceholders moves mounted fillers to the current scroll offset
// through the style-write port.
func (c *Controller) RepositionPlaceholders() {
	if c.window == nil || c.opts.scroll == nil {
		return
	}
	c.window.reposition(c.opts.styles, c.opts.scroll.ScrollOffset(), c.viewHeight, c.cur.y)
}
