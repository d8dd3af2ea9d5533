package virtual

import (
	"io"
	"log/slog"
	"time"
)

// Optimizations rate-limit forced updates caused by scrolling.
type Optimizations struct {
	// Throttle limits scroll-driven passes to one per interval.
	Throttle time.Duration
	// OnlyUpdateAtIdle defers scroll-driven passes until scrolling pauses.
	OnlyUpdateAtIdle bool
}

// Deoptimizations trade speed for correctness in unusual lists.
type Deoptimizations struct {
	// OverzealousInvalidation refreshes data-only items on every pass.
	OverzealousInvalidation bool
	// ItemsOutsideViewportCanChangeSize lets InvalidateSize mark a dynamic
	// item's stored size stale so it is measured again.
	ItemsOutsideViewportCanChangeSize bool
}

// Placeholders describes the filler elements drawn under the list while
// real items are not mounted. Category wins over Size when both are set.
type Placeholders struct {
	Size     int
	Category string
}

// idleQuiet is the debounce window for OnlyUpdateAtIdle when no throttle
// interval is configured.
const idleQuiet = 50 * time.Millisecond

type options struct {
	scheduler    Scheduler
	measurer     Measurer
	container    Container
	scroll       ScrollSource
	styles       StyleWriter
	placeholders *Placeholders
	opt          Optimizations
	deopt        Deoptimizations
	throttle     ThrottleFunc
	logger       *slog.Logger
	update       func()
}

// Option is a functional option for New.
type Option func(*options)

// WithScheduler sets the host scheduler used for forced updates and
// measurement batches.
func WithScheduler(s Scheduler) Option {
	return func(o *options) { o.scheduler = s }
}

// WithMeasurer sets the measurement port.
func WithMeasurer(m Measurer) Option {
	return func(o *options) { o.measurer = m }
}

// WithContainer sets the port receiving the total content height.
func WithContainer(c Container) Option {
	return func(o *options) { o.container = c }
}

// WithScrollSource sets the viewport scroll source.
func WithScrollSource(s ScrollSource) Option {
	return func(o *options) { o.scroll = s }
}

// WithStyleWriter sets the port used to reposition placeholder fillers.
func WithStyleWriter(w StyleWriter) Option {
	return func(o *options) { o.styles = w }
}

// WithPlaceholders enables the placeholder window.
func WithPlaceholders(p Placeholders) Option {
	return func(o *options) { o.placeholders = &p }
}

// WithOptimizations sets scroll rate limiting.
func WithOptimizations(opt Optimizations) Option {
	return func(o *options) { o.opt = opt }
}

// WithDeoptimizations sets the correctness-over-speed flags.
func WithDeoptimizations(d Deoptimizations) Option {
	return func(o *options) { o.deopt = d }
}

// WithThrottle replaces the default scheduler-driven throttle.
func WithThrottle(fn ThrottleFunc) Option {
	return func(o *options) { o.throttle = fn }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithUpdateFunc sets the func the scheduler invokes to run the next pass.
func WithUpdateFunc(fn func()) Option {
	return func(o *options) { o.update = fn }
}

func defaultOptions() options {
	return options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}
