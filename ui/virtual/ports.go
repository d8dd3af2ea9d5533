package virtual

import "time"

// Scheduler runs callbacks on the host's update loop. All callbacks must be
// invoked on the same goroutine that drives passes; the engine does no
// locking.
type Scheduler interface {
	// Now runs fn as soon as the host can, before the next frame.
	Now(fn func())
	// NextFrame runs fn at the next display-frame boundary.
	NextFrame(fn func())
	// After runs fn once d has elapsed.
	After(d time.Duration, fn func())
}

// Measurer reads the rendered size of a mounted item. It is only valid after
// the layout of the pass that mounted id has been committed.
type Measurer interface {
	Measure(id string) (size int, ok bool)
}

// Container receives the total scrollable height after each pass.
type Container interface {
	SetContentHeight(h int)
}

// StyleWriter writes offset and height directly onto an already-mounted
// placeholder filler. It is the only mutation path that bypasses a pass.
type StyleWriter interface {
	WriteFiller(index, offset, height int)
}

// ScrollSource exposes the scroll position of the viewport hosting the list.
type ScrollSource interface {
	ScrollOffset() int
	ViewportExtent() int
	// Subscribe registers fn for scroll notifications and returns a func
	// that removes it.
	Subscribe(fn func()) (unsubscribe func())
}

// ThrottleFunc rate-limits fn to at most one call per interval.
type ThrottleFunc func(fn func(), interval time.Duration) func()

// Throttle returns a trailing-edge throttle of fn driven by s: the first call
// in a window schedules fn at the end of the window and later calls in the
// same window collapse into it.
func Throttle(s Scheduler, fn func(), interval time.Duration) func() {
	pending := false
	return func() {
		if pending {
			return
		}
		pending = true
		s.After(interval, func() {
			pending = false
			fn()
		})
	}
}

// Debounce returns a func that runs fn once calls have stopped for quiet.
func Debounce(s Scheduler, fn func(), quiet time.Duration) func() {
	var gen uint64
	return func() {
		gen++
		mine := gen
		s.After(quiet, func() {
			if mine == gen {
				fn()
			}
		})
	}
}
