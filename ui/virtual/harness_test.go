package virtual

import (
	"time"
)

// ---------------------------------------------------------------------------
// Fake ports
// ---------------------------------------------------------------------------

type delayed struct {
	d  time.Duration
	fn func()
}

type fakeScheduler struct {
	now   []func()
	frame []func()
	after []delayed
}

func (s *fakeScheduler) Now(fn func())       { s.now = append(s.now, fn) }
func (s *fakeScheduler) NextFrame(fn func()) { s.frame = append(s.frame, fn) }
func (s *fakeScheduler) After(d time.Duration, fn func()) {
	s.after = append(s.after, delayed{d: d, fn: fn})
}

// runNow runs the callbacks queued so far; callbacks they queue wait.
func (s *fakeScheduler) runNow() int {
	q := s.now
	s.now = nil
	for _, fn := range q {
		fn()
	}
	return len(q)
}

func (s *fakeScheduler) runFrame() int {
	q := s.frame
	s.frame = nil
	for _, fn := range q {
		fn()
	}
	return len(q)
}

func (s *fakeScheduler) runAfter() int {
	q := s.after
	s.after = nil
	for _, d := range q {
		d.fn()
	}
	return len(q)
}

// settle drains every queue until the list stops asking for passes.
func (s *fakeScheduler) settle(limit int) int {
	rounds := 0
	for rounds < limit {
		n := s.runNow() + s.runFrame() + s.runAfter()
		if n == 0 {
			break
		}
		rounds++
	}
	return rounds
}

type fakeScroll struct {
	top, extent int
	subs        map[int]func()
	next        int
}

func (f *fakeScroll) ScrollOffset() int   { return f.top }
func (f *fakeScroll) ViewportExtent() int { return f.extent }
func (f *fakeScroll) Subscribe(fn func()) func() {
	if f.subs == nil {
		f.subs = make(map[int]func())
	}
	id := f.next
	f.next++
	f.subs[id] = fn
	return func() { delete(f.subs, id) }
}

func (f *fakeScroll) scrollTo(top int) {
	f.top = top
	for _, fn := range f.subs {
		fn()
	}
}

type fakeContainer struct {
	heights []int
}

func (f *fakeContainer) SetContentHeight(h int) { f.heights = append(f.heights, h) }

type fakeStyles struct {
	writes  int
	fillers map[int][2]int
}

func (f *fakeStyles) WriteFiller(index, offset, height int) {
	if f.fillers == nil {
		f.fillers = make(map[int][2]int)
	}
	f.writes++
	f.fillers[index] = [2]int{offset, height}
}

// ---------------------------------------------------------------------------
// Harness: a headless host driving passes over a slice of items
// ---------------------------------------------------------------------------

type harness struct {
	c         *Controller
	sched     *fakeScheduler
	scroll    *fakeScroll
	container *fakeContainer
	styles    *fakeStyles

	items  []StaticData
	signal Version

	// rendered sizes reported by the measurement port
	real    map[string]int
	mounted map[string]bool
	calls   map[string]int

	placements map[string]Placement
}

func (h *harness) Measure(id string) (int, bool) {
	h.calls[id]++
	if !h.mounted[id] {
		return 0, false
	}
	v, ok := h.real[id]
	return v, ok
}

func newHarness(viewHeight int, opts ...Option) *harness {
	h := &harness{
		sched:      &fakeScheduler{},
		scroll:     &fakeScroll{extent: viewHeight},
		container:  &fakeContainer{},
		styles:     &fakeStyles{},
		real:       make(map[string]int),
		mounted:    make(map[string]bool),
		calls:      make(map[string]int),
		placements: make(map[string]Placement),
	}
	base := []Option{
		WithScheduler(h.sched),
		WithMeasurer(h),
		WithContainer(h.container),
		WithScrollSource(h.scroll),
		WithStyleWriter(h.styles),
		WithUpdateFunc(h.pass),
	}
	h.c = New(append(base, opts...)...)
	return h
}

func (h *harness) pass() {
	h.c.BeginPass(h.signal)
	clear(h.mounted)
	for _, d := range h.items {
		p := h.c.Resolve(d)
		h.placements[d.ID] = p
		if !p.DataOnly {
			h.mounted[d.ID] = true
		}
	}
	h.c.EndPass()
}

func (h *harness) y(id string) int { return h.placements[id].Y }

func static(id string, size int) StaticData { return StaticData{ID: id, Size: size} }
func dynamic(id string) StaticData          { return StaticData{ID: id} }
func inCategory(id, cat string) StaticData  { return StaticData{ID: id, Category: cat} }
