package list

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// frameInterval approximates one display frame for NextFrame callbacks.
const frameInterval = time.Second / 60

// ---------------------------------------------------------------------------
// Scheduler
// ---------------------------------------------------------------------------

type task struct {
	delay time.Duration
	fn    func()
}

// taskQueue collects engine callbacks until the next Update returns, when
// they are turned into commands. Callbacks come back as callbackMsg so they
// run on the program's update goroutine.
type taskQueue struct {
	tasks []task
}

func (q *taskQueue) Now(fn func())       { q.tasks = append(q.tasks, task{fn: fn}) }
func (q *taskQueue) NextFrame(fn func()) { q.tasks = append(q.tasks, task{delay: frameInterval, fn: fn}) }
func (q *taskQueue) After(d time.Duration, fn func()) {
	q.tasks = append(q.tasks, task{delay: d, fn: fn})
}

func (q *taskQueue) drain() []task {
	t := q.tasks
	q.tasks = nil
	return t
}

func (q *taskQueue) len() int { return len(q.tasks) }

// callbackMsg carries a deferred engine callback back into Update.
type callbackMsg struct {
	list *Model
	fn   func()
}

func (m *Model) command(t task) tea.Cmd {
	msg := callbackMsg{list: m, fn: t.fn}
	if t.delay <= 0 {
		return func() tea.Msg { return msg }
	}
	return tea.Tick(t.delay, func(time.Time) tea.Msg { return msg })
}

// ---------------------------------------------------------------------------
// Ports
// ---------------------------------------------------------------------------

// ports adapts the terminal viewport to the engine's measurement, container,
// scroll and filler ports. It is a separate type so the methods stay off the
// Model's API.
type ports struct {
	m *Model
}

// Measure reports the line count of the content mounted in the last pass,
// plus the gap that follows it.
func (p ports) Measure(id string) (int, bool) {
	content, ok := p.m.mounted[id]
	if !ok {
		return 0, false
	}
	return lipgloss.Height(content) + p.m.gap, true
}

// SetContentHeight drops the trailing gap, then keeps a reversed list on the
// bottom or an anchored item in place.
func (p ports) SetContentHeight(h int) {
	m := p.m
	follow := m.reverse && m.AtBottom()
	m.contentHeight = max(0, h-m.gap)
	switch {
	case follow:
		m.setOffset(m.maxOffset())
	case m.anchor != nil:
		m.restoreAnchor()
	default:
		m.setOffset(m.offset)
	}
}

func (p ports) ScrollOffset() int   { return p.m.offset }
func (p ports) ViewportExtent() int { return p.m.height }

func (p ports) Subscribe(fn func()) func() {
	m := p.m
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	return func() { delete(m.subs, id) }
}

func (p ports) WriteFiller(index, offset, height int) {
	p.m.fillers[index] = filler{offset: offset, height: height}
}
