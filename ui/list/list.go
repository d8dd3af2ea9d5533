// Package list hosts a virtual.Controller inside a bubbletea program: a
// line-offset scrollable list whose items only render while they are near
// the viewport.
//
// Key properties:
//   - Items report what they know about their height (Sized, Categorized);
//     the rest are rendered off-screen once and measured with lipgloss.
//   - The engine's scheduler callbacks are queued and returned from Update
//     and Cmd as tea commands, so every pass runs on the update goroutine.
//   - Rendered content is cached per item, keyed on width and
//     ContentVersion. A width change starts a fresh engine since every
//     stored height was taken at the old width.
//   - Placeholder fillers are painted under the list while items are
//     unmounted, e.g. during the data-only pass that follows SetItems.
package list

import (
	"io"
	"log/slog"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/miosa/osa-vlist/style"
	"github.com/miosa/osa-vlist/ui/virtual"
)

// ---------------------------------------------------------------------------
// Public interfaces
// ---------------------------------------------------------------------------

// Item is anything the list can render.
type Item interface {
	// ID returns a unique, stable identifier used for size and cache keying.
	ID() string

	// ContentVersion returns a monotonically increasing integer. When this
	// value changes the cached render for this item is discarded.
	ContentVersion() int

	// Render returns the rendered string for the given width.
	Render(width int) string
}

// Sized items know their height before rendering.
type Sized interface {
	Size(width int) int
}

// Categorized items share their height with every other item of the same
// category. Only one of them is measured.
type Categorized interface {
	SizeCategory() string
}

// MouseClickable items can handle click events.
type MouseClickable interface {
	HandleClick(x, y int) tea.Cmd
}

// ---------------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------------

// Option is a functional option for New.
type Option func(*Model)

// WithWidth sets the initial viewport width.
func WithWidth(w int) Option {
	return func(m *Model) { m.width = w }
}

// WithHeight sets the initial viewport height (number of terminal lines
// visible at once).
func WithHeight(h int) Option {
	return func(m *Model) { m.height = h }
}

// WithReverse anchors the list to the bottom of the viewport: short content
// is padded from the top and the view follows new lines while it is at the
// bottom.
func WithReverse(r bool) Option {
	return func(m *Model) { m.reverse = r }
}

// WithGap sets the number of blank lines inserted after each item.
func WithGap(g int) Option {
	return func(m *Model) {
		if g >= 0 {
			m.gap = g
		}
	}
}

// WithPlaceholders paints fillers of the given size under unmounted items.
func WithPlaceholders(p virtual.Placeholders) Option {
	return func(m *Model) { m.placeholders = &p }
}

// WithPlaceholderRender overrides how one filler line is drawn.
func WithPlaceholderRender(fn func(width int) string) Option {
	return func(m *Model) {
		if fn != nil {
			m.fillerLine = fn
		}
	}
}

// WithOptimizations sets scroll rate limiting.
func WithOptimizations(o virtual.Optimizations) Option {
	return func(m *Model) { m.opt = o }
}

// WithDeoptimizations sets the engine's correctness-over-speed flags.
func WithDeoptimizations(d virtual.Deoptimizations) Option {
	return func(m *Model) { m.deopt = d }
}

// WithLogger routes engine diagnostics to l.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.log = l
		}
	}
}

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

type cachedRender struct {
	content string
	width   int
	version int
}

// anchor pins the viewport to a line inside an item while items above it are
// being measured.
type anchor struct {
	id    string
	delta int
}

type filler struct {
	offset int
	height int
}

// Model is a virtualized scrollable list. Engine callbacks hold a pointer to
// it, so it is always used by reference; construct with New.
type Model struct {
	items  []Item
	width  int
	height int

	// reverse anchors content to the bottom of the viewport.
	reverse bool
	// gap is the number of blank lines after each item. It is folded into
	// every stored size, so the engine never sees it separately.
	gap int

	// offset is the index of the first visible content line.
	offset        int
	contentHeight int
	anchor        *anchor

	engine *virtual.Controller
	queue  taskQueue
	signal virtual.Version

	placeholders *virtual.Placeholders
	opt          virtual.Optimizations
	deopt        virtual.Deoptimizations
	log          *slog.Logger
	fillerLine   func(width int) string

	cache      map[string]cachedRender
	mounted    map[string]string
	placements map[string]virtual.Placement
	fillers    map[int]filler

	subs    map[int]func()
	nextSub int
}

// New constructs a Model with the supplied options.
func New(opts ...Option) *Model {
	m := &Model{
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		fillerLine: defaultFillerLine,
		cache:      make(map[string]cachedRender),
		mounted:    make(map[string]string),
		placements: make(map[string]virtual.Placement),
		fillers:    make(map[int]filler),
		subs:       make(map[int]func()),
	}
	for _, o := range opts {
		o(m)
	}
	m.engine = m.newEngine()
	return m
}

func (m *Model) newEngine() *virtual.Controller {
	p := ports{m: m}
	opts := []virtual.Option{
		virtual.WithScheduler(&m.queue),
		virtual.WithMeasurer(p),
		virtual.WithContainer(p),
		virtual.WithScrollSource(p),
		virtual.WithStyleWriter(p),
		virtual.WithOptimizations(m.opt),
		virtual.WithDeoptimizations(m.deopt),
		virtual.WithLogger(m.log),
		virtual.WithUpdateFunc(m.runPass),
	}
	if m.placeholders != nil {
		opts = append(opts, virtual.WithPlaceholders(*m.placeholders))
	}
	c := virtual.New(opts...)
	c.Attach()
	return c
}

func defaultFillerLine(width int) string {
	return style.Placeholder.Render(strings.Repeat("╌", width))
}

// Init requests the first pass.
func (m *Model) Init() tea.Cmd {
	m.engine.RequestUpdate(true)
	return m.Cmd()
}

// Cmd turns the engine callbacks queued since the last call into commands.
// Call it after any mutation made outside Update.
func (m *Model) Cmd() tea.Cmd {
	tasks := m.queue.drain()
	switch len(tasks) {
	case 0:
		return nil
	case 1:
		return m.command(tasks[0])
	}
	cmds := make([]tea.Cmd, len(tasks))
	for i, t := range tasks {
		cmds[i] = m.command(t)
	}
	return tea.Batch(cmds...)
}

// ---------------------------------------------------------------------------
// Pass
// ---------------------------------------------------------------------------

// runPass is the engine's update func: one full visit of the items.
func (m *Model) runPass() {
	e := m.engine
	e.BeginPass(m.signal)
	clear(m.mounted)
	for _, it := range m.items {
		id := it.ID()
		p := e.Resolve(m.staticData(it))
		m.placements[id] = p
		switch {
		case !p.DataOnly:
			m.mounted[id] = m.renderItem(it)
		case p.Refresh:
			// Drop renders that went stale while the item was off-screen.
			if cr, ok := m.cache[id]; ok && cr.version != it.ContentVersion() {
				delete(m.cache, id)
			}
		}
	}
	m.syncFillers()
	e.EndPass()
	if m.anchor != nil && !e.Pending() && e.Stats().Queued == 0 {
		m.anchor = nil
	}
}

func (m *Model) staticData(it Item) virtual.StaticData {
	d := virtual.StaticData{ID: it.ID()}
	if s, ok := it.(Sized); ok {
		if n := s.Size(m.width); n > 0 {
			d.Size = n + m.gap
		}
	}
	if c, ok := it.(Categorized); ok {
		d.Category = c.SizeCategory()
	}
	return d
}

// syncFillers mounts new fillers at their staging offset and unmounts the
// ones the window no longer needs. Placement is left to the engine.
func (m *Model) syncFillers() {
	n := 0
	for f := range m.engine.Fillers() {
		if _, ok := m.fillers[f.Index]; !ok {
			m.fillers[f.Index] = filler{offset: f.Offset, height: f.Height}
		}
		n++
	}
	for i := range m.fillers {
		if i >= n {
			delete(m.fillers, i)
		}
	}
}

// renderItem returns the cached or freshly rendered content for an item.
func (m *Model) renderItem(item Item) string {
	if m.width <= 0 {
		return ""
	}
	id := item.ID()
	ver := item.ContentVersion()
	if cr, ok := m.cache[id]; ok && cr.width == m.width && cr.version == ver {
		return cr.content
	}
	rendered := item.Render(m.width)
	m.cache[id] = cachedRender{content: rendered, width: m.width, version: ver}
	return rendered
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

// SetSize updates the viewport dimensions. A width change discards every
// cached render and every measured height.
func (m *Model) SetSize(w, h int) {
	if w == m.width && h == m.height {
		return
	}
	widthChanged := w != m.width
	m.width, m.height = w, h
	if widthChanged {
		m.resetEngine()
	}
	m.setOffset(m.offset)
	m.notifyScroll()
	m.engine.RequestUpdate(true)
}

// resetEngine drops every render and stored height and starts a new engine.
func (m *Model) resetEngine() {
	m.engine.Detach()
	clear(m.cache)
	clear(m.mounted)
	clear(m.placements)
	clear(m.fillers)
	m.anchor = nil
	m.engine = m.newEngine()
}

// SetGap updates the number of blank lines between items. Every stored
// height includes the gap, so all of them are taken again.
func (m *Model) SetGap(n int) {
	if n < 0 || n == m.gap {
		return
	}
	m.gap = n
	m.resetEngine()
	m.engine.RequestUpdate(true)
}

// SetReverse sets the reverse rendering mode. Turning it on jumps to the
// bottom.
func (m *Model) SetReverse(r bool) {
	if r == m.reverse {
		return
	}
	m.reverse = r
	if r {
		m.scrollTo(m.maxOffset())
	}
}

// SetItems replaces the item slice wholesale. The new order is ranked from
// scratch; items that left the list release their engine bookkeeping.
func (m *Model) SetItems(items []Item) {
	keep := make(map[string]struct{}, len(items))
	for _, it := range items {
		keep[it.ID()] = struct{}{}
	}
	for _, it := range m.items {
		if _, ok := keep[it.ID()]; !ok {
			m.forget(it.ID())
		}
	}
	m.items = items
	m.signal.Bump()
	m.engine.RequestUpdate(true)
}

// AppendItem adds a single item to the end of the list.
func (m *Model) AppendItem(item Item) {
	m.items = append(m.items, item)
	m.engine.RequestUpdate(true)
}

// PrependItems inserts items at the beginning of the list (for loading
// history). The line at the top of the viewport stays in place while the new
// items are measured.
func (m *Model) PrependItems(items []Item) {
	if len(items) == 0 {
		return
	}
	if vis := m.VisibleItemIndices(); len(vis) > 0 {
		id := m.items[vis[0]].ID()
		m.anchor = &anchor{id: id, delta: m.offset - m.placements[id].Y}
	}
	m.items = append(slices.Clone(items), m.items...)
	m.engine.RequestUpdate(true)
}

// UpdateItem replaces the item with the given id in-place and drops its
// cached render. A mounted item is measured again on the next pass; an
// off-screen one only with ItemsOutsideViewportCanChangeSize, otherwise its
// stored height is kept. If the id is not found, the call is a no-op.
func (m *Model) UpdateItem(id string, item Item) {
	for i, existing := range m.items {
		if existing.ID() == id {
			m.items[i] = item
			m.InvalidateItem(id)
			return
		}
	}
}

// InvalidateItem discards the cached render for id and tells the engine its
// size may have changed. The same on-screen rule as UpdateItem applies.
func (m *Model) InvalidateItem(id string) {
	delete(m.cache, id)
	if p, ok := m.placements[id]; ok && p.InvalidateSize != nil {
		p.InvalidateSize()
		return
	}
	m.engine.RequestUpdate(true)
}

// Restructure forces the next pass to re-rank every item.
func (m *Model) Restructure() {
	m.signal.Bump()
	m.engine.RequestUpdate(true)
}

func (m *Model) forget(id string) {
	m.engine.Release(id)
	delete(m.cache, id)
	delete(m.mounted, id)
	delete(m.placements, id)
}

// ---------------------------------------------------------------------------
// Scroll
// ---------------------------------------------------------------------------

func (m *Model) maxOffset() int {
	return max(0, m.contentHeight-m.height)
}

func (m *Model) setOffset(o int) {
	o = max(0, min(o, m.maxOffset()))
	if o == m.offset {
		return
	}
	m.offset = o
	m.notifyScroll()
}

// scrollTo moves the viewport on behalf of the user, releasing any anchor.
func (m *Model) scrollTo(o int) {
	m.anchor = nil
	m.setOffset(o)
}

// restoreAnchor scrolls so the anchored item keeps its line on screen.
func (m *Model) restoreAnchor() {
	p, ok := m.placements[m.anchor.id]
	if !ok || p.Y < 0 {
		m.setOffset(m.offset)
		return
	}
	m.setOffset(p.Y + m.anchor.delta)
}

// pad is the number of blank rows above bottom-anchored content.
func (m *Model) pad() int {
	if !m.reverse {
		return 0
	}
	return max(0, m.height-m.contentHeight)
}

func (m *Model) notifyScroll() {
	for _, fn := range m.subs {
		fn()
	}
}

// Offset returns the first visible content line.
func (m *Model) Offset() int { return m.offset }

// ContentHeight returns the total scrollable height from the latest pass.
func (m *Model) ContentHeight() int { return m.contentHeight }

// ScrollDown scrolls the content down by lines lines.
func (m *Model) ScrollDown(lines int) {
	if lines > 0 {
		m.scrollTo(m.offset + lines)
	}
}

// ScrollUp scrolls the content up by lines lines.
func (m *Model) ScrollUp(lines int) {
	if lines > 0 {
		m.scrollTo(m.offset - lines)
	}
}

// PageDown scrolls down by one full viewport height.
func (m *Model) PageDown() { m.ScrollDown(m.height) }

// PageUp scrolls up by one full viewport height.
func (m *Model) PageUp() { m.ScrollUp(m.height) }

// HalfPageDown scrolls down by half the viewport height.
func (m *Model) HalfPageDown() { m.ScrollDown(m.height / 2) }

// HalfPageUp scrolls up by half the viewport height.
func (m *Model) HalfPageUp() { m.ScrollUp(m.height / 2) }

// ScrollToTop positions the viewport at the first line.
func (m *Model) ScrollToTop() { m.scrollTo(0) }

// ScrollToBottom positions the viewport so the last line is visible.
func (m *Model) ScrollToBottom() { m.scrollTo(m.maxOffset()) }

// WrapToStart wraps navigation to the first item (circular navigation).
func (m *Model) WrapToStart() { m.ScrollToTop() }

// WrapToEnd wraps navigation to the last item (circular navigation).
func (m *Model) WrapToEnd() { m.ScrollToBottom() }

// AtBottom reports whether the last line is visible.
func (m *Model) AtBottom() bool { return m.offset >= m.maxOffset() }

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// Items returns the current items in order.
func (m *Model) Items() []Item { return m.items }

// Len returns the number of items.
func (m *Model) Len() int { return len(m.items) }

// Stats reports on the engine's latest pass.
func (m *Model) Stats() virtual.Stats { return m.engine.Stats() }

// ItemIndexAtPosition resolves a y coordinate (relative to the top of the
// viewport) to the index of the item drawn on that line, or -1 for gap and
// padding lines.
func (m *Model) ItemIndexAtPosition(y int) int {
	if y < 0 || y >= m.height {
		return -1
	}
	line := m.offset + y - m.pad()
	hit := -1
	for i, it := range m.items {
		content, ok := m.mounted[it.ID()]
		if !ok {
			continue
		}
		top := m.placements[it.ID()].Y
		// Later items are drawn over earlier ones, so the last match wins.
		if line >= top && line < top+lipgloss.Height(content) {
			hit = i
		}
	}
	return hit
}

// VisibleItemIndices returns the indices of mounted items that intersect
// the viewport, in list order.
func (m *Model) VisibleItemIndices() []int {
	var out []int
	for i, it := range m.items {
		content, ok := m.mounted[it.ID()]
		if !ok {
			continue
		}
		top := m.placements[it.ID()].Y
		if top+lipgloss.Height(content) > m.offset && top < m.offset+m.height {
			out = append(out, i)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Update (bubbletea)
// ---------------------------------------------------------------------------

// Update runs engine callbacks and handles mouse wheel and click events.
// Callers forward whichever tea.Msg events they want the list to respond to.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case callbackMsg:
		if msg.list != m {
			return nil
		}
		msg.fn()
	case tea.MouseWheelMsg:
		switch msg.Button {
		case tea.MouseWheelUp:
			m.ScrollUp(3)
		case tea.MouseWheelDown:
			m.ScrollDown(3)
		}
	case tea.MouseClickMsg:
		idx := m.ItemIndexAtPosition(msg.Y)
		if idx >= 0 {
			if mc, ok := m.items[idx].(MouseClickable); ok {
				return tea.Batch(mc.HandleClick(msg.X, msg.Y), m.Cmd())
			}
		}
	}
	return m.Cmd()
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

// View paints fillers, then every mounted item at its placement, clipped to
// the viewport. It always returns height lines.
func (m *Model) View() string {
	if m.height <= 0 || m.width <= 0 {
		return ""
	}
	rows := make([]string, m.height)
	shift := m.pad() - m.offset

	if len(m.fillers) > 0 {
		line := m.fillerLine(m.width)
		for _, f := range m.fillers {
			for j := 0; j < f.height; j++ {
				if r := f.offset + j + shift; r >= 0 && r < m.height {
					rows[r] = line
				}
			}
		}
	}

	for _, it := range m.items {
		content, ok := m.mounted[it.ID()]
		if !ok {
			continue
		}
		top := m.placements[it.ID()].Y + shift
		if top >= m.height {
			continue
		}
		lines := splitLines(content)
		for j := 0; j < len(lines)+m.gap; j++ {
			r := top + j
			if r < 0 {
				continue
			}
			if r >= m.height {
				break
			}
			if j < len(lines) {
				rows[r] = lines[j]
			} else {
				rows[r] = ""
			}
		}
	}

	return strings.Join(rows, "\n")
}

// splitLines splits a rendered string into individual lines.
func splitLines(s string) []string {
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}
