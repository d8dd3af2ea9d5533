// Package app is the demo program: a virtualized list over a synthetic or
// git feed, with a filter prompt and an engine status bar.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/miosa/osa-vlist/config"
	"github.com/miosa/osa-vlist/msg"
	"github.com/miosa/osa-vlist/source"
	"github.com/miosa/osa-vlist/style"
	"github.com/miosa/osa-vlist/ui/common"
	"github.com/miosa/osa-vlist/ui/list"
	"github.com/miosa/osa-vlist/ui/status"
)

// loadTimeout bounds a feed load.
const loadTimeout = 30 * time.Second

// loadedMsg delivers a feed's entries.
type loadedMsg struct {
	name    string
	entries []source.Entry
	err     error
}

// Model is the root bubbletea model.
type Model struct {
	cfg  config.Config
	log  *slog.Logger
	keys KeyMap

	layout        Layout
	width, height int

	list   *list.FilterableList
	status status.Model
	filter textinput.Model

	filtering bool
	feed      string
	entries   map[string]source.Entry
}

// New constructs the root Model from cfg. log receives engine diagnostics.
func New(cfg config.Config, log *slog.Logger) Model {
	opts := []list.Option{
		list.WithOptimizations(cfg.Optimizations()),
		list.WithDeoptimizations(cfg.Deoptimizations()),
		list.WithLogger(log),
	}
	if p, ok := cfg.Placeholders(); ok {
		opts = append(opts, list.WithPlaceholders(p))
	}

	ti := textinput.New()
	ti.Placeholder = "Type to filter..."
	ti.Prompt = "/ "
	s := ti.Styles()
	s.Focused.Prompt = style.PromptChar
	ti.SetStyles(s)

	return Model{
		cfg:     cfg,
		log:     log,
		keys:    DefaultKeyMap(),
		width:   80,
		height:  24,
		layout:  ComputeLayout(80, 24, false),
		list:    list.NewFilterableList(opts...),
		status:  status.New(),
		filter:  ti,
		entries: make(map[string]source.Entry),
	}
}

// -- Init ---------------------------------------------------------------------

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.list.Init(),
		m.load(),
		status.SampleCmd(0),
		func() tea.Msg { return tea.RequestWindowSize() },
	)
}

// load reads the configured feed off the update goroutine.
func (m Model) load() tea.Cmd {
	cfg := m.cfg
	if cfg.Repo == "" {
		return func() tea.Msg {
			return loadedMsg{
				name:    "synthetic",
				entries: source.Synthetic(cfg.Items, cfg.Seed),
			}
		}
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		commits, err := source.GitLog(ctx, cfg.Repo, cfg.Items)
		entries := make([]source.Entry, len(commits))
		for i, c := range commits {
			entries[i] = c
		}
		return loadedMsg{name: "git " + cfg.Repo, entries: entries, err: err}
	}
}

// -- Update -------------------------------------------------------------------

// Update handles msg, then hands the list's queued engine work back to the
// program.
func (m Model) Update(rawMsg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(rawMsg)
	return next, tea.Batch(cmd, m.list.Cmd())
}

func (m Model) update(rawMsg tea.Msg) (Model, tea.Cmd) {
	switch v := rawMsg.(type) {

	case tea.WindowSizeMsg:
		m.width = v.Width
		m.height = v.Height
		m.resize()
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(v)

	case tea.MouseWheelMsg:
		return m, m.list.Update(v)

	case tea.MouseClickMsg:
		// Translate to list-relative coordinates.
		v.Y -= m.layout.HeaderHeight
		if v.X >= m.layout.ListWidth || v.Y < 0 {
			return m, nil
		}
		return m, m.list.Update(v)

	case loadedMsg:
		return m.handleLoaded(v)

	case msg.ItemToggled:
		m.toggle(v.ID)
		return m, nil

	case msg.MemSample:
		m.status.SetSample(v)
		if v.Err != nil {
			m.log.Debug("memory sample failed", "err", v.Err)
		}
		return m, status.SampleCmd(status.SampleInterval)
	}

	// Everything else may be an engine callback.
	return m, m.list.Update(rawMsg)
}

func (m *Model) resize() {
	m.layout = ComputeLayout(m.width, m.height, m.filtering)
	m.list.SetSize(m.layout.ListWidth, m.layout.ListHeight)
	m.status.SetWidth(m.width)
	m.filter.SetWidth(max(1, m.width-4))
}

func (m Model) handleLoaded(v loadedMsg) (Model, tea.Cmd) {
	m.feed = v.name
	if v.err != nil {
		m.log.Error("feed load failed", "feed", v.name, "err", v.err)
		m.status.SetNote(v.err.Error())
		return m, nil
	}
	clear(m.entries)
	items := make([]list.Item, len(v.entries))
	for i, e := range v.entries {
		m.entries[e.ID()] = e
		items[i] = e
	}
	m.list.SetItems(items)
	m.log.Info("feed loaded", "feed", v.name, "entries", len(items))
	return m, nil
}

// toggle swaps a note for its expanded or collapsed form.
func (m *Model) toggle(id string) {
	n, ok := m.entries[id].(source.Note)
	if !ok {
		return
	}
	n = n.Toggle()
	m.entries[id] = n
	m.list.UpdateItem(id, n)
}

// -- Key handling -------------------------------------------------------------

func (m Model) handleKey(k tea.KeyPressMsg) (Model, tea.Cmd) {
	if m.filtering {
		return m.handleFilterKey(k)
	}
	l := m.list.List()
	switch {
	case key.Matches(k, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(k, m.keys.ScrollDown):
		l.ScrollDown(1)
	case key.Matches(k, m.keys.ScrollUp):
		l.ScrollUp(1)
	case key.Matches(k, m.keys.HalfPageDown):
		l.HalfPageDown()
	case key.Matches(k, m.keys.HalfPageUp):
		l.HalfPageUp()
	case key.Matches(k, m.keys.PageDown):
		l.PageDown()
	case key.Matches(k, m.keys.PageUp):
		l.PageUp()
	case key.Matches(k, m.keys.ScrollTop):
		l.ScrollToTop()
	case key.Matches(k, m.keys.ScrollBottom):
		l.ScrollToBottom()
	case key.Matches(k, m.keys.Restructure):
		l.Restructure()
	case key.Matches(k, m.keys.Escape):
		m.list.SetFilter("")
		m.filter.SetValue("")
	case key.Matches(k, m.keys.Filter):
		m.filtering = true
		m.resize()
		return m, m.filter.Focus()
	}
	return m, nil
}

func (m Model) handleFilterKey(k tea.KeyPressMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(k, m.keys.Escape):
		m.filter.SetValue("")
		m.list.SetFilter("")
		fallthrough
	case key.Matches(k, m.keys.Submit):
		m.filtering = false
		m.filter.Blur()
		m.resize()
		return m, nil
	}

	prev := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(k)
	if v := m.filter.Value(); v != prev {
		m.list.SetFilter(v)
	}
	return m, cmd
}

// -- View ---------------------------------------------------------------------

// View returns the tea.View for the current frame.
func (m Model) View() tea.View {
	v := tea.NewView(m.renderView())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	return v
}

func (m Model) renderView() string {
	l := m.list.List()
	sections := []string{m.renderHeader()}

	body := l.View()
	if bar := common.Scrollbar(m.layout.ListHeight, l.ContentHeight(), l.Offset()); bar != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, bar)
	}
	sections = append(sections, body)

	if m.filtering {
		sections = append(sections, m.filter.View())
	}

	st := m.status
	st.SetStats(l.Stats())
	st.SetFilter(m.list.Filter())
	sections = append(sections, st.View())

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := style.HeaderTitle.Render("osa-vlist")
	feed := m.feed
	if feed == "" {
		feed = "loading…"
	}
	detail := style.HeaderDetail.Render(fmt.Sprintf(" %s · %d entries", feed, len(m.entries)))

	var hints []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		hints = append(hints, h.Key+" "+h.Desc)
	}
	help := style.Faint.Render("  " + strings.Join(hints, " · "))

	return lipgloss.NewStyle().MaxWidth(max(1, m.width)).Render(title + detail + help)
}
