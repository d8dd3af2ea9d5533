package list

import (
	"strings"

	tea "charm.land/bubbletea/v2"
)

// Filterable items supply the text the filter matches against. Items that
// do not implement it are matched on their ID.
type Filterable interface {
	FilterValue() string
}

// MatchSettable items support match highlighting.
type MatchSettable interface {
	SetMatches(positions []int)
}

// ---------------------------------------------------------------------------
// FilterableList
// ---------------------------------------------------------------------------

// filteredItem pairs an Item with its match score and character positions.
type filteredItem struct {
	item    Item
	score   int
	indices []int
}

// FilterableList wraps a Model with substring filtering. Every filter change
// hands the list a new order, which the engine ranks from scratch.
type FilterableList struct {
	list     *Model
	allItems []Item
	filter   string
	matches  []filteredItem
}

// NewFilterableList constructs a FilterableList around a new Model.
func NewFilterableList(opts ...Option) *FilterableList {
	return &FilterableList{list: New(opts...)}
}

// List returns the underlying list model.
func (fl *FilterableList) List() *Model { return fl.list }

// SetItems replaces the full item set and re-applies the current filter.
func (fl *FilterableList) SetItems(items []Item) {
	fl.allItems = make([]Item, len(items))
	copy(fl.allItems, items)
	fl.applyFilter()
}

// SetFilter updates the filter string and re-computes visible items.
func (fl *FilterableList) SetFilter(filter string) {
	if filter == fl.filter {
		return
	}
	fl.filter = filter
	fl.applyFilter()
}

// UpdateItem replaces the item with the given id everywhere it is held and
// reports its size as changed to the list.
func (fl *FilterableList) UpdateItem(id string, item Item) {
	for i, existing := range fl.allItems {
		if existing.ID() == id {
			fl.allItems[i] = item
		}
	}
	for i, m := range fl.matches {
		if m.item.ID() == id {
			fl.matches[i].item = item
		}
	}
	fl.list.UpdateItem(id, item)
}

// Filter returns the current filter string.
func (fl *FilterableList) Filter() string {
	return fl.filter
}

// FilteredItems returns the items currently passing the filter (in order).
func (fl *FilterableList) FilteredItems() []Item {
	if fl.filter == "" {
		result := make([]Item, len(fl.allItems))
		copy(result, fl.allItems)
		return result
	}
	result := make([]Item, len(fl.matches))
	for i, m := range fl.matches {
		result[i] = m.item
	}
	return result
}

// SelectedItem returns the first item in the viewport, or nil.
func (fl *FilterableList) SelectedItem() Item {
	items := fl.list.Items()
	if len(items) == 0 {
		return nil
	}
	if visible := fl.list.VisibleItemIndices(); len(visible) > 0 {
		return items[visible[0]]
	}
	return items[0]
}

// SetSize updates the viewport dimensions of the underlying list.
func (fl *FilterableList) SetSize(w, h int) {
	fl.list.SetSize(w, h)
}

// Init requests the first pass of the underlying list.
func (fl *FilterableList) Init() tea.Cmd {
	return fl.list.Init()
}

// Cmd returns the underlying list's pending engine commands.
func (fl *FilterableList) Cmd() tea.Cmd {
	return fl.list.Cmd()
}

// Update forwards tea.Msg to the underlying list model.
func (fl *FilterableList) Update(msg tea.Msg) tea.Cmd {
	return fl.list.Update(msg)
}

// View renders the filtered list.
func (fl *FilterableList) View() string {
	return fl.list.View()
}

// ---------------------------------------------------------------------------
// Internal: filter application
// ---------------------------------------------------------------------------

// applyFilter rebuilds the matches slice and pushes the visible items into
// the underlying list model. Match positions are forwarded to MatchSettable
// items so they can highlight matched characters in their Render output.
func (fl *FilterableList) applyFilter() {
	if fl.filter == "" {
		for _, item := range fl.allItems {
			if ms, ok := item.(MatchSettable); ok {
				ms.SetMatches(nil)
			}
		}
		fl.matches = nil
		fl.list.SetItems(fl.allItems)
		fl.list.ScrollToTop()
		return
	}

	lower := strings.ToLower(fl.filter)
	fl.matches = fl.matches[:0]

	for _, item := range fl.allItems {
		value := strings.ToLower(filterValue(item))
		indices := substringIndices(value, lower)
		ms, settable := item.(MatchSettable)
		if indices == nil {
			if settable {
				ms.SetMatches(nil)
			}
			continue
		}
		if settable {
			ms.SetMatches(indices)
		}
		fl.matches = append(fl.matches, filteredItem{
			item:    item,
			score:   scoreMatch(value, lower, indices),
			indices: indices,
		})
	}

	sortFilteredItems(fl.matches)

	visible := make([]Item, len(fl.matches))
	for i, m := range fl.matches {
		visible[i] = m.item
	}
	fl.list.SetItems(visible)
	fl.list.ScrollToTop()
}

func filterValue(item Item) string {
	if f, ok := item.(Filterable); ok {
		return f.FilterValue()
	}
	return item.ID()
}

// substringIndices returns the byte positions of the first occurrence of p
// in s, or nil. Callers lower-case both inputs.
func substringIndices(s, p string) []int {
	if p == "" {
		return []int{}
	}
	idx := strings.Index(s, p)
	if idx < 0 {
		return nil
	}
	positions := make([]int, len(p))
	for i := range p {
		positions[i] = idx + i
	}
	return positions
}

// scoreMatch assigns a quality score to a match. Higher is better: prefix
// matches get a bonus and longer strings a penalty.
func scoreMatch(s, p string, indices []int) int {
	score := 100
	if len(indices) > 0 && indices[0] == 0 {
		score += 10
	}
	if len(s) > len(p) {
		score -= len(s) - len(p)
	}
	return score
}

// sortFilteredItems sorts matches by score descending, keeping the original
// order for equal scores.
func sortFilteredItems(items []filteredItem) {
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && items[j].score > items[j-1].score; j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
}
