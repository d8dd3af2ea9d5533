// Package source produces list entries: a synthetic mix of fixed-height,
// category-sized and measured items, and a git commit log.
package source

import (
	"charm.land/lipgloss/v2"
)

// Entry is one list entry. It satisfies list.Item; entries that know their
// height also implement Size, and entries sharing a height implement
// SizeCategory.
type Entry interface {
	ID() string
	ContentVersion() int
	Render(width int) string
	FilterValue() string
}

// clip truncates every line of s to width cells.
func clip(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}
