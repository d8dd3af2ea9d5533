// Package common holds small rendering helpers shared by the list UI.
package common

import (
	"strings"

	"github.com/miosa/osa-vlist/style"
)

const (
	scrollTrackChar = "│"
	scrollThumbChar = "█"
)

// ScrollbarModel tracks the dimensions needed to render a vertical scrollbar.
type ScrollbarModel struct {
	viewportHeight int
	contentHeight  int
	offset         int
}

// NewScrollbar creates a ScrollbarModel with the given dimensions.
func NewScrollbar(viewportHeight, contentHeight, offset int) ScrollbarModel {
	return ScrollbarModel{
		viewportHeight: viewportHeight,
		contentHeight:  contentHeight,
		offset:         offset,
	}
}

// SetDimensions updates the scrollbar dimensions.
func (s *ScrollbarModel) SetDimensions(viewportHeight, contentHeight, offset int) {
	s.viewportHeight = viewportHeight
	s.contentHeight = contentHeight
	s.offset = offset
}

// thumb returns the thumb's first row and height. ok is false when the
// content fits and no scrollbar is drawn.
func (s ScrollbarModel) thumb() (top, height int, ok bool) {
	vh, ch := s.viewportHeight, s.contentHeight
	if vh <= 0 || ch <= vh {
		return 0, 0, false
	}

	height = max(1, min(vh, vh*vh/ch))

	scrollable := ch - vh
	top = s.offset * (vh - height) / scrollable
	top = max(0, min(top, vh-height))
	return top, height, true
}

// View renders a vertical scrollbar as a single column of characters. The
// thumb is sized and positioned proportionally to the visible region. When
// the content fits within the viewport the returned string is empty.
func (s ScrollbarModel) View() string {
	top, height, ok := s.thumb()
	if !ok {
		return ""
	}
	rows := make([]string, s.viewportHeight)
	for i := range rows {
		if i >= top && i < top+height {
			rows[i] = style.ScrollbarThumb.Render(scrollThumbChar)
		} else {
			rows[i] = style.ScrollbarTrack.Render(scrollTrackChar)
		}
	}
	return strings.Join(rows, "\n")
}

// Scrollbar is a convenience function that builds a one-shot scrollbar string
// without creating a persistent model.
func Scrollbar(viewportHeight, contentHeight, offset int) string {
	return NewScrollbar(viewportHeight, contentHeight, offset).View()
}
