// Package markdown renders markdown item bodies with glamour. A body's
// height is only known after rendering, so these items are measured.
package markdown

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// DefaultWidth is the wrap width used by Render.
const DefaultWidth = 100

var (
	mu        sync.Mutex
	renderers = make(map[int]*glamour.TermRenderer)
)

// renderer returns the shared renderer for width, building it on first use.
func renderer(width int) (*glamour.TermRenderer, error) {
	mu.Lock()
	defer mu.Unlock()
	if r, ok := renderers[width]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	renderers[width] = r
	return r, nil
}

// Render converts markdown text to styled ANSI output at DefaultWidth.
// Falls back to raw text if the renderer is unavailable.
func Render(md string) string {
	return RenderWidth(md, DefaultWidth)
}

// RenderWidth renders md wrapped to width. Renderers are cached per width.
func RenderWidth(md string, width int) string {
	if strings.TrimSpace(md) == "" || width <= 0 {
		return md
	}
	r, err := renderer(width)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	// glamour pads with blank lines; trim for inline display.
	return strings.Trim(out, "\n")
}
