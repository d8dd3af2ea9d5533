package markdown

import (
	"strings"
	"testing"
)

func TestRenderWidth_BlankPassesThrough(t *testing.T) {
	if got := RenderWidth("   ", 40); got != "   " {
		t.Errorf("want blank input returned as-is, got %q", got)
	}
	if got := RenderWidth("# hi", 0); got != "# hi" {
		t.Errorf("want raw text for a zero width, got %q", got)
	}
}

func TestRenderWidth_KeepsText(t *testing.T) {
	out := RenderWidth("hello **world**", 40)
	if !strings.Contains(out, "hello") || !strings.Contains(out, "world") {
		t.Errorf("want rendered text to keep its words, got %q", out)
	}
	if strings.HasPrefix(out, "\n") || strings.HasSuffix(out, "\n") {
		t.Errorf("want surrounding newlines trimmed, got %q", out)
	}
}

func TestRenderWidth_ReusesRenderer(t *testing.T) {
	RenderWidth("a", 33)
	first := renderers[33]
	RenderWidth("b", 33)
	if renderers[33] != first {
		t.Error("want one renderer per width")
	}
}
