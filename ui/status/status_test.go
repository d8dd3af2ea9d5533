package status

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/miosa/osa-vlist/msg"
	"github.com/miosa/osa-vlist/ui/virtual"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0B"},
		{512, "512B"},
		{1536, "1.5KB"},
		{20 * 1024 * 1024, "20MB"},
		{3 * 1024 * 1024 * 1024, "3.0GB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%d): want %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestView_ShowsStats(t *testing.T) {
	m := New()
	m.SetStats(virtual.Stats{Items: 42, Mounted: 7, Passes: 3})
	out := m.View()
	for _, want := range []string{"42", "mounted", "passes"} {
		if !strings.Contains(out, want) {
			t.Errorf("want %q in status, got %q", want, out)
		}
	}
	if strings.Contains(out, "rss") {
		t.Error("rss should be hidden until a sample arrives")
	}
}

func TestSetSample_IgnoresFailures(t *testing.T) {
	m := New()
	m.SetSample(msg.MemSample{RSS: 2048, Total: 4096})
	m.SetSample(msg.MemSample{Err: errors.New("boom")})
	if !strings.Contains(m.View(), "2.0KB") {
		t.Errorf("want the last good sample kept, got %q", m.View())
	}
}

func TestReadSample_CurrentProcess(t *testing.T) {
	s, err := ReadSample(context.Background())
	if err != nil {
		t.Skipf("process metrics unavailable: %v", err)
	}
	if s.RSS == 0 {
		t.Error("want a non-zero RSS for the test binary")
	}
}
