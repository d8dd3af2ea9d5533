// Package status renders the bottom status bar: engine pass statistics and
// the process's resident memory.
package status

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/miosa/osa-vlist/msg"
	"github.com/miosa/osa-vlist/style"
	"github.com/miosa/osa-vlist/ui/virtual"
)

// SampleInterval is how often memory is re-sampled.
const SampleInterval = 2 * time.Second

// ReadSample reads this process's RSS and the machine's total memory.
func ReadSample(ctx context.Context) (msg.MemSample, error) {
	p, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		return msg.MemSample{}, fmt.Errorf("status: open process: %w", err)
	}
	info, err := p.MemoryInfoWithContext(ctx)
	if err != nil {
		return msg.MemSample{}, fmt.Errorf("status: memory info: %w", err)
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return msg.MemSample{}, fmt.Errorf("status: virtual memory: %w", err)
	}
	return msg.MemSample{RSS: info.RSS, Total: vm.Total}, nil
}

// SampleCmd samples memory after d.
func SampleCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		s, err := ReadSample(ctx)
		s.Err = err
		return s
	})
}

// Model is the status bar state. Drive it via setter methods; it has no Update loop.
type Model struct {
	width  int
	stats  virtual.Stats
	sample msg.MemSample
	filter string
	note   string
}

// New returns a zero-value Model.
func New() Model {
	return Model{}
}

// SetWidth sets the bar width.
func (m *Model) SetWidth(w int) { m.width = w }

// SetStats records the latest engine statistics.
func (m *Model) SetStats(s virtual.Stats) { m.stats = s }

// SetSample records the latest memory sample. Failed samples keep the
// previous reading.
func (m *Model) SetSample(s msg.MemSample) {
	if s.Err != nil {
		return
	}
	m.sample = s
}

// SetFilter shows the active filter.
func (m *Model) SetFilter(f string) { m.filter = f }

// SetNote shows a transient message such as a load error.
func (m *Model) SetNote(n string) { m.note = n }

// View renders the bar, padded to width.
func (m Model) View() string {
	parts := []string{
		pill("items", m.stats.Items),
		pill("mounted", m.stats.Mounted),
		pill("queued", m.stats.Queued),
		pill("measured", m.stats.Measured),
		pill("passes", m.stats.Passes),
		pill("height", m.stats.Height),
	}
	if m.sample.RSS > 0 {
		parts = append(parts, m.memLine())
	}
	if m.filter != "" {
		parts = append(parts, style.StatusKey.Render("filter ")+style.StatusValue.Render(m.filter))
	}
	if m.note != "" {
		parts = append(parts, style.ErrorText.Render(m.note))
	}
	line := strings.Join(parts, style.StatusBar.Render(" · "))
	if m.width > 0 {
		return style.StatusBar.Width(m.width).MaxHeight(1).Render(line)
	}
	return line
}

func pill(key string, v int) string {
	return style.StatusKey.Render(key+" ") + style.StatusValue.Render(fmt.Sprintf("%d", v))
}

// memLine builds "rss 34MB ██░░░░░░" with the bar relative to total memory.
func (m Model) memLine() string {
	label := style.StatusKey.Render("rss ") + style.StatusValue.Render(FormatBytes(m.sample.RSS))
	if m.sample.Total == 0 {
		return label
	}
	util := float64(m.sample.RSS) / float64(m.sample.Total)
	return label + " " + style.UsageBar(util, 8)
}

// FormatBytes returns a short human-readable size: 1536 → "1.5KB".
func FormatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	v := float64(n) / float64(div)
	suffix := "KMGTPE"[exp : exp+1]
	if v >= 10 {
		return fmt.Sprintf("%.0f%sB", v, suffix)
	}
	return fmt.Sprintf("%.1f%sB", v, suffix)
}
