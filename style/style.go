package style

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
)

// Colors: initialized to dark theme defaults. Updated via SetTheme().
var (
	Primary   color.Color = lipgloss.Color("#7C3AED")
	Secondary color.Color = lipgloss.Color("#06B6D4")
	Success   color.Color = lipgloss.Color("#22C55E")
	Warning   color.Color = lipgloss.Color("#F59E0B")
	Error     color.Color = lipgloss.Color("#EF4444")
	Muted     color.Color = lipgloss.Color("#6B7280")
	Dim       color.Color = lipgloss.Color("#374151")
	Border    color.Color = lipgloss.Color("#4B5563")
	Surface   color.Color = lipgloss.Color("#1F2937")
	Filler    color.Color = lipgloss.Color("#2B3443")
)

// Styles: rebuilt when the theme changes via rebuildStyles().
var (
	Bold      lipgloss.Style
	Faint     lipgloss.Style
	ErrorText lipgloss.Style

	// Header
	HeaderTitle  lipgloss.Style
	HeaderDetail lipgloss.Style

	// Filter prompt
	PromptChar lipgloss.Style

	// Rows
	RowIndex lipgloss.Style
	RowText  lipgloss.Style

	// Cards share one size category, so their frame must be identical.
	CardFrame lipgloss.Style
	CardTitle lipgloss.Style

	// Commit feed
	CommitHash    lipgloss.Style
	CommitAuthor  lipgloss.Style
	CommitWhen    lipgloss.Style
	CommitSubject lipgloss.Style

	// Placeholder fillers
	Placeholder lipgloss.Style

	// Status bar
	StatusBar   lipgloss.Style
	StatusKey   lipgloss.Style
	StatusValue lipgloss.Style

	// Scrollbar
	ScrollbarThumb lipgloss.Style
	ScrollbarTrack lipgloss.Style
)

func init() {
	rebuildStyles()
}

// SetTheme applies a named theme, updating all color vars and rebuilding styles.
func SetTheme(name string) bool {
	t, ok := Themes[name]
	if !ok {
		return false
	}
	CurrentThemeName = name
	Primary = t.Primary
	Secondary = t.Secondary
	Success = t.Success
	Warning = t.Warning
	Error = t.Error
	Muted = t.Muted
	Dim = t.Dim
	Border = t.Border
	Surface = t.Surface
	Filler = t.Filler
	rebuildStyles()
	return true
}

// IsDark returns whether the current theme is dark.
func IsDark() bool {
	return CurrentThemeName != "light"
}

func rebuildStyles() {
	Bold = lipgloss.NewStyle().Bold(true)
	Faint = lipgloss.NewStyle().Foreground(Muted)
	ErrorText = lipgloss.NewStyle().Foreground(Error).Bold(true)

	HeaderTitle = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	HeaderDetail = lipgloss.NewStyle().Foreground(Muted)

	PromptChar = lipgloss.NewStyle().Foreground(Primary).Bold(true)

	RowIndex = lipgloss.NewStyle().Foreground(Muted)
	RowText = lipgloss.NewStyle()

	CardFrame = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
	CardTitle = lipgloss.NewStyle().Foreground(Secondary).Bold(true)

	CommitHash = lipgloss.NewStyle().Foreground(Warning)
	CommitAuthor = lipgloss.NewStyle().Foreground(Success)
	CommitWhen = lipgloss.NewStyle().Foreground(Muted)
	CommitSubject = lipgloss.NewStyle()

	Placeholder = lipgloss.NewStyle().Foreground(Filler)

	StatusBar = lipgloss.NewStyle().Background(Surface).Foreground(Muted)
	StatusKey = lipgloss.NewStyle().Background(Surface).Foreground(Muted)
	StatusValue = lipgloss.NewStyle().Background(Surface).Foreground(Secondary)

	ScrollbarThumb = lipgloss.NewStyle().Foreground(Primary)
	ScrollbarTrack = lipgloss.NewStyle().Foreground(Dim)
}

// UsageBar renders a horizontal utilization bar of the given width.
func UsageBar(utilization float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(utilization * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	empty := width - filled

	var c color.Color
	switch {
	case utilization >= 0.90:
		c = Error
	case utilization >= 0.75:
		c = Warning
	default:
		c = Primary
	}

	return lipgloss.NewStyle().Foreground(c).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(Dim).Render(strings.Repeat("░", empty))
}
