package app

const (
	// scrollbarWidth is the column reserved right of the list.
	scrollbarWidth = 1

	// listMinHeight keeps the list usable in tiny terminals.
	listMinHeight = 3
)

// Layout holds computed dimensions for the current frame.
type Layout struct {
	TermWidth    int
	TermHeight   int
	HeaderHeight int
	FilterHeight int // 0 unless the filter prompt is open
	StatusHeight int
	ListWidth    int
	ListHeight   int
}

// ComputeLayout calculates the layout dimensions from the terminal size.
// The list takes whatever the header, filter prompt and status bar leave.
func ComputeLayout(termW, termH int, filtering bool) Layout {
	l := Layout{
		TermWidth:    termW,
		TermHeight:   termH,
		HeaderHeight: 1,
		StatusHeight: 1,
	}
	if filtering {
		l.FilterHeight = 1
	}

	l.ListWidth = max(1, termW-scrollbarWidth)
	l.ListHeight = max(listMinHeight, termH-l.HeaderHeight-l.FilterHeight-l.StatusHeight)
	return l
}
