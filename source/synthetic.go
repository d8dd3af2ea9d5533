package source

import (
	"fmt"
	"math/rand/v2"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/miosa/osa-vlist/msg"
	"github.com/miosa/osa-vlist/style"
	"github.com/miosa/osa-vlist/ui/markdown"
)

// CardCategory is the size category shared by every Card.
const CardCategory = "card"

var words = strings.Fields(`lorem ipsum dolor sit amet consectetur adipiscing
elit sed do eiusmod tempor incididunt ut labore et dolore magna aliqua enim ad
minim veniam quis nostrud exercitation ullamco laboris nisi aliquip ex ea
commodo consequat duis aute irure in reprehenderit voluptate velit esse cillum
fugiat nulla pariatur excepteur sint occaecat cupidatat non proident sunt culpa
qui officia deserunt mollit anim id est laborum`)

// ---------------------------------------------------------------------------
// Row: one line, height known up front
// ---------------------------------------------------------------------------

// Row is a single-line entry.
type Row struct {
	Index int
	Text  string
}

func (r Row) ID() string          { return fmt.Sprintf("row-%d", r.Index) }
func (r Row) ContentVersion() int { return 1 }
func (r Row) FilterValue() string { return r.Text }
func (r Row) Size(int) int        { return 1 }

func (r Row) Render(width int) string {
	line := style.RowIndex.Render(fmt.Sprintf("%6d ", r.Index)) + style.RowText.Render(r.Text)
	return clip(line, width)
}

// ---------------------------------------------------------------------------
// Card: framed, every card the same height
// ---------------------------------------------------------------------------

// Card is a framed two-line entry. All cards render to the same height, so
// they share CardCategory and only one is measured.
type Card struct {
	Index    int
	Title    string
	Subtitle string
}

func (c Card) ID() string           { return fmt.Sprintf("card-%d", c.Index) }
func (c Card) ContentVersion() int  { return 1 }
func (c Card) FilterValue() string  { return c.Title + " " + c.Subtitle }
func (c Card) SizeCategory() string { return CardCategory }

func (c Card) Render(width int) string {
	// Border and padding take four columns.
	inner := max(1, width-4)
	body := clip(style.CardTitle.Render(c.Title), inner) + "\n" + clip(style.Faint.Render(c.Subtitle), inner)
	return clip(style.CardFrame.Render(body), width)
}

// ---------------------------------------------------------------------------
// Note: wrapped paragraph, measured; click toggles expansion
// ---------------------------------------------------------------------------

// Note is a wrapped paragraph whose height depends on the width. Clicking it
// toggles between a summary and the full text.
type Note struct {
	Index    int
	Text     string
	Expanded bool
	version  int
}

func (n Note) ID() string          { return fmt.Sprintf("note-%d", n.Index) }
func (n Note) ContentVersion() int { return n.version }
func (n Note) FilterValue() string { return n.Text }

// Toggle returns the note with its expansion flipped and a new version.
func (n Note) Toggle() Note {
	n.Expanded = !n.Expanded
	n.version++
	return n
}

// HandleClick asks the app to toggle the note.
func (n Note) HandleClick(x, y int) tea.Cmd {
	id := n.ID()
	return func() tea.Msg { return msg.ItemToggled{ID: id} }
}

func (n Note) Render(width int) string {
	text := n.Text
	if !n.Expanded {
		text = summary(text, 12)
	}
	return lipgloss.NewStyle().Width(max(1, width)).Render(text)
}

// summary keeps the first n words of s.
func summary(s string, n int) string {
	f := strings.Fields(s)
	if len(f) <= n {
		return s
	}
	return strings.Join(f[:n], " ") + " …"
}

// ---------------------------------------------------------------------------
// Doc: markdown, measured
// ---------------------------------------------------------------------------

// Doc is a markdown document rendered with glamour.
type Doc struct {
	Index int
	Body  string
}

func (d Doc) ID() string          { return fmt.Sprintf("doc-%d", d.Index) }
func (d Doc) ContentVersion() int { return 1 }
func (d Doc) FilterValue() string { return d.Body }

func (d Doc) Render(width int) string {
	return markdown.RenderWidth(d.Body, width)
}

// ---------------------------------------------------------------------------
// Generator
// ---------------------------------------------------------------------------

// Synthetic returns n entries mixing every sizing strategy. The same seed
// always produces the same entries.
func Synthetic(n int, seed uint64) []Entry {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]Entry, 0, n)
	for i := 0; i < n; i++ {
		switch i % 10 {
		case 6, 7:
			out = append(out, Card{
				Index:    i,
				Title:    sentence(r, 3),
				Subtitle: sentence(r, 6),
			})
		case 8:
			out = append(out, Note{Index: i, Text: sentence(r, 20+r.IntN(60)), version: 1})
		case 9:
			out = append(out, Doc{Index: i, Body: document(r)})
		default:
			out = append(out, Row{Index: i, Text: sentence(r, 4+r.IntN(8))})
		}
	}
	return out
}

func sentence(r *rand.Rand, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = words[r.IntN(len(words))]
	}
	if n > 0 {
		parts[0] = strings.ToUpper(parts[0][:1]) + parts[0][1:]
	}
	return strings.Join(parts, " ")
}

func document(r *rand.Rand) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", sentence(r, 3))
	b.WriteString(sentence(r, 10+r.IntN(20)))
	b.WriteString(".\n\n")
	for i := 0; i < r.IntN(4); i++ {
		fmt.Fprintf(&b, "- %s\n", sentence(r, 3+r.IntN(4)))
	}
	return b.String()
}
