package virtual

import "iter"

// Filler is one placeholder element. Offset starts at StagingOffset and is
// moved by RepositionPlaceholders once the element is mounted.
type Filler struct {
	Index  int
	Offset int
	Height int
}

// placeholderWindow computes the fillers that fake scrollable height under
// the list while real items are not mounted.
type placeholderWindow struct {
	desc  Placeholders
	sizes *SizeStore
}

// size returns the filler height. Fillers are withheld while a category
// size is still being calculated or absent.
func (w *placeholderWindow) size() (int, bool) {
	if w.desc.Category != "" {
		v, st := w.sizes.Category(w.desc.Category)
		return v, st == CategoryResolved && v > 0
	}
	return w.desc.Size, w.desc.Size > 0
}

// count returns how many fillers span viewHeight plus one extra filler.
func (w *placeholderWindow) count(viewHeight int) int {
	size, ok := w.size()
	if !ok {
		return 0
	}
	n := 0
	for y := 0; y < viewHeight+size; y += size {
		n++
	}
	return n
}

// fillers returns a restartable sequence of fillers for viewHeight.
func (w *placeholderWindow) fillers(viewHeight int) iter.Seq[Filler] {
	return func(yield func(Filler) bool) {
		size, ok := w.size()
		if !ok {
			return
		}
		for y := 0; y < viewHeight+size; y += size {
			f := Filler{Index: y / size, Offset: StagingOffset, Height: size}
			if !yield(f) {
				return
			}
		}
	}
}

// reposition snaps the fillers to the scroll offset rounded down to a
// filler boundary, stacking them downward but never past contentEnd.
func (w *placeholderWindow) reposition(out StyleWriter, scrollTop, viewHeight, contentEnd int) {
	size, ok := w.size()
	if !ok || out == nil {
		return
	}
	y := scrollTop - scrollTop%size
	n := w.count(viewHeight)
	for i := 0; i < n; i++ {
		out.WriteFiller(i, y, size)
		if y+size < contentEnd {
			y += size
		}
	}
}
