package virtual

import (
	"testing"
	"time"
)

func TestFillers_SpanViewportPlusOne(t *testing.T) {
	w := &placeholderWindow{desc: Placeholders{Size: 3}, sizes: NewSizeStore()}
	var got []Filler
	for f := range w.fillers(10) {
		got = append(got, f)
	}
	// y = 0, 3, 6, 9, 12 < 13
	if len(got) != 5 {
		t.Fatalf("want 5 fillers, got %d", len(got))
	}
	for i, f := range got {
		if f.Index != i || f.Height != 3 || f.Offset != StagingOffset {
			t.Errorf("filler %d: got %+v", i, f)
		}
	}
}

func TestFillers_Restartable(t *testing.T) {
	w := &placeholderWindow{desc: Placeholders{Size: 2}, sizes: NewSizeStore()}
	seq := w.fillers(4)
	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}
	if a, b := count(), count(); a != b || a == 0 {
		t.Errorf("want equal non-empty runs, got %d and %d", a, b)
	}
}

func TestFillers_WithheldUntilCategoryResolves(t *testing.T) {
	sizes := NewSizeStore()
	w := &placeholderWindow{desc: Placeholders{Category: "card"}, sizes: sizes}
	if w.count(10) != 0 {
		t.Error("want no fillers for an absent category")
	}
	sizes.Claim("card", "a")
	if w.count(10) != 0 {
		t.Error("want no fillers while calculating")
	}
	sizes.ResolveCategory("card", 5)
	if n := w.count(10); n != 3 {
		t.Errorf("want 3 fillers once resolved, got %d", n)
	}
}

func TestReposition_SnapsToFillerBoundary(t *testing.T) {
	w := &placeholderWindow{desc: Placeholders{Size: 4}, sizes: NewSizeStore()}
	out := &fakeStyles{}
	w.reposition(out, 10, 8, 100)
	// 10 - 10%4 = 8
	if got := out.fillers[0]; got != [2]int{8, 4} {
		t.Errorf("first filler: want offset 8 height 4, got %v", got)
	}
	if got := out.fillers[1]; got[0] != 12 {
		t.Errorf("second filler: want offset 12, got %d", got[0])
	}
}

func TestReposition_StopsAtContentEnd(t *testing.T) {
	w := &placeholderWindow{desc: Placeholders{Size: 4}, sizes: NewSizeStore()}
	out := &fakeStyles{}
	w.reposition(out, 0, 8, 6)
	for i, f := range out.fillers {
		if f[0] > 4 {
			t.Errorf("filler %d placed past content end at %d", i, f[0])
		}
	}
}

// ---------------------------------------------------------------------------
// Rate limiting
// ---------------------------------------------------------------------------

func TestThrottle_TrailingEdge(t *testing.T) {
	s := &fakeScheduler{}
	calls := 0
	fn := Throttle(s, func() { calls++ }, 10*time.Millisecond)
	fn()
	fn()
	fn()
	if calls != 0 {
		t.Fatalf("want no leading call, got %d", calls)
	}
	if len(s.after) != 1 {
		t.Fatalf("want one scheduled trailing call, got %d", len(s.after))
	}
	s.runAfter()
	if calls != 1 {
		t.Errorf("want 1 call after the window, got %d", calls)
	}
	fn()
	s.runAfter()
	if calls != 2 {
		t.Errorf("want a new window to fire again, got %d", calls)
	}
}

func TestDebounce_OnlyLastFires(t *testing.T) {
	s := &fakeScheduler{}
	calls := 0
	fn := Debounce(s, func() { calls++ }, idleQuiet)
	fn()
	fn()
	fn()
	s.runAfter()
	if calls != 1 {
		t.Errorf("want 1 call after quiet, got %d", calls)
	}
}
