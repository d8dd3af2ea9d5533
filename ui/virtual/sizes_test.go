package virtual

import "testing"

func TestSizeStore_ExplicitSize(t *testing.T) {
	s := NewSizeStore()
	if _, ok := s.Size("a"); ok {
		t.Fatal("want absent size for an unknown id")
	}
	s.SetSize("a", 7)
	if v, ok := s.Size("a"); !ok || v != 7 {
		t.Errorf("want 7, got %d (ok=%v)", v, ok)
	}
	s.SetSize("a", 0)
	if _, ok := s.Size("a"); ok {
		t.Error("want zero size reported as unknown")
	}
}

func TestSizeStore_CategoryLifecycle(t *testing.T) {
	s := NewSizeStore()
	s.SetCategory("a", "card")
	if _, st := s.Category("card"); st != CategoryAbsent {
		t.Fatalf("want absent, got %v", st)
	}

	if !s.Claim("card", "a") {
		t.Fatal("want first claim to succeed")
	}
	if s.Claim("card", "b") {
		t.Error("want second claim refused")
	}
	if id, ok := s.Claimant("card"); !ok || id != "a" {
		t.Errorf("want claimant a, got %q", id)
	}
	if _, ok := s.Size("a"); ok {
		t.Error("want size unknown while calculating")
	}

	s.ResolveCategory("card", 4)
	if v, st := s.Category("card"); st != CategoryResolved || v != 4 {
		t.Errorf("want resolved 4, got %d %v", v, st)
	}
	if _, ok := s.Claimant("card"); ok {
		t.Error("want no claimant after resolve")
	}
	if v, ok := s.Size("a"); !ok || v != 4 {
		t.Errorf("want member size 4, got %d", v)
	}
}

func TestSizeStore_ReleaseClaim(t *testing.T) {
	s := NewSizeStore()
	s.Claim("card", "a")
	if s.ReleaseClaim("card", "b") {
		t.Error("want release by a non-claimant refused")
	}
	if !s.ReleaseClaim("card", "a") {
		t.Fatal("want release by the claimant accepted")
	}
	if _, st := s.Category("card"); st != CategoryAbsent {
		t.Errorf("want absent after release, got %v", st)
	}
	s.ResolveCategory("card", 3)
	if s.ReleaseClaim("card", "a") {
		t.Error("want resolved category untouched by release")
	}
}

func TestSizeStore_Stale(t *testing.T) {
	s := NewSizeStore()
	s.MarkStale("a")
	if !s.Stale("a") {
		t.Fatal("want a stale")
	}
	s.ClearStale("a")
	if s.Stale("a") {
		t.Error("want a fresh after clear")
	}
}

func TestCategoryState_String(t *testing.T) {
	for st, want := range map[CategoryState]string{
		CategoryAbsent:      "absent",
		CategoryCalculating: "calculating",
		CategoryResolved:    "resolved",
		CategoryState(9):    "unknown",
	} {
		if got := st.String(); got != want {
			t.Errorf("%d: want %q, got %q", st, want, got)
		}
	}
}
