package app

import "testing"

func TestComputeLayout(t *testing.T) {
	tests := []struct {
		name       string
		w, h       int
		filtering  bool
		wantWidth  int
		wantHeight int
	}{
		{"normal", 80, 24, false, 79, 22},
		{"filtering", 80, 24, true, 79, 21},
		{"tiny", 1, 2, false, 1, listMinHeight},
		{"zero", 0, 0, true, 1, listMinHeight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := ComputeLayout(tt.w, tt.h, tt.filtering)
			if l.ListWidth != tt.wantWidth {
				t.Errorf("ListWidth: want %d, got %d", tt.wantWidth, l.ListWidth)
			}
			if l.ListHeight != tt.wantHeight {
				t.Errorf("ListHeight: want %d, got %d", tt.wantHeight, l.ListHeight)
			}
		})
	}
}

func TestComputeLayout_FilterRow(t *testing.T) {
	if got := ComputeLayout(80, 24, false).FilterHeight; got != 0 {
		t.Errorf("closed filter: want 0 rows, got %d", got)
	}
	if got := ComputeLayout(80, 24, true).FilterHeight; got != 1 {
		t.Errorf("open filter: want 1 row, got %d", got)
	}
}
