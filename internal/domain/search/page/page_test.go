package page

import "testing"

func TestBounds(t *testing.T) {
	tests := []struct {
		page, perPage, total int
		start, end           int
	}{
		{1, 10, 25, 0, 10},
		{2, 10, 25, 10, 20},
		{3, 10, 25, 20, 25},
		{4, 10, 25, 25, 25},
		{1, 10, 0, 0, 0},
		{0, 10, 25, 0, 0},
		{1, 0, 25, 0, 0},
	}
	for _, tc := range tests {
		start, end := Bounds(tc.page, tc.perPage, tc.total)
		if start != tc.start || end != tc.end {
			t.Errorf("Bounds(%d, %d, %d) = [%d, %d), want [%d, %d)",
				tc.page, tc.perPage, tc.total, start, end, tc.start, tc.end)
		}
	}
}

func TestSlice_ConcatenationCoversAll(t *testing.T) {
	items := []int{9, 8, 7, 6, 5, 4, 3}
	for perPage := 1; perPage <= len(items)+1; perPage++ {
		var got []int
		for p := 1; ; p++ {
			window := Slice(items, p, perPage)
			if len(window) == 0 {
				break
			}
			got = append(got, window...)
		}
		if len(got) != len(items) {
			t.Fatalf("perPage=%d: got %d items, want %d", perPage, len(got), len(items))
		}
		for i := range items {
			if got[i] != items[i] {
				t.Fatalf("perPage=%d: order changed at %d", perPage, i)
			}
		}
	}
}

func TestNewInfo(t *testing.T) {
	info := NewInfo(2, 10, 25)
	if info.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", info.TotalPages)
	}
	if info.Total != 25 || info.Page != 2 || info.PerPage != 10 {
		t.Errorf("unexpected info: %+v", info)
	}
	if NewInfo(1, 10, 0).TotalPages != 0 {
		t.Error("expected zero pages for empty result")
	}
}
