package geom

import (
	"image"
	"testing"

	"gioui.org/f32"
)

func testGrid() Grid {
	return Grid{Origin: image.Pt(10, 20), Cols: 3, Rows: 2, Cell: image.Pt(50, 40), Spacing: 10}
}

func TestGrid_CapacityAndBounds(t *testing.T) {
	g := testGrid()
	if g.Capacity() != 6 {
		t.Errorf("expected capacity 6, got %d", g.Capacity())
	}
	want := image.Rect(10, 20, 180, 110)
	if got := g.Bounds(); got != want {
		t.Errorf("expected bounds %v, got %v", want, got)
	}
	if (Grid{}).Capacity() != 0 {
		t.Error("zero grid should have no capacity")
	}
}

func TestGrid_CellRect(t *testing.T) {
	g := testGrid()
	testCases := []struct {
		slot int
		want image.Rectangle
	}{
		{0, image.Rect(10, 20, 60, 60)},
		{2, image.Rect(130, 20, 180, 60)},
		{4, image.Rect(70, 70, 120, 110)},
		{6, image.Rectangle{}},
		{-1, image.Rectangle{}},
	}
	for _, tc := range testCases {
		if got := g.CellRect(tc.slot); got != tc.want {
			t.Errorf("slot %d: expected %v, got %v", tc.slot, tc.want, got)
		}
	}
}

func TestGrid_SlotAt(t *testing.T) {
	g := testGrid()
	testCases := []struct {
		p    f32.Point
		want int
	}{
		{f32.Pt(15, 25), 0},
		{f32.Pt(75, 75), 4},
		{f32.Pt(179, 109), 5},
		{f32.Pt(65, 30), -1}, // horizontal gap
		{f32.Pt(20, 65), -1}, // vertical gap
		{f32.Pt(5, 5), -1},
		{f32.Pt(500, 30), -1},
	}
	for _, tc := range testCases {
		if got := g.SlotAt(tc.p); got != tc.want {
			t.Errorf("point %v: expected slot %d, got %d", tc.p, tc.want, got)
		}
	}
}

func TestGrid_SlotAtRoundTrip(t *testing.T) {
	g := testGrid()
	for slot := 0; slot < g.Capacity(); slot++ {
		r := g.CellRect(slot)
		c := f32.Pt(float32(r.Min.X+r.Max.X)/2, float32(r.Min.Y+r.Max.Y)/2)
		if got := g.SlotAt(c); got != slot {
			t.Errorf("center of slot %d resolved to %d", slot, got)
		}
	}
}

func TestIconRect(t *testing.T) {
	testCases := []struct {
		name string
		cell image.Rectangle
		icon image.Point
		want image.Rectangle
	}{
		{"tall cell trims bottom", image.Rect(0, 0, 100, 120), image.Pt(40, 40), image.Rect(30, 5, 70, 45)},
		{"wide cell trims sides", image.Rect(0, 0, 120, 100), image.Pt(40, 40), image.Rect(40, 5, 80, 45)},
		{"negative fit uses unit margin", image.Rect(0, 0, 100, 100), image.Pt(100, 100), image.Rect(0, 5, 100, 105)},
	}
	for _, tc := range testCases {
		if got := IconRect(tc.cell, tc.icon); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestTravel(t *testing.T) {
	origin := f32.Pt(0, 0)
	testCases := []struct {
		to   f32.Point
		want Direction
	}{
		{f32.Pt(5, 0), Forward},
		{f32.Pt(0, -3), Forward},
		{f32.Pt(5, 5), Forward},
		{f32.Pt(-1, 0), Backward},
		{f32.Pt(0, 2), Backward},
		{f32.Pt(0, 0), Still},
	}
	for _, tc := range testCases {
		if got := Travel(origin, tc.to); got != tc.want {
			t.Errorf("travel to %v: expected %s, got %s", tc.to, tc.want, got)
		}
	}
}

func TestClassify(t *testing.T) {
	cell := image.Rect(0, 0, 100, 100)
	testCases := []struct {
		p    f32.Point
		dir  Direction
		want Region
	}{
		{f32.Pt(60, 80), Forward, RegionMerge},
		{f32.Pt(10, 10), Forward, RegionMerge},
		{f32.Pt(10, 80), Forward, RegionSwap},
		{f32.Pt(10, 10), Backward, RegionMerge},
		{f32.Pt(80, 80), Backward, RegionMerge},
		{f32.Pt(80, 20), Backward, RegionSwap},
		{f32.Pt(10, 10), Still, RegionSwap},
		{f32.Pt(150, 10), Forward, RegionNone},
	}
	for _, tc := range testCases {
		if got := Classify(tc.p, cell, tc.dir); got != tc.want {
			t.Errorf("%v moving %s: expected %s, got %s", tc.p, tc.dir, tc.want, got)
		}
	}
}

func TestEdgeZone(t *testing.T) {
	bounds := image.Rect(0, 0, 1000, 500)
	testCases := []struct {
		x    float32
		want int
	}{
		{10, -1},
		{25, 0},
		{500, 0},
		{975, 0},
		{990, 1},
	}
	for _, tc := range testCases {
		if got := EdgeZone(f32.Pt(tc.x, 100), bounds, 25); got != tc.want {
			t.Errorf("x=%v: expected %d, got %d", tc.x, tc.want, got)
		}
	}
}
