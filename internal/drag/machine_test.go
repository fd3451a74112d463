package drag

import (
	"image"
	"slices"
	"testing"
	"time"

	"gioui.org/f32"

	"github.com/justyntemme/launchpad/internal/anim"
	"github.com/justyntemme/launchpad/internal/geom"
	"github.com/justyntemme/launchpad/internal/model"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func at(ms int) time.Time { return t0.Add(time.Duration(ms) * time.Millisecond) }

// center of a slot on the 4x2 test grid of 100px cells at the origin.
func center(slot int) f32.Point {
	return f32.Pt(float32(slot%4*100+50), float32(slot/4*100+50))
}

type move struct {
	ctx      Context
	from, to int
}

type testSink struct {
	lib *model.Library
	// col receives moves; nil means the All collection.
	col     *model.Collection
	moves   []move
	merges  [][2]string
	dirIns  [][2]string
	dirOuts []string
	scrolls []int
}

func (s *testSink) RequestMove(ctx Context, from, to int) {
	s.moves = append(s.moves, move{ctx, from, to})
	col := s.col
	if col == nil {
		col = s.lib.Collection(model.All)
	}
	col.Move(from, to)
}

func (s *testSink) RequestMerge(src, dst string) {
	s.merges = append(s.merges, [2]string{src, dst})
	s.lib.Merge(src, dst)
}

func (s *testSink) RequestDirIn(src, folder string) {
	s.dirIns = append(s.dirIns, [2]string{src, folder})
	s.lib.AddToFolder(src, folder)
}

func (s *testSink) RequestDirOut(folder, key string, pos int) {
	s.dirOuts = append(s.dirOuts, key)
	s.lib.TakeFromFolder(folder, key, pos)
}

func (s *testSink) RequestScroll(delta int) {
	s.scrolls = append(s.scrolls, delta)
}

type harness struct {
	m     *Machine
	coord *anim.Coordinator
	lib   *model.Library
	sink  *testSink
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	var apps []model.Item
	for _, k := range []string{"A", "B", "C", "D", "E", "F", "X", "Y", "Z", "W"} {
		apps = append(apps, model.Item{Key: k, Name: k})
	}
	lib := model.NewLibrary(nil)
	lib.Restore(apps, map[string][]string{
		"all":   {"A", "B", "C", "D", "E", "F", "f", "g"},
		"dir:f": {"X", "Y"},
		"dir:g": {"Z", "W"},
	}, map[string]string{"f": "Folder F", "g": "Folder G"})

	timing := DefaultTiming()
	coord := anim.New(timing.Preview, timing.Settle)
	sink := &testSink{lib: lib}
	m := New(timing, coord, sink)
	m.SetSurface(ContextMain, &Surface{
		Grid:   geom.Grid{Cols: 4, Rows: 2, Cell: image.Pt(100, 100)},
		Items:  lib.Collection(model.All),
		Bounds: image.Rect(-100, -100, 500, 300),
		Merge:  true,
	})
	return &harness{m: m, coord: coord, lib: lib, sink: sink}
}

func (h *harness) keys() []string { return h.lib.Collection(model.All).Keys() }

// dragToSwap presses A, drags it and rests in the swap region of slot 2.
func (h *harness) dragToSwap(t *testing.T) {
	t.Helper()
	if !h.m.OnPointerDown(at(0), center(0), -1) {
		t.Fatal("press did not arm")
	}
	h.m.OnPointerMove(at(10), f32.Pt(80, 50), -1)
	if h.m.State() != Dragging {
		t.Fatalf("expected dragging, got %s", h.m.State())
	}
	h.m.OnPointerMove(at(20), f32.Pt(220, 80), -1)
	s, _ := h.m.Session()
	if s.Mode != ModeReorder || s.HoverSlot != 2 {
		t.Fatalf("expected reorder over slot 2, got %s over %d", s.Mode, s.HoverSlot)
	}
}

func TestClick(t *testing.T) {
	h := newHarness(t)
	h.m.OnPointerDown(at(0), center(1), -1)
	h.m.OnPointerMove(at(5), center(1).Add(f32.Pt(5, 5)), -1)
	key, ok := h.m.OnPointerUp(at(50), center(1), -1)
	if !ok || key != "B" {
		t.Errorf("expected click on B, got %q %v", key, ok)
	}
	if h.m.State() != Idle {
		t.Errorf("expected idle, got %s", h.m.State())
	}
}

func TestPressOnEmptySlot(t *testing.T) {
	h := newHarness(t)
	if h.m.OnPointerDown(at(0), f32.Pt(450, 50), -1) {
		t.Error("press outside the grid should not arm")
	}
}

func TestQuickDragNeverMutates(t *testing.T) {
	paths := [][]f32.Point{
		{f32.Pt(250, 50), f32.Pt(350, 80)},
		{f32.Pt(80, 50), f32.Pt(220, 80)},
		{f32.Pt(170, 80)},
		{f32.Pt(-80, 50)},
	}
	for i, path := range paths {
		h := newHarness(t)
		before := h.keys()
		h.m.OnPointerDown(at(0), center(0), -1)
		for j, p := range path {
			h.m.OnPointerMove(at(10+j*20), p, -1)
		}
		h.m.OnPointerUp(at(150), path[len(path)-1], -1)
		h.m.Tick(at(2000))

		if len(h.sink.moves)+len(h.sink.merges)+len(h.sink.dirIns) != 0 {
			t.Errorf("path %d: quick drag emitted intents %+v", i, h.sink)
		}
		if got := h.keys(); !slices.Equal(got, before) {
			t.Errorf("path %d: order changed to %v", i, got)
		}
		if h.m.State() != Idle {
			t.Errorf("path %d: expected idle, got %s", i, h.m.State())
		}
	}
}

func TestReorder_PreviewCommitsOnce(t *testing.T) {
	h := newHarness(t)
	h.dragToSwap(t)

	h.m.Tick(at(419))
	if h.coord.Previewing() {
		t.Fatal("preview started before the swap delay")
	}
	h.m.Tick(at(420))
	if h.m.State() != Previewing || len(h.coord.Animations()) != 2 {
		t.Fatalf("expected a 2-item preview, got %s with %d", h.m.State(), len(h.coord.Animations()))
	}
	if len(h.sink.moves) != 0 {
		t.Fatal("committed before the preview finished")
	}

	h.m.Tick(at(620))
	if !slices.Equal(h.sink.moves, []move{{ContextMain, 0, 2}}) {
		t.Fatalf("unexpected moves %v", h.sink.moves)
	}
	if h.m.State() != Dragging {
		t.Errorf("expected dragging after commit, got %s", h.m.State())
	}
	s, _ := h.m.Session()
	if s.SourcePos != 2 {
		t.Errorf("source should follow the item to 2, got %d", s.SourcePos)
	}

	h.m.OnPointerUp(at(700), f32.Pt(220, 80), -1)
	if h.m.State() != Settling {
		t.Fatalf("expected settling, got %s", h.m.State())
	}
	if h.m.Tick(at(900)) {
		t.Error("expected no further frames")
	}
	if h.m.State() != Idle {
		t.Errorf("expected idle, got %s", h.m.State())
	}
	if len(h.sink.moves) != 1 {
		t.Errorf("expected exactly one move, got %v", h.sink.moves)
	}
	want := []string{"B", "C", "A", "D", "E", "F", "f", "g"}
	if got := h.keys(); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestReorder_ReleaseDuringPreviewDefers(t *testing.T) {
	h := newHarness(t)
	h.dragToSwap(t)
	h.m.Tick(at(420))

	h.m.OnPointerUp(at(500), f32.Pt(220, 80), -1)
	if len(h.sink.moves) != 0 {
		t.Fatal("commit must wait for the preview")
	}
	h.m.Tick(at(600))
	if len(h.sink.moves) != 0 {
		t.Fatal("commit ran before the terminal animation")
	}
	h.m.Tick(at(620))
	if !slices.Equal(h.sink.moves, []move{{ContextMain, 0, 2}}) {
		t.Errorf("unexpected moves %v", h.sink.moves)
	}
	h.m.Tick(at(700))
	if h.m.State() != Idle {
		t.Errorf("expected idle, got %s", h.m.State())
	}
}

func TestReorder_ReleaseBeforeSwapDelayCommits(t *testing.T) {
	h := newHarness(t)
	h.dragToSwap(t)
	h.m.OnPointerUp(at(300), f32.Pt(220, 80), -1)
	if !slices.Equal(h.sink.moves, []move{{ContextMain, 0, 2}}) {
		t.Errorf("expected immediate move, got %v", h.sink.moves)
	}
	if h.coord.Previewing() {
		t.Error("no preview should run")
	}
}

func TestNewPressCancelsPreviousAnimations(t *testing.T) {
	h := newHarness(t)
	h.dragToSwap(t)
	h.m.Tick(at(420))
	h.m.OnPointerUp(at(500), f32.Pt(220, 80), -1)
	gen := h.coord.Generation()

	if !h.m.OnPointerDown(at(520), center(5), -1) {
		t.Fatal("second press did not arm")
	}
	if h.coord.Active() || h.coord.Generation() == gen {
		t.Error("previous animations should be cancelled before the new gesture")
	}
	if !slices.Equal(h.sink.moves, []move{{ContextMain, 0, 2}}) {
		t.Fatalf("the released drop should commit once, got %v", h.sink.moves)
	}

	h.m.OnPointerMove(at(530), f32.Pt(150, 115), -1)
	h.m.OnPointerMove(at(540), f32.Pt(80, 120), -1)
	h.m.Tick(at(940))
	set := h.coord.Animations()
	if len(set) != 1 || set[0].Slot != 4 || !set[0].Terminal {
		t.Fatalf("expected a single terminal animation for slot 4, got %+v", set)
	}
	h.m.Tick(at(1140))
	if len(h.sink.moves) != 2 || h.sink.moves[1] != (move{ContextMain, 5, 4}) {
		t.Errorf("unexpected moves %v", h.sink.moves)
	}
}

func TestCancelDuringPreview(t *testing.T) {
	h := newHarness(t)
	before := h.keys()
	h.dragToSwap(t)
	h.m.Tick(at(420))
	h.m.Cancel()
	h.m.Cancel()
	h.m.Tick(at(2000))
	if len(h.sink.moves) != 0 {
		t.Errorf("cancel must not commit, got %v", h.sink.moves)
	}
	if got := h.keys(); !slices.Equal(got, before) {
		t.Errorf("order changed to %v", got)
	}
	if h.m.State() != Idle {
		t.Errorf("expected idle, got %s", h.m.State())
	}
}

func TestValidate(t *testing.T) {
	h := newHarness(t)
	h.dragToSwap(t)
	h.m.Tick(at(420))

	h.m.Validate(func(k string) bool { return k != "B" })
	h.m.Tick(at(620))
	if len(h.sink.moves) != 0 {
		t.Errorf("vanished item must cancel the commit, got %v", h.sink.moves)
	}
	if h.m.State() != Dragging {
		t.Errorf("expected dragging, got %s", h.m.State())
	}

	h.m.Validate(func(k string) bool { return k != "A" })
	if h.m.State() != Idle {
		t.Errorf("losing the dragged item should end the gesture, got %s", h.m.State())
	}
}

func TestValidate_PositionShift(t *testing.T) {
	h := newHarness(t)
	h.m.OnPointerDown(at(0), center(2), -1)
	h.m.OnPointerMove(at(10), f32.Pt(220, 50), -1)

	h.lib.Uninstall("A")
	h.m.Validate(h.lib.Present)
	s, ok := h.m.Session()
	if !ok || s.SourcePos != 1 {
		t.Fatalf("expected C to be tracked at 1, got %+v", s)
	}

	h.m.OnPointerMove(at(20), f32.Pt(230, 80), -1)
	s, _ = h.m.Session()
	if s.Mode != ModeReorder || s.HoverKey != "D" {
		t.Fatalf("expected reorder over D, got %s over %q", s.Mode, s.HoverKey)
	}
	h.m.OnPointerUp(at(300), f32.Pt(230, 80), -1)

	if !slices.Equal(h.sink.moves, []move{{ContextMain, 1, 2}}) {
		t.Errorf("unexpected moves %v", h.sink.moves)
	}
	want := []string{"B", "D", "C", "E", "F", "f", "g"}
	if got := h.keys(); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestValidate_ShiftDuringPreview(t *testing.T) {
	tests := []struct {
		name    string
		release bool
	}{
		{"dragging", false},
		{"released", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.m.OnPointerDown(at(0), center(1), -1)
			h.m.OnPointerMove(at(10), f32.Pt(180, 50), -1)
			h.m.OnPointerMove(at(20), f32.Pt(320, 80), -1)
			h.m.Tick(at(420))
			if h.m.State() != Previewing {
				t.Fatalf("expected previewing, got %s", h.m.State())
			}
			if tt.release {
				h.m.OnPointerUp(at(500), f32.Pt(320, 80), -1)
			}

			h.lib.Uninstall("A")
			h.m.Validate(h.lib.Present)
			if h.coord.Previewing() {
				t.Error("preview should be dropped once positions shift")
			}
			h.m.Tick(at(620))
			h.m.OnPointerDown(at(700), center(7), -1)

			if len(h.sink.moves) != 0 {
				t.Errorf("stale preview committed %v", h.sink.moves)
			}
			want := []string{"B", "C", "D", "E", "F", "f", "g"}
			if got := h.keys(); !slices.Equal(got, want) {
				t.Errorf("expected %v, got %v", want, got)
			}
		})
	}
}

func TestFavoritesNeverMerge(t *testing.T) {
	h := newHarness(t)
	fav := h.lib.Collection(model.Favorite)
	for i, k := range []string{"A", "B", "C"} {
		h.lib.AddFavorite(k, i)
	}
	h.sink.col = fav
	h.m.SetSurface(ContextMain, &Surface{
		Grid:   geom.Grid{Cols: 4, Rows: 2, Cell: image.Pt(100, 100)},
		Items:  fav,
		Bounds: image.Rect(-100, -100, 500, 300),
	})

	h.m.OnPointerDown(at(0), center(0), -1)
	h.m.OnPointerMove(at(10), f32.Pt(80, 50), -1)
	h.m.OnPointerMove(at(220), f32.Pt(270, 80), -1)
	s, _ := h.m.Session()
	if s.Mode != ModeReorder || s.HoverKey != "C" {
		t.Fatalf("expected reorder over C, got %s over %q", s.Mode, s.HoverKey)
	}
	if _, ok := h.coord.Merge(); ok {
		t.Error("no merge highlight outside a merging surface")
	}

	h.m.Tick(at(620))
	if !h.coord.Previewing() {
		t.Fatal("expected the hold to start a reorder preview")
	}
	h.m.Tick(at(820))
	h.m.OnPointerUp(at(1020), f32.Pt(270, 80), -1)
	if len(h.sink.merges)+len(h.sink.dirIns) != 0 {
		t.Errorf("unexpected folder intents %v %v", h.sink.merges, h.sink.dirIns)
	}
	if got := fav.Keys(); !slices.Equal(got, []string{"B", "C", "A"}) {
		t.Errorf("expected [B C A], got %v", got)
	}
}

func TestMergeHighlightWaitsForQuickDrag(t *testing.T) {
	h := newHarness(t)
	h.m.OnPointerDown(at(0), center(0), -1)
	h.m.OnPointerMove(at(10), f32.Pt(80, 50), -1)
	h.m.OnPointerMove(at(20), f32.Pt(170, 80), -1)
	s, _ := h.m.Session()
	if s.Mode != ModeFolderMerge || s.Enabled {
		t.Fatalf("expected a guarded merge, got %s enabled=%v", s.Mode, s.Enabled)
	}
	if _, ok := h.coord.Merge(); ok {
		t.Error("merge highlight shown during the first 200ms")
	}
	h.m.Tick(at(209))
	if _, ok := h.coord.Merge(); ok {
		t.Error("merge highlight shown before the guard lifted")
	}
	h.m.Tick(at(210))
	if hint, ok := h.coord.Merge(); !ok || hint.Dst != 1 {
		t.Errorf("expected highlight on slot 1, got %+v %v", hint, ok)
	}
}

func TestFolderMerge(t *testing.T) {
	h := newHarness(t)
	h.m.OnPointerDown(at(0), center(0), -1)
	h.m.OnPointerMove(at(10), f32.Pt(80, 50), -1)
	h.m.OnPointerMove(at(220), f32.Pt(170, 80), -1)
	s, _ := h.m.Session()
	if s.Mode != ModeFolderMerge {
		t.Fatalf("expected merge, got %s", s.Mode)
	}
	if hint, ok := h.coord.Merge(); !ok || hint.Src != 0 || hint.Dst != 1 {
		t.Errorf("unexpected merge hint %+v", hint)
	}

	h.m.Tick(at(600))
	if h.coord.Previewing() {
		t.Error("merge must not start a reorder preview")
	}
	h.m.OnPointerUp(at(700), f32.Pt(170, 80), -1)
	if len(h.sink.merges) != 1 || h.sink.merges[0] != [2]string{"A", "B"} {
		t.Errorf("unexpected merges %v", h.sink.merges)
	}
	if h.lib.Collection(model.All).Len() != 7 {
		t.Errorf("expected 7 top-level items, got %v", h.keys())
	}
}

func TestDirIn(t *testing.T) {
	h := newHarness(t)
	h.m.OnPointerDown(at(0), center(4), -1)
	h.m.OnPointerMove(at(10), f32.Pt(80, 150), -1)
	h.m.OnPointerMove(at(20), f32.Pt(270, 170), -1)
	s, _ := h.m.Session()
	if s.Mode != ModeDirIn {
		t.Fatalf("expected dir-in, got %s", s.Mode)
	}
	h.m.OnPointerUp(at(300), f32.Pt(270, 170), -1)
	if len(h.sink.dirIns) != 1 || h.sink.dirIns[0] != [2]string{"E", "f"} {
		t.Errorf("unexpected dir-in intents %v", h.sink.dirIns)
	}
	if got := h.lib.Folder("f").Keys(); !slices.Equal(got, []string{"X", "Y", "E"}) {
		t.Errorf("unexpected folder contents %v", got)
	}
}

func TestMergeNeverInvolvesFolders(t *testing.T) {
	offsets := []f32.Point{
		f32.Pt(10, 10), f32.Pt(90, 10), f32.Pt(10, 90), f32.Pt(90, 90), f32.Pt(60, 40),
	}
	for src := 0; src < 8; src++ {
		for dst := 0; dst < 8; dst++ {
			if src == dst {
				continue
			}
			for _, off := range offsets {
				h := newHarness(t)
				h.m.OnPointerDown(at(0), center(src), -1)
				h.m.OnPointerMove(at(10), center(src).Add(f32.Pt(30, 0)), -1)
				p := f32.Pt(float32(dst%4*100), float32(dst/4*100)).Add(off)
				h.m.OnPointerMove(at(20), p, -1)

				s, _ := h.m.Session()
				srcIt, _ := h.lib.Collection(model.All).At(src)
				dstIt, _ := h.lib.Collection(model.All).At(dst)
				if s.Mode == ModeFolderMerge && (srcIt.IsDir || dstIt.IsDir) {
					t.Errorf("%s onto %s resolved to merge", srcIt.Key, dstIt.Key)
				}
				if s.Mode == ModeDirIn && (srcIt.IsDir || !dstIt.IsDir) {
					t.Errorf("%s onto %s resolved to dir-in", srcIt.Key, dstIt.Key)
				}
				h.m.OnPointerUp(at(300), p, -1)
				if len(h.sink.merges) > 0 && (srcIt.IsDir || dstIt.IsDir) {
					t.Errorf("%s onto %s emitted a merge", srcIt.Key, dstIt.Key)
				}
			}
		}
	}
}

func TestEdgeScroll(t *testing.T) {
	h := newHarness(t)
	h.m.OnPointerDown(at(0), center(0), -1)
	h.m.OnPointerMove(at(10), f32.Pt(20, 50), -1)
	h.m.OnPointerMove(at(20), f32.Pt(-80, 50), -1)
	h.m.OnPointerMove(at(30), f32.Pt(-85, 55), -1)
	if len(h.sink.scrolls) != 0 {
		t.Fatalf("expected no scroll during the first 200ms, got %v", h.sink.scrolls)
	}
	h.m.Tick(at(209))
	h.m.Tick(at(210))
	if !slices.Equal(h.sink.scrolls, []int{-1}) {
		t.Fatalf("expected one scroll once the drag is enabled, got %v", h.sink.scrolls)
	}
	h.m.Tick(at(809))
	h.m.Tick(at(810))
	if !slices.Equal(h.sink.scrolls, []int{-1, -1}) {
		t.Fatalf("expected a repeat after the delay, got %v", h.sink.scrolls)
	}
	h.m.OnPointerMove(at(900), f32.Pt(50, 50), -1)
	h.m.Tick(at(2000))
	if len(h.sink.scrolls) != 2 {
		t.Errorf("scrolling should stop after leaving the band, got %v", h.sink.scrolls)
	}
	h.m.OnPointerMove(at(2010), f32.Pt(490, 50), -1)
	if h.sink.scrolls[len(h.sink.scrolls)-1] != 1 {
		t.Errorf("expected a right scroll, got %v", h.sink.scrolls)
	}
}

func TestDirOut(t *testing.T) {
	h := newHarness(t)
	h.m.SetSurface(ContextFolder, &Surface{
		Grid:   geom.Grid{Origin: image.Pt(1000, 1000), Cols: 4, Rows: 3, Cell: image.Pt(100, 100)},
		Items:  h.lib.Folder("f"),
		Bounds: image.Rect(1000, 1000, 1400, 1300),
	})

	if !h.m.OnPointerDown(at(0), f32.Pt(1150, 1050), -1) {
		t.Fatal("press in folder did not arm")
	}
	s, _ := h.m.Session()
	if s.Context != ContextFolder || s.SourceKey != "Y" {
		t.Fatalf("unexpected session %+v", s)
	}
	h.m.OnPointerMove(at(10), f32.Pt(1180, 1050), -1)
	h.m.OnPointerMove(at(20), center(3), -1)
	s, _ = h.m.Session()
	if s.Mode != ModeDirOut || s.HoverContext != ContextMain || s.HoverSlot != 3 {
		t.Fatalf("expected dir-out over main slot 3, got %+v", s)
	}

	h.m.OnPointerUp(at(300), center(3), -1)
	if !slices.Equal(h.sink.dirOuts, []string{"Y"}) {
		t.Errorf("unexpected dir-out intents %v", h.sink.dirOuts)
	}
	want := []string{"A", "B", "C", "Y", "D", "E", "F", "X", "g"}
	if got := h.keys(); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
