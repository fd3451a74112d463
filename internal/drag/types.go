// Package drag turns pointer presses, moves and releases over the launcher
// grid into reorder, folder and page-scroll intents.
package drag

import (
	"image"
	"time"

	"gioui.org/f32"

	"github.com/justyntemme/launchpad/internal/geom"
	"github.com/justyntemme/launchpad/internal/model"
)

// State is the machine's gesture phase.
type State int

const (
	Idle State = iota
	// Armed is a press that has not yet moved past the drag threshold.
	Armed
	Dragging
	// Previewing means a reorder preview is sliding items out of the way.
	Previewing
	// Settling is the dropped icon flying to its resting place.
	Settling
)

func (s State) String() string {
	switch s {
	case Armed:
		return "armed"
	case Dragging:
		return "dragging"
	case Previewing:
		return "previewing"
	case Settling:
		return "settling"
	default:
		return "idle"
	}
}

// Mode is what a release at the current hover would do.
type Mode int

const (
	ModeNone Mode = iota
	ModeReorder
	// ModeFolderMerge creates a folder out of two applications.
	ModeFolderMerge
	// ModeDirIn drops an application into an existing folder.
	ModeDirIn
	// ModeDirOut drags an application out of the open folder.
	ModeDirOut
)

func (m Mode) String() string {
	switch m {
	case ModeReorder:
		return "reorder"
	case ModeFolderMerge:
		return "merge"
	case ModeDirIn:
		return "dir-in"
	case ModeDirOut:
		return "dir-out"
	default:
		return "none"
	}
}

// Context tells which view a slot belongs to.
type Context int

const (
	ContextMain Context = iota
	ContextFolder
)

func (c Context) String() string {
	if c == ContextFolder {
		return "folder"
	}
	return "main"
}

// Surface is one view the pointer can act on: the page geometry, the
// collection it shows and the view's bounds.
type Surface struct {
	Grid   geom.Grid
	Items  *model.Collection
	Bounds image.Rectangle
	// Merge lets a drop onto an item's center make or fill a folder.
	// Without it every hover over another item is a reorder.
	Merge bool
}

func (s *Surface) rowCount() int {
	if s == nil || s.Items == nil {
		return 0
	}
	return min(s.Items.RowCountForCurrentPage(), s.Grid.Capacity())
}

// slotAt resolves p to an occupied slot. A pointer inside the view but past
// the last item's center resolves to the last item.
func (s *Surface) slotAt(p f32.Point, hint int) int {
	n := s.rowCount()
	if n == 0 {
		return -1
	}
	slot := hint
	if slot < 0 {
		slot = s.Grid.SlotAt(p)
	}
	if slot >= 0 && slot < n {
		return slot
	}
	if !p.Round().In(s.Bounds) {
		return -1
	}
	last := s.Grid.CellRect(n - 1)
	cx, cy := float32(last.Min.X+last.Max.X)/2, float32(last.Min.Y+last.Max.Y)/2
	if p.X > cx && p.Y > cy {
		return n - 1
	}
	return -1
}

func (s *Surface) item(slot int) (model.Item, bool) {
	if slot < 0 || slot >= s.rowCount() {
		return model.Item{}, false
	}
	return s.Items.SlotItem(slot)
}

// Sink receives the intents produced by finished gestures. Positions are
// indexes into the whole sequence, not page slots.
type Sink interface {
	RequestMove(ctx Context, from, to int)
	RequestMerge(srcKey, dstKey string)
	RequestDirIn(srcKey, folderKey string)
	RequestDirOut(folderKey, key string, pos int)
	RequestScroll(delta int)
}

// Timing holds the thresholds and durations of a gesture.
type Timing struct {
	// Threshold is how far in pixels a press must travel to become a drag.
	Threshold int
	// QuickDrag releases sooner than this after the drag began are ignored.
	QuickDrag time.Duration
	// SwapDelay is how long the pointer must rest on a slot before the
	// reorder preview starts.
	SwapDelay    time.Duration
	Preview      time.Duration
	Settle       time.Duration
	ScrollBand   int
	ScrollRepeat time.Duration
}

// DefaultTiming returns the stock gesture timing.
func DefaultTiming() Timing {
	return Timing{
		Threshold:    20,
		QuickDrag:    200 * time.Millisecond,
		SwapDelay:    400 * time.Millisecond,
		Preview:      200 * time.Millisecond,
		Settle:       200 * time.Millisecond,
		ScrollBand:   25,
		ScrollRepeat: 600 * time.Millisecond,
	}
}

// Session is the state of the one gesture in progress.
type Session struct {
	Context   Context
	SourceKey string
	// SourcePos is the dragged item's position in its sequence. It follows
	// the item when a preview commits mid-drag.
	SourcePos int
	SourceDir bool

	HoverContext Context
	HoverSlot    int
	HoverKey     string
	Mode         Mode

	Start time.Time
	// Enabled turns true once the drag has lasted QuickDrag. Until then
	// the merge highlight and edge scrolling are held back.
	Enabled bool
	Press   f32.Point
	Last    f32.Point
}
