package ui

import (
	"image"

	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"

	"github.com/justyntemme/launchpad/internal/debug"
	"github.com/justyntemme/launchpad/internal/drag"
)

// Fixed chrome around the grid
const (
	topBarHeight      = unit.Dp(64)
	dotsHeight        = unit.Dp(40)
	folderTitleHeight = unit.Dp(52)
)

// Layout draws one frame. Pointer input is dispatched to state.Drag as it
// arrives; everything else is reported through the returned UIEvent.
func (r *Renderer) Layout(gtx layout.Context, state *State) UIEvent {
	defer clip.Rect{Max: gtx.Constraints.Max}.Push(gtx.Ops).Pop()
	paint.Fill(gtx.Ops, r.palette.background)

	r.layoutMetrics(gtx, state)
	debug.Log(debug.UI_LAYOUT, "frame %v grid %v item %d icon %d", gtx.Constraints.Max, r.gridArea, r.metrics.ItemSize, r.metrics.IconSize)

	// ===== KEYBOARD FOCUS =====
	keyTag := &r.keyTag
	event.Op(gtx.Ops, keyTag)
	if !r.focused {
		gtx.Execute(key.FocusCmd{Tag: keyTag})
		r.focused = true
	}

	eventOut := r.processGlobalInput(gtx, state)
	if ev := r.processPointer(gtx, state); ev.Action != ActionNone {
		eventOut = ev
	}

	// Timers and animations advance before anything is drawn.
	if state.Drag.Tick(gtx.Now) {
		gtx.Execute(op.InvalidateCmd{})
	}

	// Pointer area covers everything below the top bar. Widgets drawn
	// afterwards (page dots, the folder title) sit on top of it.
	area := clip.Rect(image.Rect(0, r.gridArea.Min.Y, r.winSize.X, r.winSize.Y)).Push(gtx.Ops)
	r.pointer.Add(gtx.Ops)
	area.Pop()

	r.layoutGrid(gtx, state, state.Main, r.metrics)

	if ev := r.layoutTopBar(gtx, state); ev.Action != ActionNone {
		eventOut = ev
	}

	s, dragging := state.Drag.Session()
	leaving := dragging && s.Mode == drag.ModeDirOut
	if state.FolderOpen() && !leaving {
		if ev := r.layoutFolder(gtx, state); ev.Action != ActionNone {
			eventOut = ev
		}
	}

	if ev := r.layoutPageDots(gtx, state); ev.Action != ActionNone {
		eventOut = ev
	}

	r.layoutDragged(gtx, state)

	r.layoutToast(gtx)
	return eventOut
}
