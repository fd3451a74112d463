package ui

import (
	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
)

// PointerKind classifies a PointerEvent.
type PointerKind int

const (
	PointerPress PointerKind = iota
	PointerMove
	PointerRelease
	PointerCancel
	PointerSecondary // Secondary button press
	PointerScroll
)

// PointerEvent is a press, drag or release of the primary button in the
// coordinates the area was registered in.
type PointerEvent struct {
	Kind     PointerKind
	Position f32.Point
	Scroll   float32
}

// PointerArea reports raw press, drag and release positions over a region.
// Unlike gesture.Drag it applies no movement threshold: whether a press
// becomes a drag is decided by the consumer. The pointer is grabbed on
// press so drags keep reporting after they leave the region.
type PointerArea struct {
	// pid tracks the pointer ID of the press being followed
	pid     pointer.ID
	pressed bool
}

// Pressed reports whether the primary button is held over the area.
func (a *PointerArea) Pressed() bool {
	return a.pressed
}

// Add registers the area for the current clip.
func (a *PointerArea) Add(ops *op.Ops) {
	event.Op(ops, a)
}

// Update returns the next pointer event, if any. Call it until it reports
// false, before Add (Gio pattern).
func (a *PointerArea) Update(gtx layout.Context) (PointerEvent, bool) {
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  a,
			Kinds:   pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel | pointer.Scroll,
			ScrollY: pointer.ScrollRange{Min: -1000, Max: 1000},
		})
		if !ok {
			return PointerEvent{}, false
		}
		e, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		switch e.Kind {
		case pointer.Press:
			if e.Buttons.Contain(pointer.ButtonSecondary) {
				return PointerEvent{Kind: PointerSecondary, Position: e.Position}, true
			}
			if a.pressed || !e.Buttons.Contain(pointer.ButtonPrimary) {
				continue
			}
			a.pid = e.PointerID
			a.pressed = true
			gtx.Execute(pointer.GrabCmd{Tag: a, ID: e.PointerID})
			return PointerEvent{Kind: PointerPress, Position: e.Position}, true
		case pointer.Drag:
			if !a.pressed || e.PointerID != a.pid {
				continue
			}
			return PointerEvent{Kind: PointerMove, Position: e.Position}, true
		case pointer.Release:
			if !a.pressed || e.PointerID != a.pid {
				continue
			}
			a.pressed = false
			return PointerEvent{Kind: PointerRelease, Position: e.Position}, true
		case pointer.Cancel:
			if !a.pressed {
				continue
			}
			a.pressed = false
			return PointerEvent{Kind: PointerCancel, Position: e.Position}, true
		case pointer.Scroll:
			return PointerEvent{Kind: PointerScroll, Position: e.Position, Scroll: e.Scroll.Y}, true
		}
	}
}
