package ui

import (
	"image"

	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"

	"github.com/justyntemme/launchpad/internal/drag"
	"github.com/justyntemme/launchpad/internal/geom"
	"github.com/justyntemme/launchpad/internal/model"
)

// Grid view of one page of a surface

func (r *Renderer) layoutGrid(gtx layout.Context, state *State, surf *drag.Surface, m geom.Metrics) {
	if surf == nil || surf.Items == nil {
		return
	}
	ctx := drag.ContextMain
	if surf == state.Folder {
		ctx = drag.ContextFolder
	}

	sess, hasSession := state.Drag.Session()
	lifted := hasSession && state.Drag.State() != drag.Armed
	hint, merging := state.Anim.Merge()
	merging = merging && hasSession && sess.HoverContext == ctx

	items := surf.Items.PageItems(surf.Items.Page())
	n := min(len(items), surf.Grid.Capacity())
	for slot := 0; slot < n; slot++ {
		it := items[slot]
		if lifted && it.Key == sess.SourceKey {
			continue
		}
		cell := surf.Grid.CellRect(slot)
		if rect, ok := state.Anim.Rect(it.Key); ok {
			cell = rect
		}
		r.drawItem(gtx, state, it, cell, m, merging && hint.Dst == slot)
	}
}

// drawItem paints an icon and its name inside cell.
func (r *Renderer) drawItem(gtx layout.Context, state *State, it model.Item, cell image.Rectangle, m geom.Metrics, highlight bool) {
	icon := geom.IconRect(cell, m.IconPoint())
	if highlight {
		fillRRect(gtx.Ops, cell, cell.Dx()/8, r.palette.merge)
	}
	if it.IsDir {
		r.drawFolderIcon(gtx, state, it, icon)
	} else {
		r.drawIcon(gtx, it, icon)
	}

	label := image.Rect(cell.Min.X, icon.Max.Y+gtx.Dp(6), cell.Max.X, cell.Max.Y)
	r.drawLabel(gtx, label, it.Name, unit.Sp(float32(m.FontSize)*1.4), r.palette.text, font.Normal)
}

func (r *Renderer) drawIcon(gtx layout.Context, it model.Item, rect image.Rectangle) {
	if rect.Empty() {
		return
	}
	if r.Icons != nil {
		if img, ok := r.Icons.Get(it.Icon, rect.Dx()); ok {
			size := img.Size()
			at := rect.Min.Add(rect.Size().Sub(size).Div(2))
			defer op.Offset(at).Push(gtx.Ops).Pop()
			defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
			img.Add(gtx.Ops)
			paint.PaintOp{}.Add(gtx.Ops)
			return
		}
	}
	// Placeholder tile until the icon loads (or when there is none)
	fillRRect(gtx.Ops, rect, rect.Dx()/5, tileColor(it.Name))
	r.drawLabel(gtx, image.Rect(rect.Min.X, rect.Min.Y+rect.Dy()/4, rect.Max.X, rect.Max.Y-rect.Dy()/4),
		initial(it.Name), unit.Sp(float32(rect.Dy())/3), colText, font.Bold)
}

// drawFolderIcon shows up to four children in a 2x2 grid.
func (r *Renderer) drawFolderIcon(gtx layout.Context, state *State, it model.Item, rect image.Rectangle) {
	fillRRect(gtx.Ops, rect, rect.Dx()/5, r.palette.folderBg)
	folder := state.Library.Folder(it.Key)
	if folder == nil {
		return
	}
	pad := max(2, rect.Dx()/12)
	edge := (rect.Dx() - pad*3) / 2
	for i, child := range folder.Items() {
		if i == 4 {
			break
		}
		at := rect.Min.Add(image.Pt(pad+(i%2)*(edge+pad), pad+(i/2)*(edge+pad)))
		r.drawIcon(gtx, child, image.Rectangle{Min: at, Max: at.Add(image.Pt(edge, edge))})
	}
}

// layoutDragged draws the lifted item above everything else: under the
// pointer while dragging, at the settle animation while it lands.
func (r *Renderer) layoutDragged(gtx layout.Context, state *State) {
	s, ok := state.Drag.Session()
	if !ok {
		return
	}
	it, ok := state.Library.Lookup(s.SourceKey)
	if !ok {
		return
	}
	surf, m := state.Main, r.metrics
	if s.Context == drag.ContextFolder && state.FolderOpen() {
		surf, m = state.Folder, r.folderMetrics
	}

	var rect image.Rectangle
	switch state.Drag.State() {
	case drag.Dragging, drag.Previewing:
		at := s.Last.Round().Add(r.dragOffset)
		rect = image.Rectangle{Min: at, Max: at.Add(surf.Grid.Cell)}
	case drag.Settling:
		if rect, ok = state.Anim.Rect(s.SourceKey); !ok {
			return
		}
	default:
		return
	}
	r.drawItem(gtx, state, it, rect, m, false)
}

// layoutPageDots draws one clickable dot per page below the grid.
func (r *Renderer) layoutPageDots(gtx layout.Context, state *State) UIEvent {
	var out UIEvent
	coll := state.Main.Items
	if state.FolderOpen() {
		coll = state.Folder.Items
	}
	n := coll.PageCount()
	if n <= 1 {
		return out
	}
	for len(r.dots) < n {
		r.dots = append(r.dots, pageDot{})
	}

	cell := gtx.Dp(unit.Dp(24))
	dot := gtx.Dp(unit.Dp(8))
	x0 := (r.winSize.X - n*cell) / 2
	y0 := r.winSize.Y - gtx.Dp(dotsHeight) + (gtx.Dp(dotsHeight)-cell)/2
	if state.FolderOpen() {
		y0 = r.popupRect.Max.Y - cell - gtx.Dp(unit.Dp(4))
	}

	for i := 0; i < n; i++ {
		if r.dots[i].click.Clicked(gtx) {
			out = UIEvent{Action: ActionSetPage, Page: i}
		}
		col := r.palette.dot
		if i == coll.Page() {
			col = r.palette.dotActive
		}
		st := op.Offset(image.Pt(x0+i*cell, y0)).Push(gtx.Ops)
		g := gtx
		g.Constraints = layout.Exact(image.Pt(cell, cell))
		r.dots[i].click.Layout(g, func(gtx layout.Context) layout.Dimensions {
			off := (cell - dot) / 2
			paint.FillShape(gtx.Ops, col, clip.Ellipse(image.Rect(off, off, off+dot, off+dot)).Op(gtx.Ops))
			return layout.Dimensions{Size: gtx.Constraints.Min}
		})
		st.Pop()
	}
	return out
}
