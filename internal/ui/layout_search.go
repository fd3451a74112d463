package ui

import (
	"image"

	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/justyntemme/launchpad/internal/debug"
	"github.com/justyntemme/launchpad/internal/model"
)

// Top bar: category tabs and the search editor

func (r *Renderer) layoutTopBar(gtx layout.Context, state *State) UIEvent {
	var out UIEvent
	bar := gtx.Dp(topBarHeight)

	if r.allTab.Clicked(gtx) {
		out = UIEvent{Action: ActionSelectCategory, Category: model.All}
	}
	if r.favTab.Clicked(gtx) {
		out = UIEvent{Action: ActionSelectCategory, Category: model.Favorite}
	}

	// Tabs on the left
	tabW, tabH := gtx.Dp(unit.Dp(96)), gtx.Dp(unit.Dp(32))
	y := (bar - tabH) / 2
	x := gtx.Dp(unit.Dp(16))
	for _, tab := range []struct {
		click *widget.Clickable
		label string
		cat   model.Category
	}{
		{&r.allTab, "Applications", model.All},
		{&r.favTab, "Favorites", model.Favorite},
	} {
		active := state.Category == tab.cat
		st := op.Offset(image.Pt(x, y)).Push(gtx.Ops)
		g := gtx
		g.Constraints = layout.Exact(image.Pt(tabW, tabH))
		tab.click.Layout(g, func(gtx layout.Context) layout.Dimensions {
			rect := image.Rectangle{Max: gtx.Constraints.Min}
			weight, col := font.Normal, r.palette.subtle
			if active {
				fillRRect(gtx.Ops, rect, tabH/2, colTabActive)
				weight, col = font.Bold, colText
			}
			r.drawLabel(gtx, rect.Inset(gtx.Dp(unit.Dp(6))), tab.label, unit.Sp(13), col, weight)
			return layout.Dimensions{Size: gtx.Constraints.Min}
		})
		st.Pop()
		x += tabW + gtx.Dp(unit.Dp(8))
	}

	// Search editor centered
	edW := min(gtx.Dp(unit.Dp(320)), r.winSize.X-x*2)
	edH := gtx.Dp(unit.Dp(34))
	rect := image.Rect((r.winSize.X-edW)/2, (bar-edH)/2, (r.winSize.X+edW)/2, (bar+edH)/2)
	if edW <= 0 {
		return out
	}
	fillRRect(gtx.Ops, rect, edH/2, r.palette.searchBg)

	for {
		ev, ok := r.searchEditor.Update(gtx)
		if !ok {
			break
		}
		switch ev.(type) {
		case widget.ChangeEvent:
			q := r.searchEditor.Text()
			if q == r.lastQuery {
				continue
			}
			r.lastQuery = q
			debug.Log(debug.UI, "search query %q", q)
			if q == "" {
				out = UIEvent{Action: ActionClearSearch}
			} else {
				out = UIEvent{Action: ActionSearch, Query: q}
			}
		case widget.SubmitEvent:
			if state.Category == model.Search {
				if it, ok := state.Main.Items.At(0); ok {
					out = UIEvent{Action: ActionLaunch, Key: it.Key}
				}
			}
		}
	}

	inner := rect.Inset(gtx.Dp(unit.Dp(8)))
	inner.Min.X += gtx.Dp(unit.Dp(8))
	st := op.Offset(inner.Min).Push(gtx.Ops)
	g := gtx
	g.Constraints = layout.Exact(inner.Size())
	ed := material.Editor(r.Theme, &r.searchEditor, "Search")
	ed.Color = r.palette.text
	ed.HintColor = r.palette.subtle
	ed.TextSize = unit.Sp(14)
	ed.Layout(g)
	st.Pop()
	return out
}
