package ui

import (
	"image"
	"strings"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
)

// Folder popup: a titled card showing one page of a folder's items

func (r *Renderer) layoutFolder(gtx layout.Context, state *State) UIEvent {
	var out UIEvent
	key := state.Folder.Items.Folder()

	if r.folderKey != key {
		r.folderKey = key
		name := ""
		if it, ok := state.Library.Lookup(key); ok {
			name = it.Name
		}
		r.folderTitle.SetText(name)
		r.folderEdited = false
	}

	paint.Fill(gtx.Ops, colBackdrop)
	r.renderPopupShell(gtx, r.popupRect)

	for {
		ev, ok := r.folderTitle.Update(gtx)
		if !ok {
			break
		}
		switch ev.(type) {
		case widget.ChangeEvent:
			r.folderEdited = true
		case widget.SubmitEvent:
			name := strings.TrimSpace(r.folderTitle.Text())
			if name != "" && r.folderEdited {
				out = UIEvent{Action: ActionRenameFolder, Key: key, Name: name}
				r.folderEdited = false
			}
		}
	}

	title := gtx.Dp(folderTitleHeight)
	pad := gtx.Dp(unit.Dp(12))
	rect := image.Rect(r.popupRect.Min.X+pad, r.popupRect.Min.Y+pad, r.popupRect.Max.X-pad, r.popupRect.Min.Y+title-pad/2)
	if !rect.Empty() {
		st := op.Offset(rect.Min).Push(gtx.Ops)
		g := gtx
		g.Constraints = layout.Exact(rect.Size())
		ed := material.Editor(r.Theme, &r.folderTitle, "Folder")
		ed.Color = r.palette.text
		ed.HintColor = r.palette.subtle
		ed.TextSize = unit.Sp(18)
		ed.Editor.Alignment = text.Middle
		ed.Layout(g)
		st.Pop()
	}

	r.layoutGrid(gtx, state, state.Folder, r.folderMetrics)
	return out
}
