package ui

import (
	"image"
	"image/color"
	"strings"
	"unicode/utf8"

	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget/material"
)

// fillRRect paints a rounded rectangle in window coordinates.
func fillRRect(ops *op.Ops, rect image.Rectangle, radius int, col color.NRGBA) {
	paint.FillShape(ops, col, clip.UniformRRect(rect, radius).Op(ops))
}

// drawLabel lays out a single centered line inside rect.
func (r *Renderer) drawLabel(gtx layout.Context, rect image.Rectangle, s string, size unit.Sp, col color.NRGBA, weight font.Weight) {
	if rect.Empty() || s == "" {
		return
	}
	defer op.Offset(rect.Min).Push(gtx.Ops).Pop()
	gtx.Constraints = layout.Exact(rect.Size())
	lbl := material.Label(r.Theme, size, s)
	lbl.Alignment = text.Middle
	lbl.MaxLines = 1
	lbl.Color = col
	lbl.Font.Weight = weight
	lbl.Layout(gtx)
}

// initial is the placeholder glyph for an item without an icon.
func initial(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "?"
	}
	ch, _ := utf8.DecodeRuneInString(name)
	return strings.ToUpper(string(ch))
}

// renderPopupShell draws the folder popup card with its shadow.
func (r *Renderer) renderPopupShell(gtx layout.Context, rect image.Rectangle) {
	rr := gtx.Dp(unit.Dp(14))
	fillRRect(gtx.Ops, rect.Add(image.Pt(0, gtx.Dp(4))), rr, colShadow)
	fillRRect(gtx.Ops, rect, rr, r.palette.popupBg)
}
