package ui

import (
	"image"
	"image/color"
	"sync"
	"time"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"
)

// ToastKind picks a toast's colors.
type ToastKind int

const (
	ToastInfo ToastKind = iota
	ToastWarning
	ToastError
)

const (
	toastDuration = 3 * time.Second
	toastMaxWidth = unit.Dp(500)
)

var toastColors = [...]struct{ bg, fg color.NRGBA }{
	ToastInfo:    {color.NRGBA{R: 60, G: 60, B: 60, A: 240}, color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
	ToastWarning: {color.NRGBA{R: 220, G: 160, B: 40, A: 240}, color.NRGBA{R: 40, G: 40, B: 40, A: 255}},
	ToastError:   {color.NRGBA{R: 200, G: 50, B: 50, A: 240}, color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
}

// toastState is the single message shown above the page dots. Worker
// callbacks may set it while the frame loop reads it.
type toastState struct {
	mu      sync.Mutex
	message string
	kind    ToastKind
	expires time.Time
}

func (t *toastState) set(msg string, kind ToastKind, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.message, t.kind, t.expires = msg, kind, now.Add(toastDuration)
}

// current returns the message still on screen at now. An expired message
// is forgotten.
func (t *toastState) current(now time.Time) (msg string, kind ToastKind, expires time.Time, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.message == "" {
		return "", 0, time.Time{}, false
	}
	if !now.Before(t.expires) {
		t.message = ""
		return "", 0, time.Time{}, false
	}
	return t.message, t.kind, t.expires, true
}

func (r *Renderer) showToast(msg string, kind ToastKind) {
	r.toast.set(msg, kind, time.Now())
}

// ShowError reports a failed launch, scan or save.
func (r *Renderer) ShowError(msg string) { r.showToast(msg, ToastError) }

func (r *Renderer) ShowInfo(msg string) { r.showToast(msg, ToastInfo) }

func (r *Renderer) layoutToast(gtx layout.Context) layout.Dimensions {
	msg, kind, expires, ok := r.toast.current(gtx.Now)
	if !ok {
		return layout.Dimensions{}
	}
	gtx.Execute(op.InvalidateCmd{At: expires})

	inset := layout.Inset{Bottom: dotsHeight + unit.Dp(8), Left: unit.Dp(20), Right: unit.Dp(20)}
	return layout.S.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return inset.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			gtx.Constraints.Max.X = min(gtx.Constraints.Max.X, gtx.Dp(toastMaxWidth))
			gtx.Constraints.Min = image.Point{}
			return r.toastBubble(gtx, msg, kind)
		})
	})
}

func (r *Renderer) toastBubble(gtx layout.Context, msg string, kind ToastKind) layout.Dimensions {
	c := toastColors[kind]
	return layout.Background{}.Layout(gtx,
		func(gtx layout.Context) layout.Dimensions {
			sz := gtx.Constraints.Min
			defer clip.UniformRRect(image.Rectangle{Max: sz}, gtx.Dp(8)).Push(gtx.Ops).Pop()
			paint.Fill(gtx.Ops, c.bg)
			return layout.Dimensions{Size: sz}
		},
		func(gtx layout.Context) layout.Dimensions {
			pad := layout.Inset{Top: unit.Dp(12), Bottom: unit.Dp(12), Left: unit.Dp(16), Right: unit.Dp(16)}
			return pad.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				lbl := material.Body1(r.Theme, msg)
				lbl.Color = c.fg
				return lbl.Layout(gtx)
			})
		},
	)
}
