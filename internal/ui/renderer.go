package ui

import (
	"image"
	"time"

	"gioui.org/layout"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/justyntemme/launchpad/internal/config"
	"github.com/justyntemme/launchpad/internal/geom"
)

// Renderer draws the launcher and turns input into UIEvents and drag
// machine calls. It keeps only widget state; everything it shows comes
// from State.
type Renderer struct {
	Theme    *material.Theme
	Icons    *IconCache
	Debug    bool
	DarkMode bool

	ConfigError string

	palette palette
	hotkeys *config.Keymap
	keyTag  struct{}
	focused bool

	// Grid geometry of the last frame, in window pixels
	winSize       image.Point
	metrics       geom.Metrics
	folderMetrics geom.Metrics
	gridArea      image.Rectangle
	popupRect     image.Rectangle

	pointer    PointerArea
	dragOffset image.Point // Dragged icon origin relative to the pointer
	lastScroll time.Time

	searchEditor widget.Editor
	lastQuery    string
	allTab       widget.Clickable
	favTab       widget.Clickable
	dots         []pageDot

	folderTitle  widget.Editor
	folderKey    string // Folder whose name is in folderTitle
	folderEdited bool

	toast toastState
}

// scrollDebounce spaces out wheel page turns.
const scrollDebounce = 350 * time.Millisecond

func NewRenderer() *Renderer {
	r := &Renderer{
		Theme:   material.NewTheme(),
		palette: darkPalette,
	}
	r.DarkMode = true
	r.searchEditor.SingleLine = true
	r.searchEditor.Submit = true
	r.folderTitle.SingleLine = true
	r.folderTitle.Submit = true
	r.applyTheme()
	return r
}

// SetDarkMode switches the palette.
func (r *Renderer) SetDarkMode(dark bool) {
	r.DarkMode = dark
	r.applyTheme()
}

func (r *Renderer) applyTheme() {
	if r.DarkMode {
		r.palette = darkPalette
	} else {
		r.palette = lightPalette
	}
	r.Theme.Palette.Bg = r.palette.background
	r.Theme.Palette.Fg = r.palette.text
	r.Theme.Palette.ContrastBg = colTabActive
}

// SetConfigError sets the config error message to display in a toast
func (r *Renderer) SetConfigError(err string) {
	r.ConfigError = err
	if err != "" {
		r.showToast("config: "+err, ToastWarning)
	}
}

// SetSearchText replaces the search editor contents without emitting a
// search event.
func (r *Renderer) SetSearchText(q string) {
	r.searchEditor.SetText(q)
	r.lastQuery = q
}

// Metrics returns the main grid metrics of the last frame.
func (r *Renderer) Metrics() geom.Metrics { return r.metrics }

// layoutMetrics recomputes the grids for a window of size and writes them
// into the state's surfaces.
func (r *Renderer) layoutMetrics(gtx layout.Context, state *State) {
	size := gtx.Constraints.Max
	top, bottom := gtx.Dp(topBarHeight), gtx.Dp(dotsHeight)
	r.winSize = size
	r.gridArea = image.Rect(0, top, size.X, max(top, size.Y-bottom))

	mode := state.gridMode()
	cols, rows := 0, 0
	if mode == geom.ModeFullscreen {
		cols, rows = state.Columns, state.Rows
	}
	m := geom.CalculateGrid(r.gridArea.Size(), mode, cols, rows)
	if m.IconSize != r.metrics.IconSize && r.Icons != nil {
		r.Icons.Clear()
	}
	r.metrics = m
	if state.Main != nil {
		state.Main.Grid = m.Grid(r.gridArea.Min)
		state.Main.Bounds = r.gridArea
	}

	r.popupRect = image.Rectangle{}
	if state.FolderOpen() {
		w, h := size.X*3/5, size.Y*3/5
		r.popupRect = image.Rectangle{Min: image.Pt((size.X-w)/2, (size.Y-h)/2)}
		r.popupRect.Max = r.popupRect.Min.Add(image.Pt(w, h))
		title := gtx.Dp(folderTitleHeight)
		area := image.Rect(r.popupRect.Min.X, r.popupRect.Min.Y+title, r.popupRect.Max.X, r.popupRect.Max.Y)
		r.folderMetrics = geom.CalculateGrid(area.Size(), geom.ModeFolder, state.FolderCols, state.FolderRows)
		state.Folder.Grid = r.folderMetrics.Grid(area.Min)
		state.Folder.Bounds = r.popupRect
	}
}
