// Package geom maps grid slots to pixel rectangles and pointer positions back
// to slots. Everything here is a pure function of the geometry passed in.
package geom

import (
	"image"

	"gioui.org/f32"
)

// Grid describes one page of slots laid out row-major starting at Origin.
// Cells are Cell sized and separated by Spacing pixels on both axes.
type Grid struct {
	Origin  image.Point
	Cols    int
	Rows    int
	Cell    image.Point
	Spacing int
}

// Capacity is the number of slots on one page.
func (g Grid) Capacity() int {
	if g.Cols <= 0 || g.Rows <= 0 {
		return 0
	}
	return g.Cols * g.Rows
}

// Bounds covers every cell of the page.
func (g Grid) Bounds() image.Rectangle {
	if g.Capacity() == 0 {
		return image.Rectangle{Min: g.Origin, Max: g.Origin}
	}
	w := g.Cols*g.Cell.X + (g.Cols-1)*g.Spacing
	h := g.Rows*g.Cell.Y + (g.Rows-1)*g.Spacing
	return image.Rectangle{Min: g.Origin, Max: g.Origin.Add(image.Pt(w, h))}
}

// CellRect returns the rectangle of slot, or the empty rectangle when the
// slot is not on the page.
func (g Grid) CellRect(slot int) image.Rectangle {
	if slot < 0 || slot >= g.Capacity() {
		return image.Rectangle{}
	}
	col, row := slot%g.Cols, slot/g.Cols
	min := g.Origin.Add(image.Pt(col*(g.Cell.X+g.Spacing), row*(g.Cell.Y+g.Spacing)))
	return image.Rectangle{Min: min, Max: min.Add(g.Cell)}
}

// SlotAt resolves a pointer position to a slot. Positions in the gaps
// between cells or outside the page resolve to -1.
func (g Grid) SlotAt(p f32.Point) int {
	if g.Capacity() == 0 {
		return -1
	}
	pt := p.Round()
	if !pt.In(g.Bounds()) {
		return -1
	}
	rel := pt.Sub(g.Origin)
	strideX, strideY := g.Cell.X+g.Spacing, g.Cell.Y+g.Spacing
	col, row := rel.X/strideX, rel.Y/strideY
	if rel.X%strideX >= g.Cell.X || rel.Y%strideY >= g.Cell.Y {
		return -1
	}
	if col >= g.Cols || row >= g.Rows {
		return -1
	}
	return row*g.Cols + col
}

// Matlab-fitted constants relating cell width and icon width.
const (
	iconFitX1 = 0.26418192
	iconFitX2 = -0.38890932
)

// IconRect computes where an icon of the given size is drawn inside cell.
// The cell is squared first, then shrunk by a margin derived from the fitted
// affine relation between cell width and icon width.
func IconRect(cell image.Rectangle, icon image.Point) image.Rectangle {
	w, h := cell.Dx(), cell.Dy()
	sub := (w - h) / 2
	if sub < 0 {
		sub = -sub
	}

	ibr := cell
	switch {
	case w > h:
		ibr.Min.X += sub
		ibr.Max.X -= sub
	case w < h:
		ibr.Max.Y -= sub * 2
	}

	fit := iconFitX1*float64(ibr.Dx()) + iconFitX2*float64(icon.X)
	margin := 1
	if fit > 0 {
		margin = int(fit * 0.71)
	}
	if margin < 1 {
		margin = 1
	}
	br := image.Rectangle{
		Min: image.Pt(ibr.Min.X+margin, ibr.Min.Y+1),
		Max: image.Pt(ibr.Max.X-margin, ibr.Max.Y-margin*2),
	}

	const iconTopMargin = 6
	left := (br.Dx() - icon.X) / 2
	min := br.Min.Add(image.Pt(left, iconTopMargin-2))
	return image.Rectangle{Min: min, Max: min.Add(icon)}
}

// Direction is the pointer's travel direction between two samples.
type Direction int

const (
	Still Direction = iota
	// Forward is travel to the right or upwards.
	Forward
	// Backward is travel to the left or downwards.
	Backward
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return "still"
	}
}

// Travel classifies the movement from prev to cur. Rightward or upward
// components win over leftward or downward ones.
func Travel(prev, cur f32.Point) Direction {
	d := cur.Sub(prev)
	switch {
	case d.X > 0 || d.Y < 0:
		return Forward
	case d.X < 0 || d.Y > 0:
		return Backward
	default:
		return Still
	}
}

// Region is the sub-area of a cell a pointer occupies.
type Region int

const (
	RegionNone Region = iota
	RegionSwap
	RegionMerge
)

func (r Region) String() string {
	switch r {
	case RegionSwap:
		return "swap"
	case RegionMerge:
		return "merge"
	default:
		return "none"
	}
}

// Classify decides whether p sits in the merge or the swap region of cell.
// Forward travel tests the right half and the top half, backward travel the
// left half and the bottom half. A still pointer never merges.
func Classify(p f32.Point, cell image.Rectangle, dir Direction) Region {
	if cell.Empty() || !p.Round().In(cell) {
		return RegionNone
	}
	left, top := float32(cell.Min.X), float32(cell.Min.Y)
	right, bottom := float32(cell.Max.X-1), float32(cell.Max.Y-1)
	cx, cy := (left+right)/2, (top+bottom)/2

	switch dir {
	case Forward:
		if (p.X >= cx && p.X <= right) || (p.Y >= top && p.Y <= cy) {
			return RegionMerge
		}
	case Backward:
		if (p.X >= left && p.X <= cx) || (p.Y >= cy && p.Y <= bottom) {
			return RegionMerge
		}
	}
	return RegionSwap
}

// EdgeZone reports whether p lies in the left (-1) or right (+1) page-scroll
// band of bounds, or inside (0). The bands are margin pixels wide.
func EdgeZone(p f32.Point, bounds image.Rectangle, margin int) int {
	switch {
	case p.X < float32(bounds.Min.X+margin):
		return -1
	case p.X > float32(bounds.Max.X-margin):
		return 1
	default:
		return 0
	}
}
