package geom

import "image"

// Mode selects the column/row arrangement of a page.
type Mode int

const (
	// ModeFullscreen is the main grid in fullscreen: 7 columns by 4 rows.
	ModeFullscreen Mode = iota
	// ModeSearch shows search results on a single 7 column row.
	ModeSearch
	// ModeWindowed is the compact window: 4 columns by 2 rows.
	ModeWindowed
	// ModeFolder is the folder popup: 4 columns by 3 rows.
	ModeFolder
)

func (m Mode) String() string {
	switch m {
	case ModeSearch:
		return "search"
	case ModeWindowed:
		return "windowed"
	case ModeFolder:
		return "folder"
	default:
		return "fullscreen"
	}
}

// Dims returns columns and rows for the mode.
func (m Mode) Dims() (cols, rows int) {
	switch m {
	case ModeSearch:
		return 7, 1
	case ModeWindowed:
		return 4, 2
	case ModeFolder:
		return 4, 3
	default:
		return 7, 4
	}
}

// IconRatio is the icon edge relative to the item edge.
const IconRatio = 0.5

const minMargin = 5

// Metrics is the outcome of laying out a container for one mode.
type Metrics struct {
	Mode       Mode
	Cols       int
	Rows       int
	ItemSize   int
	Spacing    int
	MarginLeft int
	MarginTop  int
	IconSize   int
	FontSize   int
}

// CalculateLayout sizes square items so that Cols x Rows of them fit in
// container. Items take four fifths of their share, the remainder becomes
// spacing, and the leftover space is split evenly into margins.
func CalculateLayout(container image.Point, mode Mode) Metrics {
	cols, rows := mode.Dims()
	return CalculateGrid(container, mode, cols, rows)
}

// CalculateGrid is CalculateLayout with explicit dimensions. The mode still
// decides how margins and spacing are distributed.
func CalculateGrid(container image.Point, mode Mode, cols, rows int) Metrics {
	if cols <= 0 || rows <= 0 {
		cols, rows = mode.Dims()
	}
	m := Metrics{Mode: mode, Cols: cols, Rows: rows, MarginLeft: minMargin, MarginTop: minMargin}

	perW := (container.X - minMargin*2) / cols
	perH := (container.Y - minMargin) / rows
	per := min(perW, perH)
	if per <= 0 {
		return m
	}

	m.ItemSize = per * 4 / 5
	m.Spacing = (per - m.ItemSize) / 2
	m.IconSize = int(float64(m.ItemSize) * IconRatio)

	switch mode {
	case ModeFullscreen, ModeSearch:
		// Spacing surrounds every item on both sides.
		m.MarginLeft = (container.X-m.ItemSize*cols-m.Spacing*cols*2)/2 - 1
		m.MarginTop = (container.Y - m.ItemSize*rows - m.Spacing*rows*2) / 2
	default:
		m.MarginLeft = (container.X - m.ItemSize*cols - m.Spacing*(cols-1)) / 2
		m.MarginTop = (container.Y - m.ItemSize*rows - m.Spacing*(rows-1)) / 2
	}
	m.MarginLeft = max(m.MarginLeft, 0)
	m.MarginTop = max(m.MarginTop, 0)

	m.FontSize = 11
	if m.ItemSize <= 80 {
		m.FontSize = 8
	}
	return m
}

// Grid places the metrics at origin, the top-left corner of the container.
func (m Metrics) Grid(origin image.Point) Grid {
	g := Grid{
		Cols:    m.Cols,
		Rows:    m.Rows,
		Cell:    image.Pt(m.ItemSize, m.ItemSize),
		Spacing: m.Spacing,
		Origin:  origin.Add(image.Pt(m.MarginLeft, m.MarginTop)),
	}
	if m.Mode == ModeFullscreen || m.Mode == ModeSearch {
		g.Spacing = m.Spacing * 2
		g.Origin = g.Origin.Add(image.Pt(m.Spacing, m.Spacing))
	}
	return g
}

// IconPoint is the icon size as a point.
func (m Metrics) IconPoint() image.Point {
	return image.Pt(m.IconSize, m.IconSize)
}
