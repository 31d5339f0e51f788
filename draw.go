package lookout

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// clipRegion is the visible area for drawing. Max bounds are exclusive.
type clipRegion struct {
	MinX, MinY, MaxX, MaxY int
}

func (c clipRegion) contains(x, y int) bool {
	return x >= c.MinX && x < c.MaxX && y >= c.MinY && y < c.MaxY
}

func (c clipRegion) intersect(x, y, w, h int) clipRegion {
	return clipRegion{
		MinX: max(c.MinX, x),
		MinY: max(c.MinY, y),
		MaxX: min(c.MaxX, x+w),
		MaxY: min(c.MaxY, y+h),
	}
}

// Border runes for single-line borders.
const (
	borderTopLeft     = '┌'
	borderTopRight    = '┐'
	borderBottomLeft  = '└'
	borderBottomRight = '┘'
	borderHorizontal  = '─'
	borderVertical    = '│'
)

// Image cell fills: withheld sources draw as pending.
const (
	imagePending = '░'
	imageLoaded  = '▓'
)

// Draw paints the document onto screen, clipped by overflow containers. It
// does not call Show.
func (d *Document) Draw(screen tcell.Screen) {
	d.mu.Lock()
	defer d.mu.Unlock()

	screen.Clear()
	if d.root == nil {
		return
	}
	d.layoutLocked()

	w, h := screen.Size()
	drawElement(screen, d.root, clipRegion{MaxX: w, MaxY: h})
}

func drawElement(screen tcell.Screen, el *Element, clip clipRegion) {
	g := el.geom
	switch el.tag {
	case TagText:
		x, y, _, _ := g.contentBox()
		drawText(screen, x, y, el.text, clip, tcell.StyleDefault)
		return
	case TagImg:
		drawImage(screen, el, clip)
	}

	if g.Border > 0 {
		drawBorder(screen, g, clip)
	}

	if el.overflow() != OverflowVisible {
		clip = clip.intersect(g.paddingBox())
	}
	for _, child := range el.children {
		drawElement(screen, child, clip)
	}
}

func drawText(screen tcell.Screen, x, y int, text string, clip clipRegion, style tcell.Style) {
	for i, line := range strings.Split(text, "\n") {
		cx := x
		for _, r := range line {
			if clip.contains(cx, y+i) {
				screen.SetContent(cx, y+i, r, nil, style)
			}
			cx += runewidth.RuneWidth(r)
		}
	}
}

// drawImage fills the content box and labels it with the active source and
// the sizes attribute.
func drawImage(screen tcell.Screen, el *Element, clip clipRegion) {
	x, y, w, h := el.geom.contentBox()
	src := el.attrs["src"]

	fill, style := imagePending, tcell.StyleDefault.Dim(true)
	if src != "" {
		fill, style = imageLoaded, tcell.StyleDefault
	}
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			if clip.contains(col, row) {
				screen.SetContent(col, row, fill, nil, style)
			}
		}
	}

	label := src
	if sizes := el.attrs["sizes"]; sizes != "" {
		label += " " + sizes
	}
	if label != "" && w > 0 {
		drawText(screen, x, y, runewidth.Truncate(label, w, "…"), clip.intersect(x, y, w, h), style.Reverse(true))
	}
}

func drawBorder(screen tcell.Screen, g geometry, clip clipRegion) {
	if g.Width < 2 || g.Height < 2 {
		return
	}
	left, top := g.X, g.Y
	right, bottom := g.X+g.Width-1, g.Y+g.Height-1

	set := func(x, y int, r rune) {
		if clip.contains(x, y) {
			screen.SetContent(x, y, r, nil, tcell.StyleDefault)
		}
	}
	for x := left + 1; x < right; x++ {
		set(x, top, borderHorizontal)
		set(x, bottom, borderHorizontal)
	}
	for y := top + 1; y < bottom; y++ {
		set(left, y, borderVertical)
		set(right, y, borderVertical)
	}
	set(left, top, borderTopLeft)
	set(right, top, borderTopRight)
	set(left, bottom, borderBottomLeft)
	set(right, bottom, borderBottomRight)
}
