package lookout

import (
	"strconv"
	"strings"

	"github.com/germtb/gox"
	"github.com/mattn/go-runewidth"
)

// Direction specifies the main axis for flex layout.
type Direction string

const (
	Row    Direction = "row"
	Column Direction = "column"
)

// Align specifies alignment along the cross axis.
type Align string

const (
	AlignStart   Align = "start"
	AlignCenter  Align = "center"
	AlignEnd     Align = "end"
	AlignStretch Align = "stretch"
)

// Overflow specifies overflow behavior.
type Overflow string

const (
	OverflowVisible Overflow = "visible"
	OverflowHidden  Overflow = "hidden"
	OverflowScroll  Overflow = "scroll"
)

// Spacing represents padding or margin on all sides.
type Spacing struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// NormalizeSpacing converts various spacing inputs to a Spacing struct.
func NormalizeSpacing(value any) Spacing {
	switch v := value.(type) {
	case int:
		return Spacing{Top: v, Right: v, Bottom: v, Left: v}
	case float64:
		i := int(v)
		return Spacing{Top: i, Right: i, Bottom: i, Left: i}
	case string:
		i, _ := strconv.Atoi(strings.TrimSpace(v))
		return Spacing{Top: i, Right: i, Bottom: i, Left: i}
	case Spacing:
		return v
	case map[string]any:
		return Spacing{
			Top:    toInt(v["top"], 0),
			Right:  toInt(v["right"], 0),
			Bottom: toInt(v["bottom"], 0),
			Left:   toInt(v["left"], 0),
		}
	default:
		return Spacing{}
	}
}

// GetSpacing extracts spacing from props, supporting both base prop and directional overrides.
// For example, GetSpacing(props, "padding") reads "padding" and also
// "paddingTop", "paddingRight", "paddingBottom", "paddingLeft" as overrides.
func GetSpacing(props gox.Props, baseProp string) Spacing {
	spacing := NormalizeSpacing(props[baseProp])
	if v, ok := props[baseProp+"Top"]; ok {
		spacing.Top = toInt(v, 0)
	}
	if v, ok := props[baseProp+"Right"]; ok {
		spacing.Right = toInt(v, 0)
	}
	if v, ok := props[baseProp+"Bottom"]; ok {
		spacing.Bottom = toInt(v, 0)
	}
	if v, ok := props[baseProp+"Left"]; ok {
		spacing.Left = toInt(v, 0)
	}
	return spacing
}

// GetIntProp reads an integer prop, accepting ints, floats and numeric strings.
func GetIntProp(props gox.Props, key string, defaultVal int) int {
	if props == nil {
		return defaultVal
	}
	v, ok := props[key]
	if !ok {
		return defaultVal
	}
	return toInt(v, defaultVal)
}

func toInt(v any, defaultVal int) int {
	switch i := v.(type) {
	case int:
		return i
	case float64:
		return int(i)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(i)); err == nil {
			return n
		}
	}
	return defaultVal
}

func stringProp(props gox.Props, key, defaultVal string) string {
	if s, ok := props[key].(string); ok && s != "" {
		return s
	}
	return defaultVal
}

func getDirection(props gox.Props) Direction {
	return Direction(stringProp(props, "direction", string(Column)))
}

func getAlign(props gox.Props) Align {
	return Align(stringProp(props, "align", string(AlignStretch)))
}

func getOverflow(props gox.Props) Overflow {
	return Overflow(stringProp(props, "overflow", string(OverflowVisible)))
}

// borderSize is 1 for any border other than none.
func borderSize(props gox.Props) int {
	switch v := props["border"].(type) {
	case bool:
		if v {
			return 1
		}
	case string:
		if v != "" && v != "none" && v != "false" {
			return 1
		}
	}
	return 0
}

// geometry is the computed layout of an element in document cells.
type geometry struct {
	// Border box.
	X      int
	Y      int
	Width  int
	Height int

	Border  int
	Padding Spacing

	// Extent of the children along both axes, before scrolling.
	ContentWidth  int
	ContentHeight int
}

func (g geometry) paddingBox() (x, y, w, h int) {
	return g.X + g.Border, g.Y + g.Border, max(0, g.Width-2*g.Border), max(0, g.Height-2*g.Border)
}

func (g geometry) contentBox() (x, y, w, h int) {
	x, y, w, h = g.paddingBox()
	return x + g.Padding.Left, y + g.Padding.Top,
		max(0, w-g.Padding.Left-g.Padding.Right),
		max(0, h-g.Padding.Top-g.Padding.Bottom)
}

// layoutContext provides the available space for layout.
type layoutContext struct {
	X      int
	Y      int
	Width  int
	Height int
}

// textSize measures text by display cells, one row per line.
func textSize(text string) (width, height int) {
	lines := strings.Split(text, "\n")
	for _, line := range lines {
		width = max(width, runewidth.StringWidth(line))
	}
	return width, len(lines)
}

// measure returns the natural size of el before flex distribution.
func measure(el *Element) (width, height int) {
	if el.tag == TagText {
		w, h := textSize(el.text)
		pad := GetSpacing(el.props, "padding")
		return w + pad.Left + pad.Right, h + pad.Top + pad.Bottom
	}

	padding := GetSpacing(el.props, "padding")
	border := borderSize(el.props)
	direction := getDirection(el.props)
	gap := GetIntProp(el.props, "gap", 0)

	contentWidth, contentHeight := 0, 0
	for i, child := range el.children {
		w, h := measure(child)
		margin := GetSpacing(child.props, "margin")
		w += margin.Left + margin.Right
		h += margin.Top + margin.Bottom
		if direction == Row {
			contentWidth += w
			if i > 0 {
				contentWidth += gap
			}
			contentHeight = max(contentHeight, h)
		} else {
			contentHeight += h
			if i > 0 {
				contentHeight += gap
			}
			contentWidth = max(contentWidth, w)
		}
	}

	width = contentWidth + padding.Left + padding.Right + border*2
	height = contentHeight + padding.Top + padding.Bottom + border*2

	if w := GetIntProp(el.props, "width", -1); w >= 0 {
		width = w
	}
	if h := GetIntProp(el.props, "height", -1); h >= 0 {
		height = h
	}
	width = max(width, GetIntProp(el.props, "minWidth", 0))
	height = max(height, GetIntProp(el.props, "minHeight", 0))
	return width, height
}

// layout positions el and its subtree inside ctx. ctx includes el's margin.
func layout(el *Element, ctx layoutContext) {
	margin := GetSpacing(el.props, "margin")

	if el.tag == TagText {
		w, h := measure(el)
		el.geom = geometry{
			X:       ctx.X + margin.Left,
			Y:       ctx.Y + margin.Top,
			Width:   min(w, max(0, ctx.Width-margin.Left-margin.Right)),
			Height:  h,
			Padding: GetSpacing(el.props, "padding"),
		}
		return
	}

	measuredW, measuredH := measure(el)

	// Boxes fill the available space unless sized explicitly.
	width := GetIntProp(el.props, "width", -1)
	if width < 0 {
		width = ctx.Width - margin.Left - margin.Right
		if width < 0 {
			width = measuredW
		}
	}
	height := GetIntProp(el.props, "height", -1)
	if height < 0 {
		height = ctx.Height - margin.Top - margin.Bottom
		if height < 0 {
			height = measuredH
		}
	}

	el.geom = geometry{
		X:       ctx.X + margin.Left,
		Y:       ctx.Y + margin.Top,
		Width:   width,
		Height:  height,
		Border:  borderSize(el.props),
		Padding: GetSpacing(el.props, "padding"),
	}

	x, y, w, h := el.geom.contentBox()
	layoutChildren(el, layoutContext{X: x, Y: y, Width: w, Height: h})
}

func layoutChildren(el *Element, ctx layoutContext) {
	if len(el.children) == 0 {
		el.scrollX, el.scrollY = 0, 0
		return
	}

	isRow := getDirection(el.props) == Row
	align := getAlign(el.props)
	gap := GetIntProp(el.props, "gap", 0)
	scrolls := getOverflow(el.props) == OverflowScroll

	type measured struct {
		main, cross               int
		marginBefore, marginAfter int
		grow                      int
	}
	sizes := make([]measured, len(el.children))

	totalMain, maxCross := 0, 0
	totalGrow := 0
	for i, child := range el.children {
		w, h := measure(child)
		margin := GetSpacing(child.props, "margin")
		m := measured{grow: GetIntProp(child.props, "grow", 0)}
		if isRow {
			m.main, m.cross = w, h
			m.marginBefore, m.marginAfter = margin.Left, margin.Right
			if GetIntProp(child.props, "width", -1) >= 0 {
				m.grow = 0
			}
			maxCross = max(maxCross, h+margin.Top+margin.Bottom)
		} else {
			m.main, m.cross = h, w
			m.marginBefore, m.marginAfter = margin.Top, margin.Bottom
			if GetIntProp(child.props, "height", -1) >= 0 {
				m.grow = 0
			}
			maxCross = max(maxCross, w+margin.Left+margin.Right)
		}
		if scrolls {
			m.grow = 0
		}
		sizes[i] = m
		totalMain += m.marginBefore + m.main + m.marginAfter
		if i > 0 {
			totalMain += gap
		}
		totalGrow += m.grow
	}

	availableMain, availableCross := ctx.Width, ctx.Height
	if !isRow {
		availableMain, availableCross = ctx.Height, ctx.Width
	}

	// Distribute extra space to growing children, remainder one cell each.
	if totalGrow > 0 && availableMain > totalMain {
		extra := availableMain - totalMain
		remaining := extra
		for i := range sizes {
			if sizes[i].grow > 0 {
				share := extra * sizes[i].grow / totalGrow
				sizes[i].main += share
				remaining -= share
			}
		}
		for i := range sizes {
			if remaining <= 0 {
				break
			}
			if sizes[i].grow > 0 {
				sizes[i].main++
				remaining--
			}
		}
		totalMain = availableMain
	}

	if isRow {
		el.geom.ContentWidth, el.geom.ContentHeight = totalMain, max(maxCross, availableCross)
	} else {
		el.geom.ContentWidth, el.geom.ContentHeight = max(maxCross, availableCross), totalMain
	}

	originX, originY := ctx.X, ctx.Y
	if scrolls {
		el.scrollX = clamp(el.scrollX, 0, el.geom.ContentWidth-ctx.Width)
		el.scrollY = clamp(el.scrollY, 0, el.geom.ContentHeight-ctx.Height)
		originX -= el.scrollX
		originY -= el.scrollY
	} else {
		el.scrollX, el.scrollY = 0, 0
	}

	mainPos := 0
	for i, child := range el.children {
		m := sizes[i]
		margin := GetSpacing(child.props, "margin")

		crossPos, crossSize := 0, m.cross
		switch align {
		case AlignStart:
		case AlignCenter:
			crossPos = max(0, (availableCross-m.cross)/2)
		case AlignEnd:
			crossPos = max(0, availableCross-m.cross)
		default:
			crossSize = availableCross
			if isRow {
				crossSize -= margin.Top + margin.Bottom
			} else {
				crossSize -= margin.Left + margin.Right
			}
		}

		// The child context includes its margins; layout subtracts them.
		var childCtx layoutContext
		if isRow {
			childCtx = layoutContext{
				X:      originX + mainPos,
				Y:      originY + crossPos,
				Width:  m.main + margin.Left + margin.Right,
				Height: crossSize + margin.Top + margin.Bottom,
			}
		} else {
			childCtx = layoutContext{
				X:      originX + crossPos,
				Y:      originY + mainPos,
				Width:  crossSize + margin.Left + margin.Right,
				Height: m.main + margin.Top + margin.Bottom,
			}
		}
		layout(child, childCtx)

		mainPos += m.marginBefore + m.main + m.marginAfter + gap
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	return min(max(v, lo), hi)
}
