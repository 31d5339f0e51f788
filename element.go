package lookout

import (
	"strconv"

	"github.com/germtb/gox"

	"github.com/germtb/lookout/observer"
)

// Intrinsic element tags.
const (
	TagBox  = "box"
	TagImg  = "img"
	TagText = "text"
)

// layoutAttrs are attributes that feed layout. Setting one marks the
// document for relayout.
var layoutAttrs = map[string]bool{
	"width": true, "height": true, "minWidth": true, "minHeight": true,
	"padding": true, "margin": true, "gap": true, "grow": true,
	"direction": true, "align": true, "overflow": true, "border": true,
}

// Element is a node of a mounted Document.
//
// Geometry accessors lay the document out first if it is dirty. The id
// attribute is fixed at mount and need not be unique; ID is a generated
// identity that no other element ever gets.
type Element struct {
	doc      *Document
	uid      string
	id       string
	tag      string
	text     string
	attrs    map[string]string
	props    gox.Props
	parent   *Element
	children []*Element

	geom             geometry
	scrollX, scrollY int
}

var _ observer.Element = (*Element)(nil)

// ID returns the element's generated identity. It differs from the id
// attribute, which FindByID searches.
func (e *Element) ID() string { return e.uid }

// Tag returns the intrinsic tag: box, img or text.
func (e *Element) Tag() string { return e.tag }

// Text returns the content of a text element.
func (e *Element) Text() string {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.text
}

// SetText replaces the content of a text element.
func (e *Element) SetText(text string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.text = text
	e.doc.dirty = true
}

// Attr returns the named attribute, or "" when unset.
func (e *Element) Attr(name string) string {
	if name == "id" {
		return e.id
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.attrs[name]
}

// HasAttr reports whether the named attribute is set.
func (e *Element) HasAttr(name string) bool {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	_, ok := e.attrs[name]
	return ok
}

// SetAttr sets the named attribute. Layout attributes take effect on the
// next layout pass. The id cannot be changed.
func (e *Element) SetAttr(name, value string) {
	if name == "id" {
		return
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	e.attrs[name] = value
	if layoutAttrs[name] {
		if n, err := strconv.Atoi(value); err == nil {
			e.props[name] = n
		} else {
			e.props[name] = value
		}
		e.doc.dirty = true
	}
}

// RemoveAttr deletes the named attribute.
func (e *Element) RemoveAttr(name string) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()

	delete(e.attrs, name)
	if layoutAttrs[name] {
		delete(e.props, name)
		e.doc.dirty = true
	}
}

// Parent returns the parent element, or nil for the root.
func (e *Element) Parent() *Element {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.parent
}

// Children returns a copy of the child list.
func (e *Element) Children() []*Element {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	out := make([]*Element, len(e.children))
	copy(out, e.children)
	return out
}

// Rect returns the border box in document coordinates, scroll applied.
func (e *Element) Rect() observer.Rect {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.doc.layoutLocked()
	return e.borderRect()
}

// Width returns the rendered border box width.
func (e *Element) Width() float64 {
	return e.Rect().Width
}

// ScrollTo scrolls an overflow: scroll element. Offsets are clamped to the
// content extent on layout.
func (e *Element) ScrollTo(x, y int) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.scrollX, e.scrollY = max(0, x), max(0, y)
	e.doc.dirty = true
}

// ScrollOffset returns the current scroll position.
func (e *Element) ScrollOffset() (x, y int) {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	e.doc.layoutLocked()
	return e.scrollX, e.scrollY
}

// FindByID searches e's subtree, e included.
func (e *Element) FindByID(id string) *Element {
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	return e.findLocked(id)
}

func (e *Element) findLocked(id string) *Element {
	if id != "" && e.id == id {
		return e
	}
	for _, child := range e.children {
		if found := child.findLocked(id); found != nil {
			return found
		}
	}
	return nil
}

func (e *Element) borderRect() observer.Rect {
	return toRect(e.geom.X, e.geom.Y, e.geom.Width, e.geom.Height)
}

func (e *Element) paddingRect() observer.Rect {
	return toRect(e.geom.paddingBox())
}

func (e *Element) overflow() Overflow {
	return getOverflow(e.props)
}

// isAncestor reports whether a is a strict ancestor of e.
func (e *Element) isAncestor(a *Element) bool {
	for p := e.parent; p != nil; p = p.parent {
		if p == a {
			return true
		}
	}
	return false
}

func toRect(x, y, w, h int) observer.Rect {
	return observer.Rect{X: float64(x), Y: float64(y), Width: float64(w), Height: float64(h)}
}
