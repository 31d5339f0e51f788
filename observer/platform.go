package observer

import (
	"reflect"
	"time"
)

// Element is anything a Platform can observe.
//
// ID is the element's identity: stable for the lifetime of the element and
// never given to another element, including ones created after it is
// discarded. Registries key container identity on it. Elements are used as
// map keys, so implementations must be comparable (in practice, pointer
// types).
type Element interface {
	ID() string
}

// IsNil reports whether e is nil or a typed nil pointer.
func IsNil(e Element) bool {
	if e == nil {
		return true
	}
	v := reflect.ValueOf(e)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// Rect is an axis-aligned rectangle in document coordinates.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Top returns the top edge.
func (r Rect) Top() float64 { return r.Y }

// Right returns the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Left returns the left edge.
func (r Rect) Left() float64 { return r.X }

// Area returns Width*Height, or 0 for degenerate rects.
func (r Rect) Area() float64 {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return r.Width * r.Height
}

// Intersect returns the overlap of r and o. ok is true when the rects touch
// or overlap, which includes edge-adjacent rects producing a zero-area result.
func (r Rect) Intersect(o Rect) (Rect, bool) {
	left := max(r.Left(), o.Left())
	top := max(r.Top(), o.Top())
	right := min(r.Right(), o.Right())
	bottom := min(r.Bottom(), o.Bottom())
	if right < left || bottom < top {
		return Rect{}, false
	}
	return Rect{X: left, Y: top, Width: right - left, Height: bottom - top}, true
}

// IntersectionEntry reports how much of Target overlaps the observer root.
type IntersectionEntry struct {
	Target             Element
	Time               time.Time
	BoundingClientRect Rect
	IntersectionRect   Rect
	RootBounds         Rect
	IntersectionRatio  float64
	IsIntersecting     bool
}

// Box selects the box model a resize observer reports on.
type Box string

const (
	BorderBox             Box = "border-box"
	ContentBox            Box = "content-box"
	DevicePixelContentBox Box = "device-pixel-content-box"
)

// BoxSize is one fragment of an element box.
type BoxSize struct {
	InlineSize float64
	BlockSize  float64
}

// ResizeEntry reports the new dimensions of Target.
type ResizeEntry struct {
	Target                    Element
	ContentRect               Rect
	BorderBoxSize             []BoxSize
	ContentBoxSize            []BoxSize
	DevicePixelContentBoxSize []BoxSize
}

// Sizes returns the fragment list for box.
func (e ResizeEntry) Sizes(box Box) []BoxSize {
	switch box {
	case ContentBox:
		return e.ContentBoxSize
	case DevicePixelContentBox:
		return e.DevicePixelContentBoxSize
	default:
		return e.BorderBoxSize
	}
}

// NativeIntersectionInit configures a platform intersection observer.
type NativeIntersectionInit struct {
	// Root is the scoping container; nil means the whole document/viewport.
	Root       Element
	RootMargin string
	Thresholds []float64
}

// NativeIntersectionObserver is the platform intersection primitive.
type NativeIntersectionObserver interface {
	Observe(target Element)
	Unobserve(target Element)
	Disconnect()
}

// NativeResizeObserver is the platform resize primitive.
type NativeResizeObserver interface {
	Observe(target Element, box Box)
	Unobserve(target Element)
	Disconnect()
}

// Platform supplies the observation primitives and host geometry.
//
// Callbacks passed to the constructors are invoked on the platform's
// notification turn, one batch at a time, never concurrently with themselves.
type Platform interface {
	ViewportSize() (width, height float64)
	NewIntersectionObserver(callback func([]IntersectionEntry), init NativeIntersectionInit) NativeIntersectionObserver
	NewResizeObserver(callback func([]ResizeEntry)) NativeResizeObserver
}
