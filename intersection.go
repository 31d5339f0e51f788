package lookout

import (
	"strconv"
	"strings"
	"time"

	"github.com/germtb/lookout/observer"
)

// notYetReported is the threshold state of a freshly observed target, so its
// first computation is always reported.
const notYetReported = -2

type marginLength struct {
	value   float64
	percent bool
}

// intersectionObserver computes intersection entries from layout geometry.
type intersectionObserver struct {
	doc        *Document
	callback   func([]observer.IntersectionEntry)
	root       *Element
	foreign    bool
	margin     [4]marginLength
	thresholds []float64

	targets []*Element
	state   map[*Element]int
}

// NewIntersectionObserver creates a native intersection observer. A root that
// is not an element of d never intersects anything.
func (d *Document) NewIntersectionObserver(callback func([]observer.IntersectionEntry), init observer.NativeIntersectionInit) observer.NativeIntersectionObserver {
	o := &intersectionObserver{
		doc:        d,
		callback:   callback,
		thresholds: append([]float64(nil), init.Thresholds...),
		state:      make(map[*Element]int),
	}
	if len(o.thresholds) == 0 {
		o.thresholds = []float64{0}
	}
	if !observer.IsNil(init.Root) {
		el, ok := init.Root.(*Element)
		o.root = el
		o.foreign = !ok || el.doc != d
	}
	vw, vh := d.ViewportSize()
	o.margin = parseRootMargin(init.RootMargin, vw, vh)

	d.mu.Lock()
	d.intersections = append(d.intersections, o)
	d.mu.Unlock()

	d.logger.Debug("lookout: native intersection observer",
		"margin", init.RootMargin,
		"thresholds", len(o.thresholds))
	return o
}

// Observe queues an initial entry for target on the next Flush.
func (o *intersectionObserver) Observe(target observer.Element) {
	el, ok := target.(*Element)
	if !ok || el == nil || el.doc != o.doc {
		return
	}
	o.doc.mu.Lock()
	defer o.doc.mu.Unlock()
	if _, ok := o.state[el]; ok {
		return
	}
	o.targets = append(o.targets, el)
	o.state[el] = notYetReported
}

func (o *intersectionObserver) Unobserve(target observer.Element) {
	el, ok := target.(*Element)
	if !ok {
		return
	}
	o.doc.mu.Lock()
	defer o.doc.mu.Unlock()
	if _, ok := o.state[el]; !ok {
		return
	}
	delete(o.state, el)
	for i, t := range o.targets {
		if t == el {
			o.targets = append(o.targets[:i], o.targets[i+1:]...)
			break
		}
	}
}

func (o *intersectionObserver) Disconnect() {
	o.doc.mu.Lock()
	defer o.doc.mu.Unlock()
	o.targets = nil
	o.state = make(map[*Element]int)
}

// collectLocked returns entries for every target whose threshold state
// changed since the last report.
func (o *intersectionObserver) collectLocked() []observer.IntersectionEntry {
	if len(o.targets) == 0 {
		return nil
	}

	now := time.Now()
	bounds, rootOK := o.rootBoundsLocked()

	var entries []observer.IntersectionEntry
	for _, target := range o.targets {
		entry := o.entryLocked(target, bounds, rootOK)
		entry.Time = now

		index := thresholdIndex(o.thresholds, entry.IntersectionRatio, entry.IsIntersecting)
		if index == o.state[target] {
			continue
		}
		o.state[target] = index
		entries = append(entries, entry)
	}
	return entries
}

// rootBoundsLocked is the root's padding box, or the viewport for the
// document root, grown by the root margin.
func (o *intersectionObserver) rootBoundsLocked() (observer.Rect, bool) {
	var r observer.Rect
	switch {
	case o.foreign:
		return observer.Rect{}, false
	case o.root == nil:
		w, h := o.doc.viewport.Size()
		r = toRect(0, 0, w, h)
	default:
		if !o.doc.attachedLocked(o.root) {
			return observer.Rect{}, false
		}
		r = o.root.paddingRect()
	}

	top := o.margin[0].resolve(r.Height)
	right := o.margin[1].resolve(r.Width)
	bottom := o.margin[2].resolve(r.Height)
	left := o.margin[3].resolve(r.Width)
	return observer.Rect{
		X:      r.X - left,
		Y:      r.Y - top,
		Width:  max(0, r.Width+left+right),
		Height: max(0, r.Height+top+bottom),
	}, true
}

func (o *intersectionObserver) entryLocked(target *Element, bounds observer.Rect, rootOK bool) observer.IntersectionEntry {
	rect := target.borderRect()
	entry := observer.IntersectionEntry{
		Target:             target,
		BoundingClientRect: rect,
		RootBounds:         bounds,
	}
	if !rootOK || !o.doc.attachedLocked(target) {
		return entry
	}
	if o.root != nil && !target.isAncestor(o.root) {
		return entry
	}

	// Clip by every overflow container between target and root.
	clipped, ok := rect, true
	for p := target.parent; p != nil && p != o.root; p = p.parent {
		if p.overflow() == OverflowVisible {
			continue
		}
		if clipped, ok = clipped.Intersect(p.paddingRect()); !ok {
			return entry
		}
	}

	inter, ok := clipped.Intersect(bounds)
	if !ok {
		return entry
	}

	entry.IntersectionRect = inter
	entry.IsIntersecting = true
	if area := rect.Area(); area > 0 {
		entry.IntersectionRatio = inter.Area() / area
	} else {
		entry.IntersectionRatio = 1
	}
	return entry
}

// attachedLocked reports whether el is part of the mounted tree.
func (d *Document) attachedLocked(el *Element) bool {
	if d.root == nil {
		return false
	}
	return el == d.root || el.isAncestor(d.root)
}

// thresholdIndex is the number of thresholds at or below ratio, or -1 when
// not intersecting.
func thresholdIndex(thresholds []float64, ratio float64, intersecting bool) int {
	if !intersecting {
		return -1
	}
	n := 0
	for _, t := range thresholds {
		if t <= ratio {
			n++
		}
	}
	return n
}

// parseRootMargin expands a 1 to 4 token margin to top, right, bottom, left.
// Unreadable tokens count as zero.
func parseRootMargin(margin string, vw, vh float64) [4]marginLength {
	var lengths []marginLength
	for _, tok := range strings.Fields(margin) {
		lengths = append(lengths, parseLength(tok, vw, vh))
	}
	switch len(lengths) {
	case 1:
		m := lengths[0]
		return [4]marginLength{m, m, m, m}
	case 2:
		return [4]marginLength{lengths[0], lengths[1], lengths[0], lengths[1]}
	case 3:
		return [4]marginLength{lengths[0], lengths[1], lengths[2], lengths[1]}
	case 4:
		return [4]marginLength{lengths[0], lengths[1], lengths[2], lengths[3]}
	default:
		return [4]marginLength{}
	}
}

func parseLength(tok string, vw, vh float64) marginLength {
	tok = strings.ToLower(tok)
	unit, scale := "", 1.0
	for _, u := range []string{"px", "%", "vh", "vw"} {
		if strings.HasSuffix(tok, u) {
			unit = u
			break
		}
	}
	switch unit {
	case "vh":
		scale = vh / 100
	case "vw":
		scale = vw / 100
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(tok, unit), 64)
	if err != nil {
		return marginLength{}
	}
	return marginLength{value: v * scale, percent: unit == "%"}
}

func (m marginLength) resolve(dimension float64) float64 {
	if m.percent {
		return m.value * dimension / 100
	}
	return m.value
}
