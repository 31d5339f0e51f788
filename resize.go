package lookout

import (
	"github.com/germtb/lookout/observer"
)

type resizeTarget struct {
	box  observer.Box
	last observer.BoxSize
}

// resizeObserver reports element size changes found on Flush.
type resizeObserver struct {
	doc      *Document
	callback func([]observer.ResizeEntry)

	targets []*Element
	state   map[*Element]*resizeTarget
}

// NewResizeObserver creates a native resize observer.
func (d *Document) NewResizeObserver(callback func([]observer.ResizeEntry)) observer.NativeResizeObserver {
	o := &resizeObserver{
		doc:      d,
		callback: callback,
		state:    make(map[*Element]*resizeTarget),
	}
	d.mu.Lock()
	d.resizes = append(d.resizes, o)
	d.mu.Unlock()
	return o
}

// Observe starts watching target's box. The last reported size starts at
// 0x0, so any rendered element is reported on the next Flush.
func (o *resizeObserver) Observe(target observer.Element, box observer.Box) {
	el, ok := target.(*Element)
	if !ok || el == nil || el.doc != o.doc {
		return
	}
	o.doc.mu.Lock()
	defer o.doc.mu.Unlock()
	if t, ok := o.state[el]; ok {
		t.box = observer.CanonicalBox(box)
		return
	}
	o.targets = append(o.targets, el)
	o.state[el] = &resizeTarget{box: observer.CanonicalBox(box)}
}

func (o *resizeObserver) Unobserve(target observer.Element) {
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

func (o *resizeObserver) Disconnect() {
	o.doc.mu.Lock()
	defer o.doc.mu.Unlock()
	o.targets = nil
	o.state = make(map[*Element]*resizeTarget)
}

func (o *resizeObserver) collectLocked() []observer.ResizeEntry {
	var entries []observer.ResizeEntry
	for _, el := range o.targets {
		t := o.state[el]
		if !o.doc.attachedLocked(el) {
			continue
		}

		entry := resizeEntry(el)
		size := entry.Sizes(t.box)[0]
		if size == t.last {
			continue
		}
		t.last = size
		entries = append(entries, entry)
	}
	return entries
}

// resizeEntry describes el's current boxes. Device pixels are cells, so the
// device-pixel content box equals the content box.
func resizeEntry(el *Element) observer.ResizeEntry {
	g := el.geom
	_, _, cw, ch := g.contentBox()
	content := []observer.BoxSize{{InlineSize: float64(cw), BlockSize: float64(ch)}}
	return observer.ResizeEntry{
		Target: el,
		ContentRect: observer.Rect{
			X:      float64(g.Padding.Left),
			Y:      float64(g.Padding.Top),
			Width:  float64(cw),
			Height: float64(ch),
		},
		BorderBoxSize:             []observer.BoxSize{{InlineSize: float64(g.Width), BlockSize: float64(g.Height)}},
		ContentBoxSize:            content,
		DevicePixelContentBoxSize: content,
	}
}
