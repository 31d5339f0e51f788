// Package lookout is a terminal host document for observer pooling: an
// element tree mounted from gox nodes, laid out with a flexbox subset, that
// computes intersection and resize notifications from its own geometry.
//
// A Document implements observer.Platform, so a registry runs directly on it:
//
//	doc := lookout.NewDocument(lookout.ScreenViewport{Screen: screen})
//	doc.Mount(app())
//	reg := observer.NewRegistry(doc)
//	...
//	doc.Flush() // relayout and deliver pending entries
package lookout

import (
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/germtb/gox"
	"github.com/google/uuid"

	"github.com/germtb/lookout/observer"
)

// Option configures a Document.
type Option func(*documentConfig)

type documentConfig struct {
	logger *slog.Logger
}

// WithLogger sets the logger mounts, layout passes and deliveries are
// reported to at Debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *documentConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Document owns an element tree and the observers watching it.
//
// Mutations mark the document dirty; geometry is recomputed lazily and on
// Flush. Observer callbacks run from Flush, outside the document lock, and may
// mutate the document.
type Document struct {
	mu       sync.Mutex
	viewport Viewport
	logger   *slog.Logger

	root  *Element
	dirty bool
	// Viewport size used by the last layout pass.
	laidW, laidH int

	intersections []*intersectionObserver
	resizes       []*resizeObserver
}

var _ observer.Platform = (*Document)(nil)

// NewDocument creates an empty document sized by viewport.
func NewDocument(viewport Viewport, opts ...Option) *Document {
	cfg := documentConfig{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Document{
		viewport: viewport,
		logger:   cfg.logger,
		dirty:    true,
	}
}

// Mount replaces the document content with node and lays it out. Functional
// components are expanded first. Every element gets a fresh ID, so a
// remounted tree never shares identities with the one it replaced.
func (d *Document) Mount(node gox.VNode) *Element {
	d.mu.Lock()
	defer d.mu.Unlock()

	built := d.build(expand(node))
	switch len(built) {
	case 0:
		d.root = d.newElement(TagBox, nil)
	case 1:
		d.root = built[0]
	default:
		// Fragments at the top level get a wrapping box.
		d.root = d.newElement(TagBox, nil)
		d.adopt(d.root, built)
	}
	d.dirty = true
	d.layoutLocked()

	d.logger.Debug("lookout: mounted document", "root", d.root.uid)
	return d.root
}

// Root returns the mounted root element, or nil before Mount.
func (d *Document) Root() *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.root
}

// FindByID returns the mounted element with id, or nil.
func (d *Document) FindByID(id string) *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.root == nil {
		return nil
	}
	return d.root.findLocked(id)
}

// ViewportSize returns the viewport size in cells.
func (d *Document) ViewportSize() (width, height float64) {
	w, h := d.viewport.Size()
	return float64(w), float64(h)
}

// HandleEvent reacts to terminal events. It returns true for resize events,
// which schedule a relayout.
func (d *Document) HandleEvent(ev tcell.Event) bool {
	if _, ok := ev.(*tcell.EventResize); !ok {
		return false
	}
	d.mu.Lock()
	d.dirty = true
	d.mu.Unlock()
	return true
}

// Flush lays the document out if needed, then delivers pending resize
// entries followed by pending intersection entries, one batch per observer.
func (d *Document) Flush() {
	d.mu.Lock()
	d.layoutLocked()

	var deliveries []func()
	for _, o := range d.resizes {
		if entries := o.collectLocked(); len(entries) > 0 {
			cb := o.callback
			deliveries = append(deliveries, func() { cb(entries) })
		}
	}
	for _, o := range d.intersections {
		if entries := o.collectLocked(); len(entries) > 0 {
			cb := o.callback
			deliveries = append(deliveries, func() { cb(entries) })
		}
	}
	d.mu.Unlock()

	if len(deliveries) > 0 {
		d.logger.Debug("lookout: delivering batches", "batches", len(deliveries))
	}
	for _, deliver := range deliveries {
		deliver()
	}
}

func (d *Document) layoutLocked() {
	if d.root == nil {
		return
	}
	w, h := d.viewport.Size()
	if !d.dirty && w == d.laidW && h == d.laidH {
		return
	}
	layout(d.root, layoutContext{Width: w, Height: h})
	d.dirty = false
	d.laidW, d.laidH = w, h
	d.logger.Debug("lookout: layout", "width", w, "height", h)
}

func (d *Document) newElement(tag string, props gox.Props) *Element {
	el := &Element{
		doc:   d,
		tag:   tag,
		attrs: make(map[string]string),
		props: gox.Props{},
	}
	for k, v := range props {
		switch val := v.(type) {
		case string:
			el.attrs[k] = val
		case int:
			el.attrs[k] = strconv.Itoa(val)
		case float64:
			el.attrs[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			el.attrs[k] = strconv.FormatBool(val)
		}
		el.props[k] = v
	}
	el.uid = uuid.NewString()
	el.id = el.attrs["id"]
	delete(el.attrs, "id")
	return el
}

func (d *Document) adopt(parent *Element, children []*Element) {
	for _, child := range children {
		child.parent = parent
	}
	parent.children = append(parent.children, children...)
}

// build converts an expanded node into elements. Fragments flatten into
// their children.
func (d *Document) build(node gox.VNode) []*Element {
	if isTextNode(node) && len(node.Children) == 0 {
		el := d.newElement(TagText, nil)
		el.text = textContent(node)
		return []*Element{el}
	}

	typ, ok := node.Type.(string)
	if !ok {
		return nil
	}

	switch typ {
	case "fragment", gox.FragmentNodeType:
		var out []*Element
		for _, child := range node.Children {
			out = append(out, d.build(child)...)
		}
		return out
	case TagText:
		el := d.newElement(TagText, withoutChildren(node.Props))
		el.text = collectText(node)
		return []*Element{el}
	case TagBox, TagImg:
		el := d.newElement(typ, withoutChildren(node.Props))
		for _, child := range node.Children {
			d.adopt(el, d.build(child))
		}
		return []*Element{el}
	default:
		panic("lookout: unknown element type: " + typ)
	}
}
