package lookout

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// SprintDocument returns the element tree as a string for debugging.
func SprintDocument(d *Document) string {
	var sb strings.Builder
	FprintDocument(&sb, d)
	return sb.String()
}

// FprintDocument writes the element tree with its geometry and attributes.
func FprintDocument(w io.Writer, d *Document) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.root == nil {
		return
	}
	d.layoutLocked()
	fprintElement(w, d.root, 0)
}

func fprintElement(w io.Writer, el *Element, depth int) {
	indent := strings.Repeat("  ", depth)
	g := el.geom

	name := el.tag
	if el.id != "" {
		name += "#" + el.id
	}
	line := fmt.Sprintf("%s%s x=%d y=%d w=%d h=%d", indent, name, g.X, g.Y, g.Width, g.Height)
	if el.scrollX != 0 || el.scrollY != 0 {
		line += fmt.Sprintf(" scroll(%d,%d)", el.scrollX, el.scrollY)
	}
	if el.tag == TagText {
		line += fmt.Sprintf(" %q", el.text)
	}

	names := make([]string, 0, len(el.attrs))
	for name := range el.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		line += fmt.Sprintf(" %s=%q", name, el.attrs[name])
	}

	fmt.Fprintln(w, line)
	for _, child := range el.children {
		fprintElement(w, child, depth+1)
	}
}
