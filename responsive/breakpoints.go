// Package responsive implements image policies on top of shared observers:
// a monotonic breakpoint tracker that grows an image's displayed size as it
// crosses srcset width descriptors, and a deferred reveal that withholds an
// image's sources until it first intersects its root.
package responsive

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/germtb/lookout/observer"
)

// Attribute names the policies read and write.
const (
	AttrSrc    = "src"
	AttrSrcSet = "srcset"
	AttrSizes  = "sizes"
)

// Image is an observable element with string attributes and a rendered width.
type Image interface {
	observer.Element
	Width() float64
	Attr(name string) string
	SetAttr(name, value string)
}

var widthCandidate = regexp.MustCompile(`^\S+\s+(\d+)w$`)

// ParseBreakpoints extracts the width descriptors of a srcset as an
// ascending, de-duplicated list. Candidates with a density descriptor, no
// descriptor or more than one descriptor are dropped.
//
// Example:
//
//	ParseBreakpoints("a.png 640w, b.png 480w, c.png 1024w") // [480 640 1024]
//	ParseBreakpoints("a.png 1.5x, b.png 2x 640w, c.png 800w") // [800]
func ParseBreakpoints(srcSet string) []int {
	var out []int
	seen := make(map[int]struct{})
	for _, candidate := range strings.Split(srcSet, ",") {
		m := widthCandidate.FindStringSubmatch(strings.TrimSpace(candidate))
		if m == nil {
			continue
		}
		w, err := strconv.Atoi(m[1])
		if err != nil || w <= 0 {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	sort.Ints(out)
	return out
}

// FormatBreakpoints renders breakpoints as "[480, 640]".
func FormatBreakpoints(breakpoints []int) string {
	parts := make([]string, len(breakpoints))
	for i, b := range breakpoints {
		parts[i] = strconv.Itoa(b)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// BreakpointsAttr is the attribute name breakpoints are published under.
func BreakpointsAttr(name string) string {
	return "data-" + name
}

func formatPixels(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64) + "px"
}
