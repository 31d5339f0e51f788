package observer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ZeroMargin is the canonical empty root margin.
const ZeroMargin = "0px"

// MarginOptions controls ResolveRootMargin.
type MarginOptions struct {
	// ViewportUnitsToPixels replaces vh/vw tokens with pixels computed from
	// ViewportWidth and ViewportHeight.
	ViewportUnitsToPixels bool
	// Simplify truncates decimals, maps zero-like and malformed tokens to
	// "0px" and applies CSS shorthand reduction.
	Simplify bool

	ViewportWidth  float64
	ViewportHeight float64
}

var (
	viewportToken = regexp.MustCompile(`^(-?\d+\.?\d*)(vh|vw)$`)
	lengthToken   = regexp.MustCompile(`^(-?)(\d+)(?:\.\d*)?(px|%|vh|vw)$`)
)

// ResolveRootMargin rewrites a CSS margin-like list of 1 to 4 length tokens.
// An empty spec resolves to "0px". It never fails: with Simplify set, every
// token it cannot read becomes "0px", and so does a list of more than four
// tokens.
//
// Example:
//
//	ResolveRootMargin("10px 10% 10px 10%", MarginOptions{Simplify: true}) // "10px 10%"
//	ResolveRootMargin("-0.9px", MarginOptions{Simplify: true})            // "0px"
func ResolveRootMargin(spec string, opts MarginOptions) string {
	tokens := strings.Fields(spec)
	if len(tokens) == 0 {
		return ZeroMargin
	}

	if opts.ViewportUnitsToPixels {
		for i, tok := range tokens {
			tokens[i] = viewportToPixels(tok, opts.ViewportWidth, opts.ViewportHeight)
		}
	}

	if opts.Simplify {
		if len(tokens) > 4 {
			return ZeroMargin
		}
		for i, tok := range tokens {
			tokens[i] = simplifyLength(tok)
		}
		tokens = collapseShorthand(tokens)
	}

	return strings.Join(tokens, " ")
}

// CanonicalMargin is ResolveRootMargin with viewport conversion and
// simplification both on. The result is stable under reapplication.
func CanonicalMargin(spec string, viewportWidth, viewportHeight float64) string {
	return ResolveRootMargin(spec, MarginOptions{
		ViewportUnitsToPixels: true,
		Simplify:              true,
		ViewportWidth:         viewportWidth,
		ViewportHeight:        viewportHeight,
	})
}

func viewportToPixels(tok string, vw, vh float64) string {
	m := viewportToken.FindStringSubmatch(tok)
	if m == nil {
		return tok
	}
	size, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return tok
	}
	viewport := vw
	if m[2] == "vh" {
		viewport = vh
	}
	return formatNumber(size*viewport/100) + "px"
}

func simplifyLength(tok string) string {
	m := lengthToken.FindStringSubmatch(strings.ToLower(tok))
	if m == nil {
		return ZeroMargin
	}
	digits := strings.TrimLeft(m[2], "0")
	if digits == "" {
		return ZeroMargin
	}
	return m[1] + digits + m[3]
}

// collapseShorthand reduces top/right/bottom/left lists to their shortest
// equivalent CSS form.
func collapseShorthand(m []string) []string {
	switch len(m) {
	case 4:
		if m[1] == m[3] {
			if m[0] == m[2] {
				m = m[:2]
			} else {
				m = m[:3]
			}
		}
	case 3:
		if m[0] == m[2] {
			m = m[:2]
		}
	}
	if len(m) == 2 && m[0] == m[1] {
		m = m[:1]
	}
	return m
}

// CanonicalThreshold clamps every ratio into [0, 1] and maps nil or empty
// input to the single threshold 0. Order is preserved.
func CanonicalThreshold(threshold []float64) []float64 {
	if len(threshold) == 0 {
		return []float64{0}
	}
	out := make([]float64, len(threshold))
	for i, t := range threshold {
		switch {
		case math.IsNaN(t) || t <= 0:
			out[i] = 0
		case t > 1:
			out[i] = 1
		default:
			out[i] = t
		}
	}
	return out
}

// ThresholdKey renders a threshold the way it appears in a canonical key:
// a bare number for a single ratio, a bracketed list otherwise.
func ThresholdKey(threshold []float64) string {
	t := CanonicalThreshold(threshold)
	if len(t) == 1 {
		return formatNumber(t[0])
	}
	parts := make([]string, len(t))
	for i, v := range t {
		parts[i] = formatNumber(v)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
