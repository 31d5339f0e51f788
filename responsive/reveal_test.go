package responsive_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/germtb/lookout/observer"
	"github.com/germtb/lookout/observer/observertest"
	"github.com/germtb/lookout/responsive"
)

func TestRevealBlanksUntilIntersecting(t *testing.T) {
	p := observertest.NewPlatform(1000, 800)
	reg := observer.NewRegistry(p)
	img := observertest.NewImage("cat.png", "cat-480.png 480w, cat-640.png 640w")

	var seen []float64
	r := responsive.DeferUntilVisible(reg, img, responsive.RevealOptions{
		OnIntersect: func(e observer.IntersectionEntry, _ *observer.IntersectionObserver) {
			seen = append(seen, e.IntersectionRatio)
		},
	})

	require.Equal(t, "", img.Attr("src"))
	require.Equal(t, "", img.Attr("srcset"))
	require.False(t, r.Revealed())

	native := p.Intersections[0]
	native.Intersect(img, 0, false)
	require.Equal(t, "", img.Attr("src"), "observed but not intersecting")

	native.Intersect(img, 0.1, true)
	require.Equal(t, "cat.png", img.Attr("src"))
	require.Equal(t, "cat-480.png 480w, cat-640.png 640w", img.Attr("srcset"))
	require.True(t, r.Revealed())
	require.False(t, native.Observing(img))

	native.Intersect(img, 1, true)
	require.Equal(t, []float64{0, 0.1}, seen, "no callbacks after the reveal")
}

func TestRevealUpdateBeforeIntersection(t *testing.T) {
	p := observertest.NewPlatform(1000, 800)
	reg := observer.NewRegistry(p)
	native := p.Intersections[0]

	first := observertest.NewImage("a.png", "")
	r := responsive.DeferUntilVisible(reg, first, responsive.RevealOptions{})

	second := observertest.NewImage("b.png", "b.png 100w")
	r.Update(second)
	require.False(t, native.Observing(first))
	require.True(t, native.Observing(second))
	require.Equal(t, "", second.Attr("src"))

	native.Intersect(second, 1, true)
	require.Equal(t, "b.png", second.Attr("src"))
	require.Equal(t, "b.png 100w", second.Attr("srcset"))
	require.Equal(t, "", first.Attr("src"), "the abandoned target stays blank")
}

func TestRevealUpdateSameTarget(t *testing.T) {
	p := observertest.NewPlatform(1000, 800)
	reg := observer.NewRegistry(p)
	native := p.Intersections[0]
	img := observertest.NewImage("a.png", "")

	r := responsive.DeferUntilVisible(reg, img, responsive.RevealOptions{})
	r.Update(img)
	require.True(t, native.Observing(img))

	native.Intersect(img, 1, true)
	require.Equal(t, "a.png", img.Attr("src"), "re-arming keeps the captured source")

	r.Update(img)
	require.False(t, native.Observing(img), "same target and source is not re-armed")

	img.SetAttr("src", "b.png")
	r.Update(img)
	require.Equal(t, "", img.Attr("src"))
	require.True(t, native.Observing(img))
	native.Intersect(img, 1, true)
	require.Equal(t, "b.png", img.Attr("src"))
}

func TestRevealWaitsForRoot(t *testing.T) {
	p := observertest.NewPlatform(1000, 800)
	reg := observer.NewRegistry(p)
	ref := observer.NewRef(nil)
	img := observertest.NewImage("a.png", "")

	r := responsive.DeferUntilVisible(reg, img, responsive.RevealOptions{
		Config: &observer.IntersectionConfig{Root: ref},
	})
	require.False(t, r.Resolved())
	require.Equal(t, "", img.Attr("src"))

	ref.Set(observertest.NewElement())
	require.True(t, r.Resolved())

	native := p.Intersections[len(p.Intersections)-1]
	native.Intersect(img, 1, true)
	require.Equal(t, "a.png", img.Attr("src"))
}

func TestRevealClose(t *testing.T) {
	p := observertest.NewPlatform(1000, 800)
	reg := observer.NewRegistry(p)
	img := observertest.NewImage("a.png", "")

	r := responsive.DeferUntilVisible(reg, img, responsive.RevealOptions{})
	r.Close()
	p.Intersections[0].Intersect(img, 1, true)
	require.Equal(t, "", img.Attr("src"))
	require.False(t, r.Revealed())
}

// Observe with margin "200px" and thresholds [0, 0.5, 1], reuse the handle
// for "200px 200px", reveal on a 0.6 entry, then ignore a second entry.
func TestRevealEndToEnd(t *testing.T) {
	p := observertest.NewPlatform(1000, 800)
	reg := observer.NewRegistry(p)
	cfg := &observer.IntersectionConfig{RootMargin: "200px", Threshold: []float64{0, 0.5, 1}}

	first, ok := reg.Intersection(cfg)
	require.True(t, ok)
	second, ok := reg.Intersection(&observer.IntersectionConfig{RootMargin: "200px 200px", Threshold: []float64{0, 0.5, 1}})
	require.True(t, ok)
	require.Same(t, first, second)

	img := observertest.NewImage("e.png", "e-320.png 320w")
	calls := 0
	r := responsive.DeferUntilVisible(reg, img, responsive.RevealOptions{
		Config:      cfg,
		OnIntersect: func(observer.IntersectionEntry, *observer.IntersectionObserver) { calls++ },
	})
	require.Equal(t, []observer.Element{img}, first.Targets())
	require.Equal(t, "", img.Attr("src"))

	native := p.Intersections[len(p.Intersections)-1]
	require.Equal(t, "200px", native.Init.RootMargin)

	native.Intersect(img, 0.6, true)
	require.True(t, r.Revealed())
	require.Equal(t, "e.png", img.Attr("src"))
	require.Equal(t, "e-320.png 320w", img.Attr("srcset"))
	require.Empty(t, first.Targets())

	img.SetAttr("src", "tampered.png")
	native.Intersect(img, 1, true)
	require.Equal(t, 1, calls)
	require.Equal(t, "tampered.png", img.Attr("src"))
}
