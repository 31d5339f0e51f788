package hooks_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/germtb/lookout/hooks"
	"github.com/germtb/lookout/observer"
	"github.com/germtb/lookout/observer/observertest"
	"github.com/germtb/lookout/responsive"
	"github.com/germtb/lookout/signals"
)

func setup(t *testing.T) (*observer.Registry, *observertest.Platform) {
	t.Helper()
	signals.Reset()
	p := observertest.NewPlatform(1000, 800)
	return observer.NewRegistry(p), p
}

func TestUseIntersectionObserverFollowsTarget(t *testing.T) {
	reg, p := setup(t)
	a, b := observertest.NewElement(), observertest.NewElement()
	native := p.Intersections[0]

	var seen []string
	dispose := signals.CreateRoot(func(dispose signals.DisposeFunc) signals.DisposeFunc {
		target, setTarget := signals.CreateSignal[observer.Element](a)
		hooks.UseIntersectionObserver(reg, target, func(e observer.IntersectionEntry, _ *observer.IntersectionObserver) {
			seen = append(seen, e.Target.ID())
		}, nil)

		require.True(t, native.Observing(a))
		setTarget(b)
		require.False(t, native.Observing(a))
		require.True(t, native.Observing(b))

		native.Intersect(b, 1, true)
		setTarget(nil)
		require.False(t, native.Observing(b))
		return dispose
	})
	dispose()

	require.Equal(t, []string{b.ID()}, seen)
}

func TestUseIntersectionObserverDisposeUnobserves(t *testing.T) {
	reg, p := setup(t)
	el := observertest.NewElement()
	native := p.Intersections[0]

	dispose := signals.CreateRoot(func(dispose signals.DisposeFunc) signals.DisposeFunc {
		target, _ := signals.CreateSignal[observer.Element](el)
		hooks.UseIntersectionObserver(reg, target, func(observer.IntersectionEntry, *observer.IntersectionObserver) {}, nil)
		return dispose
	})
	require.True(t, native.Observing(el))

	dispose()
	require.False(t, native.Observing(el))
}

func TestUseIntersection(t *testing.T) {
	reg, p := setup(t)
	el := observertest.NewElement()

	var entry signals.Accessor[*observer.IntersectionEntry]
	signals.CreateRoot(func(signals.DisposeFunc) struct{} {
		target, _ := signals.CreateSignal[observer.Element](el)
		entry = hooks.UseIntersection(reg, target, &observer.IntersectionConfig{RootMargin: "10px"})
		return struct{}{}
	})

	require.Nil(t, entry())
	require.Len(t, p.Intersections, 2)
	p.Intersections[1].Intersect(el, 0.25, true)

	got := entry()
	require.NotNil(t, got)
	require.Equal(t, 0.25, got.IntersectionRatio)
	require.True(t, got.IsIntersecting)
}

func TestUseResizeSumsFragments(t *testing.T) {
	reg, p := setup(t)
	el := observertest.NewElement()

	var size signals.Accessor[*hooks.Size]
	signals.CreateRoot(func(signals.DisposeFunc) struct{} {
		target, _ := signals.CreateSignal[observer.Element](el)
		size = hooks.UseResize(reg, target, observer.ContentBox)
		return struct{}{}
	})

	require.Nil(t, size())
	require.Len(t, p.Resizes, 2)
	p.Resizes[1].Deliver(observer.ResizeEntry{
		Target:         el,
		BorderBoxSize:  []observer.BoxSize{{InlineSize: 99, BlockSize: 99}},
		ContentBoxSize: []observer.BoxSize{{InlineSize: 10, BlockSize: 4}, {InlineSize: 5, BlockSize: 2}},
	})

	require.Equal(t, &hooks.Size{Width: 15, Height: 6}, size())
}

func TestUseResizeObserverDefaultsToBorderBox(t *testing.T) {
	reg, p := setup(t)
	el := observertest.NewElement()

	var widths []float64
	signals.CreateRoot(func(signals.DisposeFunc) struct{} {
		target, _ := signals.CreateSignal[observer.Element](el)
		hooks.UseResizeObserver(reg, target, func(e observer.ResizeEntry, _ *observer.ResizeObserver) {
			widths = append(widths, e.ContentRect.Width)
		}, "")
		return struct{}{}
	})

	require.Len(t, p.Resizes, 1)
	p.Resizes[0].Resize(el, 320)
	require.Equal(t, []float64{320}, widths)
}

func TestUseImageResizeRestartsOnSrcSetChange(t *testing.T) {
	reg, p := setup(t)
	img := observertest.NewImage("a.jpg", "")
	img.SetWidth(100)

	var toggles []bool
	var setSrcSet signals.Setter[string]
	var tracker *responsive.Tracker
	dispose := signals.CreateRoot(func(dispose signals.DisposeFunc) signals.DisposeFunc {
		target, _ := signals.CreateSignal[responsive.Image](img)
		var srcSet signals.Accessor[string]
		srcSet, setSrcSet = signals.CreateSignal("a-240.jpg 240w")
		tracker = hooks.UseImageResize(reg, target, srcSet, responsive.TrackerOptions{
			OnResizeToggle: func(on bool) { toggles = append(toggles, on) },
		})
		return dispose
	})

	require.False(t, tracker.Observing())
	setSrcSet("a-240.jpg 240w, a-480.jpg 480w, a-640.jpg 640w")
	require.True(t, tracker.Observing())
	require.Equal(t, []int{240, 480, 640}, tracker.Breakpoints())

	p.Resizes[0].Resize(img, 300)
	require.Equal(t, "300px", img.Attr(responsive.AttrSizes))

	dispose()
	require.False(t, tracker.Observing())
	require.Equal(t, []bool{true, false}, toggles)
}

func TestUseImageRevealFollowsTarget(t *testing.T) {
	reg, p := setup(t)
	first := observertest.NewImage("one.jpg", "one-480.jpg 480w")
	second := observertest.NewImage("two.jpg", "")
	native := p.Intersections[0]

	var setTarget signals.Setter[responsive.Image]
	signals.CreateRoot(func(signals.DisposeFunc) struct{} {
		var target signals.Accessor[responsive.Image]
		target, setTarget = signals.CreateSignal[responsive.Image](first)
		hooks.UseImageReveal(reg, target, responsive.RevealOptions{})
		return struct{}{}
	})

	require.Empty(t, first.Attr(responsive.AttrSrc))
	setTarget(second)
	require.Empty(t, second.Attr(responsive.AttrSrc))
	require.False(t, native.Observing(first))

	native.Intersect(second, 1, true)
	require.Equal(t, "two.jpg", second.Attr(responsive.AttrSrc))
	require.False(t, native.Observing(second))
}
