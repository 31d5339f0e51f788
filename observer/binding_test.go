package observer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/germtb/lookout/observer"
	"github.com/germtb/lookout/observer/observertest"
)

func recorder(calls *[]string, name string) observer.IntersectCallback {
	return func(observer.IntersectionEntry, *observer.IntersectionObserver) {
		*calls = append(*calls, name)
	}
}

func TestBindingSubscribesImmediately(t *testing.T) {
	reg, p := newRegistry(t)
	el := observertest.NewElement()

	var calls []string
	b := reg.BindIntersection(el, recorder(&calls, "A"), nil)

	require.True(t, b.Resolved())
	p.Intersections[0].Intersect(el, 1, true)
	require.Equal(t, []string{"A"}, calls)
}

func TestBindingStickyCallback(t *testing.T) {
	reg, p := newRegistry(t)
	el := observertest.NewElement()

	var calls []string
	b := reg.BindIntersection(el, recorder(&calls, "A"), nil)
	b.Update(el, recorder(&calls, "B"))

	p.Intersections[0].Intersect(el, 1, true)
	require.Equal(t, []string{"A"}, calls)

	other := observertest.NewElement()
	b.Update(other, recorder(&calls, "C"))
	p.Intersections[0].Intersect(other, 1, true)
	require.Equal(t, []string{"A", "A"}, calls, "retargeting keeps the first callback")
}

func TestBindingRebind(t *testing.T) {
	reg, p := newRegistry(t)
	native := p.Intersections[0]
	first, second := observertest.NewElement(), observertest.NewElement()

	var calls []string
	b := reg.BindIntersection(first, recorder(&calls, "A"), nil)
	b.Rebind(second)

	require.False(t, native.Observing(first))
	require.True(t, native.Observing(second))
	require.Equal(t, second, b.Target())

	native.Intersect(first, 1, true)
	native.Intersect(second, 1, true)
	require.Equal(t, []string{"A"}, calls)
}

func TestBindingRebindToNil(t *testing.T) {
	reg, p := newRegistry(t)
	native := p.Intersections[0]
	el := observertest.NewElement()

	var calls []string
	b := reg.BindIntersection(el, recorder(&calls, "A"), nil)
	b.Rebind(nil)

	require.False(t, native.Observing(el))
	require.Equal(t, []string{"observe:" + el.ID(), "unobserve:" + el.ID()}, native.Calls)

	b.Rebind(el)
	native.Intersect(el, 1, true)
	require.Equal(t, []string{"A"}, calls)
}

func TestBindingRebindSameTargetIsNoop(t *testing.T) {
	reg, p := newRegistry(t)
	el := observertest.NewElement()

	b := reg.BindIntersection(el, func(observer.IntersectionEntry, *observer.IntersectionObserver) {}, nil)
	b.Rebind(el)
	require.Equal(t, []string{"observe:" + el.ID()}, p.Intersections[0].Calls)
}

func TestBindingClose(t *testing.T) {
	reg, p := newRegistry(t)
	native := p.Intersections[0]
	el := observertest.NewElement()

	var calls []string
	b := reg.BindIntersection(el, recorder(&calls, "A"), nil)
	b.Close()
	b.Rebind(observertest.NewElement())

	require.False(t, native.Observing(el))
	require.Nil(t, b.Target())
	native.Intersect(el, 1, true)
	require.Empty(t, calls)
	require.Len(t, native.Calls, 2)
}

func TestBindingLaterConsumerSupersedes(t *testing.T) {
	reg, p := newRegistry(t)
	el := observertest.NewElement()

	var calls []string
	reg.BindIntersection(el, recorder(&calls, "first"), nil)
	reg.BindIntersection(el, recorder(&calls, "second"), &observer.IntersectionConfig{RootMargin: "0px 0px"})

	p.Intersections[0].Intersect(el, 1, true)
	require.Equal(t, []string{"second"}, calls)
}

func TestBindingWaitsForRoot(t *testing.T) {
	reg, p := newRegistry(t)
	ref := observer.NewRef(nil)
	el := observertest.NewElement()

	var calls []string
	b := reg.BindIntersection(el, recorder(&calls, "A"), &observer.IntersectionConfig{Root: ref})
	require.False(t, b.Resolved())
	require.False(t, b.Retry())
	require.Len(t, p.Intersections, 1)

	other := observertest.NewElement()
	b.Rebind(other)
	require.False(t, b.Resolved())

	container := observertest.NewElement()
	ref.Set(container)
	require.True(t, b.Resolved())
	require.Len(t, p.Intersections, 2)

	native := p.Intersections[1]
	require.Equal(t, container, native.Init.Root)
	require.False(t, native.Observing(el))
	require.True(t, native.Observing(other))

	native.Intersect(other, 1, true)
	require.Equal(t, []string{"A"}, calls)

	ref.Set(observertest.NewElement())
	require.Len(t, p.Intersections, 2, "a resolved binding keeps its observer")
}

func TestBindingConfigIsCopied(t *testing.T) {
	reg, p := newRegistry(t)
	ref := observer.NewRef(nil)
	cfg := &observer.IntersectionConfig{Root: ref, RootMargin: "5px"}
	el := observertest.NewElement()

	reg.BindIntersection(el, func(observer.IntersectionEntry, *observer.IntersectionObserver) {}, cfg)
	cfg.RootMargin = "50px"
	ref.Set(observertest.NewElement())

	require.Equal(t, "5px", p.Intersections[len(p.Intersections)-1].Init.RootMargin)
}

func TestBindingClosedBeforeRootResolves(t *testing.T) {
	reg, p := newRegistry(t)
	ref := observer.NewRef(nil)

	b := reg.BindIntersection(observertest.NewElement(), func(observer.IntersectionEntry, *observer.IntersectionObserver) {}, &observer.IntersectionConfig{Root: ref})
	b.Close()
	ref.Set(observertest.NewElement())

	require.False(t, b.Resolved())
	require.Len(t, p.Intersections, 1)
}

func TestBindResize(t *testing.T) {
	reg, p := newRegistry(t)
	el := observertest.NewElement()

	var widths []float64
	b := reg.BindResize(el, func(e observer.ResizeEntry, _ *observer.ResizeObserver) {
		widths = append(widths, e.BorderBoxSize[0].InlineSize)
	}, "")

	p.Resizes[0].Resize(el, 40)
	b.Close()
	p.Resizes[0].Resize(el, 80)

	require.Equal(t, []float64{40}, widths)
}
