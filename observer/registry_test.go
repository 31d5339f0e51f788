package observer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally/v4"

	"github.com/germtb/lookout/observer"
	"github.com/germtb/lookout/observer/observertest"
)

func newRegistry(t *testing.T) (*observer.Registry, *observertest.Platform) {
	t.Helper()
	p := observertest.NewPlatform(1000, 800)
	return observer.NewRegistry(p), p
}

func mustIntersection(t *testing.T, reg *observer.Registry, cfg *observer.IntersectionConfig) *observer.IntersectionObserver {
	t.Helper()
	obs, ok := reg.Intersection(cfg)
	require.True(t, ok)
	require.NotNil(t, obs)
	return obs
}

func TestRegistryDefaultIsShared(t *testing.T) {
	reg, p := newRegistry(t)
	def := mustIntersection(t, reg, nil)

	equivalent := []*observer.IntersectionConfig{
		{},
		{RootMargin: "0px 0%"},
		{RootMargin: " 0px "},
		{RootMargin: ""},
		{RootMargin: ".0px"},
		{RootMargin: "0.9px"},
		{RootMargin: "any invalid rootMargin"},
		{Threshold: []float64{0}},
		{Threshold: []float64{}},
		{Root: observer.DocumentRoot},
		{Root: observer.RootElement(nil)},
		{Root: observer.DocumentRoot, RootMargin: "0px 0% 0px", Threshold: []float64{0}},
	}
	for _, cfg := range equivalent {
		require.Same(t, def, mustIntersection(t, reg, cfg), "config %+v", *cfg)
	}

	require.Len(t, p.Intersections, 1, "only the pre-seeded native observer exists")
	require.Equal(t, 1, reg.Stats().Intersection)
	require.Equal(t, "1::0px::0", def.Key())
}

func TestRegistryDistinctConfigurations(t *testing.T) {
	reg, _ := newRegistry(t)
	def := mustIntersection(t, reg, nil)

	container := observertest.NewElement()
	withRoot := mustIntersection(t, reg, &observer.IntersectionConfig{Root: observer.RootElement(container)})
	withMargin := mustIntersection(t, reg, &observer.IntersectionConfig{RootMargin: "10px"})
	withThreshold := mustIntersection(t, reg, &observer.IntersectionConfig{Threshold: []float64{0.5}})

	require.NotSame(t, def, withRoot)
	require.NotSame(t, def, withMargin)
	require.NotSame(t, def, withThreshold)
	require.NotSame(t, withRoot, withMargin)

	require.Same(t, withMargin, mustIntersection(t, reg, &observer.IntersectionConfig{RootMargin: "10px 10px 10px 10px"}))
	require.Same(t, withMargin, mustIntersection(t, reg, &observer.IntersectionConfig{RootMargin: "10.7px"}))
	require.Same(t, withRoot, mustIntersection(t, reg, &observer.IntersectionConfig{Root: observer.RootElement(container), RootMargin: "0px"}))
	require.Equal(t, 4, reg.Stats().Intersection)
}

func TestRegistryRootIdentityIsPerContainer(t *testing.T) {
	reg, _ := newRegistry(t)
	a := observertest.NewElement()
	b := observertest.NewElement()

	keyA, ok := reg.Key(&observer.IntersectionConfig{Root: observer.RootElement(a)})
	require.True(t, ok)
	keyB, ok := reg.Key(&observer.IntersectionConfig{Root: observer.RootElement(b)})
	require.True(t, ok)
	again, _ := reg.Key(&observer.IntersectionConfig{Root: observer.RootElement(a)})

	require.Equal(t, "2::0px::0", keyA)
	require.Equal(t, "3::0px::0", keyB)
	require.Equal(t, keyA, again)
	require.Equal(t, 2, reg.Stats().Roots)
}

func TestRegistryNativeInit(t *testing.T) {
	reg, p := newRegistry(t)
	container := observertest.NewElement()

	obs := mustIntersection(t, reg, &observer.IntersectionConfig{
		Root:       observer.RootElement(container),
		RootMargin: "10vh 5px 10vh",
		Threshold:  []float64{0, 0.5, 1},
	})

	native := p.Intersections[len(p.Intersections)-1]
	require.Equal(t, container, native.Init.Root)
	require.Equal(t, "80px 5px", native.Init.RootMargin)
	require.Equal(t, []float64{0, 0.5, 1}, native.Init.Thresholds)

	require.Equal(t, container, obs.Root())
	require.Equal(t, "80px 5px", obs.RootMargin())
	require.Equal(t, []float64{0, 0.5, 1}, obs.Thresholds())
}

func TestRegistryViewportUnitsFollowViewport(t *testing.T) {
	reg, p := newRegistry(t)
	cfg := &observer.IntersectionConfig{RootMargin: "10vh"}

	first := mustIntersection(t, reg, cfg)
	require.Same(t, first, mustIntersection(t, reg, &observer.IntersectionConfig{RootMargin: "80px"}))

	p.SetViewport(1000, 400)
	second := mustIntersection(t, reg, cfg)
	require.NotSame(t, first, second)
	require.Equal(t, "40px", second.RootMargin())
}

func TestRegistryUnresolvedRoot(t *testing.T) {
	reg, p := newRegistry(t)
	ref := observer.NewRef(nil)
	cfg := &observer.IntersectionConfig{Root: ref, RootMargin: "5px"}

	obs, ok := reg.Intersection(cfg)
	require.False(t, ok)
	require.Nil(t, obs)
	_, ok = reg.Key(cfg)
	require.False(t, ok)
	require.Equal(t, 1, reg.Stats().Intersection, "nothing is created for a pending root")
	require.Len(t, p.Intersections, 1)

	container := observertest.NewElement()
	ref.Set(container)
	obs = mustIntersection(t, reg, cfg)
	require.Equal(t, container, obs.Root())
	require.Same(t, obs, mustIntersection(t, reg, &observer.IntersectionConfig{Root: observer.RootElement(container), RootMargin: "5px"}))
}

func TestRegistryNilRefMeansDocument(t *testing.T) {
	reg, _ := newRegistry(t)
	var ref *observer.Ref
	require.Same(t, mustIntersection(t, reg, nil), mustIntersection(t, reg, &observer.IntersectionConfig{Root: ref}))
}

func TestRegistryResizePool(t *testing.T) {
	reg, p := newRegistry(t)

	border := reg.Resize("")
	require.Same(t, border, reg.Resize(observer.BorderBox))
	require.Same(t, border, reg.Resize("nonsense"))
	require.Equal(t, observer.BorderBox, border.Box())

	content := reg.Resize(observer.ContentBox)
	require.NotSame(t, border, content)
	require.Same(t, content, reg.Resize(observer.ContentBox))

	require.Len(t, p.Resizes, 2)
	require.Equal(t, 2, reg.Stats().Resize)
}

func TestRegistryMetrics(t *testing.T) {
	scope := tally.NewTestScope("", nil)
	reg := observer.NewRegistry(observertest.NewPlatform(100, 100), observer.WithMetrics(scope))

	mustIntersection(t, reg, nil)
	mustIntersection(t, reg, &observer.IntersectionConfig{RootMargin: "1px"})
	mustIntersection(t, reg, &observer.IntersectionConfig{RootMargin: "1px 1px"})
	reg.Resize(observer.ContentBox)

	require.Equal(t, int64(2), counterValue(scope, "pool_hit", "intersection"))
	require.Equal(t, int64(1), counterValue(scope, "pool_miss", "intersection"))
	require.Equal(t, int64(1), counterValue(scope, "pool_miss", "resize"))
}

func counterValue(scope tally.TestScope, name, kind string) int64 {
	var total int64
	for _, c := range scope.Snapshot().Counters() {
		if strings.HasSuffix(c.Name(), name) && c.Tags()["kind"] == kind {
			total += c.Value()
		}
	}
	return total
}
