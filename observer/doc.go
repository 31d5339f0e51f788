// Package observer pools intersection and resize observers.
//
// One native observer is created per distinct canonical configuration and
// shared by every caller asking for an equivalent one:
//
//	reg := observer.NewRegistry(platform)
//
//	a, _ := reg.Intersection(&observer.IntersectionConfig{RootMargin: "0px 0%"})
//	b, _ := reg.Intersection(&observer.IntersectionConfig{Threshold: []float64{0}})
//	c, _ := reg.Intersection(nil)
//	// a == b == c
//
// Each shared observer keeps exactly one callback per target; binding a new
// callback to an already observed target replaces the previous one.
//
// Nothing in this package returns errors. Malformed margins degrade to "0px",
// nil targets and callbacks are ignored, and a root given as an empty Ref is
// reported as not ready instead of failing.
package observer
