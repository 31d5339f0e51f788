package observer

import (
	"io"
	"log/slog"
	"strconv"

	"github.com/uber-go/tally/v4"
)

// IntersectionConfig describes an intersection observer. A nil
// *IntersectionConfig is the default: document root, "0px" margin, threshold 0.
type IntersectionConfig struct {
	Root       Root
	RootMargin string
	// Threshold is a single ratio or an ordered list of ratios.
	Threshold []float64
}

// Option configures a Registry.
type Option func(*registryConfig)

type registryConfig struct {
	logger  *slog.Logger
	metrics tally.Scope
}

// WithLogger sets the logger pool activity is reported to at Debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *registryConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithMetrics sets the scope pool and dispatch counters are reported to.
func WithMetrics(scope tally.Scope) Option {
	return func(cfg *registryConfig) {
		if scope != nil {
			cfg.metrics = scope
		}
	}
}

// Registry pools shared intersection and resize observers over one Platform.
//
// Pool entries live as long as the registry; nothing is evicted. All methods
// are safe for concurrent use, though platforms dispatch from a single turn.
type Registry struct {
	platform Platform
	logger   *slog.Logger

	roots         *identityTable
	intersections *pool[string, *IntersectionObserver]
	resizes       *pool[Box, *ResizeObserver]

	intersectionDispatch tally.Counter
	resizeDispatch       tally.Counter
}

// NewRegistry creates a registry over platform. The default intersection
// observer and the border-box resize observer exist from the start.
func NewRegistry(platform Platform, opts ...Option) *Registry {
	cfg := registryConfig{
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: tally.NoopScope,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	scope := cfg.metrics.SubScope("observer")
	intersectionScope := scope.Tagged(map[string]string{"kind": "intersection"})
	resizeScope := scope.Tagged(map[string]string{"kind": "resize"})

	r := &Registry{
		platform:             platform,
		logger:               cfg.logger,
		roots:                newIdentityTable(),
		intersections:        newPool[string, *IntersectionObserver](intersectionScope),
		resizes:              newPool[Box, *ResizeObserver](resizeScope),
		intersectionDispatch: intersectionScope.Counter("dispatch"),
		resizeDispatch:       resizeScope.Counter("dispatch"),
	}

	key := intersectionKey(documentToken, ZeroMargin, nil)
	r.intersections.seed(key, newIntersectionObserver(platform, key, NativeIntersectionInit{
		RootMargin: ZeroMargin,
		Thresholds: CanonicalThreshold(nil),
	}, r.intersectionDispatch))
	r.resizes.seed(BorderBox, newResizeObserver(platform, BorderBox, r.resizeDispatch))

	return r
}

// Platform returns the platform observers are created on.
func (r *Registry) Platform() Platform { return r.platform }

// Key returns the canonical pool key for cfg. ok is false when cfg.Root is a
// Ref that points to nothing yet.
func (r *Registry) Key(cfg *IntersectionConfig) (key string, ok bool) {
	key, _, ok = r.canonicalize(cfg)
	return key, ok
}

// Intersection returns the shared observer for cfg, creating it on first use.
// Configurations that canonicalize to the same key share one observer.
//
// ok is false while cfg.Root is an empty Ref; nothing is created and the
// caller should ask again once the container is set.
func (r *Registry) Intersection(cfg *IntersectionConfig) (obs *IntersectionObserver, ok bool) {
	key, init, ok := r.canonicalize(cfg)
	if !ok {
		return nil, false
	}

	obs, created := r.intersections.getOrCreate(key, func() *IntersectionObserver {
		return newIntersectionObserver(r.platform, key, init, r.intersectionDispatch)
	})
	if created {
		r.logger.Debug("observer: created intersection observer",
			"key", key,
			"pool_size", r.intersections.len())
	}
	return obs, true
}

// Resize returns the shared resize observer for box. The empty box means
// border-box.
func (r *Registry) Resize(box Box) *ResizeObserver {
	box = CanonicalBox(box)
	obs, created := r.resizes.getOrCreate(box, func() *ResizeObserver {
		return newResizeObserver(r.platform, box, r.resizeDispatch)
	})
	if created {
		r.logger.Debug("observer: created resize observer", "box", string(box))
	}
	return obs
}

// Stats reports pool sizes.
type Stats struct {
	Intersection int
	Resize       int
	Roots        int
}

// Stats returns the current pool sizes.
func (r *Registry) Stats() Stats {
	return Stats{
		Intersection: r.intersections.len(),
		Resize:       r.resizes.len(),
		Roots:        r.roots.len(),
	}
}

func (r *Registry) canonicalize(cfg *IntersectionConfig) (string, NativeIntersectionInit, bool) {
	if cfg == nil {
		cfg = &IntersectionConfig{}
	}

	root, ok := resolveRoot(cfg.Root)
	if !ok {
		return "", NativeIntersectionInit{}, false
	}

	vw, vh := r.platform.ViewportSize()
	margin := CanonicalMargin(cfg.RootMargin, vw, vh)
	thresholds := CanonicalThreshold(cfg.Threshold)

	key := intersectionKey(r.roots.token(root), margin, thresholds)
	return key, NativeIntersectionInit{
		Root:       root,
		RootMargin: margin,
		Thresholds: thresholds,
	}, true
}

func intersectionKey(rootToken uint64, margin string, thresholds []float64) string {
	return strconv.FormatUint(rootToken, 10) + "::" + margin + "::" + ThresholdKey(thresholds)
}

// BindIntersection subscribes target to the observer for cfg through a
// Binding. If cfg.Root is an empty Ref the subscription waits until the ref
// is set. callback and cfg are fixed for the life of the binding.
func (r *Registry) BindIntersection(target Element, callback IntersectCallback, cfg *IntersectionConfig) *Binding[IntersectCallback] {
	var frozen *IntersectionConfig
	if cfg != nil {
		c := *cfg
		c.Threshold = append([]float64(nil), cfg.Threshold...)
		frozen = &c
	}

	b := &Binding[IntersectCallback]{
		callback: callback,
		target:   target,
		acquire: func() (handle[IntersectCallback], bool) {
			obs, ok := r.Intersection(frozen)
			if !ok {
				return nil, false
			}
			return obs, true
		},
	}

	var pending *Ref
	if frozen != nil {
		if ref, ok := frozen.Root.(*Ref); ok && ref != nil {
			pending = ref
		}
	}
	b.start(pending)
	return b
}

// BindResize subscribes target to the resize observer for box through a
// Binding. callback is fixed for the life of the binding.
func (r *Registry) BindResize(target Element, callback ResizeCallback, box Box) *Binding[ResizeCallback] {
	b := &Binding[ResizeCallback]{
		callback: callback,
		target:   target,
		acquire: func() (handle[ResizeCallback], bool) {
			return r.Resize(box), true
		},
	}
	b.start(nil)
	return b
}
