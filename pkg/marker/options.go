package marker

import "github.com/overmap/overmap/pkg/geom"

// Option configures the common attributes of a marker at construction
// time.
type Option func(*Base)

// WithPosition overrides the marker's position.
func WithPosition(pos geom.Vec3) Option {
	return func(b *Base) { b.Position = pos }
}

// WithSorting sets the marker's sort key. Markers with a lower key are
// listed before markers with a higher one.
func WithSorting(sorting int) Option {
	return func(b *Base) { b.Sorting = sorting }
}

// WithListed controls whether the marker appears in the web app's
// marker list.
func WithListed(listed bool) Option {
	return func(b *Base) { b.Listed = listed }
}

// WithDistanceRange limits the camera distance range within which the
// marker is displayed.
func WithDistanceRange(min, max float64) Option {
	return func(b *Base) {
		b.MinDistance = min
		b.MaxDistance = max
	}
}

func (b *Base) apply(opts []Option) {
	for _, opt := range opts {
		opt(b)
	}
}
