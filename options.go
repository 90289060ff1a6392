package fimg

// DefaultMaxSamples is the default ceiling on the number of samples a single
// Image may hold (1 GiB of float32 data).
const DefaultMaxSamples = 1 << 28

// Option configures Image allocation.
// Use functional options to customize New, FromStdImage and the PPM decoders.
//
// Example:
//
//	// Default allocation (zeroed samples)
//	img, err := fimg.New(640, 480, fimg.DefaultChannels)
//
//	// Mid-gray background, bounded allocation
//	img, err := fimg.New(640, 480, 3, fimg.WithFill(0.5), fimg.WithMaxSamples(1<<20))
type Option func(*options)

// options holds optional configuration for Image allocation.
type options struct {
	maxSamples int
	fill       float32
	hasFill    bool
}

// defaultOptions returns the default allocation options.
func defaultOptions() options {
	return options{
		maxSamples: DefaultMaxSamples,
	}
}

// applyOptions folds opts over the defaults.
func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithMaxSamples sets the largest sample count New will allocate.
// Requests above the limit fail with ErrOutOfMemory. A non-positive n
// removes the limit, leaving only integer overflow as a failure.
//
// Example:
//
//	// Refuse PPM files larger than 16 megasamples
//	img, err := fimg.ImportPPM("in.ppm", fimg.WithMaxSamples(16<<20))
func WithMaxSamples(n int) Option {
	return func(o *options) {
		o.maxSamples = n
	}
}

// WithFill initializes every sample of a newly allocated Image to v.
// Without it, samples start at zero.
func WithFill(v float32) Option {
	return func(o *options) {
		o.fill = v
		o.hasFill = true
	}
}
