package cont

// runtimeOptions holds configuration for Runtime construction: an
// unexported struct folded from a slice of functional options, with safe
// defaults if none are given.
type runtimeOptions struct {
	workers       int
	jobQueueDepth int
}

// Option configures a Runtime instance.
type Option interface {
	apply(*runtimeOptions)
}

type optionFunc func(*runtimeOptions)

func (f optionFunc) apply(o *runtimeOptions) { f(o) }

// WithWorkers sets the number of worker goroutines that execute Blocking
// AsyncTask thunks: the size of the worker pool every host must provide.
func WithWorkers(n int) Option {
	return optionFunc(func(o *runtimeOptions) {
		if n > 0 {
			o.workers = n
		}
	})
}

// WithJobQueueDepth sets the buffering of the internal blocking-job
// channel.
func WithJobQueueDepth(depth int) Option {
	return optionFunc(func(o *runtimeOptions) {
		if depth > 0 {
			o.jobQueueDepth = depth
		}
	})
}

func resolveOptions(opts []Option) *runtimeOptions {
	cfg := &runtimeOptions{workers: 4, jobQueueDepth: 256}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.apply(cfg)
	}
	return cfg
}
