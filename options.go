package mdtree

// DefaultMaxDepth is the default ceiling on nested inline scopes.
const DefaultMaxDepth = 256

// Option configures inline and document parsing.
type Option func(*config)

type config struct {
	maxDepth int
	workers  int
}

func newConfig(opts []Option) config {
	cfg := config{maxDepth: DefaultMaxDepth, workers: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithMaxDepth limits how deeply inline scopes may nest. Openers beyond the
// limit are kept as literal text. Values below 1 restore DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(cfg *config) {
		if depth < 1 {
			depth = DefaultMaxDepth
		}
		cfg.maxDepth = depth
	}
}

// WithConcurrency sets how many workers parse line spans in Parse. Values
// below 1 mean sequential parsing.
func WithConcurrency(workers int) Option {
	return func(cfg *config) {
		if workers < 1 {
			workers = 1
		}
		cfg.workers = workers
	}
}
