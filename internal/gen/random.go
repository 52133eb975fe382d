package gen

import "math/rand/v2"

// Option configures a random node at construction time.
type Option func(*randomConfig)

type randomConfig struct {
	name    string
	seed    uint64
	timeDep bool
}

// WithName sets an explicit node name. Names feed the deterministic state
// derivation, so identical names plus identical seeds give identical
// time-dependent streams - choose distinct names for independent nodes.
func WithName(name string) Option {
	return func(c *randomConfig) { c.name = name }
}

// WithSeed sets the node seed. Defaults to 0.
func WithSeed(seed uint64) Option {
	return func(c *randomConfig) { c.seed = seed }
}

// WithTimeDependent makes the node's value a pure function of the time
// index. Defaults to false (fresh value every read).
func WithTimeDependent(timeDep bool) Option {
	return func(c *randomConfig) { c.timeDep = timeDep }
}

// randomNode is the shared machinery for all distribution leaves.
//
// Time-dependent reads derive a throwaway PCG state per (env seed, name,
// node seed, time index) and draw once. Non-time-dependent reads draw from
// a per-node stream seeded lazily from the first env's seed, giving a fresh
// value each call while remaining reproducible run to run.
type randomNode struct {
	name    string
	seed    uint64
	timeDep bool
	sample  func(r *rand.Rand) float64
	stream  *rand.Rand
}

func newRandomNode(kind string, sample func(r *rand.Rand) float64, opts []Option) *randomNode {
	cfg := randomConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.name == "" {
		cfg.name = autoName(kind)
	}
	return &randomNode{
		name:    cfg.name,
		seed:    cfg.seed,
		timeDep: cfg.timeDep,
		sample:  sample,
	}
}

func (n *randomNode) Read(env *Env) float64 {
	if n.timeDep {
		return n.sample(deriveRand(env, n.name, n.seed, env.Time()))
	}
	if n.stream == nil {
		// Lazy: the env's global seed is not known at construction.
		// Time index deliberately excluded - the stream position, not the
		// clock, drives non-time-dependent variation.
		n.stream = deriveRand(env, n.name, n.seed, 0)
	}
	return n.sample(n.stream)
}

func (n *randomNode) TimeDependent() bool { return n.timeDep }

// Name returns the node's name (explicit or auto-generated).
func (n *randomNode) Name() string { return n.name }

// UniformRandom creates a node drawing uniformly from [lo, hi).
func UniformRandom(lo, hi float64, opts ...Option) (Node, error) {
	if hi < lo {
		return nil, newConfigError("uniform", "hi %v < lo %v", hi, lo)
	}
	return newRandomNode("uniform", func(r *rand.Rand) float64 {
		return lo + (hi-lo)*r.Float64()
	}, opts), nil
}

// NormalRandom creates a node drawing from a normal distribution with the
// given mean and standard deviation.
func NormalRandom(mu, sigma float64, opts ...Option) (Node, error) {
	if sigma < 0 {
		return nil, newConfigError("normal", "negative sigma %v", sigma)
	}
	return newRandomNode("normal", func(r *rand.Rand) float64 {
		return mu + sigma*r.NormFloat64()
	}, opts), nil
}

// UniformRandomInt creates a node drawing integers uniformly from [lo, hi]
// inclusive, returned as float64 for composability.
func UniformRandomInt(lo, hi int64, opts ...Option) (Node, error) {
	if hi < lo {
		return nil, newConfigError("uniform-int", "hi %d < lo %d", hi, lo)
	}
	span := uint64(hi - lo + 1)
	return newRandomNode("uniform-int", func(r *rand.Rand) float64 {
		return float64(lo + int64(r.Uint64N(span)))
	}, opts), nil
}

// Choice creates a node drawing uniformly from a fixed set of values.
func Choice(values []float64, opts ...Option) (Node, error) {
	if len(values) == 0 {
		return nil, newConfigError("choice", "empty value set")
	}
	// Copy to keep node configuration immutable after construction.
	vals := make([]float64, len(values))
	copy(vals, values)
	return newRandomNode("choice", func(r *rand.Rand) float64 {
		return vals[r.IntN(len(vals))]
	}, opts), nil
}
