package gen

// TimeSampled holds its child's value constant for a period of time indices.
//
// On the first read, and whenever the time index has advanced to
// lastSampleTime + period or beyond, the child is resampled and the cache
// updated. Between samples the cached value is returned unchanged.
//
// The cache is working state, not configuration; period and child are fixed
// at construction. Single-writer semantics apply: concurrent reads racing a
// resample are the caller's problem, per the package model.
type TimeSampled struct {
	child  Node
	period int64

	primed   bool
	lastTime int64
	lastVal  float64
}

// TimeSampledFn wraps child so its value only changes every period time
// indices. period must be positive.
func TimeSampledFn(child Node, period int64) (*TimeSampled, error) {
	if period <= 0 {
		return nil, newConfigError("time-sampled", "non-positive period %d", period)
	}
	return &TimeSampled{child: child, period: period}, nil
}

// Read returns the cached value, resampling the child first if the time
// index has advanced past the current sample's window.
func (n *TimeSampled) Read(env *Env) float64 {
	t := env.Time()
	if !n.primed || t >= n.lastTime+n.period {
		n.lastVal = n.child.Read(env)
		n.lastTime = t
		n.primed = true
	}
	return n.lastVal
}

// TimeDependent always reports true: the output is a function of when the
// node was last sampled, even when the child itself is not time-dependent.
func (n *TimeSampled) TimeDependent() bool { return true }

// LastSampleTime returns the time index of the most recent sample.
// Meaningful only after the first Read.
func (n *TimeSampled) LastSampleTime() int64 { return n.lastTime }
