package gen

import "sync/atomic"

// Env is the shared time environment consulted by time-dependent nodes.
//
// It carries a settable logical time index and a fixed global seed. All
// time-dependent node reads are pure functions of the Env state, so two
// Envs with equal seed and time produce identical values from identical
// nodes.
//
// The time index is a logical counter, not wall-clock time. It may be
// advanced, set forward, or rolled back freely; determinism guarantees
// survive rollback.
//
// Thread-safety: the time index uses atomic operations, but the overall
// design is single-writer - callers mutating time from multiple goroutines
// must serialize externally.
type Env struct {
	time atomic.Int64
	seed uint64
}

// NewEnv creates an Env with the given global seed, starting at time 0.
func NewEnv(seed uint64) *Env {
	return &Env{seed: seed}
}

// NewEnvAt creates an Env with the given global seed and initial time index.
func NewEnvAt(seed uint64, t int64) *Env {
	e := &Env{seed: seed}
	e.time.Store(t)
	return e
}

// Time returns the current time index.
func (e *Env) Time() int64 {
	return e.time.Load()
}

// SetTime sets the time index to t. Rollback (t before the current index)
// is allowed.
func (e *Env) SetTime(t int64) {
	e.time.Store(t)
}

// Advance moves the time index forward by n and returns the new value.
func (e *Env) Advance(n int64) int64 {
	return e.time.Add(n)
}

// Seed returns the global seed. Fixed for the lifetime of the Env.
func (e *Env) Seed() uint64 {
	return e.seed
}

// At temporarily sets the time index to t for nested what-if evaluation.
// The returned restore func puts the previous time back; callers must
// invoke it on all exit paths:
//
//	restore := env.At(42)
//	defer restore()
//
// Nested overrides compose - each restore reinstates the time that was
// current when its At was called.
func (e *Env) At(t int64) (restore func()) {
	prev := e.time.Swap(t)
	return func() { e.time.Store(prev) }
}
