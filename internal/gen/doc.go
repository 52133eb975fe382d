// Package gen implements deterministic time-indexed value generators.
//
// A generator node produces a float64 on each Read. Nodes come in two
// flavors:
//
//   - Non-time-dependent: each Read draws the next value from the node's own
//     pseudo-random stream, so repeated reads differ ("pull" mode).
//   - Time-dependent: the value is a pure function of {global seed, node
//     name, node seed, current time index}. Reading at the same time index
//     always reproduces the same value, bit for bit, regardless of call
//     order or platform.
//
// ARCHITECTURE:
//
// Shared Time Env:
// All reads take an explicit *Env carrying the time index and the global
// seed. There is no ambient global state - callers that want a shared
// "simulation clock" share one Env. The Env is settable (SetTime, Advance)
// and supports a scoped override (At) for what-if evaluation that restores
// the ambient time on exit.
//
// Determinism:
// Time-dependent reads derive a PCG state from a SHA-256 digest of the
// listed inputs. NEVER from wall-clock time or call counters - those would
// break reproducibility under time rollback and replay.
//
// Composition:
// Arithmetic composites (Add, Sub, Mul, Div, FloorDiv, Mod, Pow, Neg) form
// a fixed closed set of operator nodes. A composite is time-dependent if
// any of its children is. BoundedNumber clamps, TimeSampled holds a value
// for a period, and the pure time functions (ScaledTime, ExponentialDecay,
// BoxCar, SquareWave) are closed-form in the time index.
//
// Construction errors (invalid bounds, non-positive periods) surface as
// ConfigError at construction time. Read never fails.
//
// The package assumes the single-writer cooperative model: reads and time
// mutations happen on one goroutine at a time. The Env uses atomics so a
// misbehaving caller corrupts values, not memory.
package gen
