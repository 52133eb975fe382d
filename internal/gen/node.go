package gen

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
)

// Node is a generator in the composition graph.
//
// Read produces the node's current value against the given time environment.
// TimeDependent reports whether the value is a function of the env's time
// index; for composites it is the logical OR of the children.
//
// Node configuration is immutable after construction. Read never fails -
// construction validates all parameters up front.
type Node interface {
	Read(env *Env) float64
	TimeDependent() bool
}

// Const lifts a fixed float64 into a Node. Never time-dependent.
func Const(v float64) Node {
	return constNode(v)
}

type constNode float64

func (c constNode) Read(*Env) float64   { return float64(c) }
func (c constNode) TimeDependent() bool { return false }

// nameCounter backs default node names ("uniform-3"). Names only need to be
// distinct within a process; callers wanting cross-process reproducibility
// pass WithName explicitly.
var nameCounter atomic.Int64

func autoName(kind string) string {
	return fmt.Sprintf("%s-%d", kind, nameCounter.Add(1))
}

// deriveRand builds the pseudo-random state for a time-dependent read.
//
// The PCG state is derived from a SHA-256 digest of (global seed, node name,
// node seed, time index). SHA-256 makes the derivation order-independent and
// platform-independent; PCG is a fixed algorithm, so identical inputs give
// bit-identical streams everywhere.
func deriveRand(env *Env, name string, seed uint64, t int64) *rand.Rand {
	h := sha256.New()

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], env.Seed())
	h.Write(buf[:])
	h.Write([]byte(name))
	binary.BigEndian.PutUint64(buf[:], seed)
	h.Write(buf[:])
	binary.BigEndian.PutUint64(buf[:], uint64(t))
	h.Write(buf[:])

	sum := h.Sum(nil)
	hi := binary.BigEndian.Uint64(sum[0:8])
	lo := binary.BigEndian.Uint64(sum[8:16])
	return rand.New(rand.NewPCG(hi, lo))
}
