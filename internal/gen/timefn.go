package gen

import "math"

// Pure time functions: closed-form in the time index, no internal state.
// Reading at time t, advancing, then returning to t reproduces the original
// value exactly.

type scaledTimeNode struct {
	factor float64
}

// ScaledTime returns a node computing factor * t.
func ScaledTime(factor float64) Node {
	return &scaledTimeNode{factor: factor}
}

func (n *scaledTimeNode) Read(env *Env) float64 { return n.factor * float64(env.Time()) }
func (n *scaledTimeNode) TimeDependent() bool   { return true }

type exponentialDecayNode struct {
	starting     float64
	ending       float64
	timeConstant float64
}

// ExponentialDecay returns a node decaying from starting toward ending with
// the given time constant:
//
//	value(t) = ending + (starting - ending) * exp(-t / timeConstant)
//
// timeConstant must be positive.
func ExponentialDecay(starting, ending, timeConstant float64) (Node, error) {
	if timeConstant <= 0 {
		return nil, newConfigError("exponential-decay", "non-positive time constant %v", timeConstant)
	}
	return &exponentialDecayNode{starting: starting, ending: ending, timeConstant: timeConstant}, nil
}

func (n *exponentialDecayNode) Read(env *Env) float64 {
	t := float64(env.Time())
	return n.ending + (n.starting-n.ending)*math.Exp(-t/n.timeConstant)
}

func (n *exponentialDecayNode) TimeDependent() bool { return true }

type boxCarNode struct {
	onset    float64
	duration float64
}

// BoxCar returns a node that is 1.0 for onset <= t < onset+duration and 0.0
// everywhere else. duration must be non-negative.
func BoxCar(onset, duration float64) (Node, error) {
	if duration < 0 {
		return nil, newConfigError("boxcar", "negative duration %v", duration)
	}
	return &boxCarNode{onset: onset, duration: duration}, nil
}

func (n *boxCarNode) Read(env *Env) float64 {
	t := float64(env.Time())
	if t >= n.onset && t < n.onset+n.duration {
		return 1.0
	}
	return 0.0
}

func (n *boxCarNode) TimeDependent() bool { return true }

type squareWaveNode struct {
	period    float64
	amplitude float64
}

// SquareWave returns a node alternating between +amplitude for the first
// half of each period and -amplitude for the second half. period must be
// positive.
func SquareWave(period, amplitude float64) (Node, error) {
	if period <= 0 {
		return nil, newConfigError("square-wave", "non-positive period %v", period)
	}
	return &squareWaveNode{period: period, amplitude: amplitude}, nil
}

func (n *squareWaveNode) Read(env *Env) float64 {
	phase := math.Mod(float64(env.Time()), n.period)
	if phase < 0 {
		phase += n.period
	}
	if phase < n.period/2 {
		return n.amplitude
	}
	return -n.amplitude
}

func (n *squareWaveNode) TimeDependent() bool { return true }
