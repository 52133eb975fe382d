package gen

// boundedNode clamps its child's value into [lo, hi].
type boundedNode struct {
	child  Node
	lo, hi float64
}

// BoundedNumber wraps child so that Read never leaves [lo, hi]. Values
// outside the range are silently clamped, not rejected - this is the
// smoothing wrapper, not a validator.
func BoundedNumber(child Node, lo, hi float64) (Node, error) {
	if hi < lo {
		return nil, newConfigError("bounded", "hi %v < lo %v", hi, lo)
	}
	return &boundedNode{child: child, lo: lo, hi: hi}, nil
}

func (n *boundedNode) Read(env *Env) float64 {
	v := n.child.Read(env)
	if v < n.lo {
		return n.lo
	}
	if v > n.hi {
		return n.hi
	}
	return v
}

func (n *boundedNode) TimeDependent() bool { return n.child.TimeDependent() }
