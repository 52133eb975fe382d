package gen

import "math"

// Op identifies an arithmetic operator in the closed composite set.
type Op int

const (
	OpAdd Op = iota + 1
	OpSub
	OpMul
	OpDiv
	OpFloorDiv
	OpMod
	OpPow
)

// String returns the operator symbol.
func (op Op) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpFloorDiv:
		return "//"
	case OpMod:
		return "%"
	case OpPow:
		return "**"
	default:
		return "?"
	}
}

// binaryNode applies an operator to two child reads.
// Time-dependence is the OR of the children (both children are read every
// time, so a time-dependent child keeps the composite reproducible).
type binaryNode struct {
	op   Op
	a, b Node
}

func (n *binaryNode) Read(env *Env) float64 {
	a, b := n.a.Read(env), n.b.Read(env)
	switch n.op {
	case OpAdd:
		return a + b
	case OpSub:
		return a - b
	case OpMul:
		return a * b
	case OpDiv:
		return a / b
	case OpFloorDiv:
		return math.Floor(a / b)
	case OpMod:
		return math.Mod(a, b)
	case OpPow:
		return math.Pow(a, b)
	default:
		return math.NaN()
	}
}

func (n *binaryNode) TimeDependent() bool {
	return n.a.TimeDependent() || n.b.TimeDependent()
}

// negNode negates its child.
type negNode struct {
	child Node
}

func (n *negNode) Read(env *Env) float64 { return -n.child.Read(env) }
func (n *negNode) TimeDependent() bool   { return n.child.TimeDependent() }

// Add returns a node computing a + b.
func Add(a, b Node) Node { return &binaryNode{op: OpAdd, a: a, b: b} }

// Sub returns a node computing a - b.
func Sub(a, b Node) Node { return &binaryNode{op: OpSub, a: a, b: b} }

// Mul returns a node computing a * b.
func Mul(a, b Node) Node { return &binaryNode{op: OpMul, a: a, b: b} }

// Div returns a node computing a / b. Division by zero follows IEEE 754
// (Inf or NaN), matching plain float64 arithmetic.
func Div(a, b Node) Node { return &binaryNode{op: OpDiv, a: a, b: b} }

// FloorDiv returns a node computing floor(a / b).
func FloorDiv(a, b Node) Node { return &binaryNode{op: OpFloorDiv, a: a, b: b} }

// Mod returns a node computing the floating-point remainder of a / b.
func Mod(a, b Node) Node { return &binaryNode{op: OpMod, a: a, b: b} }

// Pow returns a node computing a ** b.
func Pow(a, b Node) Node { return &binaryNode{op: OpPow, a: a, b: b} }

// Neg returns a node computing -a.
func Neg(a Node) Node { return &negNode{child: a} }
