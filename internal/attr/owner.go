package attr

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/roach88/attune/internal/gen"
)

// DefaultMaxRevisits is the default cycle-guard limit: how many times one
// (owner, attribute) pair may be written within a single propagation chain.
const DefaultMaxRevisits = 8

// Owner is an instance of a schema: current attribute values plus the
// watcher registry and transaction state.
//
// All writes go through the single controlled Set entry point, which is
// what makes validation, constant enforcement, and watcher dispatch
// unbypassable.
//
// INVARIANTS:
//   - watcher dispatch order is registration order, always
//   - a failed validation mutates nothing
//   - all dispatch for a write (including reentrant writes it causes)
//     completes before the outermost Set returns
//
// Owners are not safe for concurrent use; the cooperative single-threaded
// model applies throughout.
type Owner struct {
	label  string
	schema *Schema
	values map[string]any

	env    *gen.Env
	tokens TxTokenGenerator

	watchers      []*watcher
	nextWatcherID int

	failFast      bool
	maxRevisits   int
	overrideDepth int
	txn           *txn
}

// OwnerOption configures an owner at construction.
type OwnerOption func(*Owner)

// WithLabel sets the owner label used in error messages and journal rows.
func WithLabel(label string) OwnerOption {
	return func(o *Owner) { o.label = label }
}

// WithEnv binds a time environment, enabling pull-model resolution of
// Dynamic attribute slots on Get.
func WithEnv(env *gen.Env) OwnerOption {
	return func(o *Owner) { o.env = env }
}

// WithTokenGenerator sets the transaction token source.
// Default: UUIDv7Generator. Tests use NewFixedGenerator.
func WithTokenGenerator(g TxTokenGenerator) OwnerOption {
	return func(o *Owner) { o.tokens = g }
}

// WithFailFast makes the first reaction error abort the remaining dispatch
// pass and propagate immediately. Default is aggregate reporting: all
// watchers run, errors joined afterwards.
func WithFailFast(failFast bool) OwnerOption {
	return func(o *Owner) { o.failFast = failFast }
}

// WithMaxRevisits sets the cycle-guard limit per (owner, attribute) pair
// within one propagation chain.
func WithMaxRevisits(n int) OwnerOption {
	return func(o *Owner) { o.maxRevisits = n }
}

// NewOwner creates an owner with every attribute at its declared default.
func NewOwner(schema *Schema, opts ...OwnerOption) *Owner {
	o := &Owner{
		label:       "owner",
		schema:      schema,
		values:      make(map[string]any, schema.Len()),
		tokens:      UUIDv7Generator{},
		maxRevisits: DefaultMaxRevisits,
	}
	for _, opt := range opts {
		opt(o)
	}
	for _, d := range schema.decls {
		o.values[d.Name] = d.Default
	}
	return o
}

// Label returns the owner label.
func (o *Owner) Label() string { return o.label }

// Schema returns the owner's schema.
func (o *Owner) Schema() *Schema { return o.schema }

// Env returns the bound time environment, or nil.
func (o *Owner) Env() *gen.Env { return o.env }

// Get returns the current value of an attribute.
//
// Dynamic slots holding a generator node are resolved through the bound
// time env (the pull model): the node's Read result is returned, not the
// node. With no env bound the raw node is returned - resolution needs a
// clock. Use Raw to read the stored slot without resolution.
func (o *Owner) Get(name string) (any, error) {
	d, ok := o.schema.Decl(name)
	if !ok {
		return nil, NewUnknownAttributeError(o.label, normalizeName(name))
	}
	v := o.values[d.Name]
	if node, isNode := v.(gen.Node); isNode && o.env != nil {
		return node.Read(o.env), nil
	}
	return v, nil
}

// Raw returns the stored value without Dynamic resolution.
func (o *Owner) Raw(name string) (any, error) {
	d, ok := o.schema.Decl(name)
	if !ok {
		return nil, NewUnknownAttributeError(o.label, normalizeName(name))
	}
	return o.values[d.Name], nil
}

// Set validates and writes one attribute, then dispatches watchers
// depth-first before returning.
//
// Failures:
//   - UNKNOWN_ATTRIBUTE: name not declared
//   - CONSTANT_VIOLATION: constant attribute, no override scope active
//   - VALIDATION: value fails the kind's type/bounds check (no mutation)
//   - CYCLIC_DEPENDENCY: revisit limit exceeded in this propagation chain
//
// Reaction errors do not roll anything back; in aggregate mode they are
// joined into the returned error of the outermost call, in fail-fast mode
// the first one halts the pass.
//
// Writing a value equal to the current one stores nothing and fires no
// watchers (change detection, not write detection).
func (o *Owner) Set(name string, value any) error {
	outer := o.txn == nil
	if outer {
		o.txn = newTxn(o.tokens.Generate(), o.maxRevisits)
	}
	err := o.write(name, value)
	if outer {
		t := o.txn
		if err == nil {
			o.flushBatched(t)
			err = t.err()
		}
		o.txn = nil
	}
	return err
}

// Update applies several attribute writes as one logical update (one
// transaction): batched watchers see all resulting events at once.
//
// The whole update is pre-validated before anything is applied, so a bad
// value or a constant violation anywhere leaves every attribute untouched.
// Writes are applied in schema declaration order for determinism.
func (o *Owner) Update(changes map[string]any) error {
	plan, err := o.planUpdate(changes)
	if err != nil {
		return err
	}

	outer := o.txn == nil
	if outer {
		o.txn = newTxn(o.tokens.Generate(), o.maxRevisits)
	}
	var applyErr error
	for _, p := range plan {
		if o.txn.halted() {
			break
		}
		if applyErr = o.write(p.name, p.value); applyErr != nil {
			break
		}
	}
	if outer {
		t := o.txn
		if applyErr == nil {
			o.flushBatched(t)
			applyErr = t.err()
		}
		o.txn = nil
	}
	return applyErr
}

type plannedWrite struct {
	name  string
	value any
}

// planUpdate validates every change up front and orders application by
// schema declaration order.
func (o *Owner) planUpdate(changes map[string]any) ([]plannedWrite, error) {
	normalized := make(map[string]any, len(changes))
	for name, v := range changes {
		n := normalizeName(name)
		if !o.schema.Has(n) {
			// Sort for a deterministic pick when several keys are unknown.
			unknown := make([]string, 0)
			for k := range changes {
				if !o.schema.Has(normalizeName(k)) {
					unknown = append(unknown, normalizeName(k))
				}
			}
			sort.Strings(unknown)
			return nil, NewUnknownAttributeError(o.label, unknown[0])
		}
		normalized[n] = v
	}

	plan := make([]plannedWrite, 0, len(normalized))
	for _, d := range o.schema.decls {
		v, touched := normalized[d.Name]
		if !touched {
			continue
		}
		if _, err := o.checkWrite(d, v); err != nil {
			return nil, err
		}
		plan = append(plan, plannedWrite{name: d.Name, value: v})
	}
	return plan, nil
}

// checkWrite runs the constant and validation checks for one candidate
// write, returning the normalized value.
func (o *Owner) checkWrite(d Declaration, value any) (any, error) {
	if d.Constant && o.overrideDepth == 0 {
		return nil, NewConstantViolationError(o.label, d.Name)
	}
	if value == nil {
		if !d.AllowsNil() {
			return nil, NewValidationError(o.label, d.Name,
				fmt.Sprintf("%s attribute does not allow nil", d.Kind.Name()))
		}
		return nil, nil
	}
	return d.Kind.Validate(o.label, d.Name, value)
}

// write performs one validated write inside the ambient transaction and
// dispatches per-attribute watchers depth-first.
func (o *Owner) write(name string, value any) error {
	d, ok := o.schema.Decl(name)
	if !ok {
		return NewUnknownAttributeError(o.label, normalizeName(name))
	}
	nv, err := o.checkWrite(d, value)
	if err != nil {
		return err
	}
	if err := o.txn.guard(o.label, d.Name); err != nil {
		return err
	}

	old := o.values[d.Name]
	if valuesEqual(old, nv) {
		return nil
	}
	o.values[d.Name] = nv

	ev := ChangeEvent{Owner: o, Attr: d.Name, Old: old, New: nv, TxToken: o.txn.token}
	o.txn.record(ev)
	return o.dispatchImmediate(ev)
}

// dispatchImmediate fires non-batched watchers matching ev, in registration
// order. Reactions may reenter Set; those writes join the ambient
// transaction and their own dispatch completes before this one resumes
// (depth-first propagation).
func (o *Owner) dispatchImmediate(ev ChangeEvent) error {
	t := o.txn
	// Snapshot length: watchers registered by reactions during this pass do
	// not fire for the event that preceded them.
	n := len(o.watchers)
	for i := 0; i < n; i++ {
		if t.halted() {
			return t.failErr
		}
		w := o.watchers[i]
		if w.batched || !w.matches(ev.Attr) {
			continue
		}
		if err := t.collect(o.failFast, w.react(ev)); err != nil {
			return err
		}
	}
	return nil
}

// flushBatched fires batched watchers for a closing transaction, each once,
// with its matching events in occurrence order. Runs after all immediate
// dispatch of the transaction, in registration order.
func (o *Owner) flushBatched(t *txn) {
	n := len(o.watchers)
	for i := 0; i < n; i++ {
		if t.halted() {
			return
		}
		w := o.watchers[i]
		if !w.batched || w.removed {
			continue
		}
		evs := t.eventsFor(w.names)
		if len(evs) == 0 {
			continue
		}
		if t.collect(o.failFast, w.batch(evs)) != nil {
			return
		}
	}
}

// AllowConstantWrites opens a scoped override permitting writes to constant
// attributes on this owner. The returned release func closes the scope and
// must run on all exit paths:
//
//	release := o.AllowConstantWrites()
//	defer release()
//
// Nested scopes compose: the permission stays active until the outermost
// release. Each release is idempotent.
func (o *Owner) AllowConstantWrites() (release func()) {
	o.overrideDepth++
	released := false
	return func() {
		if released {
			return
		}
		released = true
		o.overrideDepth--
	}
}

// valuesEqual compares two normalized stored values. Incomparable dynamic
// types (possible with exotic Node implementations) compare unequal rather
// than panicking.
func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
