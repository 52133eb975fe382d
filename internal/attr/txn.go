package attr

import "errors"

// txn tracks one logical update: every write between entry and exit of the
// outermost Set or Update call.
//
// The batch boundary decision: reentrant writes made by reactions join the
// ambient transaction, so batched watchers see the full closure of one
// outermost call, and a new outermost call is always a new transaction.
//
// The write-count guard is the cycle detector for propagation chains. A
// reaction chain that keeps rewriting the same (owner, attribute) pair trips
// the revisit limit and fails with CYCLIC_DEPENDENCY, instead of recursing
// until the runtime gives up. Distinct attributes each get their own count,
// so long but finite chains pass.
type txn struct {
	token       string
	maxRevisits int

	writes []ChangeEvent  // all events, occurrence order
	counts map[string]int // per-attribute write counts (cycle guard)

	reactionErrs []error // aggregate-mode reaction failures
	failErr      error   // fail-fast-mode first failure; halts the pass
}

func newTxn(token string, maxRevisits int) *txn {
	return &txn{
		token:       token,
		maxRevisits: maxRevisits,
		counts:      make(map[string]int),
	}
}

// guard counts a write to attrName and trips once the revisit limit is
// exceeded. Called before the value is stored, so a tripped write mutates
// nothing.
func (t *txn) guard(owner, attrName string) error {
	t.counts[attrName]++
	if t.counts[attrName] > t.maxRevisits {
		return NewCyclicDependencyError(owner, attrName, t.counts[attrName], t.maxRevisits)
	}
	return nil
}

// record appends a change event to the transaction history.
func (t *txn) record(ev ChangeEvent) {
	t.writes = append(t.writes, ev)
}

// collect files a reaction error under the current policy.
// Returns non-nil only in fail-fast mode, where the first error halts the
// remainder of the dispatch pass.
func (t *txn) collect(failFast bool, err error) error {
	if err == nil {
		return nil
	}
	if failFast {
		if t.failErr == nil {
			t.failErr = err
		}
		return err
	}
	t.reactionErrs = append(t.reactionErrs, err)
	return nil
}

// halted reports whether fail-fast has tripped for this transaction.
func (t *txn) halted() bool {
	return t.failErr != nil
}

// err returns the transaction's overall error: the fail-fast error if one
// tripped, otherwise the joined aggregate of all collected reaction errors.
func (t *txn) err() error {
	if t.failErr != nil {
		return t.failErr
	}
	return errors.Join(t.reactionErrs...)
}

// eventsFor returns the transaction's events matching a watched name set,
// in occurrence order.
func (t *txn) eventsFor(names map[string]bool) []ChangeEvent {
	var out []ChangeEvent
	for _, ev := range t.writes {
		if names[ev.Attr] {
			out = append(out, ev)
		}
	}
	return out
}
