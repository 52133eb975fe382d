// Package harness runs scripted mutation scenarios against an owner and
// captures the resulting dispatch trace for golden comparison.
//
// A scenario declares a schema, a list of steps (single writes or batched
// updates), and runs with a fixed transaction-token sequence so the trace
// is byte-stable: same scenario, same trace, every run. The harness
// observes dispatch through the public watcher API only - it sees exactly
// what any other watcher would see, in the same order.
package harness

import (
	"fmt"

	"github.com/roach88/attune/internal/attr"
	"github.com/roach88/attune/internal/gen"
	"github.com/roach88/attune/internal/testutil"
)

// Step is one scripted mutation. Exactly one field is set.
type Step struct {
	// Set writes a single attribute.
	Set *SetStep
	// Update applies several writes as one transaction.
	Update map[string]any
	// Time sets the shared time index before subsequent steps.
	Time *int64
}

// SetStep is a single-attribute write.
type SetStep struct {
	Attr  string
	Value any
}

// Scenario is a scripted run against one owner.
type Scenario struct {
	Name  string
	Label string
	Decls []attr.Declaration
	Seed  uint64
	Steps []Step

	// MaxRevisits overrides the owner's cycle-guard limit when positive.
	MaxRevisits int
}

// TraceEvent is one observed dispatch, in dispatch order.
type TraceEvent struct {
	Kind  string   `json:"kind"` // "change" or "batch"
	Tx    string   `json:"tx"`
	Attr  string   `json:"attr,omitempty"`
	Old   any      `json:"old"`
	New   any      `json:"new"`
	Attrs []string `json:"attrs,omitempty"` // batch: attribute per event
}

// Result holds the trace and per-step errors of a scenario run.
type Result struct {
	Trace      []TraceEvent
	StepErrors []string // "" for successful steps
	Owner      *attr.Owner
}

// Run executes a scenario. The owner is built fresh with a fixed token
// sequence; a per-change recorder and an all-attribute batched recorder are
// registered before any step runs.
func Run(sc *Scenario) (*Result, error) {
	schema, err := attr.NewSchema(sc.Decls...)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: schema: %w", sc.Name, err)
	}

	label := sc.Label
	if label == "" {
		label = sc.Name
	}
	opts := []attr.OwnerOption{
		attr.WithLabel(label),
		attr.WithTokenGenerator(testutil.TokenSequence(len(sc.Steps) + 1)),
		attr.WithEnv(gen.NewEnv(sc.Seed)),
	}
	if sc.MaxRevisits > 0 {
		opts = append(opts, attr.WithMaxRevisits(sc.MaxRevisits))
	}
	owner := attr.NewOwner(schema, opts...)

	result := &Result{Owner: owner}
	names := schema.Names()

	if _, err := owner.Watch(func(ev attr.ChangeEvent) error {
		result.Trace = append(result.Trace, TraceEvent{
			Kind: "change",
			Tx:   ev.TxToken,
			Attr: ev.Attr,
			Old:  ev.Old,
			New:  ev.New,
		})
		return nil
	}, names...); err != nil {
		return nil, fmt.Errorf("scenario %s: recorder: %w", sc.Name, err)
	}

	if _, err := owner.WatchBatched(func(evs []attr.ChangeEvent) error {
		batch := TraceEvent{Kind: "batch", Tx: evs[0].TxToken}
		for _, ev := range evs {
			batch.Attrs = append(batch.Attrs, ev.Attr)
		}
		result.Trace = append(result.Trace, batch)
		return nil
	}, names...); err != nil {
		return nil, fmt.Errorf("scenario %s: batch recorder: %w", sc.Name, err)
	}

	for i, step := range sc.Steps {
		var stepErr error
		switch {
		case step.Set != nil:
			stepErr = owner.Set(step.Set.Attr, step.Set.Value)
		case step.Update != nil:
			stepErr = owner.Update(step.Update)
		case step.Time != nil:
			owner.Env().SetTime(*step.Time)
		default:
			return nil, fmt.Errorf("scenario %s: step %d is empty", sc.Name, i)
		}
		if stepErr != nil {
			result.StepErrors = append(result.StepErrors, stepErr.Error())
		} else {
			result.StepErrors = append(result.StepErrors, "")
		}
	}
	return result, nil
}
