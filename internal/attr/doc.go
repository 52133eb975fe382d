// Package attr implements the attribute change notifier.
//
// Attributes are declared once per schema (name, kind, default, constant
// flag, doc string) and bound to values on owner instances. Every mutation
// goes through Owner.Set - the single controlled entry point where
// validation, constant enforcement, change detection, and watcher dispatch
// happen. There is no way to mutate an attribute that bypasses the checks.
//
// ARCHITECTURE:
//
// Synchronous Depth-First Propagation:
// A write dispatches matching watchers before Set returns. Reactions may
// write further attributes; those writes dispatch recursively, completing
// before the outer write's dispatch resumes. The whole chain runs on the
// caller's goroutine - no background tasks, no suspension.
//
// Transactions:
// Every write belongs to a transaction spanning entry to exit of the
// OUTERMOST Set or Update call. Reentrant writes join the ambient
// transaction. Batched watchers fire once per transaction that touched any
// of their attributes, receiving all matching events in occurrence order,
// after the transaction's immediate dispatch has finished. All events of
// one transaction share a UUIDv7 transaction token.
//
// Termination:
// A per-transaction revisit limit per (owner, attribute) pair bounds
// propagation chains. Tripping it is a typed CYCLIC_DEPENDENCY error, not a
// blown stack.
//
// Error Policy:
// Reaction errors never roll back values. By default a dispatch pass runs
// every watcher and joins collected errors afterwards, so one failing
// reaction does not suppress the rest. WithFailFast(true) makes the first
// reaction error halt the pass and propagate immediately.
//
// Dispatch order is registration order, always. Evaluation is
// single-threaded; owners must not be shared across goroutines without
// external serialization.
package attr
