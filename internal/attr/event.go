package attr

// ChangeEvent records one attribute transition.
//
// Events are immutable once produced. They are dispatched synchronously to
// matching watchers within the transaction that produced them, then
// discarded; the journal package persists them for anyone who needs history.
type ChangeEvent struct {
	// Owner is the instance whose attribute changed.
	Owner *Owner

	// Attr is the normalized attribute name.
	Attr string

	// Old is the value before the write (normalized form).
	Old any

	// New is the value after the write (normalized form).
	New any

	// TxToken identifies the transaction (outermost Set or Update call)
	// that produced this event. All events of one logical update share it.
	TxToken string
}
