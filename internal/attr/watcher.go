package attr

// Reaction is invoked once per individual attribute change.
// A non-nil error is collected (or propagated immediately in fail-fast
// mode); it never rolls back the write that triggered it.
type Reaction func(ev ChangeEvent) error

// BatchReaction is invoked once per transaction that touched any watched
// attribute, receiving every matching event in occurrence order.
type BatchReaction func(evs []ChangeEvent) error

// WatchHandle identifies a watcher registration for Unwatch.
// The zero value is not a valid handle.
type WatchHandle struct {
	owner *Owner
	id    int
}

// watcher is one registration in an owner's dispatch list.
//
// The list preserves registration order (dispatch order contract) and
// entries are tombstoned rather than removed, so unregistration during a
// dispatch pass cannot reorder or skip later watchers.
type watcher struct {
	id      int
	names   map[string]bool
	react   Reaction
	batch   BatchReaction
	batched bool
	removed bool
}

func (w *watcher) matches(attrName string) bool {
	return !w.removed && w.names[attrName]
}

// Watch registers reaction to fire once per individual change of any of the
// named attributes. Names must be declared (UNKNOWN_ATTRIBUTE otherwise).
func (o *Owner) Watch(reaction Reaction, names ...string) (WatchHandle, error) {
	set, err := o.watchNameSet(names)
	if err != nil {
		return WatchHandle{}, err
	}
	w := &watcher{id: o.nextWatcherID, names: set, react: reaction}
	o.nextWatcherID++
	o.watchers = append(o.watchers, w)
	return WatchHandle{owner: o, id: w.id}, nil
}

// WatchBatched registers reaction to fire once per transaction that changed
// any of the named attributes, with all matching events from that
// transaction. Separate transactions fire it separately.
func (o *Owner) WatchBatched(reaction BatchReaction, names ...string) (WatchHandle, error) {
	set, err := o.watchNameSet(names)
	if err != nil {
		return WatchHandle{}, err
	}
	w := &watcher{id: o.nextWatcherID, names: set, batch: reaction, batched: true}
	o.nextWatcherID++
	o.watchers = append(o.watchers, w)
	return WatchHandle{owner: o, id: w.id}, nil
}

// Unwatch removes a prior registration. Idempotent: removing an already
// removed (or foreign) handle is a no-op.
func (o *Owner) Unwatch(h WatchHandle) {
	if h.owner != o {
		return
	}
	for _, w := range o.watchers {
		if w.id == h.id {
			w.removed = true
			return
		}
	}
}

// watchNameSet validates and normalizes a watch name list.
func (o *Owner) watchNameSet(names []string) (map[string]bool, error) {
	if len(names) == 0 {
		return nil, &Error{
			Code:    ErrCodeUnknownAttribute,
			Owner:   o.label,
			Message: "watch requires at least one attribute name",
		}
	}
	set := make(map[string]bool, len(names))
	for _, name := range names {
		n := normalizeName(name)
		if !o.schema.Has(n) {
			return nil, NewUnknownAttributeError(o.label, n)
		}
		set[n] = true
	}
	return set, nil
}
