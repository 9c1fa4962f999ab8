package trigger

// Status is the resolved state of an active trigger. Time holds the
// remaining duration for effects and the elapsed recast time for recasts;
// Stacks is always zero for recasts.
type Status struct {
	Time   float64
	Stacks int
}

// Resolve looks the trigger up in the snapshot. It has no side effects, so
// repeated calls with the same snapshot return the same result.
func Resolve(id ID, snap Snapshot) (Status, bool) {
	if snap == nil {
		return Status{}, false
	}
	switch id.Kind {
	case Effect:
		st, ok := snap.Effect(id.Key)
		if !ok {
			return Status{}, false
		}
		return Status{Time: st.Remaining, Stacks: st.Stacks}, true
	case Recast:
		elapsed, ok := snap.Recast(id.Key)
		if !ok {
			return Status{}, false
		}
		return Status{Time: elapsed}, true
	default:
		return Status{}, false
	}
}

// First resolves ids in order and returns the first active one.
func First(ids []ID, snap Snapshot) (ID, Status, bool) {
	for _, id := range ids {
		if st, ok := Resolve(id, snap); ok {
			return id, st, true
		}
	}
	return ID{}, Status{}, false
}
