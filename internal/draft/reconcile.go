package draft

// Apply folds one change event into the slot collection and returns the
// next collection. The input is never mutated.
//
// The fold is idempotent: a duplicate INSERT replaces the existing row
// instead of duplicating it, an UPDATE for an unseen id is treated as an
// insert (the feed may deliver an update before its insert across
// reconnects), and a DELETE for an absent id is a no-op. Both teams live
// in one collection; partitioning by team is a filter over it.
func Apply(slots []Slot, ev ChangeEvent) []Slot {
	row := ev.Row()
	if row == nil {
		return slots
	}

	switch ev.Type {
	case EventInsert, EventUpdate:
		return upsert(slots, *row)
	case EventDelete:
		return remove(slots, row.ID)
	default:
		return slots
	}
}

func upsert(slots []Slot, row Slot) []Slot {
	next := make([]Slot, len(slots))
	copy(next, slots)
	for i := range next {
		if next[i].ID == row.ID {
			next[i] = row
			return next
		}
	}
	return append(next, row)
}

func remove(slots []Slot, id int64) []Slot {
	next := make([]Slot, 0, len(slots))
	for _, s := range slots {
		if s.ID != id {
			next = append(next, s)
		}
	}
	return next
}

// ByTeam returns the slots belonging to one team, preserving order.
func ByTeam(slots []Slot, team Team) []Slot {
	out := make([]Slot, 0, len(slots))
	for _, s := range slots {
		if s.Team == team {
			out = append(out, s)
		}
	}
	return out
}
