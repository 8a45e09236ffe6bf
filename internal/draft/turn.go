package draft

// SelectActiveSlot picks the slot the draft should offer next: the first
// eligible slot on the preferred team in collection order, falling back
// to the first eligible slot on the opposite team, or nil when no slot
// anywhere is eligible (draft complete).
//
// The cross-team fallback mirrors how the draft UI reuses one selection
// rule for both "next pick" and "any open slot".
func SelectActiveSlot(slots []Slot, preferred Team) *Slot {
	if s := firstEligible(slots, preferred); s != nil {
		return s
	}
	return firstEligible(slots, preferred.Opposite())
}

func firstEligible(slots []Slot, team Team) *Slot {
	for _, s := range slots {
		if s.Team == team && s.Eligible() {
			out := s
			return &out
		}
	}
	return nil
}
