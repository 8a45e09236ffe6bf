package draft

import "github.com/google/uuid"

type Team string

const (
	TeamBlue Team = "blue"
	TeamRed  Team = "red"
)

func (t Team) Opposite() Team {
	if t == TeamBlue {
		return TeamRed
	}
	return TeamBlue
}

func ParseTeam(s string) (Team, bool) {
	switch s {
	case "blue":
		return TeamBlue, true
	case "red":
		return TeamRed, true
	default:
		return "", false
	}
}

// Slot is one pickable position in a draft session. HeroID is nil while
// no hero is assigned. A hero can be assigned without the slot being
// locked; locking is what finalizes the choice.
type Slot struct {
	ID       int64     `json:"id"`
	DraftID  uuid.UUID `json:"draft_id"`
	Team     Team      `json:"team"`
	Nickname string    `json:"nickname"`
	HeroID   *int64    `json:"hero_id"`
	IsLocked bool      `json:"is_locked"`
}

// Eligible reports whether the slot may be auto-selected as the active
// turn target: unlocked and heroless.
func (s Slot) Eligible() bool {
	return !s.IsLocked && s.HeroID == nil
}

type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// ChangeEvent is one row-level change from the slot feed. New carries
// the row for inserts and updates, Old for deletes.
type ChangeEvent struct {
	Type EventType `json:"event"`
	New  *Slot     `json:"new,omitempty"`
	Old  *Slot     `json:"old,omitempty"`
}

// Row returns whichever side of the event carries the slot.
func (e ChangeEvent) Row() *Slot {
	if e.Type == EventDelete {
		if e.Old != nil {
			return e.Old
		}
		return e.New
	}
	if e.New != nil {
		return e.New
	}
	return e.Old
}

// DraftID of the affected row, or uuid.Nil for a malformed event.
func (e ChangeEvent) DraftID() uuid.UUID {
	if row := e.Row(); row != nil {
		return row.DraftID
	}
	return uuid.Nil
}
