package types

import "github.com/dev-tective/DraftLabs/internal/session"

// ClientMessage is what a draft viewer sends over the websocket.
//
// SetActiveTeam: team
// SelectSlot:    slot_id
// AssignHero:    hero_id
// ToggleLock:    slot_id
// Reset:         {}
type ClientMessage struct {
	Type   string `json:"type"`
	Team   string `json:"team,omitempty"`
	SlotID int64  `json:"slot_id,omitempty"`
	HeroID int64  `json:"hero_id,omitempty"`
}

type ServerMessage struct {
	Type    string         `json:"type"` // "StateSnapshot" | "Error"
	Version int            `json:"version,omitempty"`
	State   *session.State `json:"state,omitempty"`
	Error   string         `json:"error,omitempty"`
}
