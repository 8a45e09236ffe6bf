package model

import (
	"time"

	"github.com/google/uuid"
)

type Game string

const GameMLBB Game = "MLBB"

// Match groups two teams and their draft under one owner. Matches
// expire; expired rows are invisible to reads and cleaned up lazily.
type Match struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	BestOf      int       `gorm:"not null;default:3" json:"best_of"`
	BansPerTeam int       `gorm:"not null;default:3" json:"bans_per_team"`
	Game        Game      `gorm:"not null;default:'MLBB'" json:"game"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	Teams       []Team    `gorm:"foreignKey:MatchID;constraint:OnDelete:CASCADE" json:"teams"`
}

type Team struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	MatchID   uuid.UUID `gorm:"type:uuid;not null;index" json:"match_id"`
	Name      string    `gorm:"not null" json:"name"`
	Acronym   string    `json:"acronym"`
	LogoURL   *string   `json:"logo_url,omitempty"`
	Coach     *string   `json:"coach,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Players   []Player  `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"players"`
}

type Player struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TeamID    uuid.UUID `gorm:"type:uuid;not null;index" json:"team_id"`
	Nickname  string    `gorm:"not null" json:"nickname"`
	ImageURL  *string   `json:"image_url,omitempty"`
	LaneID    *int64    `json:"lane_id,omitempty"`
	Lane      *Lane     `gorm:"foreignKey:LaneID" json:"lane,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Hero is static reference data; the draft engine only ever reads it.
type Hero struct {
	ID              int64  `gorm:"primaryKey" json:"id"`
	Name            string `gorm:"not null" json:"name"`
	Game            Game   `gorm:"not null;index" json:"game"`
	ImageProfileURL string `json:"image_profile_url"`
	ImageSlotURL    string `json:"image_slot_url"`
	Lanes           []Lane `gorm:"many2many:hero_lanes" json:"lanes"`
	Roles           []Role `gorm:"many2many:hero_roles" json:"roles"`
}

type Lane struct {
	ID    int64   `gorm:"primaryKey" json:"id"`
	Name  string  `gorm:"not null" json:"name"`
	Game  Game    `gorm:"not null;index" json:"game"`
	Image *string `json:"image,omitempty"`
}

type Role struct {
	ID    int64   `gorm:"primaryKey" json:"id"`
	Name  string  `gorm:"not null" json:"name"`
	Game  Game    `gorm:"not null;index" json:"game"`
	Image *string `json:"image,omitempty"`
}

// Draft ties a pick/ban session to a match. Slots are read through the
// pgx repository, not through this model.
type Draft struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	MatchID   uuid.UUID `gorm:"type:uuid;not null;index" json:"match_id"`
	CreatedAt time.Time `json:"created_at"`
}
