package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dev-tective/DraftLabs/internal/model"
)

// matchTTL bounds how long a match stays visible after creation.
const matchTTL = 72 * time.Hour

const matchPreloads = "Teams.Players.Lane"

// MatchRepository covers the match/team/player surface: nested reads,
// expiry filtering, and the partial updates the edit forms issue.
type MatchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) CreateMatch(ctx context.Context, m *model.Match) error {
	if m.ExpiresAt.IsZero() {
		m.ExpiresAt = time.Now().Add(matchTTL)
	}
	return mapError(r.db.WithContext(ctx).Create(m).Error)
}

// ListMatches returns the caller's unexpired matches, newest first, with
// teams, players, and lane tags loaded.
func (r *MatchRepository) ListMatches(ctx context.Context, userID uuid.UUID) ([]model.Match, error) {
	var matches []model.Match
	err := r.db.WithContext(ctx).
		Preload("Teams").
		Preload("Teams.Players").
		Preload(matchPreloads).
		Where("user_id = ? AND expires_at > ?", userID, time.Now()).
		Order("created_at DESC").
		Find(&matches).Error
	if err != nil {
		return nil, mapError(err)
	}
	return matches, nil
}

// GetMatch returns one unexpired match; an expired match reads as not
// found, same as a missing one.
func (r *MatchRepository) GetMatch(ctx context.Context, id uuid.UUID) (*model.Match, error) {
	var m model.Match
	err := r.db.WithContext(ctx).
		Preload("Teams").
		Preload("Teams.Players").
		Preload(matchPreloads).
		Where("id = ? AND expires_at > ?", id, time.Now()).
		First(&m).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &m, nil
}

// MatchUpdate carries the editable match fields; nil leaves a field
// unchanged.
type MatchUpdate struct {
	BestOf      *int
	BansPerTeam *int
	Game        *model.Game
}

func (r *MatchRepository) UpdateMatch(ctx context.Context, id uuid.UUID, upd MatchUpdate) (*model.Match, error) {
	fields := map[string]any{}
	if upd.BestOf != nil {
		fields["best_of"] = *upd.BestOf
	}
	if upd.BansPerTeam != nil {
		fields["bans_per_team"] = *upd.BansPerTeam
	}
	if upd.Game != nil {
		fields["game"] = *upd.Game
	}
	if len(fields) > 0 {
		res := r.db.WithContext(ctx).Model(&model.Match{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, mapError(res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return r.GetMatch(ctx, id)
}

func (r *MatchRepository) DeleteMatch(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Match{}, "id = ?", id)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateTeam inserts a team and any players it arrives with in one go
// (gorm cascades the association insert).
func (r *MatchRepository) CreateTeam(ctx context.Context, t *model.Team) error {
	return mapError(r.db.WithContext(ctx).Create(t).Error)
}

type TeamUpdate struct {
	Name    *string
	Acronym *string
	LogoURL *string
	Coach   *string
}

func (r *MatchRepository) UpdateTeam(ctx context.Context, id uuid.UUID, upd TeamUpdate) (*model.Team, error) {
	fields := map[string]any{}
	if upd.Name != nil {
		fields["name"] = *upd.Name
	}
	if upd.Acronym != nil {
		fields["acronym"] = *upd.Acronym
	}
	if upd.LogoURL != nil {
		fields["logo_url"] = *upd.LogoURL
	}
	if upd.Coach != nil {
		fields["coach"] = *upd.Coach
	}
	if len(fields) > 0 {
		res := r.db.WithContext(ctx).Model(&model.Team{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, mapError(res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	var t model.Team
	if err := r.db.WithContext(ctx).Preload("Players.Lane").First(&t, "id = ?", id).Error; err != nil {
		return nil, mapError(err)
	}
	return &t, nil
}

func (r *MatchRepository) DeleteTeam(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Team{}, "id = ?", id)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type PlayerUpdate struct {
	Nickname *string
	ImageURL *string
	LaneID   *int64
}

func (r *MatchRepository) UpdatePlayer(ctx context.Context, id uuid.UUID, upd PlayerUpdate) (*model.Player, error) {
	fields := map[string]any{}
	if upd.Nickname != nil {
		fields["nickname"] = *upd.Nickname
	}
	if upd.ImageURL != nil {
		fields["image_url"] = *upd.ImageURL
	}
	if upd.LaneID != nil {
		fields["lane_id"] = *upd.LaneID
	}
	if len(fields) > 0 {
		res := r.db.WithContext(ctx).Model(&model.Player{}).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return nil, mapError(res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	var p model.Player
	if err := r.db.WithContext(ctx).Preload("Lane").First(&p, "id = ?", id).Error; err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

func (r *MatchRepository) DeletePlayer(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Player{}, "id = ?", id)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
