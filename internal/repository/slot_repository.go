package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/dev-tective/DraftLabs/internal/draft"
)

// SlotPatch is a partial update of one draft slot. Nil fields are left
// unchanged; ClearHero distinguishes "set hero_id to NULL" from "don't
// touch hero_id".
type SlotPatch struct {
	Nickname  *string
	HeroID    *int64
	ClearHero bool
	Locked    *bool
}

// SlotRepository is the persistence layer for draft slots: point reads,
// partial updates, an atomic per-draft reset, and the change feed
// (feed.go). Writes never touch in-memory state; the session observes
// their effect through the feed only.
type SlotRepository struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func NewSlotRepository(pool *pgxpool.Pool, log *zap.Logger) *SlotRepository {
	return &SlotRepository{pool: pool, log: log}
}

const slotColumns = "id, draft_id, team, nickname, hero_id, is_locked"

func (r *SlotRepository) FetchSlots(ctx context.Context, draftID uuid.UUID) ([]draft.Slot, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+slotColumns+" FROM draft_slots WHERE draft_id = $1 ORDER BY id",
		draftID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	slots := []draft.Slot{}
	for rows.Next() {
		var s draft.Slot
		if err := rows.Scan(&s.ID, &s.DraftID, &s.Team, &s.Nickname, &s.HeroID, &s.IsLocked); err != nil {
			return nil, mapError(err)
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return slots, nil
}

// UpdateSlot applies a partial patch to one slot. Success only means the
// write is durable; callers see the new state when the feed echoes it.
func (r *SlotRepository) UpdateSlot(ctx context.Context, slotID int64, patch SlotPatch) error {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)

	if patch.Nickname != nil {
		args = append(args, *patch.Nickname)
		sets = append(sets, fmt.Sprintf("nickname = $%d", len(args)))
	}
	switch {
	case patch.ClearHero:
		sets = append(sets, "hero_id = NULL")
	case patch.HeroID != nil:
		args = append(args, *patch.HeroID)
		sets = append(sets, fmt.Sprintf("hero_id = $%d", len(args)))
	}
	if patch.Locked != nil {
		args = append(args, *patch.Locked)
		sets = append(sets, fmt.Sprintf("is_locked = $%d", len(args)))
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, slotID)
	query := fmt.Sprintf("UPDATE draft_slots SET %s WHERE id = $%d",
		strings.Join(sets, ", "), len(args))

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ResetAllSlots clears hero and lock on every slot of the draft. One
// statement, so the reset is all-or-nothing.
func (r *SlotRepository) ResetAllSlots(ctx context.Context, draftID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		"UPDATE draft_slots SET hero_id = NULL, is_locked = FALSE WHERE draft_id = $1",
		draftID)
	return mapError(err)
}
