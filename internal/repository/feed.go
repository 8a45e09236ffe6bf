package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/dev-tective/DraftLabs/internal/draft"
)

// notifyChannel is the Postgres NOTIFY channel the draft_slots trigger
// publishes row changes on.
const notifyChannel = "draft_slots"

// Subscribe opens the change feed for one draft. A dedicated connection
// is held on LISTEN until ctx is cancelled; events for other drafts are
// dropped here even though the trigger payload should already be scoped,
// guarding against stale subscriptions. The returned channel is closed
// when the subscription ends.
func (r *SlotRepository) Subscribe(ctx context.Context, draftID uuid.UUID) (<-chan draft.ChangeEvent, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		conn.Release()
		return nil, mapError(err)
	}

	out := make(chan draft.ChangeEvent, 64)
	go r.listen(ctx, conn, draftID, out)
	return out, nil
}

func (r *SlotRepository) listen(ctx context.Context, conn *pgxpool.Conn, draftID uuid.UUID, out chan<- draft.ChangeEvent) {
	defer close(out)
	defer conn.Release()

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() == nil {
				r.log.Warn("slot feed closed",
					zap.String("draft_id", draftID.String()), zap.Error(err))
			}
			return
		}

		var ev draft.ChangeEvent
		if err := json.Unmarshal([]byte(n.Payload), &ev); err != nil {
			r.log.Warn("dropping malformed feed payload", zap.Error(err))
			continue
		}
		if ev.DraftID() != draftID {
			continue
		}

		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
	}
}
