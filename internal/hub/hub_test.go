package hub

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dev-tective/DraftLabs/internal/draft"
	"github.com/dev-tective/DraftLabs/internal/repository"
	"github.com/dev-tective/DraftLabs/internal/session"
)

type stubStore struct{}

func (stubStore) FetchSlots(context.Context, uuid.UUID) ([]draft.Slot, error) {
	return []draft.Slot{}, nil
}

func (stubStore) Subscribe(context.Context, uuid.UUID) (<-chan draft.ChangeEvent, error) {
	return make(chan draft.ChangeEvent), nil
}

func (stubStore) UpdateSlot(context.Context, int64, repository.SlotPatch) error { return nil }

func (stubStore) ResetAllSlots(context.Context, uuid.UUID) error { return nil }

// flakyStore fails fetches on demand and counts them.
type flakyStore struct {
	stubStore
	mu      sync.Mutex
	fail    bool
	fetches int
}

func (f *flakyStore) FetchSlots(_ context.Context, draftID uuid.UUID) ([]draft.Slot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.fail {
		return nil, repository.ErrConnection
	}
	return []draft.Slot{{ID: 1, DraftID: draftID, Team: draft.TeamBlue}}, nil
}

func (f *flakyStore) setFail(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = v
}

func (f *flakyStore) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

func waitSessionPhase(t *testing.T, s *session.Session, want session.Phase) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.Phase() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("session never reached phase %q", want)
}

func TestHub_Ensure_Get_SamePointer(t *testing.T) {
	ctx := context.Background()
	h := NewHub(ctx, stubStore{}, zap.NewNop(), nil)

	draftID := uuid.MustParse("9f7b47de-0ad7-4b94-b61d-0e8291421088")
	reply := make(chan *session.Session, 1)

	h.Inbox() <- EnsureSession{DraftID: draftID, Reply: reply}
	s1 := <-reply

	h.Inbox() <- GetSession{DraftID: draftID, Reply: reply}
	s2 := <-reply

	if s1 == nil || s2 == nil || s1 != s2 {
		t.Fatalf("expected same session pointer")
	}
}

func TestHub_Get_UnknownDraftIsNil(t *testing.T) {
	ctx := context.Background()
	h := NewHub(ctx, stubStore{}, zap.NewNop(), nil)

	reply := make(chan *session.Session, 1)
	h.Inbox() <- GetSession{DraftID: uuid.New(), Reply: reply}
	if s := <-reply; s != nil {
		t.Fatalf("expected nil session for unknown draft, got %v", s)
	}
}

func TestHub_EnsureRestartsSessionAfterFailedLoad(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{fail: true}
	h := NewHub(ctx, store, zap.NewNop(), nil)

	draftID := uuid.New()
	reply := make(chan *session.Session, 1)

	h.Inbox() <- EnsureSession{DraftID: draftID, Reply: reply}
	s1 := <-reply

	// Wait for the first load to have run and failed. Phase flips back
	// to unsubscribed only after the failed load lands on the loop, so
	// the fetch count guards against observing the pre-Start phase.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if store.fetchCount() >= 1 && s1.Phase() == session.PhaseUnsubscribed {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got := s1.Phase(); got != session.PhaseUnsubscribed {
		t.Fatalf("expected failed session to be unsubscribed, got %q", got)
	}

	store.setFail(false)

	h.Inbox() <- EnsureSession{DraftID: draftID, Reply: reply}
	s2 := <-reply
	if s1 != s2 {
		t.Fatalf("expected the same session to be restarted, not replaced")
	}
	waitSessionPhase(t, s2, session.PhaseLive)
}

func TestHub_SweepReapsIdleSessions(t *testing.T) {
	ctx := context.Background()
	h := NewHub(ctx, stubStore{}, zap.NewNop(), nil)

	draftID := uuid.New()
	reply := make(chan *session.Session, 1)
	h.Inbox() <- EnsureSession{DraftID: draftID, Reply: reply}
	<-reply

	// First sweep marks the viewerless session idle, the second falls
	// past the timeout and removes it.
	now := time.Now()
	h.Inbox() <- sweep{now: now}
	h.Inbox() <- sweep{now: now.Add(idleTimeout)}

	h.Inbox() <- GetSession{DraftID: draftID, Reply: reply}
	if s := <-reply; s != nil {
		t.Fatalf("expected idle session to be reaped")
	}
}

func TestHub_SweepSparesSessionsWithViewers(t *testing.T) {
	ctx := context.Background()
	h := NewHub(ctx, stubStore{}, zap.NewNop(), nil)

	draftID := uuid.New()
	reply := make(chan *session.Session, 1)
	h.Inbox() <- EnsureSession{DraftID: draftID, Reply: reply}
	s := <-reply

	out := make(chan session.Snapshot, 8)
	s.Inbox() <- session.Join{ClientID: "viewer", Outbox: out}
	select {
	case <-out:
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for join snapshot")
	}

	now := time.Now()
	h.Inbox() <- sweep{now: now}
	h.Inbox() <- sweep{now: now.Add(2 * idleTimeout)}

	h.Inbox() <- GetSession{DraftID: draftID, Reply: reply}
	if got := <-reply; got != s {
		t.Fatalf("expected session with a viewer to survive the sweep")
	}
}

func TestHub_Remove_ThenEnsureCreatesFresh(t *testing.T) {
	ctx := context.Background()
	h := NewHub(ctx, stubStore{}, zap.NewNop(), nil)

	draftID := uuid.New()
	reply := make(chan *session.Session, 1)

	h.Inbox() <- EnsureSession{DraftID: draftID, Reply: reply}
	s1 := <-reply

	h.Inbox() <- RemoveSession{DraftID: draftID}

	h.Inbox() <- EnsureSession{DraftID: draftID, Reply: reply}
	s2 := <-reply

	if s1 == s2 {
		t.Fatalf("expected a fresh session after removal")
	}
}
