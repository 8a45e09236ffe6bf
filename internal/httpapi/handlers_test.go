package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dev-tective/DraftLabs/internal/draft"
	"github.com/dev-tective/DraftLabs/internal/hub"
	"github.com/dev-tective/DraftLabs/internal/repository"
	"github.com/dev-tective/DraftLabs/internal/session"
)

func testRouter() http.Handler {
	h := NewHandlers(nil, nil, zap.NewNop())
	r := chi.NewRouter()
	r.Get("/healthz", h.Healthz)
	r.Get("/matches/{id}", h.GetMatch)
	r.Patch("/players/{id}", h.UpdatePlayer)
	r.Post("/matches/{id}/teams", h.CreateTeam)
	return r
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGetMatch_InvalidIDIsBadRequest(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/matches/not-a-uuid", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdatePlayer_InvalidBodyIsBadRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodPatch,
		"/players/9f7b47de-0ad7-4b94-b61d-0e8291421088", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTeam_RequiresName(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost,
		"/matches/9f7b47de-0ad7-4b94-b61d-0e8291421088/teams",
		strings.NewReader(`{"acronym":"TST"}`))
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

type stubStore struct{}

func (stubStore) FetchSlots(_ context.Context, draftID uuid.UUID) ([]draft.Slot, error) {
	return []draft.Slot{{ID: 1, DraftID: draftID, Team: draft.TeamBlue, Nickname: "alpha"}}, nil
}

func (stubStore) Subscribe(context.Context, uuid.UUID) (<-chan draft.ChangeEvent, error) {
	return make(chan draft.ChangeEvent), nil
}

func (stubStore) UpdateSlot(context.Context, int64, repository.SlotPatch) error { return nil }

func (stubStore) ResetAllSlots(context.Context, uuid.UUID) error { return nil }

func draftStateRouter(drafts *hub.Hub) http.Handler {
	r := chi.NewRouter()
	r.Get("/drafts/{id}", DraftState(drafts))
	return r
}

func TestDraftState_InvalidIDIsBadRequest(t *testing.T) {
	rec := httptest.NewRecorder()
	draftStateRouter(nil).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/drafts/not-a-uuid", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDraftState_UnknownDraftIsNotFound(t *testing.T) {
	h := hub.NewHub(context.Background(), stubStore{}, zap.NewNop(), nil)
	rec := httptest.NewRecorder()
	draftStateRouter(h).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/drafts/"+uuid.NewString(), nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDraftState_ReportsRunningSession(t *testing.T) {
	h := hub.NewHub(context.Background(), stubStore{}, zap.NewNop(), nil)
	draftID := uuid.New()

	reply := make(chan *session.Session, 1)
	h.Inbox() <- hub.EnsureSession{DraftID: draftID, Reply: reply}
	s := <-reply

	deadline := time.Now().Add(2 * time.Second)
	for s.Phase() != session.PhaseLive && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	require.Equal(t, session.PhaseLive, s.Phase())

	rec := httptest.NewRecorder()
	draftStateRouter(h).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/drafts/"+draftID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp draftStateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, session.PhaseLive, resp.State.Phase)
	require.Equal(t, draftID, resp.State.DraftID)
	require.Len(t, resp.State.Slots, 1)
}
