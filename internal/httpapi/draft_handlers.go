package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dev-tective/DraftLabs/internal/hub"
	"github.com/dev-tective/DraftLabs/internal/session"
)

type draftStateResponse struct {
	Version int           `json:"version"`
	Viewers int           `json:"viewers"`
	State   session.State `json:"state"`
}

// DraftState returns a point-in-time view of a running draft session
// without opening a websocket. Drafts nobody has joined yet have no
// session and report 404.
func DraftState(drafts *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		draftID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			badRequest(w, "invalid draft id")
			return
		}

		reply := make(chan *session.Session, 1)
		drafts.Inbox() <- hub.GetSession{DraftID: draftID, Reply: reply}
		sess := <-reply
		if sess == nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "no active session for draft"})
			return
		}

		viewCh := make(chan session.View, 1)
		sess.Inbox() <- session.GetState{Reply: viewCh}
		select {
		case v := <-viewCh:
			writeJSON(w, http.StatusOK, draftStateResponse{Version: v.Version, Viewers: v.NumClients, State: v.State})
		case <-time.After(time.Second):
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "session busy"})
		case <-r.Context().Done():
		}
	}
}
