package ws

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dev-tective/DraftLabs/internal/draft"
	"github.com/dev-tective/DraftLabs/internal/hub"
	"github.com/dev-tective/DraftLabs/internal/session"
	"github.com/dev-tective/DraftLabs/internal/types"
)

const mutationTimeout = 5 * time.Second

// Handler upgrades a viewer connection and bridges it onto the draft's
// shared session: snapshots flow out through a writer goroutine, client
// messages flow in through the reader loop.
func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		draftID, err := uuid.Parse(r.URL.Query().Get("draft"))
		if err != nil {
			http.Error(w, "missing or invalid draft id", http.StatusBadRequest)
			return
		}

		reply := make(chan *session.Session, 1)
		h.Inbox() <- hub.EnsureSession{DraftID: draftID, Reply: reply}
		sess := <-reply
		if sess == nil {
			http.Error(w, "draft session unavailable", http.StatusServiceUnavailable)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan session.Snapshot, 8)
		clientID := randID(6)

		sess.Inbox() <- session.Join{ClientID: clientID, Outbox: out}
		defer func() { sess.Inbox() <- session.Leave{ClientID: clientID} }()

		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for snap := range out {
				state := snap.State
				msg := types.ServerMessage{Type: "StateSnapshot", Version: snap.Version, State: &state}
				payload, _ := json.Marshal(msg)
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				writeError(r.Context(), conn, "bad json")
				continue
			}

			if err := dispatch(r.Context(), sess, cm); err != nil {
				log.Debug("draft command rejected",
					zap.String("type", cm.Type), zap.Error(err))
				writeError(r.Context(), conn, err.Error())
			}
		}
	}
}

var errUnknownType = errors.New("unknown message type")

// dispatch translates one client message into a session message and, for
// mutations, waits for the repository's verdict so the client hears
// about failures.
func dispatch(ctx context.Context, sess *session.Session, cm types.ClientMessage) error {
	switch cm.Type {
	case "SetActiveTeam":
		team, ok := draft.ParseTeam(cm.Team)
		if !ok {
			return errors.New("unknown team")
		}
		sess.Inbox() <- session.SetActiveTeam{Team: team}
		return nil

	case "SelectSlot":
		sess.Inbox() <- session.SelectSlot{SlotID: cm.SlotID}
		return nil

	case "AssignHero":
		return awaitReply(ctx, sess, func(reply chan error) session.Msg {
			return session.AssignHero{HeroID: cm.HeroID, Reply: reply}
		})

	case "ToggleLock":
		return awaitReply(ctx, sess, func(reply chan error) session.Msg {
			return session.ToggleLock{SlotID: cm.SlotID, Reply: reply}
		})

	case "Reset":
		return awaitReply(ctx, sess, func(reply chan error) session.Msg {
			return session.Reset{Reply: reply}
		})

	default:
		return errUnknownType
	}
}

func awaitReply(ctx context.Context, sess *session.Session, build func(chan error) session.Msg) error {
	reply := make(chan error, 1)
	sess.Inbox() <- build(reply)

	timer := time.NewTimer(mutationTimeout)
	defer timer.Stop()
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return errors.New("mutation timed out")
	}
}

func writeError(ctx context.Context, conn *websocket.Conn, msg string) {
	payload, _ := json.Marshal(types.ServerMessage{Type: "Error", Error: msg})
	_ = conn.Write(ctx, websocket.MessageText, payload)
}

func randID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
