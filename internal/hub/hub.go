package hub

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dev-tective/DraftLabs/internal/metrics"
	"github.com/dev-tective/DraftLabs/internal/session"
)

const (
	sweepInterval = time.Minute
	idleTimeout   = 10 * time.Minute
)

type HubMsg interface{ isHubMsg() }

type GetSession struct {
	DraftID uuid.UUID
	Reply   chan *session.Session
}

// EnsureSession returns the session for a draft, creating and starting
// one if none exists yet. One session per draft id, so every viewer of a
// draft shares one reconciled state. A session stuck unsubscribed after
// a failed load gets a fresh Start, so a transient database error at
// first join heals itself when the next viewer arrives.
type EnsureSession struct {
	DraftID uuid.UUID
	Reply   chan *session.Session
}

type RemoveSession struct {
	DraftID uuid.UUID
}

type ShutdownHub struct{}

// sweep drives the idle reaper. The ticker goroutine sends one per
// interval; tests send them directly with a chosen clock.
type sweep struct{ now time.Time }

func (GetSession) isHubMsg()    {}
func (EnsureSession) isHubMsg() {}
func (RemoveSession) isHubMsg() {}
func (ShutdownHub) isHubMsg()   {}
func (sweep) isHubMsg()         {}

type Hub struct {
	inbox    chan HubMsg
	sessions map[uuid.UUID]*session.Session
	idle     map[uuid.UUID]time.Time
	store    session.Store
	log      *zap.Logger
	mc       *metrics.Collector
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewHub(parent context.Context, store session.Store, log *zap.Logger, mc *metrics.Collector) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:    make(chan HubMsg, 64),
		sessions: make(map[uuid.UUID]*session.Session),
		idle:     make(map[uuid.UUID]time.Time),
		store:    store,
		log:      log,
		mc:       mc,
		ctx:      ctx,
		cancel:   cancel,
	}
	go h.loop()
	go h.tick()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) tick() {
	t := time.NewTicker(sweepInterval)
	defer t.Stop()
	for {
		select {
		case <-h.ctx.Done():
			return
		case now := <-t.C:
			select {
			case h.inbox <- sweep{now: now}:
			case <-h.ctx.Done():
				return
			}
		}
	}
}

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case GetSession:
				msg.Reply <- h.sessions[msg.DraftID] // may be nil

			case EnsureSession:
				if s := h.sessions[msg.DraftID]; s != nil {
					if s.Phase() == session.PhaseUnsubscribed {
						s.Inbox() <- session.Start{DraftID: msg.DraftID}
					}
					msg.Reply <- s
					break
				}
				s := session.New(h.ctx, h.store, h.log, h.mc)
				s.Inbox() <- session.Start{DraftID: msg.DraftID}
				h.sessions[msg.DraftID] = s
				msg.Reply <- s

			case RemoveSession:
				if s := h.sessions[msg.DraftID]; s != nil {
					s.Inbox() <- session.Shutdown{}
				}
				delete(h.sessions, msg.DraftID)
				delete(h.idle, msg.DraftID)

			case sweep:
				h.reapIdle(msg.now)

			case ShutdownHub:
				for _, s := range h.sessions {
					s.Inbox() <- session.Shutdown{}
				}
				clear(h.sessions)
				clear(h.idle)
				h.cancel()
			}
		}
	}
}

// reapIdle shuts down sessions that have had no viewers for a full idle
// window. A session counts as idle only across consecutive sweeps, so a
// draft between viewers is not torn down the moment its last websocket
// drops.
func (h *Hub) reapIdle(now time.Time) {
	for id, s := range h.sessions {
		if s.NumClients() > 0 {
			delete(h.idle, id)
			continue
		}
		since, ok := h.idle[id]
		if !ok {
			h.idle[id] = now
			continue
		}
		if now.Sub(since) >= idleTimeout {
			s.Inbox() <- session.Shutdown{}
			delete(h.sessions, id)
			delete(h.idle, id)
			h.log.Info("reaped idle draft session", zap.String("draft_id", id.String()))
		}
	}
}
