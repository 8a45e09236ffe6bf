package session

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dev-tective/DraftLabs/internal/draft"
	"github.com/dev-tective/DraftLabs/internal/metrics"
	"github.com/dev-tective/DraftLabs/internal/repository"
)

var ErrNoActiveSlot = errors.New("no slot selected")
var ErrNotLive = errors.New("session is not live")

// Store is the slot persistence the session depends on. The production
// implementation is repository.SlotRepository; tests inject fakes.
type Store interface {
	FetchSlots(ctx context.Context, draftID uuid.UUID) ([]draft.Slot, error)
	Subscribe(ctx context.Context, draftID uuid.UUID) (<-chan draft.ChangeEvent, error)
	UpdateSlot(ctx context.Context, slotID int64, patch repository.SlotPatch) error
	ResetAllSlots(ctx context.Context, draftID uuid.UUID) error
}

type Phase string

const (
	PhaseUnsubscribed Phase = "unsubscribed"
	PhaseLoading      Phase = "loading"
	PhaseLive         Phase = "live"
)

type Msg interface{ isSessionMsg() }

// Start subscribes the session to a draft. Starting while subscribed to
// another draft tears the old subscription down first.
type Start struct {
	DraftID uuid.UUID
	Reply   chan error
}

// Stop closes the subscription and clears state. Safe to send even if
// the session never started.
type Stop struct{}

type Join struct {
	ClientID string
	Outbox   chan Snapshot
}

type Leave struct{ ClientID string }

// SetActiveTeam recomputes the active slot for the new preferred team.
// No I/O.
type SetActiveTeam struct{ Team draft.Team }

// SelectSlot makes the given slot explicitly active regardless of
// eligibility, so an operator can edit a locked or assigned slot.
type SelectSlot struct{ SlotID int64 }

// AssignHero writes the hero onto the selected slot and locks it. State
// changes only when the feed echoes the write back.
type AssignHero struct {
	HeroID int64
	Reply  chan error
}

type ToggleLock struct {
	SlotID int64
	Reply  chan error
}

type Reset struct{ Reply chan error }

type GetState struct{ Reply chan View }

type Shutdown struct{}

func (Start) isSessionMsg()         {}
func (Stop) isSessionMsg()          {}
func (Join) isSessionMsg()          {}
func (Leave) isSessionMsg()         {}
func (SetActiveTeam) isSessionMsg() {}
func (SelectSlot) isSessionMsg()    {}
func (AssignHero) isSessionMsg()    {}
func (ToggleLock) isSessionMsg()    {}
func (Reset) isSessionMsg()         {}
func (GetState) isSessionMsg()      {}
func (Shutdown) isSessionMsg()      {}

// loaded is the internal completion message for the fetch+subscribe a
// Start kicks off. gen pins it to the Start that issued it so a
// superseded load cannot clobber newer state.
type loaded struct {
	gen     int
	draftID uuid.UUID
	slots   []draft.Slot
	feed    <-chan draft.ChangeEvent
	stop    context.CancelFunc
	err     error
	reply   chan error
}

func (loaded) isSessionMsg() {}

// State is the session's externally visible state.
type State struct {
	Phase      Phase        `json:"phase"`
	DraftID    uuid.UUID    `json:"draft_id"`
	Slots      []draft.Slot `json:"slots"`
	ActiveTeam draft.Team   `json:"active_team"`
	Selected   *draft.Slot  `json:"selected_slot,omitempty"`
	Err        string       `json:"error,omitempty"`
}

type Snapshot struct {
	Version int
	State   State
}

// View is a point-in-time reflection of the session for status queries.
type View struct {
	Version    int
	NumClients int
	State      State
}

// Session is the draft session controller: an actor owning the
// subscription lifecycle and the reconciled slot collection. All state
// lives on the loop goroutine; the slot collection is only ever mutated
// by folding confirmed feed events, never by local writes.
type Session struct {
	inbox chan Msg
	store Store
	log   *zap.Logger
	mc    *metrics.Collector

	ctx    context.Context
	cancel context.CancelFunc

	phase      Phase
	gen        int
	draftID    uuid.UUID
	slots      []draft.Slot
	activeTeam draft.Team
	selected   *draft.Slot
	lastErr    error
	version    int
	clients    map[string]chan Snapshot
	feed       <-chan draft.ChangeEvent
	feedStop   context.CancelFunc

	// Mirrors of loop-owned state, readable from any goroutine. The hub
	// consults them when deciding to restart or reap a session.
	phaseMirror atomic.Value
	clientCount atomic.Int64
}

func New(parent context.Context, store Store, log *zap.Logger, mc *metrics.Collector) *Session {
	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		inbox:      make(chan Msg, 64),
		store:      store,
		log:        log,
		mc:         mc,
		ctx:        ctx,
		cancel:     cancel,
		phase:      PhaseUnsubscribed,
		activeTeam: draft.TeamBlue,
		clients:    make(map[string]chan Snapshot),
	}
	s.phaseMirror.Store(PhaseUnsubscribed)
	go s.loop()
	return s
}

func (s *Session) Inbox() chan<- Msg { return s.inbox }

// Phase reports the current lifecycle phase without a round trip through
// the loop goroutine.
func (s *Session) Phase() Phase {
	p, _ := s.phaseMirror.Load().(Phase)
	return p
}

// NumClients reports how many client outboxes are attached.
func (s *Session) NumClients() int { return int(s.clientCount.Load()) }

func (s *Session) setPhase(p Phase) {
	s.phase = p
	s.phaseMirror.Store(p)
}

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case ev, ok := <-s.feed:
			if !ok {
				s.feed = nil
				continue
			}
			s.handleEvent(ev)

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Start:
				s.handleStart(msg)

			case loaded:
				s.handleLoaded(msg)

			case Stop:
				s.teardown()
				s.bumpAndBroadcast()

			case Join:
				s.clients[msg.ClientID] = msg.Outbox
				s.clientCount.Store(int64(len(s.clients)))
				msg.Outbox <- Snapshot{Version: s.version, State: s.stateView()}

			case Leave:
				if ch, ok := s.clients[msg.ClientID]; ok {
					close(ch)
					delete(s.clients, msg.ClientID)
					s.clientCount.Store(int64(len(s.clients)))
				}

			case SetActiveTeam:
				s.activeTeam = msg.Team
				s.selected = draft.SelectActiveSlot(s.slots, msg.Team)
				s.bumpAndBroadcast()

			case SelectSlot:
				s.handleSelectSlot(msg.SlotID)

			case AssignHero:
				s.handleAssignHero(msg)

			case ToggleLock:
				s.handleToggleLock(msg)

			case Reset:
				s.handleReset(msg)

			case GetState:
				msg.Reply <- View{
					Version:    s.version,
					NumClients: len(s.clients),
					State:      s.stateView(),
				}

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

func (s *Session) handleStart(msg Start) {
	s.teardown()
	s.gen++
	s.setPhase(PhaseLoading)
	s.draftID = msg.DraftID
	s.bumpAndBroadcast()

	gen := s.gen
	fctx, fcancel := context.WithCancel(s.ctx)
	go func() {
		slots, err := s.store.FetchSlots(fctx, msg.DraftID)
		var feed <-chan draft.ChangeEvent
		if err == nil {
			feed, err = s.store.Subscribe(fctx, msg.DraftID)
		}
		if err != nil {
			fcancel()
		}
		select {
		case s.inbox <- loaded{gen: gen, draftID: msg.DraftID, slots: slots, feed: feed, stop: fcancel, err: err, reply: msg.Reply}:
		case <-s.ctx.Done():
			fcancel()
		}
	}()
}

func (s *Session) handleLoaded(msg loaded) {
	if msg.gen != s.gen || s.phase != PhaseLoading || msg.draftID != s.draftID {
		// A newer Start or a Stop superseded this load.
		if msg.stop != nil {
			msg.stop()
		}
		reply(msg.reply, nil)
		return
	}

	if msg.err != nil {
		s.lastErr = msg.err
		s.setPhase(PhaseUnsubscribed)
		s.log.Warn("draft session load failed",
			zap.String("draft_id", msg.draftID.String()), zap.Error(msg.err))
		s.bumpAndBroadcast()
		reply(msg.reply, msg.err)
		return
	}

	s.setPhase(PhaseLive)
	s.slots = msg.slots
	s.feed = msg.feed
	s.feedStop = msg.stop
	s.lastErr = nil
	s.activeTeam = draft.TeamBlue
	s.selected = draft.SelectActiveSlot(s.slots, s.activeTeam)
	s.mc.SessionLive(1)
	s.bumpAndBroadcast()
	reply(msg.reply, nil)
}

// handleEvent folds one confirmed feed event into the slot collection
// and recomputes the active slot. Events for a draft the session no
// longer tracks are dropped; they can arrive in the window between a
// teardown and the feed goroutine noticing its context is gone.
func (s *Session) handleEvent(ev draft.ChangeEvent) {
	if s.phase != PhaseLive || ev.DraftID() != s.draftID {
		s.mc.StaleEvent()
		return
	}

	s.slots = draft.Apply(s.slots, ev)
	s.selected = draft.SelectActiveSlot(s.slots, s.activeTeam)
	if s.selected != nil {
		s.activeTeam = s.selected.Team
	}
	s.mc.FeedEvent(string(ev.Type))
	s.bumpAndBroadcast()
}

func (s *Session) handleSelectSlot(slotID int64) {
	for _, slot := range s.slots {
		if slot.ID == slotID {
			picked := slot
			s.selected = &picked
			s.activeTeam = picked.Team
			s.bumpAndBroadcast()
			return
		}
	}
}

func (s *Session) handleAssignHero(msg AssignHero) {
	if s.phase != PhaseLive {
		reply(msg.Reply, ErrNotLive)
		return
	}
	if s.selected == nil {
		reply(msg.Reply, ErrNoActiveSlot)
		return
	}

	slotID := s.selected.ID
	heroID := msg.HeroID
	locked := true
	go s.mutate("assign_hero", msg.Reply, func(ctx context.Context) error {
		return s.store.UpdateSlot(ctx, slotID, repository.SlotPatch{HeroID: &heroID, Locked: &locked})
	})
}

func (s *Session) handleToggleLock(msg ToggleLock) {
	if s.phase != PhaseLive {
		reply(msg.Reply, ErrNotLive)
		return
	}

	for _, slot := range s.slots {
		if slot.ID == msg.SlotID {
			locked := !slot.IsLocked
			go s.mutate("toggle_lock", msg.Reply, func(ctx context.Context) error {
				return s.store.UpdateSlot(ctx, msg.SlotID, repository.SlotPatch{Locked: &locked})
			})
			return
		}
	}
	reply(msg.Reply, repository.ErrNotFound)
}

func (s *Session) handleReset(msg Reset) {
	if s.phase != PhaseLive {
		reply(msg.Reply, ErrNotLive)
		return
	}

	draftID := s.draftID
	go s.mutate("reset", msg.Reply, func(ctx context.Context) error {
		return s.store.ResetAllSlots(ctx, draftID)
	})
}

// mutate runs one repository write off the loop goroutine so in-flight
// feed events keep flowing while the write is pending. A failed write
// leaves the reconciled state untouched; the caller gets the error and
// can retry.
func (s *Session) mutate(kind string, replyCh chan error, fn func(ctx context.Context) error) {
	err := fn(s.ctx)
	s.mc.Mutation(kind, err)
	if err != nil {
		s.log.Warn("slot mutation failed", zap.String("kind", kind), zap.Error(err))
	}
	reply(replyCh, err)
}

func (s *Session) teardown() {
	if s.feedStop != nil {
		s.feedStop()
		s.feedStop = nil
	}
	if s.phase == PhaseLive {
		s.mc.SessionLive(-1)
	}
	s.gen++ // invalidate any in-flight load
	s.feed = nil
	s.slots = nil
	s.selected = nil
	s.draftID = uuid.Nil
	s.activeTeam = draft.TeamBlue
	s.lastErr = nil
	s.setPhase(PhaseUnsubscribed)
}

func (s *Session) shutdown() {
	s.teardown()
	for id, ch := range s.clients {
		close(ch)
		delete(s.clients, id)
	}
	s.clientCount.Store(0)
	s.cancel()
}

func (s *Session) stateView() State {
	st := State{
		Phase:      s.phase,
		DraftID:    s.draftID,
		Slots:      s.slots,
		ActiveTeam: s.activeTeam,
		Selected:   s.selected,
	}
	if s.lastErr != nil {
		st.Err = s.lastErr.Error()
	}
	return st
}

func (s *Session) bumpAndBroadcast() {
	s.version++
	snap := Snapshot{Version: s.version, State: s.stateView()}
	for id, ch := range s.clients {
		select {
		case ch <- snap:
		default:
			// Client is slow/full - drop them.
			close(ch)
			delete(s.clients, id)
			s.clientCount.Store(int64(len(s.clients)))
		}
	}
}

func reply(ch chan error, err error) {
	if ch == nil {
		return
	}
	select {
	case ch <- err:
	default:
	}
}
