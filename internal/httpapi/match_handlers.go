package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dev-tective/DraftLabs/internal/auth"
	"github.com/dev-tective/DraftLabs/internal/model"
	"github.com/dev-tective/DraftLabs/internal/repository"
)

type createMatchRequest struct {
	BestOf      int        `json:"best_of"`
	BansPerTeam int        `json:"bans_per_team"`
	Game        model.Game `json:"game"`
}

func (h *Handlers) CreateMatch(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req createMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid body")
		return
	}
	if req.Game == "" {
		req.Game = model.GameMLBB
	}

	m := &model.Match{
		BestOf:      req.BestOf,
		BansPerTeam: req.BansPerTeam,
		Game:        req.Game,
		UserID:      userID,
	}
	if err := h.matches.CreateMatch(r.Context(), m); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *Handlers) ListMatches(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	matches, err := h.matches.ListMatches(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

func (h *Handlers) GetMatch(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid match id")
		return
	}

	m, err := h.matches.GetMatch(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

type updateMatchRequest struct {
	BestOf      *int        `json:"best_of"`
	BansPerTeam *int        `json:"bans_per_team"`
	Game        *model.Game `json:"game"`
}

func (h *Handlers) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid match id")
		return
	}

	var req updateMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid body")
		return
	}

	m, err := h.matches.UpdateMatch(r.Context(), id, repository.MatchUpdate{
		BestOf:      req.BestOf,
		BansPerTeam: req.BansPerTeam,
		Game:        req.Game,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *Handlers) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid match id")
		return
	}

	if err := h.matches.DeleteMatch(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createTeamRequest struct {
	Name    string  `json:"name"`
	Acronym string  `json:"acronym"`
	LogoURL *string `json:"logo_url"`
	Coach   *string `json:"coach"`
	Players []struct {
		Nickname string `json:"nickname"`
		LaneID   *int64 `json:"lane_id"`
	} `json:"players"`
}

func (h *Handlers) CreateTeam(w http.ResponseWriter, r *http.Request) {
	matchID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid match id")
		return
	}

	var req createTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid body")
		return
	}
	if req.Name == "" {
		badRequest(w, "team name is required")
		return
	}

	t := &model.Team{
		MatchID: matchID,
		Name:    req.Name,
		Acronym: req.Acronym,
		LogoURL: req.LogoURL,
		Coach:   req.Coach,
	}
	for _, p := range req.Players {
		t.Players = append(t.Players, model.Player{Nickname: p.Nickname, LaneID: p.LaneID})
	}

	if err := h.matches.CreateTeam(r.Context(), t); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

type updateTeamRequest struct {
	Name    *string `json:"name"`
	Acronym *string `json:"acronym"`
	LogoURL *string `json:"logo_url"`
	Coach   *string `json:"coach"`
}

func (h *Handlers) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid team id")
		return
	}

	var req updateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid body")
		return
	}

	t, err := h.matches.UpdateTeam(r.Context(), id, repository.TeamUpdate{
		Name:    req.Name,
		Acronym: req.Acronym,
		LogoURL: req.LogoURL,
		Coach:   req.Coach,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *Handlers) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid team id")
		return
	}

	if err := h.matches.DeleteTeam(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type updatePlayerRequest struct {
	Nickname *string `json:"nickname"`
	ImageURL *string `json:"image_url"`
	LaneID   *int64  `json:"lane_id"`
}

func (h *Handlers) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid player id")
		return
	}

	var req updatePlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid body")
		return
	}

	p, err := h.matches.UpdatePlayer(r.Context(), id, repository.PlayerUpdate{
		Nickname: req.Nickname,
		ImageURL: req.ImageURL,
		LaneID:   req.LaneID,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid player id")
		return
	}

	if err := h.matches.DeletePlayer(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
