package httpapi

import (
	"net/http"

	"github.com/dev-tective/DraftLabs/internal/model"
)

func gameParam(r *http.Request) model.Game {
	if g := r.URL.Query().Get("game"); g != "" {
		return model.Game(g)
	}
	return model.GameMLBB
}

func (h *Handlers) ListHeroes(w http.ResponseWriter, r *http.Request) {
	heroes, err := h.heroes.ListHeroes(r.Context(), gameParam(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, heroes)
}

func (h *Handlers) ListLanes(w http.ResponseWriter, r *http.Request) {
	lanes, err := h.heroes.ListLanes(r.Context(), gameParam(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lanes)
}

func (h *Handlers) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.heroes.ListRoles(r.Context(), gameParam(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, roles)
}
