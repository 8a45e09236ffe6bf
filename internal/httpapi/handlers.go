package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/dev-tective/DraftLabs/internal/auth"
	"github.com/dev-tective/DraftLabs/internal/repository"
)

// Handlers carries the REST surface's dependencies.
type Handlers struct {
	matches *repository.MatchRepository
	heroes  *repository.HeroRepository
	log     *zap.Logger
}

func NewHandlers(matches *repository.MatchRepository, heroes *repository.HeroRepository, log *zap.Logger) *Handlers {
	return &Handlers{matches: matches, heroes: heroes, log: log}
}

func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps the repository/auth taxonomy onto HTTP statuses.
func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, auth.ErrAuth):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, repository.ErrConnection):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "backend unavailable"})
	default:
		h.log.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}
