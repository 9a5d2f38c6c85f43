package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/repository"
)

type handlers struct {
	logger   *slog.Logger
	sessions sessionUseCase
}

type moveRequest struct {
	Cell *int `json:"cell"`
}

type jumpRequest struct {
	Position *int `json:"position"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *handlers) newSession(w http.ResponseWriter, r *http.Request) {
	view, err := that.sessions.NewSession(r.Context())
	if err != nil {
		that.writeError(w, "newSession", err)
		return
	}

	that.writeJSON(w, http.StatusCreated, view)
}

func (that *handlers) getSession(w http.ResponseWriter, r *http.Request) {
	view, err := that.sessions.GetSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		that.writeError(w, "getSession", err)
		return
	}

	that.writeJSON(w, http.StatusOK, view)
}

func (that *handlers) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := that.sessions.DeleteSession(r.Context(), mux.Vars(r)["id"]); err != nil {
		that.writeError(w, "deleteSession", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *handlers) playMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Cell == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "cell is required"})
		return
	}

	view, err := that.sessions.PlayMove(r.Context(), mux.Vars(r)["id"], *req.Cell)
	if err != nil {
		that.writeError(w, "playMove", err)
		return
	}

	that.writeJSON(w, http.StatusOK, view)
}

func (that *handlers) jumpTo(w http.ResponseWriter, r *http.Request) {
	var req jumpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Position == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "position is required"})
		return
	}

	view, err := that.sessions.JumpTo(r.Context(), mux.Vars(r)["id"], *req.Position)
	if err != nil {
		that.writeError(w, "jumpTo", err)
		return
	}

	that.writeJSON(w, http.StatusOK, view)
}

func (that *handlers) restart(w http.ResponseWriter, r *http.Request) {
	view, err := that.sessions.Restart(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		that.writeError(w, "restart", err)
		return
	}

	that.writeJSON(w, http.StatusOK, view)
}

// writeError maps use case errors to status codes. Anything unknown is logged and reported as 500.
func (that *handlers) writeError(w http.ResponseWriter, method string, err error) {
	switch {
	case errors.Is(err, repository.ErrSessionNotFound):
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: repository.ErrSessionNotFound.Error()})
	case errors.Is(err, apperror.ErrInvalidCell):
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: apperror.ErrInvalidCell.Error()})
	case errors.Is(err, apperror.ErrOutOfRange):
		that.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: apperror.ErrOutOfRange.Error()})
	default:
		that.logger.Error("request failed", "method", method, "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal Server Error"})
	}
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}
