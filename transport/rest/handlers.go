package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rocketscienceinc/duel-backend/internal/apperror"
	"github.com/rocketscienceinc/duel-backend/internal/repository"
)

var errInvalidLimit = errors.New("limit must be a positive number")

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Server) caroMatchHandler(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusOK, that.caro.Snapshot())
}

func (that *Server) rpsMatchHandler(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusOK, that.rps.Snapshot())
}

func (that *Server) resultsHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		that.writeError(w, err)
		return
	}

	if that.archive == nil {
		that.writeError(w, apperror.ErrArchiveDisabled)
		return
	}

	results, err := that.archive.List(r.Context(), r.PathValue("game"), limit)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, results)
}

func (that *Server) leaderboardHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		that.writeError(w, err)
		return
	}

	if that.archive == nil {
		that.writeError(w, apperror.ErrArchiveDisabled)
		return
	}

	entries, err := that.archive.Leaderboard(r.Context(), r.PathValue("game"), limit)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, entries)
}

// parseLimit - a missing limit is 0, which the archive reads as "everything kept".
func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("%w: %q", errInvalidLimit, raw)
	}

	return limit, nil
}

func (that *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Internal Server Error"

	switch {
	case errors.Is(err, apperror.ErrArchiveDisabled):
		status, message = http.StatusServiceUnavailable, apperror.ErrArchiveDisabled.Error()
	case errors.Is(err, repository.ErrUnknownGame), errors.Is(err, errInvalidLimit):
		status, message = http.StatusBadRequest, err.Error()
	default:
		that.logger.Error("request failed", "error", err)
	}

	that.writeJSON(w, status, errorResponse{Error: message})
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
