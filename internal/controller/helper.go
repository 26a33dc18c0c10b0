package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	repobooth "github.com/EDM-Spot/core/internal/repository/booth"
	"github.com/EDM-Spot/core/internal/repository/record"
	"github.com/EDM-Spot/core/internal/service/booth"
	"github.com/EDM-Spot/core/internal/service/playlist"
)

func (c controller) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		c.logger.Warn("failed to encode response", "error", err)
	}
}

func (c controller) writeError(w http.ResponseWriter, status int, message string) {
	c.writeJSON(w, status, map[string]string{"error": message})
}

// handleError maps service sentinels onto HTTP statuses without leaking
// store-level detail.
func (c controller) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, record.ErrUserNotFound),
		errors.Is(err, record.ErrPlaylistNotFound),
		errors.Is(err, record.ErrPlaylistItemNotFound),
		errors.Is(err, record.ErrMediaNotFound),
		errors.Is(err, record.ErrHistoryEntryNotFound),
		errors.Is(err, repobooth.ErrNotInWaitlist):
		c.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, playlist.ErrInvalidItemInput),
		errors.Is(err, booth.ErrNothingPlaying):
		c.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, booth.ErrAdvanceInProgress),
		errors.Is(err, booth.ErrUserIsCurrentDJ),
		errors.Is(err, booth.ErrWaitlistFull),
		errors.Is(err, repobooth.ErrAlreadyInWaitlist):
		c.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, playlist.ErrItemSaveFailed):
		c.writeError(w, http.StatusInternalServerError, "Could not save playlist items")
	default:
		c.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		c.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// userID returns the authenticated user set by the gateway in front of
// this service.
func (c controller) userID(r *http.Request) string {
	return r.Header.Get("X-User-Id")
}

func (c controller) requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := c.userID(r)
	if userID == "" {
		c.writeError(w, http.StatusUnauthorized, "missing user context")
		return "", false
	}

	return userID, true
}
