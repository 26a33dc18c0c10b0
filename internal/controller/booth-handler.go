package controller

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	repobooth "github.com/EDM-Spot/core/internal/repository/booth"
	"github.com/EDM-Spot/core/internal/service/booth"
)

func (c controller) getBooth(w http.ResponseWriter, r *http.Request) {
	info, err := c.boothService.GetBooth(r.Context())
	if err != nil {
		c.handleError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusOK, info)
}

type SkipInput struct {
	Remove  bool `json:"remove"`
	Publish bool `json:"publish"`
}

// skip is the operator's out-of-band advance.
func (c controller) skip(w http.ResponseWriter, r *http.Request) {
	if _, ok := c.requireUserID(w, r); !ok {
		return
	}

	input := SkipInput{Publish: true}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			c.writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}

	entry, err := c.boothService.Advance(r.Context(), &booth.AdvanceParams{
		Remove:      input.Remove,
		SkipPublish: !input.Publish,
	})
	if err != nil {
		c.handleError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusOK, map[string]any{"entry": entry})
}

type VoteInput struct {
	Direction int `json:"direction" validate:"required,oneof=-1 1"`
}

func (c controller) castVote(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.requireUserID(w, r)
	if !ok {
		return
	}

	var input VoteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		c.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if validationErrors, ok := c.validate.Validate(input); !ok {
		c.writeJSON(w, http.StatusBadRequest, map[string]any{"errors": validationErrors})
		return
	}

	if err := c.boothService.CastVote(r.Context(), userID, repobooth.VoteDirection(input.Direction)); err != nil {
		c.handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c controller) removeVote(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.requireUserID(w, r)
	if !ok {
		return
	}

	if err := c.boothService.RemoveVote(r.Context(), userID); err != nil {
		c.handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c controller) favorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.requireUserID(w, r)
	if !ok {
		return
	}

	if err := c.boothService.Favorite(r.Context(), userID); err != nil {
		c.handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c controller) unfavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.requireUserID(w, r)
	if !ok {
		return
	}

	if err := c.boothService.Unfavorite(r.Context(), userID); err != nil {
		c.handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c controller) getWaitlist(w http.ResponseWriter, r *http.Request) {
	waitlist, err := c.boothService.GetWaitlist(r.Context())
	if err != nil {
		c.handleError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusOK, waitlist)
}

func (c controller) joinWaitlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.requireUserID(w, r)
	if !ok {
		return
	}

	waitlist, err := c.boothService.JoinWaitlist(r.Context(), userID)
	if err != nil {
		c.handleError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusOK, waitlist)
}

func (c controller) leaveWaitlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.requireUserID(w, r)
	if !ok {
		return
	}

	target := chi.URLParam(r, "user-id")
	if target != userID {
		c.writeError(w, http.StatusForbidden, "cannot remove another user")
		return
	}

	waitlist, err := c.boothService.LeaveWaitlist(r.Context(), target)
	if err != nil {
		c.handleError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusOK, waitlist)
}
