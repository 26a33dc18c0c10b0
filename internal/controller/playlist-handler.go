package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/EDM-Spot/core/internal/service/playlist"
)

func (c controller) getPlaylists(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.requireUserID(w, r)
	if !ok {
		return
	}

	playlists, err := c.playlistService.GetUserPlaylists(r.Context(), userID)
	if err != nil {
		c.handleError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusOK, playlists)
}

type CreatePlaylistInput struct {
	Name string `json:"name" validate:"required,min=1,max=128"`
}

func (c controller) createPlaylist(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.requireUserID(w, r)
	if !ok {
		return
	}

	var input CreatePlaylistInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		c.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if validationErrors, ok := c.validate.Validate(input); !ok {
		c.writeJSON(w, http.StatusBadRequest, map[string]any{"errors": validationErrors})
		return
	}

	created, err := c.playlistService.CreatePlaylist(r.Context(), &playlist.CreatePlaylistParams{
		UserID: userID,
		Name:   input.Name,
	})
	if err != nil {
		c.handleError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusCreated, created)
}

func (c controller) getPlaylist(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.requireUserID(w, r)
	if !ok {
		return
	}

	found, err := c.playlistService.GetUserPlaylist(r.Context(), userID, chi.URLParam(r, "playlist-id"))
	if err != nil {
		c.handleError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusOK, found)
}

type UpdatePlaylistInput struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=128"`
}

func (c controller) updatePlaylist(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.requireUserID(w, r)
	if !ok {
		return
	}

	var input UpdatePlaylistInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		c.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if validationErrors, ok := c.validate.Validate(input); !ok {
		c.writeJSON(w, http.StatusBadRequest, map[string]any{"errors": validationErrors})
		return
	}

	playlistID := chi.URLParam(r, "playlist-id")
	if _, err := c.playlistService.GetUserPlaylist(r.Context(), userID, playlistID); err != nil {
		c.handleError(w, r, err)
		return
	}

	updated, err := c.playlistService.UpdatePlaylist(r.Context(), &playlist.UpdatePlaylistParams{
		PlaylistID: playlistID,
		Name:       input.Name,
	})
	if err != nil {
		c.handleError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusOK, updated)
}

func (c controller) shufflePlaylist(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.requireUserID(w, r)
	if !ok {
		return
	}

	playlistID := chi.URLParam(r, "playlist-id")
	if _, err := c.playlistService.GetUserPlaylist(r.Context(), userID, playlistID); err != nil {
		c.handleError(w, r, err)
		return
	}

	shuffled, err := c.playlistService.ShufflePlaylist(r.Context(), playlistID)
	if err != nil {
		c.handleError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusOK, shuffled)
}

func (c controller) deletePlaylist(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.requireUserID(w, r)
	if !ok {
		return
	}

	playlistID := chi.URLParam(r, "playlist-id")
	if _, err := c.playlistService.GetUserPlaylist(r.Context(), userID, playlistID); err != nil {
		c.handleError(w, r, err)
		return
	}

	if err := c.playlistService.DeletePlaylist(r.Context(), playlistID); err != nil {
		c.handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c controller) getPlaylistItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.requireUserID(w, r)
	if !ok {
		return
	}

	playlistID := chi.URLParam(r, "playlist-id")
	if _, err := c.playlistService.GetUserPlaylist(r.Context(), userID, playlistID); err != nil {
		c.handleError(w, r, err)
		return
	}

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	page, err := c.playlistService.GetPlaylistItems(r.Context(), &playlist.GetPlaylistItemsParams{
		PlaylistID: playlistID,
		Filter:     r.URL.Query().Get("filter"),
		Offset:     offset,
		Limit:      limit,
	})
	if err != nil {
		c.handleError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusOK, page)
}

// NewItemInput is duck-typed on purpose: clients send source ids as
// strings or numbers.
type NewItemInput struct {
	SourceType string `json:"sourceType" validate:"required"`
	SourceID   any    `json:"sourceID" validate:"required"`
	Artist     string `json:"artist"`
	Title      string `json:"title"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
}

type AddPlaylistItemsInput struct {
	Items []NewItemInput `json:"items" validate:"required,min=1,dive"`
	After *string        `json:"after"`
}

// normalizeSourceID accepts the id-equivalent forms of a source id and
// normalizes them to a string at the boundary.
func normalizeSourceID(v any) (string, bool) {
	switch id := v.(type) {
	case string:
		return id, id != ""
	case json.Number:
		return id.String(), true
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), true
	default:
		return "", false
	}
}

func (c controller) addPlaylistItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.requireUserID(w, r)
	if !ok {
		return
	}

	playlistID := chi.URLParam(r, "playlist-id")
	if _, err := c.playlistService.GetUserPlaylist(r.Context(), userID, playlistID); err != nil {
		c.handleError(w, r, err)
		return
	}

	var input AddPlaylistItemsInput
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&input); err != nil {
		c.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if validationErrors, ok := c.validate.Validate(input); !ok {
		c.writeJSON(w, http.StatusBadRequest, map[string]any{"errors": validationErrors})
		return
	}

	items := make([]playlist.NewItem, 0, len(input.Items))
	for i, item := range input.Items {
		sourceID, ok := normalizeSourceID(item.SourceID)
		if !ok {
			c.writeError(w, http.StatusBadRequest, fmt.Sprintf("items[%d]: sourceID must be a string or a number", i))
			return
		}

		items = append(items, playlist.NewItem{
			SourceType: item.SourceType,
			SourceID:   sourceID,
			Artist:     item.Artist,
			Title:      item.Title,
			Start:      item.Start,
			End:        item.End,
		})
	}

	resp, err := c.playlistService.AddPlaylistItems(r.Context(), &playlist.AddPlaylistItemsParams{
		PlaylistID: playlistID,
		Items:      items,
		AfterID:    input.After,
	})
	if err != nil {
		c.handleError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusOK, resp)
}

type MovePlaylistItemsInput struct {
	Items []string `json:"items" validate:"required,min=1"`
	After *string  `json:"after"`
}

func (c controller) movePlaylistItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.requireUserID(w, r)
	if !ok {
		return
	}

	playlistID := chi.URLParam(r, "playlist-id")
	if _, err := c.playlistService.GetUserPlaylist(r.Context(), userID, playlistID); err != nil {
		c.handleError(w, r, err)
		return
	}

	var input MovePlaylistItemsInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		c.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if validationErrors, ok := c.validate.Validate(input); !ok {
		c.writeJSON(w, http.StatusBadRequest, map[string]any{"errors": validationErrors})
		return
	}

	if err := c.playlistService.MovePlaylistItems(r.Context(), &playlist.MovePlaylistItemsParams{
		PlaylistID: playlistID,
		ItemIDs:    input.Items,
		AfterID:    input.After,
	}); err != nil {
		c.handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type RemovePlaylistItemsInput struct {
	Items []string `json:"items" validate:"required,min=1"`
}

func (c controller) removePlaylistItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.requireUserID(w, r)
	if !ok {
		return
	}

	playlistID := chi.URLParam(r, "playlist-id")
	if _, err := c.playlistService.GetUserPlaylist(r.Context(), userID, playlistID); err != nil {
		c.handleError(w, r, err)
		return
	}

	var input RemovePlaylistItemsInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		c.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := c.playlistService.RemovePlaylistItems(r.Context(), playlistID, input.Items); err != nil {
		c.handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c controller) getPlaylistItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.requireUserID(w, r)
	if !ok {
		return
	}

	if _, err := c.playlistService.GetUserPlaylist(r.Context(), userID, chi.URLParam(r, "playlist-id")); err != nil {
		c.handleError(w, r, err)
		return
	}

	item, err := c.playlistService.GetPlaylistItem(r.Context(), chi.URLParam(r, "item-id"))
	if err != nil {
		c.handleError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusOK, item)
}

type UpdatePlaylistItemInput struct {
	Artist *string `json:"artist" validate:"omitempty,min=1"`
	Title  *string `json:"title" validate:"omitempty,min=1"`
	Start  *int    `json:"start" validate:"omitempty,min=0"`
	End    *int    `json:"end" validate:"omitempty,min=0"`
}

func (c controller) updatePlaylistItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := c.requireUserID(w, r)
	if !ok {
		return
	}

	if _, err := c.playlistService.GetUserPlaylist(r.Context(), userID, chi.URLParam(r, "playlist-id")); err != nil {
		c.handleError(w, r, err)
		return
	}

	var input UpdatePlaylistItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		c.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if validationErrors, ok := c.validate.Validate(input); !ok {
		c.writeJSON(w, http.StatusBadRequest, map[string]any{"errors": validationErrors})
		return
	}

	item, err := c.playlistService.UpdatePlaylistItem(r.Context(), &playlist.UpdatePlaylistItemParams{
		ItemID: chi.URLParam(r, "item-id"),
		Artist: input.Artist,
		Title:  input.Title,
		Start:  input.Start,
		End:    input.End,
	})
	if err != nil {
		c.handleError(w, r, err)
		return
	}

	c.writeJSON(w, http.StatusOK, item)
}
