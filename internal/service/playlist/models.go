package playlist

import "github.com/EDM-Spot/core/internal/repository/record"

type ItemWithMedia struct {
	record.PlaylistItem
	Media record.Media `json:"media"`
}

// Page is a window over a playlist's (optionally filtered) items.
type Page struct {
	Items    []ItemWithMedia `json:"items"`
	Offset   int             `json:"offset"`
	PageSize int             `json:"page_size"`
	Filtered bool            `json:"filtered"`
	Total    int             `json:"total"`
	Next     *int            `json:"next"`
	Previous *int            `json:"previous"`
}

// NewItem is one entry of an addPlaylistItems request, normalized at the
// controller boundary: SourceID is always a string there, even when the
// client sent a number.
type NewItem struct {
	SourceType string `json:"source_type"`
	SourceID   string `json:"source_id"`
	Artist     string `json:"artist"`
	Title      string `json:"title"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
}

type AddPlaylistItemsParams struct {
	PlaylistID string    `json:"playlist_id"`
	Items      []NewItem `json:"items"`
	// AfterID is the item to insert after; nil inserts at the head.
	AfterID *string `json:"after_id"`
}

type AddPlaylistItemsResponse struct {
	Added        []ItemWithMedia `json:"added"`
	AfterID      *string         `json:"after_id"`
	PlaylistSize int             `json:"playlist_size"`
}

type MovePlaylistItemsParams struct {
	PlaylistID string   `json:"playlist_id"`
	ItemIDs    []string `json:"item_ids"`
	AfterID    *string  `json:"after_id"`
}

type GetPlaylistItemsParams struct {
	PlaylistID string `json:"playlist_id"`
	Filter     string `json:"filter"`
	Offset     int    `json:"offset"`
	Limit      int    `json:"limit"`
}

type UpdatePlaylistItemParams struct {
	ItemID string  `json:"item_id"`
	Artist *string `json:"artist"`
	Title  *string `json:"title"`
	Start  *int    `json:"start"`
	End    *int    `json:"end"`
}

type CreatePlaylistParams struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

type UpdatePlaylistParams struct {
	PlaylistID string  `json:"playlist_id"`
	Name       *string `json:"name"`
}
