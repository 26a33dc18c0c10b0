package record

import "time"

type CreateUserParams struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

type CreatePlaylistParams struct {
	AuthorID string `json:"author_id"`
	Name     string `json:"name"`
}

type UpdatePlaylistParams struct {
	PlaylistID string  `json:"playlist_id"`
	Name       *string `json:"name"`
}

type CreatePlaylistItemParams struct {
	MediaID string `json:"media_id"`
	Artist  string `json:"artist"`
	Title   string `json:"title"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

type UpdatePlaylistItemParams struct {
	ItemID string  `json:"item_id"`
	Artist *string `json:"artist"`
	Title  *string `json:"title"`
	Start  *int    `json:"start"`
	End    *int    `json:"end"`
}

type CreateMediaParams struct {
	SourceType string `json:"source_type"`
	SourceID   string `json:"source_id"`
	Duration   int    `json:"duration"`
	Artist     string `json:"artist"`
	Title      string `json:"title"`
}

type CreateHistoryEntryParams struct {
	UserID         string        `json:"user_id"`
	PlaylistID     string        `json:"playlist_id"`
	PlaylistItemID string        `json:"playlist_item_id"`
	Media          MediaSnapshot `json:"media"`
	PlayedAt       time.Time     `json:"played_at"`
}

type SealHistoryEntryParams struct {
	HistoryEntryID string   `json:"history_entry_id"`
	Upvotes        []string `json:"upvotes"`
	Downvotes      []string `json:"downvotes"`
	Favorites      []string `json:"favorites"`
}
