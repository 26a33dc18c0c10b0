package record

import "time"

type User struct {
	ID               string    `json:"id"`
	DisplayName      string    `json:"display_name"`
	ActivePlaylistID *string   `json:"active_playlist_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Playlist owns the ordered list of its item ids.
type Playlist struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Name      string    `json:"name"`
	ItemIDs   []string  `json:"item_ids"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p Playlist) Size() int {
	return len(p.ItemIDs)
}

type PlaylistItem struct {
	ID        string    `json:"id"`
	MediaID   string    `json:"media_id"`
	Artist    string    `json:"artist"`
	Title     string    `json:"title"`
	Start     int       `json:"start"`
	End       int       `json:"end"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Media is unique by (SourceType, SourceID) and immutable once created.
type Media struct {
	ID         string    `json:"id"`
	SourceType string    `json:"source_type"`
	SourceID   string    `json:"source_id"`
	Duration   int       `json:"duration"`
	Artist     string    `json:"artist"`
	Title      string    `json:"title"`
	CreatedAt  time.Time `json:"created_at"`
}

// MediaSnapshot is the value copy of the played item stored on a history
// entry, so later playlist edits don't rewrite history.
type MediaSnapshot struct {
	MediaID string `json:"media"`
	Artist  string `json:"artist"`
	Title   string `json:"title"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

type HistoryEntry struct {
	ID             string        `json:"id"`
	UserID         string        `json:"user_id"`
	PlaylistID     string        `json:"playlist_id"`
	PlaylistItemID string        `json:"playlist_item_id"`
	Media          MediaSnapshot `json:"media"`
	PlayedAt       time.Time     `json:"played_at"`
	Upvotes        []string      `json:"upvotes"`
	Downvotes      []string      `json:"downvotes"`
	Favorites      []string      `json:"favorites"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}
