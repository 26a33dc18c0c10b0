package inmemory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/EDM-Spot/core/internal/repository/record"
)

// repo keeps every record in process memory. It backs tests and
// single-node runs without a database.
type repo struct {
	users     map[string]record.User
	playlists map[string]record.Playlist
	items     map[string]record.PlaylistItem
	media     map[string]record.Media
	history   map[string]record.HistoryEntry
	mu        sync.RWMutex
}

func NewRepo() *repo {
	return &repo{
		users:     make(map[string]record.User),
		playlists: make(map[string]record.Playlist),
		items:     make(map[string]record.PlaylistItem),
		media:     make(map[string]record.Media),
		history:   make(map[string]record.HistoryEntry),
	}
}

func (r *repo) CreateUser(ctx context.Context, params *record.CreateUserParams) (record.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	user := record.User{
		ID:          params.UserID,
		DisplayName: params.DisplayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	r.users[user.ID] = user

	return user, nil
}

func (r *repo) GetUser(ctx context.Context, userID string) (record.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return record.User{}, record.ErrUserNotFound
	}

	return user, nil
}

func (r *repo) UpdateUserActivePlaylist(ctx context.Context, userID string, playlistID *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return record.ErrUserNotFound
	}

	user.ActivePlaylistID = playlistID
	user.UpdatedAt = time.Now()
	r.users[userID] = user

	return nil
}

func (r *repo) CreatePlaylist(ctx context.Context, params *record.CreatePlaylistParams) (record.Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	playlist := record.Playlist{
		ID:        uuid.NewString(),
		AuthorID:  params.AuthorID,
		Name:      params.Name,
		ItemIDs:   []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.playlists[playlist.ID] = playlist

	return playlist, nil
}

func (r *repo) GetPlaylist(ctx context.Context, playlistID string) (record.Playlist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	playlist, ok := r.playlists[playlistID]
	if !ok {
		return record.Playlist{}, record.ErrPlaylistNotFound
	}
	playlist.ItemIDs = slices.Clone(playlist.ItemIDs)

	return playlist, nil
}

func (r *repo) GetUserPlaylists(ctx context.Context, authorID string) ([]record.Playlist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	playlists := make([]record.Playlist, 0)
	for _, playlist := range r.playlists {
		if playlist.AuthorID == authorID {
			playlist.ItemIDs = slices.Clone(playlist.ItemIDs)
			playlists = append(playlists, playlist)
		}
	}
	slices.SortFunc(playlists, func(a, b record.Playlist) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	return playlists, nil
}

func (r *repo) UpdatePlaylist(ctx context.Context, params *record.UpdatePlaylistParams) (record.Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	playlist, ok := r.playlists[params.PlaylistID]
	if !ok {
		return record.Playlist{}, record.ErrPlaylistNotFound
	}

	if params.Name != nil {
		playlist.Name = *params.Name
	}
	playlist.UpdatedAt = time.Now()
	r.playlists[playlist.ID] = playlist

	return playlist, nil
}

func (r *repo) DeletePlaylist(ctx context.Context, playlistID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	playlist, ok := r.playlists[playlistID]
	if !ok {
		return record.ErrPlaylistNotFound
	}

	for _, itemID := range playlist.ItemIDs {
		delete(r.items, itemID)
	}
	delete(r.playlists, playlistID)

	return nil
}

func (r *repo) SetPlaylistItems(ctx context.Context, playlistID string, itemIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	playlist, ok := r.playlists[playlistID]
	if !ok {
		return record.ErrPlaylistNotFound
	}

	playlist.ItemIDs = slices.Clone(itemIDs)
	playlist.UpdatedAt = time.Now()
	r.playlists[playlistID] = playlist

	return nil
}

func (r *repo) CreatePlaylistItems(ctx context.Context, params []record.CreatePlaylistItemParams) ([]record.PlaylistItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	items := make([]record.PlaylistItem, 0, len(params))
	for _, p := range params {
		item := record.PlaylistItem{
			ID:        uuid.NewString(),
			MediaID:   p.MediaID,
			Artist:    p.Artist,
			Title:     p.Title,
			Start:     p.Start,
			End:       p.End,
			CreatedAt: now,
			UpdatedAt: now,
		}
		r.items[item.ID] = item
		items = append(items, item)
	}

	return items, nil
}

func (r *repo) GetPlaylistItem(ctx context.Context, itemID string) (record.PlaylistItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[itemID]
	if !ok {
		return record.PlaylistItem{}, record.ErrPlaylistItemNotFound
	}

	return item, nil
}

func (r *repo) GetPlaylistItems(ctx context.Context, itemIDs []string) ([]record.PlaylistItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]record.PlaylistItem, 0, len(itemIDs))
	for _, itemID := range itemIDs {
		if item, ok := r.items[itemID]; ok {
			items = append(items, item)
		}
	}

	return items, nil
}

func (r *repo) UpdatePlaylistItem(ctx context.Context, params *record.UpdatePlaylistItemParams) (record.PlaylistItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[params.ItemID]
	if !ok {
		return record.PlaylistItem{}, record.ErrPlaylistItemNotFound
	}

	if params.Artist != nil {
		item.Artist = *params.Artist
	}
	if params.Title != nil {
		item.Title = *params.Title
	}
	if params.Start != nil {
		item.Start = *params.Start
	}
	if params.End != nil {
		item.End = *params.End
	}
	item.UpdatedAt = time.Now()
	r.items[item.ID] = item

	return item, nil
}

func (r *repo) RemovePlaylistItems(ctx context.Context, itemIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, itemID := range itemIDs {
		delete(r.items, itemID)
	}

	return nil
}

func (r *repo) GetMedia(ctx context.Context, mediaID string) (record.Media, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	media, ok := r.media[mediaID]
	if !ok {
		return record.Media{}, record.ErrMediaNotFound
	}

	return media, nil
}

func (r *repo) GetMediaBySource(ctx context.Context, sourceType string, sourceIDs []string) ([]record.Media, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	media := make([]record.Media, 0, len(sourceIDs))
	for _, m := range r.media {
		if m.SourceType == sourceType && slices.Contains(sourceIDs, m.SourceID) {
			media = append(media, m)
		}
	}

	return media, nil
}

func (r *repo) CreateMedia(ctx context.Context, params []record.CreateMediaParams) ([]record.Media, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	media := make([]record.Media, 0, len(params))
	for _, p := range params {
		m := record.Media{
			ID:         uuid.NewString(),
			SourceType: p.SourceType,
			SourceID:   p.SourceID,
			Duration:   p.Duration,
			Artist:     p.Artist,
			Title:      p.Title,
			CreatedAt:  now,
		}
		r.media[m.ID] = m
		media = append(media, m)
	}

	return media, nil
}

func (r *repo) CreateHistoryEntry(ctx context.Context, params *record.CreateHistoryEntryParams) (record.HistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	entry := record.HistoryEntry{
		ID:             uuid.NewString(),
		UserID:         params.UserID,
		PlaylistID:     params.PlaylistID,
		PlaylistItemID: params.PlaylistItemID,
		Media:          params.Media,
		PlayedAt:       params.PlayedAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	r.history[entry.ID] = entry

	return entry, nil
}

func (r *repo) GetHistoryEntry(ctx context.Context, entryID string) (record.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.history[entryID]
	if !ok {
		return record.HistoryEntry{}, record.ErrHistoryEntryNotFound
	}

	return entry, nil
}

// SealHistoryEntry attaches the final vote tallies. It does not check
// whether the entry was sealed before: a second call replaces the
// stored tallies.
func (r *repo) SealHistoryEntry(ctx context.Context, params *record.SealHistoryEntryParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.history[params.HistoryEntryID]
	if !ok {
		return record.ErrHistoryEntryNotFound
	}

	entry.Upvotes = slices.Clone(params.Upvotes)
	entry.Downvotes = slices.Clone(params.Downvotes)
	entry.Favorites = slices.Clone(params.Favorites)
	entry.UpdatedAt = time.Now()
	r.history[entry.ID] = entry

	return nil
}
