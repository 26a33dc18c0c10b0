package playlist

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/EDM-Spot/core/internal/repository/record"
)

// clampStartEnd enforces 0 <= start <= end <= duration. A zero or
// overlong end means "play to the end of the media".
func clampStartEnd(start, end, duration int) (int, int) {
	if start < 0 {
		start = 0
	}
	if start > duration {
		start = duration
	}
	if end <= 0 || end > duration {
		end = duration
	}
	if end < start {
		end = start
	}

	return start, end
}

// AddPlaylistItems resolves media for the given items and inserts them
// contiguously after AfterID, or at the head when AfterID is nil or not
// present in the playlist.
func (s service) AddPlaylistItems(ctx context.Context, params *AddPlaylistItemsParams) (AddPlaylistItemsResponse, error) {
	for _, item := range params.Items {
		if item.SourceType == "" || item.SourceID == "" {
			return AddPlaylistItemsResponse{}, ErrInvalidItemInput
		}
	}

	playlist, err := s.recordRepo.GetPlaylist(ctx, params.PlaylistID)
	if err != nil {
		return AddPlaylistItemsResponse{}, err
	}

	// One media lookup per source type; the resolver persists unknown
	// descriptors before returning them.
	bySourceType := make(map[string][]string)
	for _, item := range params.Items {
		if !slices.Contains(bySourceType[item.SourceType], item.SourceID) {
			bySourceType[item.SourceType] = append(bySourceType[item.SourceType], item.SourceID)
		}
	}

	mediaBySource := make(map[string]record.Media)
	for sourceType, sourceIDs := range bySourceType {
		media, err := s.resolver.Get(ctx, sourceType, sourceIDs)
		if err != nil {
			return AddPlaylistItemsResponse{}, fmt.Errorf("failed to resolve %q media: %w", sourceType, err)
		}

		for _, m := range media {
			mediaBySource[sourceType+":"+m.SourceID] = m
		}
	}

	createParams := make([]record.CreatePlaylistItemParams, 0, len(params.Items))
	itemMedia := make([]record.Media, 0, len(params.Items))
	for _, item := range params.Items {
		media, ok := mediaBySource[item.SourceType+":"+item.SourceID]
		if !ok {
			return AddPlaylistItemsResponse{}, ErrInvalidItemInput
		}

		artist, title := item.Artist, item.Title
		if artist == "" {
			artist = media.Artist
		}
		if title == "" {
			title = media.Title
		}
		start, end := clampStartEnd(item.Start, item.End, media.Duration)

		createParams = append(createParams, record.CreatePlaylistItemParams{
			MediaID: media.ID,
			Artist:  artist,
			Title:   title,
			Start:   start,
			End:     end,
		})
		itemMedia = append(itemMedia, media)
	}

	created, err := s.recordRepo.CreatePlaylistItems(ctx, createParams)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create playlist items", "error", err)
		return AddPlaylistItemsResponse{}, ErrItemSaveFailed
	}

	createdIDs := make([]string, 0, len(created))
	for _, item := range created {
		createdIDs = append(createdIDs, item.ID)
	}

	order := insertAfter(playlist.ItemIDs, createdIDs, params.AfterID)
	if err := s.recordRepo.SetPlaylistItems(ctx, params.PlaylistID, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to save playlist order", "error", err)
		return AddPlaylistItemsResponse{}, ErrItemSaveFailed
	}

	added := make([]ItemWithMedia, 0, len(created))
	for i, item := range created {
		added = append(added, ItemWithMedia{PlaylistItem: item, Media: itemMedia[i]})
	}

	return AddPlaylistItemsResponse{
		Added:        added,
		AfterID:      params.AfterID,
		PlaylistSize: len(order),
	}, nil
}

// insertAfter splices ids into order directly after afterID. A nil or
// unknown afterID inserts at index 0.
func insertAfter(order, ids []string, afterID *string) []string {
	at := 0
	if afterID != nil {
		if i := slices.Index(order, *afterID); i >= 0 {
			at = i + 1
		}
	}

	merged := make([]string, 0, len(order)+len(ids))
	merged = append(merged, order[:at]...)
	merged = append(merged, ids...)
	merged = append(merged, order[at:]...)

	return merged
}

// MovePlaylistItems removes the given ids from the order and re-inserts
// them contiguously after AfterID, preserving their order in ItemIDs.
func (s service) MovePlaylistItems(ctx context.Context, params *MovePlaylistItemsParams) error {
	playlist, err := s.recordRepo.GetPlaylist(ctx, params.PlaylistID)
	if err != nil {
		return err
	}

	moved := make([]string, 0, len(params.ItemIDs))
	for _, itemID := range params.ItemIDs {
		if slices.Contains(playlist.ItemIDs, itemID) {
			moved = append(moved, itemID)
		}
	}

	remaining := make([]string, 0, len(playlist.ItemIDs))
	for _, itemID := range playlist.ItemIDs {
		if !slices.Contains(moved, itemID) {
			remaining = append(remaining, itemID)
		}
	}

	order := insertAfter(remaining, moved, params.AfterID)
	if err := s.recordRepo.SetPlaylistItems(ctx, params.PlaylistID, order); err != nil {
		return fmt.Errorf("failed to save playlist order: %w", err)
	}

	return nil
}

// RemovePlaylistItems deletes both the playlist references and the item
// records. Ids not present in the playlist are ignored.
func (s service) RemovePlaylistItems(ctx context.Context, playlistID string, itemIDs []string) error {
	playlist, err := s.recordRepo.GetPlaylist(ctx, playlistID)
	if err != nil {
		return err
	}

	removed := make([]string, 0, len(itemIDs))
	remaining := make([]string, 0, len(playlist.ItemIDs))
	for _, itemID := range playlist.ItemIDs {
		if slices.Contains(itemIDs, itemID) {
			removed = append(removed, itemID)
		} else {
			remaining = append(remaining, itemID)
		}
	}

	if err := s.recordRepo.SetPlaylistItems(ctx, playlistID, remaining); err != nil {
		return fmt.Errorf("failed to save playlist order: %w", err)
	}

	if err := s.recordRepo.RemovePlaylistItems(ctx, removed); err != nil {
		return fmt.Errorf("failed to remove playlist items: %w", err)
	}

	return nil
}

// GetPlaylistItems returns a page of the playlist's items. A filter
// retains items whose artist or title contains the pattern,
// case-insensitively, in original order.
func (s service) GetPlaylistItems(ctx context.Context, params *GetPlaylistItemsParams) (Page, error) {
	playlist, err := s.recordRepo.GetPlaylist(ctx, params.PlaylistID)
	if err != nil {
		return Page{}, err
	}

	items, err := s.recordRepo.GetPlaylistItems(ctx, playlist.ItemIDs)
	if err != nil {
		return Page{}, fmt.Errorf("failed to get playlist items: %w", err)
	}

	filtered := params.Filter != ""
	if filtered {
		pattern := strings.ToLower(params.Filter)
		matched := items[:0:0]
		for _, item := range items {
			if strings.Contains(strings.ToLower(item.Artist), pattern) ||
				strings.Contains(strings.ToLower(item.Title), pattern) {
				matched = append(matched, item)
			}
		}
		items = matched
	}

	total := len(items)
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}

	end := offset + limit
	if end > total {
		end = total
	}

	window, err := s.populateMedia(ctx, items[offset:end])
	if err != nil {
		return Page{}, err
	}

	page := Page{
		Items:    window,
		Offset:   offset,
		PageSize: limit,
		Filtered: filtered,
		Total:    total,
	}
	if end < total {
		next := end
		page.Next = &next
	}
	if offset > 0 {
		previous := offset - limit
		if previous < 0 {
			previous = 0
		}
		page.Previous = &previous
	}

	return page, nil
}

func (s service) GetPlaylistItem(ctx context.Context, itemID string) (ItemWithMedia, error) {
	item, err := s.recordRepo.GetPlaylistItem(ctx, itemID)
	if err != nil {
		return ItemWithMedia{}, err
	}

	media, err := s.recordRepo.GetMedia(ctx, item.MediaID)
	if err != nil {
		return ItemWithMedia{}, fmt.Errorf("failed to get media: %w", err)
	}

	return ItemWithMedia{PlaylistItem: item, Media: media}, nil
}

// FirstPlaylistItem loads the playlist's head item with its media.
func (s service) FirstPlaylistItem(ctx context.Context, playlistID string) (ItemWithMedia, error) {
	playlist, err := s.recordRepo.GetPlaylist(ctx, playlistID)
	if err != nil {
		return ItemWithMedia{}, err
	}

	if len(playlist.ItemIDs) == 0 {
		return ItemWithMedia{}, record.ErrPlaylistItemNotFound
	}

	return s.GetPlaylistItem(ctx, playlist.ItemIDs[0])
}

// UpdatePlaylistItem patches the mutable item fields, re-clamping start
// and end against the media duration before persisting.
func (s service) UpdatePlaylistItem(ctx context.Context, params *UpdatePlaylistItemParams) (ItemWithMedia, error) {
	item, err := s.recordRepo.GetPlaylistItem(ctx, params.ItemID)
	if err != nil {
		return ItemWithMedia{}, err
	}

	media, err := s.recordRepo.GetMedia(ctx, item.MediaID)
	if err != nil {
		return ItemWithMedia{}, fmt.Errorf("failed to get media: %w", err)
	}

	start, end := item.Start, item.End
	if params.Start != nil {
		start = *params.Start
	}
	if params.End != nil {
		end = *params.End
	}
	start, end = clampStartEnd(start, end, media.Duration)

	updated, err := s.recordRepo.UpdatePlaylistItem(ctx, &record.UpdatePlaylistItemParams{
		ItemID: params.ItemID,
		Artist: params.Artist,
		Title:  params.Title,
		Start:  &start,
		End:    &end,
	})
	if err != nil {
		return ItemWithMedia{}, fmt.Errorf("failed to update playlist item: %w", err)
	}

	return ItemWithMedia{PlaylistItem: updated, Media: media}, nil
}

func (s service) populateMedia(ctx context.Context, items []record.PlaylistItem) ([]ItemWithMedia, error) {
	mediaByID := make(map[string]record.Media)
	populated := make([]ItemWithMedia, 0, len(items))
	for _, item := range items {
		media, ok := mediaByID[item.MediaID]
		if !ok {
			var err error
			media, err = s.recordRepo.GetMedia(ctx, item.MediaID)
			if err != nil {
				return nil, fmt.Errorf("failed to get media: %w", err)
			}
			mediaByID[item.MediaID] = media
		}

		populated = append(populated, ItemWithMedia{PlaylistItem: item, Media: media})
	}

	return populated, nil
}
