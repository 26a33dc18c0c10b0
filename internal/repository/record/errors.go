package record

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrPlaylistNotFound     = errors.New("playlist not found")
	ErrPlaylistItemNotFound = errors.New("playlist item not found")
	ErrMediaNotFound        = errors.New("media not found")
	ErrHistoryEntryNotFound = errors.New("history entry not found")
)
