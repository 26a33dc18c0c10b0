package playlist

import (
	"context"
	"log/slog"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EDM-Spot/core/internal/repository/record"
	"github.com/EDM-Spot/core/internal/repository/record/inmemory"
)

// stubResolver materializes media the way the real resolver does,
// persisting unknown descriptors, without talking to any source.
type stubResolver struct {
	recordRepo iRecordRepo
	durations  map[string]int
}

func (r stubResolver) Get(ctx context.Context, sourceType string, sourceIDs []string) ([]record.Media, error) {
	known, err := r.recordRepo.GetMediaBySource(ctx, sourceType, sourceIDs)
	if err != nil {
		return nil, err
	}

	bySourceID := make(map[string]record.Media, len(sourceIDs))
	for _, m := range known {
		bySourceID[m.SourceID] = m
	}

	params := make([]record.CreateMediaParams, 0)
	for _, sourceID := range sourceIDs {
		if _, ok := bySourceID[sourceID]; ok {
			continue
		}

		duration := r.durations[sourceID]
		if duration == 0 {
			duration = 180
		}
		params = append(params, record.CreateMediaParams{
			SourceType: sourceType,
			SourceID:   sourceID,
			Duration:   duration,
			Artist:     "artist-" + sourceID,
			Title:      "title-" + sourceID,
		})
	}

	created, err := r.recordRepo.CreateMedia(ctx, params)
	if err != nil {
		return nil, err
	}
	for _, m := range created {
		bySourceID[m.SourceID] = m
	}

	media := make([]record.Media, 0, len(sourceIDs))
	for _, sourceID := range sourceIDs {
		media = append(media, bySourceID[sourceID])
	}

	return media, nil
}

type testRecordRepo interface {
	iRecordRepo
	CreateUser(context.Context, *record.CreateUserParams) (record.User, error)
}

func newTestService(t *testing.T) (*service, testRecordRepo) {
	t.Helper()
	recordRepo := inmemory.NewRepo()
	svc := NewService(recordRepo, stubResolver{recordRepo: recordRepo, durations: map[string]int{}}, slog.Default())

	return svc, recordRepo
}

func seedPlaylist(t *testing.T, svc *service, recordRepo testRecordRepo) (string, record.Playlist) {
	t.Helper()
	ctx := context.Background()

	user, err := recordRepo.CreateUser(ctx, &record.CreateUserParams{DisplayName: "dj"})
	require.NoError(t, err)

	pl, err := svc.CreatePlaylist(ctx, &CreatePlaylistParams{UserID: user.ID, Name: "jams"})
	require.NoError(t, err)

	return user.ID, pl
}

func newItems(sourceIDs ...string) []NewItem {
	items := make([]NewItem, 0, len(sourceIDs))
	for _, sourceID := range sourceIDs {
		items = append(items, NewItem{SourceType: "youtube", SourceID: sourceID})
	}

	return items
}

func itemIDsOf(added []ItemWithMedia) []string {
	ids := make([]string, 0, len(added))
	for _, item := range added {
		ids = append(ids, item.ID)
	}

	return ids
}

func TestCreatePlaylistSetsFirstActive(t *testing.T) {
	svc, recordRepo := newTestService(t)
	ctx := context.Background()

	userID, pl := seedPlaylist(t, svc, recordRepo)

	user, err := recordRepo.GetUser(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, user.ActivePlaylistID)
	assert.Equal(t, pl.ID, *user.ActivePlaylistID, "the first playlist becomes active")

	second, err := svc.CreatePlaylist(ctx, &CreatePlaylistParams{UserID: userID, Name: "more jams"})
	require.NoError(t, err)

	user, err = recordRepo.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, pl.ID, *user.ActivePlaylistID, "later playlists do not steal the active slot")
	assert.NotEqual(t, pl.ID, second.ID)
}

func TestAddPlaylistItemsValidation(t *testing.T) {
	svc, recordRepo := newTestService(t)
	ctx := context.Background()

	_, pl := seedPlaylist(t, svc, recordRepo)

	_, err := svc.AddPlaylistItems(ctx, &AddPlaylistItemsParams{
		PlaylistID: pl.ID,
		Items:      []NewItem{{SourceType: "", SourceID: "x"}},
	})
	assert.ErrorIs(t, err, ErrInvalidItemInput)

	_, err = svc.AddPlaylistItems(ctx, &AddPlaylistItemsParams{
		PlaylistID: pl.ID,
		Items:      []NewItem{{SourceType: "youtube", SourceID: ""}},
	})
	assert.ErrorIs(t, err, ErrInvalidItemInput)
}

func TestAddRemoveRoundTrip(t *testing.T) {
	svc, recordRepo := newTestService(t)
	ctx := context.Background()

	_, pl := seedPlaylist(t, svc, recordRepo)

	base, err := svc.AddPlaylistItems(ctx, &AddPlaylistItemsParams{
		PlaylistID: pl.ID,
		Items:      newItems("a", "b"),
	})
	require.NoError(t, err)
	require.Len(t, base.Added, 2)
	assert.Equal(t, 2, base.PlaylistSize)

	before, err := svc.GetPlaylist(ctx, pl.ID)
	require.NoError(t, err)

	extra, err := svc.AddPlaylistItems(ctx, &AddPlaylistItemsParams{
		PlaylistID: pl.ID,
		Items:      newItems("c", "d"),
		AfterID:    &base.Added[0].ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, extra.PlaylistSize)

	middle, err := svc.GetPlaylist(ctx, pl.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{
		base.Added[0].ID, extra.Added[0].ID, extra.Added[1].ID, base.Added[1].ID,
	}, middle.ItemIDs, "items are inserted contiguously after the given id")

	require.NoError(t, svc.RemovePlaylistItems(ctx, pl.ID, itemIDsOf(extra.Added)))

	after, err := svc.GetPlaylist(ctx, pl.ID)
	require.NoError(t, err)
	assert.Equal(t, before.ItemIDs, after.ItemIDs, "removing the added items restores the prior list")

	// the removed item records are gone too
	_, err = svc.GetPlaylistItem(ctx, extra.Added[0].ID)
	assert.ErrorIs(t, err, record.ErrPlaylistItemNotFound)
}

func TestAddPlaylistItemsAtHead(t *testing.T) {
	svc, recordRepo := newTestService(t)
	ctx := context.Background()

	_, pl := seedPlaylist(t, svc, recordRepo)

	first, err := svc.AddPlaylistItems(ctx, &AddPlaylistItemsParams{PlaylistID: pl.ID, Items: newItems("a")})
	require.NoError(t, err)

	head, err := svc.AddPlaylistItems(ctx, &AddPlaylistItemsParams{PlaylistID: pl.ID, Items: newItems("b")})
	require.NoError(t, err)

	got, err := svc.GetPlaylist(ctx, pl.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{head.Added[0].ID, first.Added[0].ID}, got.ItemIDs, "a nil after inserts at the head")
}

func TestMovePlaylistItemsIdempotent(t *testing.T) {
	svc, recordRepo := newTestService(t)
	ctx := context.Background()

	_, pl := seedPlaylist(t, svc, recordRepo)

	added, err := svc.AddPlaylistItems(ctx, &AddPlaylistItemsParams{PlaylistID: pl.ID, Items: newItems("a", "b", "c")})
	require.NoError(t, err)
	a, b, c := added.Added[0].ID, added.Added[1].ID, added.Added[2].ID

	move := &MovePlaylistItemsParams{PlaylistID: pl.ID, ItemIDs: []string{a}, AfterID: &c}
	require.NoError(t, svc.MovePlaylistItems(ctx, move))

	got, err := svc.GetPlaylist(ctx, pl.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{b, c, a}, got.ItemIDs)

	// moving to the same spot again changes nothing
	require.NoError(t, svc.MovePlaylistItems(ctx, move))
	got, err = svc.GetPlaylist(ctx, pl.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{b, c, a}, got.ItemIDs)
}

func TestShufflePreservesMultiset(t *testing.T) {
	svc, recordRepo := newTestService(t)
	ctx := context.Background()

	_, pl := seedPlaylist(t, svc, recordRepo)

	added, err := svc.AddPlaylistItems(ctx, &AddPlaylistItemsParams{
		PlaylistID: pl.ID,
		Items:      newItems("a", "b", "c", "d", "e"),
	})
	require.NoError(t, err)

	want := itemIDsOf(added.Added)
	sort.Strings(want)

	shuffled, err := svc.ShufflePlaylist(ctx, pl.ID)
	require.NoError(t, err)

	got := append([]string(nil), shuffled.ItemIDs...)
	sort.Strings(got)
	assert.Equal(t, want, got)
}

func TestClampStartEnd(t *testing.T) {
	tests := []struct {
		name                 string
		start, end, duration int
		wantStart, wantEnd   int
	}{
		{"zero end plays whole media", 0, 0, 100, 0, 100},
		{"negative start clamps to zero", -5, 50, 100, 0, 50},
		{"end beyond duration clamps", 10, 500, 100, 10, 100},
		{"end before start collapses", 50, 10, 100, 50, 50},
		{"start beyond duration clamps", 500, 0, 100, 100, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := clampStartEnd(tt.start, tt.end, tt.duration)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestUpdatePlaylistItemReclamps(t *testing.T) {
	svc, recordRepo := newTestService(t)
	ctx := context.Background()

	_, pl := seedPlaylist(t, svc, recordRepo)

	added, err := svc.AddPlaylistItems(ctx, &AddPlaylistItemsParams{PlaylistID: pl.ID, Items: newItems("a")})
	require.NoError(t, err)
	itemID := added.Added[0].ID

	end := 9999
	updated, err := svc.UpdatePlaylistItem(ctx, &UpdatePlaylistItemParams{ItemID: itemID, End: &end})
	require.NoError(t, err)
	assert.Equal(t, 180, updated.End, "end is clamped to the media duration")

	artist := "Someone Else"
	start := -3
	updated, err = svc.UpdatePlaylistItem(ctx, &UpdatePlaylistItemParams{ItemID: itemID, Artist: &artist, Start: &start})
	require.NoError(t, err)
	assert.Equal(t, "Someone Else", updated.Artist)
	assert.Equal(t, 0, updated.Start)
}

func TestGetPlaylistItemsFilterAndPagination(t *testing.T) {
	svc, recordRepo := newTestService(t)
	ctx := context.Background()

	_, pl := seedPlaylist(t, svc, recordRepo)

	items := []NewItem{
		{SourceType: "youtube", SourceID: "a", Artist: "The Beatles", Title: "Help"},
		{SourceType: "youtube", SourceID: "b", Artist: "Daft Punk", Title: "Around the World"},
		{SourceType: "youtube", SourceID: "c", Artist: "The Beatles", Title: "Yesterday"},
		{SourceType: "youtube", SourceID: "d", Artist: "Queen", Title: "beatles tribute"},
	}
	_, err := svc.AddPlaylistItems(ctx, &AddPlaylistItemsParams{PlaylistID: pl.ID, Items: items})
	require.NoError(t, err)

	page, err := svc.GetPlaylistItems(ctx, &GetPlaylistItemsParams{PlaylistID: pl.ID, Filter: "beatles"})
	require.NoError(t, err)
	assert.True(t, page.Filtered)
	assert.Equal(t, 3, page.Total, "matches on artist or title, case-insensitively")

	page, err = svc.GetPlaylistItems(ctx, &GetPlaylistItemsParams{PlaylistID: pl.ID, Limit: 2})
	require.NoError(t, err)
	assert.False(t, page.Filtered)
	assert.Equal(t, 4, page.Total)
	assert.Len(t, page.Items, 2)
	require.NotNil(t, page.Next)
	assert.Equal(t, 2, *page.Next)
	assert.Nil(t, page.Previous)

	page, err = svc.GetPlaylistItems(ctx, &GetPlaylistItemsParams{PlaylistID: pl.ID, Offset: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Nil(t, page.Next)
	require.NotNil(t, page.Previous)
	assert.Equal(t, 0, *page.Previous)
}

func TestGetUserPlaylistOwnership(t *testing.T) {
	svc, recordRepo := newTestService(t)
	ctx := context.Background()

	userID, pl := seedPlaylist(t, svc, recordRepo)

	found, err := svc.GetUserPlaylist(ctx, userID, pl.ID)
	require.NoError(t, err)
	assert.Equal(t, pl.ID, found.ID)

	_, err = svc.GetUserPlaylist(ctx, "someone-else", pl.ID)
	assert.ErrorIs(t, err, record.ErrPlaylistNotFound)
}

func TestCyclePlaylist(t *testing.T) {
	svc, recordRepo := newTestService(t)
	ctx := context.Background()

	userID, pl := seedPlaylist(t, svc, recordRepo)

	added, err := svc.AddPlaylistItems(ctx, &AddPlaylistItemsParams{PlaylistID: pl.ID, Items: newItems("a", "b", "c")})
	require.NoError(t, err)
	a, b, c := added.Added[0].ID, added.Added[1].ID, added.Added[2].ID

	first, err := svc.FirstPlaylistItem(ctx, pl.ID)
	require.NoError(t, err)
	assert.Equal(t, a, first.ID)
	assert.Equal(t, "title-a", first.Media.Title)

	require.NoError(t, svc.CyclePlaylist(ctx, pl.ID))

	got, err := svc.GetActivePlaylist(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{b, c, a}, got.ItemIDs, "the played head moves to the tail")
}

func TestDeletePlaylistClearsItems(t *testing.T) {
	svc, recordRepo := newTestService(t)
	ctx := context.Background()

	_, pl := seedPlaylist(t, svc, recordRepo)

	added, err := svc.AddPlaylistItems(ctx, &AddPlaylistItemsParams{PlaylistID: pl.ID, Items: newItems("a")})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePlaylist(ctx, pl.ID))

	_, err = svc.GetPlaylist(ctx, pl.ID)
	assert.ErrorIs(t, err, record.ErrPlaylistNotFound)
	_, err = svc.GetPlaylistItem(ctx, added.Added[0].ID)
	assert.ErrorIs(t, err, record.ErrPlaylistItemNotFound)
}

func TestDuplicateSourceIDsShareMedia(t *testing.T) {
	svc, recordRepo := newTestService(t)
	ctx := context.Background()

	_, pl := seedPlaylist(t, svc, recordRepo)

	added, err := svc.AddPlaylistItems(ctx, &AddPlaylistItemsParams{PlaylistID: pl.ID, Items: newItems("a", "a")})
	require.NoError(t, err)
	require.Len(t, added.Added, 2)
	assert.Equal(t, added.Added[0].Media.ID, added.Added[1].Media.ID, "known media are not re-resolved")
}
