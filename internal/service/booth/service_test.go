package booth

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	repobooth "github.com/EDM-Spot/core/internal/repository/booth"
	boothRedis "github.com/EDM-Spot/core/internal/repository/booth/redis"
	"github.com/EDM-Spot/core/internal/repository/record"
	"github.com/EDM-Spot/core/internal/repository/record/inmemory"
	"github.com/EDM-Spot/core/internal/service/playlist"
)

type testRecordStore interface {
	CreateUser(context.Context, *record.CreateUserParams) (record.User, error)
	GetUser(ctx context.Context, userID string) (record.User, error)
	CreatePlaylist(context.Context, *record.CreatePlaylistParams) (record.Playlist, error)
	UpdateUserActivePlaylist(ctx context.Context, userID string, playlistID *string) error
	CreateMedia(context.Context, []record.CreateMediaParams) ([]record.Media, error)
	CreatePlaylistItems(context.Context, []record.CreatePlaylistItemParams) ([]record.PlaylistItem, error)
	SetPlaylistItems(ctx context.Context, playlistID string, itemIDs []string) error
	GetPlaylist(ctx context.Context, playlistID string) (record.Playlist, error)
	DeletePlaylist(ctx context.Context, playlistID string) error
	GetHistoryEntry(ctx context.Context, entryID string) (record.HistoryEntry, error)
}

type testEnv struct {
	svc     *service
	records testRecordStore
	booth   iBoothRepo
	rc      *redis.Client
	// newService builds another instance on the same stores, as if a
	// second process joined the deployment.
	newService func() *service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rc.Close() })

	boothRepo := boothRedis.NewRepo(rc, slog.Default())
	recordRepo := inmemory.NewRepo()
	playlistService := playlist.NewService(recordRepo, nil, slog.Default())

	newService := func() *service {
		svc := NewService(boothRepo, recordRepo, playlistService, &Config{}, slog.Default())
		t.Cleanup(svc.OnStop)
		return svc
	}

	return &testEnv{
		svc:        newService(),
		records:    recordRepo,
		booth:      boothRepo,
		rc:         rc,
		newService: newService,
	}
}

// seedDJ creates a user with an active playlist holding one item per
// duration, titled "<name>-track-<n>".
func seedDJ(t *testing.T, records testRecordStore, name string, durations ...int) string {
	t.Helper()
	ctx := context.Background()

	user, err := records.CreateUser(ctx, &record.CreateUserParams{DisplayName: name})
	require.NoError(t, err)

	pl, err := records.CreatePlaylist(ctx, &record.CreatePlaylistParams{AuthorID: user.ID, Name: name + " jams"})
	require.NoError(t, err)
	require.NoError(t, records.UpdateUserActivePlaylist(ctx, user.ID, &pl.ID))

	if len(durations) == 0 {
		return user.ID
	}

	mediaParams := make([]record.CreateMediaParams, 0, len(durations))
	for i, d := range durations {
		mediaParams = append(mediaParams, record.CreateMediaParams{
			SourceType: "youtube",
			SourceID:   fmt.Sprintf("%s-src-%d", name, i+1),
			Duration:   d,
			Artist:     name,
			Title:      fmt.Sprintf("%s-track-%d", name, i+1),
		})
	}
	media, err := records.CreateMedia(ctx, mediaParams)
	require.NoError(t, err)

	itemParams := make([]record.CreatePlaylistItemParams, 0, len(media))
	for _, m := range media {
		itemParams = append(itemParams, record.CreatePlaylistItemParams{
			MediaID: m.ID,
			Artist:  m.Artist,
			Title:   m.Title,
			Start:   0,
			End:     m.Duration,
		})
	}
	items, err := records.CreatePlaylistItems(ctx, itemParams)
	require.NoError(t, err)

	itemIDs := make([]string, 0, len(items))
	for _, item := range items {
		itemIDs = append(itemIDs, item.ID)
	}
	require.NoError(t, records.SetPlaylistItems(ctx, pl.ID, itemIDs))

	return user.ID
}

func TestSingleDJLoop(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u1 := seedDJ(t, env.records, "dj-one", 5, 5)

	waitlist, err := env.svc.JoinWaitlist(ctx, u1)
	require.NoError(t, err)
	assert.Empty(t, waitlist, "dj must leave the waitlist when taking the booth")

	info, err := env.svc.GetBooth(ctx)
	require.NoError(t, err)
	require.NotNil(t, info.Entry)
	assert.Equal(t, u1, info.Entry.UserID)
	assert.Equal(t, "dj-one-track-1", info.Entry.Media.Title)
	firstID := info.Entry.ID

	// the timer is armed for the end of the 5s track
	assert.WithinDuration(t, time.Now().Add(5*time.Second), env.svc.timerEndsAt, time.Second)

	entry, err := env.svc.Advance(ctx, &AdvanceParams{})
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, u1, entry.UserID, "a lone dj plays again")
	assert.Equal(t, "dj-one-track-2", entry.Media.Title)
	assert.NotEqual(t, firstID, entry.ID)

	waitlist, err = env.svc.GetWaitlist(ctx)
	require.NoError(t, err)
	assert.Empty(t, waitlist, "a lone dj is never requeued")

	entry, err = env.svc.Advance(ctx, &AdvanceParams{})
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "dj-one-track-1", entry.Media.Title, "playlist cycles back to the first track")
}

func TestTwoDJRotationWithVotes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u1 := seedDJ(t, env.records, "dj-one", 5)
	u2 := seedDJ(t, env.records, "dj-two", 5)

	_, err := env.svc.JoinWaitlist(ctx, u1)
	require.NoError(t, err)
	_, err = env.svc.JoinWaitlist(ctx, u2)
	require.NoError(t, err)

	info, err := env.svc.GetBooth(ctx)
	require.NoError(t, err)
	require.NotNil(t, info.Entry)
	assert.Equal(t, u1, info.Entry.UserID)
	assert.Equal(t, []string{u2}, info.Waitlist)
	firstID := info.Entry.ID

	for _, voter := range []string{"voter-a", "voter-b", "voter-c"} {
		require.NoError(t, env.svc.CastVote(ctx, voter, repobooth.VoteUp))
	}
	require.NoError(t, env.svc.CastVote(ctx, "voter-d", repobooth.VoteDown))

	entry, err := env.svc.Advance(ctx, &AdvanceParams{})
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, u2, entry.UserID)
	assert.Equal(t, "dj-two-track-1", entry.Media.Title)

	sealed, err := env.records.GetHistoryEntry(ctx, firstID)
	require.NoError(t, err)
	assert.Len(t, sealed.Upvotes, 3)
	assert.Len(t, sealed.Downvotes, 1)
	assert.Len(t, sealed.Favorites, 0)

	info, err = env.svc.GetBooth(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{u1}, info.Waitlist, "previous dj is requeued at the tail")
	assert.Empty(t, info.Votes.Upvotes, "vote sets are cleared with the historyID transition")
	assert.Empty(t, info.Votes.Downvotes)
}

func TestEmptyPlaylistSkip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u1 := seedDJ(t, env.records, "dj-one", 5)
	u2 := seedDJ(t, env.records, "dj-two") // active playlist is empty

	_, err := env.svc.JoinWaitlist(ctx, u1)
	require.NoError(t, err)
	_, err = env.svc.JoinWaitlist(ctx, u2)
	require.NoError(t, err)

	entry, err := env.svc.Advance(ctx, &AdvanceParams{})
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, u1, entry.UserID, "the empty-playlist dj is skipped over")

	waitlist, err := env.svc.GetWaitlist(ctx)
	require.NoError(t, err)
	assert.Empty(t, waitlist, "the skipped dj is popped without requeue")
}

func TestDanglingActivePlaylist(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u1 := seedDJ(t, env.records, "dj-one", 5)
	u2 := seedDJ(t, env.records, "dj-two", 5)

	_, err := env.svc.JoinWaitlist(ctx, u1)
	require.NoError(t, err)

	// u2's active playlist is deleted behind their back
	u2User, err := env.records.GetUser(ctx, u2)
	require.NoError(t, err)
	require.NotNil(t, u2User.ActivePlaylistID)
	require.NoError(t, env.records.DeletePlaylist(ctx, *u2User.ActivePlaylistID))

	_, err = env.svc.JoinWaitlist(ctx, u2)
	require.NoError(t, err)

	entry, err := env.svc.Advance(ctx, &AdvanceParams{})
	require.NoError(t, err)
	assert.Nil(t, entry, "a dangling active playlist idles the booth")

	info, err := env.svc.GetBooth(ctx)
	require.NoError(t, err)
	assert.Nil(t, info.Entry)
}

func TestReplaceDJ(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u1 := seedDJ(t, env.records, "dj-one", 5)
	u2 := seedDJ(t, env.records, "dj-two", 5)
	u3 := seedDJ(t, env.records, "dj-three", 5)

	_, err := env.svc.JoinWaitlist(ctx, u1)
	require.NoError(t, err)
	_, err = env.svc.JoinWaitlist(ctx, u2)
	require.NoError(t, err)
	_, err = env.svc.JoinWaitlist(ctx, u3)
	require.NoError(t, err)

	entry, err := env.svc.Advance(ctx, &AdvanceParams{Remove: true})
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, u2, entry.UserID, "the waitlist head takes the booth")

	waitlist, err := env.svc.GetWaitlist(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{u3}, waitlist, "the replaced dj is not requeued")
}

func TestRemoveLastDJGoesIdle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u1 := seedDJ(t, env.records, "dj-one", 5)
	_, err := env.svc.JoinWaitlist(ctx, u1)
	require.NoError(t, err)

	info, err := env.svc.GetBooth(ctx)
	require.NoError(t, err)
	firstID := info.Entry.ID

	entry, err := env.svc.Advance(ctx, &AdvanceParams{Remove: true})
	require.NoError(t, err)
	assert.Nil(t, entry, "removing the only dj idles the booth")

	info, err = env.svc.GetBooth(ctx)
	require.NoError(t, err)
	assert.Nil(t, info.Entry)

	// the previous entry stays in the durable store
	_, err = env.records.GetHistoryEntry(ctx, firstID)
	require.NoError(t, err)
}

func TestConcurrentAdvance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u1 := seedDJ(t, env.records, "dj-one", 5)
	_, err := env.svc.JoinWaitlist(ctx, u1)
	require.NoError(t, err)

	info, err := env.svc.GetBooth(ctx)
	require.NoError(t, err)
	firstID := info.Entry.ID

	// another instance holds the lease
	require.NoError(t, env.booth.AcquireLock(ctx, "other-instance", 2*time.Second))

	_, err = env.svc.Advance(ctx, &AdvanceParams{})
	assert.ErrorIs(t, err, ErrAdvanceInProgress)

	info, err = env.svc.GetBooth(ctx)
	require.NoError(t, err)
	assert.Equal(t, firstID, info.Entry.ID, "the losing instance must not mutate state")
}

func TestRestartRecovery(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t0 := time.Now()
	env.svc.now = func() time.Time { return t0 }

	u1 := seedDJ(t, env.records, "dj-one", 30)
	_, err := env.svc.JoinWaitlist(ctx, u1)
	require.NoError(t, err)

	info, err := env.svc.GetBooth(ctx)
	require.NoError(t, err)
	firstID := info.Entry.ID
	env.svc.OnStop()

	// restart 10s into the 30s track: the timer resumes the remainder
	restarted := env.newService()
	restarted.now = func() time.Time { return t0.Add(10 * time.Second) }
	require.NoError(t, restarted.OnStart(ctx))
	assert.WithinDuration(t, t0.Add(30*time.Second), restarted.timerEndsAt, time.Second)
	restarted.OnStop()

	// restart after the track already ended: advance fires immediately
	late := env.newService()
	late.now = func() time.Time { return t0.Add(40 * time.Second) }
	require.NoError(t, late.OnStart(ctx))

	info, err = late.GetBooth(ctx)
	require.NoError(t, err)
	require.NotNil(t, info.Entry)
	assert.NotEqual(t, firstID, info.Entry.ID, "a fresh entry is playing after recovery")
	assert.Equal(t, u1, info.Entry.UserID)
}

func TestTimerFiresAdvance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u1 := seedDJ(t, env.records, "dj-one", 1, 1)
	_, err := env.svc.JoinWaitlist(ctx, u1)
	require.NoError(t, err)

	info, err := env.svc.GetBooth(ctx)
	require.NoError(t, err)
	firstID := info.Entry.ID

	require.Eventually(t, func() bool {
		info, err := env.svc.GetBooth(ctx)
		return err == nil && info.Entry != nil && info.Entry.ID != firstID
	}, 3*time.Second, 50*time.Millisecond, "the end-of-track timer must advance the booth")
}

func TestPublishOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u1 := seedDJ(t, env.records, "dj-one", 5)
	u2 := seedDJ(t, env.records, "dj-two", 5)
	_, err := env.svc.JoinWaitlist(ctx, u1)
	require.NoError(t, err)
	_, err = env.svc.JoinWaitlist(ctx, u2)
	require.NoError(t, err)

	sub := env.rc.Subscribe(ctx,
		repobooth.TopicAdvanceComplete,
		repobooth.TopicPlaylistCycle,
		repobooth.TopicUserPlay,
		repobooth.TopicWaitlistUpdate,
	)
	defer sub.Close()

	_, err = env.svc.Advance(ctx, &AdvanceParams{})
	require.NoError(t, err)

	topics := make([]string, 0, 4)
	for len(topics) < 4 {
		msg, err := sub.ReceiveTimeout(ctx, 2*time.Second)
		require.NoError(t, err)
		if m, ok := msg.(*redis.Message); ok {
			topics = append(topics, m.Channel)
		}
	}

	assert.Equal(t, []string{
		repobooth.TopicAdvanceComplete,
		repobooth.TopicPlaylistCycle,
		repobooth.TopicUserPlay,
		repobooth.TopicWaitlistUpdate,
	}, topics)
}

func TestVoteWhileIdle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.svc.CastVote(ctx, "voter-a", repobooth.VoteUp)
	assert.ErrorIs(t, err, ErrNothingPlaying)
}
