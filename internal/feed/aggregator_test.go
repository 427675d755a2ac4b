package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trimspace/backend/internal/apperrors"
	"github.com/trimspace/backend/internal/connectivity"
	"github.com/trimspace/backend/internal/models"
)

type fakeOwnerStore struct {
	owners []models.Owner
	err    error
}

func (f *fakeOwnerStore) ListOwners(ctx context.Context) ([]models.Owner, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.owners, nil
}

type fakeLedgerStore struct {
	entries map[string]*models.LedgerEntry
	err     error
}

func (f *fakeLedgerStore) GetEntries(ctx context.Context, postIDs []string) (map[string]*models.LedgerEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]*models.LedgerEntry)
	for _, id := range postIDs {
		if e, ok := f.entries[id]; ok {
			out[id] = e
		}
	}
	return out, nil
}

func at(day int) time.Time {
	return time.Date(2026, time.March, day, 0, 0, 0, 0, time.UTC)
}

func legacyOwner(id, name string, created time.Time, images, videos []string) models.Owner {
	o := models.Owner{ID: id, DisplayName: name, CreatedAt: created}
	for _, uri := range images {
		o.Images = append(o.Images, models.MediaRecord{URI: uri})
	}
	for _, uri := range videos {
		o.Videos = append(o.Videos, models.MediaRecord{URI: uri})
	}
	return o
}

func newAggregator(owners *fakeOwnerStore, ledger *fakeLedgerStore) (*Aggregator, *connectivity.Monitor) {
	monitor := connectivity.NewMonitor(time.Minute, nil)
	return NewAggregator(owners, ledger, monitor, nil), monitor
}

func TestBuildFeed_ExampleScenario(t *testing.T) {
	owners := &fakeOwnerStore{owners: []models.Owner{
		legacyOwner("O1", "Salon One", at(1), []string{"a.jpg", "b.jpg"}, nil),
	}}
	agg, _ := newAggregator(owners, &fakeLedgerStore{})

	posts, err := agg.BuildFeed(context.Background(), "U1")
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, "O1_img_0", posts[0].ID)
	assert.Equal(t, "O1_img_1", posts[1].ID)
	assert.Equal(t, "a.jpg", posts[0].MediaURI)
	assert.Equal(t, "Salon One", posts[0].OwnerDisplayName)
	for _, p := range posts {
		assert.Equal(t, 0, p.LikeCount)
		assert.False(t, p.ViewerHasLiked)
	}
}

func TestBuildFeed_OrderingNewestOwnerFirstImagesBeforeVideos(t *testing.T) {
	owners := &fakeOwnerStore{owners: []models.Owner{
		legacyOwner("O1", "Older", at(1), []string{"o1a.jpg"}, []string{"o1a.mp4"}),
		legacyOwner("O2", "Newer", at(2), []string{"o2a.jpg", "o2b.jpg"}, nil),
	}}
	agg, _ := newAggregator(owners, &fakeLedgerStore{})

	posts, err := agg.BuildFeed(context.Background(), "")
	require.NoError(t, err)

	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{"O2_img_0", "O2_img_1", "O1_img_0", "O1_vid_0"}, ids)
	assert.Equal(t, models.MediaKindVideo, posts[3].MediaKind)
}

func TestBuildFeed_CreationTieBrokenByOwnerID(t *testing.T) {
	owners := &fakeOwnerStore{owners: []models.Owner{
		legacyOwner("B", "Bee", at(1), []string{"b.jpg"}, nil),
		legacyOwner("A", "Ay", at(1), []string{"a.jpg"}, nil),
	}}
	agg, _ := newAggregator(owners, &fakeLedgerStore{})

	posts, err := agg.BuildFeed(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "A_img_0", posts[0].ID)
	assert.Equal(t, "B_img_0", posts[1].ID)
}

func TestBuildFeed_AssignedMediaIDsWinOverPosition(t *testing.T) {
	owner := models.Owner{ID: "O1", DisplayName: "Salon", CreatedAt: at(1)}
	owner.Images = []models.MediaRecord{
		{ID: "m-123", URI: "a.jpg"},
		{URI: "b.jpg"}, // legacy record, positional fallback
	}
	agg, _ := newAggregator(&fakeOwnerStore{owners: []models.Owner{owner}}, &fakeLedgerStore{})

	posts, err := agg.BuildFeed(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "O1_m-123", posts[0].ID)
	assert.Equal(t, "O1_img_1", posts[1].ID)
}

func TestBuildFeed_LikeCountsAndViewerState(t *testing.T) {
	owners := &fakeOwnerStore{owners: []models.Owner{
		legacyOwner("O1", "Salon", at(1), []string{"a.jpg", "b.jpg"}, nil),
	}}
	ledger := &fakeLedgerStore{entries: map[string]*models.LedgerEntry{
		"O1_img_0": {PostID: "O1_img_0", LikedByUserIDs: []string{"U1", "U2"}, LikeCount: 2},
	}}
	agg, _ := newAggregator(owners, ledger)

	posts, err := agg.BuildFeed(context.Background(), "U1")
	require.NoError(t, err)
	assert.Equal(t, 2, posts[0].LikeCount)
	assert.True(t, posts[0].ViewerHasLiked)
	assert.Equal(t, 0, posts[1].LikeCount)
	assert.False(t, posts[1].ViewerHasLiked)
}

func TestBuildFeed_AnonymousViewerNeverLiked(t *testing.T) {
	owners := &fakeOwnerStore{owners: []models.Owner{
		legacyOwner("O1", "Salon", at(1), []string{"a.jpg"}, nil),
	}}
	ledger := &fakeLedgerStore{entries: map[string]*models.LedgerEntry{
		"O1_img_0": {PostID: "O1_img_0", LikedByUserIDs: []string{"U1"}, LikeCount: 1},
	}}
	agg, _ := newAggregator(owners, ledger)

	posts, err := agg.BuildFeed(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, posts[0].LikeCount)
	assert.False(t, posts[0].ViewerHasLiked)
}

func TestBuildFeed_Idempotent(t *testing.T) {
	owners := &fakeOwnerStore{owners: []models.Owner{
		legacyOwner("O2", "Two", at(2), []string{"x.jpg"}, []string{"x.mp4"}),
		legacyOwner("O1", "One", at(1), []string{"a.jpg", "b.jpg"}, nil),
	}}
	ledger := &fakeLedgerStore{entries: map[string]*models.LedgerEntry{
		"O1_img_1": {PostID: "O1_img_1", LikedByUserIDs: []string{"U9"}, LikeCount: 1},
	}}
	agg, _ := newAggregator(owners, ledger)

	first, err := agg.BuildFeed(context.Background(), "U9")
	require.NoError(t, err)
	second, err := agg.BuildFeed(context.Background(), "U9")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBuildFeed_ConnectivityFailureYieldsEmptyFeedAndDegrades(t *testing.T) {
	owners := &fakeOwnerStore{err: apperrors.E(apperrors.KindConnectivity, "owners.list", errors.New("connection refused"))}
	agg, monitor := newAggregator(owners, &fakeLedgerStore{})

	posts, err := agg.BuildFeed(context.Background(), "U1")
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
	assert.Equal(t, connectivity.StateDegraded, monitor.State())
}

func TestBuildFeed_TerminalFailurePropagates(t *testing.T) {
	owners := &fakeOwnerStore{err: errors.New("schema violation")}
	agg, monitor := newAggregator(owners, &fakeLedgerStore{})

	_, err := agg.BuildFeed(context.Background(), "U1")
	require.Error(t, err)
	assert.Equal(t, connectivity.StateConnected, monitor.State())
}

func TestBuildFeed_LedgerConnectivityFailureYieldsEmptyFeed(t *testing.T) {
	owners := &fakeOwnerStore{owners: []models.Owner{
		legacyOwner("O1", "Salon", at(1), []string{"a.jpg"}, nil),
	}}
	ledger := &fakeLedgerStore{err: apperrors.E(apperrors.KindConnectivity, "ledger.batch", errors.New("i/o timeout"))}
	agg, monitor := newAggregator(owners, ledger)

	posts, err := agg.BuildFeed(context.Background(), "U1")
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Equal(t, connectivity.StateDegraded, monitor.State())
}
