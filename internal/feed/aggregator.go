package feed

import (
	"context"
	"sort"

	"github.com/trimspace/backend/internal/apperrors"
	"github.com/trimspace/backend/internal/models"
	"go.uber.org/zap"
)

// OwnerLister is the owner-store read the aggregator consumes.
type OwnerLister interface {
	ListOwners(ctx context.Context) ([]models.Owner, error)
}

// LedgerReader is the batched like-ledger lookup the aggregator consumes.
type LedgerReader interface {
	GetEntries(ctx context.Context, postIDs []string) (map[string]*models.LedgerEntry, error)
}

// Observer receives the classified outcome of the aggregation's backend
// reads. The connectivity monitor implements it.
type Observer interface {
	Observe(err error)
	ObserveSuccess()
}

// Aggregator flattens owner portfolio media into the globally ordered feed.
// The scan is a best-effort snapshot: it is not transactional across owners,
// and a connectivity failure yields an empty feed plus a degraded
// connectivity signal rather than an error. Callers must check the
// connectivity state to tell "no posts" from "feed unavailable".
type Aggregator struct {
	owners   OwnerLister
	ledger   LedgerReader
	observer Observer
	logger   *zap.Logger
}

// NewAggregator creates an Aggregator. observer may be nil.
func NewAggregator(owners OwnerLister, ledger LedgerReader, observer Observer, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{owners: owners, ledger: ledger, observer: observer, logger: logger}
}

// BuildFeed returns the ordered post list for one viewer. Ordering: newest
// owner first (ties by owner id), then the owner's images in array order,
// then its videos. viewerID may be empty for anonymous viewers, who never
// see a liked state.
func (a *Aggregator) BuildFeed(ctx context.Context, viewerID string) ([]models.Post, error) {
	owners, err := a.owners.ListOwners(ctx)
	if err != nil {
		return a.degradeOrFail("feed.scan", err)
	}
	a.observeSuccess()

	// The store already sorts, but the contract is ordering, not the store's
	// behavior. Re-sort so cached or fake sources keep the same feed order.
	sort.SliceStable(owners, func(i, j int) bool {
		if !owners[i].CreatedAt.Equal(owners[j].CreatedAt) {
			return owners[i].CreatedAt.After(owners[j].CreatedAt)
		}
		return owners[i].ID < owners[j].ID
	})

	posts := flatten(owners)
	if len(posts) == 0 {
		return posts, nil
	}

	postIDs := make([]string, len(posts))
	for i := range posts {
		postIDs[i] = posts[i].ID
	}
	entries, err := a.ledger.GetEntries(ctx, postIDs)
	if err != nil {
		return a.degradeOrFail("feed.likes", err)
	}
	a.observeSuccess()

	for i := range posts {
		// Absent entry means zero likes; in particular videos, which are not
		// independently likeable in v1, always resolve this way.
		if entry, ok := entries[posts[i].ID]; ok {
			posts[i].LikeCount = entry.LikeCount
			posts[i].ViewerHasLiked = entry.HasLiked(viewerID)
		}
	}
	return posts, nil
}

func flatten(owners []models.Owner) []models.Post {
	posts := make([]models.Post, 0, len(owners)*4)
	for _, owner := range owners {
		for idx, rec := range owner.Images {
			posts = append(posts, derive(owner, models.MediaKindImage, rec, idx))
		}
		for idx, rec := range owner.Videos {
			posts = append(posts, derive(owner, models.MediaKindVideo, rec, idx))
		}
	}
	return posts
}

func derive(owner models.Owner, kind models.MediaKind, rec models.MediaRecord, idx int) models.Post {
	return models.Post{
		ID:               models.DerivePostID(owner.ID, kind, rec, idx),
		OwnerID:          owner.ID,
		OwnerDisplayName: owner.DisplayName,
		MediaURI:         rec.URI,
		MediaKind:        kind,
	}
}

// degradeOrFail implements the availability contract: connectivity failures
// produce an empty feed and flip the monitor, everything else is an error.
func (a *Aggregator) degradeOrFail(op string, err error) ([]models.Post, error) {
	err = apperrors.Wrap(op, err)
	if a.observer != nil {
		a.observer.Observe(err)
	}
	if apperrors.KindOf(err) == apperrors.KindConnectivity {
		a.logger.Warn("feed unavailable, returning empty feed", zap.Error(err))
		return []models.Post{}, nil
	}
	return nil, err
}

func (a *Aggregator) observeSuccess() {
	if a.observer != nil {
		a.observer.ObserveSuccess()
	}
}
