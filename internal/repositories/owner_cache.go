package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/trimspace/backend/internal/models"
	"go.uber.org/zap"
)

const ownerScanKey = "owners:scan"

// CachedOwnerRepository wraps an OwnerRepository with a short-TTL Redis cache
// of the full owner scan, the one query the feed runs on every load. Cache
// failures are treated as misses; like data is never cached, so counts and
// viewer state stay live. Mutations invalidate the scan key.
type CachedOwnerRepository struct {
	inner  OwnerRepository
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedOwnerRepository creates the caching wrapper. ttl <= 0 disables
// caching and every call passes straight through.
func NewCachedOwnerRepository(inner OwnerRepository, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedOwnerRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedOwnerRepository{inner: inner, rdb: rdb, ttl: ttl, logger: logger}
}

func (r *CachedOwnerRepository) CreateOwner(ctx context.Context, owner *models.Owner) error {
	if err := r.inner.CreateOwner(ctx, owner); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedOwnerRepository) GetOwnerByID(ctx context.Context, id string) (*models.Owner, error) {
	return r.inner.GetOwnerByID(ctx, id)
}

func (r *CachedOwnerRepository) GetOwnerByAccountUID(ctx context.Context, accountUID string) (*models.Owner, error) {
	return r.inner.GetOwnerByAccountUID(ctx, accountUID)
}

func (r *CachedOwnerRepository) ListOwners(ctx context.Context) ([]models.Owner, error) {
	if r.ttl <= 0 || r.rdb == nil {
		return r.inner.ListOwners(ctx)
	}

	if raw, err := r.rdb.Get(ctx, ownerScanKey).Bytes(); err == nil {
		var owners []models.Owner
		if err := json.Unmarshal(raw, &owners); err == nil {
			return owners, nil
		}
		r.logger.Warn("discarding unreadable owner scan cache")
	}

	owners, err := r.inner.ListOwners(ctx)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(owners); err == nil {
		if err := r.rdb.Set(ctx, ownerScanKey, raw, r.ttl).Err(); err != nil {
			r.logger.Warn("failed to cache owner scan", zap.Error(err))
		}
	}
	return owners, nil
}

func (r *CachedOwnerRepository) AppendMedia(ctx context.Context, ownerID string, kind models.MediaKind, uri string) (*models.MediaRecord, error) {
	rec, err := r.inner.AppendMedia(ctx, ownerID, kind, uri)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return rec, nil
}

func (r *CachedOwnerRepository) RemoveMedia(ctx context.Context, ownerID string, kind models.MediaKind, mediaID string) error {
	if err := r.inner.RemoveMedia(ctx, ownerID, kind, mediaID); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedOwnerRepository) invalidate(ctx context.Context) {
	if r.rdb == nil {
		return
	}
	if err := r.rdb.Del(ctx, ownerScanKey).Err(); err != nil {
		r.logger.Warn("failed to invalidate owner scan cache", zap.Error(err))
	}
}
