package repositories

import (
	"context"

	"github.com/trimspace/backend/internal/apperrors"
	"github.com/trimspace/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LedgerRepository defines the interface for like-ledger data operations.
// Entries are created lazily on the first like and never deleted; mutation
// happens only through MutateMembership so every race window lives in one
// place.
type LedgerRepository interface {
	GetEntry(ctx context.Context, postID string) (*models.LedgerEntry, error)
	GetEntries(ctx context.Context, postIDs []string) (map[string]*models.LedgerEntry, error)
	MutateMembership(ctx context.Context, postID, userID string, op models.MembershipOp) (*models.LedgerEntry, error)
}

// MongoLedgerRepository implements LedgerRepository for MongoDB
type MongoLedgerRepository struct {
	collection *mongo.Collection
}

// NewMongoLedgerRepository creates a new MongoLedgerRepository
func NewMongoLedgerRepository(db *mongo.Database) *MongoLedgerRepository {
	return &MongoLedgerRepository{collection: db.Collection("like_ledger")}
}

// GetEntry retrieves the ledger entry for a post. An absent entry returns
// (nil, nil) so callers can treat it as a zero-count, unliked post.
func (r *MongoLedgerRepository) GetEntry(ctx context.Context, postID string) (*models.LedgerEntry, error) {
	var entry models.LedgerEntry
	err := r.collection.FindOne(ctx, bson.M{"_id": postID}).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, apperrors.Wrap("ledger.get", err)
	}
	entry.LikeCount = len(entry.LikedByUserIDs)
	return &entry, nil
}

// GetEntries retrieves ledger entries for a batch of post ids in one query.
// Posts without an entry are simply absent from the result map.
func (r *MongoLedgerRepository) GetEntries(ctx context.Context, postIDs []string) (map[string]*models.LedgerEntry, error) {
	entries := make(map[string]*models.LedgerEntry, len(postIDs))
	if len(postIDs) == 0 {
		return entries, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": postIDs}})
	if err != nil {
		return nil, apperrors.Wrap("ledger.batch", err)
	}
	defer cursor.Close(ctx)

	var found []models.LedgerEntry
	if err = cursor.All(ctx, &found); err != nil {
		return nil, apperrors.Wrap("ledger.batch", err)
	}
	for i := range found {
		found[i].LikeCount = len(found[i].LikedByUserIDs)
		entries[found[i].PostID] = &found[i]
	}
	return entries, nil
}

// MutateMembership adds or removes userID in the entry's membership set,
// upserting the entry on first like. The count is never incremented in place:
// after the set mutation the document is re-read and like_count is recomputed
// from membership cardinality, so count and membership cannot drift apart
// under concurrent togglers.
func (r *MongoLedgerRepository) MutateMembership(ctx context.Context, postID, userID string, op models.MembershipOp) (*models.LedgerEntry, error) {
	var setOp bson.M
	switch op {
	case models.MembershipAdd:
		setOp = bson.M{"$addToSet": bson.M{"liked_by_user_ids": userID}}
	case models.MembershipRemove:
		setOp = bson.M{"$pull": bson.M{"liked_by_user_ids": userID}}
	default:
		return nil, apperrors.Validationf("ledger.mutate", "unknown membership op %q", op)
	}

	filter := bson.M{"_id": postID}
	if _, err := r.collection.UpdateOne(ctx, filter, setOp, options.Update().SetUpsert(true)); err != nil {
		return nil, apperrors.Wrap("ledger.mutate", err)
	}

	// Recompute the stored count from the set itself.
	recount := bson.A{bson.M{"$set": bson.M{
		"like_count": bson.M{"$size": bson.M{"$ifNull": bson.A{"$liked_by_user_ids", bson.A{}}}},
	}}}
	if _, err := r.collection.UpdateOne(ctx, filter, recount); err != nil {
		return nil, apperrors.Wrap("ledger.mutate", err)
	}

	var entry models.LedgerEntry
	if err := r.collection.FindOne(ctx, filter).Decode(&entry); err != nil {
		return nil, apperrors.Wrap("ledger.mutate", err)
	}
	entry.LikeCount = len(entry.LikedByUserIDs)
	return &entry, nil
}
