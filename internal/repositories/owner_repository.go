package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/trimspace/backend/internal/apperrors"
	"github.com/trimspace/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OwnerRepository defines the interface for salon profile data operations
type OwnerRepository interface {
	CreateOwner(ctx context.Context, owner *models.Owner) error
	GetOwnerByID(ctx context.Context, id string) (*models.Owner, error)
	GetOwnerByAccountUID(ctx context.Context, accountUID string) (*models.Owner, error)
	ListOwners(ctx context.Context) ([]models.Owner, error)
	AppendMedia(ctx context.Context, ownerID string, kind models.MediaKind, uri string) (*models.MediaRecord, error)
	RemoveMedia(ctx context.Context, ownerID string, kind models.MediaKind, mediaID string) error
}

// MongoOwnerRepository implements OwnerRepository for MongoDB
type MongoOwnerRepository struct {
	collection *mongo.Collection
}

// NewMongoOwnerRepository creates a new MongoOwnerRepository
func NewMongoOwnerRepository(db *mongo.Database) *MongoOwnerRepository {
	return &MongoOwnerRepository{collection: db.Collection("owners")}
}

// CreateOwner creates a new owner profile in MongoDB
func (r *MongoOwnerRepository) CreateOwner(ctx context.Context, owner *models.Owner) error {
	if owner.ID == "" {
		owner.ID = uuid.NewString()
	}
	owner.CreatedAt = time.Now()
	owner.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, owner)
	return apperrors.Wrap("owners.create", err)
}

// GetOwnerByID retrieves an owner by ID from MongoDB
func (r *MongoOwnerRepository) GetOwnerByID(ctx context.Context, id string) (*models.Owner, error) {
	var owner models.Owner
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&owner)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.Validationf("owners.get", "owner not found")
		}
		return nil, apperrors.Wrap("owners.get", err)
	}
	return &owner, nil
}

// GetOwnerByAccountUID retrieves the owner profile linked to a Firebase account
func (r *MongoOwnerRepository) GetOwnerByAccountUID(ctx context.Context, accountUID string) (*models.Owner, error) {
	var owner models.Owner
	err := r.collection.FindOne(ctx, bson.M{"account_uid": accountUID}).Decode(&owner)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.Validationf("owners.get", "owner not found")
		}
		return nil, apperrors.Wrap("owners.get", err)
	}
	return &owner, nil
}

// ListOwners retrieves all owner profiles, newest first, ties broken by id so
// the scan order is stable across reads.
func (r *MongoOwnerRepository) ListOwners(ctx context.Context) ([]models.Owner, error) {
	findOptions := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: 1},
	})
	cursor, err := r.collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, apperrors.Wrap("owners.list", err)
	}
	defer cursor.Close(ctx)

	var owners []models.Owner
	if err = cursor.All(ctx, &owners); err != nil {
		return nil, apperrors.Wrap("owners.list", err)
	}
	return owners, nil
}

// AppendMedia appends a portfolio media record with a freshly assigned id.
// Records are append-only so existing posts keep their identity.
func (r *MongoOwnerRepository) AppendMedia(ctx context.Context, ownerID string, kind models.MediaKind, uri string) (*models.MediaRecord, error) {
	rec := models.MediaRecord{ID: uuid.NewString(), URI: uri}
	update := bson.M{
		"$push": bson.M{mediaField(kind): rec},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": ownerID}, update)
	if err != nil {
		return nil, apperrors.Wrap("owners.media.append", err)
	}
	if res.MatchedCount == 0 {
		return nil, apperrors.Validationf("owners.media.append", "owner not found")
	}
	return &rec, nil
}

// RemoveMedia removes one media record by its assigned id
func (r *MongoOwnerRepository) RemoveMedia(ctx context.Context, ownerID string, kind models.MediaKind, mediaID string) error {
	update := bson.M{
		"$pull": bson.M{mediaField(kind): bson.M{"id": mediaID}},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": ownerID}, update)
	if err != nil {
		return apperrors.Wrap("owners.media.remove", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.Validationf("owners.media.remove", "owner not found")
	}
	if res.ModifiedCount == 0 {
		return apperrors.Validationf("owners.media.remove", "media not found")
	}
	return nil
}

func mediaField(kind models.MediaKind) string {
	if kind == models.MediaKindVideo {
		return "videos"
	}
	return "images"
}
