package models

import "time"

// MediaKind distinguishes the two portfolio collections.
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

// Short returns the kind token used inside derived post identifiers.
func (k MediaKind) Short() string {
	if k == MediaKindVideo {
		return "vid"
	}
	return "img"
}

// MediaRecord is one element of an owner's portfolio. Records are append-only:
// the ID is assigned once at upload time and never recomputed, so a post keeps
// its identity (and its likes) when earlier media is deleted or reordered.
// Records created before ids were assigned have an empty ID and fall back to
// positional identity.
type MediaRecord struct {
	ID  string `json:"id,omitempty" bson:"id,omitempty"`
	URI string `json:"uri" bson:"uri"`
}

// Owner represents a salon/barber profile stored in MongoDB
type Owner struct {
	ID          string        `json:"id" bson:"_id,omitempty"`
	AccountUID  string        `json:"account_uid" bson:"account_uid"` // Firebase UID of the owning account
	DisplayName string        `json:"display_name" bson:"display_name"`
	Phone       string        `json:"phone,omitempty" bson:"phone,omitempty"`
	Address     string        `json:"address,omitempty" bson:"address,omitempty"`
	Images      []MediaRecord `json:"images,omitempty" bson:"images,omitempty"`
	Videos      []MediaRecord `json:"videos,omitempty" bson:"videos,omitempty"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" bson:"updated_at"`
}

// CreateOwnerRequest defines the request body for registering a salon profile
type CreateOwnerRequest struct {
	DisplayName string `json:"display_name" validate:"required,min=2,max=80"`
	Phone       string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Address     string `json:"address,omitempty" validate:"omitempty,max=200"`
}

// AddMediaRequest defines the request body for appending a portfolio media record
type AddMediaRequest struct {
	URI  string `json:"uri" validate:"required,url"`
	Kind string `json:"kind" validate:"required,oneof=image video"`
}
