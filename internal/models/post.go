package models

import "fmt"

// Post is a single unit of feed content derived from one piece of an owner's
// portfolio media. Posts are never persisted; they are rebuilt on every feed
// load and addressed by a stable derived id.
type Post struct {
	ID               string    `json:"id"`
	OwnerID          string    `json:"owner_id"`
	OwnerDisplayName string    `json:"owner_display_name"`
	MediaURI         string    `json:"media_uri"`
	MediaKind        MediaKind `json:"media_kind"`
	LikeCount        int       `json:"like_count"`
	ViewerHasLiked   bool      `json:"viewer_has_liked"`
}

// DerivePostID computes the stable id for one media record. Records with an
// assigned id use it directly; legacy records without one fall back to
// positional identity, which shifts when earlier media is removed.
func DerivePostID(ownerID string, kind MediaKind, rec MediaRecord, index int) string {
	if rec.ID != "" {
		return fmt.Sprintf("%s_%s", ownerID, rec.ID)
	}
	return fmt.Sprintf("%s_%s_%d", ownerID, kind.Short(), index)
}
