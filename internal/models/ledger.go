package models

// LedgerEntry is the authoritative record of which users liked a post, stored
// in MongoDB keyed by the derived post id. Created lazily on the first like and
// never deleted; LikeCount must always equal len(LikedByUserIDs), which the
// repository enforces by recomputing it from membership on every mutation.
type LedgerEntry struct {
	PostID         string   `json:"post_id" bson:"_id"`
	LikedByUserIDs []string `json:"liked_by_user_ids" bson:"liked_by_user_ids"`
	LikeCount      int      `json:"like_count" bson:"like_count"`
}

// HasLiked reports whether userID is a member of the entry. Safe on nil
// entries so callers can use the absent-entry result directly.
func (e *LedgerEntry) HasLiked(userID string) bool {
	if e == nil || userID == "" {
		return false
	}
	for _, id := range e.LikedByUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// MembershipOp selects the direction of a ledger mutation.
type MembershipOp string

const (
	MembershipAdd    MembershipOp = "add"
	MembershipRemove MembershipOp = "remove"
)
