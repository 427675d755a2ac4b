package likes

import (
	"context"

	"github.com/trimspace/backend/internal/apperrors"
	"github.com/trimspace/backend/internal/models"
	"github.com/trimspace/backend/internal/repositories"
	"go.uber.org/zap"
)

// ToggleResult is the server-confirmed outcome of a like toggle.
type ToggleResult struct {
	Liked bool
	Count int
}

// Ledger drives the authoritative like record for posts. Toggle always flips
// based on actual ledger membership, never on caller-supplied prior state, so
// server and client cannot disagree after the response.
type Ledger struct {
	store  repositories.LedgerRepository
	logger *zap.Logger
}

// NewLedger creates a Ledger over the given store.
func NewLedger(store repositories.LedgerRepository, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{store: store, logger: logger}
}

// Toggle flips the (postID, userID) like membership and returns the resulting
// liked state and count. Idempotent at the operation level: two toggles with
// no intervening change always return to the starting state.
func (l *Ledger) Toggle(ctx context.Context, postID, userID string) (ToggleResult, error) {
	if postID == "" {
		return ToggleResult{}, apperrors.Validationf("ledger.toggle", "missing post id")
	}
	if userID == "" {
		return ToggleResult{}, apperrors.Validationf("ledger.toggle", "missing viewer id")
	}

	entry, err := l.store.GetEntry(ctx, postID)
	if err != nil {
		return ToggleResult{}, err
	}

	op := models.MembershipAdd
	if entry.HasLiked(userID) {
		op = models.MembershipRemove
	}

	updated, err := l.store.MutateMembership(ctx, postID, userID, op)
	if err != nil {
		return ToggleResult{}, err
	}

	res := ToggleResult{Liked: updated.HasLiked(userID), Count: updated.LikeCount}
	l.logger.Debug("ledger toggled",
		zap.String("post_id", postID),
		zap.String("viewer_id", userID),
		zap.Bool("liked", res.Liked),
		zap.Int("count", res.Count))
	return res, nil
}

// Status reports the current liked state and count for one post and viewer.
// An anonymous viewer (empty userID) is never liked.
func (l *Ledger) Status(ctx context.Context, postID, userID string) (ToggleResult, error) {
	entry, err := l.store.GetEntry(ctx, postID)
	if err != nil {
		return ToggleResult{}, err
	}
	if entry == nil {
		return ToggleResult{}, nil
	}
	return ToggleResult{Liked: entry.HasLiked(userID), Count: entry.LikeCount}, nil
}
