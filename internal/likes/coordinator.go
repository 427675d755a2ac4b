package likes

import (
	"context"
	"sync"

	"github.com/trimspace/backend/internal/apperrors"
	"go.uber.org/zap"
)

// Toggler is the ledger operation the coordinator drives. *Ledger satisfies it.
type Toggler interface {
	Toggle(ctx context.Context, postID, userID string) (ToggleResult, error)
}

// Retryer wraps a backend call with the retry budget. *retry.Executor
// satisfies it.
type Retryer interface {
	Do(ctx context.Context, op func(ctx context.Context) error) error
}

// Listener receives per-post like-state updates for rendering: once with the
// optimistic values as soon as a toggle begins, then once more when the toggle
// reconciles or rolls back.
type Listener interface {
	ToggleApplied(postID string, liked bool, count int)
}

// Baseline is the last confirmed like state for a post, as currently
// displayed. The coordinator flips optimistically from here and restores
// exactly here on rollback.
type Baseline struct {
	Liked bool
	Count int
}

// Outcome reports how a toggle request ended.
type Outcome struct {
	PostID     string `json:"post_id"`
	Liked      bool   `json:"liked"`
	Count      int    `json:"count"`
	Ignored    bool   `json:"ignored,omitempty"`     // a toggle was already in flight for this post
	RolledBack bool   `json:"rolled_back,omitempty"` // the ledger call failed; state restored
}

type toggleState struct {
	pending         bool
	optimisticLiked bool
	optimisticCount int
	lastLiked       bool
	lastCount       int
}

// Coordinator serializes like toggles per (post, viewer): an optimistic local
// flip is applied immediately, the ledger call runs under the retry budget,
// and the result either reconciles (server truth wins, even when the count
// differs from the optimistic guess) or rolls back to the exact pre-toggle
// state. While a toggle is in flight, further toggles on the same post by the
// same viewer are ignored.
type Coordinator struct {
	mu       sync.Mutex
	inflight map[string]*toggleState

	ledger   Toggler
	exec     Retryer
	listener Listener
	logger   *zap.Logger
}

// NewCoordinator creates a Coordinator. listener may be nil.
func NewCoordinator(ledger Toggler, exec Retryer, listener Listener, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		inflight: make(map[string]*toggleState),
		ledger:   ledger,
		exec:     exec,
		listener: listener,
		logger:   logger,
	}
}

// Toggle runs one like/unlike for viewerID on postID, starting from the
// currently displayed baseline. Connectivity failures are absorbed: the state
// rolls back, the outcome reports it, and no error is returned (transient
// outages must not alarm the user). Terminal failures roll back and return
// the classified error.
func (c *Coordinator) Toggle(ctx context.Context, postID, viewerID string, baseline Baseline) (Outcome, error) {
	if viewerID == "" {
		return Outcome{PostID: postID}, apperrors.Permissionf("likes.toggle", "must be signed in to like posts")
	}
	if postID == "" {
		return Outcome{}, apperrors.Validationf("likes.toggle", "missing post id")
	}

	key := postID + "\x00" + viewerID

	c.mu.Lock()
	if st, ok := c.inflight[key]; ok && st.pending {
		out := Outcome{PostID: postID, Liked: st.optimisticLiked, Count: st.optimisticCount, Ignored: true}
		c.mu.Unlock()
		return out, nil
	}
	st := &toggleState{
		pending:         true,
		lastLiked:       baseline.Liked,
		lastCount:       baseline.Count,
		optimisticLiked: !baseline.Liked,
		optimisticCount: optimisticCount(baseline),
	}
	c.inflight[key] = st
	c.mu.Unlock()

	c.notify(postID, st.optimisticLiked, st.optimisticCount)

	var res ToggleResult
	err := c.exec.Do(ctx, func(ctx context.Context) error {
		var opErr error
		res, opErr = c.ledger.Toggle(ctx, postID, viewerID)
		return opErr
	})

	c.mu.Lock()
	delete(c.inflight, key)
	c.mu.Unlock()

	if err != nil {
		c.notify(postID, baseline.Liked, baseline.Count)
		out := Outcome{PostID: postID, Liked: baseline.Liked, Count: baseline.Count, RolledBack: true}
		if apperrors.KindOf(err) == apperrors.KindConnectivity {
			// Transient outage: rolled back and logged, nothing surfaced.
			c.logger.Warn("like toggle failed on connectivity, rolled back",
				zap.String("post_id", postID),
				zap.String("viewer_id", viewerID),
				zap.Error(err))
			return out, nil
		}
		c.logger.Error("like toggle failed, rolled back",
			zap.String("post_id", postID),
			zap.String("viewer_id", viewerID),
			zap.Error(err))
		return out, err
	}

	c.notify(postID, res.Liked, res.Count)
	return Outcome{PostID: postID, Liked: res.Liked, Count: res.Count}, nil
}

// InFlight reports whether a toggle is currently pending for the pair.
func (c *Coordinator) InFlight(postID, viewerID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.inflight[postID+"\x00"+viewerID]
	return ok && st.pending
}

func (c *Coordinator) notify(postID string, liked bool, count int) {
	if c.listener != nil {
		c.listener.ToggleApplied(postID, liked, count)
	}
}

// optimisticCount adjusts the displayed count by ±1, clamped at zero.
func optimisticCount(b Baseline) int {
	if b.Liked {
		if b.Count <= 0 {
			return 0
		}
		return b.Count - 1
	}
	return b.Count + 1
}
