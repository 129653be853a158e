package votes

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"bracula/internal/remote"
)

// API is the slice of the backend client the coordinator depends on.
type API interface {
	Vote(ctx context.Context, req remote.VoteRequest) (*remote.VoteResult, error)
}

// Store is the mutation boundary of the feed view. The coordinator
// never holds its own copy of a post; it requests changes through
// these methods.
type Store interface {
	Get(id int64) (remote.Post, bool)
	ApplyVote(id int64, state string, delta int) error
	ReconcileVote(id int64, count int, state string) error
}

// Notifier surfaces transient user-visible alerts. Both success and
// failure of a vote produce one.
type Notifier interface {
	Notify(level, message string)
}

// Result is the settled outcome of one vote action.
type Result struct {
	State   State
	Message string
	Count   int
}

// Coordinator applies vote transitions for the viewer. One instance
// serves the whole process; per-post serialization happens internally.
type Coordinator struct {
	api      API
	store    Store
	notifier Notifier
	logger   *slog.Logger

	mu       sync.Mutex
	inflight map[int64]bool
}

// NewCoordinator creates a vote coordinator.
func NewCoordinator(api API, store Store, notifier Notifier, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		api:      api,
		store:    store,
		notifier: notifier,
		logger:   logger,
		inflight: make(map[int64]bool),
	}
}

// Apply handles one press of a vote button.
//
// The transition is resolved against the post's current state (pressing
// the active direction removes the vote), applied to the view
// immediately for instant feedback, and then confirmed with exactly one
// backend request. On success the server-reported count replaces the
// local one; on failure the optimistic change is reverted and the error
// returned, with no automatic retry.
//
// While a request for a post is outstanding, further votes on that post
// are refused with ErrVoteInFlight. Without this guard, responses
// arriving in completion order could overwrite the final state of a
// rapid double-toggle.
func (c *Coordinator) Apply(ctx context.Context, viewerID int64, postID int64, requested State) (*Result, error) {
	if viewerID == 0 {
		return nil, ErrUnauthenticated
	}
	if requested != StateUp && requested != StateDown {
		return nil, ErrInvalidDirection
	}

	c.mu.Lock()
	if c.inflight[postID] {
		c.mu.Unlock()
		return nil, ErrVoteInFlight
	}
	c.inflight[postID] = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.inflight, postID)
		c.mu.Unlock()
	}()

	post, ok := c.store.Get(postID)
	if !ok {
		return nil, ErrPostNotFound
	}

	current, _ := ParseState(post.UserVote)
	next, delta := transition(current, requested)

	// Optimistic apply: indicator and count change before the backend
	// has confirmed anything.
	if err := c.store.ApplyVote(postID, string(next), delta); err != nil {
		return nil, err
	}

	result, err := c.api.Vote(ctx, remote.VoteRequest{
		PostID:   postID,
		UserID:   viewerID,
		VoteType: string(requested),
	})
	if err != nil {
		// Revert to the pre-vote state; retrying is the user's call.
		if revertErr := c.store.ReconcileVote(postID, post.Votes, post.UserVote); revertErr != nil {
			c.logger.Error("vote revert failed", "post_id", postID, "error", revertErr)
		}
		c.notify("error", "Failed to vote")
		return nil, fmt.Errorf("vote on post %d: %w", postID, err)
	}

	// Server wins: its count replaces whatever the local delta produced.
	serverState, _ := ParseState(result.UserVote)
	if err := c.store.ReconcileVote(postID, result.NewCount, result.UserVote); err != nil {
		c.logger.Error("vote reconcile failed", "post_id", postID, "error", err)
	}

	message := result.Message
	if message == "" {
		message = "Vote recorded"
	}
	c.notify("success", message)

	return &Result{State: serverState, Count: result.NewCount, Message: message}, nil
}

func (c *Coordinator) notify(level, message string) {
	if c.notifier != nil {
		c.notifier.Notify(level, message)
	}
}
