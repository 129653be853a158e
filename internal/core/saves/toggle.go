// Package saves toggles the viewer's saved flag on posts. Saving is a
// direct action; unsaving is gated behind an explicit confirmation
// because saved-items views evict the post the moment the flag clears.
package saves

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"bracula/internal/remote"
)

// API is the slice of the backend client the toggler depends on.
type API interface {
	Save(ctx context.Context, req remote.SaveRequest) error
	GetSavedPosts(ctx context.Context, viewerID int64) ([]remote.Post, error)
}

// Store is the mutation boundary of the feed view.
type Store interface {
	Get(id int64) (remote.Post, bool)
	SetSaved(id int64, saved bool) error
}

// Confirmer answers the blocking yes/no prompt before an unsave. A
// declined prompt must leave all state untouched.
type Confirmer interface {
	ConfirmUnsave(ctx context.Context, postID int64) (bool, error)
}

// Notifier surfaces transient user-visible alerts.
type Notifier interface {
	Notify(level, message string)
}

// Result reports the settled saved flag after a toggle.
type Result struct {
	Message string
	Saved   bool
}

// Toggler flips the saved flag for the viewer, one backend request per
// confirmed action.
type Toggler struct {
	api      API
	store    Store
	notifier Notifier
	logger   *slog.Logger

	mu       sync.Mutex
	inflight map[int64]bool

	// savedView is the viewer's saved-items list, present only after
	// LoadSavedView. Nil means no saved view is active and unsaves
	// have nothing to evict.
	savedView map[int64]remote.Post
}

// NewToggler creates a save toggler.
func NewToggler(api API, store Store, notifier Notifier, logger *slog.Logger) *Toggler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Toggler{
		api:      api,
		store:    store,
		notifier: notifier,
		logger:   logger,
		inflight: make(map[int64]bool),
	}
}

// Toggle flips the saved flag on one post.
//
// Saving applies immediately with no prompt. Unsaving asks the
// confirmer first; a declined prompt returns with nothing changed and
// no request sent. The flag flips optimistically before the backend
// call and reverts if the call fails. A confirmed unsave also evicts
// the post from the loaded saved view, if one is active.
func (t *Toggler) Toggle(ctx context.Context, viewerID int64, postID int64, confirm Confirmer) (*Result, error) {
	if viewerID == 0 {
		return nil, ErrUnauthenticated
	}

	t.mu.Lock()
	if t.inflight[postID] {
		t.mu.Unlock()
		return nil, ErrSaveInFlight
	}
	t.inflight[postID] = true
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		delete(t.inflight, postID)
		t.mu.Unlock()
	}()

	post, ok := t.store.Get(postID)
	if !ok {
		return nil, ErrPostNotFound
	}

	if post.Saved {
		return t.unsave(ctx, viewerID, postID, confirm)
	}
	return t.save(ctx, viewerID, postID)
}

func (t *Toggler) save(ctx context.Context, viewerID, postID int64) (*Result, error) {
	if err := t.store.SetSaved(postID, true); err != nil {
		return nil, err
	}

	err := t.api.Save(ctx, remote.SaveRequest{
		PostID: postID,
		UserID: viewerID,
		Action: "save",
	})
	if err != nil {
		if revertErr := t.store.SetSaved(postID, false); revertErr != nil {
			t.logger.Error("save revert failed", "post_id", postID, "error", revertErr)
		}
		t.notify("error", "Failed to save post")
		return nil, fmt.Errorf("save post %d: %w", postID, err)
	}

	t.notify("success", "Post saved")
	return &Result{Saved: true, Message: "Post saved"}, nil
}

func (t *Toggler) unsave(ctx context.Context, viewerID, postID int64, confirm Confirmer) (*Result, error) {
	if confirm == nil {
		return nil, ErrConfirmationRequired
	}
	ok, err := confirm.ConfirmUnsave(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("confirm unsave of post %d: %w", postID, err)
	}
	if !ok {
		// Cancelled: the flag stays set, nothing is sent.
		return &Result{Saved: true, Message: "Unsave cancelled"}, nil
	}

	if err := t.store.SetSaved(postID, false); err != nil {
		return nil, err
	}

	err = t.api.Save(ctx, remote.SaveRequest{
		PostID: postID,
		UserID: viewerID,
		Action: "unsave",
	})
	if err != nil {
		if revertErr := t.store.SetSaved(postID, true); revertErr != nil {
			t.logger.Error("unsave revert failed", "post_id", postID, "error", revertErr)
		}
		t.notify("error", "Failed to unsave post")
		return nil, fmt.Errorf("unsave post %d: %w", postID, err)
	}

	t.evictFromSavedView(postID)
	t.notify("success", "Post removed from saved")
	return &Result{Saved: false, Message: "Post removed from saved"}, nil
}

// LoadSavedView fetches the viewer's saved posts and makes them the
// active saved-items list.
func (t *Toggler) LoadSavedView(ctx context.Context, viewerID int64) ([]remote.Post, error) {
	if viewerID == 0 {
		return nil, ErrUnauthenticated
	}

	posts, err := t.api.GetSavedPosts(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("load saved posts: %w", err)
	}

	view := make(map[int64]remote.Post, len(posts))
	for _, p := range posts {
		view[p.ID] = p
	}

	t.mu.Lock()
	t.savedView = view
	t.mu.Unlock()

	return posts, nil
}

// SavedView returns the active saved-items list, newest first. The
// second return is false when no view has been loaded.
func (t *Toggler) SavedView() ([]remote.Post, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.savedView == nil {
		return nil, false
	}
	out := make([]remote.Post, 0, len(t.savedView))
	for _, p := range t.savedView {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, true
}

// ClearSavedView drops the active saved-items list, e.g. when the
// viewer navigates away from it.
func (t *Toggler) ClearSavedView() {
	t.mu.Lock()
	t.savedView = nil
	t.mu.Unlock()
}

func (t *Toggler) evictFromSavedView(postID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.savedView != nil {
		delete(t.savedView, postID)
	}
}

func (t *Toggler) notify(level, message string) {
	if t.notifier != nil {
		t.notifier.Notify(level, message)
	}
}
