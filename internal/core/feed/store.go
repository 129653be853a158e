// Package feed holds the canonical in-memory view of loaded posts: a
// map keyed by post id plus the page cursor and active filters. All
// mutation goes through the store's typed methods, so invariants like
// vote-state exclusivity are enforced at one boundary instead of being
// scattered across call sites.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"bracula/internal/remote"
)

// SortMode selects the display ordering of the loaded posts.
type SortMode string

const (
	SortLatest    SortMode = "latest"    // creation timestamp, newest first
	SortPopular   SortMode = "popular"   // vote count, highest first
	SortDiscussed SortMode = "discussed" // comment count, highest first
)

// Valid reports whether m is a known sort mode.
func (m SortMode) Valid() bool {
	switch m {
	case SortLatest, SortPopular, SortDiscussed:
		return true
	}
	return false
}

// Filters is the feed's filter state. Changing it invalidates the
// current pages and reloads from page 1; changing only the sort mode
// does not, because sorting is a display-time transform.
type Filters struct {
	SortBy    SortMode
	Community string
	Query     string
}

// DefaultFilters returns the state a fresh feed starts with.
func DefaultFilters() Filters {
	return Filters{SortBy: SortLatest, Community: "general"}
}

// API is the slice of the backend client the store depends on.
type API interface {
	GetPosts(ctx context.Context, q remote.PostQuery) ([]remote.Post, error)
	CreatePost(ctx context.Context, req remote.CreatePostRequest) (*remote.Post, error)
	EditPost(ctx context.Context, req remote.EditPostRequest) (*remote.Post, error)
	DeletePost(ctx context.Context, postID, viewerID int64) error
	TrackActivity(ctx context.Context, req remote.ActivityRequest) error
}

// Store owns the post map. Vote and save coordinators request their
// mutations through it; nothing else holds a second copy of a post.
type Store struct {
	api     API
	logger  *slog.Logger
	posts   map[int64]*remote.Post
	filters Filters
	page    int
	loading bool
	mu      sync.Mutex
}

// NewStore creates an empty feed store.
func NewStore(client API, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		api:     client,
		logger:  logger,
		posts:   make(map[int64]*remote.Post),
		filters: DefaultFilters(),
		page:    1,
	}
}

// LoadFirstPage fetches page 1 for the given filters and replaces the
// loaded view with the result. On failure the existing map is left
// untouched. A load already in flight makes this a no-op.
func (s *Store) LoadFirstPage(ctx context.Context, viewerID int64, filters Filters) error {
	if !filters.SortBy.Valid() {
		filters.SortBy = SortLatest
	}

	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	s.mu.Unlock()

	posts, err := s.api.GetPosts(ctx, remote.PostQuery{
		SortBy:    string(filters.SortBy),
		Community: filters.Community,
		Query:     filters.Query,
		Page:      1,
		ViewerID:  viewerID,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		return fmt.Errorf("load first page: %w", err)
	}

	s.posts = make(map[int64]*remote.Post, len(posts))
	s.merge(posts)
	s.filters = filters
	s.page = 1
	return nil
}

// LoadNextPage fetches the next page and merges it into the view,
// skipping ids already present. A failed fetch rolls the cursor back so
// a retry re-requests the same page; an empty page does the same, since
// there is nothing beyond it yet.
func (s *Store) LoadNextPage(ctx context.Context, viewerID int64) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	s.page++
	q := remote.PostQuery{
		SortBy:    string(s.filters.SortBy),
		Community: s.filters.Community,
		Query:     s.filters.Query,
		Page:      s.page,
		ViewerID:  viewerID,
	}
	s.mu.Unlock()

	posts, err := s.api.GetPosts(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		s.page--
		return fmt.Errorf("load next page: %w", err)
	}
	if len(posts) == 0 {
		s.page--
		return nil
	}

	s.merge(posts)
	return nil
}

// ApplyFilterChange replaces the filter state and reloads from page 1.
func (s *Store) ApplyFilterChange(ctx context.Context, viewerID int64, filters Filters) error {
	return s.LoadFirstPage(ctx, viewerID, filters)
}

// SetSortMode switches the display ordering without reloading anything:
// sorting is computed on read over whatever pages are loaded.
func (s *Store) SetSortMode(mode SortMode) {
	if !mode.Valid() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters.SortBy = mode
}

// merge adds posts to the map, de-duplicating by id. The first loaded
// copy of a post wins; later pages never clobber viewer-local state.
func (s *Store) merge(posts []remote.Post) {
	for i := range posts {
		if _, ok := s.posts[posts[i].ID]; ok {
			continue
		}
		p := posts[i]
		s.posts[p.ID] = &p
	}
}

// Posts returns the loaded posts in display order for the active sort
// mode. The slice holds copies; mutating it does not touch the store.
func (s *Store) Posts() []remote.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]remote.Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, *p)
	}

	switch s.filters.SortBy {
	case SortPopular:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Votes > out[j].Votes })
	case SortDiscussed:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CommentCount > out[j].CommentCount })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out
}

// Get returns a copy of one loaded post.
func (s *Store) Get(id int64) (remote.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return remote.Post{}, false
	}
	return *p, true
}

// Filters returns the active filter state.
func (s *Store) Filters() Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// Page returns the current page cursor.
func (s *Store) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Len returns the number of loaded posts.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.posts)
}

// Clear drops every loaded post and resets the cursor.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = make(map[int64]*remote.Post)
	s.page = 1
}

// ApplyVote applies an optimistic vote transition: the viewer's vote
// indicator and a local count delta, before the backend has confirmed.
func (s *Store) ApplyVote(id int64, state string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return ErrPostNotFound
	}
	p.UserVote = state
	p.Votes += delta
	return nil
}

// ReconcileVote overwrites a post's vote count and viewer vote state
// with authoritative values. The server always wins; this is also the
// revert path when a vote request fails.
func (s *Store) ReconcileVote(id int64, count int, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return ErrPostNotFound
	}
	p.Votes = count
	p.UserVote = state
	return nil
}

// SetSaved flips a post's viewer-scoped saved flag.
func (s *Store) SetSaved(id int64, saved bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return ErrPostNotFound
	}
	p.Saved = saved
	return nil
}

// SetCommentCount overwrites a post's comment count with the value the
// backend reported after a comment was created.
func (s *Store) SetCommentCount(id int64, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return ErrPostNotFound
	}
	p.CommentCount = n
	return nil
}

// CreatePost validates and submits a new post, then merges the created
// record into the view. Nothing is applied optimistically: a failure
// returns the error and changes no state, so the compose form can be
// resubmitted as-is.
func (s *Store) CreatePost(ctx context.Context, viewerID int64, caption, content, community string) (*remote.Post, error) {
	if viewerID == 0 {
		return nil, ErrUnauthenticated
	}
	if content == "" {
		return nil, NewValidationError("content", "cannot be empty")
	}
	if community == "" {
		return nil, NewValidationError("community", "required")
	}

	post, err := s.api.CreatePost(ctx, remote.CreatePostRequest{
		UserID:    viewerID,
		Caption:   caption,
		Content:   content,
		Community: community,
	})
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.mu.Lock()
	s.posts[post.ID] = post
	s.mu.Unlock()

	// Activity tracking is advisory; it must not delay or fail the
	// creation path.
	go func() {
		err := s.api.TrackActivity(context.Background(), remote.ActivityRequest{
			UserID:       viewerID,
			ActivityType: "post",
			ContentID:    post.ID,
		})
		if err != nil {
			s.logger.Warn("activity tracking failed", "post_id", post.ID, "error", err)
		}
	}()

	return post, nil
}

// EditPost rewrites a loaded post's caption, content, and community.
// Nothing is applied optimistically: the backend confirms the edit
// (and enforces that the viewer authored the post) before the local
// record changes. The edit response carries no viewer annotations, so
// the local vote and saved flags survive the merge.
func (s *Store) EditPost(ctx context.Context, viewerID, postID int64, caption, content, community string) (*remote.Post, error) {
	if viewerID == 0 {
		return nil, ErrUnauthenticated
	}
	if content == "" {
		return nil, NewValidationError("content", "cannot be empty")
	}
	if _, ok := s.Get(postID); !ok {
		return nil, ErrPostNotFound
	}

	updated, err := s.api.EditPost(ctx, remote.EditPostRequest{
		PostID:    postID,
		UserID:    viewerID,
		Caption:   caption,
		Content:   content,
		Community: community,
	})
	if err != nil {
		return nil, fmt.Errorf("edit post %d: %w", postID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[postID]
	if !ok {
		return updated, nil
	}
	p.Caption = updated.Caption
	p.Content = updated.Content
	p.Community = updated.Community
	p.Votes = updated.Votes
	p.CreatedAt = updated.CreatedAt
	out := *p
	return &out, nil
}

// DeletePost removes a post from the backend and evicts it from the
// loaded view. The backend enforces that the viewer authored the post;
// on failure the view is untouched.
func (s *Store) DeletePost(ctx context.Context, viewerID, postID int64) error {
	if viewerID == 0 {
		return ErrUnauthenticated
	}
	if _, ok := s.Get(postID); !ok {
		return ErrPostNotFound
	}

	if err := s.api.DeletePost(ctx, postID, viewerID); err != nil {
		return fmt.Errorf("delete post %d: %w", postID, err)
	}

	s.mu.Lock()
	delete(s.posts, postID)
	s.mu.Unlock()
	return nil
}

// AutoRefresh reloads page 1 on the given interval while the viewer is
// still on the first page, so an idle feed picks up new posts. It
// blocks until ctx is cancelled and is meant to run in its own
// goroutine.
func (s *Store) AutoRefresh(ctx context.Context, viewerID int64, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			refresh := s.page == 1 && !s.loading
			filters := s.filters
			s.mu.Unlock()
			if !refresh {
				continue
			}
			if err := s.LoadFirstPage(ctx, viewerID, filters); err != nil {
				s.logger.Warn("feed auto-refresh failed", "error", err)
			}
		}
	}
}
