// Package comments fetches a post's flat comment list, turns it into a
// display thread, and handles the comment lifecycle: creation,
// replies, edits, and deletion.
package comments

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"bracula/internal/core/threads"
	"bracula/internal/remote"
)

// API is the slice of the backend client the service depends on.
type API interface {
	GetComments(ctx context.Context, postID int64) ([]remote.Comment, error)
	CreateComment(ctx context.Context, req remote.CreateCommentRequest) (*remote.CreateCommentResponse, error)
	EditComment(ctx context.Context, req remote.EditCommentRequest) (*remote.Comment, error)
	DeleteComment(ctx context.Context, commentID, viewerID int64) (int, error)
}

// Store is the feed view the service checks post presence against and
// reports updated comment counts to.
type Store interface {
	Get(id int64) (remote.Post, bool)
	SetCommentCount(id int64, n int) error
}

// Service loads and creates comments for posts in the feed view.
type Service struct {
	api    API
	store  Store
	logger *slog.Logger
}

// NewService creates a comment service.
func NewService(api API, store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{api: api, store: store, logger: logger}
}

// GetThread fetches a post's comments and orders them for display,
// replies spliced directly after their parents. The post must be
// present in the loaded view.
func (s *Service) GetThread(ctx context.Context, postID int64) ([]threads.Threaded, error) {
	if _, ok := s.store.Get(postID); !ok {
		return nil, ErrPostNotFound
	}

	flat, err := s.api.GetComments(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("get comments for post %d: %w", postID, err)
	}

	return threads.Build(flat), nil
}

// Create posts a new comment, or a reply when parentID is non-nil.
//
// Nothing is applied optimistically: a failed request changes no state,
// so the compose form can be resubmitted as-is. On success the post's
// comment count is set from the server-reported total.
func (s *Service) Create(ctx context.Context, viewerID, postID int64, content string, parentID *int64) (*remote.Comment, error) {
	if viewerID == 0 {
		return nil, ErrUnauthenticated
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrContentEmpty
	}
	if _, ok := s.store.Get(postID); !ok {
		return nil, ErrPostNotFound
	}

	resp, err := s.api.CreateComment(ctx, remote.CreateCommentRequest{
		PostID:   postID,
		UserID:   viewerID,
		Content:  content,
		ParentID: parentID,
	})
	if err != nil {
		return nil, fmt.Errorf("create comment on post %d: %w", postID, err)
	}

	if err := s.store.SetCommentCount(postID, resp.CommentCount); err != nil {
		s.logger.Warn("comment count update failed", "post_id", postID, "error", err)
	}

	return &resp.Comment, nil
}

// Edit rewrites a comment's content. The backend confirms the edit
// (and enforces that the viewer authored the comment) before anything
// changes; a failure leaves the thread as it was.
func (s *Service) Edit(ctx context.Context, viewerID, postID, commentID int64, content string) (*remote.Comment, error) {
	if viewerID == 0 {
		return nil, ErrUnauthenticated
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrContentEmpty
	}
	if _, ok := s.store.Get(postID); !ok {
		return nil, ErrPostNotFound
	}

	updated, err := s.api.EditComment(ctx, remote.EditCommentRequest{
		CommentID: commentID,
		UserID:    viewerID,
		Content:   content,
	})
	if err != nil {
		return nil, fmt.Errorf("edit comment %d: %w", commentID, err)
	}
	return updated, nil
}

// Delete removes a comment and its replies. On success the post's
// comment count is set from the server's recount, same as Create.
func (s *Service) Delete(ctx context.Context, viewerID, postID, commentID int64) error {
	if viewerID == 0 {
		return ErrUnauthenticated
	}
	if _, ok := s.store.Get(postID); !ok {
		return ErrPostNotFound
	}

	count, err := s.api.DeleteComment(ctx, commentID, viewerID)
	if err != nil {
		return fmt.Errorf("delete comment %d: %w", commentID, err)
	}

	if err := s.store.SetCommentCount(postID, count); err != nil {
		s.logger.Warn("comment count update failed", "post_id", postID, "error", err)
	}
	return nil
}
