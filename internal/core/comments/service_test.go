package comments

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bracula/internal/remote"
)

type mockAPI struct {
	getFunc    func(ctx context.Context, postID int64) ([]remote.Comment, error)
	createFunc func(ctx context.Context, req remote.CreateCommentRequest) (*remote.CreateCommentResponse, error)
	editFunc   func(ctx context.Context, req remote.EditCommentRequest) (*remote.Comment, error)
	deleteFunc func(ctx context.Context, commentID, viewerID int64) (int, error)

	createCalls int
	editCalls   int
	deleteCalls int
	lastCreate  remote.CreateCommentRequest
	lastEdit    remote.EditCommentRequest
}

func (m *mockAPI) GetComments(ctx context.Context, postID int64) ([]remote.Comment, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, postID)
	}
	return nil, nil
}

func (m *mockAPI) CreateComment(ctx context.Context, req remote.CreateCommentRequest) (*remote.CreateCommentResponse, error) {
	m.createCalls++
	m.lastCreate = req
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return &remote.CreateCommentResponse{Comment: remote.Comment{ID: 1, PostID: req.PostID}}, nil
}

func (m *mockAPI) EditComment(ctx context.Context, req remote.EditCommentRequest) (*remote.Comment, error) {
	m.editCalls++
	m.lastEdit = req
	if m.editFunc != nil {
		return m.editFunc(ctx, req)
	}
	return &remote.Comment{ID: req.CommentID, Content: req.Content}, nil
}

func (m *mockAPI) DeleteComment(ctx context.Context, commentID, viewerID int64) (int, error) {
	m.deleteCalls++
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, commentID, viewerID)
	}
	return 0, nil
}

type mockStore struct {
	posts         map[int64]remote.Post
	commentCounts map[int64]int
}

func newMockStore(posts ...remote.Post) *mockStore {
	s := &mockStore{
		posts:         make(map[int64]remote.Post),
		commentCounts: make(map[int64]int),
	}
	for _, p := range posts {
		s.posts[p.ID] = p
	}
	return s
}

func (m *mockStore) Get(id int64) (remote.Post, bool) {
	p, ok := m.posts[id]
	return p, ok
}

func (m *mockStore) SetCommentCount(id int64, n int) error {
	if _, ok := m.posts[id]; !ok {
		return errors.New("post not found")
	}
	m.commentCounts[id] = n
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func ptr(v int64) *int64 { return &v }

func TestGetThreadOrdersReplies(t *testing.T) {
	api := &mockAPI{getFunc: func(ctx context.Context, postID int64) ([]remote.Comment, error) {
		return []remote.Comment{
			{ID: 1, PostID: postID},
			{ID: 2, PostID: postID, ParentID: ptr(1)},
			{ID: 3, PostID: postID},
		}, nil
	}}
	svc := NewService(api, newMockStore(remote.Post{ID: 7}), discardLogger())

	thread, err := svc.GetThread(context.Background(), 7)
	require.NoError(t, err)

	require.Len(t, thread, 3)
	assert.Equal(t, int64(1), thread[0].Comment.ID)
	assert.Equal(t, int64(2), thread[1].Comment.ID)
	assert.Equal(t, 1, thread[1].Depth)
	assert.Equal(t, int64(3), thread[2].Comment.ID)
}

func TestGetThreadUnloadedPost(t *testing.T) {
	svc := NewService(&mockAPI{}, newMockStore(), discardLogger())

	_, err := svc.GetThread(context.Background(), 99)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestGetThreadFetchFailure(t *testing.T) {
	api := &mockAPI{getFunc: func(context.Context, int64) ([]remote.Comment, error) {
		return nil, errors.New("backend unavailable")
	}}
	svc := NewService(api, newMockStore(remote.Post{ID: 7}), discardLogger())

	_, err := svc.GetThread(context.Background(), 7)
	assert.Error(t, err)
}

func TestCreateUpdatesCommentCount(t *testing.T) {
	api := &mockAPI{createFunc: func(ctx context.Context, req remote.CreateCommentRequest) (*remote.CreateCommentResponse, error) {
		return &remote.CreateCommentResponse{
			Comment:      remote.Comment{ID: 42, PostID: req.PostID, Content: req.Content},
			CommentCount: 6,
		}, nil
	}}
	store := newMockStore(remote.Post{ID: 7, CommentCount: 5})
	svc := NewService(api, store, discardLogger())

	created, err := svc.Create(context.Background(), 3, 7, "nice place", nil)
	require.NoError(t, err)

	assert.Equal(t, int64(42), created.ID)
	assert.Equal(t, 6, store.commentCounts[7], "count comes from the server total")
}

func TestCreateReplyCarriesParentID(t *testing.T) {
	api := &mockAPI{}
	svc := NewService(api, newMockStore(remote.Post{ID: 7}), discardLogger())

	_, err := svc.Create(context.Background(), 3, 7, "agreed", ptr(12))
	require.NoError(t, err)

	require.NotNil(t, api.lastCreate.ParentID)
	assert.Equal(t, int64(12), *api.lastCreate.ParentID)
}

func TestCreateValidation(t *testing.T) {
	api := &mockAPI{}
	svc := NewService(api, newMockStore(remote.Post{ID: 7}), discardLogger())

	_, err := svc.Create(context.Background(), 0, 7, "hello", nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Create(context.Background(), 3, 7, "   ", nil)
	assert.ErrorIs(t, err, ErrContentEmpty)

	_, err = svc.Create(context.Background(), 3, 99, "hello", nil)
	assert.ErrorIs(t, err, ErrPostNotFound)

	assert.Zero(t, api.createCalls, "rejected before any network call")
}

func TestEditRewritesContent(t *testing.T) {
	api := &mockAPI{}
	svc := NewService(api, newMockStore(remote.Post{ID: 7}), discardLogger())

	updated, err := svc.Edit(context.Background(), 3, 7, 12, "second thoughts")
	require.NoError(t, err)

	assert.Equal(t, int64(12), updated.ID)
	assert.Equal(t, "second thoughts", updated.Content)
	assert.Equal(t, int64(3), api.lastEdit.UserID)
}

func TestEditValidation(t *testing.T) {
	api := &mockAPI{}
	svc := NewService(api, newMockStore(remote.Post{ID: 7}), discardLogger())

	_, err := svc.Edit(context.Background(), 0, 7, 12, "hello")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Edit(context.Background(), 3, 7, 12, "   ")
	assert.ErrorIs(t, err, ErrContentEmpty)

	_, err = svc.Edit(context.Background(), 3, 99, 12, "hello")
	assert.ErrorIs(t, err, ErrPostNotFound)

	assert.Zero(t, api.editCalls, "rejected before any network call")
}

func TestDeleteUpdatesCountFromServerRecount(t *testing.T) {
	api := &mockAPI{deleteFunc: func(ctx context.Context, commentID, viewerID int64) (int, error) {
		return 3, nil
	}}
	store := newMockStore(remote.Post{ID: 7, CommentCount: 5})
	svc := NewService(api, store, discardLogger())

	require.NoError(t, svc.Delete(context.Background(), 3, 7, 12))

	// Replies were removed with the comment, so the recount wins over
	// any local decrement.
	assert.Equal(t, 3, store.commentCounts[7])
}

func TestDeleteFailureAppliesNothing(t *testing.T) {
	api := &mockAPI{deleteFunc: func(ctx context.Context, commentID, viewerID int64) (int, error) {
		return 0, errors.New("not authorized")
	}}
	store := newMockStore(remote.Post{ID: 7, CommentCount: 5})
	svc := NewService(api, store, discardLogger())

	require.Error(t, svc.Delete(context.Background(), 3, 7, 12))
	assert.Empty(t, store.commentCounts, "no count change on failure")
}

func TestDeleteValidation(t *testing.T) {
	api := &mockAPI{}
	svc := NewService(api, newMockStore(remote.Post{ID: 7}), discardLogger())

	assert.ErrorIs(t, svc.Delete(context.Background(), 0, 7, 12), ErrUnauthenticated)
	assert.ErrorIs(t, svc.Delete(context.Background(), 3, 99, 12), ErrPostNotFound)
	assert.Zero(t, api.deleteCalls, "rejected before any network call")
}

func TestCreateFailureAppliesNothing(t *testing.T) {
	api := &mockAPI{createFunc: func(context.Context, remote.CreateCommentRequest) (*remote.CreateCommentResponse, error) {
		return nil, errors.New("backend unavailable")
	}}
	store := newMockStore(remote.Post{ID: 7, CommentCount: 5})
	svc := NewService(api, store, discardLogger())

	_, err := svc.Create(context.Background(), 3, 7, "nice place", nil)
	require.Error(t, err)

	assert.Empty(t, store.commentCounts, "no count change on failure")
}
