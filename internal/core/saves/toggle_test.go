package saves

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bracula/internal/remote"
)

type mockAPI struct {
	saveFunc    func(ctx context.Context, req remote.SaveRequest) error
	savedFunc   func(ctx context.Context, viewerID int64) ([]remote.Post, error)
	saveCalls   int
	lastSaveReq remote.SaveRequest
}

func (m *mockAPI) Save(ctx context.Context, req remote.SaveRequest) error {
	m.saveCalls++
	m.lastSaveReq = req
	if m.saveFunc != nil {
		return m.saveFunc(ctx, req)
	}
	return nil
}

func (m *mockAPI) GetSavedPosts(ctx context.Context, viewerID int64) ([]remote.Post, error) {
	if m.savedFunc != nil {
		return m.savedFunc(ctx, viewerID)
	}
	return nil, nil
}

type mockStore struct {
	mu    sync.Mutex
	posts map[int64]remote.Post
}

func newMockStore(posts ...remote.Post) *mockStore {
	s := &mockStore{posts: make(map[int64]remote.Post)}
	for _, p := range posts {
		s.posts[p.ID] = p
	}
	return s
}

func (m *mockStore) Get(id int64) (remote.Post, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	return p, ok
}

func (m *mockStore) SetSaved(id int64, saved bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return errors.New("post not found")
	}
	p.Saved = saved
	m.posts[id] = p
	return nil
}

// confirmFunc adapts a function to the Confirmer interface.
type confirmFunc func(ctx context.Context, postID int64) (bool, error)

func (f confirmFunc) ConfirmUnsave(ctx context.Context, postID int64) (bool, error) {
	return f(ctx, postID)
}

var (
	alwaysConfirm = confirmFunc(func(context.Context, int64) (bool, error) { return true, nil })
	alwaysCancel  = confirmFunc(func(context.Context, int64) (bool, error) { return false, nil })
)

type mockNotifier struct {
	mu     sync.Mutex
	levels []string
}

func (m *mockNotifier) Notify(level, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levels = append(m.levels, level)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestToggleSavesWithoutPrompt(t *testing.T) {
	store := newMockStore(remote.Post{ID: 1})
	api := &mockAPI{}
	prompted := false
	confirm := confirmFunc(func(context.Context, int64) (bool, error) {
		prompted = true
		return true, nil
	})
	toggler := NewToggler(api, store, &mockNotifier{}, discardLogger())

	result, err := toggler.Toggle(context.Background(), 42, 1, confirm)
	require.NoError(t, err)

	assert.True(t, result.Saved)
	assert.False(t, prompted, "saving must not prompt")
	assert.Equal(t, "save", api.lastSaveReq.Action)

	p, _ := store.Get(1)
	assert.True(t, p.Saved)
}

func TestToggleUnsavePrompts(t *testing.T) {
	store := newMockStore(remote.Post{ID: 1, Saved: true})
	api := &mockAPI{}
	prompted := false
	confirm := confirmFunc(func(context.Context, int64) (bool, error) {
		prompted = true
		return true, nil
	})
	toggler := NewToggler(api, store, &mockNotifier{}, discardLogger())

	result, err := toggler.Toggle(context.Background(), 42, 1, confirm)
	require.NoError(t, err)

	assert.True(t, prompted)
	assert.False(t, result.Saved)
	assert.Equal(t, "unsave", api.lastSaveReq.Action)

	p, _ := store.Get(1)
	assert.False(t, p.Saved)
}

func TestToggleUnsaveCancelledLeavesStateUntouched(t *testing.T) {
	store := newMockStore(remote.Post{ID: 1, Saved: true})
	api := &mockAPI{}
	toggler := NewToggler(api, store, &mockNotifier{}, discardLogger())

	result, err := toggler.Toggle(context.Background(), 42, 1, alwaysCancel)
	require.NoError(t, err)

	assert.True(t, result.Saved, "flag stays set")
	assert.Zero(t, api.saveCalls, "no request sent")

	p, _ := store.Get(1)
	assert.True(t, p.Saved)
}

func TestToggleScenario(t *testing.T) {
	// Unsaved -> save (no prompt) -> unsave (prompt, cancel) leaves
	// the post saved.
	store := newMockStore(remote.Post{ID: 9})
	api := &mockAPI{}
	toggler := NewToggler(api, store, &mockNotifier{}, discardLogger())

	prompts := 0
	confirm := confirmFunc(func(context.Context, int64) (bool, error) {
		prompts++
		return false, nil
	})

	_, err := toggler.Toggle(context.Background(), 42, 9, confirm)
	require.NoError(t, err)
	assert.Zero(t, prompts)

	result, err := toggler.Toggle(context.Background(), 42, 9, confirm)
	require.NoError(t, err)
	assert.Equal(t, 1, prompts)
	assert.True(t, result.Saved)

	p, _ := store.Get(9)
	assert.True(t, p.Saved)
}

func TestToggleUnauthenticated(t *testing.T) {
	api := &mockAPI{}
	toggler := NewToggler(api, newMockStore(remote.Post{ID: 1}), &mockNotifier{}, discardLogger())

	_, err := toggler.Toggle(context.Background(), 0, 1, alwaysConfirm)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Zero(t, api.saveCalls)
}

func TestTogglePostNotFound(t *testing.T) {
	toggler := NewToggler(&mockAPI{}, newMockStore(), &mockNotifier{}, discardLogger())

	_, err := toggler.Toggle(context.Background(), 42, 99, alwaysConfirm)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestToggleUnsaveWithoutConfirmer(t *testing.T) {
	store := newMockStore(remote.Post{ID: 1, Saved: true})
	toggler := NewToggler(&mockAPI{}, store, &mockNotifier{}, discardLogger())

	_, err := toggler.Toggle(context.Background(), 42, 1, nil)
	assert.ErrorIs(t, err, ErrConfirmationRequired)
}

func TestToggleRevertsOnBackendFailure(t *testing.T) {
	store := newMockStore(remote.Post{ID: 1})
	api := &mockAPI{saveFunc: func(context.Context, remote.SaveRequest) error {
		return errors.New("backend unavailable")
	}}
	notifier := &mockNotifier{}
	toggler := NewToggler(api, store, notifier, discardLogger())

	_, err := toggler.Toggle(context.Background(), 42, 1, alwaysConfirm)
	require.Error(t, err)

	p, _ := store.Get(1)
	assert.False(t, p.Saved, "optimistic save reverted")
	require.Len(t, notifier.levels, 1)
	assert.Equal(t, "error", notifier.levels[0])
}

func TestConfirmedUnsaveEvictsFromSavedView(t *testing.T) {
	now := time.Now()
	store := newMockStore(
		remote.Post{ID: 1, Saved: true, CreatedAt: now},
		remote.Post{ID: 2, Saved: true, CreatedAt: now.Add(time.Minute)},
	)
	api := &mockAPI{savedFunc: func(context.Context, int64) ([]remote.Post, error) {
		return []remote.Post{
			{ID: 1, Saved: true, CreatedAt: now},
			{ID: 2, Saved: true, CreatedAt: now.Add(time.Minute)},
		}, nil
	}}
	toggler := NewToggler(api, store, &mockNotifier{}, discardLogger())

	_, err := toggler.LoadSavedView(context.Background(), 42)
	require.NoError(t, err)

	_, err = toggler.Toggle(context.Background(), 42, 1, alwaysConfirm)
	require.NoError(t, err)

	view, ok := toggler.SavedView()
	require.True(t, ok)
	require.Len(t, view, 1)
	assert.Equal(t, int64(2), view[0].ID)
}

func TestSaveDoesNotTouchSavedView(t *testing.T) {
	store := newMockStore(remote.Post{ID: 3})
	api := &mockAPI{savedFunc: func(context.Context, int64) ([]remote.Post, error) {
		return []remote.Post{{ID: 1, Saved: true}}, nil
	}}
	toggler := NewToggler(api, store, &mockNotifier{}, discardLogger())

	_, err := toggler.LoadSavedView(context.Background(), 42)
	require.NoError(t, err)

	_, err = toggler.Toggle(context.Background(), 42, 3, nil)
	require.NoError(t, err)

	view, ok := toggler.SavedView()
	require.True(t, ok)
	assert.Len(t, view, 1, "save is additive, no list changes")
}

func TestSavedViewOrderedNewestFirst(t *testing.T) {
	base := time.Now()
	api := &mockAPI{savedFunc: func(context.Context, int64) ([]remote.Post, error) {
		return []remote.Post{
			{ID: 1, CreatedAt: base},
			{ID: 2, CreatedAt: base.Add(2 * time.Hour)},
			{ID: 3, CreatedAt: base.Add(time.Hour)},
		}, nil
	}}
	toggler := NewToggler(api, newMockStore(), &mockNotifier{}, discardLogger())

	_, err := toggler.LoadSavedView(context.Background(), 42)
	require.NoError(t, err)

	view, ok := toggler.SavedView()
	require.True(t, ok)
	require.Len(t, view, 3)
	assert.Equal(t, int64(2), view[0].ID)
	assert.Equal(t, int64(3), view[1].ID)
	assert.Equal(t, int64(1), view[2].ID)
}

func TestSavedViewAbsentUntilLoaded(t *testing.T) {
	toggler := NewToggler(&mockAPI{}, newMockStore(), &mockNotifier{}, discardLogger())

	_, ok := toggler.SavedView()
	assert.False(t, ok)

	toggler.ClearSavedView()
	_, ok = toggler.SavedView()
	assert.False(t, ok)
}
