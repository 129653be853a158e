// Package localstate persists the client-side state that survives
// restarts: the viewer's profile snapshot, the notification cache
// mirror, favorite accommodation ids, and the accommodation view mode.
// It is a plain KV mirror with JSON values; nothing here is a source of
// truth for the backend, and writes are last-writer-wins (a single
// active client is assumed).
package localstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bracula/internal/remote"
)

// Key names mirror the browser-persisted keys of the original client.
const (
	keyUser              = "user"
	keyNotifications     = "userNotifications"
	keyFavorites         = "favoriteAccommodations"
	keyAccommodationView = "accommodationViewMode"
)

// User is the current session's profile snapshot.
type User struct {
	FullName  string `json:"full_name"`
	Email     string `json:"email,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	UserID    int64  `json:"user_id"`
}

// Store is a redis-backed mirror of the persisted client state.
type Store struct {
	client *redis.Client
	prefix string
}

// NewStore connects to redis at redisURL and verifies the connection.
func NewStore(redisURL string) (*Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewStoreWithClient(client), nil
}

// NewStoreWithClient creates a store from an existing redis client.
func NewStoreWithClient(client *redis.Client) *Store {
	return &Store{client: client, prefix: "bracula:"}
}

// Close releases the underlying redis connection.
func (s *Store) Close() error { return s.client.Close() }

func (s *Store) key(name string) string { return s.prefix + name }

func (s *Store) setJSON(ctx context.Context, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := s.client.Set(ctx, s.key(name), data, 0).Err(); err != nil {
		return fmt.Errorf("persist %s: %w", name, err)
	}
	return nil
}

// getJSON loads one key. The second return is false when the key is
// absent, which callers treat differently from a load failure.
func (s *Store) getJSON(ctx context.Context, name string, v any) (bool, error) {
	data, err := s.client.Get(ctx, s.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", name, err)
	}
	return true, nil
}

// SaveUser stores the session's profile snapshot.
func (s *Store) SaveUser(ctx context.Context, u User) error {
	return s.setJSON(ctx, keyUser, u)
}

// LoadUser returns the stored profile snapshot, or ok=false when no
// session has been established.
func (s *Store) LoadUser(ctx context.Context) (User, bool, error) {
	var u User
	ok, err := s.getJSON(ctx, keyUser, &u)
	return u, ok, err
}

// ClearUser removes the profile snapshot on logout.
func (s *Store) ClearUser(ctx context.Context) error {
	return s.client.Del(ctx, s.key(keyUser)).Err()
}

// SaveNotifications overwrites the persisted notification cache.
func (s *Store) SaveNotifications(ctx context.Context, items []remote.Notification) error {
	return s.setJSON(ctx, keyNotifications, items)
}

// LoadNotifications returns the persisted notification cache. ok=false
// means no cache has ever been written, which the notification manager
// distinguishes from an empty one.
func (s *Store) LoadNotifications(ctx context.Context) ([]remote.Notification, bool, error) {
	var items []remote.Notification
	ok, err := s.getJSON(ctx, keyNotifications, &items)
	return items, ok, err
}

// Favorites returns the stored accommodation favorite ids.
func (s *Store) Favorites(ctx context.Context) ([]string, error) {
	var favorites []string
	if _, err := s.getJSON(ctx, keyFavorites, &favorites); err != nil {
		return nil, err
	}
	return favorites, nil
}

// AddFavorite appends an accommodation id if not already present.
func (s *Store) AddFavorite(ctx context.Context, id string) error {
	favorites, err := s.Favorites(ctx)
	if err != nil {
		return err
	}
	for _, f := range favorites {
		if f == id {
			return nil
		}
	}
	return s.setJSON(ctx, keyFavorites, append(favorites, id))
}

// RemoveFavorite drops an accommodation id.
func (s *Store) RemoveFavorite(ctx context.Context, id string) error {
	favorites, err := s.Favorites(ctx)
	if err != nil {
		return err
	}
	kept := favorites[:0]
	for _, f := range favorites {
		if f != id {
			kept = append(kept, f)
		}
	}
	return s.setJSON(ctx, keyFavorites, kept)
}

// AccommodationViewMode returns the stored display preference, or the
// given fallback when none is set.
func (s *Store) AccommodationViewMode(ctx context.Context, fallback string) (string, error) {
	var mode string
	ok, err := s.getJSON(ctx, keyAccommodationView, &mode)
	if err != nil {
		return "", err
	}
	if !ok || mode == "" {
		return fallback, nil
	}
	return mode, nil
}

// SetAccommodationViewMode stores the display preference.
func (s *Store) SetAccommodationViewMode(ctx context.Context, mode string) error {
	return s.setJSON(ctx, keyAccommodationView, mode)
}
