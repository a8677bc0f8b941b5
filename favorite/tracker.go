// Package favorite tracks which articles each user has marked as a favorite.
package favorite

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/TzzJokerzzT/article-manager/model"
	"github.com/TzzJokerzzT/article-manager/store"
	"github.com/rs/zerolog"
)

// Tracker owns the favorite entries: a set of (article, user) pairs kept in
// the order they were added. Article ids are not checked against the
// article store.
type Tracker struct {
	mu        sync.Mutex
	slots     store.Slots
	favorites []model.Favorite

	now    func() time.Time
	logger zerolog.Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger used for corruption messages.
func WithLogger(l zerolog.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// NewTracker loads the favorites slot. A corrupted slot is logged and
// treated as empty.
func NewTracker(ctx context.Context, slots store.Slots, opts ...Option) (*Tracker, error) {
	t := &Tracker{
		slots:  slots,
		now:    time.Now,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}

	_, err := slots.Load(ctx, store.KeyFavorites, &t.favorites)
	switch {
	case errors.Is(err, model.ErrStorageCorruption):
		t.logger.Warn().Err(err).Str("slot", store.KeyFavorites).Msg("discarding unreadable favorites")
		t.favorites = nil
	case err != nil:
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	return t, nil
}

func (t *Tracker) persist(ctx context.Context, favorites []model.Favorite) error {
	if favorites == nil {
		favorites = []model.Favorite{}
	}
	if err := t.slots.Save(ctx, store.KeyFavorites, favorites); err != nil {
		return fmt.Errorf("failed to save favorites: %w", err)
	}
	return nil
}

func (t *Tracker) indexOf(articleID, userID string) int {
	for i, f := range t.favorites {
		if f.ArticleID == articleID && f.UserID == userID {
			return i
		}
	}
	return -1
}

// Add marks articleID as a favorite of userID. Adding an existing favorite
// is a no-op.
func (t *Tracker) Add(ctx context.Context, articleID, userID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.indexOf(articleID, userID) >= 0 {
		return nil
	}

	next := append(append([]model.Favorite(nil), t.favorites...), model.Favorite{
		ArticleID: articleID,
		UserID:    userID,
		CreatedAt: t.now(),
	})
	if err := t.persist(ctx, next); err != nil {
		return err
	}
	t.favorites = next
	return nil
}

// Remove unmarks articleID for userID. Removing a missing favorite is a no-op.
func (t *Tracker) Remove(ctx context.Context, articleID, userID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(articleID, userID)
	if i < 0 {
		return nil
	}

	next := make([]model.Favorite, 0, len(t.favorites)-1)
	next = append(next, t.favorites[:i]...)
	next = append(next, t.favorites[i+1:]...)
	if err := t.persist(ctx, next); err != nil {
		return err
	}
	t.favorites = next
	return nil
}

// List returns the article ids userID has favorited, oldest first.
func (t *Tracker) List(ctx context.Context, userID string) ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := []string{}
	for _, f := range t.favorites {
		if f.UserID == userID {
			ids = append(ids, f.ArticleID)
		}
	}
	return ids, nil
}

// IsFavorite reports whether userID has favorited articleID.
func (t *Tracker) IsFavorite(ctx context.Context, articleID, userID string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.indexOf(articleID, userID) >= 0, nil
}

// DeleteArticle removes articleID from every user's favorites.
func (t *Tracker) DeleteArticle(ctx context.Context, articleID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := make([]model.Favorite, 0, len(t.favorites))
	for _, f := range t.favorites {
		if f.ArticleID != articleID {
			next = append(next, f)
		}
	}
	if len(next) == len(t.favorites) {
		return nil
	}

	if err := t.persist(ctx, next); err != nil {
		return err
	}
	t.favorites = next
	return nil
}
