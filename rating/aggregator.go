// Package rating keeps per-user article ratings and computes their aggregates.
package rating

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

// Aggregator owns the rating entries. It is the source of truth for an
// article's mean rating; the copy cached on the article is derived from it.
type Aggregator struct {
	mu      sync.Mutex
	slots   store.Slots
	ratings []model.Rating

	now    func() time.Time
	logger zerolog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets the logger used for corruption messages.
func WithLogger(l zerolog.Logger) Option {
	return func(a *Aggregator) { a.logger = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// NewAggregator loads the ratings slot. A corrupted slot is logged and
// treated as empty.
func NewAggregator(ctx context.Context, slots store.Slots, opts ...Option) (*Aggregator, error) {
	a := &Aggregator{
		slots:  slots,
		now:    time.Now,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}

	_, err := slots.Load(ctx, store.KeyRatings, &a.ratings)
	switch {
	case errors.Is(err, model.ErrStorageCorruption):
		a.logger.Warn().Err(err).Str("slot", store.KeyRatings).Msg("discarding unreadable ratings")
		a.ratings = nil
	case err != nil:
		return nil, fmt.Errorf("failed to load ratings: %w", err)
	}
	return a, nil
}

func (a *Aggregator) persist(ctx context.Context, ratings []model.Rating) error {
	if ratings == nil {
		ratings = []model.Rating{}
	}
	if err := a.slots.Save(ctx, store.KeyRatings, ratings); err != nil {
		return fmt.Errorf("failed to save ratings: %w", err)
	}
	return nil
}

// Rate records value as userID's rating of articleID, replacing any earlier
// rating by the same user. An empty userID is the anonymous rater.
func (a *Aggregator) Rate(ctx context.Context, articleID string, value int, userID string) error {
	if err := model.ValidateRatingValue(value); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	entry := model.Rating{
		ArticleID: articleID,
		UserID:    userID,
		Value:     value,
		CreatedAt: a.now(),
	}

	next := append([]model.Rating(nil), a.ratings...)
	replaced := false
	for i, r := range next {
		if r.ArticleID == articleID && r.UserID == userID {
			next[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		next = append(next, entry)
	}

	if err := a.persist(ctx, next); err != nil {
		return err
	}
	a.ratings = next
	return nil
}

// Aggregate returns the mean rating of articleID rounded to two decimals
// and the number of ratings. An unrated article yields {0, 0}.
func (a *Aggregator) Aggregate(ctx context.Context, articleID string) (model.RatingAggregate, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	sum, count := 0, 0
	for _, r := range a.ratings {
		if r.ArticleID == articleID {
			sum += r.Value
			count++
		}
	}
	if count == 0 {
		return model.RatingAggregate{}, nil
	}
	return model.RatingAggregate{
		Rating: model.RoundRating(float64(sum) / float64(count)),
		Count:  count,
	}, nil
}

// Ratings returns the entries recorded for articleID in insertion order.
func (a *Aggregator) Ratings(ctx context.Context, articleID string) ([]model.Rating, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := []model.Rating{}
	for _, r := range a.ratings {
		if r.ArticleID == articleID {
			out = append(out, r)
		}
	}
	return out, nil
}

// DeleteArticle drops every rating of articleID.
func (a *Aggregator) DeleteArticle(ctx context.Context, articleID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	next := make([]model.Rating, 0, len(a.ratings))
	for _, r := range a.ratings {
		if r.ArticleID != articleID {
			next = append(next, r)
		}
	}
	if len(next) == len(a.ratings) {
		return nil
	}

	if err := a.persist(ctx, next); err != nil {
		return err
	}
	a.ratings = next
	return nil
}
