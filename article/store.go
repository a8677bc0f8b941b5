// Package article implements the article store: an in-memory, newest-first
// collection of articles that is written back to its storage slot after
// every mutation.
package article

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/TzzJokerzzT/article-manager/catalog"
	"github.com/TzzJokerzzT/article-manager/model"
	"github.com/TzzJokerzzT/article-manager/store"
	"github.com/rs/zerolog"
)

// Store owns the article collection.
type Store struct {
	mu       sync.Mutex
	slots    store.Slots
	articles []*model.Article // newest first

	now    func() time.Time
	newID  func() string
	logger zerolog.Logger
	seed   *catalog.Catalog
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for corruption and seeding messages.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces model.NewID.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithSeed makes the store generate sample articles filed under c when the
// articles slot does not exist yet.
func WithSeed(c *catalog.Catalog) Option {
	return func(s *Store) { s.seed = c }
}

// record is the persisted form of an article. It has no favorite flag:
// favorites are per user and live in their own slot.
type record struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Summary       string    `json:"summary"`
	Author        string    `json:"author"`
	CategoryID    string    `json:"category_id"`
	SubcategoryID string    `json:"subcategory_id,omitempty"`
	Tags          []string  `json:"tags"`
	Rating        float64   `json:"rating"`
	RatingCount   int       `json:"rating_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toRecord(a *model.Article) record {
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}
	return record{
		ID:            a.ID,
		Title:         a.Title,
		Content:       a.Content,
		Summary:       a.Summary,
		Author:        a.Author,
		CategoryID:    a.CategoryID,
		SubcategoryID: a.SubcategoryID,
		Tags:          tags,
		Rating:        a.Rating,
		RatingCount:   a.RatingCount,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func (r record) article() *model.Article {
	return &model.Article{
		ID:            r.ID,
		Title:         r.Title,
		Content:       r.Content,
		Summary:       r.Summary,
		Author:        r.Author,
		CategoryID:    r.CategoryID,
		SubcategoryID: r.SubcategoryID,
		Tags:          r.Tags,
		Rating:        r.Rating,
		RatingCount:   r.RatingCount,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// NewStore loads the articles slot. A corrupted slot is logged and the store
// starts empty; a missing slot is seeded when WithSeed was given.
func NewStore(ctx context.Context, slots store.Slots, opts ...Option) (*Store, error) {
	s := &Store{
		slots:  slots,
		now:    time.Now,
		newID:  model.NewID,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	var records []record
	found, err := slots.Load(ctx, store.KeyArticles, &records)
	switch {
	case errors.Is(err, model.ErrStorageCorruption):
		s.logger.Warn().Err(err).Str("slot", store.KeyArticles).Msg("discarding unreadable articles")
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("failed to load articles: %w", err)
	}

	if !found {
		if s.seed != nil {
			return s, s.seedSamples(ctx)
		}
		return s, nil
	}

	s.articles = make([]*model.Article, 0, len(records))
	for _, r := range records {
		s.articles = append(s.articles, r.article())
	}
	return s, nil
}

func (s *Store) seedSamples(ctx context.Context) error {
	samples := sampleArticles(s.seed, s.now(), s.newID)
	if err := s.persist(ctx, samples); err != nil {
		return fmt.Errorf("failed to seed articles: %w", err)
	}
	s.articles = samples
	s.logger.Info().Int("count", len(samples)).Msg("seeded sample articles")
	return nil
}

// persist writes articles to the slot. Callers swap their in-memory
// collection only after it succeeds, so a failed write changes nothing.
func (s *Store) persist(ctx context.Context, articles []*model.Article) error {
	records := make([]record, len(articles))
	for i, a := range articles {
		records[i] = toRecord(a)
	}
	return s.slots.Save(ctx, store.KeyArticles, records)
}

func (s *Store) indexOf(id string) int {
	for i, a := range s.articles {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// FindByID returns the article with the given id, or nil when there is none.
func (s *Store) FindByID(ctx context.Context, id string) (*model.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		return s.articles[i].Clone(), nil
	}
	return nil, nil
}

// Create stores a new article in front of the collection.
// Rating and rating count always start at zero.
func (s *Store) Create(ctx context.Context, in model.ArticleInput) (*model.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	tags := append([]string{}, in.Tags...)
	a := &model.Article{
		ID:            s.newID(),
		Title:         in.Title,
		Content:       in.Content,
		Summary:       in.Summary,
		Author:        in.Author,
		CategoryID:    in.CategoryID,
		SubcategoryID: in.SubcategoryID,
		Tags:          tags,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	next := make([]*model.Article, 0, len(s.articles)+1)
	next = append(next, a)
	next = append(next, s.articles...)
	if err := s.persist(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to save article: %w", err)
	}
	s.articles = next

	return a.Clone(), nil
}

// Update merges the set fields of patch over the stored article and bumps
// its UpdatedAt. It returns model.ErrNotFound when id is unknown.
func (s *Store) Update(ctx context.Context, id string, patch model.ArticlePatch) (*model.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, model.NotFound(id)
	}

	merged := patch.Apply(s.articles[i])
	merged.UpdatedAt = s.now()

	next := append([]*model.Article(nil), s.articles...)
	next[i] = merged
	if err := s.persist(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to save article: %w", err)
	}
	s.articles = next

	return merged.Clone(), nil
}

// Delete removes an article. It returns model.ErrNotFound when id is unknown.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.NotFound(id)
	}

	next := make([]*model.Article, 0, len(s.articles)-1)
	next = append(next, s.articles[:i]...)
	next = append(next, s.articles[i+1:]...)
	if err := s.persist(ctx, next); err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	s.articles = next

	return nil
}
