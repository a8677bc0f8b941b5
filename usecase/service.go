// Package usecase validates caller input and orchestrates the article,
// rating and favorite stores.
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/TzzJokerzzT/article-manager/event"
	"github.com/TzzJokerzzT/article-manager/model"
	"github.com/rs/zerolog"
)

// DefaultUser is the user favorites are attributed to when none is given.
const DefaultUser = "user-1"

// Service provides the article use cases. Build one with New and share it.
type Service struct {
	articles  ArticleRepository
	ratings   RatingRepository
	favorites FavoriteRepository

	publisher   event.Publisher
	defaultUser string
	now         func() time.Time
	logger      zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sets where change events go. The default discards them.
func WithPublisher(p event.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithDefaultUser sets the user that an empty user id resolves to.
func WithDefaultUser(id string) Option {
	return func(s *Service) { s.defaultUser = id }
}

// WithLogger sets the logger used for write traces at debug level.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock replaces time.Now for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New wires a Service to its stores.
func New(articles ArticleRepository, ratings RatingRepository, favorites FavoriteRepository, opts ...Option) *Service {
	s := &Service{
		articles:    articles,
		ratings:     ratings,
		favorites:   favorites,
		publisher:   event.Nop{},
		defaultUser: DefaultUser,
		now:         time.Now,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) user(id string) string {
	if id == "" {
		return s.defaultUser
	}
	return id
}

func (s *Service) publish(kind event.Kind, articleID, userID string) {
	s.publisher.Publish(event.Event{Kind: kind, ArticleID: articleID, UserID: userID, At: s.now()})
}

func (s *Service) markFavorite(ctx context.Context, a *model.Article, userID string) error {
	fav, err := s.favorites.IsFavorite(ctx, a.ID, userID)
	if err != nil {
		return fmt.Errorf("check favorite: %w", err)
	}
	a.IsFavorite = fav
	return nil
}

// GetArticles returns one page of the articles matching filter, with
// IsFavorite set for userID.
func (s *Service) GetArticles(ctx context.Context, filter model.ArticleFilter, userID string) (model.PaginatedResponse[model.Article], error) {
	if err := filter.Validate(); err != nil {
		return model.PaginatedResponse[model.Article]{}, err
	}

	res, err := s.articles.FindAll(ctx, filter)
	if err != nil {
		return model.PaginatedResponse[model.Article]{}, fmt.Errorf("list articles: %w", err)
	}

	userID = s.user(userID)
	for i := range res.Data {
		if err := s.markFavorite(ctx, &res.Data[i], userID); err != nil {
			return model.PaginatedResponse[model.Article]{}, err
		}
	}
	return res, nil
}

// GetArticleByID returns the article or nil when it does not exist.
func (s *Service) GetArticleByID(ctx context.Context, id, userID string) (*model.Article, error) {
	if id == "" {
		return nil, &model.ValidationError{Field: "id", Message: "is required"}
	}

	a, err := s.articles.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if a == nil {
		return nil, nil
	}
	if err := s.markFavorite(ctx, a, s.user(userID)); err != nil {
		return nil, err
	}
	return a, nil
}

// CreateArticle validates in and stores it as a new, unrated article.
func (s *Service) CreateArticle(ctx context.Context, in model.ArticleInput) (*model.Article, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	a, err := s.articles.Create(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}

	s.logger.Debug().Str("article_id", a.ID).Msg("article created")
	s.publish(event.ArticleCreated, a.ID, "")
	return a, nil
}

// UpdateArticle applies patch to an existing article. An unknown id is
// reported before the patch is validated. Rating fields are derived from
// the rating store and can only change through RateArticle.
func (s *Service) UpdateArticle(ctx context.Context, id string, patch model.ArticlePatch) (*model.Article, error) {
	existing, err := s.articles.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if existing == nil {
		return nil, model.NotFound(id)
	}
	if patch.Rating != nil {
		return nil, &model.ValidationError{Field: "rating", Message: "is derived from ratings; use RateArticle"}
	}
	if patch.RatingCount != nil {
		return nil, &model.ValidationError{Field: "ratingCount", Message: "is derived from ratings; use RateArticle"}
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	a, err := s.articles.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update article: %w", err)
	}

	s.logger.Debug().Str("article_id", id).Msg("article updated")
	s.publish(event.ArticleUpdated, id, "")
	return a, nil
}

// DeleteArticle removes an article together with its ratings and favorites.
func (s *Service) DeleteArticle(ctx context.Context, id string) error {
	if err := s.articles.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if err := s.ratings.DeleteArticle(ctx, id); err != nil {
		return fmt.Errorf("delete ratings of %s: %w", id, err)
	}
	if err := s.favorites.DeleteArticle(ctx, id); err != nil {
		return fmt.Errorf("delete favorites of %s: %w", id, err)
	}

	s.logger.Debug().Str("article_id", id).Msg("article deleted")
	s.publish(event.ArticleDeleted, id, "")
	return nil
}

// RateArticle records userID's rating and copies the new aggregate onto the
// article. An empty userID rates anonymously. The two writes are not atomic;
// the rating store stays authoritative if the second one fails.
func (s *Service) RateArticle(ctx context.Context, articleID string, value int, userID string) (model.RatingAggregate, error) {
	if err := model.ValidateRatingValue(value); err != nil {
		return model.RatingAggregate{}, err
	}

	existing, err := s.articles.FindByID(ctx, articleID)
	if err != nil {
		return model.RatingAggregate{}, fmt.Errorf("get article: %w", err)
	}
	if existing == nil {
		return model.RatingAggregate{}, model.NotFound(articleID)
	}

	if err := s.ratings.Rate(ctx, articleID, value, userID); err != nil {
		return model.RatingAggregate{}, fmt.Errorf("rate article: %w", err)
	}
	agg, err := s.ratings.Aggregate(ctx, articleID)
	if err != nil {
		return model.RatingAggregate{}, fmt.Errorf("aggregate ratings: %w", err)
	}

	patch := model.ArticlePatch{Rating: &agg.Rating, RatingCount: &agg.Count}
	if _, err := s.articles.Update(ctx, articleID, patch); err != nil {
		return model.RatingAggregate{}, fmt.Errorf("store rating on article: %w", err)
	}

	s.logger.Debug().Str("article_id", articleID).Float64("rating", agg.Rating).Int("count", agg.Count).Msg("article rated")
	s.publish(event.RatingChanged, articleID, userID)
	return agg, nil
}

// ArticleRating returns the current aggregate for an article.
func (s *Service) ArticleRating(ctx context.Context, articleID string) (model.RatingAggregate, error) {
	agg, err := s.ratings.Aggregate(ctx, articleID)
	if err != nil {
		return model.RatingAggregate{}, fmt.Errorf("aggregate ratings: %w", err)
	}
	return agg, nil
}

// AddFavorite marks an article as a favorite of userID.
func (s *Service) AddFavorite(ctx context.Context, articleID, userID string) error {
	userID = s.user(userID)
	if err := s.favorites.Add(ctx, articleID, userID); err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	s.publish(event.FavoriteChanged, articleID, userID)
	return nil
}

// RemoveFavorite unmarks an article for userID.
func (s *Service) RemoveFavorite(ctx context.Context, articleID, userID string) error {
	userID = s.user(userID)
	if err := s.favorites.Remove(ctx, articleID, userID); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	s.publish(event.FavoriteChanged, articleID, userID)
	return nil
}

// ToggleFavorite removes the favorite when currentlyFavorite is set and adds
// it otherwise. It returns the new state.
func (s *Service) ToggleFavorite(ctx context.Context, articleID string, currentlyFavorite bool, userID string) (bool, error) {
	var err error
	if currentlyFavorite {
		err = s.RemoveFavorite(ctx, articleID, userID)
	} else {
		err = s.AddFavorite(ctx, articleID, userID)
	}
	if err != nil {
		return currentlyFavorite, err
	}
	return !currentlyFavorite, nil
}

// ListFavorites returns the ids userID has favorited, oldest first.
func (s *Service) ListFavorites(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.favorites.List(ctx, s.user(userID))
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return ids, nil
}

// IsFavorite reports whether userID has favorited articleID.
func (s *Service) IsFavorite(ctx context.Context, articleID, userID string) (bool, error) {
	fav, err := s.favorites.IsFavorite(ctx, articleID, s.user(userID))
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return fav, nil
}
