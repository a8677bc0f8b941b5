package usecase

import (
	"context"

	"github.com/TzzJokerzzT/article-manager/model"
)

// ArticleRepository is the article store as seen by the service.
// FindByID returns nil, nil for an unknown id; Update and Delete return
// model.ErrNotFound.
type ArticleRepository interface {
	FindAll(ctx context.Context, filter model.ArticleFilter) (model.PaginatedResponse[model.Article], error)
	FindByID(ctx context.Context, id string) (*model.Article, error)
	Create(ctx context.Context, in model.ArticleInput) (*model.Article, error)
	Update(ctx context.Context, id string, patch model.ArticlePatch) (*model.Article, error)
	Delete(ctx context.Context, id string) error
}

// RatingRepository stores per-user ratings and computes aggregates.
type RatingRepository interface {
	Rate(ctx context.Context, articleID string, value int, userID string) error
	Aggregate(ctx context.Context, articleID string) (model.RatingAggregate, error)
	DeleteArticle(ctx context.Context, articleID string) error
}

// FavoriteRepository stores per-user favorites.
type FavoriteRepository interface {
	Add(ctx context.Context, articleID, userID string) error
	Remove(ctx context.Context, articleID, userID string) error
	List(ctx context.Context, userID string) ([]string, error)
	IsFavorite(ctx context.Context, articleID, userID string) (bool, error)
	DeleteArticle(ctx context.Context, articleID string) error
}
