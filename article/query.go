package article

import (
	"context"
	"strings"

	"github.com/TzzJokerzzT/article-manager/model"
)

// FindAll filters the collection, counts the matches and returns the
// requested page. A page past the end yields empty data, not an error.
//
// Predicates are applied in this order:
//   - search: case-insensitive substring of title, content or author
//   - category and subcategory: exact id match
//   - minimum rating: rating >= MinRating when MinRating > 0
//   - tags: at least one tag in common
func (s *Store) FindAll(ctx context.Context, f model.ArticleFilter) (model.PaginatedResponse[model.Article], error) {
	s.mu.Lock()
	matched := make([]*model.Article, 0, len(s.articles))
	for _, a := range s.articles {
		if Matches(a, f) {
			matched = append(matched, a)
		}
	}

	page := paginate(matched, f.Offset(), f.Limit)
	data := make([]model.Article, len(page))
	for i, a := range page {
		data[i] = *a.Clone()
	}
	s.mu.Unlock()

	return model.PaginatedResponse[model.Article]{
		Data:       data,
		Pagination: model.NewPageInfo(f.Page, f.Limit, len(matched)),
	}, nil
}

// Matches reports whether a passes every predicate set in f.
func Matches(a *model.Article, f model.ArticleFilter) bool {
	if f.Search != "" && !matchesSearch(a, strings.ToLower(f.Search)) {
		return false
	}
	if f.CategoryID != "" && a.CategoryID != f.CategoryID {
		return false
	}
	if f.SubcategoryID != "" && a.SubcategoryID != f.SubcategoryID {
		return false
	}
	if f.MinRating > 0 && a.Rating < f.MinRating {
		return false
	}
	if len(f.Tags) > 0 && !a.HasAnyTag(f.Tags) {
		return false
	}
	return true
}

func matchesSearch(a *model.Article, needle string) bool {
	return strings.Contains(strings.ToLower(a.Title), needle) ||
		strings.Contains(strings.ToLower(a.Content), needle) ||
		strings.Contains(strings.ToLower(a.Author), needle)
}

// paginate returns items[offset : offset+limit], clamped to the slice.
func paginate[T any](items []T, offset, limit int) []T {
	if offset < 0 || limit <= 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
