package article

import (
	"context"
	"fmt"
	"testing"

	"github.com/TzzJokerzzT/article-manager/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStore(t *testing.T, inputs ...model.ArticleInput) *Store {
	t.Helper()
	s := newTestStore(t, newSlots(t))
	for _, in := range inputs {
		_, err := s.Create(context.Background(), in)
		require.NoError(t, err)
	}
	return s
}

func TestFindAll_CategoryPagination(t *testing.T) {
	var inputs []model.ArticleInput
	for i := 0; i < 12; i++ {
		inputs = append(inputs, input(fmt.Sprintf("tech %d", i), "tech"))
	}
	inputs = append(inputs, input("science 1", "science"))
	s := seedStore(t, inputs...)
	ctx := context.Background()

	page1, err := s.FindAll(ctx, model.ArticleFilter{CategoryID: "tech", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page1.Data, 10)
	assert.Equal(t, model.PageInfo{Page: 1, Limit: 10, Total: 12, TotalPages: 2}, page1.Pagination)

	page2, err := s.FindAll(ctx, model.ArticleFilter{CategoryID: "tech", Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page2.Data, 2)
	assert.Equal(t, 12, page2.Pagination.Total)

	seen := make(map[string]bool)
	for _, a := range append(page1.Data, page2.Data...) {
		assert.Equal(t, "tech", a.CategoryID)
		assert.False(t, seen[a.ID], "article %s appears on two pages", a.ID)
		seen[a.ID] = true
	}
}

func TestFindAll_PageBounds(t *testing.T) {
	for _, total := range []int{0, 1, 9, 10, 11, 25} {
		var inputs []model.ArticleInput
		for i := 0; i < total; i++ {
			inputs = append(inputs, input(fmt.Sprintf("a%d", i), "tech"))
		}
		s := seedStore(t, inputs...)

		for _, limit := range []int{1, 3, 10, 100} {
			for page := 1; page <= total/limit+2; page++ {
				res, err := s.FindAll(context.Background(), model.ArticleFilter{Page: page, Limit: limit})
				require.NoError(t, err)

				want := total - (page-1)*limit
				if want > limit {
					want = limit
				}
				if want < 0 {
					want = 0
				}
				assert.Len(t, res.Data, want, "total=%d limit=%d page=%d", total, limit, page)
				assert.Equal(t, total, res.Pagination.Total)
				assert.Equal(t, (total+limit-1)/limit, res.Pagination.TotalPages)
			}
		}
	}
}

func TestFindAll_PageBeyondRangeIsEmpty(t *testing.T) {
	s := seedStore(t, input("only", "tech"))

	res, err := s.FindAll(context.Background(), model.ArticleFilter{Page: 5, Limit: 10})
	require.NoError(t, err)
	assert.NotNil(t, res.Data)
	assert.Empty(t, res.Data)
	assert.Equal(t, 1, res.Pagination.Total)
}

func TestFindAll_SearchIsCaseInsensitive(t *testing.T) {
	s := seedStore(t,
		input("Introduction to Hooks", "tech"),
		input("Database Design Patterns", "tech"),
	)

	for _, term := range []string{"hook", "HOOK", "Hooks", "hOoK"} {
		res, err := s.FindAll(context.Background(), model.ArticleFilter{Search: term, Page: 1, Limit: 10})
		require.NoError(t, err)
		require.Len(t, res.Data, 1, term)
		assert.Equal(t, "Introduction to Hooks", res.Data[0].Title)
	}
}

func TestFindAll_SearchCoversContentAndAuthor(t *testing.T) {
	byContent := input("Plain", "tech")
	byContent.Content = "mentions goroutines"
	byAuthor := input("Other", "tech")
	byAuthor.Author = "Rob Pike"
	s := seedStore(t, byContent, byAuthor, input("Unrelated", "tech"))
	ctx := context.Background()

	res, err := s.FindAll(ctx, model.ArticleFilter{Search: "GOROUTINE", Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "Plain", res.Data[0].Title)

	res, err = s.FindAll(ctx, model.ArticleFilter{Search: "pike", Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "Other", res.Data[0].Title)
}

func TestFindAll_CombinedFilters(t *testing.T) {
	webDev := input("React tips", "tech", "frontend")
	webDev.SubcategoryID = "web-dev"
	mobile := input("Swift tips", "tech", "ios")
	mobile.SubcategoryID = "mobile"
	s := seedStore(t, webDev, mobile, input("Cells", "science", "biology"))
	ctx := context.Background()

	all, err := s.FindAll(ctx, model.ArticleFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	rating := 4.5
	for _, a := range all.Data {
		if a.Title == "React tips" {
			_, err := s.Update(ctx, a.ID, model.ArticlePatch{Rating: &rating})
			require.NoError(t, err)
		}
	}

	tests := []struct {
		name   string
		filter model.ArticleFilter
		want   []string
	}{
		{name: "subcategory", filter: model.ArticleFilter{SubcategoryID: "mobile"}, want: []string{"Swift tips"}},
		{name: "min rating", filter: model.ArticleFilter{MinRating: 4}, want: []string{"React tips"}},
		{name: "any tag", filter: model.ArticleFilter{Tags: []string{"biology", "ios"}}, want: []string{"Cells", "Swift tips"}},
		{name: "category and tag", filter: model.ArticleFilter{CategoryID: "tech", Tags: []string{"biology"}}, want: nil},
		{name: "search and category", filter: model.ArticleFilter{Search: "tips", CategoryID: "tech"}, want: []string{"Swift tips", "React tips"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.filter.Page, tt.filter.Limit = 1, 10
			res, err := s.FindAll(ctx, tt.filter)
			require.NoError(t, err)

			var titles []string
			for _, a := range res.Data {
				titles = append(titles, a.Title)
			}
			assert.Equal(t, tt.want, titles)
			assert.Equal(t, len(tt.want), res.Pagination.Total)
		})
	}
}

func TestMatches_ZeroFilterAcceptsAll(t *testing.T) {
	a := &model.Article{Title: "x", CategoryID: "tech"}
	assert.True(t, Matches(a, model.ArticleFilter{}))
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{1, 2}, paginate(items, 0, 2))
	assert.Equal(t, []int{5}, paginate(items, 4, 2))
	assert.Nil(t, paginate(items, 5, 2))
	assert.Nil(t, paginate(items, -1, 2))
	assert.Nil(t, paginate(items, 0, 0))
}
