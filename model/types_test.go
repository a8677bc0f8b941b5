package model

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestArticleInput_Validation(t *testing.T) {
	valid := ArticleInput{Title: "T", Content: "C", Author: "A", CategoryID: "tech"}

	tests := []struct {
		name      string
		mutate    func(in *ArticleInput)
		wantField string
	}{
		{name: "valid input", mutate: func(in *ArticleInput) {}},
		{name: "missing title", mutate: func(in *ArticleInput) { in.Title = "" }, wantField: "title"},
		{name: "blank title", mutate: func(in *ArticleInput) { in.Title = "   " }, wantField: "title"},
		{name: "missing content", mutate: func(in *ArticleInput) { in.Content = "" }, wantField: "content"},
		{name: "missing author", mutate: func(in *ArticleInput) { in.Author = "" }, wantField: "author"},
		{name: "missing category", mutate: func(in *ArticleInput) { in.CategoryID = "" }, wantField: "categoryId"},
		{
			name: "first missing field wins",
			mutate: func(in *ArticleInput) {
				in.Content = ""
				in.Author = ""
			},
			wantField: "content",
		},
		{name: "title too long", mutate: func(in *ArticleInput) { in.Title = strings.Repeat("x", 201) }, wantField: "title"},
		{name: "title at limit", mutate: func(in *ArticleInput) { in.Title = strings.Repeat("é", 200) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			err := in.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
			assert.True(t, errors.Is(err, ErrValidation))
		})
	}
}

func TestArticlePatch_Validation(t *testing.T) {
	negative := -1
	tooHigh := 5.5

	tests := []struct {
		name    string
		patch   ArticlePatch
		wantErr bool
	}{
		{name: "empty patch", patch: ArticlePatch{}},
		{name: "new title", patch: ArticlePatch{Title: strPtr("X")}},
		{name: "empty title", patch: ArticlePatch{Title: strPtr("")}, wantErr: true},
		{name: "empty content", patch: ArticlePatch{Content: strPtr(" ")}, wantErr: true},
		{name: "empty summary is allowed", patch: ArticlePatch{Summary: strPtr("")}},
		{name: "rating out of range", patch: ArticlePatch{Rating: &tooHigh}, wantErr: true},
		{name: "negative count", patch: ArticlePatch{RatingCount: &negative}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestArticlePatch_Apply(t *testing.T) {
	created := time.Date(2025, 7, 19, 0, 0, 0, 0, time.UTC)
	orig := &Article{
		ID: "a1", Title: "Old", Content: "C", Summary: "S", Author: "A",
		CategoryID: "tech", SubcategoryID: "web-dev", Tags: []string{"go"},
		Rating: 3, RatingCount: 2, CreatedAt: created, UpdatedAt: created,
	}

	tags := []string{"rust"}
	patch := ArticlePatch{Title: strPtr("New"), Tags: &tags}
	merged := patch.Apply(orig)

	assert.Equal(t, "New", merged.Title)
	assert.Equal(t, []string{"rust"}, merged.Tags)
	assert.Equal(t, "C", merged.Content)
	assert.Equal(t, "web-dev", merged.SubcategoryID)
	assert.Equal(t, 3.0, merged.Rating)

	// The original is untouched and shares no slices with the result.
	assert.Equal(t, "Old", orig.Title)
	tags[0] = "zig"
	assert.Equal(t, []string{"rust"}, merged.Tags)
	assert.Equal(t, []string{"go"}, orig.Tags)
}

func TestArticlePatch_IsEmpty(t *testing.T) {
	assert.True(t, (&ArticlePatch{}).IsEmpty())
	assert.False(t, (&ArticlePatch{Summary: strPtr("")}).IsEmpty())
}

func TestArticle_CloneKeepsEmptyTags(t *testing.T) {
	a := &Article{ID: "a1", Tags: []string{}}

	c := a.Clone()
	assert.NotNil(t, c.Tags)
	assert.Empty(t, c.Tags)

	tags := []string{}
	merged := (&ArticlePatch{Tags: &tags}).Apply(&Article{Tags: []string{"go"}})
	assert.NotNil(t, merged.Tags)
	assert.Empty(t, merged.Tags)

	assert.Nil(t, (&Article{}).Clone().Tags)
}

func TestArticle_HasAnyTag(t *testing.T) {
	a := Article{Tags: []string{"tech", "programming"}}

	assert.True(t, a.HasTag("tech"))
	assert.False(t, a.HasTag("Tech"))
	assert.True(t, a.HasAnyTag([]string{"science", "programming"}))
	assert.False(t, a.HasAnyTag([]string{"science"}))
	assert.False(t, a.HasAnyTag(nil))
}

func TestValidateRatingValue(t *testing.T) {
	for v := MinRating; v <= MaxRating; v++ {
		assert.NoError(t, ValidateRatingValue(v))
	}
	assert.ErrorIs(t, ValidateRatingValue(0), ErrValidation)
	assert.ErrorIs(t, ValidateRatingValue(6), ErrValidation)
}

func TestRoundRating(t *testing.T) {
	assert.Equal(t, 3.0, RoundRating(3))
	assert.Equal(t, 3.33, RoundRating(10.0/3))
	assert.Equal(t, 3.67, RoundRating(11.0/3))
}

func TestNotFound(t *testing.T) {
	err := NotFound("abc")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "abc")
}

func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := NewID()
		require.NotEmpty(t, id)
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}
