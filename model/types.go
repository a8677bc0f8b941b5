// Package model defines the core data structures for article-manager.
package model

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxTitleLength is the longest title, in characters, an article may carry.
const MaxTitleLength = 200

// Article is a short article owned by the article store.
// IsFavorite is a per-user overlay filled in at read time and is never persisted.
type Article struct {
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
	IsFavorite    bool      `json:"is_favorite"`
}

// Clone returns a copy of the article that shares no slices with the original.
func (a *Article) Clone() *Article {
	c := *a
	if a.Tags != nil {
		c.Tags = append(make([]string, 0, len(a.Tags)), a.Tags...)
	}
	return &c
}

// HasTag checks if the article has the specified tag.
func (a *Article) HasTag(tag string) bool {
	for _, t := range a.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// HasAnyTag reports whether the article shares at least one tag with tags.
func (a *Article) HasAnyTag(tags []string) bool {
	for _, t := range tags {
		if a.HasTag(t) {
			return true
		}
	}
	return false
}

// ArticleInput is the caller-supplied data for a new article.
// Rating fields are absent on purpose: a new article always starts unrated.
type ArticleInput struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Summary       string   `json:"summary"`
	Author        string   `json:"author"`
	CategoryID    string   `json:"category_id"`
	SubcategoryID string   `json:"subcategory_id,omitempty"`
	Tags          []string `json:"tags"`
}

// Validate checks that the required fields are present.
// The error names the first missing field in the order title, content, author, category.
func (in *ArticleInput) Validate() error {
	if err := requireText("title", in.Title); err != nil {
		return err
	}
	if err := requireText("content", in.Content); err != nil {
		return err
	}
	if err := requireText("author", in.Author); err != nil {
		return err
	}
	if err := requireText("categoryId", in.CategoryID); err != nil {
		return err
	}
	return validateTitleLength(in.Title)
}

// ArticlePatch is a partial update. Nil fields are left untouched.
type ArticlePatch struct {
	Title         *string   `json:"title,omitempty"`
	Content       *string   `json:"content,omitempty"`
	Summary       *string   `json:"summary,omitempty"`
	Author        *string   `json:"author,omitempty"`
	CategoryID    *string   `json:"category_id,omitempty"`
	SubcategoryID *string   `json:"subcategory_id,omitempty"`
	Tags          *[]string `json:"tags,omitempty"`
	Rating        *float64  `json:"rating,omitempty"`
	RatingCount   *int      `json:"rating_count,omitempty"`
}

// IsEmpty reports whether the patch carries no field at all.
func (p *ArticlePatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Summary == nil && p.Author == nil &&
		p.CategoryID == nil && p.SubcategoryID == nil && p.Tags == nil &&
		p.Rating == nil && p.RatingCount == nil
}

// Validate checks the fields that are set.
func (p *ArticlePatch) Validate() error {
	if p.Title != nil {
		if err := requireText("title", *p.Title); err != nil {
			return err
		}
		if err := validateTitleLength(*p.Title); err != nil {
			return err
		}
	}
	if p.Content != nil {
		if err := requireText("content", *p.Content); err != nil {
			return err
		}
	}
	if p.Author != nil {
		if err := requireText("author", *p.Author); err != nil {
			return err
		}
	}
	if p.CategoryID != nil {
		if err := requireText("categoryId", *p.CategoryID); err != nil {
			return err
		}
	}
	if p.Rating != nil && (*p.Rating < 0 || *p.Rating > MaxRating) {
		return &ValidationError{Field: "rating", Message: "must be between 0 and 5"}
	}
	if p.RatingCount != nil && *p.RatingCount < 0 {
		return &ValidationError{Field: "ratingCount", Message: "must not be negative"}
	}
	return nil
}

// Apply merges the set fields of the patch over a copy of a and returns it.
// Timestamps are left to the caller.
func (p *ArticlePatch) Apply(a *Article) *Article {
	merged := a.Clone()
	if p.Title != nil {
		merged.Title = *p.Title
	}
	if p.Content != nil {
		merged.Content = *p.Content
	}
	if p.Summary != nil {
		merged.Summary = *p.Summary
	}
	if p.Author != nil {
		merged.Author = *p.Author
	}
	if p.CategoryID != nil {
		merged.CategoryID = *p.CategoryID
	}
	if p.SubcategoryID != nil {
		merged.SubcategoryID = *p.SubcategoryID
	}
	if p.Tags != nil {
		merged.Tags = append(make([]string, 0, len(*p.Tags)), (*p.Tags)...)
	}
	if p.Rating != nil {
		merged.Rating = *p.Rating
	}
	if p.RatingCount != nil {
		merged.RatingCount = *p.RatingCount
	}
	return merged
}

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}
	return nil
}

func validateTitleLength(title string) error {
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return &ValidationError{Field: "title", Message: "cannot exceed 200 characters"}
	}
	return nil
}
