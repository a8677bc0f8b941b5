package model

import (
	"fmt"
	"strings"
)

// Pagination bounds.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ArticleFilter selects and pages articles.
// Zero values disable a predicate: an empty string matches everything and
// a MinRating of 0 accepts unrated articles.
type ArticleFilter struct {
	Search        string   `json:"search,omitempty"`
	CategoryID    string   `json:"category_id,omitempty"`
	SubcategoryID string   `json:"subcategory_id,omitempty"`
	MinRating     float64  `json:"min_rating,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Page          int      `json:"page"`
	Limit         int      `json:"limit"`
}

// Validate checks the pagination bounds and the minimum rating.
func (f *ArticleFilter) Validate() error {
	if f.Page < 1 {
		return &ValidationError{Field: "page", Message: "must be greater than 0"}
	}
	if f.Limit < 1 || f.Limit > MaxLimit {
		return &ValidationError{Field: "limit", Message: "must be between 1 and 100"}
	}
	if f.MinRating < 0 || f.MinRating > MaxRating {
		return &ValidationError{Field: "minRating", Message: "must be between 0 and 5"}
	}
	return nil
}

// Offset returns the index of the first item on the page.
// Page numbers are 1-based, so page 1 has offset 0.
func (f *ArticleFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// PageInfo describes one page of a filtered result.
// Total counts the matches before slicing.
type PageInfo struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPageInfo computes TotalPages as ceil(total/limit).
func NewPageInfo(page, limit, total int) PageInfo {
	info := PageInfo{Page: page, Limit: limit, Total: total}
	if limit > 0 {
		info.TotalPages = (total + limit - 1) / limit
	}
	return info
}

// PaginatedResponse is one page of T plus its metadata.
type PaginatedResponse[T any] struct {
	Data       []T      `json:"data"`
	Pagination PageInfo `json:"pagination"`
}

// BuildFilter constructs an ArticleFilter from CLI flags.
// tags is a comma-separated list; blank items are dropped.
func BuildFilter(page, limit int, search, categoryID, subcategoryID string, minRating float64, tags string) (ArticleFilter, error) {
	f := ArticleFilter{
		Search:        strings.TrimSpace(search),
		CategoryID:    categoryID,
		SubcategoryID: subcategoryID,
		MinRating:     minRating,
		Tags:          SplitTags(tags),
		Page:          page,
		Limit:         limit,
	}

	if err := f.Validate(); err != nil {
		return f, fmt.Errorf("invalid filter: %w", err)
	}
	return f, nil
}

// SplitTags splits a comma-separated tag list, trimming blanks.
func SplitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
