package model

import (
	"fmt"
	"math"
	"time"
)

// Bounds of a single rating value.
const (
	MinRating = 1
	MaxRating = 5
)

// Rating is one user's rating of one article.
// UserID is empty for an anonymous rater; there is at most one entry per (ArticleID, UserID).
type Rating struct {
	ArticleID string    `json:"article_id"`
	UserID    string    `json:"user_id,omitempty"`
	Value     int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// RatingAggregate is the mean and count of an article's ratings.
type RatingAggregate struct {
	Rating float64 `json:"rating"`
	Count  int     `json:"count"`
}

// ValidateRatingValue returns a ValidationError unless v is within 1..5.
func ValidateRatingValue(v int) error {
	if v < MinRating || v > MaxRating {
		return &ValidationError{Field: "rating", Message: fmt.Sprintf("must be between 1 and 5, got %d", v)}
	}
	return nil
}

// RoundRating rounds a mean rating to two decimals.
func RoundRating(v float64) float64 {
	return math.Round(v*100) / 100
}

// Favorite associates a user with an article they marked.
type Favorite struct {
	ArticleID string    `json:"article_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
