// Package rating turns review ratings into the values shown to readers.
package rating

import (
	"math"
	"strings"

	"bookshare/internal/book"
)

const (
	// MaxRating is the highest rating and the width of a formatted rating.
	MaxRating = 5

	FilledStar = "★"
	EmptyStar  = "☆"
)

// Format renders rating as MaxRating stars: rating filled ones, then empty ones.
// Values outside [0, MaxRating] are clamped.
func Format(rating int) string {
	filled := clamp(rating)
	return strings.Repeat(FilledStar, filled) + strings.Repeat(EmptyStar, MaxRating-filled)
}

// Aggregate returns the mean rating of reviews rounded half up, or 0 when
// there are no reviews. Ratings are not re-validated; the result is clamped
// to [0, MaxRating].
func Aggregate(reviews []book.Review) int {
	if len(reviews) == 0 {
		return 0
	}

	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	mean := float64(sum) / float64(len(reviews))

	// half up: 4.5 -> 5, 2.5 -> 3
	return clamp(int(math.Floor(mean + 0.5)))
}

func clamp(rating int) int {
	switch {
	case rating < 0:
		return 0
	case rating > MaxRating:
		return MaxRating
	default:
		return rating
	}
}
