package domain

import (
	"fmt"
	"strings"
)

// Rating is a learner's assessment of how well a card was recalled.
// Only three levels exist; there is no continuous scale.
type Rating string

// Possible rating values
const (
	RatingAgain Rating = "again"
	RatingHard  Rating = "hard"
	RatingEasy  Rating = "easy"
)

// recallThreshold is the lowest quality score that counts as a successful recall.
const recallThreshold = 3

// ParseRating converts a case-insensitive name into a Rating.
func ParseRating(s string) (Rating, error) {
	r := Rating(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRating, s)
	}
	return r, nil
}

// IsValid reports whether r is one of the three supported ratings.
func (r Rating) IsValid() bool {
	switch r {
	case RatingAgain, RatingHard, RatingEasy:
		return true
	default:
		return false
	}
}

// Quality maps the rating to its SM-2 quality score: Again=1, Hard=3, Easy=5.
// Invalid ratings map to 0.
func (r Rating) Quality() int {
	switch r {
	case RatingAgain:
		return 1
	case RatingHard:
		return 3
	case RatingEasy:
		return 5
	default:
		return 0
	}
}

// Recalled reports whether the rating falls in the "remembered" branch.
func (r Rating) Recalled() bool {
	return r.IsValid() && r.Quality() >= recallThreshold
}

// UnmarshalText implements encoding.TextUnmarshaler so invalid ratings are
// rejected while decoding requests.
func (r *Rating) UnmarshalText(text []byte) error {
	parsed, err := ParseRating(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
