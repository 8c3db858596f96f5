package srs

import (
	"math"
	"time"

	"github.com/phrazzld/scry-study/internal/domain"
)

// calculateNewEaseFactor applies the SM-2 ease factor formula
//
//	EF' = EF + (0.1 - (5-q) * (0.08 + (5-q) * 0.02))
//
// for the quality score q of the rating, and clamps the result to
// params.MinEaseFactor. It runs for every rating, recalled or not.
func calculateNewEaseFactor(currentEF float64, quality int, params *Params) float64 {
	delta := float64(5 - quality)
	newEF := currentEF + (0.1 - delta*(0.08+delta*0.02))

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}

	return newEF
}

// calculateNewInterval determines the next interval in days.
//
// Forgotten cards restart at params.LapseInterval. Recalled cards use the
// fixed first and second intervals for their first two consecutive recalls
// and afterwards grow by the prior ease factor, rounded to the nearest day.
func calculateNewInterval(prior domain.MemoryState, recalled bool, params *Params) int {
	if !recalled {
		return params.LapseInterval
	}

	switch prior.Repetition {
	case 0:
		return params.FirstInterval
	case 1:
		return params.SecondInterval
	default:
		return int(math.Round(float64(prior.Interval) * prior.EaseFactor))
	}
}

// calculateNextState produces the memory state following a review.
// It never modifies prior.
func calculateNextState(
	prior domain.MemoryState,
	rating domain.Rating,
	params *Params,
) domain.MemoryState {
	recalled := rating.Recalled()

	next := domain.MemoryState{
		Interval:   calculateNewInterval(prior, recalled, params),
		EaseFactor: calculateNewEaseFactor(prior.EaseFactor, rating.Quality(), params),
	}

	if recalled {
		next.Repetition = prior.Repetition + 1
	} else {
		next.Repetition = 0
	}

	return next
}

// NextReview derives the review date for state: now plus the interval in days.
func NextReview(now time.Time, state domain.MemoryState) time.Time {
	return now.AddDate(0, 0, state.Interval)
}
