package srs

import (
	"testing"
	"time"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateNewInterval(t *testing.T) {
	t.Parallel() // Enable parallel execution
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		prior    domain.MemoryState
		recalled bool
		expected int
	}{
		{
			name:     "first recall uses first interval",
			prior:    domain.MemoryState{Repetition: 0, Interval: 0, EaseFactor: 2.5},
			recalled: true,
			expected: 1,
		},
		{
			name:     "second recall uses second interval",
			prior:    domain.MemoryState{Repetition: 1, Interval: 1, EaseFactor: 2.5},
			recalled: true,
			expected: 6,
		},
		{
			name:     "later recalls multiply by ease factor",
			prior:    domain.MemoryState{Repetition: 2, Interval: 6, EaseFactor: 2.5},
			recalled: true,
			expected: 15,
		},
		{
			name:     "rounds half away from zero",
			prior:    domain.MemoryState{Repetition: 4, Interval: 5, EaseFactor: 1.3},
			recalled: true,
			expected: 7, // 6.5 → 7
		},
		{
			name:     "rounds down below half",
			prior:    domain.MemoryState{Repetition: 3, Interval: 15, EaseFactor: 1.36},
			recalled: true,
			expected: 20, // 20.4 → 20
		},
		{
			name:     "forgotten resets interval",
			prior:    domain.MemoryState{Repetition: 7, Interval: 120, EaseFactor: 2.8},
			recalled: false,
			expected: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, calculateNewInterval(tc.prior, tc.recalled, params))
		})
	}
}

func TestCalculateNewEaseFactor(t *testing.T) {
	t.Parallel() // Enable parallel execution
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		current  float64
		quality  int
		expected float64
	}{
		{"easy raises by 0.1", 2.5, 5, 2.6},
		{"hard lowers by 0.14", 2.5, 3, 2.36},
		{"again lowers by 0.54", 2.5, 1, 1.96},
		{"again clamps at floor", 1.3, 1, 1.3},
		{"hard clamps at floor", 1.35, 3, 1.3},
		{"easy from floor", 1.3, 5, 1.4},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, calculateNewEaseFactor(tc.current, tc.quality, params), 1e-9)
		})
	}
}

func TestUpdate_Examples(t *testing.T) {
	t.Parallel()

	next, err := Update(domain.RatingEasy, domain.MemoryState{Repetition: 2, Interval: 6, EaseFactor: 2.5})
	require.NoError(t, err)
	assert.Equal(t, 3, next.Repetition)
	assert.Equal(t, 15, next.Interval)
	assert.InDelta(t, 2.6, next.EaseFactor, 1e-9)

	next, err = Update(domain.RatingAgain, domain.MemoryState{Repetition: 3, Interval: 15, EaseFactor: 1.3})
	require.NoError(t, err)
	assert.Equal(t, 0, next.Repetition)
	assert.Equal(t, 1, next.Interval)
	assert.Equal(t, 1.3, next.EaseFactor)
}

func TestUpdate_RecallSequence(t *testing.T) {
	t.Parallel()

	state := domain.NewMemoryState()
	wantIntervals := []int{1, 6}

	for i, want := range wantIntervals {
		var err error
		state, err = Update(domain.RatingHard, state)
		require.NoError(t, err)
		assert.Equal(t, want, state.Interval, "recall %d", i+1)
		assert.Equal(t, i+1, state.Repetition)
	}

	prior := state
	state, err := Update(domain.RatingEasy, state)
	require.NoError(t, err)
	assert.Equal(t, int(prior.EaseFactor*float64(prior.Interval)+0.5), state.Interval)
	assert.Equal(t, 3, state.Repetition)
}

func TestUpdate_AgainAlwaysResets(t *testing.T) {
	t.Parallel()

	for _, rep := range []int{0, 1, 2, 10, 100} {
		for _, interval := range []int{0, 1, 6, 365} {
			next, err := Update(domain.RatingAgain, domain.MemoryState{
				Repetition: rep,
				Interval:   interval,
				EaseFactor: 2.1,
			})
			require.NoError(t, err)
			assert.Equal(t, 0, next.Repetition)
			assert.Equal(t, 1, next.Interval)
		}
	}
}

func TestUpdate_EaseFactorNeverBelowFloor(t *testing.T) {
	t.Parallel()

	ratings := []domain.Rating{domain.RatingAgain, domain.RatingHard, domain.RatingEasy}
	for ef := domain.MinEaseFactor; ef <= 3.0; ef += 0.05 {
		for _, r := range ratings {
			next, err := Update(r, domain.MemoryState{Repetition: 2, Interval: 10, EaseFactor: ef})
			require.NoError(t, err)
			assert.GreaterOrEqual(t, next.EaseFactor, domain.MinEaseFactor)
		}
	}
}

func TestUpdate_RejectsInvalidRating(t *testing.T) {
	t.Parallel()

	_, err := Update(domain.Rating("good"), domain.NewMemoryState())
	assert.ErrorIs(t, err, domain.ErrInvalidRating)
}

func TestNextReview(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 30, 9, 0, 0, 0, time.UTC)
	got := NextReview(now, domain.MemoryState{Interval: 6})
	assert.Equal(t, time.Date(2026, 2, 5, 9, 0, 0, 0, time.UTC), got)
}
