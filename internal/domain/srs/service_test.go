package srs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCard(t *testing.T) *domain.Card {
	t.Helper()
	card, err := domain.NewCard(uuid.New(), "biology", "Mitochondria", "Powerhouse of the cell")
	require.NoError(t, err)
	return card
}

func TestService_Reschedule(t *testing.T) {
	t.Parallel()

	svc := NewDefaultService()
	card := newTestCard(t)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	update, err := svc.Reschedule(card, domain.RatingEasy, now)
	require.NoError(t, err)

	assert.Equal(t, card.ID, update.CardID)
	assert.Equal(t, card.UserID, update.UserID)
	assert.Equal(t, 1, update.Memory.Repetition)
	assert.Equal(t, 1, update.Memory.Interval)
	assert.Equal(t, now.AddDate(0, 0, 1), update.NextReview)
	assert.Equal(t, domain.NewMemoryState(), card.Memory, "input card must not be modified")

	_, err = svc.Reschedule(nil, domain.RatingEasy, now)
	assert.ErrorIs(t, err, ErrNilCard)

	_, err = svc.Reschedule(card, domain.Rating("perfect"), now)
	assert.ErrorIs(t, err, domain.ErrInvalidRating)
}

func TestService_Postpone(t *testing.T) {
	t.Parallel()

	svc := NewDefaultService()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	card := newTestCard(t)
	card.NextReview = now.AddDate(0, 0, 4)
	update, err := svc.Postpone(card, 3, now)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, 7), update.NextReview)
	assert.Equal(t, card.Memory, update.Memory)

	overdue := newTestCard(t)
	overdue.NextReview = now.AddDate(0, 0, -10)
	update, err = svc.Postpone(overdue, 2, now)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, 2), update.NextReview)

	_, err = svc.Postpone(card, 0, now)
	assert.ErrorIs(t, err, ErrInvalidDays)
}

func TestNewParams(t *testing.T) {
	t.Parallel()

	params := NewParams(ParamsConfig{MinEaseFactor: 1.1, SecondInterval: 4})
	assert.Equal(t, domain.MinEaseFactor, params.MinEaseFactor, "floor cannot drop below 1.3")
	assert.Equal(t, 1, params.FirstInterval)
	assert.Equal(t, 4, params.SecondInterval)

	svc := NewServiceWithParams(params)
	card := newTestCard(t)
	card.Memory = domain.MemoryState{Repetition: 1, Interval: 1, EaseFactor: 2.5}
	update, err := svc.Reschedule(card, domain.RatingHard, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 4, update.Memory.Interval)
}
