package srs

import (
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/scry-study/internal/domain"
)

// Common errors
var (
	ErrNilCard     = errors.New("card cannot be nil")
	ErrInvalidDays = errors.New("postpone days must be at least 1")
)

// Update computes the memory state that follows rating, using the default
// parameters. It is a pure function of its inputs.
//
// An invalid rating is a caller error and is rejected with
// domain.ErrInvalidRating rather than coerced.
func Update(rating domain.Rating, prior domain.MemoryState) (domain.MemoryState, error) {
	return UpdateWithParams(rating, prior, defaultParams)
}

// UpdateWithParams is Update with explicit parameters.
func UpdateWithParams(
	rating domain.Rating,
	prior domain.MemoryState,
	params *Params,
) (domain.MemoryState, error) {
	if !rating.IsValid() {
		return domain.MemoryState{}, fmt.Errorf("%w: %q", domain.ErrInvalidRating, rating)
	}
	return calculateNextState(prior, rating, params), nil
}

var defaultParams = NewDefaultParams()

// Service defines the interface for SRS algorithm operations
type Service interface {
	// Reschedule computes the new memory state and review date for card
	// after it was rated at time now.
	Reschedule(card *domain.Card, rating domain.Rating, now time.Time) (*domain.ScheduleUpdate, error)

	// Postpone pushes the next review of card forward by days without
	// changing its memory state.
	Postpone(card *domain.Card, days int, now time.Time) (*domain.ScheduleUpdate, error)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new SRS service with custom parameters
func NewServiceWithParams(params *Params) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultService{
		params: params,
	}
}

// Reschedule implements Service.Reschedule
func (s *defaultService) Reschedule(
	card *domain.Card,
	rating domain.Rating,
	now time.Time,
) (*domain.ScheduleUpdate, error) {
	if card == nil {
		return nil, ErrNilCard
	}

	next, err := UpdateWithParams(rating, card.Memory, s.params)
	if err != nil {
		return nil, err
	}

	return &domain.ScheduleUpdate{
		CardID:     card.ID,
		UserID:     card.UserID,
		Memory:     next,
		NextReview: NextReview(now, next),
	}, nil
}

// Postpone implements Service.Postpone
func (s *defaultService) Postpone(
	card *domain.Card,
	days int,
	now time.Time,
) (*domain.ScheduleUpdate, error) {
	if card == nil {
		return nil, ErrNilCard
	}

	if days < 1 {
		return nil, ErrInvalidDays
	}

	// A card that is already overdue is postponed relative to now.
	base := card.NextReview
	if base.Before(now) {
		base = now
	}

	return &domain.ScheduleUpdate{
		CardID:     card.ID,
		UserID:     card.UserID,
		Memory:     card.Memory,
		NextReview: base.AddDate(0, 0, days),
	}, nil
}
