package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MinEaseFactor is the lowest ease factor a card can ever hold.
const MinEaseFactor = 1.3

// Memory state validation errors
var (
	ErrInvalidRepetition = errors.New("repetition must be greater than or equal to 0")
	ErrInvalidInterval   = errors.New("interval must be greater than or equal to 0")
	ErrInvalidEaseFactor = errors.New("ease factor must be at least 1.3")
)

// MemoryState is the per-card spaced repetition state.
type MemoryState struct {
	Repetition int     `json:"repetition"`  // Consecutive successful recalls
	Interval   int     `json:"interval"`    // Current interval in days
	EaseFactor float64 `json:"ease_factor"` // Interval growth multiplier, never below 1.3
}

// NewMemoryState returns the state of a card that was never reviewed.
func NewMemoryState() MemoryState {
	return MemoryState{
		Repetition: 0,
		Interval:   0,
		EaseFactor: DefaultEaseFactor,
	}
}

// Validate checks the state against its invariants.
func (m MemoryState) Validate() error {
	if m.Repetition < 0 {
		return ErrInvalidRepetition
	}

	if m.Interval < 0 {
		return ErrInvalidInterval
	}

	if m.EaseFactor < MinEaseFactor {
		return ErrInvalidEaseFactor
	}

	return nil
}

// ScheduleUpdate is the record handed back to storage after a card is
// rescheduled. It is the only mutation the study engine asks storage to make.
type ScheduleUpdate struct {
	CardID     uuid.UUID   `json:"card_id"`
	UserID     uuid.UUID   `json:"user_id"`
	Memory     MemoryState `json:"memory"`
	NextReview time.Time   `json:"next_review"`
}

// Validate checks that the update identifies a card and carries a valid state.
func (u ScheduleUpdate) Validate() error {
	if u.CardID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if u.UserID == uuid.Nil {
		return ErrCardUserIDEmpty
	}

	return u.Memory.Validate()
}
