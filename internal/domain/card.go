package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardUserIDEmpty is returned when a card's user ID is empty or nil.
	ErrCardUserIDEmpty = errors.New("card user ID cannot be empty")

	// ErrCardTopicEmpty is returned when a card has no topic.
	ErrCardTopicEmpty = errors.New("card topic cannot be empty")

	// ErrCardContentEmpty is returned when the front or back of a card is blank.
	ErrCardContentEmpty = errors.New("card front and back cannot be empty")
)

// DefaultEaseFactor is the ease factor assigned to cards that were never reviewed.
const DefaultEaseFactor = 2.5

// Card is a reviewable question/answer pair grouped under a topic.
// Front and Back are opaque to the study engine.
type Card struct {
	ID         uuid.UUID   `json:"id"`
	UserID     uuid.UUID   `json:"user_id"`
	Topic      string      `json:"topic"`
	Front      string      `json:"front"`
	Back       string      `json:"back"`
	Memory     MemoryState `json:"memory"`
	NextReview time.Time   `json:"next_review"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// NewCard creates a new Card owned by userID with a fresh memory state.
// The card is due for review immediately. Returns an error if validation fails.
func NewCard(userID uuid.UUID, topic, front, back string) (*Card, error) {
	now := time.Now().UTC()
	card := &Card{
		ID:         uuid.New(),
		UserID:     userID,
		Topic:      strings.TrimSpace(topic),
		Front:      front,
		Back:       back,
		Memory:     NewMemoryState(),
		NextReview: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.UserID == uuid.Nil {
		return ErrCardUserIDEmpty
	}

	if strings.TrimSpace(c.Topic) == "" {
		return ErrCardTopicEmpty
	}

	if strings.TrimSpace(c.Front) == "" || strings.TrimSpace(c.Back) == "" {
		return ErrCardContentEmpty
	}

	return c.Memory.Validate()
}

// WithSchedule returns a copy of the card carrying the given schedule.
func (c Card) WithSchedule(update ScheduleUpdate) Card {
	c.Memory = update.Memory
	c.NextReview = update.NextReview
	return c
}
