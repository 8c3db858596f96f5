package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
)

// CardStore defines the interface for card data persistence.
type CardStore interface {
	// Create saves a single card. The card must pass domain validation.
	Create(ctx context.Context, card *domain.Card) error

	// CreateMultiple saves all cards or none of them.
	CreateMultiple(ctx context.Context, cards []*domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// ListTopics returns the distinct topics the user has cards in, sorted.
	ListTopics(ctx context.Context, userID uuid.UUID) ([]string, error)

	// ListByTopic returns the user's cards in a topic ordered by next review
	// date ascending, ties broken by creation time. An unknown topic yields an
	// empty slice, not an error.
	ListByTopic(ctx context.Context, userID uuid.UUID, topic string) ([]domain.Card, error)

	// UpdateSchedule overwrites a card's memory state and next review date.
	// Returns ErrCardNotFound if no card matches both the card and user IDs.
	UpdateSchedule(ctx context.Context, update domain.ScheduleUpdate) error

	// Delete removes a card from the store by its ID.
	// Returns ErrCardNotFound if the card does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
