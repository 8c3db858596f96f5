// Package memory provides an in-process store.CardStore for local runs and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/store"
)

// CardStore keeps cards in a map guarded by a RWMutex. Returned cards are copies.
type CardStore struct {
	mu    sync.RWMutex
	cards map[uuid.UUID]domain.Card
	now   func() time.Time
}

var _ store.CardStore = (*CardStore)(nil)

// NewCardStore returns an empty store.
func NewCardStore() *CardStore {
	return &CardStore{
		cards: make(map[uuid.UUID]domain.Card),
		now:   time.Now,
	}
}

func validate(card *domain.Card) error {
	if card == nil {
		return fmt.Errorf("%w: nil card", store.ErrInvalidEntity)
	}
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	return nil
}

// Create implements store.CardStore.Create.
func (s *CardStore) Create(ctx context.Context, card *domain.Card) error {
	return s.CreateMultiple(ctx, []*domain.Card{card})
}

// CreateMultiple implements store.CardStore.CreateMultiple. Every card is
// checked before any is stored.
func (s *CardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[uuid.UUID]struct{}, len(cards))
	for _, card := range cards {
		if err := validate(card); err != nil {
			return err
		}
		if _, exists := s.cards[card.ID]; exists {
			return fmt.Errorf("%w: card %s", store.ErrDuplicate, card.ID)
		}
		if _, dup := seen[card.ID]; dup {
			return fmt.Errorf("%w: card %s", store.ErrDuplicate, card.ID)
		}
		seen[card.ID] = struct{}{}
	}

	for _, card := range cards {
		s.cards[card.ID] = *card
	}
	return nil
}

// GetByID implements store.CardStore.GetByID.
func (s *CardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	card, ok := s.cards[id]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	return &card, nil
}

// ListTopics implements store.CardStore.ListTopics.
func (s *CardStore) ListTopics(ctx context.Context, userID uuid.UUID) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := make(map[string]struct{})
	for _, card := range s.cards {
		if card.UserID == userID {
			set[card.Topic] = struct{}{}
		}
	}

	topics := make([]string, 0, len(set))
	for topic := range set {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics, nil
}

// ListByTopic implements store.CardStore.ListByTopic.
func (s *CardStore) ListByTopic(ctx context.Context, userID uuid.UUID, topic string) ([]domain.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cards := []domain.Card{}
	for _, card := range s.cards {
		if card.UserID == userID && card.Topic == topic {
			cards = append(cards, card)
		}
	}

	sort.Slice(cards, func(i, j int) bool {
		a, b := cards[i], cards[j]
		if !a.NextReview.Equal(b.NextReview) {
			return a.NextReview.Before(b.NextReview)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})
	return cards, nil
}

// UpdateSchedule implements store.CardStore.UpdateSchedule.
func (s *CardStore) UpdateSchedule(ctx context.Context, update domain.ScheduleUpdate) error {
	if err := update.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	card, ok := s.cards[update.CardID]
	if !ok || card.UserID != update.UserID {
		return store.ErrCardNotFound
	}

	card = card.WithSchedule(update)
	card.UpdatedAt = s.now().UTC()
	s.cards[card.ID] = card
	return nil
}

// Delete implements store.CardStore.Delete.
func (s *CardStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cards[id]; !ok {
		return store.ErrCardNotFound
	}
	delete(s.cards, id)
	return nil
}

// Len returns the number of stored cards.
func (s *CardStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cards)
}
