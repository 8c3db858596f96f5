package review

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/random"
	"github.com/phrazzld/scry-study/internal/queue"
)

// Common errors returned by the review queue
var (
	ErrQueueEmpty         = errors.New("review queue is empty")
	ErrInvalidDecision    = errors.New("invalid review decision")
	ErrInvalidOrientation = errors.New("invalid orientation")
)

// Orientation controls which side of a card is shown first.
type Orientation string

// Supported orientations
const (
	// Standard always shows the front first.
	Standard Orientation = "standard"
	// Mixed shows each card reversed with probability one half, decided once
	// per card when the queue is built.
	Mixed Orientation = "mixed"
)

// IsValid reports whether o is a supported orientation.
func (o Orientation) IsValid() bool {
	return o == Standard || o == Mixed
}

// Decision is the binary outcome of reviewing the head card.
type Decision int

// Review decisions
const (
	Recalled Decision = iota + 1
	Forgotten
)

// String returns the decision name.
func (d Decision) String() string {
	switch d {
	case Recalled:
		return "recalled"
	case Forgotten:
		return "forgotten"
	default:
		return fmt.Sprintf("Decision(%d)", int(d))
	}
}

// DecisionFor classifies a rating: Hard and Easy are Recalled, Again is Forgotten.
func DecisionFor(rating domain.Rating) (Decision, error) {
	if !rating.IsValid() {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidRating, rating)
	}
	if rating.Recalled() {
		return Recalled, nil
	}
	return Forgotten, nil
}

// Item is a queued card together with its orientation for this session.
type Item struct {
	Card     domain.Card
	Reversed bool
}

// Prompt returns the side shown first.
func (i Item) Prompt() string {
	if i.Reversed {
		return i.Card.Back
	}
	return i.Card.Front
}

// Answer returns the side revealed on flip.
func (i Item) Answer() string {
	if i.Reversed {
		return i.Card.Front
	}
	return i.Card.Back
}

// Queue is the working set of cards for a flashcard pass.
type Queue struct {
	items        *queue.Queue[Item]
	orientation  Orientation
	initialCount int
}

// New builds a queue over cards in the order given; it does not sort.
// Under Mixed each card independently gets a reversed flag with probability
// one half. A nil rng uses a fresh random source.
func New(cards []domain.Card, orientation Orientation, rng *rand.Rand) (*Queue, error) {
	if !orientation.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOrientation, orientation)
	}
	rng = random.OrNew(rng)

	items := make([]Item, 0, len(cards))
	for _, c := range cards {
		items = append(items, Item{
			Card:     c,
			Reversed: orientation == Mixed && rng.Float64() < 0.5,
		})
	}

	return &Queue{
		items:        queue.New(items...),
		orientation:  orientation,
		initialCount: len(items),
	}, nil
}

// Orientation returns the orientation the queue was built with.
func (q *Queue) Orientation() Orientation {
	return q.orientation
}

// Head returns the card currently under review.
func (q *Queue) Head() (Item, bool) {
	return q.items.Peek()
}

// Advance applies decision to the head card and returns it.
// Recalled removes it for the rest of the session; Forgotten moves it to the
// tail so it comes back later. There is no bound on how often a card recycles.
func (q *Queue) Advance(decision Decision) (Item, error) {
	if decision != Recalled && decision != Forgotten {
		return Item{}, fmt.Errorf("%w: %v", ErrInvalidDecision, decision)
	}

	head, ok := q.items.Dequeue()
	if !ok {
		return Item{}, ErrQueueEmpty
	}

	if decision == Forgotten {
		q.items.EnqueueTail(head)
	}

	return head, nil
}

// UpdateCard replaces the queued copy of card, matched by ID, keeping its
// orientation. It reports whether the card was still queued.
func (q *Queue) UpdateCard(card domain.Card) bool {
	return q.items.Replace(
		func(i Item) bool { return i.Card.ID == card.ID },
		func(i Item) Item { i.Card = card; return i },
	) > 0
}

// Contains reports whether the card with id is still in the queue.
func (q *Queue) Contains(id uuid.UUID) bool {
	for _, i := range q.items.Items() {
		if i.Card.ID == id {
			return true
		}
	}
	return false
}

// Items returns the queued items from head to tail.
func (q *Queue) Items() []Item {
	return q.items.Items()
}

// Remaining returns the number of cards left in the queue.
func (q *Queue) Remaining() int {
	return q.items.Len()
}

// InitialCount returns the number of cards the queue started with.
func (q *Queue) InitialCount() int {
	return q.initialCount
}

// Finished reports whether every card was recalled.
func (q *Queue) Finished() bool {
	return q.items.Empty()
}

// Progress returns the fraction of cards recalled so far, in [0, 1].
func (q *Queue) Progress() float64 {
	if q.initialCount == 0 {
		return 0
	}
	return float64(q.initialCount-q.items.Len()) / float64(q.initialCount)
}
