package quiz

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
)

// MaxDistractors is the most wrong options a question carries.
const MaxDistractors = 3

// Direction says which card side is asked and which is expected.
type Direction string

// Question directions
const (
	FrontToBack Direction = "front_to_back"
	BackToFront Direction = "back_to_front"
)

// project returns the prompt and answer side of card for d.
func (d Direction) project(card domain.Card) (prompt, answer string) {
	if d == BackToFront {
		return card.Back, card.Front
	}
	return card.Front, card.Back
}

// Label returns a short human readable form such as "Front -> Back".
func (d Direction) Label() string {
	if d == BackToFront {
		return "Back -> Front"
	}
	return "Front -> Back"
}

// Question is the immutable content of a quiz item.
type Question struct {
	SourceCardID  uuid.UUID
	Direction     Direction
	Prompt        string
	CorrectAnswer string
	Options       []string
}

// HasOption reports whether option is one of the question's choices.
func (q *Question) HasOption(option string) bool {
	return slices.Contains(q.Options, option)
}

// Instance is one appearance of a question in a session.
type Instance struct {
	ID       uuid.UUID
	Question *Question
	IsRetry  bool
}

func newInstance(q *Question, retry bool) *Instance {
	return &Instance{ID: uuid.New(), Question: q, IsRetry: retry}
}

// newQuestion generates a question for card, drawing distractors from pool.
func newQuestion(card domain.Card, pool []domain.Card, rng *rand.Rand) *Question {
	direction := FrontToBack
	if rng.Float64() < 0.5 {
		direction = BackToFront
	}
	prompt, correct := direction.project(card)

	options := make([]string, 0, MaxDistractors+1)
	for _, i := range rng.Perm(len(pool)) {
		if len(options) == MaxDistractors {
			break
		}
		other := pool[i]
		if other.ID == card.ID {
			continue
		}
		_, text := direction.project(other)
		// Identical texts would make two options indistinguishable.
		if text == correct || slices.Contains(options, text) {
			continue
		}
		options = append(options, text)
	}

	options = append(options, correct)
	rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return &Question{
		SourceCardID:  card.ID,
		Direction:     direction,
		Prompt:        prompt,
		CorrectAnswer: correct,
		Options:       options,
	}
}

// String is used in logs.
func (i *Instance) String() string {
	return fmt.Sprintf("quiz instance %s (card %s, retry=%t)", i.ID, i.Question.SourceCardID, i.IsRetry)
}
