package quiz

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/random"
	"github.com/phrazzld/scry-study/internal/queue"
)

// Common errors returned by quiz sessions
var (
	ErrEmptyPool       = errors.New("cannot build a quiz from an empty card pool")
	ErrSessionFinished = errors.New("quiz session is finished")
	ErrUnknownQuestion = errors.New("question is not the current question")
	ErrInvalidOption   = errors.New("option is not one of the question's options")
)

// Result records the outcome of answering one instance.
type Result struct {
	InstanceID    uuid.UUID
	Chosen        string
	Correct       bool
	CorrectAnswer string
	// Next is the instance now awaiting an answer, nil when Finished.
	Next     *Instance
	Finished bool
	// Duplicate is set when the instance had already been answered and the
	// submission was ignored.
	Duplicate bool
}

// Session is the working sequence of a quiz pass.
type Session struct {
	pending  *queue.Queue[*Instance]
	current  *Instance
	answered map[uuid.UUID]Result

	questionCount int
	score         int
	attempts      int
}

// Build shuffles cards and generates one question per card.
// A nil rng uses a fresh random source.
func Build(cards []domain.Card, rng *rand.Rand) (*Session, error) {
	if len(cards) == 0 {
		return nil, ErrEmptyPool
	}
	rng = random.OrNew(rng)

	shuffled := make([]domain.Card, len(cards))
	copy(shuffled, cards)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	instances := make([]*Instance, 0, len(shuffled))
	for _, card := range shuffled {
		instances = append(instances, newInstance(newQuestion(card, cards, rng), false))
	}

	s := &Session{
		pending:       queue.New(instances...),
		answered:      make(map[uuid.UUID]Result, len(instances)),
		questionCount: len(instances),
	}
	s.current, _ = s.pending.Dequeue()
	return s, nil
}

// Current returns the instance awaiting an answer, or nil when finished.
func (s *Session) Current() *Instance {
	return s.current
}

// Answer submits option for the instance identified by instanceID and
// advances to the next pending instance.
//
// Only the current instance can be answered. Submitting again for an instance
// that was already answered changes nothing and returns the recorded result
// with Duplicate set.
func (s *Session) Answer(instanceID uuid.UUID, option string) (Result, error) {
	if prev, ok := s.answered[instanceID]; ok {
		prev.Duplicate = true
		return prev, nil
	}

	if s.current == nil {
		return Result{}, ErrSessionFinished
	}

	if instanceID != s.current.ID {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownQuestion, instanceID)
	}

	q := s.current.Question
	if !q.HasOption(option) {
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidOption, option)
	}

	s.attempts++
	correct := option == q.CorrectAnswer
	if correct {
		s.score++
	} else {
		s.pending.EnqueueTail(newInstance(q, true))
	}

	s.current, _ = s.pending.Dequeue()

	result := Result{
		InstanceID:    instanceID,
		Chosen:        option,
		Correct:       correct,
		CorrectAnswer: q.CorrectAnswer,
		Next:          s.current,
		Finished:      s.current == nil,
	}
	s.answered[instanceID] = result

	return result, nil
}

// Score returns the number of correct answers, first try or retry.
func (s *Session) Score() int {
	return s.score
}

// Attempts returns how many answers were accepted.
func (s *Session) Attempts() int {
	return s.attempts
}

// Index returns the zero-based position of the current instance in the
// overall sequence, equal to the number of answered instances.
func (s *Session) Index() int {
	return s.attempts
}

// Remaining returns the number of instances still to answer, current included.
func (s *Session) Remaining() int {
	n := s.pending.Len()
	if s.current != nil {
		n++
	}
	return n
}

// Total returns the length of the whole sequence so far: answered plus
// remaining. Every wrong answer grows it by one.
func (s *Session) Total() int {
	return s.attempts + s.Remaining()
}

// QuestionCount returns the number of distinct questions the session was built with.
func (s *Session) QuestionCount() int {
	return s.questionCount
}

// Finished reports whether every question was eventually answered correctly.
func (s *Session) Finished() bool {
	return s.current == nil
}

// Progress returns Index/Total in [0, 1].
func (s *Session) Progress() float64 {
	total := s.Total()
	if total == 0 {
		return 0
	}
	return float64(s.Index()) / float64(total)
}
