package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
)

// Snapshot is a read-only view of the controller for presentation.
// Score and Attempts are only meaningful in quiz mode.
type Snapshot struct {
	State        State         `json:"state"`
	Mode         Mode          `json:"mode,omitempty"`
	Topic        string        `json:"topic,omitempty"`
	Remaining    int           `json:"remaining"`
	InitialCount int           `json:"initial_count"`
	Progress     float64       `json:"progress"`
	Index        int           `json:"index"`
	Total        int           `json:"total"`
	Score        int           `json:"score"`
	Attempts     int           `json:"attempts"`
	Card         *CardView     `json:"card,omitempty"`
	Question     *QuestionView `json:"question,omitempty"`
	LastAnswer   *AnswerView   `json:"last_answer,omitempty"`
	LastRating   *RatingView   `json:"last_rating,omitempty"`
}

// CardView is the flashcard under review.
type CardView struct {
	ID       uuid.UUID `json:"id"`
	Prompt   string    `json:"prompt"`
	Answer   string    `json:"answer"`
	Reversed bool      `json:"reversed"`
}

// QuestionView is the quiz question awaiting an answer. ID identifies the
// instance, so a retried question has a different ID from its first showing.
type QuestionView struct {
	ID        uuid.UUID `json:"id"`
	Prompt    string    `json:"prompt"`
	Options   []string  `json:"options"`
	Direction string    `json:"direction"`
	Retry     bool      `json:"retry"`
}

// AnswerView is the outcome of the last quiz answer.
type AnswerView struct {
	QuestionID    uuid.UUID `json:"question_id"`
	Chosen        string    `json:"chosen"`
	Correct       bool      `json:"correct"`
	CorrectAnswer string    `json:"correct_answer"`
	Duplicate     bool      `json:"duplicate,omitempty"`
}

// RatingView is the outcome of the last flashcard rating.
type RatingView struct {
	CardID     uuid.UUID     `json:"card_id"`
	Rating     domain.Rating `json:"rating"`
	Recalled   bool          `json:"recalled"`
	Interval   int           `json:"interval,omitempty"`
	NextReview *time.Time    `json:"next_review,omitempty"`
}

// Snapshot returns the current view.
func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{
		State:      c.state,
		Mode:       c.mode,
		Topic:      c.topic,
		LastAnswer: c.lastAnswer,
		LastRating: c.lastRating,
	}

	switch {
	case c.flash != nil:
		s.Remaining = c.flash.Remaining()
		s.InitialCount = c.flash.InitialCount()
		s.Progress = c.flash.Progress()
		s.Index = s.InitialCount - s.Remaining
		s.Total = s.InitialCount
		if head, ok := c.flash.Head(); ok {
			s.Card = &CardView{
				ID:       head.Card.ID,
				Prompt:   head.Prompt(),
				Answer:   head.Answer(),
				Reversed: head.Reversed,
			}
		}
	case c.quiz != nil:
		s.Remaining = c.quiz.Remaining()
		s.InitialCount = c.quiz.QuestionCount()
		s.Progress = c.quiz.Progress()
		s.Index = c.quiz.Index()
		s.Total = c.quiz.Total()
		s.Score = c.quiz.Score()
		s.Attempts = c.quiz.Attempts()
		if current := c.quiz.Current(); current != nil {
			options := make([]string, len(current.Question.Options))
			copy(options, current.Question.Options)
			s.Question = &QuestionView{
				ID:        current.ID,
				Prompt:    current.Question.Prompt,
				Options:   options,
				Direction: current.Question.Direction.Label(),
				Retry:     current.IsRetry,
			}
		}
	}

	return s
}
