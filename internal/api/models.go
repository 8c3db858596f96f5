package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
)

// CardInput is one card of a create request.
type CardInput struct {
	Topic string `json:"topic" validate:"required,max=200"`
	Front string `json:"front" validate:"required,max=10000"`
	Back  string `json:"back"  validate:"required,max=10000"`
}

// CreateCardsRequest is the body of POST /api/cards.
type CreateCardsRequest struct {
	Cards []CardInput `json:"cards" validate:"required,min=1,max=500,dive"`
}

// PostponeCardRequest is the body of POST /api/cards/{id}/postpone.
type PostponeCardRequest struct {
	Days int `json:"days" validate:"required,min=1,max=365"`
}

// StartSessionRequest is the body of POST /api/sessions.
type StartSessionRequest struct {
	Topic string `json:"topic" validate:"required"`
	Mode  string `json:"mode"  validate:"required,oneof=standard mixed quiz"`
}

// RatingRequest is the body of POST /api/sessions/{id}/rating.
type RatingRequest struct {
	Rating string `json:"rating" validate:"required,oneof=again hard easy"`
}

// AnswerRequest is the body of POST /api/sessions/{id}/answer.
type AnswerRequest struct {
	QuestionID string `json:"question_id" validate:"required,uuid"`
	Option     string `json:"option"      validate:"required"`
}

// ModeRequest is the body of POST /api/sessions/{id}/mode.
type ModeRequest struct {
	Mode string `json:"mode" validate:"required,oneof=standard mixed quiz"`
}

// TopicsResponse lists the caller's topics.
type TopicsResponse struct {
	Topics []string `json:"topics"`
}

// CardResponse represents the response data for a card.
type CardResponse struct {
	ID         uuid.UUID `json:"id"`
	Topic      string    `json:"topic"`
	Front      string    `json:"front"`
	Back       string    `json:"back"`
	Repetition int       `json:"repetition"`
	Interval   int       `json:"interval"`
	EaseFactor float64   `json:"ease_factor"`
	NextReview time.Time `json:"next_review"`
	CreatedAt  time.Time `json:"created_at"`
}

// CardsResponse is returned by POST /api/cards.
type CardsResponse struct {
	Cards []CardResponse `json:"cards"`
}

func cardToResponse(card *domain.Card) CardResponse {
	return CardResponse{
		ID:         card.ID,
		Topic:      card.Topic,
		Front:      card.Front,
		Back:       card.Back,
		Repetition: card.Memory.Repetition,
		Interval:   card.Memory.Interval,
		EaseFactor: card.Memory.EaseFactor,
		NextReview: card.NextReview,
		CreatedAt:  card.CreatedAt,
	}
}
