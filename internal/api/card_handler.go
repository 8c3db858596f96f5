package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/service/study"
	"github.com/phrazzld/scry-study/internal/session"
)

// StudyService is the application service the handlers call.
type StudyService interface {
	ListTopics(ctx context.Context, userID uuid.UUID) ([]string, error)
	AddCards(ctx context.Context, userID uuid.UUID, cards []study.NewCard) ([]*domain.Card, error)
	PostponeCard(ctx context.Context, userID, cardID uuid.UUID, days int) (*domain.Card, error)
	StartSession(ctx context.Context, userID uuid.UUID, topic string, mode session.Mode) (*study.SessionView, error)
	GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*study.SessionView, error)
	Apply(ctx context.Context, userID, sessionID uuid.UUID, cmd session.Command) (*study.SessionView, error)
	EndSession(ctx context.Context, userID, sessionID uuid.UUID) error
}

var _ StudyService = (*study.Service)(nil)

// CardHandler handles topic and card authoring requests.
type CardHandler struct {
	studyService StudyService
	logger       *slog.Logger
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(studyService StudyService, logger *slog.Logger) *CardHandler {
	if studyService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("studyService cannot be nil for CardHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CardHandler")
	}

	return &CardHandler{
		studyService: studyService,
		logger:       logger.With(slog.String("component", "card_handler")),
	}
}

// ListTopics handles GET /api/topics requests.
func (h *CardHandler) ListTopics(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	topics, err := h.studyService.ListTopics(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list topics")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TopicsResponse{Topics: topics})
}

// CreateCards handles POST /api/cards requests. All cards are stored or none.
func (h *CardHandler) CreateCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	var req CreateCardsRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	input := make([]study.NewCard, len(req.Cards))
	for i, c := range req.Cards {
		input[i] = study.NewCard{Topic: c.Topic, Front: c.Front, Back: c.Back}
	}

	cards, err := h.studyService.AddCards(r.Context(), userID, input)
	if err != nil {
		status := MapErrorToStatusCode(err)
		message := GetSafeErrorMessage(err)
		if status == http.StatusInternalServerError {
			message = "Failed to create cards"
		}
		shared.RespondWithErrorAndLog(w, r, status, message, err)
		return
	}

	resp := CardsResponse{Cards: make([]CardResponse, len(cards))}
	for i, card := range cards {
		resp.Cards[i] = cardToResponse(card)
	}

	log.Debug("cards created",
		slog.String("user_id", userID.String()),
		slog.Int("card_count", len(cards)))
	shared.RespondWithJSON(w, r, http.StatusCreated, resp)
}

// PostponeCard handles POST /api/cards/{id}/postpone requests.
func (h *CardHandler) PostponeCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req PostponeCardRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	card, err := h.studyService.PostponeCard(r.Context(), userID, cardID, req.Days)
	if err != nil {
		status := MapErrorToStatusCode(err)
		message := GetSafeErrorMessage(err)
		if status == http.StatusInternalServerError {
			message = "Failed to postpone card"
		}
		shared.RespondWithErrorAndLog(w, r, status, message, err)
		return
	}

	log.Debug("card postponed",
		slog.String("card_id", cardID.String()),
		slog.Int("days", req.Days))
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}
