package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/session"
)

// SessionHandler handles study session requests.
type SessionHandler struct {
	studyService StudyService
	logger       *slog.Logger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(studyService StudyService, logger *slog.Logger) *SessionHandler {
	if studyService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("studyService cannot be nil for SessionHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SessionHandler")
	}

	return &SessionHandler{
		studyService: studyService,
		logger:       logger.With(slog.String("component", "session_handler")),
	}
}

// StartSession handles POST /api/sessions requests. A topic without cards
// answers 204 and creates no session.
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUser(w, r, log)
	if !ok {
		return
	}

	var req StartSessionRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	mode, err := session.ParseMode(req.Mode)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	view, err := h.studyService.StartSession(r.Context(), userID, req.Topic, mode)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("study session started",
		slog.String("session_id", view.ID.String()),
		slog.String("mode", string(mode)))
	shared.RespondWithJSON(w, r, http.StatusCreated, view)
}

// GetSession handles GET /api/sessions/{id} requests.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	view, err := h.studyService.GetSession(r.Context(), userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// EndSession handles DELETE /api/sessions/{id} requests.
func (h *SessionHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.studyService.EndSession(r.Context(), userID, sessionID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SelectTopic handles POST /api/sessions/{id}/select requests, starting a new
// topic on a session that returned to topic selection.
func (h *SessionHandler) SelectTopic(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req StartSessionRequest
	h.apply(w, r, log, &req, func() (session.Command, error) {
		mode, err := session.ParseMode(req.Mode)
		if err != nil {
			return nil, err
		}
		return session.SelectTopicCommand{Topic: req.Topic, Mode: mode}, nil
	})
}

// SubmitRating handles POST /api/sessions/{id}/rating requests.
func (h *SessionHandler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RatingRequest
	h.apply(w, r, log, &req, func() (session.Command, error) {
		rating, err := domain.ParseRating(req.Rating)
		if err != nil {
			return nil, err
		}
		return session.SubmitRatingCommand{Rating: rating}, nil
	})
}

// SubmitAnswer handles POST /api/sessions/{id}/answer requests.
func (h *SessionHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req AnswerRequest
	h.apply(w, r, log, &req, func() (session.Command, error) {
		questionID, err := uuid.Parse(req.QuestionID)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		return session.SubmitAnswerCommand{QuestionID: questionID, Option: req.Option}, nil
	})
}

// SwitchMode handles POST /api/sessions/{id}/mode requests.
func (h *SessionHandler) SwitchMode(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req ModeRequest
	h.apply(w, r, log, &req, func() (session.Command, error) {
		mode, err := session.ParseMode(req.Mode)
		if err != nil {
			return nil, err
		}
		return session.SwitchModeCommand{Mode: mode}, nil
	})
}

// Restart handles POST /api/sessions/{id}/restart requests.
func (h *SessionHandler) Restart(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	h.apply(w, r, log, nil, func() (session.Command, error) {
		return session.RestartCommand{}, nil
	})
}

// ReturnToTopics handles POST /api/sessions/{id}/topics requests.
func (h *SessionHandler) ReturnToTopics(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	h.apply(w, r, log, nil, func() (session.Command, error) {
		return session.ReturnToTopicsCommand{}, nil
	})
}

// apply runs the common steps of a session command: user and path
// extraction, optional body decoding into req, building the command and
// dispatching it.
func (h *SessionHandler) apply(
	w http.ResponseWriter,
	r *http.Request,
	log *slog.Logger,
	req interface{},
	build func() (session.Command, error),
) {
	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if req != nil && !decodeAndValidate(w, r, req, log) {
		return
	}

	cmd, err := build()
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	view, err := h.studyService.Apply(r.Context(), userID, sessionID, cmd)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("session command applied",
		slog.String("session_id", sessionID.String()),
		slog.String("command", commandName(cmd)),
		slog.String("state", string(view.State)))
	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

func commandName(cmd session.Command) string {
	switch cmd.(type) {
	case session.SelectTopicCommand:
		return "select_topic"
	case session.SubmitRatingCommand:
		return "submit_rating"
	case session.SubmitAnswerCommand:
		return "submit_answer"
	case session.SwitchModeCommand:
		return "switch_mode"
	case session.RestartCommand:
		return "restart"
	case session.ReturnToTopicsCommand:
		return "return_to_topics"
	default:
		return "unknown"
	}
}
