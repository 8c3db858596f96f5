package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/quiz"
	"github.com/phrazzld/scry-study/internal/service/study"
	"github.com/phrazzld/scry-study/internal/session"
	"github.com/phrazzld/scry-study/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	wrap := func(err error) error {
		return study.NewServiceError("apply", "command rejected", fmt.Errorf("context: %w", err))
	}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not owned", study.ErrCardNotOwned, http.StatusForbidden},
		{"session not found", wrap(study.ErrSessionNotFound), http.StatusNotFound},
		{"card not found", wrap(store.ErrCardNotFound), http.StatusNotFound},
		{"wrong mode", wrap(session.ErrWrongMode), http.StatusConflict},
		{"not active", wrap(session.ErrNotActive), http.StatusConflict},
		{"stale question", wrap(quiz.ErrUnknownQuestion), http.StatusConflict},
		{"duplicate", store.ErrDuplicate, http.StatusConflict},
		{"invalid rating", wrap(domain.ErrInvalidRating), http.StatusBadRequest},
		{"invalid option", wrap(quiz.ErrInvalidOption), http.StatusBadRequest},
		{"validation", wrap(domain.ErrValidation), http.StatusBadRequest},
		{"cap", wrap(study.ErrTooManySessions), http.StatusServiceUnavailable},
		{"nothing to study", wrap(session.ErrNothingToStudy), http.StatusNoContent},
		{"unknown", errors.New("pq: connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage_NeverLeaksInternals(t *testing.T) {
	t.Parallel()

	internal := errors.New("dial tcp 10.0.0.5:5432: password=hunter2 rejected")
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(internal))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))

	wrapped := study.NewServiceError("get_session", "session not found", study.ErrSessionNotFound)
	assert.Equal(t, "Study session not found", GetSafeErrorMessage(wrapped))
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := shared.ValidateRequest(RatingRequest{Rating: "good"})
	assert.Equal(t, "Invalid rating: invalid value", SanitizeValidationError(err))

	err = shared.ValidateRequest(AnswerRequest{QuestionID: "x", Option: "a"})
	assert.Equal(t, "Invalid question_id: invalid format", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("boom")))
}
