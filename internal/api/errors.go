package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/quiz"
	"github.com/phrazzld/scry-study/internal/service/study"
	"github.com/phrazzld/scry-study/internal/session"
	"github.com/phrazzld/scry-study/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes so internal
// error types never decide the response directly.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authorization errors
	case errors.Is(err, study.ErrCardNotOwned):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, study.ErrSessionNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// State conflicts
	case errors.Is(err, session.ErrWrongMode),
		errors.Is(err, session.ErrNotActive),
		errors.Is(err, session.ErrNoTopic),
		errors.Is(err, session.ErrTopicAlreadySelected),
		errors.Is(err, quiz.ErrUnknownQuestion),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, session.ErrInvalidMode),
		errors.Is(err, quiz.ErrInvalidOption),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, study.ErrNoCards):
		return http.StatusBadRequest

	case errors.Is(err, study.ErrTooManySessions):
		return http.StatusServiceUnavailable

	// Special cases
	case errors.Is(err, session.ErrNothingToStudy):
		return http.StatusNoContent

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err that carries no
// internal detail.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, study.ErrCardNotOwned):
		return "You do not own this card"

	case errors.Is(err, study.ErrSessionNotFound):
		return "Study session not found"

	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, session.ErrWrongMode):
		return "Command does not apply to the current mode"

	case errors.Is(err, session.ErrNotActive):
		return "Study session is not active"

	case errors.Is(err, session.ErrNoTopic):
		return "No topic selected"

	case errors.Is(err, session.ErrTopicAlreadySelected):
		return "A topic is already selected"

	case errors.Is(err, quiz.ErrUnknownQuestion):
		return "Question is not the current question"

	case errors.Is(err, store.ErrDuplicate):
		return "Card already exists"

	case errors.Is(err, domain.ErrInvalidRating):
		return "Invalid rating"

	case errors.Is(err, session.ErrInvalidMode):
		return "Invalid mode"

	case errors.Is(err, quiz.ErrInvalidOption):
		return "Option is not one of the question's options"

	case errors.Is(err, study.ErrNoCards):
		return "No cards given"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, study.ErrTooManySessions):
		return "Too many active study sessions"

	case errors.Is(err, session.ErrNothingToStudy):
		return "Nothing to study"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator errors into a message naming the
// first failing field, without echoing any submitted value.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		return fmt.Sprintf("Invalid %s: %s", strings.ToLower(first.Field()), getValidationTagMessage(first.Tag()))
	}
	return "Validation error"
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gt", "gte":
		return "too small"
	case "max", "lt", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	case "uuid":
		return "invalid format"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the response for err. An empty message uses
// GetSafeErrorMessage. ErrNothingToStudy becomes an empty 204.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if status == http.StatusNoContent {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
