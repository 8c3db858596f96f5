package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/platform/logger"
)

// UserIDHeader carries the learner's ID, set by the authenticating proxy in
// front of the service.
const UserIDHeader = "X-User-ID"

// RequireUser reads the user ID from the X-User-ID header and adds it to the
// request context. Requests without a valid ID are rejected with 401.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if raw == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID header required")
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil || userID == uuid.Nil {
			logger.FromContext(r.Context()).Debug("rejecting malformed user ID header")
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid user ID")
			return
		}

		next.ServeHTTP(w, r.WithContext(shared.WithUserID(r.Context(), userID)))
	})
}
