package middleware

import (
	"net/http"

	"github.com/stayhub/stayhub-api/internal/domain/user"
	"github.com/stayhub/stayhub-api/internal/pkg/logger"
	"github.com/stayhub/stayhub-api/internal/pkg/response"
)

// RequireVerifiedEmail blocks authenticated users that are unknown, banned
// or have not verified their email. Booking mails go to that address.
func RequireVerifiedEmail(userRepo user.Repository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := GetUserID(r.Context())
			if userID == 0 {
				response.Unauthorized(w, "Authentication required")
				return
			}

			u, err := userRepo.GetByID(r.Context(), userID)
			if err != nil {
				logger.LogError(r.Context(), err, "Failed to load user", "user_id", userID)
				response.InternalError(w)
				return
			}
			if u == nil {
				response.Unauthorized(w, "Authentication required")
				return
			}

			if !u.IsActive() {
				response.Forbidden(w, "Your account has been banned")
				return
			}

			if !u.EmailVerified {
				response.Error(w, http.StatusForbidden, "EMAIL_NOT_VERIFIED", "Email is not verified")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
