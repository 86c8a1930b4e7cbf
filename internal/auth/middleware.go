package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/underneath-media/portfolio-api/models"
)

type contextKey string

const sessionContextKey contextKey = "session"

// RequireUser rejects requests without a valid session and stores the
// resolved session in the request context for downstream handlers.
func RequireUser(s *Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := s.Resolve(r)
			if sess == nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"message": "Authentication required"})
				return
			}
			ctx := context.WithValue(r.Context(), sessionContextKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFrom returns the session placed in the context by RequireUser,
// or nil for anonymous requests.
func SessionFrom(ctx context.Context) *models.Session {
	sess, _ := ctx.Value(sessionContextKey).(*models.Session)
	return sess
}

// CanModify is the owner-or-admin rule: the session user owns the resource
// or carries the admin flag.
func CanModify(sess *models.Session, ownerID uint) bool {
	return sess != nil && (sess.UserID == ownerID || sess.IsAdmin)
}
