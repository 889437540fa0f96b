package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/templui/tagbox/internal/ctxkeys"
	"github.com/templui/tagbox/internal/model"
	"github.com/templui/tagbox/internal/respond"
	"github.com/templui/tagbox/internal/service"
)

// TokenVerifier resolves a bearer token to a user id
type TokenVerifier interface {
	VerifyJWT(token string) (int64, error)
}

// UserLoader returns active users; deleted accounts yield service.ErrNotFound
type UserLoader interface {
	ByID(ctx context.Context, id int64) (*model.User, error)
}

// AuthMiddleware checks the Authorization bearer token and adds the user to the
// context if it is valid and the account is still active. Requests without a
// usable token continue anonymously; RequireAuth rejects them where needed.
func AuthMiddleware(verifier TokenVerifier, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := verifier.VerifyJWT(token)
			if err != nil {
				slog.Debug("rejected bearer token", "error", err, "path", r.URL.Path)
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.ByID(r.Context(), userID)
			if errors.Is(err, service.ErrNotFound) {
				// Token outlived the account
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				slog.Error("failed to load user for token", "error", err, "user_id", userID)
				respond.Error(w, http.StatusInternalServerError, "internal server error")
				return
			}

			user.PasswordHash = ""

			next.ServeHTTP(w, r.WithContext(ctxkeys.WithUser(r.Context(), user)))
		})
	}
}

// RequireAuth answers 401 unless AuthMiddleware attached a user
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.User(r.Context()) == nil {
			respond.Error(w, http.StatusUnauthorized, "missing, invalid or expired token")
			return
		}
		next.ServeHTTP(w, r)
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
