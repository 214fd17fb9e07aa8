package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/khalfanathman/portfolio-api/internal/access"
	"github.com/khalfanathman/portfolio-api/internal/auth"
	"github.com/khalfanathman/portfolio-api/internal/services"
)

var errNoAuthorization = errors.New("missing authorization")

// Authenticate resolves the request principal from a Bearer access token.
// Requests without an Authorization header continue anonymously; a header
// carrying a bad token is rejected.
func Authenticate(tokens *auth.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := bearerToken(r)
			if errors.Is(err, errNoAuthorization) {
				ctx := access.WithPrincipal(r.Context(), access.Anonymous())
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Authorization header must contain two space-delimited values")
				return
			}

			userID, err := tokens.ParseAccess(tokenString)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Given token not valid for any token type")
				return
			}

			ctx := access.WithPrincipal(r.Context(), access.Authenticated(userID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !access.FromContext(r.Context()).IsAuthenticated() {
			writeError(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin admits only principals whose user carries the admin role.
func RequireAdmin(users *services.UserService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := users.User(r.Context(), access.FromContext(r.Context()))
			if err != nil {
				writeServiceError(w, r, logger, err)
				return
			}
			if !user.IsAdmin() {
				writeError(w, http.StatusForbidden, "You do not have permission to perform this action.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", errNoAuthorization
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("invalid authorization")
	}
	return token, nil
}
