package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"partyinvite/auth"
	"partyinvite/models"
	"partyinvite/response"
	"partyinvite/sl"
)

type contextKey string

const IdentityContextKey contextKey = "identity"

type TokenVerifier interface {
	Verify(token string) (*auth.Identity, error)
}

// Authenticate admits only requests carrying "Authorization: Bearer <token>"
// with a token the verifier accepts, and stores its identity in the context.
func Authenticate(log *slog.Logger, verifier TokenVerifier) func(http.Handler) http.Handler {
	mod := sl.Module("middleware.authenticate")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := log.With(
				mod,
				slog.String("path", r.URL.Path),
				slog.String("request_id", chimiddleware.GetReqID(r.Context())),
			)

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				logger.Debug("missing or malformed authorization header")
				unauthorized(w, r)
				return
			}

			identity, err := verifier.Verify(token)
			if err != nil {
				logger.Debug("token rejected", sl.Secret("token", token), sl.Err(err))
				unauthorized(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), IdentityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, response.Fail(models.ErrUnauthorized))
}

func GetIdentityFromContext(ctx context.Context) *auth.Identity {
	identity, ok := ctx.Value(IdentityContextKey).(*auth.Identity)
	if !ok {
		return nil
	}
	return identity
}
