// internal/api/handler/middleware.go
package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"auction-listings/internal/util"
	"auction-listings/pkg/auth"
)

// TokenVerifier resolves a bearer token to a user id. *auth.JWTManager implements it.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

// Authenticator puts the caller's user id on the request context.
type Authenticator struct {
	responder
	verifier TokenVerifier
}

// NewAuthenticator creates a new Authenticator.
func NewAuthenticator(verifier TokenVerifier, logger *slog.Logger) *Authenticator {
	return &Authenticator{responder: responder{logger: logger}, verifier: verifier}
}

// RequireAuth rejects requests without a valid bearer token.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.ExtractTokenFromHeader(r)
		if err != nil {
			a.respondWithError(w, fmt.Errorf("%w: missing bearer token", util.ErrUnauthorized))
			return
		}
		a.serveVerified(w, r, next, token)
	})
}

// OptionalAuth lets anonymous requests through. A token that is present must still be valid.
func (a *Authenticator) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}
		token, err := auth.ExtractTokenFromHeader(r)
		if err != nil {
			a.respondWithError(w, fmt.Errorf("%w: malformed Authorization header", util.ErrUnauthorized))
			return
		}
		a.serveVerified(w, r, next, token)
	})
}

func (a *Authenticator) serveVerified(w http.ResponseWriter, r *http.Request, next http.Handler, token string) {
	userID, err := a.verifier.Verify(token)
	if err != nil {
		a.logger.Debug("Rejected bearer token", "error", err)
		a.respondWithError(w, fmt.Errorf("%w: invalid or expired token", util.ErrUnauthorized))
		return
	}
	next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
}
