package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"donorhub/internal/delivery/http/helpers"
	"donorhub/internal/domain"
)

type contextKey string

const userIDKey contextKey = "userID"

var (
	errNoAuthHeader = errors.New("missing authorization header")
	errNotBearer    = errors.New("authorization scheme must be Bearer")
	errEmptyToken   = errors.New("missing token")
)

// SetUserID stores the authenticated staff user's ID on ctx.
func SetUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the ID stored by SetUserID.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// bearerToken extracts the token from "Authorization: Bearer <token>". The scheme is case-insensitive.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errNoAuthHeader
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", errNotBearer
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errEmptyToken
	}
	return token, nil
}

// RequireAuth guards a write route with a staff login token. Requests without a valid
// token get 401 and never reach next.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, err.Error())
				return
			}
			userID, err := verifier.Verify(token)
			if err != nil {
				requestID, _ := RequestIDFromContext(r.Context())
				logger.DebugContext(r.Context(), "token rejected", "path", r.URL.Path, "request_id", requestID, "err", err)
				helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			next(w, r.WithContext(SetUserID(r.Context(), userID)))
		}
	}
}
