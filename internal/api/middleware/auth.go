package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dom/movie-stream-website/internal/domain"
	"github.com/dom/movie-stream-website/internal/service"
)

type contextKey string

const userKey contextKey = "user"

// CodeTokenExpired tells clients to call the refresh endpoint instead of
// sending the user back to login.
const CodeTokenExpired = "TOKEN_EXPIRED"

// Auth verifies the bearer access token and attaches the resolved user to
// the request context. Expired tokens get a distinguishable code so clients
// know to refresh; everything else is a generic rejection.
func Auth(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, "Not authorized, please login.", "")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				unauthorized(w, "Invalid authorization header", "")
				return
			}

			userID, err := authService.Tokens().VerifyAccessToken(parts[1])
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					unauthorized(w, "Access token expired, please send refresh token.", CodeTokenExpired)
					return
				}
				unauthorized(w, "Token is invalid. Please login again.", "")
				return
			}

			user, err := authService.GetUserByID(r.Context(), userID)
			if err != nil {
				unauthorized(w, "User not found. Token may be invalid.", "")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser returns the authenticated user attached by Auth.
func GetUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok
}

func unauthorized(w http.ResponseWriter, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	body := map[string]interface{}{
		"success": false,
		"message": message,
	}
	if code != "" {
		body["code"] = code
	}
	json.NewEncoder(w).Encode(body)
}
