package middlewares

import (
	"context"
	"errors"
	"net/http"

	"github.com/sbilibin2017/gw-auth/internal/logger"
	"github.com/sbilibin2017/gw-auth/internal/models"
	"github.com/sbilibin2017/gw-auth/internal/services"
)

// Tokener defines the token extraction needed by the middleware
type Tokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
}

// CurrentUserResolver resolves a bearer token into the current user.
type CurrentUserResolver interface {
	GetCurrentUser(ctx context.Context, tokenString string) (*models.UserDB, error)
}

// AuthMiddleware returns a middleware that resolves the current user from
// the bearer token and stores it in the request context. Requests with a
// missing or invalid token get 401; a valid token whose subject no longer
// exists gets 404.
func AuthMiddleware(tokener Tokener, resolver CurrentUserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, err := tokener.GetTokenFromRequest(ctx, r)
			if err != nil {
				logger.Log.Errorw("authorization failed", "err", err)
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			user, err := resolver.GetCurrentUser(ctx, tokenString)
			if err != nil {
				logger.Log.Errorw("authorization failed", "err", err)
				if errors.Is(err, services.ErrUserNotFound) {
					w.WriteHeader(http.StatusNotFound)
					return
				}
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(SetUserToContext(ctx, user)))
		})
	}
}

type userContextKey struct{}

var userKey = userContextKey{}

// SetUserToContext stores the resolved user in the context
func SetUserToContext(ctx context.Context, user *models.UserDB) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUserFromContext retrieves the resolved user from the context. Returns nil if not present.
func GetUserFromContext(ctx context.Context) *models.UserDB {
	user, _ := ctx.Value(userKey).(*models.UserDB)
	return user
}
