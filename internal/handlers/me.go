package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sbilibin2017/gw-auth/internal/middlewares"
)

// NewMeHandler returns an HTTP handler for the current authenticated user.
// The auth middleware resolves the bearer token and stores the user in the
// request context before this handler runs.
// @Summary Get current user
// @Description Returns details of the user the bearer token was issued for
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.UserResponse "Current user"
// @Failure 401 {object} handlers.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} handlers.ErrorResponse "Token subject no longer exists"
// @Router /me [get]
func NewMeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.GetUserFromContext(r.Context())
		if user == nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "Could not validate credentials",
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(newUserResponse(user))
	}
}
