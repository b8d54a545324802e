package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sbilibin2017/gw-auth/internal/logger"
	"github.com/sbilibin2017/gw-auth/internal/models"
	"github.com/sbilibin2017/gw-auth/internal/services"
	"github.com/sbilibin2017/gw-auth/internal/validation"
)

// Registerer defines the interface that the registration service must implement.
type Registerer interface {
	Register(ctx context.Context, email, username, password string) (*models.UserDB, error)
}

// RegisterRequest represents the JSON body for user registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	// Email
	// required: true
	// default: john@example.com
	Email string `json:"email"`

	// Username
	// required: true
	// default: john_doe
	Username string `json:"username"`

	// Password
	// required: true
	// default: secret123
	Password string `json:"password"`
}

// UserResponse represents a registered user in API responses
// swagger:model UserResponse
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ErrorResponse represents an error response body
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Error message
	Error string `json:"error"`
}

func newUserResponse(user *models.UserDB) UserResponse {
	return UserResponse{
		ID:        user.UserID.String(),
		Email:     user.Email,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// NewRegisterHandler returns an HTTP handler for user registration.
// @Summary Register a new user
// @Description Creates a new user account. Ensures unique email and username. Password is hashed before storing.
// @Tags auth
// @Accept json
// @Produce json
// @Param registerRequest body handlers.RegisterRequest true "User registration request"
// @Success 201 {object} handlers.UserResponse "User successfully registered"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request body or input"
// @Failure 409 {object} handlers.ErrorResponse "Email or username already taken"
// @Router /register [post]
func NewRegisterHandler(svc Registerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ErrorResponse{
				Error: "invalid request body",
			})
			return
		}

		user, err := svc.Register(r.Context(), req.Email, req.Username, req.Password)
		if err != nil {
			var validationErr *validation.Error
			switch {
			case errors.As(err, &validationErr):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(ErrorResponse{
					Error: validationErr.Message,
				})
			case errors.Is(err, services.ErrEmailAlreadyRegistered):
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(ErrorResponse{
					Error: "Email already registered",
				})
			case errors.Is(err, services.ErrUsernameAlreadyTaken):
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(ErrorResponse{
					Error: "Username already taken",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(ErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(newUserResponse(user))
	}
}
