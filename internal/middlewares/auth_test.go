package middlewares

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-auth/internal/models"
	"github.com/sbilibin2017/gw-auth/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestAuthMiddleware(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := &models.UserDB{
		UserID:   uuid.New(),
		Email:    "alice@example.com",
		Username: "alice",
	}

	tests := []struct {
		name             string
		mockSetup        func(tokener *MockTokener, resolver *MockCurrentUserResolver)
		expectedStatus   int
		expectNextCalled bool
	}{
		{
			name: "NoToken",
			mockSetup: func(tokener *MockTokener, resolver *MockCurrentUserResolver) {
				tokener.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("", errors.New("no token"))
			},
			expectedStatus:   http.StatusUnauthorized,
			expectNextCalled: false,
		},
		{
			name: "InvalidToken",
			mockSetup: func(tokener *MockTokener, resolver *MockCurrentUserResolver) {
				tokener.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("sometoken", nil)
				resolver.EXPECT().GetCurrentUser(gomock.Any(), "sometoken").
					Return(nil, services.ErrUnauthorized)
			},
			expectedStatus:   http.StatusUnauthorized,
			expectNextCalled: false,
		},
		{
			name: "StaleTokenSubject",
			mockSetup: func(tokener *MockTokener, resolver *MockCurrentUserResolver) {
				tokener.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("sometoken", nil)
				resolver.EXPECT().GetCurrentUser(gomock.Any(), "sometoken").
					Return(nil, services.ErrUserNotFound)
			},
			expectedStatus:   http.StatusNotFound,
			expectNextCalled: false,
		},
		{
			name: "ValidToken",
			mockSetup: func(tokener *MockTokener, resolver *MockCurrentUserResolver) {
				tokener.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("validtoken", nil)
				resolver.EXPECT().GetCurrentUser(gomock.Any(), "validtoken").
					Return(user, nil)
			},
			expectedStatus:   http.StatusOK,
			expectNextCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTokener := NewMockTokener(ctrl)
			mockResolver := NewMockCurrentUserResolver(ctrl)
			tt.mockSetup(mockTokener, mockResolver)

			// Wrap a next handler to check if it was called and sees the user
			nextCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				assert.Equal(t, user, GetUserFromContext(r.Context()))
				w.WriteHeader(http.StatusOK)
			})

			handler := AuthMiddleware(mockTokener, mockResolver)(nextHandler)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectNextCalled, nextCalled)
		})
	}
}
