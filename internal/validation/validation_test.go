package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		username  string
		password  string
		wantField string
	}{
		{"valid", "alice@example.com", "alice", "password123", ""},
		{"empty email", "", "alice", "password123", "email"},
		{"malformed email", "not-an-email", "alice", "password123", "email"},
		{"empty username", "alice@example.com", "", "password123", "username"},
		{"username too short", "alice@example.com", "al", "password123", "username"},
		{"username too long", "alice@example.com", strings.Repeat("a", 51), "password123", "username"},
		{"password too short", "alice@example.com", "alice", "short", "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegistration(tt.email, tt.username, tt.password)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var vErr *Error
			assert.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
			assert.Contains(t, err.Error(), tt.wantField)
		})
	}
}

func TestValidateUsername_Bounds(t *testing.T) {
	assert.NoError(t, ValidateUsername(strings.Repeat("a", 3)))
	assert.NoError(t, ValidateUsername(strings.Repeat("a", 50)))
	assert.Error(t, ValidateUsername(strings.Repeat("a", 2)))
	assert.Error(t, ValidateUsername(strings.Repeat("a", 51)))
}
