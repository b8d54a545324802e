package jwt

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJWT_GenerateAndValidate(t *testing.T) {
	j := New(WithSecretKey("test-secret"), WithExpiration(time.Minute))
	ctx := context.Background()

	token, err := j.Generate(ctx, "alice@example.com")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	// Valid token should pass validation
	err = j.Validate(ctx, token)
	assert.NoError(t, err)

	// Extract claims
	claims, err := j.GetClaims(ctx, token)
	assert.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Subject)
}

func TestJWT_ExpiredToken(t *testing.T) {
	j := New(WithSecretKey("test-secret"), WithExpiration(-time.Minute)) // already expired
	ctx := context.Background()

	token, err := j.Generate(ctx, "alice@example.com")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	err = j.Validate(ctx, token)
	assert.ErrorIs(t, err, ErrTokenExpired)

	claims, err := j.GetClaims(ctx, token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWT_MalformedToken(t *testing.T) {
	j := New(WithSecretKey("secret"))
	ctx := context.Background()

	err := j.Validate(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrTokenMalformed)

	claims, err := j.GetClaims(ctx, "not-a-token")
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWT_TamperedSignature(t *testing.T) {
	j := New(WithSecretKey("secret"), WithExpiration(time.Minute))
	ctx := context.Background()

	token, err := j.Generate(ctx, "alice@example.com")
	assert.NoError(t, err)

	// Flip the first byte of the signature segment
	parts := strings.Split(token, ".")
	assert.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	err = j.Validate(ctx, tampered)
	assert.ErrorIs(t, err, ErrTokenSignature)
}

func TestJWT_Validate_WrongSecret(t *testing.T) {
	j1 := New(WithSecretKey("secret1"), WithExpiration(time.Minute))
	j2 := New(WithSecretKey("secret2"), WithExpiration(time.Minute))
	ctx := context.Background()

	token, err := j1.Generate(ctx, "alice@example.com")
	assert.NoError(t, err)

	err = j2.Validate(ctx, token)
	assert.ErrorIs(t, err, ErrTokenSignature)
}

func TestJWT_GetTokenFromRequest(t *testing.T) {
	j := New()
	ctx := context.Background()

	tests := []struct {
		name          string
		header        string
		expectedToken string
		expectError   bool
	}{
		{"ValidBearer", "Bearer mytoken123", "mytoken123", false},
		{"LowercaseBearer", "bearer mytoken123", "mytoken123", false},
		{"NoHeader", "", "", true},
		{"InvalidFormat", "Token mytoken123", "", true},
		{"TooManyParts", "Bearer a b c", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequestWithContext(ctx, http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			token, err := j.GetTokenFromRequest(ctx, req)
			if tt.expectError {
				assert.Error(t, err)
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedToken, token)
			}
		})
	}
}
