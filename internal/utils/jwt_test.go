package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestParseJWTClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user1",
		"exp": float64(exp),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	assert.NoError(t, err)

	tests := []struct {
		name        string
		token       string
		expectedSub string
		expectEmpty bool
	}{
		{
			name:        "Valid token",
			token:       signed,
			expectedSub: "user1",
		},
		{
			name:        "Malformed token",
			token:       "pas.un.jwt.valide",
			expectEmpty: true,
		},
		{
			name:        "Invalid base64 payload",
			token:       "abc.###.def",
			expectEmpty: true,
		},
		{
			name:        "Empty string",
			token:       "",
			expectEmpty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := ParseJWTClaims(tt.token)

			if tt.expectEmpty {
				assert.Empty(t, claims)
				return
			}

			assert.Equal(t, tt.expectedSub, claims["sub"])
			expFloat, ok := claims["exp"].(float64)
			assert.True(t, ok)
			assert.Equal(t, float64(exp), expFloat)
		})
	}
}
