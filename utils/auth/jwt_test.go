package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *JWTManager {
	return NewJWTManager(JWTConfig{Secret: "test-secret", Expiry: time.Hour, Issuer: "scouting-db"})
}

func TestGenerateAndValidateWriteToken(t *testing.T) {
	m := newTestManager()

	token, jti, err := m.GenerateWriteToken("cli")
	require.NoError(t, err)
	assert.NotEmpty(t, jti)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "cli", claims.Subject)
	assert.Equal(t, jti, claims.ID)
	assert.Equal(t, WriteScope, claims.Scope)
}

func TestValidateToken_Rejects(t *testing.T) {
	m := newTestManager()
	now := time.Now()

	sign := func(claims Claims, secret string) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}
	valid := func() Claims {
		return Claims{Scope: WriteScope, RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "scouting-db",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		}}
	}

	expired := valid()
	expired.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Minute))
	otherIssuer := valid()
	otherIssuer.Issuer = "someone-else"
	readOnly := valid()
	readOnly.Scope = "catalog:read"

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"garbage", "not-a-token", ErrInvalidToken},
		{"wrong secret", sign(valid(), "other-secret"), ErrInvalidToken},
		{"expired", sign(expired, "test-secret"), ErrExpiredToken},
		{"wrong issuer", sign(otherIssuer, "test-secret"), ErrInvalidToken},
		{"wrong scope", sign(readOnly, "test-secret"), ErrInvalidClaims},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.ValidateToken(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
