package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ffe/backend/internal/infrastructure/config"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret: "test-secret-key-at-least-32-chars",
		Issuer: "ffe-frontend",
	})
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	token, err := svc.GenerateAccessToken(userID, "applicant@example.org", 15*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "applicant@example.org", claims.Email)

	got, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, userID, got)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.GetExpiresAtTime(), 5*time.Second)
}

func TestJWTService_ValidateAccessToken_Errors(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	sign := func(claims *Claims, secret string) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return token
	}
	registered := func(issuer string, issued, expires time.Time) jwt.RegisteredClaims {
		return jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(issued),
			NotBefore: jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
		}
	}
	now := time.Now()

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{
			name:    "malformed",
			token:   "not-a-token",
			wantErr: ErrInvalidToken,
		},
		{
			name: "wrong secret",
			token: sign(&Claims{
				RegisteredClaims: registered("ffe-frontend", now, now.Add(time.Hour)),
				UserID:           userID.String(),
			}, "some-other-secret-of-32-characters"),
			wantErr: ErrInvalidToken,
		},
		{
			name: "expired",
			token: sign(&Claims{
				RegisteredClaims: registered("ffe-frontend", now.Add(-2*time.Hour), now.Add(-time.Hour)),
				UserID:           userID.String(),
			}, "test-secret-key-at-least-32-chars"),
			wantErr: ErrExpiredToken,
		},
		{
			name: "not yet valid",
			token: sign(&Claims{
				RegisteredClaims: registered("ffe-frontend", now.Add(time.Hour), now.Add(2*time.Hour)),
				UserID:           userID.String(),
			}, "test-secret-key-at-least-32-chars"),
			wantErr: ErrTokenNotYetValid,
		},
		{
			name: "wrong issuer",
			token: sign(&Claims{
				RegisteredClaims: registered("someone-else", now, now.Add(time.Hour)),
				UserID:           userID.String(),
			}, "test-secret-key-at-least-32-chars"),
			wantErr: ErrInvalidToken,
		},
		{
			name: "missing user id",
			token: sign(&Claims{
				RegisteredClaims: registered("ffe-frontend", now, now.Add(time.Hour)),
			}, "test-secret-key-at-least-32-chars"),
			wantErr: ErrMissingUserID,
		},
		{
			name: "user id is not a uuid",
			token: sign(&Claims{
				RegisteredClaims: registered("ffe-frontend", now, now.Add(time.Hour)),
				UserID:           "42",
			}, "test-secret-key-at-least-32-chars"),
			wantErr: ErrInvalidClaims,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.ValidateAccessToken(tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, claims)
		})
	}
}

func TestJWTService_RejectsNoneAlgorithm(t *testing.T) {
	svc := newTestJWTService()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "ffe-frontend",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: uuid.New().String(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
