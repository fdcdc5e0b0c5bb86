package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppetrenko/techvocab-api/internal/config"
	"github.com/ppetrenko/techvocab-api/internal/service/auth"
)

const authTestSecret = "test-secret-key-thats-long-enough-0123"

func signAuthToken(t *testing.T, secret string, subject string, expiresAt time.Time) string {
	t.Helper()

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newAuthTestService(t *testing.T) auth.JWTService {
	t.Helper()

	svc, err := auth.NewJWTService(config.AuthConfig{JWTSecret: authTestSecret})
	require.NoError(t, err)
	return svc
}

func TestAuthenticatePassesUserIDToHandler(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	token := signAuthToken(t, authTestSecret, userID.String(), time.Now().Add(time.Hour))

	var gotUserID uuid.UUID
	var gotOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, gotOK = GetUserID(r)
		w.WriteHeader(http.StatusNoContent)
	})

	mw := NewAuthMiddleware(newAuthTestService(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	mw.Authenticate(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, gotOK)
	assert.Equal(t, userID, gotUserID)
}

func TestAuthenticateRejections(t *testing.T) {
	t.Parallel()

	expiredToken := signAuthToken(t, authTestSecret, uuid.New().String(), time.Now().Add(-time.Hour))
	foreignToken := signAuthToken(
		t, "another-secret-key-thats-long-enough-x", uuid.New().String(), time.Now().Add(time.Hour))

	tests := []struct {
		name        string
		header      string
		wantMessage string
	}{
		{
			name:        "missing header",
			header:      "",
			wantMessage: "Authorization header required",
		},
		{
			name:        "not a bearer token",
			header:      "Basic dXNlcjpwYXNz",
			wantMessage: "Invalid authorization format",
		},
		{
			name:        "garbage token",
			header:      "Bearer not-a-jwt",
			wantMessage: "Invalid token",
		},
		{
			name:        "expired token",
			header:      "Bearer " + expiredToken,
			wantMessage: "Token expired",
		},
		{
			name:        "wrong signing key",
			header:      "Bearer " + foreignToken,
			wantMessage: "Invalid token",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler must not be called for rejected requests")
			})

			mw := NewAuthMiddleware(newAuthTestService(t))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			mw.Authenticate(next).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.wantMessage)
		})
	}
}
