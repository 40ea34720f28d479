package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoUser(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserID(r.Context())
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(userID))
	})
}

func TestAuthenticator(t *testing.T) {
	const secret = "test-secret"
	validator := NewJWTValidator(secret)
	handler := Authenticator(validator)(echoUser(t))

	validToken, err := signToken(secret, "user-1", "one@example.com", time.Hour)
	require.NoError(t, err)
	expiredToken, err := signToken(secret, "user-1", "one@example.com", -time.Hour)
	require.NoError(t, err)
	foreignToken, err := signToken("other-secret", "user-1", "one@example.com", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "valid token", header: "Bearer " + validToken, wantStatus: http.StatusOK, wantBody: "user-1"},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + expiredToken, wantStatus: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + foreignToken, wantStatus: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer not-a-jwt", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestDevUserMiddleware(t *testing.T) {
	t.Run("header wins over default", func(t *testing.T) {
		handler := DevUserMiddleware("default-user")(echoUser(t))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(TestUserHeader, "user-2")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, "user-2", rec.Body.String())
	})

	t.Run("falls back to default", func(t *testing.T) {
		handler := DevUserMiddleware("default-user")(echoUser(t))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, "default-user", rec.Body.String())
	})

	t.Run("no default leaves request anonymous", func(t *testing.T) {
		handler := DevUserMiddleware("")(RequireUser(echoUser(t)))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequestLogger_PassesThrough(t *testing.T) {
	handler := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/brew", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}
