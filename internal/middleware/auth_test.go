package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, typ string, ttl time.Duration, secret []byte) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": "4a9dca14-7a51-4a01-94a3-b27a16e47cb1",
		"typ": typ,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(ttl).Unix(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return s
}

func runRequest(authz string) (*httptest.ResponseRecorder, string) {
	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkins/today", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	NewAuthMiddleware(testSecret).RequireAuth(next).ServeHTTP(rec, req)
	return rec, gotUserID
}

func TestRequireAuthValidToken(t *testing.T) {
	token := signToken(t, "access", time.Hour, testSecret)
	rec, userID := runRequest("Bearer " + token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "4a9dca14-7a51-4a01-94a3-b27a16e47cb1", userID)
}

func TestRequireAuthMissingHeader(t *testing.T) {
	rec, _ := runRequest("")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"missing token"}`, rec.Body.String())
}

func TestRequireAuthMalformedHeader(t *testing.T) {
	rec, _ := runRequest("Token abcdef")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthExpiredToken(t *testing.T) {
	token := signToken(t, "access", -time.Minute, testSecret)
	rec, _ := runRequest("Bearer " + token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthWrongSecret(t *testing.T) {
	token := signToken(t, "access", time.Hour, []byte("other-secret"))
	rec, _ := runRequest("Bearer " + token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthRejectsRefreshToken(t *testing.T) {
	// A refresh token is valid JWT but must not grant API access.
	token := signToken(t, "refresh", time.Hour, testSecret)
	rec, _ := runRequest("Bearer " + token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"invalid token type"}`, rec.Body.String())
}

func TestUserIDWithoutAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", UserID(req.Context()))
}
