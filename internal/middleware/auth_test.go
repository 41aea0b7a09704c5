package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signTestToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtSecret)
	require.NoError(t, err)
	return signed
}

func runAuth(header string) (*httptest.ResponseRecorder, int, bool) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		c.Request.Header.Set("Authorization", header)
	}

	AuthMiddleware()(c)

	id, ok := c.Get("user_id")
	if !ok {
		return w, 0, false
	}
	return w, id.(int), true
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	token := signTestToken(t, jwt.MapClaims{
		"user_id": 42,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	w, userID, ok := runAuth("Bearer " + token)
	assert.Equal(t, http.StatusOK, w.Code)
	require.True(t, ok)
	assert.Equal(t, 42, userID)
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	w, _, ok := runAuth("")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, ok)
}

func TestAuthMiddlewareRejectsNonBearer(t *testing.T) {
	w, _, ok := runAuth("Basic abc123")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, ok)
}

func TestAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	token := signTestToken(t, jwt.MapClaims{
		"user_id": 42,
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})

	w, _, ok := runAuth("Bearer " + token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, ok)
}

func TestAuthMiddlewareRejectsTamperedToken(t *testing.T) {
	token := signTestToken(t, jwt.MapClaims{"user_id": 42})

	w, _, ok := runAuth("Bearer " + token + "x")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, ok)
}
