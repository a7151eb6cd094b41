package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quranstudy/models"
	"quranstudy/response"
	"quranstudy/services"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubParser map[string]*services.Claims

func (p stubParser) Parse(token string, want models.TokenType) (*services.Claims, error) {
	claims, ok := p[token]
	if !ok || claims.Type != want {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

var parser = stubParser{
	"user-token":    {Type: models.TokenTypeAccess, Role: models.RoleUser, RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"}},
	"admin-token":   {Type: models.TokenTypeAccess, Role: models.RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{Subject: "a1"}},
	"refresh-token": {Type: models.TokenTypeRefresh, Role: models.RoleUser, RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"}},
}

func perform(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/me", AuthMiddleware(parser), func(c *gin.Context) {
		id, _ := UserID(c)
		c.String(http.StatusOK, id)
	})

	w := perform(r, http.MethodGet, "/me", "user-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())

	w = perform(r, http.MethodGet, "/me?token=admin-token", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a1", w.Body.String())

	w = perform(r, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env := decode(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "Please authenticate", env.Message)

	w = perform(r, http.MethodGet, "/me", "refresh-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRights(t *testing.T) {
	r := gin.New()
	r.GET("/users/:userId", AuthMiddleware(parser), RequireRights(models.RightGetUsers), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/users/u1", "user-token").Code)
	assert.Equal(t, http.StatusForbidden, perform(r, http.MethodGet, "/users/u2", "user-token").Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/users/u2", "admin-token").Code)
}

func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := gin.New()
	r.GET("/", RateLimiter(ctx, 2, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/", "").Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/", "").Code)
	w := perform(r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.False(t, decode(t, w).Success)
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryAndRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()), Recovery(zap.NewNop()))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := perform(r, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, "Internal Server Error", decode(t, w).Message)
}
