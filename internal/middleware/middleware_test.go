package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeTokens map[string]string

func (f fakeTokens) ValidateToken(token string) (string, error) {
	if email, ok := f[token]; ok {
		return email, nil
	}
	return "", errors.New("bad token")
}

type fakeRoles struct {
	admins map[string]bool
	err    error
}

func (f fakeRoles) IsAdmin(_ context.Context, email string) (bool, error) {
	return f.admins[email], f.err
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		email, _ := CurrentEmail(c)
		c.String(http.StatusOK, email)
	})
	r.GET("/users/:emailId", handlers...)
	return r
}

func do(r http.Handler, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter(AuthMiddleware(fakeTokens{"good": "ada@example.com"}))

	assert.Equal(t, http.StatusUnauthorized, do(r, "/users/x", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/users/x", "Token good").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/users/x", "Bearer bad").Code)

	w := do(r, "/users/x", "Bearer good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ada@example.com", w.Body.String())
}

func TestAdminMiddleware(t *testing.T) {
	tokens := fakeTokens{"admin": "root@example.com", "user": "ada@example.com"}
	roles := fakeRoles{admins: map[string]bool{"root@example.com": true}}
	r := newRouter(AuthMiddleware(tokens), AdminMiddleware(roles))

	assert.Equal(t, http.StatusOK, do(r, "/users/x", "Bearer admin").Code)
	assert.Equal(t, http.StatusForbidden, do(r, "/users/x", "Bearer user").Code)

	broken := newRouter(AuthMiddleware(tokens), AdminMiddleware(fakeRoles{err: errors.New("db down")}))
	assert.Equal(t, http.StatusInternalServerError, do(broken, "/users/x", "Bearer admin").Code)
}

func TestSelfOrAdminMiddleware(t *testing.T) {
	tokens := fakeTokens{"admin": "root@example.com", "user": "ada@example.com"}
	roles := fakeRoles{admins: map[string]bool{"root@example.com": true}}
	r := newRouter(AuthMiddleware(tokens), SelfOrAdminMiddleware("emailId", roles))

	assert.Equal(t, http.StatusOK, do(r, "/users/ada@example.com", "Bearer user").Code)
	assert.Equal(t, http.StatusForbidden, do(r, "/users/bob@example.com", "Bearer user").Code)
	assert.Equal(t, http.StatusOK, do(r, "/users/bob@example.com", "Bearer admin").Code)
}

func TestRequestID(t *testing.T) {
	r := newRouter(RequestID())

	w := do(r, "/users/x", "")
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/users/x", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
