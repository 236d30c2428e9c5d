package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chatfusion/chatfusion-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubVerifier map[string]*jwt.Claims

func (s stubVerifier) VerifySession(token string) (*jwt.Claims, bool) {
	claims, ok := s[token]
	return claims, ok
}

func newAuthRouter(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/test", handler, func(c *gin.Context) {
		c.String(http.StatusOK, GetUserID(c)+"/"+GetUsername(c))
	})
	return r
}

func TestJWTAuth(t *testing.T) {
	verifier := stubVerifier{"good": {UserID: "u1", Username: "alice"}}
	r := newAuthRouter(JWTAuth(verifier))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid bearer", "Bearer good", http.StatusOK},
		{"lowercase scheme", "bearer good", http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"unknown token", "Bearer forged", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "u1/alice", w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), "authentication required")
			}
		})
	}
}

func TestQueryTokenAuth(t *testing.T) {
	verifier := stubVerifier{"good": {UserID: "u1", Username: "alice"}}
	r := newAuthRouter(QueryTokenAuth(verifier))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test?token=good", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/test?token=bad", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
