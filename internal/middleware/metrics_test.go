package middleware

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestAPIArea(t *testing.T) {
	tests := []struct {
		route string
		want  string
	}{
		{"/api/v1/messages/:id/reactions", "messages"},
		{"/api/v1/friend-requests", "friend-requests"},
		{"/api/v1/ws", "ws"},
		{"/api/v1/", "other"},
		{"unmatched", "other"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, apiArea(tt.route), tt.route)
	}
}

func TestMetricsLabelsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())
	r.GET("/api/v1/stories/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	counter := httpRequestsTotal.WithLabelValues("stories", http.MethodGet, "/api/v1/stories/:id", "204")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"a1", "b2"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/stories/"+id, nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
	assert.Equal(t, before+2, testutil.ToFloat64(counter))

	health := httpRequestsTotal.WithLabelValues("other", http.MethodGet, "/health", "200")
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Zero(t, testutil.ToFloat64(health))
	assert.Zero(t, testutil.ToFloat64(activeRequests))
}

func TestSetDBPoolStats(t *testing.T) {
	SetDBPoolStats(sql.DBStats{OpenConnections: 3, InUse: 1, Idle: 2})
	assert.Equal(t, 1.0, testutil.ToFloat64(dbConnections.WithLabelValues("in_use")))
	assert.Equal(t, 2.0, testutil.ToFloat64(dbConnections.WithLabelValues("idle")))
	assert.Equal(t, 3.0, testutil.ToFloat64(dbConnections.WithLabelValues("open")))
}
