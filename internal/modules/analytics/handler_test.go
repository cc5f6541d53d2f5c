package analytics

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/foliospace/core/internal/middleware"
	"github.com/foliospace/core/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const adminToken = "analytics-admin"

func analyticsRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, db := testService(t, nil)

	r := gin.New()
	api := r.Group("/api")
	NewHandler(svc, zap.NewNop()).RegisterRoutes(api, middleware.Auth(adminToken))
	return r, db
}

func track(r *gin.Engine, path, ua string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(body)
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", ua)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTrackVisitorStoresRecord(t *testing.T) {
	r, db := analyticsRouter(t)

	w := track(r, "/api/analytics/visitors", "Mozilla/5.0 (X11; Linux x86_64)", map[string]interface{}{
		"page_url":   "/blog/my-post",
		"session_id": "sess-42",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var n int64
	require.NoError(t, db.Model(&models.VisitorModel{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestTrackVisitorIgnoresBots(t *testing.T) {
	r, db := analyticsRouter(t)

	w := track(r, "/api/analytics/visitors", "Googlebot/2.1", map[string]interface{}{
		"page_url": "/",
	})
	assert.Equal(t, http.StatusAccepted, w.Code)

	var n int64
	require.NoError(t, db.Model(&models.VisitorModel{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestTrackEventRejectsUnknownKind(t *testing.T) {
	r, db := analyticsRouter(t)

	w := track(r, "/api/analytics/blog", "Mozilla/5.0", map[string]interface{}{
		"slug": "my-post",
		"kind": "hover",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var n int64
	require.NoError(t, db.Model(&models.BlogEventModel{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestAnalyticsReadsRequireAuth(t *testing.T) {
	r, _ := analyticsRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/visitors", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/analytics/visitors", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAnalyticsSummary(t *testing.T) {
	r, _ := analyticsRouter(t)

	track(r, "/api/analytics/visitors", "Mozilla/5.0", map[string]interface{}{"page_url": "/"})
	track(r, "/api/analytics/blog", "Mozilla/5.0", map[string]interface{}{"slug": "p", "kind": "view"})

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/summary", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Item map[string]int64 `json:"item"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 1, body.Item["visits_today"])
	assert.EqualValues(t, 1, body.Item["blog_events_today"])
}

func TestAnalyticsCleanupValidatesKeepDays(t *testing.T) {
	r, _ := analyticsRouter(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/analytics/visitors?keep_days=0", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
