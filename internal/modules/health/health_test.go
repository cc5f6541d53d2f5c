package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/foliospace/core/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubStore struct{ degraded bool }

func (s stubStore) Degraded() bool { return s.degraded }

func healthDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.ProjectModel{},
		&models.SkillModel{},
		&models.CertificateModel{},
		&models.ExperienceModel{},
		&models.BlogPostModel{},
		&models.VisitorModel{},
	))
	return db
}

func TestReporterHealthy(t *testing.T) {
	db := healthDB(t)
	require.NoError(t, db.Create(&models.ProjectModel{Title: "p", Description: "d", Category: "web"}).Error)

	report := NewReporter(db, stubStore{}, zap.NewNop()).Check(context.Background())
	assert.Equal(t, "ok", report.Status)
	assert.True(t, report.Database)
	assert.False(t, report.Fallback)
	assert.Empty(t, report.Issues)
	assert.EqualValues(t, 1, report.Counts["projects"])
	assert.EqualValues(t, 0, report.Counts["blog_posts"])
}

func TestReporterDegradedWhenStoreFallsBack(t *testing.T) {
	report := NewReporter(healthDB(t), stubStore{degraded: true}, zap.NewNop()).Check(context.Background())
	assert.Equal(t, "degraded", report.Status)
	assert.True(t, report.Fallback)
	assert.NotEmpty(t, report.Issues)
	assert.NotEmpty(t, report.Suggestions)
}

func TestReporterDegradedWhenDatabaseDown(t *testing.T) {
	db := healthDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	report := NewReporter(db, stubStore{}, zap.NewNop()).Check(context.Background())
	assert.Equal(t, "degraded", report.Status)
	assert.False(t, report.Database)
	assert.Nil(t, report.Counts)
}

func TestHealthEndpointCodes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, tc := range []struct {
		name     string
		degraded bool
		wantCode int
	}{
		{"healthy", false, http.StatusOK},
		{"degraded", true, http.StatusServiceUnavailable},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			api := r.Group("/api")
			NewHandler(NewReporter(healthDB(t), stubStore{degraded: tc.degraded}, zap.NewNop())).RegisterRoutes(api)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
			assert.Equal(t, tc.wantCode, w.Code)
			assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")
		})
	}
}

func TestBlogStatusAlways200(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")
	NewHandler(NewReporter(healthDB(t), stubStore{degraded: true}, zap.NewNop())).RegisterRoutes(api)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/blog/status", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Item map[string]interface{} `json:"item"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Item["status"])
	assert.NotEmpty(t, body.Item["summary"])
}
