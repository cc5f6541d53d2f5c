// Package health aggregates store connectivity and record counts into a
// status payload for external monitoring.
package health

import (
	"context"
	"fmt"
	"net/http"

	"github.com/foliospace/core/internal/models"
	"github.com/foliospace/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ContentStore is the degraded-mode view the reporter needs from the blog
// store.
type ContentStore interface {
	Degraded() bool
}

// Report is the status payload returned by the health endpoints.
type Report struct {
	Status      string           `json:"status"` // ok | degraded | error
	Database    bool             `json:"database"`
	Fallback    bool             `json:"fallback_active"`
	Counts      map[string]int64 `json:"counts,omitempty"`
	Issues      []string         `json:"issues"`
	Suggestions []string         `json:"suggestions"`
}

// Reporter answers "is the system healthy". It performs no mutation; its only
// side effect is the connectivity check the blog store already does.
type Reporter struct {
	db    *gorm.DB
	store ContentStore
	log   *zap.Logger
}

func NewReporter(db *gorm.DB, store ContentStore, log *zap.Logger) *Reporter {
	return &Reporter{db: db, store: store, log: log.Named("health")}
}

// Check builds the status report. It never panics out: an unexpected fault is
// caught and reported as status "error" so the endpoint always answers.
func (r *Reporter) Check(ctx context.Context) (report Report) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("health check panicked", zap.Any("panic", rec))
			report = Report{
				Status:      "error",
				Issues:      []string{"health check failed unexpectedly"},
				Suggestions: []string{"check server logs for the failure detail"},
			}
		}
	}()

	report = Report{
		Status:      "ok",
		Issues:      []string{},
		Suggestions: []string{},
	}

	report.Database = r.pingDatabase(ctx)
	if !report.Database {
		report.Status = "degraded"
		report.Issues = append(report.Issues, "database unreachable")
		report.Suggestions = append(report.Suggestions, "verify database credentials and network connectivity")
	}

	if r.store != nil && r.store.Degraded() {
		report.Fallback = true
		report.Status = "degraded"
		report.Issues = append(report.Issues, "blog content served from fallback dataset")
		report.Suggestions = append(report.Suggestions, "restore primary store connectivity; no writes were accepted while degraded")
	}

	if report.Database {
		report.Counts = r.collectCounts(ctx)
	}

	return report
}

func (r *Reporter) pingDatabase(ctx context.Context) bool {
	sqlDB, err := r.db.DB()
	if err != nil {
		return false
	}
	return sqlDB.PingContext(ctx) == nil
}

func (r *Reporter) collectCounts(ctx context.Context) map[string]int64 {
	counts := make(map[string]int64, 6)
	for name, model := range map[string]interface{}{
		"projects":     &models.ProjectModel{},
		"skills":       &models.SkillModel{},
		"certificates": &models.CertificateModel{},
		"experience":   &models.ExperienceModel{},
		"blog_posts":   &models.BlogPostModel{},
		"visitors":     &models.VisitorModel{},
	} {
		var n int64
		if err := r.db.WithContext(ctx).Model(model).Count(&n).Error; err != nil {
			r.log.Warn("count failed", zap.String("collection", name), zap.Error(err))
			continue
		}
		counts[name] = n
	}
	return counts
}

// Handler exposes the reporter at /health plus the blog-scoped aliases.
type Handler struct{ reporter *Reporter }

func NewHandler(reporter *Reporter) *Handler { return &Handler{reporter: reporter} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.check)
	blogGroup := rg.Group("/blog")
	blogGroup.GET("/health", h.check)
	blogGroup.GET("/status", h.status)
}

func (h *Handler) check(c *gin.Context) {
	disableCache(c)
	report := h.reporter.Check(c.Request.Context())

	code := http.StatusOK
	if report.Status == "degraded" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, report)
}

// status is the verbose variant used by the admin dashboard; unlike check it
// always answers 200 so dashboards can render the body.
func (h *Handler) status(c *gin.Context) {
	disableCache(c)
	report := h.reporter.Check(c.Request.Context())
	response.OK(c, gin.H{
		"status":   report.Status,
		"database": report.Database,
		"fallback": report.Fallback,
		"counts":   report.Counts,
		"issues":   report.Issues,
		"summary":  summarize(report),
	})
}

func summarize(r Report) string {
	switch r.Status {
	case "ok":
		return "all systems operational"
	case "degraded":
		return fmt.Sprintf("degraded: %d issue(s)", len(r.Issues))
	default:
		return "health check error"
	}
}

func disableCache(c *gin.Context) {
	c.Header("Cache-Control", "no-store, no-cache, must-revalidate")
	c.Header("Pragma", "no-cache")
}
