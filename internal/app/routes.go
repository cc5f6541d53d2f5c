package app

import (
	"net/http"
	"time"

	"github.com/foliospace/core/internal/middleware"
	"github.com/foliospace/core/internal/models"
	"github.com/foliospace/core/internal/modules/analytics"
	"github.com/foliospace/core/internal/modules/blog"
	"github.com/foliospace/core/internal/modules/health"
	"github.com/foliospace/core/internal/modules/resource"
	"github.com/foliospace/core/internal/modules/upload"
	"github.com/foliospace/core/internal/pkg/geoip"
	"github.com/foliospace/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *App) registerRoutes() {
	r := a.router

	r.NoRoute(func(c *gin.Context) { response.NotFound(c) })
	r.NoMethod(func(c *gin.Context) { response.MethodNotAllowed(c) })

	api := r.Group("/api")
	if a.rc != nil {
		api.Use(middleware.RateLimit(a.rc.Raw()))
		api.Use(middleware.HTTPCache(a.rc.Raw(), 0))
		api.Use(middleware.Idempotence(a.rc.Raw()))
	}

	api.GET("", a.appInfo)
	api.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "pong"})
	})
	api.GET("/uptime", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"uptime":  time.Since(processStart).Round(time.Second).String(),
		})
	})

	authMW := middleware.Auth(a.cfg.AdminToken)

	api.POST("/cache/purge", authMW, func(c *gin.Context) {
		if a.rc == nil {
			c.JSON(http.StatusOK, gin.H{"success": true, "deleted": 0})
			return
		}
		deleted, err := middleware.PurgeHTTPCache(c.Request.Context(), a.rc.Raw())
		if err != nil {
			a.logger.Error("cache purge failed", zap.Error(err))
			response.InternalError(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "deleted": deleted})
	})

	blogStore := blog.NewStore(a.db, a.logger)

	health.NewHandler(health.NewReporter(a.db, blogStore, a.logger)).RegisterRoutes(api)

	resource.NewHandler(resource.NewRepository[models.ProjectModel](a.db, resource.Projects()), a.logger).RegisterRoutes(api, authMW)
	resource.NewHandler(resource.NewRepository[models.SkillModel](a.db, resource.Skills()), a.logger).RegisterRoutes(api, authMW)
	resource.NewHandler(resource.NewRepository[models.CertificateModel](a.db, resource.Certificates()), a.logger).RegisterRoutes(api, authMW)
	resource.NewHandler(resource.NewRepository[models.ExperienceModel](a.db, resource.Experience()), a.logger).RegisterRoutes(api, authMW)

	blog.NewHandler(blogStore, a.cfg.WebhookSecret, a.logger).RegisterRoutes(api, authMW)

	var geo analytics.GeoLookup
	if a.cfg.Geo.Enable {
		geo = geoip.New(a.cfg.Geo.Endpoint)
	}
	analytics.NewHandler(analytics.NewService(a.db, geo, a.logger), a.logger).RegisterRoutes(api, authMW)

	var uploader upload.Uploader
	if s3u, err := upload.NewS3Uploader(a.cfg.S3); err != nil {
		a.logger.Warn("uploads disabled", zap.Error(err))
	} else {
		uploader = s3u
	}
	upload.NewHandler(uploader, a.cfg.MaxUploadBytes(), a.logger).RegisterRoutes(api, authMW)
}

func (a *App) appInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"name":    "folio-core",
		"author":  "foliospace",
		"env":     a.cfg.Env,
	})
}
