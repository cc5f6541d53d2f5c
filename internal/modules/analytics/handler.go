package analytics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/foliospace/core/internal/pkg/apperrors"
	"github.com/foliospace/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Handler exposes the tracking ingest endpoints (public, fire-and-forget)
// and the admin read API.
type Handler struct {
	svc *Service
	log *zap.Logger
}

func NewHandler(svc *Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log.Named("analytics")}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/analytics")
	g.POST("/visitors", h.trackVisitor)
	g.POST("/blog", h.trackEvent)

	a := g.Group("", authMW)
	a.GET("/visitors", h.listVisitors)
	a.GET("/blog", h.listEvents)
	a.GET("/summary", h.summary)
	a.DELETE("/visitors", h.cleanup)
}

// trackVisitor ingests one visit. The record is enriched with the
// server-observed IP and user agent; the client cannot spoof either.
func (h *Handler) trackVisitor(c *gin.Context) {
	var dto VisitorDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid JSON body")
		return
	}

	ua := c.GetHeader("User-Agent")
	if isBotUA(ua) {
		// Acknowledge but do not store crawler traffic.
		c.JSON(http.StatusAccepted, gin.H{"success": true})
		return
	}

	visitor, err := h.svc.RecordVisitor(c.Request.Context(), &dto, c.ClientIP(), ua)
	if err != nil {
		h.log.Error("track visitor failed", zap.Error(err))
		response.StoreUnavailable(c)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "id": visitor.ID})
}

func (h *Handler) trackEvent(c *gin.Context) {
	var dto EventDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid JSON body")
		return
	}

	event, err := h.svc.RecordEvent(c.Request.Context(), &dto, c.ClientIP(), c.GetHeader("User-Agent"))
	if err != nil {
		if apperrors.IsValidation(err) {
			response.BadRequest(c, err.Error())
			return
		}
		h.log.Error("track event failed", zap.Error(err))
		response.StoreUnavailable(c)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "id": event.ID})
}

func (h *Handler) listVisitors(c *gin.Context) {
	page, size := pageParams(c)
	items, total, err := h.svc.ListVisitors(c.Request.Context(), (page-1)*size, size)
	if err != nil {
		h.log.Error("list visitors failed", zap.Error(err))
		response.StoreUnavailable(c)
		return
	}
	response.Paged(c, items, paginationOf(total, page, size))
}

func (h *Handler) listEvents(c *gin.Context) {
	page, size := pageParams(c)
	items, total, err := h.svc.ListEvents(c.Request.Context(), c.Query("slug"), (page-1)*size, size)
	if err != nil {
		h.log.Error("list events failed", zap.Error(err))
		response.StoreUnavailable(c)
		return
	}
	response.Paged(c, items, paginationOf(total, page, size))
}

func (h *Handler) summary(c *gin.Context) {
	out, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		h.log.Error("summary failed", zap.Error(err))
		response.StoreUnavailable(c)
		return
	}
	response.OK(c, out)
}

func (h *Handler) cleanup(c *gin.Context) {
	days := 90
	if raw := c.Query("keep_days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.BadRequest(c, "keep_days must be a positive integer")
			return
		}
		days = n
	}

	deleted, err := h.svc.CleanupBefore(c.Request.Context(), time.Now().AddDate(0, 0, -days))
	if err != nil {
		h.log.Error("cleanup failed", zap.Error(err))
		response.StoreUnavailable(c)
		return
	}
	response.OK(c, gin.H{"deleted": deleted})
}

func pageParams(c *gin.Context) (page, size int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	size, _ = strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultPageSize)))
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

func paginationOf(total int64, page, size int) response.Pagination {
	totalPage := int((total + int64(size) - 1) / int64(size))
	return response.Pagination{
		Total:       total,
		CurrentPage: page,
		TotalPage:   totalPage,
		Size:        size,
		HasNextPage: page < totalPage,
	}
}
