package resource

import (
	"strconv"

	"github.com/foliospace/core/internal/pkg/apperrors"
	"github.com/foliospace/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler exposes one resource collection over REST. Reads are public and
// degrade on store failure so the site keeps rendering; writes are guarded by
// the admin auth middleware and always fail loudly.
type Handler[T any] struct {
	repo *Repository[T]
	log  *zap.Logger
}

// NewHandler builds a handler for one collection.
func NewHandler[T any](repo *Repository[T], log *zap.Logger) *Handler[T] {
	return &Handler[T]{repo: repo, log: log.Named(repo.Schema().Name)}
}

func (h *Handler[T]) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/" + h.repo.Schema().Name)
	g.GET("", h.list)
	g.GET("/:id", h.get)

	a := g.Group("", authMW)
	a.POST("", h.create)
	a.PUT("/:id", h.update)
	a.DELETE("/:id", h.delete)
}

func (h *Handler[T]) list(c *gin.Context) {
	filters := map[string]interface{}{}
	for _, field := range h.repo.Schema().Filters {
		raw := c.Query(field)
		if raw == "" {
			continue
		}
		if b, err := strconv.ParseBool(raw); err == nil && (raw == "true" || raw == "false") {
			filters[field] = b
		} else {
			filters[field] = raw
		}
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.BadRequest(c, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	items, err := h.repo.List(filters, limit)
	if err != nil {
		// Public pages never hard-fail on a content fetch: degrade to an
		// empty section and note the outage in the body.
		h.log.Error("list failed", zap.Error(err))
		response.ItemsDegraded(c, "content temporarily unavailable")
		return
	}
	response.Items(c, items)
}

func (h *Handler[T]) get(c *gin.Context) {
	item, err := h.repo.Get(c.Param("id"))
	if err != nil {
		if apperrors.IsNotFound(err) {
			response.NotFound(c)
			return
		}
		h.log.Error("get failed", zap.String("id", c.Param("id")), zap.Error(err))
		response.StoreUnavailable(c)
		return
	}
	response.OK(c, item)
}

func (h *Handler[T]) create(c *gin.Context) {
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, "invalid JSON body")
		return
	}

	item, err := h.repo.Create(payload)
	if err != nil {
		if apperrors.IsValidation(err) {
			response.BadRequest(c, err.Error())
			return
		}
		h.log.Error("create failed", zap.Error(err))
		response.StoreUnavailable(c)
		return
	}
	response.Created(c, item)
}

func (h *Handler[T]) update(c *gin.Context) {
	var partial map[string]interface{}
	if err := c.ShouldBindJSON(&partial); err != nil {
		response.BadRequest(c, "invalid JSON body")
		return
	}

	item, err := h.repo.Update(c.Param("id"), partial)
	if err != nil {
		switch {
		case apperrors.IsNotFound(err):
			response.NotFound(c)
		case apperrors.IsValidation(err):
			response.BadRequest(c, err.Error())
		default:
			h.log.Error("update failed", zap.String("id", c.Param("id")), zap.Error(err))
			response.StoreUnavailable(c)
		}
		return
	}
	response.OK(c, item)
}

func (h *Handler[T]) delete(c *gin.Context) {
	if err := h.repo.Delete(c.Param("id")); err != nil {
		if apperrors.IsNotFound(err) {
			response.NotFound(c)
			return
		}
		h.log.Error("delete failed", zap.String("id", c.Param("id")), zap.Error(err))
		response.StoreUnavailable(c)
		return
	}
	response.Message(c, "deleted")
}
