package blog

import (
	"crypto/subtle"
	"net/http"

	"github.com/foliospace/core/internal/middleware"
	"github.com/foliospace/core/internal/pkg/apperrors"
	"github.com/foliospace/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler exposes the blog content API: public reads that never hard-fail,
// admin writes, and the authenticated ingest webhook.
type Handler struct {
	store         *Store
	webhookSecret string
	log           *zap.Logger
}

func NewHandler(store *Store, webhookSecret string, log *zap.Logger) *Handler {
	return &Handler{store: store, webhookSecret: webhookSecret, log: log.Named("blog")}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/blog")
	g.GET("", h.list)
	g.GET("/slug/:slug", h.getBySlug)
	g.GET("/:id", h.getByID)
	g.POST("/webhook", h.webhook)

	a := g.Group("", authMW)
	a.GET("/all", h.listAll)
	a.POST("", h.create)
	a.PUT("/:id", h.update)
	a.DELETE("/:id", h.delete)
}

// list always answers 200: on an outage the body carries the fallback
// dataset and the fallback flag instead of an error status. Only published
// posts are visible here; drafts stay behind the admin listing.
func (h *Handler) list(c *gin.Context) {
	h.respondList(c, h.store.ListPosts(c.Request.Context(), true))
}

// listAll is the admin listing and includes unpublished drafts.
func (h *Handler) listAll(c *gin.Context) {
	h.respondList(c, h.store.ListPosts(c.Request.Context(), false))
}

func (h *Handler) respondList(c *gin.Context, result ListResult) {
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"items":    result.Posts,
		"fallback": result.Fallback,
	})
}

func (h *Handler) getBySlug(c *gin.Context) {
	post, fallback, err := h.store.GetBySlug(c.Request.Context(), c.Param("slug"))
	h.respondPost(c, post, fallback, err)
}

func (h *Handler) getByID(c *gin.Context) {
	post, fallback, err := h.store.GetByID(c.Request.Context(), c.Param("id"))
	h.respondPost(c, post, fallback, err)
}

func (h *Handler) respondPost(c *gin.Context, post interface{}, fallback bool, err error) {
	if err != nil {
		response.NotFound(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "item": post, "fallback": fallback})
}

func (h *Handler) create(c *gin.Context) {
	var dto CreatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid JSON body")
		return
	}
	h.createPost(c, &dto)
}

// webhook is the external-system entry point for creating a post. It shares
// the standard creation path but authenticates with the dedicated bearer
// secret. An unset secret locks the endpoint.
func (h *Handler) webhook(c *gin.Context) {
	token := middleware.NormalizeToken(c.GetHeader("Authorization"))
	if h.webhookSecret == "" || token == "" ||
		subtle.ConstantTimeCompare([]byte(token), []byte(h.webhookSecret)) != 1 {
		response.Unauthorized(c)
		return
	}

	var dto CreatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid JSON body")
		return
	}
	h.createPost(c, &dto)
}

func (h *Handler) createPost(c *gin.Context, dto *CreatePostDTO) {
	post, err := h.store.Create(c.Request.Context(), dto)
	if err != nil {
		if apperrors.IsValidation(err) {
			response.BadRequest(c, err.Error())
			return
		}
		h.log.Error("create post failed", zap.Error(err))
		response.StoreUnavailable(c)
		return
	}
	response.Created(c, post)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid JSON body")
		return
	}

	post, err := h.store.Update(c.Request.Context(), c.Param("id"), &dto)
	if err != nil {
		switch {
		case apperrors.IsNotFound(err):
			response.NotFound(c)
		case apperrors.IsValidation(err):
			response.BadRequest(c, err.Error())
		default:
			h.log.Error("update post failed", zap.String("id", c.Param("id")), zap.Error(err))
			response.StoreUnavailable(c)
		}
		return
	}
	response.OK(c, post)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if apperrors.IsNotFound(err) {
			response.NotFound(c)
			return
		}
		h.log.Error("delete post failed", zap.String("id", c.Param("id")), zap.Error(err))
		response.StoreUnavailable(c)
		return
	}
	response.Message(c, "deleted")
}
