package upload

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/foliospace/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Handler accepts a single image upload and stores it in blob storage.
// Size and type are enforced before any network call to storage.
type Handler struct {
	uploader Uploader
	maxBytes int64
	log      *zap.Logger
}

func NewHandler(uploader Uploader, maxBytes int64, log *zap.Logger) *Handler {
	return &Handler{uploader: uploader, maxBytes: maxBytes, log: log.Named("upload")}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.POST("/upload", authMW, h.upload)
}

func (h *Handler) upload(c *gin.Context) {
	if h.uploader == nil {
		response.BadRequest(c, "uploads are not configured")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	if fileHeader.Size > h.maxBytes {
		response.BadRequest(c, fmt.Sprintf("file exceeds the %dMB limit", h.maxBytes>>20))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.log.Error("open upload failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
	if err != nil {
		h.log.Error("read upload failed", zap.Error(err))
		response.InternalError(c)
		return
	}
	// The multipart header size can lie; re-check the actual bytes.
	if int64(len(payload)) > h.maxBytes {
		response.BadRequest(c, fmt.Sprintf("file exceeds the %dMB limit", h.maxBytes>>20))
		return
	}

	contentType := detectImageType(payload)
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		response.BadRequest(c, "unsupported file type: jpeg, png, webp or gif required")
		return
	}

	key := buildObjectKey(payload, ext)
	url, err := h.uploader.Upload(c.Request.Context(), key, payload, contentType)
	if err != nil {
		h.log.Error("upload failed", zap.String("key", key), zap.Error(err))
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"url": url, "name": filepath.Base(key)})
}

// detectImageType sniffs the content type from the payload bytes rather than
// trusting the client-declared header.
func detectImageType(payload []byte) string {
	contentType := http.DetectContentType(payload)
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.TrimSpace(contentType)
}

// buildObjectKey derives a content-addressed key so re-uploads of the same
// bytes land on the same object.
func buildObjectKey(payload []byte, ext string) string {
	sum := sha256.Sum256(payload)
	now := time.Now().UTC()
	return fmt.Sprintf("%d/%02d/%s%s", now.Year(), now.Month(), hex.EncodeToString(sum[:8]), ext)
}
